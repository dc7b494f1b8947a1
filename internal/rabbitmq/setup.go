package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// NotificationExchange — exchange, через который проходят все письма сервиса.
const NotificationExchange = "notifications"

// Очереди и ключи маршрутизации для писем.
const (
	WelcomeQueue   = "notification.welcome"
	WelcomeKey     = "welcome"
	ResetQueue     = "notification.reset"
	ResetKey       = "reset"
	ReturningQueue = "notification.returning"
	ReturningKey   = "returning"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает набор очередей, которые потребляет
// сервис отправки писем.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: WelcomeQueue, RoutingKey: WelcomeKey},
		{QueueName: ResetQueue, RoutingKey: ResetKey},
		{QueueName: ReturningQueue, RoutingKey: ReturningKey},
	}
}

// SetupChannel открывает канал, объявляет exchange и привязывает к нему
// переданные очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		NotificationExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			NotificationExchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
