// Package notify публикует почтовые уведомления в очередь RabbitMQ.
//
// Отправка писем асинхронная и негарантированная по отношению к основному
// потоку запроса: сервисы вызывают методы Notifier, не дожидаясь результата
// доставки, а ошибки публикации логируются и не прерывают операцию.
package notify

import (
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/track-auth/internal/lib/sl"
	"github.com/magabrotheeeer/track-auth/internal/models"
	"github.com/magabrotheeeer/track-auth/internal/rabbitmq"
)

// Notifier описывает контракт почтовых уведомлений для сервисного слоя.
type Notifier interface {
	SendWelcome(email, name string)
	SendReset(email, token string)
	SendReturningOffer(email, name string)
}

// Publisher публикует уведомления в exchange "notifications".
type Publisher struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// NewPublisher создает новый экземпляр Publisher.
func NewPublisher(ch *amqp.Channel, log *slog.Logger) *Publisher {
	return &Publisher{ch: ch, log: log}
}

// SendWelcome ставит в очередь приветственное письмо новому пользователю.
func (p *Publisher) SendWelcome(email, name string) {
	p.publish(rabbitmq.WelcomeKey, models.WelcomeEmail{Email: email, Name: name})
}

// SendReset ставит в очередь письмо восстановления пароля с токеном.
func (p *Publisher) SendReset(email, token string) {
	p.publish(rabbitmq.ResetKey, models.ResetEmail{Email: email, Token: token})
}

// SendReturningOffer ставит в очередь письмо вернувшемуся пользователю.
func (p *Publisher) SendReturningOffer(email, name string) {
	p.publish(rabbitmq.ReturningKey, models.ReturningEmail{Email: email, Name: name})
}

func (p *Publisher) publish(routingKey string, message any) {
	if err := rabbitmq.PublishMessage(p.ch, rabbitmq.NotificationExchange, routingKey, message); err != nil {
		p.log.Error("failed to publish notification",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}
