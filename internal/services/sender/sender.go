// Package sender реализует отправку писем, поставленных в очередь уведомлений.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/track-auth/internal/lib/sl"
	"github.com/magabrotheeeer/track-auth/internal/lib/smtp"
	"github.com/magabrotheeeer/track-auth/internal/models"
)

// SenderService разбирает сообщения очереди и отправляет письма через SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
	resetURL  string
}

// NewSenderService создает новый экземпляр SenderService.
// resetURL — адрес страницы восстановления, к которому добавляется токен.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface, resetURL string) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
		resetURL:  resetURL,
	}
}

// SendWelcomeEmail отправляет приветственное HTML-письмо новому пользователю.
func (s *SenderService) SendWelcomeEmail(body []byte) error {
	var message models.WelcomeEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal welcome message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := fmt.Sprintf("Welcome to Track, %s!", message.Name)
	bodyHTML := buildWelcomeHTML(message.Name)

	return s.sendEmail([]string{message.Email}, subject, bodyHTML, true)
}

// SendResetEmail отправляет письмо восстановления пароля со ссылкой,
// содержащей токен. Письмо текстовое.
func (s *SenderService) SendResetEmail(body []byte) error {
	var message models.ResetEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal reset message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	resetLink := s.resetURL + "?token=" + message.Token
	subject := "Password Reset Request"
	bodyText := fmt.Sprintf("Hi,\n\n"+
		"You requested to reset your password. Please click the link below:\n"+
		"%s\n\n"+
		"This link will expire in 15 minutes.\n\n"+
		"If you did not request this, please ignore this email.\n\n"+
		"Thanks,\nTrack Team", resetLink)

	return s.sendEmail([]string{message.Email}, subject, bodyText, false)
}

// SendReturningOfferEmail отправляет HTML-письмо вернувшемуся пользователю.
func (s *SenderService) SendReturningOfferEmail(body []byte) error {
	var message models.ReturningEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal returning message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := fmt.Sprintf("Welcome back, %s!", message.Name)
	bodyHTML := buildReturningOfferHTML(message.Name)

	return s.sendEmail([]string{message.Email}, subject, bodyHTML, true)
}

func buildWelcomeHTML(name string) string {
	return "<html>" +
		"<body style='font-family: Arial, sans-serif; background-color: #f4f6f8; padding: 20px;'>" +
		"<div style='max-width: 600px; margin: auto; background: #fff; border-radius: 10px; padding: 25px;'>" +
		"<h2 style='color: #222;'>Hello, <span style='color: #0072ff;'>" + name + "</span>!</h2>" +
		"<p style='font-size: 15px; color: #444;'>Welcome to Track. Your account is ready to use.</p>" +
		"<p style='font-size: 13px; color: #888;'>This is an automated message, please do not reply.</p>" +
		"</div>" +
		"</body>" +
		"</html>"
}

func buildReturningOfferHTML(name string) string {
	return "<html>" +
		"<body style='font-family: Arial, sans-serif; background-color: #f0f8ff; padding: 20px;'>" +
		"<div style='max-width: 600px; margin: auto; background: #fff; border-radius: 10px; padding: 25px;'>" +
		"<h2 style='color: #222;'>Welcome back, <span style='color: #28a745;'>" + name + "</span></h2>" +
		"<p style='font-size: 15px; color: #444;'>We've got some exciting news and offers for you!</p>" +
		"<ul style='color: #555;'>" +
		"<li>Exclusive discount on your next order</li>" +
		"<li>Invite-only access to our upcoming event</li>" +
		"</ul>" +
		"</div>" +
		"</body>" +
		"</html>"
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string, html bool) error {
	contentType := "text/plain; charset=\"UTF-8\""
	if html {
		contentType = "text/html; charset=\"UTF-8\""
	}
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
