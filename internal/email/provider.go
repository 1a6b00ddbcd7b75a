package email

import (
	"fmt"

	"masterhub_backend/internal/logger"
)

// Provider определяет интерфейс для отправки email
type Provider interface {
	Send(email *Email) error
	Validate() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}

const notificationTemplate = "notification"

// NotificationMailer оборачивает уведомление в HTML-шаблон и отправляет через провайдер.
// Реализует notifications.Mailer.
type NotificationMailer struct {
	provider Provider
	renderer TemplateRenderer
}

func NewNotificationMailer(provider Provider, renderer TemplateRenderer) *NotificationMailer {
	return &NotificationMailer{provider: provider, renderer: renderer}
}

func (m *NotificationMailer) SendNotification(to, subject, body string) error {
	msg := &Email{To: []string{to}, Subject: subject, Body: body}

	if m.renderer != nil {
		html, err := m.renderer.Render(notificationTemplate, TemplateData{
			"Title": subject,
			"Body":  body,
		})
		if err != nil {
			return fmt.Errorf("failed to render notification email: %w", err)
		}
		msg.HTMLBody = html
	}

	return m.provider.Send(msg)
}

// LogMailer используется, когда отправка писем выключена
type LogMailer struct{}

func (LogMailer) SendNotification(to, subject, body string) error {
	logger.Debug("email disabled, notification not sent", "to", to, "subject", subject)
	return nil
}
