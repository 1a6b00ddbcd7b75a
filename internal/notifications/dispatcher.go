package notifications

import (
	"context"
	"sync"
	"time"

	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/models"
)

// Event - сообщение, которое уходит клиенту по websocket
type Event struct {
	Type string `json:"type"` // notification | message
	Data any    `json:"data"`
}

const (
	EventNotification = "notification"
	EventMessage      = "message"
)

// Pusher доставляет события подключенным клиентам
type Pusher interface {
	PushToUser(userID string, event Event)
}

// Mailer отправляет письмо о уведомлении
type Mailer interface {
	SendNotification(to, subject, body string) error
}

// Dispatcher доставляет уже сохраненные (закоммиченные) уведомления.
// Доставка best effort: ошибки только логируются.
type Dispatcher struct {
	pusher Pusher
	mailer Mailer
	wg     sync.WaitGroup
}

func NewDispatcher(pusher Pusher, mailer Mailer) *Dispatcher {
	return &Dispatcher{pusher: pusher, mailer: mailer}
}

// Deliver пушит уведомление и, если известен email, отправляет письмо в фоне
func (d *Dispatcher) Deliver(ctx context.Context, n *models.Notification, recipientEmail string) {
	if d == nil || n == nil {
		return
	}
	if d.pusher != nil {
		d.pusher.PushToUser(n.UserID, Event{Type: EventNotification, Data: n})
	}
	if d.mailer == nil || recipientEmail == "" {
		return
	}

	requestID := logger.GetRequestID(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.mailer.SendNotification(recipientEmail, n.Title, n.Body); err != nil {
			logger.With("request_id", requestID, "notification_id", n.ID).
				Warn("failed to send notification email", "error", err.Error())
		}
	}()
}

// Push отправляет произвольное событие (например, новое сообщение чата)
func (d *Dispatcher) Push(userID string, event Event) {
	if d == nil || d.pusher == nil {
		return
	}
	d.pusher.PushToUser(userID, event)
}

// Wait дожидается фоновых отправок писем (graceful shutdown, тесты)
func (d *Dispatcher) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
