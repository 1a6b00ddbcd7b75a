package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"masterhub_backend/internal/identity"
	"masterhub_backend/internal/notifications"
)

// FakeTranslator - детерминированный провайдер перевода.
// Язык определяется по Languages (текст -> язык), по умолчанию "en".
// Перевод имеет вид "[target] text". Failing - локали, на которых провайдер падает.
type FakeTranslator struct {
	Languages map[string]string
	Failing   map[string]bool

	mu    sync.Mutex
	calls int
}

func (f *FakeTranslator) Detect(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	for prefix, lang := range f.Languages {
		if len(text) >= len(prefix) && text[:len(prefix)] == prefix {
			return lang, nil
		}
	}
	return "en", nil
}

func (f *FakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.Failing[target] {
		return "", errors.New("translation backend unavailable")
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}

func (f *FakeTranslator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// RecordingPusher запоминает отправленные по websocket события
type RecordingPusher struct {
	mu     sync.Mutex
	Events map[string][]notifications.Event
}

func NewRecordingPusher() *RecordingPusher {
	return &RecordingPusher{Events: map[string][]notifications.Event{}}
}

func (p *RecordingPusher) PushToUser(userID string, event notifications.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events[userID] = append(p.Events[userID], event)
}

func (p *RecordingPusher) For(userID string) []notifications.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifications.Event(nil), p.Events[userID]...)
}

// SentMail - письмо, отправленное через RecordingMailer
type SentMail struct {
	To, Subject, Body string
}

type RecordingMailer struct {
	mu   sync.Mutex
	Sent []SentMail
}

func (m *RecordingMailer) SendNotification(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *RecordingMailer) All() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.Sent...)
}

// JWTSecret - секрет, которым тесты подписывают токены провайдера
const JWTSecret = "test-secret-key-for-hs256-tokens"

// JWTAudience совпадает со значением по умолчанию в конфиге
const JWTAudience = "authenticated"

// Token выпускает токен принципала для тестового сервера
func Token(t *testing.T, subject, email string) string {
	t.Helper()
	token, err := identity.IssueToken(JWTSecret, subject, email, JWTAudience, time.Hour)
	if err != nil {
		t.Fatalf("Не удалось выпустить токен: %v", err)
	}
	return token
}
