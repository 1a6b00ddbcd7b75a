package email

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	sent []*Email
	err  error
}

func (p *recordingProvider) Send(email *Email) error {
	p.sent = append(p.sent, email)
	return p.err
}

func (p *recordingProvider) Validate() error { return nil }

func TestTemplateManager_BuiltinNotification(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)
	assert.Contains(t, tm.TemplateNames(), "notification")

	html, err := tm.Render("notification", TemplateData{"Title": "New review", "Body": "<b>5 stars</b>"})
	require.NoError(t, err)
	assert.Contains(t, html, "New review")
	assert.Contains(t, html, "&lt;b&gt;5 stars&lt;/b&gt;")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestTemplateManager_LoadTemplatesOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notification.html"), []byte("<p>{{ .Title }}!</p>"), 0o644))

	tm, err := NewTemplateManager()
	require.NoError(t, err)
	require.NoError(t, tm.LoadTemplates(dir))
	require.NoError(t, tm.LoadTemplates(filepath.Join(dir, "absent")))

	html, err := tm.Render("notification", TemplateData{"Title": "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi!</p>", html)
}

func TestNotificationMailer_SendNotification(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)
	provider := &recordingProvider{}
	mailer := NewNotificationMailer(provider, tm)

	require.NoError(t, mailer.SendNotification("pro@test.com", "Job completed", "Done."))
	require.Len(t, provider.sent, 1)

	msg := provider.sent[0]
	assert.Equal(t, []string{"pro@test.com"}, msg.To)
	assert.Equal(t, "Job completed", msg.Subject)
	assert.Equal(t, "Done.", msg.Body)
	assert.Contains(t, msg.HTMLBody, "Job completed")

	provider.err = errors.New("smtp down")
	assert.Error(t, mailer.SendNotification("pro@test.com", "x", "y"))
}

func TestSMTPProvider_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SMTPConfig
		wantErr bool
	}{
		{"ok", SMTPConfig{Host: "smtp.test", Port: 587, FromEmail: "no-reply@test.com"}, false},
		{"no host", SMTPConfig{Port: 587, FromEmail: "no-reply@test.com"}, true},
		{"bad port", SMTPConfig{Host: "smtp.test", Port: 70000, FromEmail: "no-reply@test.com"}, true},
		{"no sender", SMTPConfig{Host: "smtp.test", Port: 587}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := NewSMTPProvider(&cfg).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogMailer_NoOp(t *testing.T) {
	assert.NoError(t, LogMailer{}.SendNotification("a@test.com", "s", "b"))
}
