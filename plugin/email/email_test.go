package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/portfolio/store"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"missing host", Config{SMTPPort: 587, FromEmail: "a@b.c"}, "SMTP host is required"},
		{"bad port", Config{SMTPHost: "smtp", SMTPPort: 70000, FromEmail: "a@b.c"}, "SMTP port must be between 1 and 65535"},
		{"missing from", Config{SMTPHost: "smtp", SMTPPort: 587}, "from email is required"},
		{"ok", Config{SMTPHost: "smtp", SMTPPort: 587, FromEmail: "a@b.c"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestConfigFrom(t *testing.T) {
	c := &Config{FromEmail: "site@example.com", SMTPHost: "smtp.example.com", SMTPPort: 25}
	assert.Equal(t, "site@example.com", c.From())
	assert.Equal(t, "smtp.example.com:25", c.GetServerAddress())
	c.FromName = "Portfolio"
	assert.Equal(t, "Portfolio <site@example.com>", c.From())
}

func TestNotifier(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	orig := sendMail
	sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}
	t.Cleanup(func() { sendMail = orig })

	n, err := NewNotifier(&Config{SMTPHost: "smtp.example.com", SMTPPort: 587, FromEmail: "site@example.com"}, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "email", n.Name())

	err = n.Notify(context.Background(), &store.ContactMessage{
		Reference: "abc123",
		Name:      "Grace",
		Email:     "grace@example.com",
		Subject:   "Hello",
		Message:   "line one\nline two",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	body := string(gotBody)
	assert.Contains(t, body, "Reply-To: grace@example.com\r\n")
	assert.Contains(t, body, "Subject: [Portfolio] Hello\r\n")
	assert.Contains(t, body, "line one\r\nline two")
	assert.True(t, strings.Contains(body, "abc123"))
}

func TestNewNotifier_Invalid(t *testing.T) {
	_, err := NewNotifier(&Config{}, "owner@example.com")
	assert.Error(t, err)

	_, err = NewNotifier(&Config{SMTPHost: "smtp", SMTPPort: 25, FromEmail: "a@b.c"}, "")
	assert.Error(t, err)
}
