package email

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/portfolio/store"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// sendMail is swapped in tests.
var sendMail = smtp.SendMail

// Send delivers msg through the configured SMTP server.
func Send(config *Config, msg *Message) error {
	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "invalid email configuration")
	}
	if len(msg.To) == 0 {
		return errors.New("at least one recipient is required")
	}

	var auth smtp.Auth
	if config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, config.SMTPHost)
	}
	if err := sendMail(config.GetServerAddress(), auth, config.FromEmail, msg.To, buildMessage(config, msg)); err != nil {
		return errors.Wrapf(err, "failed to send email via %s", config.GetServerAddress())
	}
	return nil
}

func buildMessage(config *Config, msg *Message) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", config.From())
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return b.Bytes()
}

// Notifier mails contact messages to the site owner.
type Notifier struct {
	config *Config
	to     string
}

func NewNotifier(config *Config, to string) (*Notifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if to == "" {
		return nil, errors.New("recipient address is required")
	}
	return &Notifier{config: config, to: to}, nil
}

func (*Notifier) Name() string {
	return "email"
}

func (n *Notifier) Notify(ctx context.Context, msg *store.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Send(n.config, &Message{
		To:      []string{n.to},
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("[Portfolio] %s", msg.Subject),
		Body: fmt.Sprintf("New contact message %s\n\nFrom: %s <%s>\nSubject: %s\n\n%s\n",
			msg.Reference, msg.Name, msg.Email, msg.Subject, msg.Message),
	})
}
