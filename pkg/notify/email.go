package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// DefaultSMTPServer is the relay used when none is configured
const DefaultSMTPServer = "localhost:25"

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Email sends plain text mail through an SMTP relay
type Email struct {
	Server   string
	From     string
	To       []string
	Subject  string // overrides the message subject when set
	Username string
	Password string

	sendMail sendMailFunc
	now      func() time.Time
}

// NewEmail creates a mail channel
func NewEmail(server, from string, to []string, subject, username, password string) *Email {
	if server == "" {
		server = DefaultSMTPServer
	}
	return &Email{
		Server:   server,
		From:     from,
		To:       to,
		Subject:  subject,
		Username: username,
		Password: password,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

func (e *Email) Name() string { return "email" }

// Send submits the message to the relay. net/smtp has no context support, so
// ctx is only checked before dialing.
func (e *Email) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if e.Username != "" {
		host, _, err := net.SplitHostPort(e.Server)
		if err != nil {
			return fmt.Errorf("invalid smtp server %q: %w", e.Server, err)
		}
		auth = smtp.PlainAuth("", e.Username, e.Password, host)
	}

	subject := msg.Subject
	if e.Subject != "" {
		subject = e.Subject
	}

	if err := e.sendMail(e.Server, auth, e.From, e.To, e.compose(subject, msg.Body)); err != nil {
		return fmt.Errorf("error sending mail via %s: %w", e.Server, err)
	}
	return nil
}

func (e *Email) compose(subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + e.From + "\r\n")
	b.WriteString("To: " + strings.Join(e.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + e.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
