// Package notify delivers the failure message of an audit run to the
// configured channels.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/younsl/bucketwatch/internal/models"
)

// DefaultSubject is the title used by channels that have none configured
const DefaultSubject = "Backup bucket check failed"

// Message is a rendered notification
type Message struct {
	Subject string
	Body    string
}

// Channel is a single delivery mechanism
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Result is the outcome of one channel delivery
type Result struct {
	Channel string
	Err     error
}

// Notifier renders the message once and hands it to every channel
type Notifier struct {
	template string
	channels []Channel
	log      zerolog.Logger
}

// New creates a Notifier. An empty template falls back to DefaultTemplate.
func New(template string, log zerolog.Logger, channels ...Channel) *Notifier {
	if template == "" {
		template = DefaultTemplate
	}
	return &Notifier{
		template: template,
		channels: channels,
		log:      log,
	}
}

// Channels returns the number of enabled channels
func (n *Notifier) Channels() int {
	return len(n.channels)
}

// Message renders the notification for the report
func (n *Notifier) Message(report *models.AuditReport) Message {
	return Message{
		Subject: DefaultSubject,
		Body:    Render(n.template, FieldsFor(report)),
	}
}

// Notify sends the report to every channel. A failing channel does not stop
// the remaining ones.
func (n *Notifier) Notify(ctx context.Context, report *models.AuditReport) []Result {
	if len(n.channels) == 0 {
		n.log.Info().Msg("No notification channel configured")
		return nil
	}

	msg := n.Message(report)
	results := make([]Result, 0, len(n.channels))

	for _, ch := range n.channels {
		err := ch.Send(ctx, msg)
		results = append(results, Result{Channel: ch.Name(), Err: err})

		if err != nil {
			n.log.Error().Err(err).Str("channel", ch.Name()).Msg("Failed to send notification")
			continue
		}
		n.log.Info().Str("channel", ch.Name()).Msg("Notification sent")
	}
	return results
}
