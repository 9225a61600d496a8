package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PushoverEndpoint is the Pushover message API
const PushoverEndpoint = "https://api.pushover.net/1/messages.json"

// Pushover sends push notifications through the Pushover API
type Pushover struct {
	Token    string // application token
	User     string // user or group key
	Endpoint string
	Client   *http.Client
}

// NewPushover creates a push channel for the given application and user keys
func NewPushover(token, user string) *Pushover {
	return &Pushover{
		Token:    token,
		User:     user,
		Endpoint: PushoverEndpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *Pushover) Name() string { return "pushover" }

// Send posts the message as a form encoded request
func (p *Pushover) Send(ctx context.Context, msg Message) error {
	form := url.Values{
		"token":   {p.Token},
		"user":    {p.User},
		"title":   {msg.Subject},
		"message": {msg.Body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending pushover request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("pushover returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
