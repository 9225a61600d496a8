package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younsl/bucketwatch/internal/models"
)

type fakeChannel struct {
	name string
	err  error
	sent []Message
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(_ context.Context, msg Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func failedReport() *models.AuditReport {
	return &models.AuditReport{
		Cutoff:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxAgeDays: 7,
		Failed:     []models.BucketResult{{Name: "beta", Status: models.StatusFail}},
	}
}

func TestNotifier_PushFailureStillSendsEmail(t *testing.T) {
	push := &fakeChannel{name: "pushover", err: errors.New("503 Service Unavailable")}
	mail := &fakeChannel{name: "email"}

	n := New("{failedbuckets}", zerolog.Nop(), push, mail)
	results := n.Notify(context.Background(), failedReport())

	require.Len(t, results, 2)
	assert.Equal(t, "pushover", results[0].Channel)
	assert.Error(t, results[0].Err)
	assert.Equal(t, "email", results[1].Channel)
	assert.NoError(t, results[1].Err)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "beta (last modified: unknown)", mail.sent[0].Body)
	assert.Equal(t, DefaultSubject, mail.sent[0].Subject)
}

func TestNotifier_NoChannels(t *testing.T) {
	n := New("", zerolog.Nop())
	assert.Zero(t, n.Channels())
	assert.Empty(t, n.Notify(context.Background(), failedReport()))
	assert.Contains(t, n.Message(failedReport()).Body, "max age 7 days")
}

func TestPushover_Send(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		got = r.PostForm
		_, _ = io.WriteString(w, `{"status":1}`)
	}))
	defer srv.Close()

	p := NewPushover("app-token", "user-key")
	p.Endpoint = srv.URL

	require.NoError(t, p.Send(context.Background(), Message{Subject: "title", Body: "line1\nline2"}))
	assert.Equal(t, "app-token", got.Get("token"))
	assert.Equal(t, "user-key", got.Get("user"))
	assert.Equal(t, "title", got.Get("title"))
	assert.Equal(t, "line1\nline2", got.Get("message"))
}

func TestPushover_SendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"user":"invalid","status":0}`)
	}))
	defer srv.Close()

	p := NewPushover("app-token", "bad-user")
	p.Endpoint = srv.URL

	err := p.Send(context.Background(), Message{Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "invalid")
}

func TestEmail_Send(t *testing.T) {
	var (
		gotAddr string
		gotAuth smtp.Auth
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	e := NewEmail("", "watch@example.com", []string{"ops@example.com", "oncall@example.com"}, "Backups stale", "", "")
	e.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, string(msg)
		return nil
	}

	require.NoError(t, e.Send(context.Background(), Message{Subject: DefaultSubject, Body: "a\nb"}))
	assert.Equal(t, DefaultSMTPServer, gotAddr)
	assert.Nil(t, gotAuth)
	assert.Equal(t, "watch@example.com", gotFrom)
	assert.Equal(t, []string{"ops@example.com", "oncall@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Backups stale\r\n")
	assert.Contains(t, gotMsg, "To: ops@example.com, oncall@example.com\r\n")
	assert.Contains(t, gotMsg, "\r\n\r\na\r\nb\r\n")
}

func TestEmail_HeadersDateAndEncodedSubject(t *testing.T) {
	var gotMsg string
	e := NewEmail("", "watch@example.com", []string{"ops@example.com"}, "Sauvegardes périmées", "", "")
	e.now = func() time.Time { return time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC) }
	e.sendMail = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}

	require.NoError(t, e.Send(context.Background(), Message{Subject: DefaultSubject, Body: "b"}))
	assert.Contains(t, gotMsg, "Date: Tue, 05 Mar 2024 08:30:00 +0000\r\n")
	assert.Contains(t, gotMsg, "Subject: =?utf-8?q?Sauvegardes_p=C3=A9rim=C3=A9es?=\r\n")
	assert.NotContains(t, gotMsg, "périmées")
}

func TestEmail_SendWithAuthAndFailure(t *testing.T) {
	e := NewEmail("smtp.example.com:587", "watch@example.com", []string{"ops@example.com"}, "", "user", "pass")

	var gotAuth smtp.Auth
	e.sendMail = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
		gotAuth = a
		return errors.New("535 authentication failed")
	}

	err := e.Send(context.Background(), Message{Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.NotNil(t, gotAuth)
	assert.Contains(t, err.Error(), "smtp.example.com:587")
}

func TestEmail_SendCancelled(t *testing.T) {
	e := NewEmail("", "a@example.com", []string{"b@example.com"}, "", "", "")
	e.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("must not dial after cancellation")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Send(ctx, Message{}), context.Canceled)
}
