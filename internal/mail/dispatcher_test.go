package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/skycast/auth-service/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingMailer captures delivered emails and can be told to fail or block.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []mail.Email
	fail    error
	started chan struct{} // signalled once per delivery start, if set
	release chan struct{} // delivery blocks on this, if set
}

func (m *recordingMailer) Send(_ context.Context, email mail.Email) error {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) delivered() []mail.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Email(nil), m.sent...)
}

func TestDispatcher_SendDeliversAndReportsOutcome(t *testing.T) {
	mailer := &recordingMailer{}
	d := mail.NewDispatcher(mailer, testLogger(), 2, 8)
	defer d.Close()

	email := mail.Email{To: "test@example.com", Subject: "hello", HTMLBody: "<p>hi</p>"}
	require.NoError(t, d.Send(context.Background(), email))

	delivered := mailer.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "test@example.com", delivered[0].To)
}

func TestDispatcher_SendSurfacesDeliveryError(t *testing.T) {
	wantErr := errors.New("smtp refused")
	mailer := &recordingMailer{fail: wantErr}
	d := mail.NewDispatcher(mailer, testLogger(), 1, 1)
	defer d.Close()

	err := d.Send(context.Background(), mail.Email{To: "test@example.com"})
	assert.ErrorIs(t, err, wantErr)
}

func TestDispatcher_SendAfterClose(t *testing.T) {
	d := mail.NewDispatcher(&recordingMailer{}, testLogger(), 1, 1)
	d.Close()

	err := d.Send(context.Background(), mail.Email{To: "test@example.com"})
	assert.ErrorIs(t, err, mail.ErrDispatcherClosed)
}

func TestDispatcher_EnqueueDropsWhenBufferFull(t *testing.T) {
	mailer := &recordingMailer{
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	d := mail.NewDispatcher(mailer, testLogger(), 1, 1)

	// The single worker picks this up and blocks inside Send.
	d.Enqueue(mail.Email{To: "first@example.com"})
	<-mailer.started

	// Fills the one-slot buffer.
	d.Enqueue(mail.Email{To: "second@example.com"})

	// Nowhere to go: dropped, not blocked.
	d.Enqueue(mail.Email{To: "third@example.com"})
	assert.Equal(t, uint64(1), d.Dropped())

	close(mailer.release)
	<-mailer.started // second delivery begins before Close returns
	d.Close()
}

func TestDispatcher_CloseDrainsQueuedMail(t *testing.T) {
	mailer := &recordingMailer{}
	d := mail.NewDispatcher(mailer, testLogger(), 1, 8)

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		d.Enqueue(mail.Email{To: to})
	}
	d.Close()

	assert.Len(t, mailer.delivered(), 3)
	assert.Equal(t, uint64(0), d.Dropped())
}

func TestDispatcher_SendHonorsContext(t *testing.T) {
	mailer := &recordingMailer{
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	d := mail.NewDispatcher(mailer, testLogger(), 1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Worker is stuck on the first mail; the buffered second fills the queue,
	// so a blocking Send must give up when its context lapses.
	d.Enqueue(mail.Email{To: "first@example.com"})
	<-mailer.started
	d.Enqueue(mail.Email{To: "second@example.com"})

	err := d.Send(ctx, mail.Email{To: "third@example.com"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(mailer.release)
	d.Close()
}
