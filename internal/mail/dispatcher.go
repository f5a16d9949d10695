package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var ErrDispatcherClosed = errors.New("mail dispatcher closed")

// sendTimeout bounds a single SMTP delivery attempt.
const sendTimeout = 30 * time.Second

type job struct {
	email  Email
	result chan error // nil for fire-and-forget jobs
}

// Dispatcher runs a bounded pool of delivery workers. Callers that must block
// on delivery use Send; notification-only mail goes through Enqueue and
// failures there are logged, not surfaced.
type Dispatcher struct {
	mailer    Mailer
	logger    *slog.Logger
	jobs      chan job
	done      chan struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool
	closeOnce sync.Once
	dropped   atomic.Uint64
}

func NewDispatcher(mailer Mailer, logger *slog.Logger, workers, bufferSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}

	d := &Dispatcher{
		mailer: mailer,
		logger: logger,
		jobs:   make(chan job, bufferSize),
		done:   make(chan struct{}),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.run()
	}

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case j := <-d.jobs:
			d.deliver(j)
		case <-d.done:
			for {
				select {
				case j := <-d.jobs:
					d.deliver(j)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	err := d.mailer.Send(ctx, j.email)
	cancel()

	if j.result != nil {
		j.result <- err
		return
	}
	if err != nil {
		d.logger.Error("notification email delivery failed",
			"to", j.email.To,
			"subject", j.email.Subject,
			"error", err,
		)
	}
}

// Send queues the email and waits for the delivery outcome.
func (d *Dispatcher) Send(ctx context.Context, email Email) error {
	if d.closed.Load() {
		return ErrDispatcherClosed
	}

	result := make(chan error, 1)
	select {
	case d.jobs <- job{email: email, result: result}:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrDispatcherClosed
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue queues the email without waiting. When the buffer is full the mail
// is dropped and counted rather than blocking the caller.
func (d *Dispatcher) Enqueue(email Email) {
	if d.closed.Load() {
		return
	}

	select {
	case d.jobs <- job{email: email}:
	case <-d.done:
	default:
		d.dropped.Add(1)
		d.logger.Warn("mail dispatcher buffer full, dropping notification",
			"to", email.To,
			"subject", email.Subject,
		)
	}
}

// Close stops accepting mail, drains queued jobs and waits for the workers.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns the number of notifications discarded due to a full buffer.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}
