package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chris/referral-ledger/pkg/metrics"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher sends notifications in the background. Delivery failures are
// logged and never reported to the caller.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		notifier: notifier,
		logger:   logger,
		timeout:  defaultSendTimeout,
	}
}

// Dispatch hands the notifications to the notifier without waiting for delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, notifications ...Notification) {
	if d == nil || d.notifier == nil || len(notifications) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, n := range notifications {
			d.send(ctx, n)
		}
	}()
}

func (d *Dispatcher) send(ctx context.Context, n Notification) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, n); err != nil {
		metrics.NotificationFailures.WithLabelValues(string(n.Kind)).Inc()
		d.logger.Error("failed to deliver notification", "kind", n.Kind, "recipient", n.Recipient, "error", err)
	}
}

// Wait blocks until all dispatched notifications have been handed off.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
