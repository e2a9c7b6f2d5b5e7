package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct {
	Logger *slog.Logger
}

// Make sure we conform to the interface
var _ Notifier = (*LogNotifier)(nil)

// Notify logs the notification.
func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification", "kind", n.Kind, "recipient", n.Recipient, "text", n.Text())
	return nil
}
