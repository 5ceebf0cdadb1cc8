package notify

import (
	"context"
	"log/slog"
	"time"
)

// LogNotifier writes notifications to the log. The daemon uses it when no
// presentation layer is attached.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

func (n LogNotifier) QuarantineEnded(ctx context.Context, end time.Time) {
	n.logger().InfoContext(ctx, "notification", "kind", "quarantine_ended", "end", end)
}

func (n LogNotifier) QuarantineReminder(ctx context.Context) {
	n.logger().InfoContext(ctx, "notification", "kind", "quarantine_reminder")
}

func (n LogNotifier) SelfMonitoringReminder(ctx context.Context) {
	n.logger().InfoContext(ctx, "notification", "kind", "self_monitoring_reminder")
}

func (n LogNotifier) ShowQuarantineEnd(ctx context.Context) {
	n.logger().InfoContext(ctx, "notification", "kind", "show_quarantine_end")
}
