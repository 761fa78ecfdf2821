package notification

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of delivering them. Default
// sender when SES is not configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	l.logger.InfoContext(ctx, "notification (log only)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
