package notifier

import (
	"context"

	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/logger"
)

// LogNotifier writes notifications to the structured log only. Used when
// email notifications are disabled.
type LogNotifier struct{}

var _ interfaces.Notifier = (*LogNotifier)(nil)

func NewLog() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) Notify(ctx context.Context, subject, body string) {
	logger.Info(ctx, "Notification", "subject", subject, "body", body)
}
