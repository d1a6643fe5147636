package alerts

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/model"
)

// Notifier delivers a push payload for a triggered alert.
type Notifier interface {
	Send(ctx context.Context, msg model.PushMessage) error
}

// LogNotifier logs payloads instead of delivering them. Used when no
// push backend is configured and in tests.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, msg model.PushMessage) error {
	log.Info().
		Str("symbol", msg.Data.Symbol).
		Str("alertId", msg.Data.AlertID).
		Str("title", msg.Notification.Title).
		Msg("push notification (log only)")
	return nil
}
