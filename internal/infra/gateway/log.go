package gateway

import (
	"context"
	"log/slog"
)

// LogGateway writes deliveries to the log instead of pushing anywhere.
// It is the default when no delivery URL is configured, for local work
// and tests.
type LogGateway struct{}

func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

func (g *LogGateway) Deliver(ctx context.Context, delivery *Delivery) error {
	slog.InfoContext(ctx, "delivery (log only)",
		slog.String("event", "gateway.deliver"),
		slog.String("kind", string(delivery.Kind)),
		slog.String("action", delivery.Action),
		slog.String("user_id", delivery.UserID),
		slog.String("notification_id", delivery.NotificationID),
		slog.String("bundle_key", delivery.BundleKey),
		slog.String("summary", delivery.Summary),
	)
	return nil
}
