package decisionrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

// NewRecorder builds the decision audit sink. Without a token and org
// the recorder degrades to a noop so triage never depends on the
// audit backend being up.
func NewRecorder(ctx context.Context, cfg *Config) (domain.DecisionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "decision audit recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, decision audit recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "decision audit recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordDecisions(ctx context.Context, records []domain.DecisionRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		// Wall clock as point time so repeated decisions for the same
		// notification never overwrite each other.
		pointTime := time.Now()

		point := influxdb2.NewPoint(
			"triage_decision",
			map[string]string{
				"action":   record.Action,
				"rule":     record.Rule,
				"activity": record.Activity,
				"urgency":  record.Urgency,
				"app_id":   record.AppID,
			},
			map[string]any{
				"notification_id": record.NotificationID,
				"user_id":         record.UserID,
				"confidence":      record.Confidence,
				"priority":        record.Priority,
				"decided_unix":    record.DecidedAt.Unix(),
			},
			pointTime,
		)

		if err := r.writeAPI.WritePoint(ctx, point); err != nil {
			slog.WarnContext(ctx, "failed to write decision to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("notification_id", record.NotificationID),
				slog.String("action", record.Action),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	r.client.Close()
	return nil
}
