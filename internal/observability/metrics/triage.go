package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	triageMeterName = "triage.service"
)

type TriageMetrics struct {
	decisionsTotal     metric.Int64Counter
	classifierSource   metric.Int64Counter
	classifierFallback metric.Int64Counter
	decideDuration     metric.Float64Histogram
	drainDuration      metric.Float64Histogram
	queueDepth         metric.Int64UpDownCounter
	promotionsTotal    metric.Int64Counter
	evictionsTotal     metric.Int64Counter
	bundlesReleased    metric.Int64Counter
	digestSize         metric.Int64Histogram
	deliveriesTotal    metric.Int64Counter
}

func NewTriageMetrics() (*TriageMetrics, error) {
	meter := otel.Meter(triageMeterName)

	decisionsTotal, err := meter.Int64Counter(
		"triage_decisions_total",
		metric.WithDescription("Total number of triage decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	classifierSource, err := meter.Int64Counter(
		"triage_classifications_total",
		metric.WithDescription("Classifications by producing path"),
		metric.WithUnit("{classification}"),
	)
	if err != nil {
		return nil, err
	}

	classifierFallback, err := meter.Int64Counter(
		"triage_classifier_fallbacks_total",
		metric.WithDescription("Remote scorer calls that fell back to the heuristic"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	decideDuration, err := meter.Float64Histogram(
		"triage_decide_duration_seconds",
		metric.WithDescription("Time spent deciding a single notification"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
		),
	)
	if err != nil {
		return nil, err
	}

	drainDuration, err := meter.Float64Histogram(
		"triage_drain_duration_seconds",
		metric.WithDescription("Drain tick duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	queueDepth, err := meter.Int64UpDownCounter(
		"triage_queue_depth",
		metric.WithDescription("Entries currently held across all user queues"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	promotionsTotal, err := meter.Int64Counter(
		"triage_stale_promotions_total",
		metric.WithDescription("Queue entries promoted a tier after going stale"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	evictionsTotal, err := meter.Int64Counter(
		"triage_queue_evictions_total",
		metric.WithDescription("Entries evicted from full user queues"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	bundlesReleased, err := meter.Int64Counter(
		"triage_bundles_released_total",
		metric.WithDescription("Bundles released as digests"),
		metric.WithUnit("{bundle}"),
	)
	if err != nil {
		return nil, err
	}

	digestSize, err := meter.Int64Histogram(
		"triage_digest_size",
		metric.WithDescription("Member count of released bundles"),
		metric.WithUnit("{notification}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 13, 21, 34),
	)
	if err != nil {
		return nil, err
	}

	deliveriesTotal, err := meter.Int64Counter(
		"triage_deliveries_total",
		metric.WithDescription("Deliveries handed to the gateway"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	return &TriageMetrics{
		decisionsTotal:    decisionsTotal,
		classifierSource:  classifierSource,
		classifierFallback: classifierFallback,
		decideDuration:    decideDuration,
		drainDuration:     drainDuration,
		queueDepth:        queueDepth,
		promotionsTotal:   promotionsTotal,
		evictionsTotal:    evictionsTotal,
		bundlesReleased:   bundlesReleased,
		digestSize:        digestSize,
		deliveriesTotal:   deliveriesTotal,
	}, nil
}

func (m *TriageMetrics) RecordDecision(ctx context.Context, action, activity, urgency, rule string) {
	attrs := []attribute.KeyValue{
		attribute.String("action", action),
		attribute.String("activity", activity),
		attribute.String("urgency", urgency),
		attribute.String("rule", rule),
	}
	attrs = appendLoadtestLabels(ctx, attrs)
	m.decisionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *TriageMetrics) RecordClassification(ctx context.Context, source, urgency string) {
	m.classifierSource.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("urgency", urgency),
	))
}

func (m *TriageMetrics) RecordClassifierFallback(ctx context.Context, reason string) {
	m.classifierFallback.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *TriageMetrics) RecordDecideDuration(ctx context.Context, duration time.Duration) {
	m.decideDuration.Record(ctx, duration.Seconds())
}

func (m *TriageMetrics) RecordDrainDuration(ctx context.Context, duration time.Duration) {
	m.drainDuration.Record(ctx, duration.Seconds())
}

func (m *TriageMetrics) AddQueueDepth(ctx context.Context, delta int64) {
	m.queueDepth.Add(ctx, delta)
}

func (m *TriageMetrics) RecordStalePromotion(ctx context.Context, fromPriority, toPriority string) {
	m.promotionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", fromPriority),
		attribute.String("to", toPriority),
	))
}

func (m *TriageMetrics) RecordQueueEviction(ctx context.Context, priority string) {
	m.evictionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("priority", priority),
	))
}

func (m *TriageMetrics) RecordBundleReleased(ctx context.Context, strategy, trigger string, size int) {
	m.bundlesReleased.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("trigger", trigger),
	))
	m.digestSize.Record(ctx, int64(size), metric.WithAttributes(
		attribute.String("strategy", strategy),
	))
}

func (m *TriageMetrics) RecordDelivery(ctx context.Context, action, outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	}
	attrs = appendLoadtestLabels(ctx, attrs)
	m.deliveriesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
