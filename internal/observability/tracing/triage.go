package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const triageTracerName = "github.com/lumenwell/lumen-notification-triage/internal/service/triage"

func TriageTracer() trace.Tracer {
	return otel.Tracer(triageTracerName)
}

func StartDecideSpan(ctx context.Context, notificationID, userID string) (context.Context, trace.Span) {
	return TriageTracer().Start(ctx, "triage.decide",
		trace.WithAttributes(
			attribute.String("notification_id", notificationID),
			attribute.String("user_id", userID),
		),
	)
}

func StartDrainSpan(ctx context.Context, userID string, at time.Time) (context.Context, trace.Span) {
	return TriageTracer().Start(ctx, "triage.drain",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("drain.at", at.Format(time.RFC3339)),
		),
	)
}

func StartScorerSpan(ctx context.Context, url string) (context.Context, trace.Span) {
	return TriageTracer().Start(ctx, "triage.scorer.classify",
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartDeliverySpan(ctx context.Context, action, notificationID string) (context.Context, trace.Span) {
	return TriageTracer().Start(ctx, "triage.gateway.deliver",
		trace.WithAttributes(
			attribute.String("action", action),
			attribute.String("notification_id", notificationID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordDecideResult(span trace.Span, action, activity, urgency, rule string, err error) {
	span.SetAttributes(
		attribute.String("decide.action", action),
		attribute.String("decide.activity", activity),
		attribute.String("decide.urgency", urgency),
		attribute.String("decide.rule", rule),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordDrainResult(span trace.Span, delivered, requeued, bundlesReleased int, err error) {
	span.SetAttributes(
		attribute.Int("drain.delivered_count", delivered),
		attribute.Int("drain.requeued_count", requeued),
		attribute.Int("drain.bundles_released", bundlesReleased),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordDeliveryResult(span trace.Span, attempts int, err error) {
	span.SetAttributes(
		attribute.Int("delivery.attempts", attempts),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
