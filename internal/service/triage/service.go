package triage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/gateway"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/metrics"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/tracing"
	"github.com/lumenwell/lumen-notification-triage/internal/service/bundle"
	"github.com/lumenwell/lumen-notification-triage/internal/service/classify"
	"github.com/lumenwell/lumen-notification-triage/internal/service/contextres"
	"github.com/lumenwell/lumen-notification-triage/internal/service/filter"
	"github.com/lumenwell/lumen-notification-triage/internal/service/queue"
)

// Service runs the triage pipeline for one notification at a time:
// dedup, classify, resolve context, decide, route. Routing failures
// never drop a notification; the fallback path queues it at medium
// priority instead.
type Service struct {
	classifier *classify.Classifier
	resolver   *contextres.Resolver
	filter     *filter.Filter
	queues     *queue.Manager
	bundler    *bundle.Bundler
	gw         gateway.Gateway
	dedup      domain.DedupStore
	recorder   domain.DecisionRecorder

	triageMetrics *metrics.TriageMetrics
}

func NewService(
	classifier *classify.Classifier,
	resolver *contextres.Resolver,
	decisionFilter *filter.Filter,
	queues *queue.Manager,
	bundler *bundle.Bundler,
	gw gateway.Gateway,
	dedup domain.DedupStore,
	recorder domain.DecisionRecorder,
	triageMetrics *metrics.TriageMetrics,
) *Service {
	return &Service{
		classifier:    classifier,
		resolver:      resolver,
		filter:        decisionFilter,
		queues:        queues,
		bundler:       bundler,
		gw:            gw,
		dedup:         dedup,
		recorder:      recorder,
		triageMetrics: triageMetrics,
	}
}

// Process triages one notification at the virtual instant now. The
// notification must already be validated and normalized.
func (s *Service) Process(ctx context.Context, n domain.Notification, now time.Time) (*Result, error) {
	start := time.Now()

	ctx, span := tracing.StartDecideSpan(ctx, n.ID, n.UserID)
	defer span.End()

	first, err := s.dedup.FirstSeen(ctx, n.ID)
	if err != nil {
		// Dedup is an optimization; when the store is down we accept
		// the risk of a duplicate rather than reject the notification.
		slog.WarnContext(ctx, "dedup check failed, treating as first delivery",
			slog.String("event", "triage.dedup.fail"),
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()),
		)
		first = true
	}
	if !first {
		slog.InfoContext(ctx, "duplicate notification ignored",
			slog.String("event", "triage.duplicate"),
			slog.String("notification_id", n.ID),
			slog.String("user_id", n.UserID),
		)
		return &Result{NotificationID: n.ID, Duplicate: true}, nil
	}

	cls := s.classifier.Classify(ctx, &n)

	uctx, err := s.resolver.Resolve(ctx, n.UserID, now)
	if err != nil {
		// Unknown context falls through the decision table to the
		// default bundle rule, which is the safe outcome here.
		slog.WarnContext(ctx, "context resolution failed, using unknown activity",
			slog.String("event", "triage.resolve.fail"),
			slog.String("user_id", n.UserID),
			slog.String("error", err.Error()),
		)
		uctx = &domain.UserContext{
			UserID:     n.UserID,
			Activity:   domain.ActivityUnknown,
			ResolvedAt: now,
		}
	}

	decision := s.filter.Decide(&n, cls, uctx)

	result, routeErr := s.route(ctx, n, cls, uctx, decision, now)
	if routeErr != nil {
		slog.ErrorContext(ctx, "routing failed, falling back to hold",
			slog.String("event", "triage.route.fail"),
			slog.String("notification_id", n.ID),
			slog.String("action", decision.Action.Kind().String()),
			slog.String("error", routeErr.Error()),
		)
		decision = filter.Fallback()
		result, routeErr = s.route(ctx, n, cls, uctx, decision, now)
		if routeErr != nil {
			tracing.RecordDecideResult(span, decision.Action.Kind().String(),
				uctx.Activity.String(), cls.Urgency.String(), decision.Rule, routeErr)
			return nil, fmt.Errorf("triage %s: %w", n.ID, routeErr)
		}
	}

	s.record(ctx, n, cls, uctx, decision, now)

	if s.triageMetrics != nil {
		s.triageMetrics.RecordDecision(ctx, decision.Action.Kind().String(),
			uctx.Activity.String(), cls.Urgency.String(), decision.Rule)
		s.triageMetrics.RecordDecideDuration(ctx, time.Since(start))
	}
	tracing.RecordDecideResult(span, decision.Action.Kind().String(),
		uctx.Activity.String(), cls.Urgency.String(), decision.Rule, nil)

	slog.InfoContext(ctx, "notification triaged",
		slog.String("event", "triage.decided"),
		slog.String("notification_id", n.ID),
		slog.String("user_id", n.UserID),
		slog.String("action", decision.Action.Kind().String()),
		slog.String("rule", decision.Rule),
		slog.String("urgency", cls.Urgency.String()),
		slog.String("activity", uctx.Activity.String()),
	)

	return result, nil
}

// ProcessBatch triages notifications in order. One failure does not
// stop the rest; the first error is returned alongside the per-item
// results so callers can report partial success.
func (s *Service) ProcessBatch(ctx context.Context, notifications []domain.Notification, now time.Time) ([]Result, error) {
	results := make([]Result, 0, len(notifications))
	var firstErr error
	for i := range notifications {
		result, err := s.Process(ctx, notifications[i], now)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			results = append(results, Result{NotificationID: notifications[i].ID})
			continue
		}
		results = append(results, *result)
	}
	return results, firstErr
}

func (s *Service) route(ctx context.Context, n domain.Notification, cls domain.Classification, uctx *domain.UserContext, decision filter.Decision, now time.Time) (*Result, error) {
	result := &Result{
		NotificationID: n.ID,
		Action:         decision.Action.Kind(),
		Rule:           decision.Rule,
		Urgency:        cls.Urgency,
		Confidence:     cls.Confidence,
		Activity:       uctx.Activity,
		Source:         cls.Source.String(),
	}

	switch action := decision.Action.(type) {
	case domain.DeliverNowAction, domain.EscalateAction:
		delivery := gateway.FromNotification(n, cls.Urgency, decision.Action.Kind(), now)
		if err := s.gw.Deliver(ctx, delivery); err != nil {
			return nil, fmt.Errorf("deliver %s: %w", n.ID, err)
		}
		s.recordDelivery(ctx, decision.Action.Kind(), "delivered")

	case domain.HoldAction:
		deliverAfter := time.Time{}
		if action.Strategy == domain.DeliveryScheduled {
			deliverAfter = uctx.NextWake
		}
		entryID, err := s.queues.Enqueue(ctx, n, action.Priority, action.Strategy, deliverAfter, now)
		if err != nil {
			return nil, fmt.Errorf("enqueue %s: %w", n.ID, err)
		}
		result.QueueEntryID = entryID
		result.Priority = action.Priority.String()

	case domain.BundleAction:
		key, err := s.bundler.Add(ctx, n, cls.Urgency, action.Strategy, now)
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", n.ID, err)
		}
		result.BundleKey = key

	case domain.SuppressAction:
		slog.InfoContext(ctx, "notification suppressed",
			slog.String("event", "triage.suppress"),
			slog.String("notification_id", n.ID),
			slog.String("user_id", n.UserID),
			slog.String("reason", action.Reason),
		)

	default:
		return nil, fmt.Errorf("unhandled action kind %q", decision.Action.Kind())
	}

	return result, nil
}

func (s *Service) record(ctx context.Context, n domain.Notification, cls domain.Classification, uctx *domain.UserContext, decision filter.Decision, now time.Time) {
	if s.recorder == nil {
		return
	}

	record := domain.DecisionRecord{
		NotificationID: n.ID,
		UserID:         n.UserID,
		AppID:          n.AppID,
		Activity:       uctx.Activity.String(),
		Urgency:        cls.Urgency.String(),
		Confidence:     cls.Confidence,
		Action:         decision.Action.Kind().String(),
		Rule:           decision.Rule,
		DecidedAt:      now,
	}
	if hold, ok := decision.Action.(domain.HoldAction); ok {
		record.Priority = hold.Priority.String()
	}

	if err := s.recorder.RecordDecisions(ctx, []domain.DecisionRecord{record}); err != nil {
		slog.WarnContext(ctx, "failed to record triage decision",
			slog.String("event", "triage.record.fail"),
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordDelivery(ctx context.Context, action domain.ActionKind, outcome string) {
	if s.triageMetrics != nil {
		s.triageMetrics.RecordDelivery(ctx, action.String(), outcome)
	}
}
