package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/gateway"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/metrics"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/tracing"
	"github.com/lumenwell/lumen-notification-triage/internal/service/bundle"
	"github.com/lumenwell/lumen-notification-triage/internal/service/queue"
)

// Dispatcher drains held queues and releases ripe bundles on a fixed
// tick. Each tick processes every user independently: a failing user
// never blocks the others, and a failed delivery re-enters the queue
// instead of being lost.
type Dispatcher struct {
	queues  *queue.Manager
	bundler *bundle.Bundler
	gw      gateway.Gateway

	interval      time.Duration
	triageMetrics *metrics.TriageMetrics
}

// UserReport summarises one user's share of a drain tick.
type UserReport struct {
	UserID          string `json:"user_id"`
	Delivered       int    `json:"delivered"`
	Requeued        int    `json:"requeued"`
	BundlesReleased int    `json:"bundles_released"`
}

// Report summarises a whole drain tick.
type Report struct {
	At    time.Time    `json:"at"`
	Users []UserReport `json:"users,omitempty"`
}

func NewDispatcher(queues *queue.Manager, bundler *bundle.Bundler, gw gateway.Gateway, cfg *config.DispatchConfig, triageMetrics *metrics.TriageMetrics) *Dispatcher {
	return &Dispatcher{
		queues:        queues,
		bundler:       bundler,
		gw:            gw,
		interval:      cfg.Interval,
		triageMetrics: triageMetrics,
	}
}

// Run ticks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "dispatch loop started",
		slog.String("event", "dispatch.start"),
		slog.Duration("interval", d.interval),
	)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "dispatch loop stopped",
				slog.String("event", "dispatch.stop"),
			)
			return
		case now := <-ticker.C:
			if _, err := d.RunOnce(ctx, now); err != nil {
				slog.ErrorContext(ctx, "drain tick failed",
					slog.String("event", "dispatch.tick.fail"),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce executes a single drain tick at the virtual instant now.
func (d *Dispatcher) RunOnce(ctx context.Context, now time.Time) (*Report, error) {
	start := time.Now()
	report := &Report{At: now}

	users, err := d.users(ctx)
	if err != nil {
		return nil, err
	}

	for _, userID := range users {
		userReport := d.drainUser(ctx, userID, now)
		if userReport.Delivered > 0 || userReport.Requeued > 0 || userReport.BundlesReleased > 0 {
			report.Users = append(report.Users, userReport)
		}
	}

	if d.triageMetrics != nil {
		d.triageMetrics.RecordDrainDuration(ctx, time.Since(start))
	}
	return report, nil
}

// users merges everyone with queue state and everyone with open
// bundles.
func (d *Dispatcher) users(ctx context.Context) ([]string, error) {
	queueUsers, err := d.queues.Users(ctx)
	if err != nil {
		return nil, err
	}
	bundleUsers, err := d.bundler.Users(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(queueUsers)+len(bundleUsers))
	users := make([]string, 0, len(queueUsers)+len(bundleUsers))
	for _, lists := range [][]string{queueUsers, bundleUsers} {
		for _, userID := range lists {
			if !seen[userID] {
				seen[userID] = true
				users = append(users, userID)
			}
		}
	}
	return users, nil
}

func (d *Dispatcher) drainUser(ctx context.Context, userID string, now time.Time) UserReport {
	ctx, span := tracing.StartDrainSpan(ctx, userID, now)
	defer span.End()

	report := UserReport{UserID: userID}
	var drainErr error

	entries, err := d.queues.DrainDue(ctx, userID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to drain queue",
			slog.String("event", "dispatch.drain.fail"),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		drainErr = err
	}
	for i := range entries {
		if d.deliverEntry(ctx, &entries[i], now) {
			report.Delivered++
		} else {
			report.Requeued++
		}
	}

	released, err := d.bundler.ReadyBundles(ctx, userID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to release bundles",
			slog.String("event", "dispatch.release.fail"),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		if drainErr == nil {
			drainErr = err
		}
	}
	for i := range released {
		if d.deliverDigest(ctx, released[i], now) {
			report.BundlesReleased++
			report.Delivered++
		}
	}

	tracing.RecordDrainResult(span, report.Delivered, report.Requeued, report.BundlesReleased, drainErr)
	return report
}

// deliverEntry pushes one dequeued entry to the gateway. On failure the
// entry re-enters the queue with its original priority so the next tick
// retries it.
func (d *Dispatcher) deliverEntry(ctx context.Context, entry *domain.QueueEntry, now time.Time) bool {
	urgency := domain.UrgencyNormal
	if entry.Priority.Before(domain.PriorityMedium) {
		urgency = domain.UrgencyUrgent
	}
	delivery := gateway.FromNotification(entry.Notification, urgency, domain.ActionHold, now)

	if err := d.gw.Deliver(ctx, delivery); err != nil {
		slog.WarnContext(ctx, "delivery failed, requeueing entry",
			slog.String("event", "dispatch.deliver.fail"),
			slog.String("entry_id", entry.ID),
			slog.String("user_id", entry.Notification.UserID),
			slog.String("error", err.Error()),
		)
		if d.triageMetrics != nil {
			d.triageMetrics.RecordDelivery(ctx, domain.ActionHold.String(), "requeued")
		}
		if _, requeueErr := d.queues.Enqueue(ctx, entry.Notification, entry.Priority, entry.Strategy, entry.DeliverAfter, now); requeueErr != nil {
			slog.ErrorContext(ctx, "failed to requeue entry after delivery failure",
				slog.String("event", "dispatch.requeue.fail"),
				slog.String("entry_id", entry.ID),
				slog.String("error", requeueErr.Error()),
			)
		}
		return false
	}

	if d.triageMetrics != nil {
		d.triageMetrics.RecordDelivery(ctx, domain.ActionHold.String(), "delivered")
	}
	return true
}

// deliverDigest pushes a released bundle as one digest delivery. The
// bundle is already archived, so a failed push is logged and the digest
// stays retrievable by key rather than re-opening the bundle.
func (d *Dispatcher) deliverDigest(ctx context.Context, b domain.Bundle, now time.Time) bool {
	digest := bundle.Digest(b)
	delivery := gateway.FromDigest(digest, now)

	if err := d.gw.Deliver(ctx, delivery); err != nil {
		slog.ErrorContext(ctx, "digest delivery failed",
			slog.String("event", "dispatch.digest.fail"),
			slog.String("bundle_key", b.Key),
			slog.String("user_id", b.UserID),
			slog.String("error", err.Error()),
		)
		if d.triageMetrics != nil {
			d.triageMetrics.RecordDelivery(ctx, domain.ActionBundle.String(), "failed")
		}
		return false
	}

	slog.InfoContext(ctx, "digest delivered",
		slog.String("event", "dispatch.digest"),
		slog.String("bundle_key", b.Key),
		slog.String("user_id", b.UserID),
		slog.Int("member_count", digest.MemberCount),
	)
	if d.triageMetrics != nil {
		d.triageMetrics.RecordDelivery(ctx, domain.ActionBundle.String(), "delivered")
	}
	return true
}
