package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/gateway"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/repository"
	"github.com/lumenwell/lumen-notification-triage/internal/service/bundle"
	"github.com/lumenwell/lumen-notification-triage/internal/service/queue"
)

func newQueues() *queue.Manager {
	return queue.NewManager(repository.NewMemoryQueueStore(), &config.QueueConfig{
		MaxSize:       100,
		StaleAfter:    time.Hour,
		DrainBatchMax: 5,
	}, nil)
}

func newBundler() *bundle.Bundler {
	return bundle.NewBundler(repository.NewMemoryBundleStore(), &config.BundleConfig{
		Window:        15 * time.Minute,
		MaxAge:        30 * time.Minute,
		SizeThreshold: 3,
	}, nil)
}

func newDispatcher(queues *queue.Manager, bundler *bundle.Bundler, gw gateway.Gateway) *Dispatcher {
	return NewDispatcher(queues, bundler, gw, &config.DispatchConfig{
		Interval: time.Minute,
	}, nil)
}

func heldNotification(id, userID string) domain.Notification {
	return domain.Notification{
		ID:        id,
		UserID:    userID,
		AppID:     "chat",
		Sender:    "bob",
		Title:     "ping",
		CreatedAt: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
	}
}

func TestRunOnceDrainsHeldEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := gateway.NewMockGateway(ctrl)
	queues := newQueues()
	d := newDispatcher(queues, newBundler(), gw)

	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if _, err := queues.Enqueue(ctx, heldNotification("n-1", "user-1"), domain.PriorityMedium, domain.DeliveryImmediate, time.Time{}, now); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	var delivered []*gateway.Delivery
	gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dv *gateway.Delivery) error {
			delivered = append(delivered, dv)
			return nil
		})

	report, err := d.RunOnce(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(report.Users) != 1 || report.Users[0].Delivered != 1 {
		t.Fatalf("report = %+v, want 1 delivery for user-1", report)
	}
	if len(delivered) != 1 || delivered[0].NotificationID != "n-1" {
		t.Errorf("delivered = %+v, want n-1", delivered)
	}

	entries, err := queues.Snapshot(ctx, "user-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("queue still has %d entries after drain", len(entries))
	}
}

func TestRunOnceRequeuesOnDeliveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := gateway.NewMockGateway(ctrl)
	queues := newQueues()
	d := newDispatcher(queues, newBundler(), gw)

	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if _, err := queues.Enqueue(ctx, heldNotification("n-1", "user-1"), domain.PriorityHigh, domain.DeliveryImmediate, time.Time{}, now); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		Return(errors.New("gateway down"))

	report, err := d.RunOnce(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(report.Users) != 1 || report.Users[0].Requeued != 1 {
		t.Fatalf("report = %+v, want 1 requeued", report)
	}

	entries, err := queues.Snapshot(ctx, "user-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("queue has %d entries, want the requeued one", len(entries))
	}
	if entries[0].Priority != domain.PriorityHigh {
		t.Errorf("requeued priority = %s, want high", entries[0].Priority)
	}
}

func TestRunOnceReleasesRipeBundles(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := gateway.NewMockGateway(ctrl)
	bundler := newBundler()
	d := newDispatcher(newQueues(), bundler, gw)

	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"n-1", "n-2", "n-3"} {
		n := heldNotification(id, "user-1")
		n.Category = "social"
		if _, err := bundler.Add(ctx, n, domain.UrgencyNormal, domain.BundleSmart, now); err != nil {
			t.Fatalf("Add(%s) error = %v", id, err)
		}
	}

	var digest *gateway.Delivery
	gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dv *gateway.Delivery) error {
			digest = dv
			return nil
		})

	report, err := d.RunOnce(ctx, now.Add(time.Second))
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(report.Users) != 1 || report.Users[0].BundlesReleased != 1 {
		t.Fatalf("report = %+v, want 1 released bundle", report)
	}
	if digest == nil || digest.Kind != gateway.KindDigest {
		t.Fatalf("delivery = %+v, want a digest", digest)
	}
	if digest.MemberCount != 3 {
		t.Errorf("member count = %d, want 3", digest.MemberCount)
	}
}

func TestRunOnceLeavesScheduledEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := gateway.NewMockGateway(ctrl)
	queues := newQueues()
	d := newDispatcher(queues, newBundler(), gw)

	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	wake := now.Add(time.Hour)

	if _, err := queues.Enqueue(ctx, heldNotification("n-1", "user-1"), domain.PriorityMedium, domain.DeliveryScheduled, wake, now); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	// Before the wake time nothing is due, so the gateway sees no call.
	report, err := d.RunOnce(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("RunOnce() before wake error = %v", err)
	}
	if len(report.Users) != 0 {
		t.Fatalf("report before wake = %+v, want empty", report)
	}

	gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)

	report, err = d.RunOnce(ctx, wake)
	if err != nil {
		t.Fatalf("RunOnce() at wake error = %v", err)
	}
	if len(report.Users) != 1 || report.Users[0].Delivered != 1 {
		t.Fatalf("report at wake = %+v, want 1 delivery", report)
	}
}

func TestRunOnceHandlesMultipleUsersIndependently(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := gateway.NewMockGateway(ctrl)
	queues := newQueues()
	d := newDispatcher(queues, newBundler(), gw)

	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if _, err := queues.Enqueue(ctx, heldNotification("n-1", "user-a"), domain.PriorityMedium, domain.DeliveryImmediate, time.Time{}, now); err != nil {
		t.Fatalf("Enqueue(user-a) error = %v", err)
	}
	if _, err := queues.Enqueue(ctx, heldNotification("n-2", "user-b"), domain.PriorityMedium, domain.DeliveryImmediate, time.Time{}, now); err != nil {
		t.Fatalf("Enqueue(user-b) error = %v", err)
	}

	// user-a's delivery fails and requeues; user-b's succeeds anyway.
	gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dv *gateway.Delivery) error {
			if dv.UserID == "user-a" {
				return errors.New("push rejected")
			}
			return nil
		}).Times(2)

	report, err := d.RunOnce(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	byUser := make(map[string]UserReport, len(report.Users))
	for _, u := range report.Users {
		byUser[u.UserID] = u
	}
	if byUser["user-a"].Requeued != 1 {
		t.Errorf("user-a = %+v, want 1 requeued", byUser["user-a"])
	}
	if byUser["user-b"].Delivered != 1 {
		t.Errorf("user-b = %+v, want 1 delivered", byUser["user-b"])
	}
}
