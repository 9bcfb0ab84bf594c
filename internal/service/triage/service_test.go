package triage

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
	"github.com/lumenwell/lumen-notification-triage/internal/service/classify"
	"github.com/lumenwell/lumen-notification-triage/internal/service/contextres"
	"github.com/lumenwell/lumen-notification-triage/internal/service/filter"
	"github.com/lumenwell/lumen-notification-triage/internal/service/queue"
)

type fixture struct {
	service *Service
	gw      *gateway.MockGateway
	prefs   *domain.MockPreferenceStore
	queues  *queue.Manager
	bundler *bundle.Bundler
	dedup   domain.DedupStore
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *fixture {
	t.Helper()

	queues := queue.NewManager(repository.NewMemoryQueueStore(), &config.QueueConfig{
		MaxSize:       100,
		StaleAfter:    30 * time.Minute,
		DrainBatchMax: 5,
	}, nil)
	bundler := bundle.NewBundler(repository.NewMemoryBundleStore(), &config.BundleConfig{
		Window:        15 * time.Minute,
		MaxAge:        30 * time.Minute,
		SizeThreshold: 5,
	}, nil)

	classifier := classify.NewClassifier(&config.ClassifierConfig{
		Timeout:   time.Second,
		CacheSize: 16,
		CacheTTL:  time.Minute,
	}, nil, nil)

	prefs := domain.NewMockPreferenceStore(ctrl)
	resolver := contextres.NewResolver(prefs, &config.ScheduleConfig{})

	gw := gateway.NewMockGateway(ctrl)
	dedup := repository.NewMemoryDedupStore()

	service := NewService(classifier, resolver,
		filter.New(&config.FilterConfig{ConfidenceThreshold: 0.8}),
		queues, bundler, gw, dedup, nil, nil)

	return &fixture{
		service: service,
		gw:      gw,
		prefs:   prefs,
		queues:  queues,
		bundler: bundler,
		dedup:   dedup,
	}
}

func testNotification(id string) domain.Notification {
	n := domain.Notification{
		ID:        id,
		UserID:    "user-1",
		AppID:     "mail",
		Sender:    "alice@example.com",
		Title:     "Weekly summary",
		Body:      "Here is what happened this week.",
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	n.Normalize()
	return n
}

func TestProcessDeliversVIPImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	f.prefs.EXPECT().GetPreferences(ctx, "user-1").Return(&domain.Preferences{
		UserID:     "user-1",
		VIPSenders: []string{"alice@example.com"},
	}, nil)

	var delivered *gateway.Delivery
	f.gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *gateway.Delivery) error {
			delivered = d
			return nil
		})

	result, err := f.service.Process(ctx, testNotification("n-1"), now)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Action != domain.ActionDeliverNow {
		t.Errorf("action = %s, want deliver_now", result.Action)
	}
	if result.Rule != filter.RuleVIP {
		t.Errorf("rule = %s, want %s", result.Rule, filter.RuleVIP)
	}
	if delivered == nil || delivered.NotificationID != "n-1" {
		t.Errorf("delivered = %+v, want notification n-1", delivered)
	}
}

func TestProcessSuppressesDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	f.prefs.EXPECT().GetPreferences(ctx, "user-1").
		Return(nil, domain.ErrPreferencesNotFound)

	first, err := f.service.Process(ctx, testNotification("n-dup"), now)
	if err != nil {
		t.Fatalf("first Process() error = %v", err)
	}
	if first.Duplicate {
		t.Fatal("first Process() reported duplicate")
	}

	// Same ID again: no classification, no routing, just the flag.
	second, err := f.service.Process(ctx, testNotification("n-dup"), now)
	if err != nil {
		t.Fatalf("second Process() error = %v", err)
	}
	if !second.Duplicate {
		t.Error("second Process() did not report duplicate")
	}
	if second.Action != "" {
		t.Errorf("duplicate result has action %s", second.Action)
	}
}

func TestProcessBundlesByDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	f.prefs.EXPECT().GetPreferences(ctx, "user-1").
		Return(nil, domain.ErrPreferencesNotFound)

	result, err := f.service.Process(ctx, testNotification("n-2"), now)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Action != domain.ActionBundle {
		t.Fatalf("action = %s, want bundle", result.Action)
	}
	if result.BundleKey == "" {
		t.Fatal("bundle result has no key")
	}

	pending, err := f.bundler.Pending(ctx, "user-1")
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Key != result.BundleKey {
		t.Errorf("pending bundles = %+v, want one with key %s", pending, result.BundleKey)
	}
}

func TestProcessHoldsDuringMeeting(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	until := now.Add(time.Hour)
	f.prefs.EXPECT().GetPreferences(ctx, "user-1").Return(&domain.Preferences{
		UserID:   "user-1",
		Override: &domain.ContextOverride{Activity: domain.ActivityMeeting, Until: until},
	}, nil)

	result, err := f.service.Process(ctx, testNotification("n-3"), now)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Action != domain.ActionHold {
		t.Fatalf("action = %s, want hold", result.Action)
	}
	if result.QueueEntryID == "" {
		t.Fatal("hold result has no queue entry ID")
	}
	if result.Priority != domain.PriorityMedium.String() {
		t.Errorf("priority = %s, want medium", result.Priority)
	}

	entries, err := f.queues.Snapshot(ctx, "user-1", now)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("queue has %d entries, want 1", len(entries))
	}
	// The override end drives the scheduled release time.
	if entries[0].Strategy != domain.DeliveryScheduled {
		t.Errorf("strategy = %s, want scheduled", entries[0].Strategy)
	}
	if !entries[0].DeliverAfter.Equal(until) {
		t.Errorf("deliver after = %v, want %v", entries[0].DeliverAfter, until)
	}
}

func TestProcessEscalatesUrgentWhileSleeping(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	f.prefs.EXPECT().GetPreferences(ctx, "user-1").Return(&domain.Preferences{
		UserID:     "user-1",
		QuietStart: "22:00",
		QuietEnd:   "07:00",
	}, nil).Times(2)

	f.gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *gateway.Delivery) error {
			if d.Action != domain.ActionEscalate.String() {
				t.Errorf("delivery action = %s, want escalate", d.Action)
			}
			return nil
		})

	urgent := testNotification("n-4")
	urgent.UrgencyHint = domain.UrgencyUrgent
	result, err := f.service.Process(ctx, urgent, now)
	if err != nil {
		t.Fatalf("Process(urgent) error = %v", err)
	}
	if result.Action != domain.ActionEscalate {
		t.Errorf("urgent action = %s, want escalate", result.Action)
	}

	normal := testNotification("n-5")
	result, err = f.service.Process(ctx, normal, now)
	if err != nil {
		t.Fatalf("Process(normal) error = %v", err)
	}
	if result.Action != domain.ActionSuppress {
		t.Errorf("normal action = %s, want suppress", result.Action)
	}
}

func TestProcessFallsBackToHoldWhenDeliveryFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	f.prefs.EXPECT().GetPreferences(ctx, "user-1").Return(&domain.Preferences{
		UserID:     "user-1",
		VIPSenders: []string{"alice@example.com"},
	}, nil)

	f.gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		Return(errors.New("gateway unreachable"))

	result, err := f.service.Process(ctx, testNotification("n-6"), now)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Action != domain.ActionHold {
		t.Fatalf("action = %s, want hold fallback", result.Action)
	}
	if result.Rule != filter.RuleFallback {
		t.Errorf("rule = %s, want %s", result.Rule, filter.RuleFallback)
	}

	entries, err := f.queues.Snapshot(ctx, "user-1", now)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Priority != domain.PriorityMedium {
		t.Errorf("queue = %+v, want one medium entry", entries)
	}
}

func TestProcessContinuesWhenResolverFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	f.prefs.EXPECT().GetPreferences(ctx, "user-1").
		Return(nil, errors.New("db connection refused"))

	result, err := f.service.Process(ctx, testNotification("n-7"), now)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Activity != domain.ActivityUnknown {
		t.Errorf("activity = %s, want unknown", result.Activity)
	}
	if result.Action != domain.ActionBundle {
		t.Errorf("action = %s, want bundle for unknown context", result.Action)
	}
}

func TestProcessBatchReportsPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	f.prefs.EXPECT().GetPreferences(ctx, "user-1").Return(&domain.Preferences{
		UserID:     "user-1",
		VIPSenders: []string{"alice@example.com"},
	}, nil).Times(2)

	// The first delivery fails at the gateway and recovers through the
	// fallback hold; the second goes straight out.
	f.gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		Return(errors.New("down")).Times(1)
	f.gw.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	results, err := f.service.ProcessBatch(ctx, []domain.Notification{
		testNotification("n-8"),
		testNotification("n-9"),
	}, now)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Rule != filter.RuleFallback {
		t.Errorf("first rule = %s, want fallback", results[0].Rule)
	}
	if results[1].Rule != filter.RuleVIP {
		t.Errorf("second rule = %s, want vip", results[1].Rule)
	}
}
