package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/testutil"
)

func testEntry(id, userID string, priority domain.Priority, seq uint64) domain.QueueEntry {
	enqueuedAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	return domain.QueueEntry{
		ID:     id,
		UserID: userID,
		Notification: domain.Notification{
			ID:        "n-" + id,
			UserID:    userID,
			Sender:    "ops",
			Body:      "server down",
			CreatedAt: enqueuedAt,
		},
		Priority:   priority,
		Strategy:   domain.DeliveryImmediate,
		EnqueuedAt: enqueuedAt,
		Seq:        seq,
	}
}

func TestQueueStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	store := NewQueueStore(client)

	entries := []domain.QueueEntry{
		testEntry("e-1", "u-1", domain.PriorityHigh, 1),
		testEntry("e-2", "u-1", domain.PriorityLow, 2),
	}

	if err := store.PutQueue(ctx, "u-1", entries); err != nil {
		t.Fatalf("PutQueue() error = %v", err)
	}

	got, err := store.GetQueue(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetQueue() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetQueue() returned %d entries, want 2", len(got))
	}
	if got[0].ID != "e-1" || got[0].Priority != domain.PriorityHigh {
		t.Errorf("entry 0 = %+v, want e-1 at high", got[0])
	}
	if got[1].Seq != 2 {
		t.Errorf("entry 1 Seq = %d, want 2", got[1].Seq)
	}
	if got[0].Notification.Body != "server down" {
		t.Errorf("notification body = %q, want preserved", got[0].Notification.Body)
	}

	users, err := store.ListQueueUsers(ctx)
	if err != nil {
		t.Fatalf("ListQueueUsers() error = %v", err)
	}
	if len(users) != 1 || users[0] != "u-1" {
		t.Errorf("ListQueueUsers() = %v, want [u-1]", users)
	}

	if err := store.DeleteQueue(ctx, "u-1"); err != nil {
		t.Fatalf("DeleteQueue() error = %v", err)
	}
	got, err = store.GetQueue(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetQueue() after delete error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetQueue() after delete returned %d entries, want 0", len(got))
	}
}

func TestQueueStoreMissingUserIsEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	store := NewQueueStore(client)

	got, err := store.GetQueue(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetQueue() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetQueue() = %v, want empty", got)
	}
}

func TestBundleStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	store := NewBundleStore(client)

	createdAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	bundle := domain.Bundle{
		Key:       "u-1:by_sender:newsletter:2026-03-10-14-00",
		UserID:    "u-1",
		Strategy:  domain.BundleBySender,
		Group:     "newsletter",
		CreatedAt: createdAt,
		ReadyAt:   createdAt.Add(30 * time.Minute),
		Members: []domain.BundleMember{
			{
				Notification: domain.Notification{ID: "n-1", UserID: "u-1", Sender: "newsletter", CreatedAt: createdAt},
				Urgency:      domain.UrgencyNormal,
			},
		},
	}

	if err := store.PutBundles(ctx, "u-1", []domain.Bundle{bundle}); err != nil {
		t.Fatalf("PutBundles() error = %v", err)
	}

	got, err := store.GetBundles(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetBundles() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetBundles() returned %d bundles, want 1", len(got))
	}
	if got[0].Key != bundle.Key || got[0].Strategy != domain.BundleBySender {
		t.Errorf("bundle = %+v, want key and strategy preserved", got[0])
	}
	if len(got[0].Members) != 1 || got[0].Members[0].Notification.ID != "n-1" {
		t.Errorf("members = %+v, want one member n-1", got[0].Members)
	}

	// Writing an empty list clears the user's open bundle state.
	if err := store.PutBundles(ctx, "u-1", nil); err != nil {
		t.Fatalf("PutBundles(nil) error = %v", err)
	}
	users, err := store.ListBundleUsers(ctx)
	if err != nil {
		t.Fatalf("ListBundleUsers() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("ListBundleUsers() = %v, want empty after clear", users)
	}
}

func TestBundleStoreReleasedArchive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	store := NewBundleStore(client)

	createdAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	bundle := domain.Bundle{
		Key:       "u-1:smart:slack:2026-03-10-14-00",
		UserID:    "u-1",
		Strategy:  domain.BundleSmart,
		Group:     "slack",
		CreatedAt: createdAt,
		ReadyAt:   createdAt.Add(30 * time.Minute),
		Members: []domain.BundleMember{
			{Notification: domain.Notification{ID: "n-1", UserID: "u-1"}, Urgency: domain.UrgencyNormal},
		},
	}

	if err := store.PutReleased(ctx, bundle); err != nil {
		t.Fatalf("PutReleased() error = %v", err)
	}

	got, err := store.GetReleased(ctx, "u-1", bundle.Key)
	if err != nil {
		t.Fatalf("GetReleased() error = %v", err)
	}
	if got.Key != bundle.Key || len(got.Members) != 1 {
		t.Errorf("GetReleased() = %+v, want archived bundle", got)
	}

	if _, err := store.GetReleased(ctx, "u-1", "missing"); !errors.Is(err, domain.ErrBundleNotFound) {
		t.Errorf("GetReleased(missing) error = %v, want ErrBundleNotFound", err)
	}
}

func TestDedupStoreFirstSeen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	store := NewDedupStore(client)

	first, err := store.FirstSeen(ctx, "n-1")
	if err != nil {
		t.Fatalf("FirstSeen() error = %v", err)
	}
	if !first {
		t.Error("FirstSeen() = false on first observation, want true")
	}

	second, err := store.FirstSeen(ctx, "n-1")
	if err != nil {
		t.Fatalf("FirstSeen() error = %v", err)
	}
	if second {
		t.Error("FirstSeen() = true on second observation, want false")
	}
}
