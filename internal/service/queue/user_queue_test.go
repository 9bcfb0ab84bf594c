package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

func baseTime() time.Time {
	return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
}

func pushEntry(q *userQueue, id string, priority domain.Priority, strategy domain.DeliveryStrategy, enqueuedAt time.Time) *domain.QueueEntry {
	entry := domain.NewQueueEntry(id, domain.Notification{ID: "n-" + id, UserID: q.userID}, priority, strategy, q.nextSeq(), enqueuedAt)
	q.push(entry)
	return entry
}

func ids(entries []domain.QueueEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestUserQueueOrdering(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()

	pushEntry(q, "low", domain.PriorityLow, domain.DeliveryImmediate, now)
	pushEntry(q, "critical", domain.PriorityCritical, domain.DeliveryImmediate, now.Add(time.Second))
	pushEntry(q, "medium", domain.PriorityMedium, domain.DeliveryImmediate, now.Add(2*time.Second))
	pushEntry(q, "high", domain.PriorityHigh, domain.DeliveryImmediate, now.Add(3*time.Second))

	got := q.dequeue(now.Add(time.Minute), 10)
	want := []string{"critical", "high", "medium", "low"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("dequeue order = %v, want %v", ids(got), want)
		}
	}
}

// Entries at the same priority leave in enqueue order no matter how
// they were interleaved with other tiers.
func TestUserQueueFIFOWithinTier(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()

	for i := 0; i < 5; i++ {
		pushEntry(q, fmt.Sprintf("m-%d", i), domain.PriorityMedium, domain.DeliveryImmediate, now)
		pushEntry(q, fmt.Sprintf("h-%d", i), domain.PriorityHigh, domain.DeliveryImmediate, now)
	}

	got := ids(q.dequeue(now.Add(time.Minute), 20))
	want := []string{"h-0", "h-1", "h-2", "h-3", "h-4", "m-0", "m-1", "m-2", "m-3", "m-4"}
	if len(got) != len(want) {
		t.Fatalf("dequeued %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dequeue order = %v, want %v", got, want)
		}
	}
}

func TestUserQueueDequeueEmptyReturnsEmpty(t *testing.T) {
	q := newUserQueue("u-1")

	got := q.dequeue(baseTime(), 5)
	if len(got) != 0 {
		t.Errorf("dequeue on empty queue = %v, want empty", got)
	}
}

func TestUserQueueDequeueFewerThanCount(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()
	pushEntry(q, "only", domain.PriorityMedium, domain.DeliveryImmediate, now)

	got := q.dequeue(now, 5)
	if len(got) != 1 {
		t.Errorf("dequeue returned %d entries, want 1", len(got))
	}
}

func TestUserQueueCancelIdempotent(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()
	pushEntry(q, "e-1", domain.PriorityMedium, domain.DeliveryImmediate, now)

	if !q.cancel("e-1") {
		t.Error("cancel existing entry = false, want true")
	}
	if q.cancel("e-1") {
		t.Error("cancel cancelled entry = true, want false")
	}
	if q.cancel("never-existed") {
		t.Error("cancel unknown entry = true, want false")
	}
	if q.len() != 0 {
		t.Errorf("len = %d after cancel, want 0", q.len())
	}
}

func TestUserQueueScheduledExcludedUntilDue(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()

	scheduled := pushEntry(q, "later", domain.PriorityCritical, domain.DeliveryScheduled, now)
	scheduled.DeliverAfter = now.Add(time.Hour)
	pushEntry(q, "now", domain.PriorityLow, domain.DeliveryImmediate, now)

	got := ids(q.dequeue(now, 10))
	if len(got) != 1 || got[0] != "now" {
		t.Fatalf("dequeue before due = %v, want [now]", got)
	}
	if q.len() != 1 {
		t.Fatalf("scheduled entry left the queue early")
	}

	got = ids(q.dequeue(now.Add(2*time.Hour), 10))
	if len(got) != 1 || got[0] != "later" {
		t.Errorf("dequeue after due = %v, want [later]", got)
	}
}

func TestUserQueuePromoteStaleRatchet(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()
	staleAfter := 30 * time.Minute

	pushEntry(q, "e-1", domain.PriorityLow, domain.DeliveryImmediate, now)

	// Fresh entries are untouched.
	if got := q.promoteStale(now.Add(10*time.Minute), staleAfter); len(got) != 0 {
		t.Fatalf("promoteStale before threshold promoted %v", got)
	}

	// One promotion per stale period, tier by tier, stopping at
	// critical.
	expected := []domain.Priority{domain.PriorityMedium, domain.PriorityHigh, domain.PriorityCritical}
	at := now
	for _, want := range expected {
		at = at.Add(staleAfter)
		promotions := q.promoteStale(at, staleAfter)
		if len(promotions) != 1 {
			t.Fatalf("promoteStale at %v promoted %d entries, want 1", at, len(promotions))
		}
		if promotions[0].to != want {
			t.Fatalf("promoted to %s, want %s", promotions[0].to, want)
		}
	}

	// Critical never promotes past the top tier.
	if got := q.promoteStale(at.Add(24*time.Hour), staleAfter); len(got) != 0 {
		t.Errorf("promoteStale past critical promoted %v", got)
	}
}

func TestUserQueueEvictWorst(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()

	pushEntry(q, "high", domain.PriorityHigh, domain.DeliveryImmediate, now)
	pushEntry(q, "old-low", domain.PriorityLow, domain.DeliveryImmediate, now)
	pushEntry(q, "new-low", domain.PriorityLow, domain.DeliveryImmediate, now.Add(time.Minute))

	evicted := q.evictWorst()
	if evicted == nil || evicted.ID != "old-low" {
		t.Fatalf("evictWorst() = %v, want old-low", evicted)
	}
	if q.len() != 2 {
		t.Errorf("len = %d after eviction, want 2", q.len())
	}
}

func TestUserQueueDrainDueCapsGroupedEntries(t *testing.T) {
	q := newUserQueue("u-1")
	now := baseTime()

	for i := 0; i < 5; i++ {
		pushEntry(q, fmt.Sprintf("batched-%d", i), domain.PriorityBatched, domain.DeliveryBatched, now)
	}
	pushEntry(q, "immediate", domain.PriorityMedium, domain.DeliveryImmediate, now)

	got := q.drainDue(now.Add(time.Minute), 3)
	if len(got) != 4 {
		t.Fatalf("drainDue returned %d entries, want 4 (1 immediate + 3 batched)", len(got))
	}
	if got[0].ID != "immediate" {
		t.Errorf("first drained = %s, want immediate", got[0].ID)
	}
	if q.len() != 2 {
		t.Errorf("len = %d after drain, want 2 batched left for next tick", q.len())
	}
}
