package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/metrics"
)

// Manager owns every per-user queue. State is partitioned by user: one
// lock per user serialises enqueue, dequeue and promotion within a
// partition while separate users proceed in parallel. The in-memory
// queue is authoritative; each mutation writes a snapshot to the store
// so queues survive restarts.
type Manager struct {
	mu    sync.Mutex
	slots map[string]*userSlot

	store         domain.QueueStore
	cfg           *config.QueueConfig
	triageMetrics *metrics.TriageMetrics
}

type userSlot struct {
	mu       sync.Mutex
	queue    *userQueue
	hydrated bool
}

func NewManager(store domain.QueueStore, cfg *config.QueueConfig, triageMetrics *metrics.TriageMetrics) *Manager {
	return &Manager{
		slots:         make(map[string]*userSlot),
		store:         store,
		cfg:           cfg,
		triageMetrics: triageMetrics,
	}
}

func (m *Manager) slot(userID string) *userSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[userID]
	if !ok {
		s = &userSlot{queue: newUserQueue(userID)}
		m.slots[userID] = s
	}
	return s
}

// withQueue runs fn with the user's partition lock held, hydrating the
// queue from the store on first touch and running stale promotion
// before every operation.
func (m *Manager) withQueue(ctx context.Context, userID string, now time.Time, fn func(q *userQueue)) error {
	s := m.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		entries, err := m.store.GetQueue(ctx, userID)
		if err != nil {
			return fmt.Errorf("hydrate queue for %s: %w", userID, err)
		}
		for i := range entries {
			entry := entries[i]
			s.queue.push(&entry)
		}
		s.hydrated = true
		if m.triageMetrics != nil && len(entries) > 0 {
			m.triageMetrics.AddQueueDepth(ctx, int64(len(entries)))
		}
	}

	m.promote(ctx, s.queue, now)

	before := s.queue.len()
	fn(s.queue)

	if m.triageMetrics != nil {
		m.triageMetrics.AddQueueDepth(ctx, int64(s.queue.len()-before))
	}

	if err := m.persist(ctx, s.queue); err != nil {
		// The in-memory queue already holds the new state; a failed
		// snapshot only risks losing it on restart.
		slog.WarnContext(ctx, "failed to persist queue snapshot",
			slog.String("event", "queue.persist.fail"),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (m *Manager) promote(ctx context.Context, q *userQueue, now time.Time) {
	promotions := q.promoteStale(now, m.cfg.StaleAfter)
	for _, p := range promotions {
		if m.triageMetrics != nil {
			m.triageMetrics.RecordStalePromotion(ctx, p.from.String(), p.to.String())
		}
		slog.InfoContext(ctx, "promoted stale queue entry",
			slog.String("event", "queue.promote"),
			slog.String("user_id", q.userID),
			slog.String("entry_id", p.entryID),
			slog.String("from", p.from.String()),
			slog.String("to", p.to.String()),
		)
	}
}

func (m *Manager) persist(ctx context.Context, q *userQueue) error {
	if q.len() == 0 {
		return m.store.DeleteQueue(ctx, q.userID)
	}
	return m.store.PutQueue(ctx, q.userID, q.sorted())
}

// Enqueue inserts a held notification and returns the entry ID. At
// capacity the lowest-priority oldest entry is evicted first.
func (m *Manager) Enqueue(ctx context.Context, n domain.Notification, priority domain.Priority, strategy domain.DeliveryStrategy, deliverAfter time.Time, now time.Time) (string, error) {
	entryID := uuid.New().String()

	err := m.withQueue(ctx, n.UserID, now, func(q *userQueue) {
		if q.len() >= m.cfg.MaxSize {
			if evicted := q.evictWorst(); evicted != nil {
				if m.triageMetrics != nil {
					m.triageMetrics.RecordQueueEviction(ctx, evicted.Priority.String())
				}
				slog.WarnContext(ctx, "queue full, evicted entry",
					slog.String("event", "queue.evict"),
					slog.String("user_id", n.UserID),
					slog.String("evicted_entry_id", evicted.ID),
					slog.String("evicted_priority", evicted.Priority.String()),
					slog.Int("max_size", m.cfg.MaxSize),
				)
			}
		}

		entry := domain.NewQueueEntry(entryID, n, priority, strategy, q.nextSeq(), now)
		entry.DeliverAfter = deliverAfter
		q.push(entry)
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}

// Dequeue removes and returns up to count deliverable entries in
// priority order. An empty queue yields an empty slice, never an
// error.
func (m *Manager) Dequeue(ctx context.Context, userID string, count int, now time.Time) ([]domain.QueueEntry, error) {
	var entries []domain.QueueEntry
	err := m.withQueue(ctx, userID, now, func(q *userQueue) {
		entries = q.dequeue(now, count)
	})
	return entries, err
}

// DrainDue removes everything due on a drain tick: all immediate and
// due scheduled entries, plus a batch of grouped entries capped at the
// configured batch size.
func (m *Manager) DrainDue(ctx context.Context, userID string, now time.Time) ([]domain.QueueEntry, error) {
	var entries []domain.QueueEntry
	err := m.withQueue(ctx, userID, now, func(q *userQueue) {
		entries = q.drainDue(now, m.cfg.DrainBatchMax)
	})
	return entries, err
}

// Peek returns up to count entries in dequeue order without removing
// them.
func (m *Manager) Peek(ctx context.Context, userID string, count int, now time.Time) ([]domain.QueueEntry, error) {
	var entries []domain.QueueEntry
	err := m.withQueue(ctx, userID, now, func(q *userQueue) {
		entries = q.peek(count)
	})
	return entries, err
}

// Snapshot returns the whole queue in dequeue order.
func (m *Manager) Snapshot(ctx context.Context, userID string, now time.Time) ([]domain.QueueEntry, error) {
	var entries []domain.QueueEntry
	err := m.withQueue(ctx, userID, now, func(q *userQueue) {
		entries = q.sorted()
	})
	return entries, err
}

// Cancel removes one entry by ID. It is idempotent: a missing entry
// reports false, never an error.
func (m *Manager) Cancel(ctx context.Context, userID, entryID string, now time.Time) (bool, error) {
	var cancelled bool
	err := m.withQueue(ctx, userID, now, func(q *userQueue) {
		cancelled = q.cancel(entryID)
	})
	return cancelled, err
}

// Entry returns one entry by ID, or domain.ErrEntryNotFound.
func (m *Manager) Entry(ctx context.Context, userID, entryID string, now time.Time) (domain.QueueEntry, error) {
	var (
		entry domain.QueueEntry
		found bool
	)
	err := m.withQueue(ctx, userID, now, func(q *userQueue) {
		if e, ok := q.get(entryID); ok {
			entry = *e
			found = true
		}
	})
	if err != nil {
		return domain.QueueEntry{}, err
	}
	if !found {
		return domain.QueueEntry{}, domain.ErrEntryNotFound
	}
	return entry, nil
}

// Users lists every user with queue state, in memory or persisted.
func (m *Manager) Users(ctx context.Context) ([]string, error) {
	stored, err := m.store.ListQueueUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queue users: %w", err)
	}

	seen := make(map[string]bool, len(stored))
	for _, userID := range stored {
		seen[userID] = true
	}

	m.mu.Lock()
	for userID, s := range m.slots {
		if !seen[userID] && s.queue.len() > 0 {
			seen[userID] = true
		}
	}
	m.mu.Unlock()

	users := make([]string, 0, len(seen))
	for userID := range seen {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}
