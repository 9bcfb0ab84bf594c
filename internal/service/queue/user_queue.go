package queue

import (
	"container/heap"
	"sort"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

type promotion struct {
	entryID string
	from    domain.Priority
	to      domain.Priority
}

// userQueue is one user's hold area. It is not safe for concurrent use;
// the Manager serialises access per user.
type userQueue struct {
	userID string
	items  entryHeap
	byID   map[string]*entryItem
	seq    uint64
}

func newUserQueue(userID string) *userQueue {
	return &userQueue{
		userID: userID,
		items:  make(entryHeap, 0),
		byID:   make(map[string]*entryItem),
	}
}

func (q *userQueue) len() int {
	return len(q.items)
}

func (q *userQueue) nextSeq() uint64 {
	q.seq++
	return q.seq
}

func (q *userQueue) push(entry *domain.QueueEntry) {
	item := &entryItem{entry: entry, index: -1}
	heap.Push(&q.items, item)
	q.byID[entry.ID] = item
	if entry.Seq > q.seq {
		q.seq = entry.Seq
	}
}

func (q *userQueue) remove(item *entryItem) *domain.QueueEntry {
	heap.Remove(&q.items, item.index)
	delete(q.byID, item.entry.ID)
	return item.entry
}

func (q *userQueue) get(entryID string) (*domain.QueueEntry, bool) {
	item, ok := q.byID[entryID]
	if !ok {
		return nil, false
	}
	return item.entry, true
}

func (q *userQueue) cancel(entryID string) bool {
	item, ok := q.byID[entryID]
	if !ok {
		return false
	}
	q.remove(item)
	return true
}

// promoteStale raises entries one tier once they have waited past
// staleAfter. The reference point resets on each promotion, so an
// entry climbs one tier per stale period until it reaches critical
// and stops.
func (q *userQueue) promoteStale(now time.Time, staleAfter time.Duration) []promotion {
	var promotions []promotion
	for _, item := range q.items {
		entry := item.entry
		if entry.Priority <= domain.PriorityCritical {
			continue
		}
		if now.Sub(entry.AgeReference()) < staleAfter {
			continue
		}
		from := entry.Priority
		entry.Priority = entry.Priority.Promote()
		entry.PromotedAt = now
		promotions = append(promotions, promotion{
			entryID: entry.ID,
			from:    from,
			to:      entry.Priority,
		})
	}
	if len(promotions) > 0 {
		heap.Init(&q.items)
	}
	return promotions
}

// dequeue pops up to count deliverable entries in priority order.
// Scheduled entries that are not yet due are skipped and stay queued.
func (q *userQueue) dequeue(now time.Time, count int) []domain.QueueEntry {
	taken := make([]domain.QueueEntry, 0, count)
	var skipped []*domain.QueueEntry

	for len(taken) < count && q.items.Len() > 0 {
		item := heap.Pop(&q.items).(*entryItem)
		delete(q.byID, item.entry.ID)
		if item.entry.Deliverable(now) {
			taken = append(taken, *item.entry)
		} else {
			skipped = append(skipped, item.entry)
		}
	}

	for _, entry := range skipped {
		q.push(entry)
	}
	return taken
}

// drainDue pops everything due for delivery on a drain tick. Immediate
// and due scheduled entries all leave; batched and digest entries
// leave in a group capped at batchMax.
func (q *userQueue) drainDue(now time.Time, batchMax int) []domain.QueueEntry {
	var taken []domain.QueueEntry
	var skipped []*domain.QueueEntry
	grouped := 0

	for q.items.Len() > 0 {
		item := heap.Pop(&q.items).(*entryItem)
		entry := item.entry
		delete(q.byID, entry.ID)

		if !entry.Deliverable(now) {
			skipped = append(skipped, entry)
			continue
		}
		if entry.Strategy.Grouped() {
			if grouped >= batchMax {
				skipped = append(skipped, entry)
				continue
			}
			grouped++
		}
		taken = append(taken, *entry)
	}

	for _, entry := range skipped {
		q.push(entry)
	}
	return taken
}

// peek returns up to count entries in dequeue order without removal.
func (q *userQueue) peek(count int) []domain.QueueEntry {
	sorted := q.sorted()
	if count < len(sorted) {
		sorted = sorted[:count]
	}
	return sorted
}

func (q *userQueue) sorted() []domain.QueueEntry {
	entries := make([]domain.QueueEntry, 0, len(q.items))
	for _, item := range q.items {
		entries = append(entries, *item.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Priority != b.Priority {
			return a.Priority.Before(b.Priority)
		}
		if !a.EnqueuedAt.Equal(b.EnqueuedAt) {
			return a.EnqueuedAt.Before(b.EnqueuedAt)
		}
		return a.Seq < b.Seq
	})
	return entries
}

// evictWorst removes the lowest-priority oldest entry to make room.
func (q *userQueue) evictWorst() *domain.QueueEntry {
	if len(q.items) == 0 {
		return nil
	}
	worst := q.items[0]
	for _, item := range q.items[1:] {
		a, b := item.entry, worst.entry
		if a.Priority != b.Priority {
			if b.Priority.Before(a.Priority) {
				worst = item
			}
			continue
		}
		if a.EnqueuedAt.Before(b.EnqueuedAt) {
			worst = item
		}
	}
	return q.remove(worst)
}
