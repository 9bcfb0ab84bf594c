package queue

import (
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

type entryItem struct {
	entry *domain.QueueEntry
	index int
}

// entryHeap orders items by (priority, enqueued_at, seq). Seq is the
// explicit FIFO tie-break within a tier; insertion order never depends
// on map iteration.
type entryHeap []*entryItem

func (h entryHeap) Len() int {
	return len(h)
}

func (h entryHeap) Less(i, j int) bool {
	a, b := h[i].entry, h[j].entry

	if a.Priority != b.Priority {
		return a.Priority.Before(b.Priority)
	}
	if !a.EnqueuedAt.Equal(b.EnqueuedAt) {
		return a.EnqueuedAt.Before(b.EnqueuedAt)
	}
	return a.Seq < b.Seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	item := x.(*entryItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[0 : n-1]
	return item
}
