package domain

import (
	"time"
)

type QueueEntry struct {
	ID           string
	UserID       string
	Notification Notification
	Priority     Priority
	Strategy     DeliveryStrategy
	EnqueuedAt   time.Time
	Seq          uint64
	DeliverAfter time.Time
	PromotedAt   time.Time
}

func NewQueueEntry(id string, notification Notification, priority Priority, strategy DeliveryStrategy, seq uint64, enqueuedAt time.Time) *QueueEntry {
	return &QueueEntry{
		ID:           id,
		UserID:       notification.UserID,
		Notification: notification,
		Priority:     priority,
		Strategy:     strategy,
		EnqueuedAt:   enqueuedAt.UTC(),
		Seq:          seq,
	}
}

// Deliverable reports whether the entry may leave the queue at now.
// Scheduled entries stay queued until their deliver-after instant.
func (e *QueueEntry) Deliverable(now time.Time) bool {
	return e.DeliverAfter.IsZero() || !now.Before(e.DeliverAfter)
}

// AgeReference is the instant staleness is measured from: the last
// promotion if one happened, otherwise the enqueue time.
func (e *QueueEntry) AgeReference() time.Time {
	if !e.PromotedAt.IsZero() {
		return e.PromotedAt
	}
	return e.EnqueuedAt
}
