package domain

import "context"

//go:generate mockgen -source=queue_store.go -destination=queue_store_mock.go -package=domain

// QueueStore persists per-user queue snapshots. The in-memory queue is
// authoritative while the process runs; the store exists so queues
// survive restarts.
type QueueStore interface {
	GetQueue(ctx context.Context, userID string) ([]QueueEntry, error)
	PutQueue(ctx context.Context, userID string, entries []QueueEntry) error
	DeleteQueue(ctx context.Context, userID string) error
	ListQueueUsers(ctx context.Context) ([]string, error)
}
