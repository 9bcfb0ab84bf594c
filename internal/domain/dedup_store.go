package domain

import "context"

//go:generate mockgen -source=dedup_store.go -destination=dedup_store_mock.go -package=domain

// DedupStore remembers notification IDs that already entered the
// pipeline so retried submissions are not triaged twice.
type DedupStore interface {
	// FirstSeen records the ID and reports whether this was the first
	// time it was observed.
	FirstSeen(ctx context.Context, notificationID string) (bool, error)
}
