package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

const (
	seenKeyPrefix = "triage:seen:"

	seenTTL = 1 * time.Hour
)

type redisDedupStore struct {
	client *redis.Client
}

// NewDedupStore tracks notification IDs that already entered the
// pipeline. A retried submission inside the TTL is reported as seen.
func NewDedupStore(client *redis.Client) domain.DedupStore {
	return &redisDedupStore{
		client: client,
	}
}

func (s *redisDedupStore) FirstSeen(ctx context.Context, notificationID string) (bool, error) {
	first, err := s.client.SetNX(ctx, seenKeyPrefix+notificationID, 1, seenTTL).Result()
	if err != nil {
		return false, wrapRedis(err)
	}
	return first, nil
}
