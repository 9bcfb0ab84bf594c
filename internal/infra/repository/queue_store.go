package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

const (
	queueKeyPrefix = "triage:queue:"
	queueUsersKey  = "triage:queue:users"

	queueTTL = 7 * 24 * time.Hour
)

type queueEntryRecord struct {
	ID           string    `json:"id"`
	Priority     string    `json:"priority"`
	Strategy     string    `json:"strategy"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
	Seq          uint64    `json:"seq"`
	DeliverAfter time.Time `json:"deliver_after,omitzero"`
	PromotedAt   time.Time `json:"promoted_at,omitzero"`

	Notification notificationRecord `json:"notification"`
}

type notificationRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AppID     string    `json:"app_id"`
	Sender    string    `json:"sender"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type redisQueueStore struct {
	client *redis.Client
}

// NewQueueStore persists per-user queue snapshots in Redis as JSON
// blobs keyed by user, with a set tracking which users hold state.
func NewQueueStore(client *redis.Client) domain.QueueStore {
	return &redisQueueStore{
		client: client,
	}
}

func (s *redisQueueStore) GetQueue(ctx context.Context, userID string) ([]domain.QueueEntry, error) {
	data, err := s.client.Get(ctx, queueKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, wrapRedis(err)
	}

	var records []queueEntryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, ErrInvalidQueueData
	}

	entries := make([]domain.QueueEntry, 0, len(records))
	for _, r := range records {
		entry, err := r.toDomain(userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *redisQueueStore) PutQueue(ctx context.Context, userID string, entries []domain.QueueEntry) error {
	records := make([]queueEntryRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, toQueueRecord(entry))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return ErrInvalidQueueData
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, queueKeyPrefix+userID, data, queueTTL)
	pipe.SAdd(ctx, queueUsersKey, userID)

	if _, err := pipe.Exec(ctx); err != nil {
		return wrapRedis(err)
	}
	return nil
}

func (s *redisQueueStore) DeleteQueue(ctx context.Context, userID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, queueKeyPrefix+userID)
	pipe.SRem(ctx, queueUsersKey, userID)

	if _, err := pipe.Exec(ctx); err != nil {
		return wrapRedis(err)
	}
	return nil
}

func (s *redisQueueStore) ListQueueUsers(ctx context.Context) ([]string, error) {
	users, err := s.client.SMembers(ctx, queueUsersKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, wrapRedis(err)
	}
	return users, nil
}

func toQueueRecord(entry domain.QueueEntry) queueEntryRecord {
	return queueEntryRecord{
		ID:           entry.ID,
		Priority:     entry.Priority.String(),
		Strategy:     entry.Strategy.String(),
		EnqueuedAt:   entry.EnqueuedAt,
		Seq:          entry.Seq,
		DeliverAfter: entry.DeliverAfter,
		PromotedAt:   entry.PromotedAt,
		Notification: toNotificationRecord(entry.Notification),
	}
}

func (r queueEntryRecord) toDomain(userID string) (domain.QueueEntry, error) {
	priority, err := domain.ParsePriority(r.Priority)
	if err != nil {
		return domain.QueueEntry{}, ErrInvalidQueueData
	}

	return domain.QueueEntry{
		ID:           r.ID,
		UserID:       userID,
		Notification: r.Notification.toDomain(),
		Priority:     priority,
		Strategy:     domain.DeliveryStrategy(r.Strategy),
		EnqueuedAt:   r.EnqueuedAt,
		Seq:          r.Seq,
		DeliverAfter: r.DeliverAfter,
		PromotedAt:   r.PromotedAt,
	}, nil
}

func toNotificationRecord(n domain.Notification) notificationRecord {
	return notificationRecord{
		ID:        n.ID,
		UserID:    n.UserID,
		AppID:     n.AppID,
		Sender:    n.Sender,
		Title:     n.Title,
		Body:      n.Body,
		Category:  n.Category,
		CreatedAt: n.CreatedAt,
	}
}

func (r notificationRecord) toDomain() domain.Notification {
	return domain.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		AppID:     r.AppID,
		Sender:    r.Sender,
		Title:     r.Title,
		Body:      r.Body,
		Category:  r.Category,
		CreatedAt: r.CreatedAt,
	}
}
