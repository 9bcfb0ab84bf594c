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
	bundleKeyPrefix   = "triage:bundles:"
	bundleUsersKey    = "triage:bundles:users"
	releasedKeyPrefix = "triage:released:"

	bundleTTL = 7 * 24 * time.Hour
	// Released bundles stay retrievable for audit and digest expansion.
	releasedTTL = 24 * time.Hour
)

type bundleRecord struct {
	Key       string               `json:"key"`
	UserID    string               `json:"user_id"`
	Strategy  string               `json:"strategy"`
	Group     string               `json:"group"`
	CreatedAt time.Time            `json:"created_at"`
	ReadyAt   time.Time            `json:"ready_at"`
	Members   []bundleMemberRecord `json:"members"`
}

type bundleMemberRecord struct {
	Notification notificationRecord `json:"notification"`
	Urgency      string             `json:"urgency"`
}

type redisBundleStore struct {
	client *redis.Client
}

// NewBundleStore persists open bundles per user plus a released
// archive keyed by bundle key.
func NewBundleStore(client *redis.Client) domain.BundleStore {
	return &redisBundleStore{
		client: client,
	}
}

func (s *redisBundleStore) GetBundles(ctx context.Context, userID string) ([]domain.Bundle, error) {
	data, err := s.client.Get(ctx, bundleKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, wrapRedis(err)
	}

	var records []bundleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, ErrInvalidBundleData
	}

	bundles := make([]domain.Bundle, 0, len(records))
	for _, r := range records {
		bundles = append(bundles, r.toDomain())
	}
	return bundles, nil
}

func (s *redisBundleStore) PutBundles(ctx context.Context, userID string, bundles []domain.Bundle) error {
	if len(bundles) == 0 {
		return s.DeleteBundles(ctx, userID)
	}

	records := make([]bundleRecord, 0, len(bundles))
	for _, b := range bundles {
		records = append(records, toBundleRecord(b))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return ErrInvalidBundleData
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, bundleKeyPrefix+userID, data, bundleTTL)
	pipe.SAdd(ctx, bundleUsersKey, userID)

	if _, err := pipe.Exec(ctx); err != nil {
		return wrapRedis(err)
	}
	return nil
}

func (s *redisBundleStore) DeleteBundles(ctx context.Context, userID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, bundleKeyPrefix+userID)
	pipe.SRem(ctx, bundleUsersKey, userID)

	if _, err := pipe.Exec(ctx); err != nil {
		return wrapRedis(err)
	}
	return nil
}

func (s *redisBundleStore) ListBundleUsers(ctx context.Context) ([]string, error) {
	users, err := s.client.SMembers(ctx, bundleUsersKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, wrapRedis(err)
	}
	return users, nil
}

func (s *redisBundleStore) PutReleased(ctx context.Context, bundle domain.Bundle) error {
	data, err := json.Marshal(toBundleRecord(bundle))
	if err != nil {
		return ErrInvalidBundleData
	}

	key := releasedKeyPrefix + bundle.UserID + ":" + bundle.Key
	if err := s.client.Set(ctx, key, data, releasedTTL).Err(); err != nil {
		return wrapRedis(err)
	}
	return nil
}

func (s *redisBundleStore) GetReleased(ctx context.Context, userID, bundleKey string) (*domain.Bundle, error) {
	data, err := s.client.Get(ctx, releasedKeyPrefix+userID+":"+bundleKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrBundleNotFound
		}
		return nil, wrapRedis(err)
	}

	var record bundleRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidBundleData
	}

	bundle := record.toDomain()
	return &bundle, nil
}

func toBundleRecord(b domain.Bundle) bundleRecord {
	members := make([]bundleMemberRecord, 0, len(b.Members))
	for _, m := range b.Members {
		members = append(members, bundleMemberRecord{
			Notification: toNotificationRecord(m.Notification),
			Urgency:      m.Urgency.String(),
		})
	}
	return bundleRecord{
		Key:       b.Key,
		UserID:    b.UserID,
		Strategy:  b.Strategy.String(),
		Group:     b.Group,
		CreatedAt: b.CreatedAt,
		ReadyAt:   b.ReadyAt,
		Members:   members,
	}
}

func (r bundleRecord) toDomain() domain.Bundle {
	members := make([]domain.BundleMember, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, domain.BundleMember{
			Notification: m.Notification.toDomain(),
			Urgency:      domain.Urgency(m.Urgency),
		})
	}
	return domain.Bundle{
		Key:       r.Key,
		UserID:    r.UserID,
		Strategy:  domain.BundleStrategy(r.Strategy),
		Group:     r.Group,
		CreatedAt: r.CreatedAt,
		ReadyAt:   r.ReadyAt,
		Members:   members,
	}
}
