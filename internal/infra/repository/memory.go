package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// In-memory store implementations. They satisfy the same narrow
// interfaces as the Redis stores, for tests and for running without a
// durability backend.

type memoryQueueStore struct {
	mu     sync.RWMutex
	queues map[string][]domain.QueueEntry
}

func NewMemoryQueueStore() domain.QueueStore {
	return &memoryQueueStore{
		queues: make(map[string][]domain.QueueEntry),
	}
}

func (s *memoryQueueStore) GetQueue(_ context.Context, userID string) ([]domain.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.QueueEntry, len(s.queues[userID]))
	copy(entries, s.queues[userID])
	return entries, nil
}

func (s *memoryQueueStore) PutQueue(_ context.Context, userID string, entries []domain.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.QueueEntry, len(entries))
	copy(stored, entries)
	s.queues[userID] = stored
	return nil
}

func (s *memoryQueueStore) DeleteQueue(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, userID)
	return nil
}

func (s *memoryQueueStore) ListQueueUsers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.queues))
	for userID := range s.queues {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

type memoryBundleStore struct {
	mu       sync.RWMutex
	bundles  map[string][]domain.Bundle
	released map[string]domain.Bundle
}

func NewMemoryBundleStore() domain.BundleStore {
	return &memoryBundleStore{
		bundles:  make(map[string][]domain.Bundle),
		released: make(map[string]domain.Bundle),
	}
}

func (s *memoryBundleStore) GetBundles(_ context.Context, userID string) ([]domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bundles := make([]domain.Bundle, len(s.bundles[userID]))
	copy(bundles, s.bundles[userID])
	return bundles, nil
}

func (s *memoryBundleStore) PutBundles(_ context.Context, userID string, bundles []domain.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(bundles) == 0 {
		delete(s.bundles, userID)
		return nil
	}
	stored := make([]domain.Bundle, len(bundles))
	copy(stored, bundles)
	s.bundles[userID] = stored
	return nil
}

func (s *memoryBundleStore) DeleteBundles(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bundles, userID)
	return nil
}

func (s *memoryBundleStore) ListBundleUsers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.bundles))
	for userID := range s.bundles {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

func (s *memoryBundleStore) PutReleased(_ context.Context, bundle domain.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released[bundle.UserID+":"+bundle.Key] = bundle
	return nil
}

func (s *memoryBundleStore) GetReleased(_ context.Context, userID, bundleKey string) (*domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bundle, ok := s.released[userID+":"+bundleKey]
	if !ok {
		return nil, domain.ErrBundleNotFound
	}
	return &bundle, nil
}

type memoryDedupStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewMemoryDedupStore() domain.DedupStore {
	return &memoryDedupStore{
		seen: make(map[string]bool),
	}
}

func (s *memoryDedupStore) FirstSeen(_ context.Context, notificationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[notificationID] {
		return false, nil
	}
	s.seen[notificationID] = true
	return true, nil
}
