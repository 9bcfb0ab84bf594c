package stub

import (
	"sync"
	"time"
)

// DeliveryStorage collects everything the triage service pushes out,
// keyed by run ID so concurrent load test runs stay separated.
type DeliveryStorage struct {
	mu         sync.RWMutex
	deliveries map[string][]DeliveryRecord // runID -> deliveries
}

func NewDeliveryStorage() *DeliveryStorage {
	return &DeliveryStorage{
		deliveries: make(map[string][]DeliveryRecord),
	}
}

func (s *DeliveryStorage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deliveries, runID)
}

func (s *DeliveryStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = make(map[string][]DeliveryRecord)
}

func (s *DeliveryStorage) Add(runID string, req DeliveryRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries[runID] = append(s.deliveries[runID], DeliveryRecord{
		DeliveryRequest: req,
		ReceivedAt:      time.Now().UTC(),
	})
}

// List returns deliveries for the run, optionally filtered by user and
// kind. Empty filters match everything.
func (s *DeliveryStorage) List(runID, userID, kind string) []DeliveryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]DeliveryRecord, 0)
	for _, r := range s.deliveries[runID] {
		if userID != "" && r.UserID != userID {
			continue
		}
		if kind != "" && r.Kind != kind {
			continue
		}
		records = append(records, r)
	}
	return records
}

func (s *DeliveryStorage) Count(runID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deliveries[runID])
}
