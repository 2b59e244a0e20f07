package memory

import (
	"context"
	"sort"
	"sync"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
)

// EstimateStore is an in-memory implementation of storage.EstimateStore.
type EstimateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StakeEstimate // keyed by stake_id
}

var _ storage.EstimateStore = (*EstimateStore)(nil)

// NewEstimateStore creates a new in-memory estimate store.
func NewEstimateStore() *EstimateStore {
	return &EstimateStore{
		data: make(map[string]*domain.StakeEstimate),
	}
}

// Insert adds a new estimate. Returns ErrDuplicateKey if the stake exists.
func (s *EstimateStore) Insert(_ context.Context, e *domain.StakeEstimate) error {
	if e == nil || e.StakeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.StakeID]; exists {
		return storage.ErrDuplicateKey
	}

	estimateCopy := *e
	s.data[e.StakeID] = &estimateCopy
	return nil
}

// InsertBulk adds multiple estimates atomically. Fails the entire batch on
// any duplicate or invalid estimate.
func (s *EstimateStore) InsertBulk(_ context.Context, estimates []*domain.StakeEstimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(estimates))
	for _, e := range estimates {
		if e == nil || e.StakeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[e.StakeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[e.StakeID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[e.StakeID] = struct{}{}
	}

	for _, e := range estimates {
		estimateCopy := *e
		s.data[e.StakeID] = &estimateCopy
	}
	return nil
}

// GetByStake retrieves an estimate by stake. Returns ErrNotFound if not exists.
func (s *EstimateStore) GetByStake(_ context.Context, stakeID string) (*domain.StakeEstimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[stakeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	estimateCopy := *e
	return &estimateCopy, nil
}

// GetAll retrieves all estimates, ordered by stake_id ASC.
func (s *EstimateStore) GetAll(_ context.Context) ([]*domain.StakeEstimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.StakeEstimate, 0, len(s.data))
	for _, e := range s.data {
		estimateCopy := *e
		result = append(result, &estimateCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StakeID < result[j].StakeID
	})
	return result, nil
}
