package memory

import (
	"context"
	"sort"
	"sync"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
)

// SimulationResultStore is an in-memory implementation of
// storage.SimulationResultStore.
type SimulationResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulationResult // keyed by stake_id
}

var _ storage.SimulationResultStore = (*SimulationResultStore)(nil)

// NewSimulationResultStore creates a new in-memory simulation result store.
func NewSimulationResultStore() *SimulationResultStore {
	return &SimulationResultStore{
		data: make(map[string]*domain.SimulationResult),
	}
}

// Insert adds a new result. Returns ErrDuplicateKey if the stake exists.
func (s *SimulationResultStore) Insert(_ context.Context, r *domain.SimulationResult) error {
	if r == nil || r.StakeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.StakeID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[r.StakeID] = copyResult(r)
	return nil
}

// GetByStake retrieves a result by stake. Returns ErrNotFound if not exists.
func (s *SimulationResultStore) GetByStake(_ context.Context, stakeID string) (*domain.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[stakeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyResult(r), nil
}

// GetAll retrieves all results, ordered by stake_id ASC.
func (s *SimulationResultStore) GetAll(_ context.Context) ([]*domain.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SimulationResult, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, copyResult(r))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StakeID < result[j].StakeID
	})
	return result, nil
}

// copyResult deep-copies a result. The nested horizon and drawdown maps
// would otherwise stay shared with the caller.
func copyResult(r *domain.SimulationResult) *domain.SimulationResult {
	resultCopy := *r
	resultCopy.Horizons = make(map[int]domain.HorizonMetrics, len(r.Horizons))
	for h, m := range r.Horizons {
		metricsCopy := m
		metricsCopy.Drawdowns = make(map[float64]float64, len(m.Drawdowns))
		for threshold, prob := range m.Drawdowns {
			metricsCopy.Drawdowns[threshold] = prob
		}
		resultCopy.Horizons[h] = metricsCopy
	}
	return &resultCopy
}
