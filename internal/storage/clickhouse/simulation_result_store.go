package clickhouse

import (
	"context"
	"fmt"
	"sort"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
)

// SimulationResultStore implements storage.SimulationResultStore using
// ClickHouse. One domain result fans out to one row per horizon; reads
// group the rows back into a single result.
type SimulationResultStore struct {
	conn *Conn
}

// NewSimulationResultStore creates a new SimulationResultStore.
func NewSimulationResultStore(conn *Conn) *SimulationResultStore {
	return &SimulationResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SimulationResultStore = (*SimulationResultStore)(nil)

// Insert adds a new result. Returns ErrDuplicateKey if the stake exists.
// MergeTree does not enforce uniqueness, so existence is checked first.
func (s *SimulationResultStore) Insert(ctx context.Context, r *domain.SimulationResult) error {
	if r == nil || r.StakeID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, r.StakeID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO simulation_results (
			stake_id, mu, sigma, sigma2,
			time_horizon, risk_of_ruin,
			final_mean, final_std, final_p10, final_p90,
			drawdown_probs
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	// Stable row order keeps inserts reproducible
	horizons := make([]int, 0, len(r.Horizons))
	for h := range r.Horizons {
		horizons = append(horizons, h)
	}
	sort.Ints(horizons)

	for _, h := range horizons {
		m := r.Horizons[h]
		err = batch.Append(
			r.StakeID, r.Mu, r.Sigma, r.Sigma2,
			uint32(h), m.RiskOfRuin,
			m.FinalMean, m.FinalStd, m.FinalP10, m.FinalP90,
			m.Drawdowns,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByStake retrieves a result by stake. Returns ErrNotFound if not exists.
func (s *SimulationResultStore) GetByStake(ctx context.Context, stakeID string) (*domain.SimulationResult, error) {
	query := `
		SELECT
			stake_id, mu, sigma, sigma2,
			time_horizon, risk_of_ruin,
			final_mean, final_std, final_p10, final_p90,
			drawdown_probs
		FROM simulation_results
		WHERE stake_id = ?
		ORDER BY time_horizon ASC
	`

	rows, err := s.conn.Query(ctx, query, stakeID)
	if err != nil {
		return nil, fmt.Errorf("get simulation result by stake: %w", err)
	}
	defer rows.Close()

	results, err := collectResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, storage.ErrNotFound
	}
	return results[0], nil
}

// GetAll retrieves all results, ordered by stake_id ASC.
func (s *SimulationResultStore) GetAll(ctx context.Context) ([]*domain.SimulationResult, error) {
	query := `
		SELECT
			stake_id, mu, sigma, sigma2,
			time_horizon, risk_of_ruin,
			final_mean, final_std, final_p10, final_p90,
			drawdown_probs
		FROM simulation_results
		ORDER BY stake_id ASC, time_horizon ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all simulation results: %w", err)
	}
	defer rows.Close()

	return collectResults(rows)
}

func (s *SimulationResultStore) exists(ctx context.Context, stakeID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM simulation_results WHERE stake_id = ?`, stakeID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type resultRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collectResults groups per-horizon rows into one result per stake. Rows
// arrive ordered by stake_id, so a stake change starts a new result.
func collectResults(rows resultRows) ([]*domain.SimulationResult, error) {
	var results []*domain.SimulationResult
	var current *domain.SimulationResult

	for rows.Next() {
		var (
			stakeID             string
			mu, sigma, sigma2   float64
			horizon             uint32
			ror                 float64
			mean, std, p10, p90 float64
			drawdowns           map[float64]float64
		)
		err := rows.Scan(
			&stakeID, &mu, &sigma, &sigma2,
			&horizon, &ror,
			&mean, &std, &p10, &p90,
			&drawdowns,
		)
		if err != nil {
			return nil, fmt.Errorf("scan simulation result: %w", err)
		}

		if current == nil || current.StakeID != stakeID {
			current = &domain.SimulationResult{
				StakeID:  stakeID,
				Mu:       mu,
				Sigma:    sigma,
				Sigma2:   sigma2,
				Horizons: make(map[int]domain.HorizonMetrics),
			}
			results = append(results, current)
		}

		current.Horizons[int(horizon)] = domain.HorizonMetrics{
			RiskOfRuin: ror,
			FinalMean:  mean,
			FinalStd:   std,
			FinalP10:   p10,
			FinalP90:   p90,
			Drawdowns:  drawdowns,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulation results: %w", err)
	}
	return results, nil
}
