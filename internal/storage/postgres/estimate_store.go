package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
)

// EstimateStore implements storage.EstimateStore using PostgreSQL.
type EstimateStore struct {
	pool *Pool
}

// NewEstimateStore creates a new EstimateStore.
func NewEstimateStore(pool *Pool) *EstimateStore {
	return &EstimateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EstimateStore = (*EstimateStore)(nil)

const insertEstimateQuery = `
	INSERT INTO stake_estimates (
		stake_id, n_sessions, total_hands, total_hours, avg_session_hours,
		mu_bb_per_hand, mu_bb_ci_lower, mu_bb_ci_upper,
		mu_usd_per_hand, mu_usd_ci_lower, mu_usd_ci_upper,
		sigma2_bb, sigma2_usd,
		bb_per_hour, hourly_rate_usd, total_bb_won, total_usd_won,
		sharpe_ratio, kelly_fraction, required_bankroll_bb
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11,
		$12, $13,
		$14, $15, $16, $17,
		$18, $19, $20
	)
`

const selectEstimateColumns = `
	stake_id, n_sessions, total_hands, total_hours, avg_session_hours,
	mu_bb_per_hand, mu_bb_ci_lower, mu_bb_ci_upper,
	mu_usd_per_hand, mu_usd_ci_lower, mu_usd_ci_upper,
	sigma2_bb, sigma2_usd,
	bb_per_hour, hourly_rate_usd, total_bb_won, total_usd_won,
	sharpe_ratio, kelly_fraction, required_bankroll_bb
`

// Insert adds a new estimate. Returns ErrDuplicateKey if the stake exists.
func (s *EstimateStore) Insert(ctx context.Context, e *domain.StakeEstimate) error {
	_, err := s.pool.Exec(ctx, insertEstimateQuery, estimateArgs(e)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert estimate: %w", err)
	}
	return nil
}

// InsertBulk adds multiple estimates atomically. Fails entire batch on any duplicate.
func (s *EstimateStore) InsertBulk(ctx context.Context, estimates []*domain.StakeEstimate) error {
	if len(estimates) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range estimates {
		if _, err := tx.Exec(ctx, insertEstimateQuery, estimateArgs(e)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert estimate in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByStake retrieves an estimate by stake. Returns ErrNotFound if not exists.
func (s *EstimateStore) GetByStake(ctx context.Context, stakeID string) (*domain.StakeEstimate, error) {
	query := `SELECT ` + selectEstimateColumns + ` FROM stake_estimates WHERE stake_id = $1`

	row := s.pool.QueryRow(ctx, query, stakeID)
	e, err := scanEstimate(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get estimate by stake: %w", err)
	}
	return e, nil
}

// GetAll retrieves all estimates, ordered by stake_id ASC.
func (s *EstimateStore) GetAll(ctx context.Context) ([]*domain.StakeEstimate, error) {
	query := `SELECT ` + selectEstimateColumns + ` FROM stake_estimates ORDER BY stake_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all estimates: %w", err)
	}
	defer rows.Close()

	var result []*domain.StakeEstimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}
	return result, nil
}

func estimateArgs(e *domain.StakeEstimate) []any {
	return []any{
		e.StakeID, e.NSessions, e.TotalHands, e.TotalHours, e.AvgSessionHours,
		e.MuBBPerHand, e.MuBBCI.Lower, e.MuBBCI.Upper,
		e.MuUSDPerHand, e.MuUSDCI.Lower, e.MuUSDCI.Upper,
		e.Sigma2BB, e.Sigma2USD,
		e.BBPerHour, e.HourlyRateUSD, e.TotalBBWon, e.TotalUSDWon,
		e.SharpeRatio, e.KellyFraction, e.RequiredBankrollBB,
	}
}

func scanEstimate(row pgx.Row) (*domain.StakeEstimate, error) {
	var e domain.StakeEstimate
	err := row.Scan(
		&e.StakeID, &e.NSessions, &e.TotalHands, &e.TotalHours, &e.AvgSessionHours,
		&e.MuBBPerHand, &e.MuBBCI.Lower, &e.MuBBCI.Upper,
		&e.MuUSDPerHand, &e.MuUSDCI.Lower, &e.MuUSDCI.Upper,
		&e.Sigma2BB, &e.Sigma2USD,
		&e.BBPerHour, &e.HourlyRateUSD, &e.TotalBBWon, &e.TotalUSDWon,
		&e.SharpeRatio, &e.KellyFraction, &e.RequiredBankrollBB,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
