package storage

import (
	"context"

	"bankroll-lab/internal/domain"
)

// SessionStore provides access to raw session storage.
type SessionStore interface {
	// Insert adds a new session. Returns ErrDuplicateKey if session_id exists.
	Insert(ctx context.Context, s *domain.RawSession) error

	// InsertBulk adds multiple sessions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, sessions []*domain.RawSession) error

	// GetByID retrieves a session by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, sessionID string) (*domain.RawSession, error)

	// GetByStake retrieves all sessions at a stake, ordered by date ASC, session_id ASC.
	GetByStake(ctx context.Context, stakeText string) ([]*domain.RawSession, error)

	// GetAll retrieves all sessions, ordered by date ASC, session_id ASC.
	GetAll(ctx context.Context) ([]*domain.RawSession, error)
}

// EstimateStore provides access to per-stake estimate storage.
type EstimateStore interface {
	// Insert adds a new estimate. Returns ErrDuplicateKey if the stake exists.
	Insert(ctx context.Context, e *domain.StakeEstimate) error

	// InsertBulk adds multiple estimates atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, estimates []*domain.StakeEstimate) error

	// GetByStake retrieves an estimate by stake. Returns ErrNotFound if not exists.
	GetByStake(ctx context.Context, stakeID string) (*domain.StakeEstimate, error)

	// GetAll retrieves all estimates, ordered by stake_id ASC.
	GetAll(ctx context.Context) ([]*domain.StakeEstimate, error)
}

// SimulationResultStore provides access to simulation result storage.
type SimulationResultStore interface {
	// Insert adds a new result. Returns ErrDuplicateKey if the stake exists.
	Insert(ctx context.Context, r *domain.SimulationResult) error

	// GetByStake retrieves a result by stake. Returns ErrNotFound if not exists.
	GetByStake(ctx context.Context, stakeID string) (*domain.SimulationResult, error)

	// GetAll retrieves all results, ordered by stake_id ASC.
	GetAll(ctx context.Context) ([]*domain.SimulationResult, error)
}
