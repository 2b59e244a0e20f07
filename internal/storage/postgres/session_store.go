package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
)

// SessionStore implements storage.SessionStore using PostgreSQL.
type SessionStore struct {
	pool *Pool
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(pool *Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SessionStore = (*SessionStore)(nil)

const insertSessionQuery = `
	INSERT INTO sessions (
		session_id, date, room, stake_text,
		buyins_usd, cashouts_usd, hours_played,
		straddle_exposure, side_bombpots_count, side_standup_minutes,
		side_bounty_flag, stack_depth_class, notes
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10,
		$11, $12, $13
	)
`

const selectSessionColumns = `
	session_id, date, room, stake_text,
	buyins_usd, cashouts_usd, hours_played,
	straddle_exposure, side_bombpots_count, side_standup_minutes,
	side_bounty_flag, stack_depth_class, notes
`

// Insert adds a new session. Returns ErrDuplicateKey if session_id exists.
func (s *SessionStore) Insert(ctx context.Context, session *domain.RawSession) error {
	_, err := s.pool.Exec(ctx, insertSessionQuery, sessionArgs(session)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// InsertBulk adds multiple sessions atomically. Fails entire batch on any duplicate.
func (s *SessionStore) InsertBulk(ctx context.Context, sessions []*domain.RawSession) error {
	if len(sessions) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, session := range sessions {
		if _, err := tx.Exec(ctx, insertSessionQuery, sessionArgs(session)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert session in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its ID. Returns ErrNotFound if not exists.
func (s *SessionStore) GetByID(ctx context.Context, sessionID string) (*domain.RawSession, error) {
	query := `SELECT ` + selectSessionColumns + ` FROM sessions WHERE session_id = $1`

	row := s.pool.QueryRow(ctx, query, sessionID)
	session, err := scanSession(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}
	return session, nil
}

// GetByStake retrieves all sessions at a stake, ordered by date ASC, session_id ASC.
func (s *SessionStore) GetByStake(ctx context.Context, stakeText string) ([]*domain.RawSession, error) {
	query := `SELECT ` + selectSessionColumns + `
		FROM sessions
		WHERE stake_text = $1
		ORDER BY date ASC, session_id ASC`

	rows, err := s.pool.Query(ctx, query, stakeText)
	if err != nil {
		return nil, fmt.Errorf("get sessions by stake: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// GetAll retrieves all sessions, ordered by date ASC, session_id ASC.
func (s *SessionStore) GetAll(ctx context.Context) ([]*domain.RawSession, error) {
	query := `SELECT ` + selectSessionColumns + `
		FROM sessions
		ORDER BY date ASC, session_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func sessionArgs(s *domain.RawSession) []any {
	return []any{
		s.SessionID, s.Date, s.Room, s.StakeText,
		s.BuyinsUSD, s.CashoutsUSD, s.HoursPlayed,
		s.StraddleExposure, s.SideBombpotsCount, s.SideStandupMinutes,
		s.SideBountyFlag, s.StackDepthClass, s.Notes,
	}
}

func scanSession(row pgx.Row) (*domain.RawSession, error) {
	var s domain.RawSession
	err := row.Scan(
		&s.SessionID, &s.Date, &s.Room, &s.StakeText,
		&s.BuyinsUSD, &s.CashoutsUSD, &s.HoursPlayed,
		&s.StraddleExposure, &s.SideBombpotsCount, &s.SideStandupMinutes,
		&s.SideBountyFlag, &s.StackDepthClass, &s.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSessions(rows pgx.Rows) ([]*domain.RawSession, error) {
	var result []*domain.RawSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		result = append(result, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return result, nil
}
