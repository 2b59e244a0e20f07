package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
	pgstore "bankroll-lab/internal/storage/postgres"
)

func testSession(id, date, stake string) *domain.RawSession {
	return &domain.RawSession{
		SessionID:          id,
		Date:               date,
		Room:               "Bellagio",
		StakeText:          stake,
		BuyinsUSD:          500,
		CashoutsUSD:        750.50,
		HoursPlayed:        5.5,
		StraddleExposure:   domain.StraddleLow,
		SideBombpotsCount:  3,
		SideStandupMinutes: 15,
		SideBountyFlag:     true,
		StackDepthClass:    domain.DepthDeep,
		Notes:              "loose table",
	}
}

func TestSessionStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewSessionStore(pool)
	ctx := context.Background()

	session := testSession("sess-001", "2025-01-15", "2-5")

	err := store.Insert(ctx, session)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "sess-001")
	require.NoError(t, err)

	assert.Equal(t, session.SessionID, retrieved.SessionID)
	assert.Equal(t, session.Date, retrieved.Date)
	assert.Equal(t, session.Room, retrieved.Room)
	assert.Equal(t, session.StakeText, retrieved.StakeText)
	assert.Equal(t, session.BuyinsUSD, retrieved.BuyinsUSD)
	assert.Equal(t, session.CashoutsUSD, retrieved.CashoutsUSD)
	assert.Equal(t, session.HoursPlayed, retrieved.HoursPlayed)
	assert.Equal(t, session.StraddleExposure, retrieved.StraddleExposure)
	assert.Equal(t, session.SideBombpotsCount, retrieved.SideBombpotsCount)
	assert.Equal(t, session.SideStandupMinutes, retrieved.SideStandupMinutes)
	assert.Equal(t, session.SideBountyFlag, retrieved.SideBountyFlag)
	assert.Equal(t, session.StackDepthClass, retrieved.StackDepthClass)
	assert.Equal(t, session.Notes, retrieved.Notes)
}

func TestSessionStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewSessionStore(pool)
	ctx := context.Background()

	session := testSession("sess-dup", "2025-01-15", "2-5")

	require.NoError(t, store.Insert(ctx, session))

	err := store.Insert(ctx, session)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSessionStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewSessionStore(pool)
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionStore_InsertBulkRollsBackOnDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewSessionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSession("sess-existing", "2025-01-10", "2-5")))

	batch := []*domain.RawSession{
		testSession("sess-new", "2025-01-11", "2-5"),
		testSession("sess-existing", "2025-01-12", "2-5"),
	}
	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The transaction must have rolled back the non-duplicate row
	_, err = store.GetByID(ctx, "sess-new")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionStore_GetByStakeOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := pgstore.NewSessionStore(pool)
	ctx := context.Background()

	sessions := []*domain.RawSession{
		testSession("sess-b", "2025-01-20", "2-5"),
		testSession("sess-a", "2025-01-20", "2-5"),
		testSession("sess-c", "2025-01-10", "2-5"),
		testSession("sess-d", "2025-01-15", "5-10"),
	}
	require.NoError(t, store.InsertBulk(ctx, sessions))

	got, err := store.GetByStake(ctx, "2-5")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// date ASC, then session_id ASC
	assert.Equal(t, "sess-c", got[0].SessionID)
	assert.Equal(t, "sess-a", got[1].SessionID)
	assert.Equal(t, "sess-b", got[2].SessionID)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
