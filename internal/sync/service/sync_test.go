package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridmines/minesync/internal/sync/domain"
)

func testSettings(modifiedAt int64) domain.GameSettings {
	return domain.GameSettings{
		Theme:              1,
		DefaultAction:      domain.ActionDig,
		LongTapDelay:       200,
		VibrationIntensity: 2,
		ModifiedAt:         modifiedAt,
	}
}

func TestSyncMerge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("first sync creates everything", func(t *testing.T) {
		st := newTestStore(t)
		svc := &SyncService{Store: st}
		userID := createTestUser(t, st, "alice", "Str0ngPassword!")

		state, created, err := svc.Sync(ctx, userID, domain.SyncData{
			Games: []domain.Game{
				{Difficulty: 0, EncodedGame: "g0", CreatedAt: 100.5},
			},
			TimeRecords: []domain.TimeRecord{
				{ID: "r1", Difficulty: 0, Time: 42000, CreatedAt: 1000},
			},
			Settings: testSettings(500),
		})
		require.NoError(t, err)
		require.True(t, created)
		require.Len(t, state.Games, 1)
		require.Len(t, state.TimeRecords, 1)
		require.NotNil(t, state.Settings)
		require.EqualValues(t, 500, state.Settings.ModifiedAt)
	})

	t.Run("newer client game overwrites, older and equal keep the server copy", func(t *testing.T) {
		st := newTestStore(t)
		svc := &SyncService{Store: st}
		userID := createTestUser(t, st, "bob", "Str0ngPassword!")

		_, _, err := svc.Sync(ctx, userID, domain.SyncData{
			Games:    []domain.Game{{Difficulty: 0, EncodedGame: "server", CreatedAt: 200}},
			Settings: testSettings(1),
		})
		require.NoError(t, err)

		// Older client copy: server wins.
		state, created, err := svc.Sync(ctx, userID, domain.SyncData{
			Games:    []domain.Game{{Difficulty: 0, EncodedGame: "older", CreatedAt: 100}},
			Settings: testSettings(1),
		})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, "server", state.Games[0].EncodedGame)

		// Equal timestamps: server still wins.
		state, _, err = svc.Sync(ctx, userID, domain.SyncData{
			Games:    []domain.Game{{Difficulty: 0, EncodedGame: "tied", CreatedAt: 200}},
			Settings: testSettings(1),
		})
		require.NoError(t, err)
		require.Equal(t, "server", state.Games[0].EncodedGame)

		// Strictly newer client copy: client wins, but it is an update,
		// not a create.
		state, created, err = svc.Sync(ctx, userID, domain.SyncData{
			Games:    []domain.Game{{Difficulty: 0, EncodedGame: "newer", CreatedAt: 200.25}},
			Settings: testSettings(1),
		})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, "newer", state.Games[0].EncodedGame)
		require.EqualValues(t, 200.25, state.Games[0].CreatedAt)
	})

	t.Run("time records are additive by id", func(t *testing.T) {
		st := newTestStore(t)
		svc := &SyncService{Store: st}
		userID := createTestUser(t, st, "carol", "Str0ngPassword!")

		_, _, err := svc.Sync(ctx, userID, domain.SyncData{
			TimeRecords: []domain.TimeRecord{
				{ID: "r1", Difficulty: 0, Time: 42000, CreatedAt: 1000},
			},
			Settings: testSettings(1),
		})
		require.NoError(t, err)

		// A resubmitted id is ignored even with different fields; a new id
		// is appended.
		state, created, err := svc.Sync(ctx, userID, domain.SyncData{
			TimeRecords: []domain.TimeRecord{
				{ID: "r1", Difficulty: 1, Time: 1, CreatedAt: 9999},
				{ID: "r2", Difficulty: 0, Time: 41000, CreatedAt: 2000},
			},
			Settings: testSettings(1),
		})
		require.NoError(t, err)
		require.True(t, created)
		require.Len(t, state.TimeRecords, 2)
		for _, rec := range state.TimeRecords {
			if rec.ID == "r1" {
				require.EqualValues(t, 42000, rec.Time)
			}
		}
	})

	t.Run("duplicate record ids fail the whole batch", func(t *testing.T) {
		st := newTestStore(t)
		svc := &SyncService{Store: st}
		userID := createTestUser(t, st, "dave", "Str0ngPassword!")

		_, _, err := svc.Sync(ctx, userID, domain.SyncData{
			Games: []domain.Game{{Difficulty: 0, EncodedGame: "g", CreatedAt: 1}},
			TimeRecords: []domain.TimeRecord{
				{ID: "dup", Difficulty: 0, Time: 1, CreatedAt: 1},
				{ID: "dup", Difficulty: 1, Time: 2, CreatedAt: 2},
			},
			Settings: testSettings(1),
		})
		require.ErrorIs(t, err, ErrDuplicateRecordIDs)

		// Nothing was written, not even the game.
		state, err := svc.Snapshot(ctx, userID)
		require.NoError(t, err)
		require.Empty(t, state.Games)
		require.Empty(t, state.TimeRecords)
		require.Nil(t, state.Settings)
	})

	t.Run("duplicate difficulties fail the whole batch", func(t *testing.T) {
		st := newTestStore(t)
		svc := &SyncService{Store: st}
		userID := createTestUser(t, st, "erin", "Str0ngPassword!")

		_, _, err := svc.Sync(ctx, userID, domain.SyncData{
			Games: []domain.Game{
				{Difficulty: 0, EncodedGame: "a", CreatedAt: 1},
				{Difficulty: 0, EncodedGame: "b", CreatedAt: 2},
			},
			Settings: testSettings(1),
		})
		require.ErrorIs(t, err, ErrDuplicateDifficulties)
	})

	t.Run("settings overwrite only with a strictly newer timestamp", func(t *testing.T) {
		st := newTestStore(t)
		svc := &SyncService{Store: st}
		userID := createTestUser(t, st, "frank", "Str0ngPassword!")

		_, created, err := svc.Sync(ctx, userID, domain.SyncData{Settings: testSettings(1000)})
		require.NoError(t, err)
		require.True(t, created)

		// Older client settings: no-op.
		older := testSettings(500)
		older.Theme = 9
		state, created, err := svc.Sync(ctx, userID, domain.SyncData{Settings: older})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, 1, state.Settings.Theme)
		require.EqualValues(t, 1000, state.Settings.ModifiedAt)

		// Newer client settings: overwrite.
		newer := testSettings(2000)
		newer.Theme = 3
		state, created, err = svc.Sync(ctx, userID, domain.SyncData{Settings: newer})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, 3, state.Settings.Theme)
	})

	t.Run("second sync of the same payload is idempotent", func(t *testing.T) {
		st := newTestStore(t)
		svc := &SyncService{Store: st}
		userID := createTestUser(t, st, "grace", "Str0ngPassword!")

		data := domain.SyncData{
			Games: []domain.Game{{Difficulty: 1, EncodedGame: "g1", CreatedAt: 10}},
			TimeRecords: []domain.TimeRecord{
				{ID: "r1", Difficulty: 1, Time: 30000, CreatedAt: 100},
			},
			Settings: testSettings(50),
		}

		first, created, err := svc.Sync(ctx, userID, data)
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := svc.Sync(ctx, userID, data)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, first, second)
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &SyncService{Store: st}
	userID := createTestUser(t, st, "henry", "Str0ngPassword!")

	state, err := svc.Snapshot(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, state.Games)
	require.Empty(t, state.TimeRecords)
	require.Nil(t, state.Settings)
}
