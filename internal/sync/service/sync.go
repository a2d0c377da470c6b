package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/store"
	"github.com/gridmines/minesync/pkg/slogx"
)

// SyncService merges client-submitted batches into the server state with a
// newer-wins policy and returns the authoritative state.
type SyncService struct {
	Store store.Store
}

// Sync merges data into the user's server state. Time records are additive
// by id, games are merged per difficulty (strictly newer client timestamp
// wins, ties keep the server copy) and the settings singleton is overwritten
// only when the client copy is strictly newer. The returned state is read
// back from storage after the merge, and created reports whether any row was
// inserted.
func (s *SyncService) Sync(ctx context.Context, userID int64, data domain.SyncData) (domain.SyncState, bool, error) {
	if err := checkBatch(data); err != nil {
		return domain.SyncState{}, false, err
	}

	var (
		state   domain.SyncState
		created bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		created, err = mergeBatch(ctx, tx, userID, data)
		if err != nil {
			return err
		}

		state, err = readState(ctx, tx, userID)
		if err != nil {
			return err
		}

		if !stateConsistent(state, data) {
			slogx.FromContext(ctx).Error("sync merge read-back mismatch",
				slog.Int64("user_id", userID))
			return ErrConsistency
		}
		return nil
	})
	if err != nil {
		return domain.SyncState{}, false, err
	}
	return state, created, nil
}

// Snapshot returns the user's current server state without merging anything.
func (s *SyncService) Snapshot(ctx context.Context, userID int64) (domain.SyncState, error) {
	var state domain.SyncState
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		state, err = readState(ctx, tx, userID)
		return err
	})
	if err != nil {
		return domain.SyncState{}, err
	}
	return state, nil
}

// checkBatch rejects batches with internal duplicates before any write.
func checkBatch(data domain.SyncData) error {
	ids := make(map[string]struct{}, len(data.TimeRecords))
	for _, rec := range data.TimeRecords {
		if _, ok := ids[rec.ID]; ok {
			return ErrDuplicateRecordIDs
		}
		ids[rec.ID] = struct{}{}
	}

	diffs := make(map[int]struct{}, len(data.Games))
	for _, g := range data.Games {
		if _, ok := diffs[g.Difficulty]; ok {
			return ErrDuplicateDifficulties
		}
		diffs[g.Difficulty] = struct{}{}
	}
	return nil
}

func mergeBatch(ctx context.Context, tx store.Tx, userID int64, data domain.SyncData) (created bool, err error) {
	serverGames, err := tx.Games().ListGames(ctx, userID)
	if err != nil {
		return false, err
	}
	byDifficulty := make(map[int]domain.Game, len(serverGames))
	for _, g := range serverGames {
		byDifficulty[g.Difficulty] = g
	}

	for _, g := range data.Games {
		server, ok := byDifficulty[g.Difficulty]
		switch {
		case !ok:
			if err := tx.Games().CreateGame(ctx, userID, g); err != nil {
				return false, err
			}
			created = true
		case g.CreatedAt > server.CreatedAt:
			if err := tx.Games().UpdateGame(ctx, userID, g); err != nil {
				return false, err
			}
		}
	}

	serverIDs, err := tx.TimeRecords().ListTimeRecordIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	known := make(map[string]struct{}, len(serverIDs))
	for _, id := range serverIDs {
		known[id] = struct{}{}
	}

	for _, rec := range data.TimeRecords {
		if _, ok := known[rec.ID]; ok {
			continue
		}
		if err := tx.TimeRecords().CreateTimeRecord(ctx, userID, rec); err != nil {
			return false, err
		}
		created = true
	}

	settings, err := tx.GameSettings().GetGameSettings(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if err := tx.GameSettings().CreateGameSettings(ctx, userID, data.Settings); err != nil {
			return false, err
		}
		created = true
	case err != nil:
		return false, err
	case data.Settings.ModifiedAt > settings.ModifiedAt:
		if err := tx.GameSettings().UpdateGameSettings(ctx, userID, data.Settings); err != nil {
			return false, err
		}
	}

	return created, nil
}

func readState(ctx context.Context, tx store.Tx, userID int64) (domain.SyncState, error) {
	games, err := tx.Games().ListGames(ctx, userID)
	if err != nil {
		return domain.SyncState{}, err
	}

	records, err := tx.TimeRecords().ListTimeRecords(ctx, userID)
	if err != nil {
		return domain.SyncState{}, err
	}

	state := domain.SyncState{Games: games, TimeRecords: records}

	settings, err := tx.GameSettings().GetGameSettings(ctx, userID)
	switch {
	case err == nil:
		state.Settings = &settings
	case !errors.Is(err, store.ErrNotFound):
		return domain.SyncState{}, err
	}
	return state, nil
}

// stateConsistent verifies the read-back state actually contains everything
// the merge was required to keep: every submitted record id, a game per
// submitted difficulty and a settings row.
func stateConsistent(state domain.SyncState, data domain.SyncData) bool {
	if state.Settings == nil {
		return false
	}

	diffs := make(map[int]struct{}, len(state.Games))
	for _, g := range state.Games {
		diffs[g.Difficulty] = struct{}{}
	}
	for _, g := range data.Games {
		if _, ok := diffs[g.Difficulty]; !ok {
			return false
		}
	}

	ids := make(map[string]struct{}, len(state.TimeRecords))
	for _, rec := range state.TimeRecords {
		ids[rec.ID] = struct{}{}
	}
	for _, rec := range data.TimeRecords {
		if _, ok := ids[rec.ID]; !ok {
			return false
		}
	}
	return true
}
