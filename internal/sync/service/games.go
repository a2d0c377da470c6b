package service

import (
	"context"
	"errors"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/store"
)

// GameService manages the single in-progress game per difficulty.
type GameService struct {
	Store store.Store
}

// Save stores g for the user. A game already on the server with a strictly
// newer timestamp is kept and the call fails with ErrNewerVersion. The
// returned bool reports whether a new row was inserted.
func (s *GameService) Save(ctx context.Context, userID int64, g domain.Game) (created bool, err error) {
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		server, err := tx.Games().GetGameByDifficulty(ctx, userID, g.Difficulty)
		if errors.Is(err, store.ErrNotFound) {
			created = true
			return tx.Games().CreateGame(ctx, userID, g)
		}
		if err != nil {
			return err
		}
		if server.CreatedAt > g.CreatedAt {
			return ErrNewerVersion
		}
		return tx.Games().UpdateGame(ctx, userID, g)
	})
	return created, err
}

// List returns the user's games, or ErrNotFound when there are none.
func (s *GameService) List(ctx context.Context, userID int64) ([]domain.Game, error) {
	games, err := s.Store.Games().ListGames(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNotFound
	}
	return games, nil
}

// Delete removes the game at difficulty, if any.
func (s *GameService) Delete(ctx context.Context, userID int64, difficulty int) error {
	err := s.Store.Games().DeleteGame(ctx, userID, difficulty)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
