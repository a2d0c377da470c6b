package service

import (
	"context"
	"errors"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/store"
)

// SettingsService manages the per-user settings singleton.
type SettingsService struct {
	Store store.Store
}

// Save stores the settings. A server copy with an equal or newer timestamp
// is kept and the call fails with ErrNewerVersion. The returned bool reports
// whether the singleton was created.
func (s *SettingsService) Save(
	ctx context.Context,
	userID int64,
	settings domain.GameSettings,
) (created bool, err error) {
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		server, err := tx.GameSettings().GetGameSettings(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			created = true
			return tx.GameSettings().CreateGameSettings(ctx, userID, settings)
		}
		if err != nil {
			return err
		}
		if settings.ModifiedAt <= server.ModifiedAt {
			return ErrNewerVersion
		}
		return tx.GameSettings().UpdateGameSettings(ctx, userID, settings)
	})
	return created, err
}

// Get returns the user's settings, or ErrNotFound when never written.
func (s *SettingsService) Get(ctx context.Context, userID int64) (domain.GameSettings, error) {
	settings, err := s.Store.GameSettings().GetGameSettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.GameSettings{}, ErrNotFound
	}
	return settings, err
}
