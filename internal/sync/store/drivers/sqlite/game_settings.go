package sqlite

import (
	"context"

	"github.com/gridmines/minesync/internal/sync/domain"
)

type gameSettingsRepo struct {
	db dbtx
}

func (r *gameSettingsRepo) GetGameSettings(
	ctx context.Context,
	userID int64,
) (domain.GameSettings, error) {
	var s domain.GameSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT theme, initial_zoom, action_toggle, default_action,
		        long_tap_delay, easy_digging, vibration, vibration_intensity, modified_at
		 FROM game_settings
		 WHERE user_id = ?;`, userID,
	).Scan(
		&s.Theme, &s.InitialZoom, &s.ActionToggle, &s.DefaultAction,
		&s.LongTapDelay, &s.EasyDigging, &s.Vibration, &s.VibrationIntensity, &s.ModifiedAt,
	)
	if err != nil {
		return domain.GameSettings{}, mapNotFound(err)
	}
	return s, nil
}

func (r *gameSettingsRepo) CreateGameSettings(
	ctx context.Context,
	userID int64,
	s domain.GameSettings,
) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_settings (
		     user_id, theme, initial_zoom, action_toggle, default_action,
		     long_tap_delay, easy_digging, vibration, vibration_intensity, modified_at
		 )
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		userID, s.Theme, s.InitialZoom, s.ActionToggle, s.DefaultAction,
		s.LongTapDelay, s.EasyDigging, s.Vibration, s.VibrationIntensity, s.ModifiedAt,
	)
	return err
}

func (r *gameSettingsRepo) UpdateGameSettings(
	ctx context.Context,
	userID int64,
	s domain.GameSettings,
) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE game_settings
		 SET theme = ?, initial_zoom = ?, action_toggle = ?, default_action = ?,
		     long_tap_delay = ?, easy_digging = ?, vibration = ?,
		     vibration_intensity = ?, modified_at = ?
		 WHERE user_id = ?;`,
		s.Theme, s.InitialZoom, s.ActionToggle, s.DefaultAction,
		s.LongTapDelay, s.EasyDigging, s.Vibration, s.VibrationIntensity, s.ModifiedAt,
		userID,
	)
	return err
}
