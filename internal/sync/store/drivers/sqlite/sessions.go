package sqlite

import (
	"context"
	"database/sql"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/store"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) GetSession(
	ctx context.Context,
	userID int64,
	deviceID int,
) (domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, device_id, token_id, family_id, is_invalidated, updated_at
		 FROM auth_sessions
		 WHERE user_id = ? AND device_id = ?;`, userID, deviceID,
	).Scan(&s.UserID, &s.DeviceID, &s.TokenID, &s.FamilyID, &s.Invalidated, &s.UpdatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) MaxDeviceID(ctx context.Context, userID int64) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(device_id)
		 FROM auth_sessions
		 WHERE user_id = ?;`, userID,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, store.ErrNotFound
	}
	return int(max.Int64), nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_sessions (user_id, device_id, token_id, family_id, is_invalidated)
		 VALUES (?, ?, ?, ?, ?);`,
		s.UserID, s.DeviceID, s.TokenID, s.FamilyID, s.Invalidated,
	)
	return err
}

func (r *sessionsRepo) ResetSession(
	ctx context.Context,
	userID int64,
	deviceID, familyID int,
) error {
	return r.exec(ctx,
		`UPDATE auth_sessions
		 SET token_id = 0, family_id = ?, is_invalidated = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND device_id = ?;`, familyID, userID, deviceID,
	)
}

func (r *sessionsRepo) AdvanceTokenID(
	ctx context.Context,
	userID int64,
	deviceID, tokenID int,
) error {
	return r.exec(ctx,
		`UPDATE auth_sessions
		 SET token_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND device_id = ?;`, tokenID, userID, deviceID,
	)
}

func (r *sessionsRepo) InvalidateSession(ctx context.Context, userID int64, deviceID int) error {
	return r.exec(ctx,
		`UPDATE auth_sessions
		 SET is_invalidated = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND device_id = ?;`, userID, deviceID,
	)
}

// exec runs an update that must touch exactly one session row, mapping a
// zero-row update to ErrNotFound.
func (r *sessionsRepo) exec(ctx context.Context, query string, args ...any) error {
	return execOne(ctx, r.db, query, args...)
}
