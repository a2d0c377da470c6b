package sqlite

import (
	"context"

	"github.com/gridmines/minesync/internal/sync/domain"
)

type timeRecordsRepo struct {
	db dbtx
}

func (r *timeRecordsRepo) ListTimeRecords(
	ctx context.Context,
	userID int64,
) ([]domain.TimeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, difficulty, time, created_at
		 FROM time_records
		 WHERE user_id = ?
		 ORDER BY created_at;`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.TimeRecord
	for rows.Next() {
		var rec domain.TimeRecord
		if err := rows.Scan(&rec.ID, &rec.Difficulty, &rec.Time, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *timeRecordsRepo) ListTimeRecordIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id
		 FROM time_records
		 WHERE user_id = ?;`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *timeRecordsRepo) CreateTimeRecord(
	ctx context.Context,
	userID int64,
	rec domain.TimeRecord,
) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_records (id, user_id, difficulty, time, created_at)
		 VALUES (?, ?, ?, ?, ?);`,
		rec.ID, userID, rec.Difficulty, rec.Time, rec.CreatedAt,
	)
	return mapConflict(err)
}

func (r *timeRecordsRepo) DeleteTimeRecord(ctx context.Context, userID int64, id string) error {
	return execOne(ctx, r.db,
		`DELETE FROM time_records
		 WHERE user_id = ? AND id = ?;`, userID, id,
	)
}
