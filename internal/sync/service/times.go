package service

import (
	"context"
	"errors"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/store"
)

// TimeRecordService manages completed-game times. Records are immutable:
// they are only ever inserted or deleted, never updated.
type TimeRecordService struct {
	Store store.Store
}

// Create stores rec for the user. A record with the same id already on the
// server is left untouched and the call fails with ErrRecordExists.
func (s *TimeRecordService) Create(ctx context.Context, userID int64, rec domain.TimeRecord) error {
	err := s.Store.TimeRecords().CreateTimeRecord(ctx, userID, rec)
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrRecordExists
	}
	return err
}

// List returns the user's time records, or ErrNotFound when there are none.
func (s *TimeRecordService) List(ctx context.Context, userID int64) ([]domain.TimeRecord, error) {
	records, err := s.Store.TimeRecords().ListTimeRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// Delete removes the record with id, if any.
func (s *TimeRecordService) Delete(ctx context.Context, userID int64, id string) error {
	err := s.Store.TimeRecords().DeleteTimeRecord(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
