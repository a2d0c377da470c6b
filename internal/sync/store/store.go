package store

import (
	"context"
	"errors"

	"github.com/gridmines/minesync/internal/sync/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Sessions() Sessions
	Games() Games
	TimeRecords() TimeRecords
	GameSettings() GameSettings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh
	// rotation). The caller MUST call Commit() or Rollback() on the result.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during credential login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user and returns the assigned id.
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)

	// UpdatePasswordHash replaces the stored hash, e.g. after a verifier
	// upgrade.
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error

	// ListUsernamesWithPrefix returns all usernames starting with prefix;
	// used to number minted test accounts.
	ListUsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

type Sessions interface {
	// GetSession returns the rotation state for a (user, device) pair.
	GetSession(ctx context.Context, userID int64, deviceID int) (domain.Session, error)

	// MaxDeviceID returns the highest device id assigned to the user, or
	// ErrNotFound when the user has no sessions yet.
	MaxDeviceID(ctx context.Context, userID int64) (int, error)

	// CreateSession inserts a fresh session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// ResetSession starts a new token family on an existing device slot:
	// token_id=0, family_id as given, is_invalidated cleared.
	ResetSession(ctx context.Context, userID int64, deviceID, familyID int) error

	// AdvanceTokenID stores the new token id after a successful rotation.
	AdvanceTokenID(ctx context.Context, userID int64, deviceID, tokenID int) error

	// InvalidateSession sets is_invalidated; the chain stays dead until a
	// fresh credential login resets it.
	InvalidateSession(ctx context.Context, userID int64, deviceID int) error
}

type Games interface {
	ListGames(ctx context.Context, userID int64) ([]domain.Game, error)
	GetGameByDifficulty(ctx context.Context, userID int64, difficulty int) (domain.Game, error)
	CreateGame(ctx context.Context, userID int64, g domain.Game) error
	UpdateGame(ctx context.Context, userID int64, g domain.Game) error
	DeleteGame(ctx context.Context, userID int64, difficulty int) error
}

type TimeRecords interface {
	ListTimeRecords(ctx context.Context, userID int64) ([]domain.TimeRecord, error)

	// ListTimeRecordIDs returns just the ids, for merge set-difference.
	ListTimeRecordIDs(ctx context.Context, userID int64) ([]string, error)

	CreateTimeRecord(ctx context.Context, userID int64, rec domain.TimeRecord) error
	DeleteTimeRecord(ctx context.Context, userID int64, id string) error
}

type GameSettings interface {
	GetGameSettings(ctx context.Context, userID int64) (domain.GameSettings, error)
	CreateGameSettings(ctx context.Context, userID int64, s domain.GameSettings) error
	UpdateGameSettings(ctx context.Context, userID int64, s domain.GameSettings) error
}
