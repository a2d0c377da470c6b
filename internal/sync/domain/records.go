package domain

// Game is an in-progress game, one per difficulty per user. CreatedAt is the
// client-supplied timestamp (fractional seconds) used for newer-wins merges.
type Game struct {
	Difficulty  int
	EncodedGame string
	CreatedAt   float64
}

// TimeRecord is a completed-game time. The id is client-generated and never
// reassigned; records are immutable once stored.
type TimeRecord struct {
	ID         string
	Difficulty int
	Time       int64
	CreatedAt  int64
}

// Default actions for GameSettings.
const (
	ActionDig  = "dig"
	ActionMark = "mark"
)

// GameSettings is the per-user settings singleton. ModifiedAt is the
// client-supplied timestamp in milliseconds.
type GameSettings struct {
	Theme              int
	InitialZoom        bool
	ActionToggle       bool
	DefaultAction      string
	LongTapDelay       int
	EasyDigging        bool
	Vibration          bool
	VibrationIntensity int
	ModifiedAt         int64
}

// SyncData is a client-submitted batch for the merge engine.
type SyncData struct {
	Games       []Game
	TimeRecords []TimeRecord
	Settings    GameSettings
}

// SyncState is the authoritative server state returned after a merge.
// Settings is nil only for users that have never written settings.
type SyncState struct {
	Games       []Game
	TimeRecords []TimeRecord
	Settings    *GameSettings
}
