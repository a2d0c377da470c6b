package http

import "github.com/gridmines/minesync/internal/sync/domain"

// Wire shapes shared by the sync batch and the per-record endpoints. All
// timestamps are client clocks: fractional seconds for games, milliseconds
// everywhere else.

type gameJSON struct {
	Difficulty  int     `json:"difficulty"`
	EncodedGame string  `json:"encodedGame"`
	CreatedAt   float64 `json:"createdAt"`
}

type timeRecordJSON struct {
	ID         string `json:"id"`
	Difficulty int    `json:"difficulty"`
	Time       int64  `json:"time"`
	CreatedAt  int64  `json:"createdAt"`
}

type settingsJSON struct {
	Theme              int    `json:"theme"`
	InitialZoom        bool   `json:"initialZoom"`
	ActionToggle       bool   `json:"actionToggle"`
	DefaultAction      string `json:"defaultAction"`
	LongTapDelay       int    `json:"longTapDelay"`
	EasyDigging        bool   `json:"easyDigging"`
	Vibration          bool   `json:"vibration"`
	VibrationIntensity int    `json:"vibrationIntensity"`
	ModifiedAt         int64  `json:"modifiedAt"`
}

type syncDataJSON struct {
	Games       []gameJSON       `json:"games"`
	TimeRecords []timeRecordJSON `json:"timeRecords"`
	Settings    settingsJSON     `json:"settings"`
}

type syncStateJSON struct {
	Games       []gameJSON       `json:"games"`
	TimeRecords []timeRecordJSON `json:"timeRecords"`
	Settings    *settingsJSON    `json:"settings"`
}

func (g gameJSON) toDomain() domain.Game {
	return domain.Game{Difficulty: g.Difficulty, EncodedGame: g.EncodedGame, CreatedAt: g.CreatedAt}
}

func gameToJSON(g domain.Game) gameJSON {
	return gameJSON{Difficulty: g.Difficulty, EncodedGame: g.EncodedGame, CreatedAt: g.CreatedAt}
}

func (r timeRecordJSON) toDomain() domain.TimeRecord {
	return domain.TimeRecord{ID: r.ID, Difficulty: r.Difficulty, Time: r.Time, CreatedAt: r.CreatedAt}
}

func timeRecordToJSON(r domain.TimeRecord) timeRecordJSON {
	return timeRecordJSON{ID: r.ID, Difficulty: r.Difficulty, Time: r.Time, CreatedAt: r.CreatedAt}
}

func (s settingsJSON) toDomain() domain.GameSettings {
	return domain.GameSettings{
		Theme:              s.Theme,
		InitialZoom:        s.InitialZoom,
		ActionToggle:       s.ActionToggle,
		DefaultAction:      s.DefaultAction,
		LongTapDelay:       s.LongTapDelay,
		EasyDigging:        s.EasyDigging,
		Vibration:          s.Vibration,
		VibrationIntensity: s.VibrationIntensity,
		ModifiedAt:         s.ModifiedAt,
	}
}

func settingsToJSON(s domain.GameSettings) settingsJSON {
	return settingsJSON{
		Theme:              s.Theme,
		InitialZoom:        s.InitialZoom,
		ActionToggle:       s.ActionToggle,
		DefaultAction:      s.DefaultAction,
		LongTapDelay:       s.LongTapDelay,
		EasyDigging:        s.EasyDigging,
		Vibration:          s.Vibration,
		VibrationIntensity: s.VibrationIntensity,
		ModifiedAt:         s.ModifiedAt,
	}
}

func (d syncDataJSON) toDomain() domain.SyncData {
	data := domain.SyncData{Settings: d.Settings.toDomain()}
	for _, g := range d.Games {
		data.Games = append(data.Games, g.toDomain())
	}
	for _, r := range d.TimeRecords {
		data.TimeRecords = append(data.TimeRecords, r.toDomain())
	}
	return data
}

func syncStateToJSON(state domain.SyncState) syncStateJSON {
	out := syncStateJSON{
		Games:       make([]gameJSON, 0, len(state.Games)),
		TimeRecords: make([]timeRecordJSON, 0, len(state.TimeRecords)),
	}
	for _, g := range state.Games {
		out.Games = append(out.Games, gameToJSON(g))
	}
	for _, r := range state.TimeRecords {
		out.TimeRecords = append(out.TimeRecords, timeRecordToJSON(r))
	}
	if state.Settings != nil {
		s := settingsToJSON(*state.Settings)
		out.Settings = &s
	}
	return out
}
