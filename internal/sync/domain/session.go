package domain

import "time"

// Session is the per-(user, device) rotation state. TokenID and FamilyID
// mirror the claims of the most recently issued valid refresh token:
// every rotation advances TokenID, every fresh credential login on a known
// device advances FamilyID and resets TokenID to zero.
type Session struct {
	UserID      int64
	DeviceID    int
	TokenID     int
	FamilyID    int
	Invalidated bool // once set, rotation fails until a fresh credential login
	UpdatedAt   time.Time
}
