package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminants carried in the "type" claim. Every token we mint
// is tagged so an access token can never be replayed against the refresh
// endpoint or vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Default token TTL constants. Short-lived access tokens, long-lived refresh
// tokens; both can be overridden per-service via config.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// AccessClaims are the claims embedded in an access token. The subject is
// the user id; nothing else is carried.
type AccessClaims struct {
	jwt.RegisteredClaims

	TokenType string `json:"type"`
}

// RefreshClaims are the claims embedded in a refresh token. TokenID and
// FamilyID mirror the server-side session row for the (subject, DeviceID)
// pair; the rotation engine compares them on every refresh.
type RefreshClaims struct {
	jwt.RegisteredClaims

	TokenType string `json:"type"`
	TokenID   int    `json:"token_id"`
	FamilyID  int    `json:"family_id"`
	DeviceID  int    `json:"device_id"`
}

// NewAccessClaims builds minimally-correct access claims.
func NewAccessClaims(subject string, ttl time.Duration, now time.Time) AccessClaims {
	return AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: TypeAccess,
	}
}

// NewRefreshClaims builds refresh claims carrying the rotation state.
func NewRefreshClaims(
	subject string,
	tokenID, familyID, deviceID int,
	ttl time.Duration,
	now time.Time,
) RefreshClaims {
	return RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: TypeRefresh,
		TokenID:   tokenID,
		FamilyID:  familyID,
		DeviceID:  deviceID,
	}
}
