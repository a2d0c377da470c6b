package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/store"
	"github.com/gridmines/minesync/pkg/cryptox"
	"github.com/gridmines/minesync/pkg/jwtx"
	"github.com/gridmines/minesync/pkg/slogx"
)

// TokenService is the rotation engine. Every refresh token is identified by
// (token_id, family_id, device_id); the session row stores the currently
// valid pair per device, and rotation advances token_id while a fresh
// credential login advances family_id.
type TokenService struct {
	Store      store.Store
	Codec      *jwtx.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issue mints a token pair for a credential login. With deviceID nil the
// user is logging in from a brand-new device: the next free device slot is
// assigned and a session row created with token_id=0, family_id=0. With a
// known deviceID the existing slot is reused: family_id advances by one,
// token_id resets, and any prior invalidation is cleared.
func (s *TokenService) Issue(
	ctx context.Context,
	userID int64,
	deviceID *int,
) (domain.TokenPair, error) {
	var pair domain.TokenPair

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now()

		if deviceID == nil {
			device := 0
			max, err := tx.Sessions().MaxDeviceID(ctx, userID)
			switch {
			case err == nil:
				device = max + 1
			case errors.Is(err, store.ErrNotFound):
				// first login ever for this user
			default:
				return err
			}

			p, err := s.mint(userID, 0, 0, device, now)
			if err != nil {
				return err
			}

			if err := tx.Sessions().CreateSession(ctx, domain.Session{
				UserID:   userID,
				DeviceID: device,
			}); err != nil {
				return err
			}

			pair = p
			return nil
		}

		sess, err := tx.Sessions().GetSession(ctx, userID, *deviceID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return authErrorf("login with unknown device id %d", *deviceID)
			}
			return err
		}

		family := sess.FamilyID + 1

		p, err := s.mint(userID, 0, family, sess.DeviceID, now)
		if err != nil {
			return err
		}

		if err := tx.Sessions().ResetSession(ctx, userID, sess.DeviceID, family); err != nil {
			return err
		}

		pair = p
		return nil
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

// Rotate exchanges a refresh token for a new pair. The stale-replay rule is
// deliberately asymmetric:
//
//   - same family, wrong token_id: someone is replaying a token the client
//     already rotated past. Treat as theft, invalidate the session.
//   - different family: a leftover handle from a login branch superseded by
//     a newer credential login. Reject it but leave the current family
//     untouched.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.Codec.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, authErrorf("refresh token rejected: %v", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.TokenPair{}, authErrorf("refresh token subject %q is not a user id", claims.Subject)
	}

	tx, err := s.Store.Tx(ctx)
	if err != nil {
		return domain.TokenPair{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sess, err := tx.Sessions().GetSession(ctx, userID, claims.DeviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, authErrorf("no session for user %d device %d", userID, claims.DeviceID)
		}
		return domain.TokenPair{}, err
	}

	if sess.Invalidated {
		return domain.TokenPair{}, authErrorf("session for device %d is invalidated", claims.DeviceID)
	}

	if sess.FamilyID == claims.FamilyID && sess.TokenID != claims.TokenID {
		// Stale token within the live family. The invalidation must land
		// even though the rotation itself fails, so commit it here.
		if err := tx.Sessions().InvalidateSession(ctx, userID, claims.DeviceID); err != nil {
			return domain.TokenPair{}, err
		}
		if err := tx.Commit(); err != nil {
			return domain.TokenPair{}, err
		}

		slogx.FromContext(ctx).Warn("stale refresh token replayed, session invalidated",
			"user_id", userID,
			"device_id", claims.DeviceID,
			"family_id", claims.FamilyID,
		)
		return domain.TokenPair{}, authErrorf("stale token id %d, session invalidated", claims.TokenID)
	}

	if sess.FamilyID != claims.FamilyID {
		return domain.TokenPair{}, authErrorf(
			"token family %d does not match current family %d", claims.FamilyID, sess.FamilyID)
	}

	tokenID := sess.TokenID + 1

	pair, err := s.mint(userID, tokenID, sess.FamilyID, sess.DeviceID, time.Now())
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := tx.Sessions().AdvanceTokenID(ctx, userID, sess.DeviceID, tokenID); err != nil {
		return domain.TokenPair{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.TokenPair{}, err
	}

	return pair, nil
}

// InvalidateByToken is self-service logout: the refresh token itself names
// the session to kill. Any decodable token for the device works, the
// rotation state is not consulted.
func (s *TokenService) InvalidateByToken(ctx context.Context, refreshToken string) error {
	claims, err := s.Codec.VerifyRefresh(refreshToken)
	if err != nil {
		return authErrorf("refresh token rejected: %v", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return authErrorf("refresh token subject %q is not a user id", claims.Subject)
	}

	return s.Invalidate(ctx, userID, claims.DeviceID)
}

// Invalidate kills the refresh chain for one device (logout). The slot
// stays usable for a future credential login.
func (s *TokenService) Invalidate(ctx context.Context, userID int64, deviceID int) error {
	err := s.Store.Sessions().InvalidateSession(ctx, userID, deviceID)
	if errors.Is(err, store.ErrNotFound) {
		return authErrorf("no session for user %d device %d", userID, deviceID)
	}
	return err
}

// InvalidateWithCredentials is remote logout: verifies the credentials and
// invalidates the target device's session without holding its token.
func (s *TokenService) InvalidateWithCredentials(
	ctx context.Context,
	username, password string,
	deviceID int,
) error {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return authErrorf("unknown username %q", username)
		}
		return err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return authErrorf("password mismatch for user %d", user.ID)
		}
		return err
	}

	return s.Invalidate(ctx, user.ID, deviceID)
}

func (s *TokenService) mint(
	userID int64,
	tokenID, familyID, deviceID int,
	now time.Time,
) (domain.TokenPair, error) {
	sub := strconv.FormatInt(userID, 10)

	access, err := s.Codec.SignAccess(jwtx.NewAccessClaims(sub, s.AccessTTL, now))
	if err != nil {
		return domain.TokenPair{}, authErrorf("could not generate access token: %v", err)
	}

	refresh, err := s.Codec.SignRefresh(
		jwtx.NewRefreshClaims(sub, tokenID, familyID, deviceID, s.RefreshTTL, now))
	if err != nil {
		return domain.TokenPair{}, authErrorf("could not generate refresh token: %v", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		DeviceID:     deviceID,
	}, nil
}
