package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	t.Run("valid signup", func(t *testing.T) {
		user, err := svc.Register(ctx, "alice", "Str0ngPassword!")
		require.NoError(t, err)
		require.NotZero(t, user.ID)
		require.Equal(t, "alice", user.Username)
		require.True(t, strings.HasPrefix(user.PasswordHash, "$argon2id$"))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "An0therPassword!")
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("invalid usernames", func(t *testing.T) {
		cases := []struct {
			name     string
			username string
		}{
			{"empty", ""},
			{"too long", strings.Repeat("a", 21)},
			{"illegal characters", "al!ce"},
			{"emoji", "alice😀"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Register(ctx, tc.username, "Str0ngPassword!")
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
			})
		}
	})

	t.Run("accepted username characters", func(t *testing.T) {
		user, err := svc.Register(ctx, "A-b_c.d 9", "Str0ngPassword!")
		require.NoError(t, err)
		require.Equal(t, "A-b_c.d 9", user.Username)
	})

	t.Run("invalid passwords", func(t *testing.T) {
		cases := []struct {
			name     string
			password string
		}{
			{"too short", "Sh0rt"},
			{"too long", "Aa1" + strings.Repeat("x", 1022)},
			{"no lowercase", "UPPERCASE0NLY!"},
			{"no uppercase", "lowercase0nly!"},
			{"no digit", "NoDigitsAtAll!"},
			{"tripled character", "Goood0Password!"},
			{"ascending digits", "Password123Aa!"},
			{"descending digits", "Password321Aa!"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Register(ctx, "newuser", tc.password)
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
			})
		}
	})

	t.Run("two-step digit runs are fine", func(t *testing.T) {
		_, err := svc.Register(ctx, "digituser", "Password12Aa34!")
		require.NoError(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	userID := createTestUser(t, st, "bob", "Str0ngPassword!")

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "bob", "Str0ngPassword!")
		require.NoError(t, err)
		require.Equal(t, userID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "bob", "WrongPassword1")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "Str0ngPassword!")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
	})

	t.Run("legacy bcrypt hash upgrades on login", func(t *testing.T) {
		legacy, err := bcrypt.GenerateFromPassword([]byte("LegacyPassw0rd!"), bcrypt.DefaultCost)
		require.NoError(t, err)

		id, err := st.Users().CreateUser(ctx, "legacy", string(legacy))
		require.NoError(t, err)

		user, err := svc.Authenticate(ctx, "legacy", "LegacyPassw0rd!")
		require.NoError(t, err)
		require.Equal(t, id, user.ID)
		require.True(t, strings.HasPrefix(user.PasswordHash, "$argon2id$"))

		stored, err := st.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, user.PasswordHash, stored.PasswordHash)

		// The upgraded hash keeps working.
		_, err = svc.Authenticate(ctx, "legacy", "LegacyPassw0rd!")
		require.NoError(t, err)
	})
}

func TestCreateTestAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	first, password, err := svc.CreateTestAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, "#testaccount0", first)
	require.Len(t, password, testAccountPasswordLength)

	// Minted credentials work for a normal login.
	_, err = svc.Authenticate(ctx, first, password)
	require.NoError(t, err)

	second, _, err := svc.CreateTestAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, "#testaccount1", second)
}
