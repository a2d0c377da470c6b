package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/gridmines/minesync/internal/sync/domain"
	"github.com/gridmines/minesync/internal/sync/store"
	"github.com/gridmines/minesync/pkg/cryptox"
)

const (
	maxUsernameLength = 20
	minPasswordLength = 12
	maxPasswordLength = 1024

	testAccountPrefix         = "#testaccount"
	testAccountPasswordLength = 20
)

var (
	usernamePattern    = regexp.MustCompile(`^[a-zA-Z0-9_\-. ]+$`)
	lowercasePattern   = regexp.MustCompile(`[a-z]`)
	uppercasePattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern       = regexp.MustCompile(`[0-9]`)
	digitRunPattern    = regexp.MustCompile(`[0-9]+`)
	testAccountPattern = regexp.MustCompile(`\d+`)
)

type UserService struct {
	Store store.Store
}

// Register validates the credentials and creates the user. The existence
// check and insert run in one transaction so duplicate signups race cleanly.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		id, err := tx.Users().CreateUser(ctx, username, hash)
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUsernameTaken
		}
		if err != nil {
			return err
		}

		user = domain.User{ID: id, Username: username, PasswordHash: hash}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate verifies a credential pair and returns the user. When the
// verifier reports an upgradable hash (legacy bcrypt or stale parameters)
// the fresh hash is persisted before returning.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, authErrorf("unknown username %q", username)
		}
		return domain.User{}, err
	}

	rehash, err := cryptox.VerifyAndUpgrade(password, user.PasswordHash)
	if err != nil {
		return domain.User{}, authErrorf("password verification failed for user %d: %v", user.ID, err)
	}

	if rehash != "" {
		if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, rehash); err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = rehash
	}

	return user, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

// CreateTestAccount mints a throwaway "#testaccountN" user with a random
// password, for exercising protected endpoints without a signup flow.
func (s *UserService) CreateTestAccount(ctx context.Context) (username, password string, err error) {
	password, err = cryptox.GeneratePassword(testAccountPasswordLength)
	if err != nil {
		return "", "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().ListUsernamesWithPrefix(ctx, testAccountPrefix)
		if err != nil {
			return err
		}

		next := 0
		for _, name := range existing {
			if m := testAccountPattern.FindString(name); m != "" {
				if n, err := strconv.Atoi(m); err == nil && n >= next {
					next = n + 1
				}
			}
		}

		username = fmt.Sprintf("%s%d", testAccountPrefix, next)
		_, err = tx.Users().CreateUser(ctx, username, hash)
		return err
	})
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func validateUsername(username string) error {
	if username == "" || len(username) > maxUsernameLength {
		return validationErrorf("username must be 1-%d characters", maxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return validationErrorf(
			"username may only contain letters, numbers, spaces, periods, hyphens and underscores")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return validationErrorf("password too short, min length: %d", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return validationErrorf("password too long, max length: %d", maxPasswordLength)
	}
	if !lowercasePattern.MatchString(password) {
		return validationErrorf("password must include at least 1 lowercase letter")
	}
	if !uppercasePattern.MatchString(password) {
		return validationErrorf("password must include at least 1 uppercase letter")
	}
	if !digitPattern.MatchString(password) {
		return validationErrorf("password must include at least 1 number")
	}

	for i := 2; i < len(password); i++ {
		if password[i] == password[i-1] && password[i] == password[i-2] {
			return validationErrorf(
				"password must not contain the same character consecutively more than twice")
		}
	}

	for _, digits := range digitRunPattern.FindAllString(password, -1) {
		for i := 2; i < len(digits); i++ {
			if digits[i-1] == digits[i-2]+1 && digits[i] == digits[i-1]+1 {
				return validationErrorf(
					"password must not contain consecutive numbers in increasing order more than twice")
			}
			if digits[i-1] == digits[i-2]-1 && digits[i] == digits[i-1]-1 {
				return validationErrorf(
					"password must not contain consecutive numbers in decreasing order more than twice")
			}
		}
	}

	return nil
}
