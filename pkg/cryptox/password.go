package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Argon2id parameters. Changing these makes VerifyAndUpgrade report a
// rehash for existing hashes, so stored credentials migrate on next login.
const (
	memory      = 64 * 1024
	iterations  = 3
	parallelism = 2
	saltLength  = 16
	keyLength   = 32
)

// ErrMismatch reports that a password does not match its stored hash.
var ErrMismatch = errors.New("cryptox: password does not match")

// HashPassword generates a PHC-format Argon2id hash string including salt
// and parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares a plaintext password against a stored hash.
// Returns ErrMismatch when the password is wrong.
func VerifyPassword(password, encodedHash string) error {
	_, err := VerifyAndUpgrade(password, encodedHash)
	return err
}

// VerifyAndUpgrade verifies a password against its stored hash and, when the
// hash uses legacy bcrypt or stale Argon2id parameters, returns a fresh
// Argon2id hash the caller should persist. The returned string is empty when
// the stored hash is already current.
func VerifyAndUpgrade(password, encodedHash string) (rehash string, err error) {
	if strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$") {
		if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
			return "", ErrMismatch
		}
		return HashPassword(password)
	}

	mem, iters, par, salt, expected, err := parseArgon2id(encodedHash)
	if err != nil {
		return "", err
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - key lengths are small
	)
	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return "", ErrMismatch
	}

	if mem != memory || iters != iterations || par != parallelism {
		return HashPassword(password)
	}
	return "", nil
}

// parseArgon2id splits a PHC-style string:
// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
func parseArgon2id(encodedHash string) (mem, iters uint32, par uint8, salt, hash []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return 0, 0, 0, nil, nil, errors.New("cryptox: invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errors.New("cryptox: invalid hash format: not argon2id")
	}
	if parts[2] != "v=19" {
		return 0, 0, 0, nil, nil, errors.New("cryptox: invalid hash format: wrong version")
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("cryptox: invalid hash parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("cryptox: invalid salt encoding: %w", err)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("cryptox: invalid hash encoding: %w", err)
	}
	return mem, iters, par, salt, hash, nil
}

// GeneratePassword returns a random alphanumeric password, used for minted
// test accounts.
func GeneratePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
