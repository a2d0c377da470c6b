package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed = errors.New("jwtx: cannot decode token")
	ErrExpired   = errors.New("jwtx: token expired")
	ErrTokenType = errors.New("jwtx: unexpected token type")
)

// Codec signs and verifies HS256 tokens with a single shared secret. Expiry
// is enforced by the jwt parser during Verify.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// SignAccess mints a signed access token from the given claims.
func (c *Codec) SignAccess(claims AccessClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// SignRefresh mints a signed refresh token from the given claims.
func (c *Codec) SignRefresh(claims RefreshClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyAccess decodes and validates an access token, rejecting tokens of
// any other type.
func (c *Codec) VerifyAccess(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := c.parse(token, &claims); err != nil {
		return AccessClaims{}, err
	}
	if claims.TokenType != TypeAccess {
		return AccessClaims{}, ErrTokenType
	}
	return claims, nil
}

// VerifyRefresh decodes and validates a refresh token, rejecting tokens of
// any other type.
func (c *Codec) VerifyRefresh(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.parse(token, &claims); err != nil {
		return RefreshClaims{}, err
	}
	if claims.TokenType != TypeRefresh {
		return RefreshClaims{}, ErrTokenType
	}
	return claims, nil
}

func (c *Codec) parse(token string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
