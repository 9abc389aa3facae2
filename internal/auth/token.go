// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// SessionTokenTTL is how long an issued session token stays valid. There is
// no refresh or revocation; expiry is the only way a token dies.
const SessionTokenTTL = 24 * time.Hour

// SessionClaims is the payload encoded into a session token. Subject carries
// the account id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// AccountID returns the account id the token was issued for.
func (c *SessionClaims) AccountID() string {
	return c.Subject
}

// TokenService issues and validates HMAC-signed session tokens. The signing
// secret is loaded once at startup and never mutated, so a single instance
// is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithTimeFunc overrides the clock, for deterministic expiry tests.
func WithTimeFunc(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService with the given signing secret.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, oops.Code("TOKEN_SECRET_EMPTY").Errorf("signing secret is required")
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    SessionTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue builds a signed token for the account, expiring SessionTokenTTL
// from now.
func (s *TokenService) Issue(accountID string) (string, error) {
	if accountID == "" {
		return "", oops.Code("TOKEN_SUBJECT_EMPTY").Errorf("account id is required")
	}

	issuedAt := s.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return token, nil
}

// Validate decodes the token, checks the signature against the configured
// secret, and checks expiry. Failures map onto exactly one of
// ErrTokenMalformed, ErrTokenSignature, or ErrTokenExpired.
func (s *TokenService) Validate(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, oops.Code("TOKEN_BAD_SIGNATURE").Join(ErrTokenSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, oops.Code("TOKEN_EXPIRED").Join(ErrTokenExpired, err)
		default:
			return nil, oops.Code("TOKEN_MALFORMED").Join(ErrTokenMalformed, err)
		}
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, oops.Code("TOKEN_MALFORMED").Join(ErrTokenMalformed, jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}
