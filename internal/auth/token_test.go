// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probhub/accountd/internal/auth"
)

const testSecret = "test-signing-secret"

func TestNewTokenService(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := auth.NewTokenService("")
		assert.Error(t, err)
	})

	t.Run("accepts non-empty secret", func(t *testing.T) {
		svc, err := auth.NewTokenService(testSecret)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	t.Run("issued token validates and carries the account id", func(t *testing.T) {
		token, err := svc.Issue("01HQZX3Y4K5M6N7P8Q9R0S1T2U")
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "01HQZX3Y4K5M6N7P8Q9R0S1T2U", claims.AccountID())
	})

	t.Run("rejects empty account id", func(t *testing.T) {
		_, err := svc.Issue("")
		assert.Error(t, err)
	})
}

func TestTokenValidateFailures(t *testing.T) {
	svc, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	t.Run("garbage token is malformed", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("empty token is malformed", func(t *testing.T) {
		_, err := svc.Validate("")
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("token signed with another secret fails signature check", func(t *testing.T) {
		other, err := auth.NewTokenService("a-different-secret")
		require.NoError(t, err)

		token, err := other.Issue("01HQZX3Y4K5M6N7P8Q9R0S1T2U")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, auth.ErrTokenSignature)
	})

	t.Run("tampered payload fails signature check", func(t *testing.T) {
		token, err := svc.Issue("01HQZX3Y4K5M6N7P8Q9R0S1T2U")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		// Flip a character in the payload; the signature no longer covers it.
		payload := []byte(parts[1])
		if payload[0] == 'A' {
			payload[0] = 'B'
		} else {
			payload[0] = 'A'
		}
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		_, err = svc.Validate(tampered)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrTokenExpired)
	})
}

func TestTokenExpiry(t *testing.T) {
	t.Run("token expires after the session TTL", func(t *testing.T) {
		current := time.Now()
		svc, err := auth.NewTokenService(testSecret, auth.WithTimeFunc(func() time.Time {
			return current
		}))
		require.NoError(t, err)

		token, err := svc.Issue("01HQZX3Y4K5M6N7P8Q9R0S1T2U")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		require.NoError(t, err)

		current = current.Add(auth.SessionTokenTTL + time.Minute)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("token just inside the TTL still validates", func(t *testing.T) {
		current := time.Now()
		svc, err := auth.NewTokenService(testSecret, auth.WithTimeFunc(func() time.Time {
			return current
		}))
		require.NoError(t, err)

		token, err := svc.Issue("01HQZX3Y4K5M6N7P8Q9R0S1T2U")
		require.NoError(t, err)

		current = current.Add(auth.SessionTokenTTL - time.Minute)
		_, err = svc.Validate(token)
		assert.NoError(t, err)
	})
}
