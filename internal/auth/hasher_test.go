// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probhub/accountd/internal/auth"
)

func TestHashPassword(t *testing.T) {
	hasher := auth.NewArgon2idHasher(auth.DefaultHashConcurrency)
	ctx := context.Background()

	t.Run("produces valid hash", func(t *testing.T) {
		hash, err := hasher.Hash(ctx, "password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	})

	t.Run("different passwords produce different hashes", func(t *testing.T) {
		hash1, err := hasher.Hash(ctx, "password1")
		require.NoError(t, err)
		hash2, err := hasher.Hash(ctx, "password2")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		hash1, err := hasher.Hash(ctx, "samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash(ctx, "samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash(ctx, "")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("canceled context aborts before hashing", func(t *testing.T) {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := hasher.Hash(canceled, "password123")
		assert.Error(t, err)
	})

	t.Run("non-positive concurrency falls back to default", func(t *testing.T) {
		h := auth.NewArgon2idHasher(0)
		hash, err := h.Hash(ctx, "password123")
		require.NoError(t, err)
		assert.True(t, h.Verify(ctx, "password123", hash))
	})
}

func TestVerifyPassword(t *testing.T) {
	hasher := auth.NewArgon2idHasher(auth.DefaultHashConcurrency)
	ctx := context.Background()

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := hasher.Hash(ctx, "correctpassword")
		require.NoError(t, err)

		assert.True(t, hasher.Verify(ctx, "correctpassword", hash))
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		hash, err := hasher.Hash(ctx, "correctpassword")
		require.NoError(t, err)

		assert.False(t, hasher.Verify(ctx, "wrongpassword", hash))
	})

	t.Run("malformed hash verifies false without error", func(t *testing.T) {
		assert.False(t, hasher.Verify(ctx, "password", "not-a-valid-hash"))
	})

	t.Run("wrong algorithm verifies false", func(t *testing.T) {
		assert.False(t, hasher.Verify(ctx, "password", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"))
	})

	t.Run("invalid version verifies false", func(t *testing.T) {
		assert.False(t, hasher.Verify(ctx, "password", "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA"))
	})

	t.Run("invalid base64 salt verifies false", func(t *testing.T) {
		assert.False(t, hasher.Verify(ctx, "password", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"))
	})

	t.Run("empty hash verifies false", func(t *testing.T) {
		assert.False(t, hasher.Verify(ctx, "password", ""))
	})
}
