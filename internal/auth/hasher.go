// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// DefaultHashConcurrency bounds how many argon2 computations may run at
// once. Hashing is CPU- and memory-bound; without a bound a burst of
// signups could starve every other request of cores and memory.
const DefaultHashConcurrency = 4

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted, self-describing encoding of the password.
	// Two calls with the same password yield different encodings.
	Hash(ctx context.Context, password string) (string, error)

	// Verify reports whether the password matches the stored encoding.
	// A structurally invalid encoding verifies as false rather than
	// erroring, so malformed stored data cannot become an oracle.
	Verify(ctx context.Context, password, encodedHash string) bool
}

// Argon2idHasher implements PasswordHasher using argon2id with a weighted
// semaphore limiting concurrent computations.
type Argon2idHasher struct {
	sem *semaphore.Weighted
}

// NewArgon2idHasher creates an Argon2idHasher that runs at most
// maxConcurrent hash computations at a time. Non-positive values fall back
// to DefaultHashConcurrency.
func NewArgon2idHasher(maxConcurrent int) *Argon2idHasher {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultHashConcurrency
	}
	return &Argon2idHasher{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Hash produces a PHC-encoded argon2id hash of the password:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (h *Argon2idHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", oops.Code("AUTH_HASH_CANCELED").Wrap(err)
	}
	defer h.sem.Release(1)

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// Verify recomputes the hash using the salt and parameters embedded in the
// encoding and compares in constant time.
func (h *Argon2idHasher) Verify(ctx context.Context, password, encodedHash string) bool {
	salt, expected, time, memory, threads, ok := parseEncodedHash(encodedHash)
	if !ok {
		return false
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// parseEncodedHash splits a PHC argon2id string into its components.
// ok is false for anything that is not a well-formed argon2id encoding.
func parseEncodedHash(encoded string) (salt, hash []byte, time, memory uint32, threads uint8, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, false
	}

	var rawThreads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &rawThreads); err != nil {
		return nil, nil, 0, 0, 0, false
	}
	// Threads must fit in uint8; a larger value would silently truncate.
	if rawThreads == 0 || rawThreads > 255 {
		return nil, nil, 0, 0, 0, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, false
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, nil, 0, 0, 0, false
	}

	return salt, hash, time, memory, uint8(rawThreads), true
}

// Compile-time interface check.
var _ PasswordHasher = (*Argon2idHasher)(nil)
