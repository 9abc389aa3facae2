// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// usernameRegex matches usernames that start with a letter and contain only
// letters, numbers, and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// emailRegex is a lightweight sanity check, not a full RFC 5322 parser.
// The store's uniqueness constraint and OTP delivery are the real proof.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Account is the durable identity record. OtpCode and OtpExpiresAt are both
// present while a verification challenge is pending and both nil otherwise;
// never one without the other.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Verified     bool
	OtpCode      *string
	OtpExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPendingOTP reports whether a verification challenge is outstanding.
func (a *Account) HasPendingOTP() bool {
	return a.OtpCode != nil && a.OtpExpiresAt != nil
}

// NewAccount creates a validated, unverified account with a fresh ULID.
// The password must already be hashed; plaintext never reaches this type.
func NewAccount(username, email, passwordHash string) (*Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &Account{
		ID:           ulid.Make().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateUsername validates a username against the account rules:
// MinUsernameLength to MaxUsernameLength characters, starting with a letter,
// containing only letters, numbers, and underscores.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("ACCOUNT_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("ACCOUNT_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("ACCOUNT_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("ACCOUNT_INVALID_USERNAME").
			Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks that the email is plausibly deliverable.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return oops.Code("ACCOUNT_INVALID_EMAIL").Errorf("email address is not valid")
	}
	return nil
}

// AccountRepository manages account persistence. Implementations enforce
// email and username uniqueness and surface violations as
// ErrDuplicateAccount.
type AccountRepository interface {
	// Create stores a new account.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by id.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByEmail retrieves an account by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// UpdatePassword overwrites the password hash for an account.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetOTP stores a pending verification code and its expiry,
	// overwriting any previous pending code.
	SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error

	// MarkVerified sets verified and clears the OTP fields in a single
	// statement, so the transition cannot be observed half-applied.
	MarkVerified(ctx context.Context, id string) error
}

// Notifier delivers a verification code to an account's registered address.
// Delivery happens after the code is persisted; a failed delivery leaves the
// stored code usable and the caller may resend.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error
}
