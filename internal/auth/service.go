// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/probhub/accountd/pkg/errutil"
)

// dummyPasswordHash is verified against when a login targets an unknown
// email, so response time does not reveal whether the account exists.
// This is NOT a real credential; it can never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates the account lifecycle: signup, login, password
// reset, and OTP challenge flows.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   *TokenService
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a Service. All dependencies are required.
func NewService(accounts AccountRepository, hasher PasswordHasher, tokens *TokenService, notifier Notifier) (*Service, error) {
	return NewServiceWithLogger(accounts, hasher, tokens, notifier, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, tokens *TokenService, notifier Notifier, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("SERVICE_INVALID_DEPS").Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("SERVICE_INVALID_DEPS").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("SERVICE_INVALID_DEPS").Errorf("token service is required")
	}
	if notifier == nil {
		return nil, oops.Code("SERVICE_INVALID_DEPS").Errorf("notifier is required")
	}
	if logger == nil {
		return nil, oops.Code("SERVICE_INVALID_DEPS").Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Signup hashes the password and creates an unverified account. A
// uniqueness violation from the store surfaces as ErrDuplicateAccount.
// Returns the new account id.
func (s *Service) Signup(ctx context.Context, username, email, password string) (string, error) {
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return "", oops.Code("SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(username, email, hash)
	if err != nil {
		return "", err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			return "", oops.Code("SIGNUP_DUPLICATE").
				With("email", email).
				Wrap(err)
		}
		return "", oops.Code("SIGNUP_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account created", "account_id", account.ID, "username", username)
	return account.ID, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password both return ErrInvalidCredentials; a
// correct password against an unverified account returns ErrNotVerified.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	account, lookupErr := s.accounts.GetByEmail(ctx, email)

	// Pick the hash to verify against. Unknown accounts get the dummy hash
	// so verification still runs and response time stays flat.
	targetHash := dummyPasswordHash
	exists := false
	switch {
	case lookupErr == nil:
		targetHash = account.PasswordHash
		exists = true
	case errors.Is(lookupErr, ErrNotFound):
		// fall through with the dummy hash
	default:
		return nil, "", oops.Code("LOGIN_FAILED").
			With("operation", "get account by email").
			Wrap(lookupErr)
	}

	valid := s.hasher.Verify(ctx, password, targetHash)
	if !exists || !valid {
		return nil, "", oops.Code("LOGIN_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	if !account.Verified {
		return nil, "", oops.Code("LOGIN_NOT_VERIFIED").
			With("account_id", account.ID).
			Wrap(ErrNotVerified)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", oops.Code("LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "account_id", account.ID)
	return account, token, nil
}

// ResetPassword hashes the new password and overwrites the stored hash for
// the matching account. No prior authentication or OTP check is required;
// this mirrors the documented contract and is a recorded weak point.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("RESET_NOT_FOUND").Wrap(err)
		}
		return oops.Code("RESET_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return oops.Code("RESET_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return oops.Code("RESET_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "password reset", "account_id", account.ID)
	return nil
}

// SendOTP generates a verification code, persists it against the account,
// and then attempts delivery. Persist-then-send is a deliberate two-step:
// if delivery fails the stored code stays valid and the client may retry,
// which overwrites the pending code.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("OTP_SEND_NOT_FOUND").Wrap(err)
		}
		return oops.Code("OTP_SEND_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	code, expiresAt, err := GenerateOTP()
	if err != nil {
		return oops.Code("OTP_SEND_FAILED").
			With("operation", "generate code").
			Wrap(err)
	}

	if err := s.accounts.SetOTP(ctx, account.ID, code, expiresAt); err != nil {
		return oops.Code("OTP_SEND_FAILED").
			With("operation", "persist code").
			Wrap(err)
	}

	if err := s.notifier.SendOTP(ctx, account.Email, code, expiresAt); err != nil {
		errutil.LogError(s.logger, "otp delivery failed", err)
		return oops.Code("OTP_DELIVERY_FAILED").
			With("account_id", account.ID).
			Join(ErrNotifyFailed, err)
	}

	s.logger.InfoContext(ctx, "otp sent", "account_id", account.ID)
	return nil
}

// VerifyOTP checks the submitted code against the account's pending code.
// On success the account becomes verified and the pending code is cleared
// in the same store operation; a valid code works exactly once.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("OTP_VERIFY_NOT_FOUND").Wrap(err)
		}
		return oops.Code("OTP_VERIFY_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	switch status := CheckOTP(account.OtpCode, account.OtpExpiresAt, code, time.Now()); status {
	case OTPNonePending:
		return oops.Code("OTP_NONE_PENDING").Wrap(ErrOTPNonePending)
	case OTPExpired:
		return oops.Code("OTP_EXPIRED").Wrap(ErrOTPExpired)
	case OTPMismatch:
		return oops.Code("OTP_MISMATCH").Wrap(ErrOTPMismatch)
	case OTPValid:
		// fall through to the state transition below
	}

	if err := s.accounts.MarkVerified(ctx, account.ID); err != nil {
		return oops.Code("OTP_VERIFY_FAILED").
			With("operation", "mark verified").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account verified", "account_id", account.ID)
	return nil
}

// GetAccount retrieves an account by id, for authenticated profile reads.
func (s *Service) GetAccount(ctx context.Context, id string) (*Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("ACCOUNT_NOT_FOUND").Wrap(err)
		}
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}
	return account, nil
}
