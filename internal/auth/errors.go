// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth

import "errors"

// Sentinel errors for the account lifecycle. Services wrap these with coded
// oops errors; transports unwrap with errors.Is to pick a status code.
var (
	// ErrNotFound is returned when no account matches the given key.
	ErrNotFound = errors.New("account not found")

	// ErrDuplicateAccount is returned when the store rejects a create due to
	// a username or email uniqueness violation.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// that the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotVerified is returned when the password is correct but the
	// account has not completed OTP verification. Revealing this to a
	// correctly-authenticating caller is the one deliberate asymmetry in the
	// enumeration-resistance policy.
	ErrNotVerified = errors.New("account not verified")

	// ErrNotifyFailed is returned when the OTP was persisted but delivery
	// failed. The stored code remains usable; resending overwrites it.
	ErrNotifyFailed = errors.New("verification code delivery failed")
)

// Sentinel errors for OTP verification outcomes.
var (
	ErrOTPNonePending = errors.New("no verification code pending")
	ErrOTPExpired     = errors.New("verification code expired")
	ErrOTPMismatch    = errors.New("verification code mismatch")
)

// Sentinel errors for session token validation.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)
