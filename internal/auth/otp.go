// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/samber/oops"
)

// OTP configuration.
const (
	otpDigits   = 6
	otpModulus  = 1000000 // 10^otpDigits
	OTPValidity = 5 * time.Minute
)

// OTPStatus is the outcome of checking a submitted one-time code.
type OTPStatus int

const (
	// OTPValid means the code matched an unexpired pending code.
	OTPValid OTPStatus = iota
	// OTPNonePending means the account has no code stored.
	OTPNonePending
	// OTPExpired means a code is stored but its window has closed.
	OTPExpired
	// OTPMismatch means the submitted code does not equal the stored one.
	OTPMismatch
)

// String returns the status name for logs and metrics labels.
func (s OTPStatus) String() string {
	switch s {
	case OTPValid:
		return "valid"
	case OTPNonePending:
		return "none_pending"
	case OTPExpired:
		return "expired"
	case OTPMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// GenerateOTP produces a uniformly random 6-digit code (leading zeros
// preserved) and its expiry, OTPValidity from now. Generation knows nothing
// about accounts; the caller persists the pair and delivers the code.
func GenerateOTP() (code string, expiresAt time.Time, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpModulus))
	if err != nil {
		return "", time.Time{}, oops.Code("OTP_GENERATE_FAILED").Wrap(err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), time.Now().Add(OTPValidity), nil
}

// CheckOTP evaluates a submitted code against the stored code and expiry.
// Expiry is checked before the match so an attacker cannot distinguish a
// wrong code from a right one once the window has closed. The comparison is
// constant-time.
//
// On OTPValid the caller must clear the stored pair and mark the account
// verified as part of the same persistence step; a valid code is single-use.
func CheckOTP(storedCode *string, storedExpiresAt *time.Time, submitted string, now time.Time) OTPStatus {
	if storedCode == nil || storedExpiresAt == nil {
		return OTPNonePending
	}
	if now.After(*storedExpiresAt) {
		return OTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(*storedCode), []byte(submitted)) != 1 {
		return OTPMismatch
	}
	return OTPValid
}
