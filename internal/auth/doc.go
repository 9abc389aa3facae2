// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

// Package auth implements the credential and session core of accountd.
//
// # Domain Types
//
// Account is the durable identity record. Create it with NewAccount, which
// validates the username and assigns a ULID; direct struct initialization
// bypasses validation and may create invalid state. Repository
// implementations receive pre-validated accounts from the service layer.
//
// # Components
//
//   - Argon2idHasher - password hashing and verification (PHC encoding)
//   - TokenService   - stateless HMAC session tokens (issue, validate)
//   - GenerateOTP / CheckOTP - one-time verification codes with expiry
//   - Service        - signup, login, password reset, and OTP orchestration
//
// Tokens are non-revocable by design: there is no server-side session store
// and no blacklist, so a validly signed token is accepted until it expires.
package auth
