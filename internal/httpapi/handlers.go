// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/probhub/accountd/internal/auth"
	"github.com/probhub/accountd/pkg/errutil"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var body signupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body", "invalid_body")
		return
	}

	id, err := s.svc.Signup(c.Request.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateAccount):
			s.metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			badRequest(c, "Could not create user: username or email already exists", "duplicate_account")
		case isValidationError(err):
			s.metrics.SignupsTotal.WithLabelValues("invalid").Inc()
			badRequest(c, err.Error(), "invalid_input")
		default:
			s.metrics.SignupsTotal.WithLabelValues("error").Inc()
			s.serverError(c, "signup failed", err)
		}
		return
	}

	s.metrics.SignupsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Signup successful",
		"user_id": id,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body", "invalid_body")
		return
	}

	account, token, err := s.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotVerified):
			s.metrics.LoginsTotal.WithLabelValues("not_verified").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":  "Email is not verified",
				"reason": "not_verified",
			})
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":  "Invalid email or password",
				"reason": "invalid_credentials",
			})
		default:
			s.metrics.LoginsTotal.WithLabelValues("error").Inc()
			s.serverError(c, "login failed", err)
		}
		return
	}

	s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"user_id":  account.ID,
		"username": account.Username,
		"token":    token,
	})
}

func (s *Server) handleResetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body", "invalid_body")
		return
	}

	if err := s.svc.ResetPassword(c.Request.Context(), body.Email, body.NewPassword); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			notFound(c, "No user found with that email")
			return
		}
		s.serverError(c, "password reset failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (s *Server) handleSendOTP(c *gin.Context) {
	var body sendOTPRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body", "invalid_body")
		return
	}

	if err := s.svc.SendOTP(c.Request.Context(), body.Email); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			s.metrics.OTPSendsTotal.WithLabelValues("not_found").Inc()
			notFound(c, "No user found with that email")
		case errors.Is(err, auth.ErrNotifyFailed):
			// The code is persisted; the client may retry send-otp and the
			// pending code is simply overwritten.
			s.metrics.OTPSendsTotal.WithLabelValues("delivery_failed").Inc()
			s.serverError(c, "otp delivery failed", err)
		default:
			s.metrics.OTPSendsTotal.WithLabelValues("error").Inc()
			s.serverError(c, "otp send failed", err)
		}
		return
	}

	s.metrics.OTPSendsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (s *Server) handleVerifyOTP(c *gin.Context) {
	var body verifyOTPRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body", "invalid_body")
		return
	}

	if err := s.svc.VerifyOTP(c.Request.Context(), body.Email, body.OTP); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			s.metrics.OTPVerificationsTotal.WithLabelValues("not_found").Inc()
			notFound(c, "No user found with that email")
		case errors.Is(err, auth.ErrOTPNonePending):
			s.metrics.OTPVerificationsTotal.WithLabelValues("none_pending").Inc()
			badRequest(c, "No verification code pending", "none_pending")
		case errors.Is(err, auth.ErrOTPExpired):
			s.metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
			badRequest(c, "Verification code expired", "expired")
		case errors.Is(err, auth.ErrOTPMismatch):
			s.metrics.OTPVerificationsTotal.WithLabelValues("mismatch").Inc()
			badRequest(c, "Invalid verification code", "mismatch")
		default:
			s.metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
			s.serverError(c, "otp verification failed", err)
		}
		return
	}

	s.metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (s *Server) handleMe(c *gin.Context) {
	account, err := s.svc.GetAccount(c.Request.Context(), authenticatedAccountID(c))
	if err != nil {
		// A validly signed token outlives its account by design; the
		// profile read simply has nothing to return.
		if errors.Is(err, auth.ErrNotFound) {
			notFound(c, "User not found")
			return
		}
		s.serverError(c, "profile fetch failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         account.ID,
		"username":   account.Username,
		"email":      account.Email,
		"verified":   account.Verified,
		"created_at": account.CreatedAt.Format(time.RFC3339),
		"updated_at": account.UpdatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleProtected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "You have accessed a protected route!",
	})
}

func badRequest(c *gin.Context, msg, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "reason": reason})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg, "reason": "not_found"})
}

// serverError logs the detailed error server-side and returns an opaque
// failure to the client.
func (s *Server) serverError(c *gin.Context, msg string, err error) {
	errutil.LogError(s.logger, msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

// isValidationError reports whether the error carries an input-validation
// code from the domain layer.
func isValidationError(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	switch oopsErr.Code() {
	case "ACCOUNT_INVALID_USERNAME", "ACCOUNT_INVALID_EMAIL", "AUTH_EMPTY_PASSWORD":
		return true
	}
	return false
}
