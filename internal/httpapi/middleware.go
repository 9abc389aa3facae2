// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/probhub/accountd/internal/auth"
	"github.com/probhub/accountd/internal/logging"
	"github.com/probhub/accountd/internal/observability"
)

// accountIDKey is the gin context key carrying the authenticated account id.
const accountIDKey = "account_id"

// Rejection reasons emitted by the auth gate. These are stable
// machine-readable values; clients and metrics key off them.
const (
	ReasonMissingToken    = "missing_token"
	ReasonMalformedHeader = "malformed_header"
	ReasonInvalidToken    = "invalid_token"
)

const bearerPrefix = "Bearer "

// RequireAuth gates protected routes. It extracts the bearer token from the
// Authorization header, validates it, and either admits the request with the
// token subject attached or short-circuits with a uniform 401 before the
// handler runs.
func RequireAuth(tokens *auth.TokenService, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			reject(c, metrics, ReasonMissingToken, "Missing token")
			return
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			reject(c, metrics, ReasonMalformedHeader, "Invalid token format")
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			reject(c, metrics, ReasonInvalidToken, "Invalid or expired token")
			return
		}

		c.Set(accountIDKey, claims.AccountID())
		c.Next()
	}
}

func reject(c *gin.Context, metrics *observability.Metrics, reason, msg string) {
	if metrics != nil {
		metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":  msg,
		"reason": reason,
	})
}

// authenticatedAccountID returns the account id the auth gate attached.
func authenticatedAccountID(c *gin.Context) string {
	id, _ := c.Get(accountIDKey)
	s, _ := id.(string)
	return s
}

// RequestID tags every request with an id, echoes it in the X-Request-ID
// response header, and threads it through the request context so log
// records carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog emits one structured record per request.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
