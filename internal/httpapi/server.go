// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

// Package httpapi exposes the account service over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/probhub/accountd/internal/auth"
	"github.com/probhub/accountd/internal/observability"
)

// Server holds the handler dependencies for the HTTP API.
type Server struct {
	svc     *auth.Service
	tokens  *auth.TokenService
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewServer creates the HTTP API server.
func NewServer(svc *auth.Service, tokens *auth.TokenService, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:     svc,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
	}
}

// Router builds the gin engine with all routes registered. Credential
// operations are public; everything under /protected-scope sits behind the
// auth gate.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(AccessLog(s.logger))
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "accountd"})
	})

	router.POST("/signup", s.handleSignup)
	router.POST("/login", s.handleLogin)
	router.PUT("/reset-password", s.handleResetPassword)
	router.POST("/send-otp", s.handleSendOTP)
	router.POST("/verify-otp", s.handleVerifyOTP)

	protected := router.Group("/protected-scope")
	protected.Use(RequireAuth(s.tokens, s.metrics))
	protected.GET("/me", s.handleMe)
	protected.GET("/protected", s.handleProtected)

	return router
}
