// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/probhub/accountd/internal/auth"
	"github.com/probhub/accountd/internal/auth/postgres"
	"github.com/probhub/accountd/internal/config"
	"github.com/probhub/accountd/internal/httpapi"
	"github.com/probhub/accountd/internal/logging"
	"github.com/probhub/accountd/internal/mail"
	"github.com/probhub/accountd/internal/observability"
	"github.com/probhub/accountd/internal/store"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the account service",
		Long: `Start the HTTP API server along with the observability endpoints.
Configuration comes from the --config file and ACCOUNTD_ environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "run pending migrations before serving")

	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logging.SetDefault("accountd", version, cfg.LogFormat)
	logger := slog.Default()

	if autoMigrate {
		if err := runAutoMigrate(cfg.DatabaseURL); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	tokens, err := auth.NewTokenService(cfg.TokenSecret)
	if err != nil {
		return err
	}

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SenderAddress(),
		AppName:  cfg.SMTP.AppName,
	})

	svc, err := auth.NewServiceWithLogger(
		postgres.NewAccountRepository(pool),
		auth.NewArgon2idHasher(cfg.HashConcurrency),
		tokens,
		mailer,
		logger,
	)
	if err != nil {
		return err
	}

	obsServer := observability.NewServer(cfg.MetricsAddr, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})

	obsErrCh, err := obsServer.Start()
	if err != nil {
		return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
	}

	api := httpapi.NewServer(svc, tokens, obsServer.Metrics(), logger)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		logger.Info("api server started", "addr", cfg.ListenAddr)
		if serveErr := httpSrv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			serveErrCh <- serveErr
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serveErrCh:
		return oops.Code("API_SERVER_FAILED").Wrap(err)
	case err := <-obsErrCh:
		if err != nil {
			return oops.Code("OBSERVABILITY_FAILED").Wrap(err)
		}
	case <-ctx.Done():
		logger.Info("shutting down", "reason", "context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").With("operation", "shutdown api server").Wrap(err)
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

func runAutoMigrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck

	return migrator.Up()
}
