// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the accountd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accountd",
		Short: "accountd - account credential and session service",
		Long: `accountd manages account signup, login, password reset, and email
verification, issuing stateless signed session tokens.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Best effort; a missing .env file is the normal production case.
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
