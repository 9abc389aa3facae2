// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

// Package config loads service configuration from an optional YAML file and
// ACCOUNTD_-prefixed environment variables. Configuration is read once at
// startup and treated as immutable afterward.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// SMTP holds outbound-mail transport credentials.
type SMTP struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	AppName  string `koanf:"app_name"`
}

// Config is the full service configuration.
type Config struct {
	ListenAddr       string `koanf:"listen_addr"`
	MetricsAddr      string `koanf:"metrics_addr"`
	DatabaseURL      string `koanf:"database_url"`
	DatabaseMaxConns int32  `koanf:"database_max_conns"`
	TokenSecret      string `koanf:"token_secret"`
	HashConcurrency  int    `koanf:"hash_concurrency"`
	LogFormat        string `koanf:"log_format"`
	SMTP             SMTP   `koanf:"smtp"`
}

// Default returns a Config with every non-secret field set to its default.
// Secrets (database URL, token secret, SMTP credentials) have no default;
// their absence is a fatal startup condition, checked by Validate.
func Default() Config {
	return Config{
		ListenAddr:       ":8080",
		MetricsAddr:      "127.0.0.1:9100",
		DatabaseMaxConns: 10,
		HashConcurrency:  4,
		LogFormat:        "json",
		SMTP: SMTP{
			Port: 587,
		},
	}
}

// Load reads configuration in precedence order: defaults, then the YAML
// file at path (if path is non-empty), then environment variables prefixed
// with ACCOUNTD_. A double underscore in an env name descends into a
// section: ACCOUNTD_SMTP__HOST sets smtp.host.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider("ACCOUNTD_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ACCOUNTD_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required value is present. A missing secret is
// a startup failure, not a runtime error.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required (ACCOUNTD_DATABASE_URL)")
	}
	if c.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token_secret is required (ACCOUNTD_TOKEN_SECRET)")
	}
	if c.SMTP.Host == "" || c.SMTP.Username == "" || c.SMTP.Password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("smtp host, username, and password are required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log_format must be 'json' or 'text'")
	}
	return nil
}

// SenderAddress is the From address for outbound mail, defaulting to the
// SMTP username when not set explicitly.
func (c *Config) SenderAddress() string {
	if c.SMTP.From != "" {
		return c.SMTP.From
	}
	return c.SMTP.Username
}
