// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }},
		{"zero window with rate limit", func(c *Config) { c.Server.RateLimitWindow = 0 }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"LW_SERVER_PORT", "server.port"},
		{"LW_SERVER_RATE_LIMIT", "server.rate_limit"},
		{"LW_DATABASE_PATH", "database.path"},
		{"LW_DATABASE_MAX_MEMORY", "database.max_memory"},
		{"LW_LOGGING_LEVEL", "logging.level"},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9000\ndatabase:\n  path: /tmp/test.db\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LW_SERVER_PORT", "9100")
	t.Setenv("LW_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Env beats file.
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100 (env override)", cfg.Server.Port)
	}
	// File beats defaults.
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("db path = %q, want /tmp/test.db (file override)", cfg.Database.Path)
	}
	// Env-only override.
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched default survives.
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %s, want default 10s", cfg.Server.ShutdownTimeout)
	}
}

func TestAddr(t *testing.T) {
	sc := ServerConfig{Host: "127.0.0.1", Port: 8480}
	if got := sc.Addr(); got != "127.0.0.1:8480" {
		t.Errorf("Addr() = %q", got)
	}
}
