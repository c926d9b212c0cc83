//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package config holds the process-level configuration for the designer
// HTTP service: listen address, storage path, and CORS
// policy, loaded from environment variables with functional-option
// overrides for tests and embedders.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the designer process configuration.
type Config struct {
	ListenAddr     string
	StoragePath    string
	CORSOrigins    []string
	RequestTimeout time.Duration
	GraphBaseDir   string
}

// Option configures a Config.
type Option func(*Config)

// WithListenAddr overrides the HTTP listen address.
func WithListenAddr(addr string) Option {
	return func(c *Config) { c.ListenAddr = addr }
}

// WithStoragePath overrides the SQLite database path.
func WithStoragePath(path string) Option {
	return func(c *Config) { c.StoragePath = path }
}

// WithCORSOrigins overrides the allowed CORS origins.
func WithCORSOrigins(origins []string) Option {
	return func(c *Config) { c.CORSOrigins = origins }
}

// WithRequestTimeout overrides the per-request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) { c.RequestTimeout = d }
}

// WithGraphBaseDir overrides the base directory graph/manifest import_uri
// values are resolved against.
func WithGraphBaseDir(dir string) Option {
	return func(c *Config) { c.GraphBaseDir = dir }
}

// defaults returns a Config seeded from environment variables, falling back
// to hardcoded defaults for anything unset.
func defaults() Config {
	cfg := Config{
		ListenAddr:     envOr("TEN_GRAPH_LISTEN_ADDR", ":49483"),
		StoragePath:    envOr("TEN_GRAPH_STORAGE_PATH", "ten_graph.db"),
		CORSOrigins:    []string{"*"},
		RequestTimeout: 30 * time.Second,
		GraphBaseDir:   envOr("TEN_GRAPH_BASE_DIR", "."),
	}
	if v := os.Getenv("TEN_GRAPH_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}

// New builds a Config from the environment, applying opts on top.
func New(opts ...Option) *Config {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate reports an error if the configuration is unusable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if c.StoragePath == "" {
		return fmt.Errorf("config: storage path must not be empty")
	}
	return nil
}
