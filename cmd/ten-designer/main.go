//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Command ten-designer runs the designer HTTP service (spec.md §1: "HTTP
// designer endpoints and persistent JSON storage", out of the core's scope
// beyond the component it wires) against a SQLite-backed store.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ten-framework/ten-graph-core/config"
	"github.com/ten-framework/ten-graph-core/internal/telemetry"
	"github.com/ten-framework/ten-graph-core/log"
	"github.com/ten-framework/ten-graph-core/server/designer"
	"github.com/ten-framework/ten-graph-core/storage"
)

func main() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.SetupOTLPFromEnv(ctx)
	if err != nil {
		log.Fatalf("telemetry setup failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Errorf("telemetry shutdown: %v", err)
		}
	}()

	store, err := storage.Open(cfg.StoragePath)
	if err != nil {
		log.Fatalf("opening storage at %q: %v", cfg.StoragePath, err)
	}
	defer store.Close()

	srv := designer.New(store, cfg.GraphBaseDir,
		designer.WithRequestTimeout(cfg.RequestTimeout),
		designer.WithCORSOrigins(cfg.CORSOrigins),
	)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("http server shutdown: %v", err)
		}
	}()

	log.Infof("%s: listening on %s", telemetry.ServiceName, cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http server error: %v", err)
	}
}
