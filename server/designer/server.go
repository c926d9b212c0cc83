//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package designer exposes a small HTTP surface over the graph package:
// fetching a stored GraphInfo, flattening it, and appending a connection to
// it. It is a thin transport layer; all domain logic lives in graph and
// manifest.
package designer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ten-framework/ten-graph-core/graph"
	"github.com/ten-framework/ten-graph-core/internal/telemetry"
	"github.com/ten-framework/ten-graph-core/log"
	"github.com/ten-framework/ten-graph-core/storage"
)

// requestIDHeader carries the per-request correlation id generated for
// every designer request, echoed back to the caller and logged by
// requestIDMiddleware alongside the request line. Log lines the handlers
// emit themselves do not carry it.
const requestIDHeader = "X-Ten-Request-Id"

// Server is the designer HTTP service.
type Server struct {
	store          *storage.Store
	loader         *graph.FileLoader
	graphBaseDir   string
	requestTimeout time.Duration
	handler        http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithRequestTimeout overrides the per-request timeout applied to every
// handler (default 30s).
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

// WithCORSOrigins overrides the allowed CORS origins (default "*").
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.handler = buildRouter(s, origins)
	}
}

// New builds a Server backed by store, resolving subgraph/manifest
// references relative to graphBaseDir.
func New(store *storage.Store, graphBaseDir string, opts ...Option) *Server {
	log.Infof("%s: designer server starting, graph base dir %q", telemetry.ServiceName, graphBaseDir)

	s := &Server{
		store:          store,
		loader:         graph.NewFileLoader(),
		graphBaseDir:   graphBaseDir,
		requestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.handler == nil {
		s.handler = buildRouter(s, []string{"*"})
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func buildRouter(s *Server, corsOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.HandleFunc("/graphs/{name}", s.handleGetGraph).Methods(http.MethodGet)
	router.HandleFunc("/graphs/{name}/flatten", s.handleFlatten).Methods(http.MethodPost)
	router.HandleFunc("/graphs/{name}/connections", s.handleAddConnection).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
	})
	return c.Handler(router)
}

// requestIDMiddleware assigns every inbound request a uuid correlation id
// (reused from the caller's header when already set), echoes it back, and
// logs it alongside the request line.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		log.Infof("designer request %s: %s %s", reqID, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ctx, cancel := s.timeoutContext(r)
	defer cancel()

	info, err := s.store.LoadGraphInfo(ctx, name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ctx, cancel := s.timeoutContext(r)
	defer cancel()

	info, err := s.store.LoadGraphInfo(ctx, name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	baseDir := s.graphBaseDir
	if info.AppBaseDir != nil {
		baseDir = *info.AppBaseDir
	}
	if err := info.ValidateAndCompleteAndFlatten(ctx, s.loader.InfoLoaderFromFiles(), s.loader.SubgraphLoaderFromFiles(baseDir)); err != nil {
		log.ErrorfContext(ctx, "flatten %q failed: %v", name, err)
		writeError(w, statusFor(err), err)
		return
	}

	if err := s.store.SaveGraphInfo(ctx, name, info); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type addConnectionRequestBody struct {
	Src           graph.Loc       `json:"src"`
	Dest          graph.Loc       `json:"dest"`
	MsgType       graph.MsgType   `json:"msg_type"`
	Names         []string        `json:"names"`
	MsgConversion json.RawMessage `json:"msg_conversion,omitempty"`
}

func (s *Server) handleAddConnection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ctx, cancel := s.timeoutContext(r)
	defer cancel()

	var body addConnectionRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	info, err := s.store.LoadGraphInfo(ctx, name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	req := graph.AddConnectionRequest{
		Src: body.Src, Dest: body.Dest, MsgType: body.MsgType,
		Names: body.Names, MsgConversion: body.MsgConversion,
	}
	if err := graph.AddConnection(ctx, &info.Graph, req, nil); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if err := s.store.SaveGraphInfo(ctx, name, info); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func statusFor(err error) int {
	kind, ok := graph.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case graph.KindSchema, graph.KindMutation, graph.KindInvariantViolation, graph.KindFlattening:
		return http.StatusUnprocessableEntity
	case graph.KindReference:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
