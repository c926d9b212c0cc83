//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package storage persists graph.GraphInfo documents for the designer HTTP
// service (spec.md §1: "HTTP designer endpoints and persistent JSON
// storage" — out of the core's scope, implemented here only as the thin
// collaborator the designer package needs). A GraphInfo is stored as its
// JSON encoding in a single SQLite table, keyed by name; callers decode the
// graph through graph.GraphInfo before running any core operation on it.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ten-framework/ten-graph-core/graph"
)

const schema = `
CREATE TABLE IF NOT EXISTS graph_infos (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
`

// Store is a SQLite-backed key/value table of graph.GraphInfo documents.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and ensures
// the graph_infos table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadGraphInfo fetches and decodes the GraphInfo stored under name.
func (s *Store) LoadGraphInfo(ctx context.Context, name string) (*graph.GraphInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT body FROM graph_infos WHERE name = ?`, name)

	var body []byte
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("storage: no graph named %q", name)
		}
		return nil, fmt.Errorf("storage: loading %q: %w", name, err)
	}

	var info graph.GraphInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("storage: decoding %q: %w", name, err)
	}
	return &info, nil
}

// SaveGraphInfo encodes info and upserts it under name.
func (s *Store) SaveGraphInfo(ctx context.Context, name string, info *graph.GraphInfo) error {
	body, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("storage: encoding %q: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO graph_infos (name, body, updated_at) VALUES (?, ?, strftime('%s','now'))
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, body)
	if err != nil {
		return fmt.Errorf("storage: saving %q: %w", name, err)
	}
	return nil
}

// DeleteGraphInfo removes the document stored under name, if any.
func (s *Store) DeleteGraphInfo(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM graph_infos WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("storage: deleting %q: %w", name, err)
	}
	return nil
}

// ListGraphNames returns every name currently stored, in insertion order.
func (s *Store) ListGraphNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM graph_infos ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("storage: listing graphs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: scanning graph name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
