//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ten-framework/ten-graph-core/uri"
)

// FileLoader fetches graph and subgraph documents named by import_uri /
// source_uri values: http(s) URLs are fetched over HTTP, file:// URLs and
// plain filesystem paths are read from disk. baseDir anchors a relative
// reference (spec.md §4.2).
type FileLoader struct {
	HTTPClient *http.Client
}

// NewFileLoader returns a FileLoader with a bounded-timeout HTTP client.
func NewFileLoader() *FileLoader {
	return &FileLoader{HTTPClient: &http.Client{Timeout: 10 * time.Second}}
}

// Load resolves importURI against baseDir and returns the bytes at the
// resolved location, along with the new base directory subsequent relative
// references nested inside that document should resolve against.
func (l *FileLoader) Load(ctx context.Context, importURI string, baseDir string) (data []byte, newBaseDir string, err error) {
	resolved, err := uri.Resolve(importURI, baseDir)
	if err != nil {
		return nil, "", &Error{Kind: KindReference, Err: err}
	}

	switch {
	case strings.HasPrefix(resolved, "http://"), strings.HasPrefix(resolved, "https://"):
		data, err := l.fetchHTTP(ctx, resolved)
		if err != nil {
			return nil, "", err
		}
		return data, parentOf(resolved), nil
	case strings.HasPrefix(resolved, "file://"):
		path := strings.TrimPrefix(resolved, "file://")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", &Error{Kind: KindIOFault, Err: fmt.Errorf("reading %q: %w", path, err)}
		}
		return data, parentOf(path), nil
	default:
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", &Error{Kind: KindIOFault, Err: fmt.Errorf("reading %q: %w", resolved, err)}
		}
		return data, parentOf(resolved), nil
	}
}

func (l *FileLoader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindReference, Err: err}
	}
	req.Header.Set("User-Agent", "ten-graph-core/1.0")

	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindIOFault, Err: fmt.Errorf("fetching %q: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindIOFault, Err: fmt.Errorf("fetching %q: HTTP %d", url, resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindIOFault, Err: fmt.Errorf("reading response from %q: %w", url, err)}
	}
	return body, nil
}

func parentOf(location string) string {
	idx := strings.LastIndexAny(location, "/\\")
	if idx < 0 {
		return ""
	}
	return location[:idx]
}

// SubgraphLoaderFromFiles builds a SubgraphLoader backed by l, resolving
// each source_uri against baseDir and decoding the fetched bytes as a Graph.
func (l *FileLoader) SubgraphLoaderFromFiles(baseDir string) SubgraphLoader {
	return func(ctx context.Context, sourceURI string) (*Graph, error) {
		data, _, err := l.Load(ctx, sourceURI, baseDir)
		if err != nil {
			return nil, err
		}
		var g Graph
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, &Error{Kind: KindSchema, Err: fmt.Errorf("decoding subgraph %q: %w", sourceURI, err)}
		}
		return &g, nil
	}
}

// InfoLoaderFromFiles builds a GraphInfoLoader backed by l.
func (l *FileLoader) InfoLoaderFromFiles() GraphInfoLoader {
	return func(ctx context.Context, importURI string, baseDir *string) (*Graph, error) {
		base := ""
		if baseDir != nil {
			base = *baseDir
		}
		data, _, err := l.Load(ctx, importURI, base)
		if err != nil {
			return nil, err
		}
		var g Graph
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, &Error{Kind: KindSchema, Err: fmt.Errorf("decoding graph %q: %w", importURI, err)}
		}
		return &g, nil
	}
}
