//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Command tengraph is the lint front-end over the graph and manifest
// packages (spec.md §1: "CLI front-end ... out of scope" beyond where it
// touches the core). It walks a directory for graph.json and manifest.json
// documents and runs validate_and_complete_and_flatten / Flatten on each,
// reporting the first failure.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ten-framework/ten-graph-core/graph"
	"github.com/ten-framework/ten-graph-core/log"
	"github.com/ten-framework/ten-graph-core/manifest"
)

func main() {
	root := flag.String("dir", ".", "directory to lint")
	flag.Parse()

	if err := run(*root); err != nil {
		log.Errorf("tengraph lint: %v", err)
		os.Exit(1)
	}
}

func run(root string) error {
	ctx := context.Background()
	loader := graph.NewFileLoader()

	graphFiles, err := doublestar.Glob(os.DirFS(root), "**/graph.json")
	if err != nil {
		return fmt.Errorf("globbing graph.json under %s: %w", root, err)
	}
	for _, rel := range graphFiles {
		path := filepath.Join(root, rel)
		if err := lintGraph(ctx, loader, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("ok   %s\n", path)
	}

	manifestFiles, err := doublestar.Glob(os.DirFS(root), "**/manifest.json")
	if err != nil {
		return fmt.Errorf("globbing manifest.json under %s: %w", root, err)
	}
	for _, rel := range manifestFiles {
		path := filepath.Join(root, rel)
		if err := lintManifest(ctx, loader, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("ok   %s\n", path)
	}

	fmt.Printf("linted %d graph(s), %d manifest(s) under %s\n", len(graphFiles), len(manifestFiles), root)
	return nil
}

func lintGraph(ctx context.Context, loader *graph.FileLoader, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var g graph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	baseDir := filepath.Dir(path)
	_, err = g.ValidateAndCompleteAndFlatten(ctx, loader.SubgraphLoaderFromFiles(baseDir))
	return err
}

func lintManifest(ctx context.Context, loader *graph.FileLoader, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	baseDir := filepath.Dir(path)

	contentLoader := func(ctx context.Context, importURI, base string) ([]byte, error) {
		b := base
		if b == "" {
			b = baseDir
		}
		data, _, err := loader.Load(ctx, importURI, b)
		return data, err
	}
	ifaceLoader := func(ctx context.Context, importURI, base string) (*manifest.InterfaceDocument, error) {
		b := base
		if b == "" {
			b = baseDir
		}
		data, _, err := loader.Load(ctx, importURI, b)
		if err != nil {
			return nil, err
		}
		var doc manifest.InterfaceDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding interface %q: %w", importURI, err)
		}
		return &doc, nil
	}
	depLoader := func(ctx context.Context, depPath, base string) (*manifest.Manifest, error) {
		b := base
		if b == "" {
			b = baseDir
		}
		data, _, err := loader.Load(ctx, filepath.Join(depPath, "manifest.json"), b)
		if err != nil {
			return nil, err
		}
		var dm manifest.Manifest
		if err := json.Unmarshal(data, &dm); err != nil {
			return nil, fmt.Errorf("decoding dependency manifest at %q: %w", depPath, err)
		}
		return &dm, nil
	}

	return m.Flatten(ctx, contentLoader, ifaceLoader, depLoader)
}
