//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package manifest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestFlattenExternalizesLocaleContent(t *testing.T) {
	m := &Manifest{
		Type: "extension", Name: "demo", Version: "1.0.0",
		Readme: &Locale{Locales: map[string]LocaleEntry{
			"en": {ImportURI: strp("docs/readme_en.md")},
			"zh": {Content: strp("already inline")},
		}},
	}

	loader := func(ctx context.Context, importURI, baseDir string) ([]byte, error) {
		assert.Equal(t, "docs/readme_en.md", importURI)
		return []byte("# hello"), nil
	}

	require.NoError(t, m.Flatten(context.Background(), loader, nil, nil))
	assert.Equal(t, "# hello", *m.Readme.Locales["en"].Content)
	assert.Equal(t, "already inline", *m.Readme.Locales["zh"].Content)
}

func TestFlattenRejectsInvalidLocaleTag(t *testing.T) {
	m := &Manifest{
		Type: "extension", Name: "demo", Version: "1.0.0",
		Description: &Locale{Locales: map[string]LocaleEntry{
			"not a tag": {Content: strp("whatever")},
		}},
	}

	err := m.Flatten(context.Background(), nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindSchema, mustKindOf(t, err))
}

func TestFlattenInterfaceMergesDisjointAndRejectsOverlap(t *testing.T) {
	m := &Manifest{
		Type: "extension", Name: "demo", Version: "1.0.0",
		Interface: []Interface{{ImportURI: "a.json"}, {ImportURI: "b.json"}},
	}

	loader := func(ctx context.Context, importURI, baseDir string) (*InterfaceDocument, error) {
		switch importURI {
		case "a.json":
			return &InterfaceDocument{API: API{"cmd_in": json.RawMessage(`[]`)}}, nil
		case "b.json":
			return &InterfaceDocument{API: API{"cmd_out": json.RawMessage(`[]`)}}, nil
		default:
			t.Fatalf("unexpected import_uri %q", importURI)
			return nil, nil
		}
	}

	require.NoError(t, m.Flatten(context.Background(), nil, loader, nil))
	assert.Contains(t, m.API, "cmd_in")
	assert.Contains(t, m.API, "cmd_out")

	overlapping := &Manifest{
		Type: "extension", Name: "demo", Version: "1.0.0",
		Interface: []Interface{{ImportURI: "a.json"}, {ImportURI: "a-dup.json"}},
	}
	overlapLoader := func(ctx context.Context, importURI, baseDir string) (*InterfaceDocument, error) {
		return &InterfaceDocument{API: API{"cmd_in": json.RawMessage(`[]`)}}, nil
	}
	err := overlapping.Flatten(context.Background(), nil, overlapLoader, nil)
	require.Error(t, err)
	assert.Equal(t, KindInvariantViolation, mustKindOf(t, err))
}

func TestFlattenInterfaceDetectsCircularReference(t *testing.T) {
	m := &Manifest{
		Type: "extension", Name: "demo", Version: "1.0.0",
		Interface: []Interface{{ImportURI: "a.json"}},
	}

	loader := func(ctx context.Context, importURI, baseDir string) (*InterfaceDocument, error) {
		return &InterfaceDocument{
			API:       API{"cmd_in": json.RawMessage(`[]`)},
			Interface: []Interface{{ImportURI: "a.json"}},
		}, nil
	}

	err := m.Flatten(context.Background(), nil, loader, nil)
	require.Error(t, err)
	assert.Equal(t, KindReference, mustKindOf(t, err))
}

func TestFlattenLocalDependencyPopulatesCachedFields(t *testing.T) {
	m := &Manifest{
		Type: "extension", Name: "demo", Version: "1.0.0",
		Dependencies: []Dependency{NewLocalDependency(LocalDependency{Path: "../other_ext", BaseDir: "/app"})},
	}

	loader := func(ctx context.Context, path, baseDir string) (*Manifest, error) {
		return &Manifest{Type: "extension", Name: "other_ext", Version: "2.0.0"}, nil
	}

	require.NoError(t, m.Flatten(context.Background(), nil, nil, loader))
	local := m.Dependencies[0].Local
	require.True(t, local.Flattened())
	assert.Equal(t, "other_ext", *local.Name)
	assert.Equal(t, "2.0.0", *local.VersionReq)
}

func mustKindOf(t *testing.T, err error) Kind {
	t.Helper()
	kind, ok := KindOf(err)
	require.True(t, ok, "expected a *manifest.Error")
	return kind
}
