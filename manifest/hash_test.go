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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenHashHexStableUnderSupportsReordering(t *testing.T) {
	a := []Support{{OS: "linux", Arch: "amd64"}, {OS: "darwin", Arch: "arm64"}}
	b := []Support{{OS: "darwin", Arch: "arm64"}, {OS: "linux", Arch: "amd64"}}

	hashA := GenHashHex("extension", "demo", "1.0.0", a)
	hashB := GenHashHex("extension", "demo", "1.0.0", b)

	assert.Equal(t, hashA, hashB)
	assert.Len(t, hashA, 64)
}

func TestGenHashHexChangesWithIdentity(t *testing.T) {
	base := GenHashHex("extension", "demo", "1.0.0", nil)
	other := GenHashHex("extension", "demo", "1.0.1", nil)
	assert.NotEqual(t, base, other)
}

func TestManifestGenHashHexUsesDeclaredSupports(t *testing.T) {
	m := &Manifest{Type: "extension", Name: "demo", Version: "1.0.0",
		Supports: []Support{{OS: "linux", Arch: "amd64"}}}
	assert.Equal(t, GenHashHex("extension", "demo", "1.0.0", m.Supports), m.GenHashHex())
}
