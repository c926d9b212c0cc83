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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyUnmarshalChoosesVariantByShape(t *testing.T) {
	var reg Dependency
	require.NoError(t, json.Unmarshal([]byte(`{"type":"extension","name":"foo","version":"^1.0.0"}`), &reg))
	assert.Equal(t, DependencyRegistry, reg.Kind)
	assert.Equal(t, "foo", reg.Registry.Name)

	var local Dependency
	require.NoError(t, json.Unmarshal([]byte(`{"path":"../other_ext"}`), &local))
	assert.Equal(t, DependencyLocal, local.Kind)
	assert.Equal(t, "../other_ext", local.Local.Path)
}

func TestDependencyRoundTrip(t *testing.T) {
	orig := NewRegistryDependency(RegistryDependency{Type: "extension", Name: "foo", VersionReq: "^1.0.0"})
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded Dependency
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, orig.Registry, decoded.Registry)
}

func TestLocalDependencyTypeAndNamePanicsBeforeFlatten(t *testing.T) {
	d := NewLocalDependency(LocalDependency{Path: "../other_ext"})
	assert.Panics(t, func() { d.TypeAndName() })
}

func TestLocalDependencyTypeAndNameAfterFlatten(t *testing.T) {
	pkgType, name, version := "extension", "foo", "1.0.0"
	d := NewLocalDependency(LocalDependency{Path: "../foo", PkgType: &pkgType, Name: &name, VersionReq: &version})
	gotType, gotName := d.TypeAndName()
	assert.Equal(t, pkgType, gotType)
	assert.Equal(t, name, gotName)
}
