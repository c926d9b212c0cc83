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
	"fmt"
)

// DependencyKind discriminates the two Dependency variants. The wire form is
// untagged: the variant is inferred from which fields are present (spec.md
// §3.7, §6.2).
type DependencyKind int

// Dependency kinds.
const (
	DependencyUnknown DependencyKind = iota
	DependencyRegistry
	DependencyLocal
)

// RegistryDependency names a package by type/name/version requirement,
// resolved against a registry.
type RegistryDependency struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	VersionReq string `json:"version"`
}

// LocalDependency names a package by filesystem path. PkgType/Name/VersionReq
// are populated by Manifest Flatten and are absent before flattening; reading
// them beforehand is a programmer error (spec.md §3.7).
type LocalDependency struct {
	Path    string `json:"path"`
	BaseDir string `json:"-"`

	PkgType    *string `json:"type,omitempty"`
	Name       *string `json:"name,omitempty"`
	VersionReq *string `json:"version,omitempty"`
}

// Flattened reports whether Flatten has populated this LocalDependency's
// cached type/name/version fields.
func (d *LocalDependency) Flattened() bool {
	return d.PkgType != nil && d.Name != nil && d.VersionReq != nil
}

// Dependency is a tagged union over RegistryDependency and LocalDependency.
type Dependency struct {
	Kind     DependencyKind
	Registry *RegistryDependency
	Local    *LocalDependency
}

// NewRegistryDependency builds a Dependency wrapping a RegistryDependency.
func NewRegistryDependency(d RegistryDependency) Dependency {
	return Dependency{Kind: DependencyRegistry, Registry: &d}
}

// NewLocalDependency builds a Dependency wrapping a LocalDependency.
func NewLocalDependency(d LocalDependency) Dependency {
	return Dependency{Kind: DependencyLocal, Local: &d}
}

// MarshalJSON renders a Dependency as its untagged wire form.
func (d Dependency) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DependencyRegistry:
		if d.Registry == nil {
			return nil, fmt.Errorf("manifest: registry dependency with nil content")
		}
		return json.Marshal(d.Registry)
	case DependencyLocal:
		if d.Local == nil {
			return nil, fmt.Errorf("manifest: local dependency with nil content")
		}
		return json.Marshal(d.Local)
	default:
		return nil, fmt.Errorf("manifest: dependency has unknown kind")
	}
}

// UnmarshalJSON parses a Dependency, choosing the variant by shape: a "path"
// field means LocalDependency, otherwise RegistryDependency.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var probe struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("manifest: decoding dependency: %w", err)
	}
	if probe.Path != "" {
		var local LocalDependency
		if err := json.Unmarshal(data, &local); err != nil {
			return fmt.Errorf("manifest: decoding local dependency: %w", err)
		}
		*d = NewLocalDependency(local)
		return nil
	}
	var reg RegistryDependency
	if err := json.Unmarshal(data, &reg); err != nil {
		return fmt.Errorf("manifest: decoding registry dependency: %w", err)
	}
	*d = NewRegistryDependency(reg)
	return nil
}

// TypeAndName returns the dependency's package type and name. For a
// LocalDependency this is only valid once Flatten has run; it panics
// otherwise, matching the source's documented programmer-error contract.
func (d Dependency) TypeAndName() (pkgType, name string) {
	switch d.Kind {
	case DependencyRegistry:
		return d.Registry.Type, d.Registry.Name
	case DependencyLocal:
		if !d.Local.Flattened() {
			panic("manifest: LocalDependency not properly flattened: type/name must be populated after flatten")
		}
		return *d.Local.PkgType, *d.Local.Name
	default:
		panic("manifest: dependency has unknown kind")
	}
}
