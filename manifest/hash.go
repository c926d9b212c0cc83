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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// hashDoc is the canonical serialization GenHashHex hashes: field order is
// fixed by struct declaration order (spec.md §4.8), and supports is omitted
// entirely rather than serialized as an empty array when there are none.
type hashDoc struct {
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	Version  string    `json:"version"`
	Supports []Support `json:"supports,omitempty"`
}

// GenHashHex computes the deterministic content hash of a package identity:
// SHA-256 of the canonical JSON serialization of {type, name, version,
// supports}, hex-encoded lowercase. supports is sorted canonically (by OS
// then Arch) first, so the hash is stable regardless of input ordering.
func GenHashHex(pkgType, name, version string, supports []Support) string {
	sorted := append([]Support(nil), supports...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].OS != sorted[j].OS {
			return sorted[i].OS < sorted[j].OS
		}
		return sorted[i].Arch < sorted[j].Arch
	})

	doc := hashDoc{Type: pkgType, Name: name, Version: version, Supports: sorted}
	encoded, err := json.Marshal(doc)
	if err != nil {
		panic("manifest: hash document failed to marshal: " + err.Error())
	}

	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// GenHashHex computes the content hash of m, using its declared supports.
func (m *Manifest) GenHashHex() string {
	return GenHashHex(m.Type, m.Name, m.Version, m.Supports)
}
