//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package manifest implements the TEN package manifest model: dependency
// declarations, locale-keyed content, interface includes, content hashing,
// and the flatten operation that externalizes locale content and inlines
// interface documents (spec.md §3.7, §4.7, §4.8).
package manifest

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
)

// Manifest is the immutable package descriptor loaded from a manifest.json
// document.
type Manifest struct {
	Type            string       `json:"type"`
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	Dependencies    []Dependency `json:"dependencies,omitempty"`
	DevDependencies []Dependency `json:"dev_dependencies,omitempty"`
	API             API          `json:"api,omitempty"`
	Supports        []Support    `json:"supports,omitempty"`
	Readme          *Locale      `json:"readme,omitempty"`
	Description     *Locale      `json:"description,omitempty"`
	DisplayName     *Locale      `json:"display_name,omitempty"`
	Interface       []Interface  `json:"interface,omitempty"`
}

// Support names one (OS, CPU architecture) combination a package supports.
type Support struct {
	OS   string `json:"os,omitempty"`
	Arch string `json:"arch,omitempty"`
}

func (s Support) String() string {
	return fmt.Sprintf("%s/%s", s.OS, s.Arch)
}

// API is the package's exposed interface surface: a free-form schema
// document plus the properties/message schemas it declares. The flattener
// only needs to merge these structurally by name, so it is kept as a raw
// JSON-object map rather than a fully typed schema.
type API map[string]json.RawMessage

// Interface is one entry of a manifest's `interface` list: a reference to
// another interface document, optionally already resolved.
type Interface struct {
	ImportURI string `json:"import_uri"`
	BaseDir   string `json:"base_dir,omitempty"`
}

// Locale is a locale-keyed text field (readme, description, display_name).
type Locale struct {
	Locales map[string]LocaleEntry `json:"locales"`
}

// LocaleEntry carries either inline Content or an ImportURI to externalized
// content; Manifest Flatten resolves ImportURI entries into Content.
type LocaleEntry struct {
	Content   *string `json:"content,omitempty"`
	ImportURI *string `json:"import_uri,omitempty"`
}

// ValidateLocaleTags reports an error naming the first malformed BCP-47
// tag found in l, or nil if every tag parses under language.Parse, or l is
// nil.
func (l *Locale) ValidateLocaleTags() error {
	if l == nil {
		return nil
	}
	for tag := range l.Locales {
		if _, err := language.Parse(tag); err != nil {
			return fmt.Errorf("manifest: invalid locale tag %q: %w", tag, err)
		}
	}
	return nil
}
