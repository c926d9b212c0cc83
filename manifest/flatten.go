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
	"fmt"

	"github.com/ten-framework/ten-graph-core/internal/telemetry"
	"github.com/ten-framework/ten-graph-core/uri"
)

// ContentLoader fetches the bytes importURI (resolved against baseDir)
// refers to, for externalizing locale content (spec.md §4.7).
type ContentLoader func(ctx context.Context, importURI, baseDir string) ([]byte, error)

// InterfaceDocument is the API definition a manifest's interface entries
// load, which may itself declare further interface children to recurse
// into.
type InterfaceDocument struct {
	API       API
	Interface []Interface
}

// InterfaceLoader loads the interface document importURI (resolved against
// baseDir) refers to.
type InterfaceLoader func(ctx context.Context, importURI, baseDir string) (*InterfaceDocument, error)

// ManifestLoader loads the manifest found at base_dir+path, for resolving a
// LocalDependency.
type ManifestLoader func(ctx context.Context, path, baseDir string) (*Manifest, error)

// Flatten implements spec.md §4.7: it externalizes locale content, inlines
// interface includes (recursively, rejecting cycles), and resolves local
// dependencies' cached type/name/version. m is mutated in place.
func (m *Manifest) Flatten(ctx context.Context, content ContentLoader, iface InterfaceLoader, dep ManifestLoader) error {
	ctx, span := startSpan(ctx, telemetry.SpanManifestFlatten)
	defer span.end()

	for _, l := range []*Locale{m.Readme, m.Description, m.DisplayName} {
		if err := l.ValidateLocaleTags(); err != nil {
			err = &Error{Kind: KindSchema, Err: err}
			span.fail(err)
			return err
		}
	}

	if err := m.flattenLocale(ctx, m.Readme, content); err != nil {
		span.fail(err)
		return err
	}
	if err := m.flattenLocale(ctx, m.Description, content); err != nil {
		span.fail(err)
		return err
	}
	if err := m.flattenLocale(ctx, m.DisplayName, content); err != nil {
		span.fail(err)
		return err
	}

	if len(m.Interface) > 0 {
		merged, err := flattenInterfaces(ctx, m.Interface, iface, newVisitedSet())
		if err != nil {
			span.fail(err)
			return err
		}
		if m.API == nil {
			m.API = API{}
		}
		for k, v := range merged {
			m.API[k] = v
		}
	}

	for i := range m.Dependencies {
		if err := flattenLocalDependency(ctx, &m.Dependencies[i], dep); err != nil {
			span.fail(err)
			return err
		}
	}
	for i := range m.DevDependencies {
		if err := flattenLocalDependency(ctx, &m.DevDependencies[i], dep); err != nil {
			span.fail(err)
			return err
		}
	}
	return nil
}

// flattenLocale externalizes every entry in l that carries import_uri but
// not content; entries that already have content are left untouched.
func (m *Manifest) flattenLocale(ctx context.Context, l *Locale, content ContentLoader) error {
	if l == nil {
		return nil
	}
	for tag, entry := range l.Locales {
		if entry.Content != nil || entry.ImportURI == nil {
			continue
		}
		resolved, err := uri.Resolve(*entry.ImportURI, "")
		if err != nil {
			// A relative import_uri without a usable base_dir at the
			// manifest's own root is only valid when it is itself a URL;
			// fall through to the loader, which applies its own base_dir
			// policy for on-disk manifests.
			resolved = *entry.ImportURI
		}
		data, err := content(ctx, resolved, "")
		if err != nil {
			return &Error{Kind: KindReference, Err: fmt.Errorf("locale %q: %w", tag, err)}
		}
		text := string(data)
		entry.Content = &text
		l.Locales[tag] = entry
	}
	return nil
}

// visitedSet tracks canonical interface paths already being resolved, to
// detect circular references.
type visitedSet struct {
	seen map[string]bool
}

func newVisitedSet() *visitedSet { return &visitedSet{seen: map[string]bool{}} }

func (v *visitedSet) enter(path string) (exit func(), cycle bool) {
	if v.seen[path] {
		return func() {}, true
	}
	v.seen[path] = true
	return func() { delete(v.seen, path) }, false
}

// flattenInterfaces recursively loads interface entries and merges their API
// definitions, requiring disjoint top-level keys across the whole set
// (spec.md §9 Open Question #3).
func flattenInterfaces(ctx context.Context, entries []Interface, loader InterfaceLoader, visited *visitedSet) (API, error) {
	if loader == nil {
		return nil, &Error{Kind: KindReference, Err: fmt.Errorf("manifest declares interface entries but no interface loader was supplied")}
	}

	merged := API{}
	for _, e := range entries {
		canonical, err := uri.Resolve(e.ImportURI, e.BaseDir)
		if err != nil {
			// A bare relative import_uri with no base_dir of its own (e.g.
			// one declared at the manifest's own root) is still a valid
			// cycle-detection key; the loader applies its own resolution
			// policy when actually fetching the document.
			canonical = e.BaseDir + "|" + e.ImportURI
		}

		exit, cycle := visited.enter(canonical)
		if cycle {
			return nil, &Error{Kind: KindReference, Err: fmt.Errorf("circular interface reference at %q", canonical)}
		}

		doc, err := loader(ctx, e.ImportURI, e.BaseDir)
		if err != nil {
			exit()
			return nil, &Error{Kind: KindReference, Err: fmt.Errorf("loading interface %q: %w", e.ImportURI, err)}
		}

		if err := mergeDisjoint(merged, doc.API); err != nil {
			exit()
			return nil, err
		}

		if len(doc.Interface) > 0 {
			child, err := flattenInterfaces(ctx, doc.Interface, loader, visited)
			if err != nil {
				exit()
				return nil, err
			}
			if err := mergeDisjoint(merged, child); err != nil {
				exit()
				return nil, err
			}
		}
		exit()
	}
	return merged, nil
}

func mergeDisjoint(into, from API) error {
	for k, v := range from {
		if _, dup := into[k]; dup {
			return &Error{Kind: KindInvariantViolation, Err: fmt.Errorf("interface merge: duplicate API entry %q", k)}
		}
		into[k] = v
	}
	return nil
}

// flattenLocalDependency canonicalizes a LocalDependency's base_dir+path,
// loads its manifest, and copies the type/name/version triple into the
// dependency's cached fields.
func flattenLocalDependency(ctx context.Context, d *Dependency, loader ManifestLoader) error {
	if d.Kind != DependencyLocal || d.Local == nil {
		return nil
	}
	if loader == nil {
		return &Error{Kind: KindReference, Err: fmt.Errorf("local dependency %q requires a manifest loader but none was supplied", d.Local.Path)}
	}
	canonical, err := uri.Resolve(d.Local.Path, d.Local.BaseDir)
	if err != nil {
		return &Error{Kind: KindReference, Err: fmt.Errorf("resolving local dependency %q: %w", d.Local.Path, err)}
	}
	loaded, err := loader(ctx, canonical, d.Local.BaseDir)
	if err != nil {
		return &Error{Kind: KindReference, Err: fmt.Errorf("loading local dependency %q: %w", d.Local.Path, err)}
	}
	d.Local.PkgType = &loaded.Type
	d.Local.Name = &loaded.Name
	d.Local.VersionReq = &loaded.Version
	return nil
}
