//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package graph

// localhost is the internal sentinel for "the default, unnamed app". It must
// never appear as an explicit value in a Loc.App field supplied by a caller.
const localhost = "localhost"

// Loc identifies the endpoint of a flow: an app plus exactly one of
// extension, subgraph, or selector.
type Loc struct {
	App       *string `json:"app,omitempty"`
	Extension *string `json:"extension,omitempty"`
	Subgraph  *string `json:"subgraph,omitempty"`
	Selector  *string `json:"selector,omitempty"`
}

// NodeKind is the kind of node a Loc resolves to, derived from which of
// Extension/Subgraph/Selector is populated.
type NodeKind int

// Node kinds a Loc can resolve to.
const (
	NodeKindUnknown NodeKind = iota
	NodeKindExtension
	NodeKindSubgraph
	NodeKindSelector
)

// Kind reports which node kind this Loc identifies, and whether exactly one
// of {Extension, Subgraph, Selector} was set (ok is false otherwise).
func (l Loc) Kind() (kind NodeKind, ok bool) {
	count := 0
	if l.Extension != nil {
		kind, count = NodeKindExtension, count+1
	}
	if l.Subgraph != nil {
		kind, count = NodeKindSubgraph, count+1
	}
	if l.Selector != nil {
		kind, count = NodeKindSelector, count+1
	}
	if count != 1 {
		return NodeKindUnknown, false
	}
	return kind, true
}

// Name returns the non-empty identifier field of the Loc (extension,
// subgraph, or selector name) and true, or "", false if none is set.
func (l Loc) Name() (string, bool) {
	switch {
	case l.Extension != nil:
		return *l.Extension, true
	case l.Subgraph != nil:
		return *l.Subgraph, true
	case l.Selector != nil:
		return *l.Selector, true
	default:
		return "", false
	}
}

// AppOrDefault returns the app URI, or the localhost sentinel when App is
// nil, for use as a map key when merging/deduplicating locations.
func (l Loc) AppOrDefault() string {
	if l.App == nil {
		return localhost
	}
	return *l.App
}

// locKey is a comparable value carrying the same information as a Loc, used
// as a map key for exact Loc equality (the "full quad" equality spec.md
// §4.4 step 3 requires for merging connections). A Loc itself is not a safe
// map key: its fields are pointers, so two structurally-equal Locs compare
// unequal as map keys unless normalized to a by-value form first.
type locKey struct {
	app, extension, subgraph, selector string
	hasApp, hasExt, hasSub, hasSel     bool
}

func (l Loc) key() locKey {
	k := locKey{}
	if l.App != nil {
		k.app, k.hasApp = *l.App, true
	}
	if l.Extension != nil {
		k.extension, k.hasExt = *l.Extension, true
	}
	if l.Subgraph != nil {
		k.subgraph, k.hasSub = *l.Subgraph, true
	}
	if l.Selector != nil {
		k.selector, k.hasSel = *l.Selector, true
	}
	return k
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Equal reports whether two Locs reference the same endpoint.
func (l Loc) Equal(o Loc) bool {
	return strPtrEq(l.App, o.App) && strPtrEq(l.Extension, o.Extension) &&
		strPtrEq(l.Subgraph, o.Subgraph) && strPtrEq(l.Selector, o.Selector)
}

func strp(s string) *string { return &s }
