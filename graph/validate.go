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
	"fmt"
)

// classifyAppMode inspects every extension node before validating any of
// them (spec.md §9: the classification routine must examine all extension
// nodes before validating any). Returns an error if declarations are mixed.
// A graph whose extension nodes declare no app, or all declare the same one,
// is single-app; two or more distinct app values make it multi-app.
func classifyAppMode(nodes []Node) (appMode, error) {
	apps := make(map[string]bool)
	sawNoApp := false
	for _, n := range nodes {
		if n.Type != NodeTypeExtension || n.Extension == nil {
			continue
		}
		if n.Extension.App != nil {
			apps[*n.Extension.App] = true
		} else {
			sawNoApp = true
		}
	}
	switch {
	case len(apps) > 0 && sawNoApp:
		return 0, newErr(KindInvariantViolation, "nodes",
			"mixed app declaration: some extension nodes declare an explicit app, others do not")
	case len(apps) > 1:
		return appModeMulti, nil
	default:
		return appModeSingle, nil
	}
}

// ValidateAndComplete checks the invariants of spec.md §3.6/§4.3 against the
// current (already-flattened) state of g.
func (g *Graph) ValidateAndComplete() error {
	_, span := startSpan(context.Background(), telemetrySpanValidate)
	defer span.end()

	mode, err := classifyAppMode(g.Nodes)
	if err != nil {
		span.fail(err)
		return err
	}

	names := make(map[string]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		name := n.Name()
		if name == "" {
			err := newErr(KindSchema, fmt.Sprintf("nodes[%d]", i), "node has an empty name")
			span.fail(err)
			return err
		}
		if _, dup := names[name]; dup {
			err := newErr(KindInvariantViolation, fmt.Sprintf("nodes[%d]", i), "duplicate node name %q", name)
			span.fail(err)
			return err
		}
		names[name] = n
		if err := n.validateAndComplete(mode); err != nil {
			span.fail(err)
			return err
		}
	}

	if err := g.validateConnections(names); err != nil {
		span.fail(err)
		return err
	}
	return nil
}

const telemetrySpanValidate = "graph.validate_and_complete"

// validateConnections checks referential integrity, subgraph resolution,
// and uniqueness across g.Connections (spec.md §4.3).
func (g *Graph) validateConnections(names map[string]Node) error {
	for ci, c := range g.Connections {
		base := fmt.Sprintf("connections[%d]", ci)
		if err := g.checkLocExists(c.Loc, base, names); err != nil {
			return err
		}
		for _, t := range allMsgTypes {
			flows := *c.flowsByType(t)
			if err := g.validateFlowCollection(flows, fmt.Sprintf("%s.%s", base, t), names); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateFlowCollection enforces: no two flows share a name, no two
// destinations within one flow share a Loc, and every referenced Loc
// resolves to a declared node (an extension name of the form "prefix:ident"
// resolves when prefix names a declared subgraph node; its exposed messages
// are not consulted).
func (g *Graph) validateFlowCollection(flows []MessageFlow, base string, names map[string]Node) error {
	seenNames := make(map[string]bool, len(flows))
	for fi, f := range flows {
		key := f.namesKey()
		if seenNames[key] {
			return newErr(KindInvariantViolation, fmt.Sprintf("%s[%d]", base, fi),
				"duplicate message flow name %q in this collection", key)
		}
		seenNames[key] = true

		seenDest := make(map[locKey]bool, len(f.Dest))
		for di, d := range f.Dest {
			dk := d.Loc.key()
			if seenDest[dk] {
				return newErr(KindInvariantViolation, fmt.Sprintf("%s[%d].dest[%d]", base, fi, di),
					"duplicate destination within one message flow")
			}
			seenDest[dk] = true
			if err := g.checkLocExists(d.Loc, fmt.Sprintf("%s[%d].dest[%d]", base, fi, di), names); err != nil {
				return err
			}
		}
		for si, s := range f.Source {
			if err := g.checkLocExists(s.Loc, fmt.Sprintf("%s[%d].source[%d]", base, fi, si), names); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkLocExists verifies that loc resolves to a declared node of matching
// kind, applying the subgraph-reference and "ten:" carve-out rules of
// spec.md §3.6/§6.5.
func (g *Graph) checkLocExists(loc Loc, path string, names map[string]Node) error {
	kind, ok := loc.Kind()
	if !ok {
		return newErr(KindSchema, path, "location must set exactly one of extension/subgraph/selector")
	}

	name, _ := loc.Name()

	switch kind {
	case NodeKindExtension:
		if prefix, _, isSplit := splitSubgraphExtension(name); isSplit && !isReservedTenPrefix(prefix) {
			if n, found := names[prefix]; !found || n.Type != NodeTypeSubgraph {
				return newErr(KindInvariantViolation, path,
					"extension %q references undeclared subgraph %q", name, prefix)
			}
			return nil
		}
		if n, found := names[name]; !found || n.Type != NodeTypeExtension {
			return newErr(KindInvariantViolation, path, "no extension node named %q", name)
		}
	case NodeKindSubgraph:
		if n, found := names[name]; !found || n.Type != NodeTypeSubgraph {
			return newErr(KindInvariantViolation, path, "no subgraph node named %q", name)
		}
	case NodeKindSelector:
		if _, found := names[name]; !found {
			return newErr(KindInvariantViolation, path, "no node named %q for selector", name)
		}
	}
	return nil
}
