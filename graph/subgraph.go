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
	"encoding/json"
	"fmt"

	"github.com/ten-framework/ten-graph-core/internal/telemetry"
)

// loadedSubgraph is what Flatten keeps, per subgraph node, for the
// connection-rewriting passes that follow node flattening.
type loadedSubgraph struct {
	node  SubgraphNode
	graph *Graph
}

// Flatten implements spec.md §4.5: it inlines every SubgraphNode's
// constituent extensions (name-prefixed) and connections into a pure
// extension graph, and drops exposed_messages/exposed_properties.
func (g *Graph) Flatten(ctx context.Context, loader SubgraphLoader) (*Graph, error) {
	ctx, span := startSpan(ctx, telemetrySpanFlatten)
	defer span.end()
	telemetry.FlattenTotal.Add(ctx, 1)

	var flatNodes []Node
	var flatConns []Connection
	loaded := make(map[string]loadedSubgraph)

	for _, n := range g.Nodes {
		switch n.Type {
		case NodeTypeExtension:
			flatNodes = append(flatNodes, n)
		case NodeTypeSubgraph:
			sub, err := flattenSubgraphNode(ctx, *n.Subgraph, loader, &flatNodes, &flatConns)
			if err != nil {
				span.fail(err)
				return nil, err
			}
			loaded[n.Subgraph.Name] = sub
		}
	}

	for ci, c := range g.Connections {
		rewritten, err := rewriteOuterConnection(c, loaded, fmt.Sprintf("connections[%d]", ci))
		if err != nil {
			span.fail(err)
			return nil, err
		}
		flatConns = append(flatConns, rewritten)
	}

	return &Graph{Nodes: flatNodes, Connections: flatConns}, nil
}

const telemetrySpanFlatten = "graph.flatten"

// flattenSubgraphNode loads node's referenced graph, rejects nested
// subgraphs, and appends its prefixed extensions/connections to the
// accumulators.
func flattenSubgraphNode(
	ctx context.Context, node SubgraphNode, loader SubgraphLoader,
	flatNodes *[]Node, flatConns *[]Connection,
) (loadedSubgraph, error) {
	if node.SourceURI == "" {
		return loadedSubgraph{}, newErr(KindFlattening, "", "subgraph node %q must have source_uri", node.Name)
	}
	if loader == nil {
		return loadedSubgraph{}, newErr(KindFlattening, "",
			"subgraph node %q requires a subgraph loader but none was supplied", node.Name)
	}

	sub, err := loader(ctx, node.SourceURI)
	if err != nil {
		return loadedSubgraph{}, &Error{Kind: KindReference, Err: fmt.Errorf("loading subgraph %q: %w", node.Name, err)}
	}

	for _, sn := range sub.Nodes {
		if sn.Type != NodeTypeExtension {
			return loadedSubgraph{}, newErr(KindFlattening, "",
				"nested subgraphs are not supported (subgraph %q)", node.Name)
		}
		prefixed := *sn.Extension
		prefixed.Name = node.Name + "_" + sn.Extension.Name
		prefixed.Property = mergeProperty(sn.Extension.Property, node.Property)
		*flatNodes = append(*flatNodes, NewExtensionNode(prefixed))
	}

	for _, c := range sub.Connections {
		rewritten := cloneConnection(c)
		prefixLoc(&rewritten.Loc, node.Name)
		for _, t := range allMsgTypes {
			prefixDestinations(*rewritten.flowsByType(t), node.Name)
		}
		*flatConns = append(*flatConns, rewritten)
	}

	return loadedSubgraph{node: node, graph: sub}, nil
}

// mergeProperty overlays ref (the subgraph-node property) onto base (the
// inner extension's own property): top-level keys of a JSON object in ref
// override those in base; any non-object shape is a full overwrite
// (spec.md §4.5 step 1).
func mergeProperty(base, ref json.RawMessage) json.RawMessage {
	if len(ref) == 0 {
		return base
	}
	if len(base) == 0 {
		return ref
	}
	var baseObj, refObj map[string]json.RawMessage
	if err := json.Unmarshal(base, &baseObj); err != nil {
		return ref
	}
	if err := json.Unmarshal(ref, &refObj); err != nil {
		return ref
	}
	for k, v := range refObj {
		baseObj[k] = v
	}
	out, err := json.Marshal(baseObj)
	if err != nil {
		return ref
	}
	return out
}

// prefixLoc rewrites an inner connection's origin extension/subgraph name
// with the enclosing subgraph node's name prefix.
func prefixLoc(loc *Loc, prefix string) {
	if loc.Extension != nil {
		loc.Extension = strp(prefix + "_" + *loc.Extension)
	}
	if loc.Subgraph != nil {
		loc.Subgraph = strp(prefix + "_" + *loc.Subgraph)
	}
}

func prefixDestinations(flows []MessageFlow, prefix string) {
	for i := range flows {
		for j := range flows[i].Dest {
			prefixLoc(&flows[i].Dest[j].Loc, prefix)
		}
	}
}

// rewriteOuterConnection applies the ":"-notation and loc.subgraph rewrites
// of spec.md §4.5 step 3 to one connection of the outer graph.
func rewriteOuterConnection(c Connection, loaded map[string]loadedSubgraph, path string) (Connection, error) {
	out := cloneConnection(c)
	rewriteColonLoc(&out.Loc)

	for _, t := range allMsgTypes {
		flows := *out.flowsByType(t)
		if err := resolveSubgraphOrigin(&out.Loc, flows, t, loaded, fmt.Sprintf("%s.%s", path, t)); err != nil {
			return Connection{}, err
		}
		for fi := range flows {
			for di := range flows[fi].Dest {
				d := &flows[fi].Dest[di]
				rewriteColonLoc(&d.Loc)
				if err := resolveSubgraphDestination(&d.Loc, inExposedType(t), flows[fi].namesKey(), loaded,
					fmt.Sprintf("%s[%d].dest[%d]", path, fi, di)); err != nil {
					return Connection{}, err
				}
			}
		}
	}
	return out, nil
}

// rewriteColonLoc rewrites an extension name of the form "prefix:ident"
// (other than the reserved "ten" builtin marker) to "prefix_ident".
func rewriteColonLoc(loc *Loc) {
	if loc.Extension != nil {
		if prefix, ident, ok := splitSubgraphExtension(*loc.Extension); ok && !isReservedTenPrefix(prefix) {
			loc.Extension = strp(prefix + "_" + ident)
		}
	}
}

// resolveSubgraphOrigin resolves a connection's loc.subgraph (when set)
// through the loaded subgraph's exposed_messages, on the source side.
func resolveSubgraphOrigin(loc *Loc, flows []MessageFlow, t MsgType, loaded map[string]loadedSubgraph, path string) error {
	if loc.Subgraph == nil || len(flows) == 0 {
		return nil
	}
	ext, err := resolveExposed(*loc.Subgraph, flows, outExposedType(t), loaded, path)
	if err != nil {
		return err
	}
	loc.Extension = strp(*loc.Subgraph + "_" + ext)
	loc.Subgraph = nil
	return nil
}

// resolveSubgraphDestination resolves a single destination's loc.subgraph
// through the loaded subgraph's exposed_messages, on the destination side.
func resolveSubgraphDestination(loc *Loc, wantType ExposedMsgType, name string, loaded map[string]loadedSubgraph, path string) error {
	if loc.Subgraph == nil {
		return nil
	}
	ext, err := resolveExposedOne(*loc.Subgraph, name, wantType, loaded, path)
	if err != nil {
		return err
	}
	loc.Extension = strp(*loc.Subgraph + "_" + ext)
	loc.Subgraph = nil
	return nil
}

// resolveExposed implements spec.md §4.5 step 3's "use only the first flow
// per category" rule, additionally enforcing the homogeneity this spec
// recommends (§9 Open Question #2): every flow in the category must
// resolve to the same extension, or it's a fatal error.
func resolveExposed(subgraphName string, flows []MessageFlow, wantType ExposedMsgType, loaded map[string]loadedSubgraph, path string) (string, error) {
	first, err := resolveExposedOne(subgraphName, flows[0].namesKey(), wantType, loaded, path)
	if err != nil {
		return "", err
	}
	for _, f := range flows[1:] {
		ext, err := resolveExposedOne(subgraphName, f.namesKey(), wantType, loaded, path)
		if err != nil {
			return "", err
		}
		if ext != first {
			return "", newErr(KindFlattening, path,
				"subgraph %q exposes heterogeneous extensions within one message category", subgraphName)
		}
	}
	return first, nil
}

// resolveExposedOne looks up the single exposed_messages entry matching
// (wantType, name) within the subgraph named subgraphName.
func resolveExposedOne(subgraphName, name string, wantType ExposedMsgType, loaded map[string]loadedSubgraph, path string) (string, error) {
	sub, ok := loaded[subgraphName]
	if !ok {
		return "", newErr(KindFlattening, path, "no loaded subgraph named %q", subgraphName)
	}
	if sub.graph.ExposedMessages == nil {
		return "", newErr(KindFlattening, path, "subgraph %q has no exposed_messages", subgraphName)
	}
	for _, em := range sub.graph.ExposedMessages {
		if em.MsgType == wantType && em.Name == name {
			if em.Extension == nil || *em.Extension == "" {
				return "", newErr(KindFlattening, path,
					"subgraph %q exposed message %q has no extension", subgraphName, name)
			}
			return *em.Extension, nil
		}
	}
	return "", newErr(KindFlattening, path,
		"subgraph %q has no exposed message matching (%s, %q)", subgraphName, wantType, name)
}
