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

	"github.com/ten-framework/ten-graph-core/internal/telemetry"
)

// SchemaChecker validates that a message of the given name and category can
// flow from one extension's manifest-declared schema to another's. Callers
// that don't need schema compatibility checking (e.g. tests, or graphs whose
// extensions carry no manifest) may pass a nil SchemaChecker to AddConnection.
type SchemaChecker func(ctx context.Context, srcAddon, destAddon string, t MsgType, name string) error

// AddConnectionRequest describes one connection to add (spec.md §4.6). Names
// must be non-empty; a single name produces a flow with Name set, more than
// one produces a flow with Names set (spec.md §4.6 step 7).
type AddConnectionRequest struct {
	Src           Loc
	Dest          Loc
	MsgType       MsgType
	Names         []string
	MsgConversion json.RawMessage
}

// AddConnection mutates g in place by inserting the requested flow, snapshotting
// g first and rolling back to the snapshot on any failure (spec.md §4.6): both
// endpoints must already exist, the exact (src, dest, type, name) triple must
// not already exist, and — when checker is non-nil and both endpoints are
// extensions — the message must be schema-compatible between the two addons.
func AddConnection(ctx context.Context, g *Graph, req AddConnectionRequest, checker SchemaChecker) error {
	ctx, span := startSpan(ctx, telemetry.SpanAddConnection)
	defer span.end()

	snapshot := g.Clone()
	if err := addConnection(ctx, g, req, checker); err != nil {
		*g = *snapshot
		telemetry.MutationRejections.Add(ctx, 1)
		span.fail(err)
		return err
	}
	return nil
}

func addConnection(ctx context.Context, g *Graph, req AddConnectionRequest, checker SchemaChecker) error {
	if len(req.Names) == 0 {
		return newErr(KindMutation, "", "add_connection requires at least one message name")
	}
	nameKey := flowNamesKey(req.Names)

	names := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.Name()] = n
	}

	if err := g.checkLocExists(req.Src, "src", names); err != nil {
		return newErr(KindMutation, "src", "source location does not resolve: %v", err)
	}
	if err := g.checkLocExists(req.Dest, "dest", names); err != nil {
		return newErr(KindMutation, "dest", "destination location does not resolve: %v", err)
	}

	if checker != nil {
		srcExt, srcOK := resolveExtensionAddon(req.Src, names)
		destExt, destOK := resolveExtensionAddon(req.Dest, names)
		if srcOK && destOK {
			for _, n := range req.Names {
				if err := checker(ctx, srcExt, destExt, req.MsgType, n); err != nil {
					return newErr(KindMutation, "", "schema incompatible between %q and %q: %v", srcExt, destExt, err)
				}
			}
		}
	}

	idx := -1
	for i := range g.Connections {
		if g.Connections[i].Loc.Equal(req.Src) {
			idx = i
			break
		}
	}
	if idx == -1 {
		g.Connections = append(g.Connections, Connection{Loc: req.Src})
		idx = len(g.Connections) - 1
	}
	conn := &g.Connections[idx]
	flows := conn.flowsByType(req.MsgType)

	for _, f := range *flows {
		if f.namesKey() != nameKey {
			continue
		}
		for _, d := range f.Dest {
			if d.Loc.Equal(req.Dest) {
				return newErr(KindMutation, "", "connection %q -> %q for message %q already exists",
					locLabel(req.Src), locLabel(req.Dest), nameKey)
			}
		}
	}

	dest := Destination{Loc: req.Dest, MsgConversion: req.MsgConversion}
	found := false
	for i := range *flows {
		if (*flows)[i].namesKey() == nameKey {
			if err := mergeDestination(&(*flows)[i], dest); err != nil {
				return err
			}
			found = true
			break
		}
	}
	if !found {
		*flows = append(*flows, newFlow(req.Names, dest))
	}

	return g.ValidateAndComplete()
}

// newFlow builds a MessageFlow for names carrying the single destination
// dest: a single name populates Name, more than one populates Names
// (spec.md §4.6 step 7).
func newFlow(names []string, dest Destination) MessageFlow {
	if len(names) == 1 {
		return MessageFlow{Name: strp(names[0]), Dest: []Destination{dest}}
	}
	return MessageFlow{Names: append([]string(nil), names...), Dest: []Destination{dest}}
}

func flowNamesKey(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	key := ""
	for i, n := range names {
		if i > 0 {
			key += "\x00"
		}
		key += n
	}
	return key
}

func resolveExtensionAddon(loc Loc, names map[string]Node) (addon string, ok bool) {
	name, hasName := loc.Name()
	if !hasName {
		return "", false
	}
	if prefix, _, split := splitSubgraphExtension(name); split && !isReservedTenPrefix(prefix) {
		return "", false
	}
	n, exists := names[name]
	if !exists || n.Type != NodeTypeExtension || n.Extension == nil {
		return "", false
	}
	return n.Extension.Addon, true
}

func locLabel(l Loc) string {
	name, ok := l.Name()
	if !ok {
		return "<unresolved>"
	}
	return name
}
