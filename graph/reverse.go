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
	"bytes"
	"context"
	"encoding/json"
)

// convertReversedConnectionsToForward implements spec.md §4.4: it inverts
// flows that declare inbound `source` into forward connections rooted at
// their source, merging duplicates. Returns (nil, nil) if no connection in
// g declares a reversed flow ("no change").
func convertReversedConnectionsToForward(g *Graph) (*Graph, error) {
	_, span := startSpan(context.Background(), telemetrySpanReverse)
	defer span.end()

	if !hasReversedFlow(g.Connections) {
		return nil, nil
	}

	var forward []Connection
	for _, c := range g.Connections {
		kept := Connection{Loc: c.Loc}
		for _, t := range allMsgTypes {
			nonReversed, emitted, err := splitAndEmit(c.Loc, *c.flowsByType(t), t)
			if err != nil {
				span.fail(err)
				return nil, err
			}
			*kept.flowsByType(t) = nonReversed
			forward = append(forward, emitted...)
		}
		if !kept.isEmpty() {
			forward = append(forward, kept)
		}
	}

	merged, err := mergeConnectionsByLoc(forward)
	if err != nil {
		span.fail(err)
		return nil, err
	}

	out := g.Clone()
	out.Connections = merged
	return out, nil
}

func hasReversedFlow(conns []Connection) bool {
	for _, c := range conns {
		for _, t := range allMsgTypes {
			for _, f := range *c.flowsByType(t) {
				if f.isReversed() {
					return true
				}
			}
		}
	}
	return false
}

// splitAndEmit partitions flows of category t on connection origin loc into
// the ones that stay (non-reversed) and a list of new forward connections,
// one per (reversed flow, source) pair, each carrying a single flow whose
// sole destination is loc.
func splitAndEmit(loc Loc, flows []MessageFlow, t MsgType) (kept []MessageFlow, emitted []Connection, err error) {
	for _, f := range flows {
		if !f.isReversed() {
			kept = append(kept, f)
			continue
		}
		for _, src := range f.Source {
			fwd := Connection{Loc: src.Loc}
			*fwd.flowsByType(t) = []MessageFlow{{
				Name:  f.Name,
				Names: append([]string(nil), f.Names...),
				Dest:  []Destination{{Loc: loc}},
			}}
			emitted = append(emitted, fwd)
		}
	}
	return kept, emitted, nil
}

// mergeConnectionsByLoc merges connections sharing the same origin Loc
// (spec.md §4.4 step 3), then, within each merged connection, merges flows
// of equal name per category and dedups destinations — resolving the
// reverse-normalizer's Open Question (spec.md §9 #1): same
// (source, category, name, dest.loc) triples are an error unless their
// msg_conversion is structurally equal.
func mergeConnectionsByLoc(conns []Connection) ([]Connection, error) {
	order := make([]locKey, 0, len(conns))
	byLoc := make(map[locKey]*Connection, len(conns))
	for _, c := range conns {
		k := c.Loc.key()
		existing, ok := byLoc[k]
		if !ok {
			cp := c
			byLoc[k] = &cp
			order = append(order, k)
			continue
		}
		for _, t := range allMsgTypes {
			*existing.flowsByType(t) = append(*existing.flowsByType(t), *c.flowsByType(t)...)
		}
	}

	out := make([]Connection, 0, len(order))
	for _, k := range order {
		c := *byLoc[k]
		for _, t := range allMsgTypes {
			merged, err := mergeFlowsByName(*c.flowsByType(t))
			if err != nil {
				return nil, err
			}
			*c.flowsByType(t) = merged
		}
		out = append(out, c)
	}
	return out, nil
}

// mergeFlowsByName merges flows sharing the same name into one flow,
// deduping destinations by Loc. Two destinations with the same Loc but
// structurally different msg_conversion are a conflict.
func mergeFlowsByName(flows []MessageFlow) ([]MessageFlow, error) {
	order := make([]string, 0, len(flows))
	byName := make(map[string]*MessageFlow, len(flows))
	for _, f := range flows {
		key := f.namesKey()
		existing, ok := byName[key]
		if !ok {
			cp := cloneFlow(f)
			byName[key] = &cp
			order = append(order, key)
			continue
		}
		for _, d := range f.Dest {
			if err := mergeDestination(existing, d); err != nil {
				return nil, err
			}
		}
	}
	out := make([]MessageFlow, 0, len(order))
	for _, k := range order {
		out = append(out, *byName[k])
	}
	return out, nil
}

func mergeDestination(into *MessageFlow, d Destination) error {
	for i, existing := range into.Dest {
		if existing.Loc.Equal(d.Loc) {
			if !conversionsEqual(existing.MsgConversion, d.MsgConversion) {
				name, _ := d.Loc.Name()
				return newErr(KindInvariantViolation, "",
					"conflicting msg_conversion for duplicate destination %q", name)
			}
			into.Dest[i] = existing
			return nil
		}
	}
	into.Dest = append(into.Dest, d)
	return nil
}

func conversionsEqual(a, b json.RawMessage) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return bytes.Equal(a, b)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return bytes.Equal(a, b)
	}
	na, errA := json.Marshal(va)
	nb, errB := json.Marshal(vb)
	if errA != nil || errB != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(na, nb)
}

const telemetrySpanReverse = "graph.convert_reversed_connections"
