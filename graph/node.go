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
	"encoding/json"
	"fmt"
	"strings"
)

// NodeType discriminates the two node variants a Graph can contain.
type NodeType string

// Node type discriminators, matching the "type" field of the canonical
// graph JSON (spec.md §6.1).
const (
	NodeTypeExtension NodeType = "extension"
	NodeTypeSubgraph  NodeType = "subgraph"
)

// tenPrefix is the reserved extension-name prefix ("ten:ident") that
// designates a built-in extension and bypasses subgraph-reference
// validation (spec.md §6.5).
const tenPrefix = "ten"

// ExtensionNode is a user-defined processing node.
type ExtensionNode struct {
	Name           string          `json:"name"`
	Addon          string          `json:"addon"`
	ExtensionGroup *string         `json:"extension_group,omitempty"`
	App            *string         `json:"app,omitempty"`
	Property       json.RawMessage `json:"property,omitempty"`
}

// SubgraphNode embeds another graph document by reference; it disappears
// after Graph.Flatten.
type SubgraphNode struct {
	Name      string          `json:"name"`
	Property  json.RawMessage `json:"property,omitempty"`
	SourceURI string          `json:"source_uri"`
}

// Node is a tagged union over ExtensionNode and SubgraphNode. Exactly one of
// Extension/Subgraph is populated, selected by Type.
type Node struct {
	Type      NodeType
	Extension *ExtensionNode
	Subgraph  *SubgraphNode
}

// NewExtensionNode builds a Node wrapping an ExtensionNode.
func NewExtensionNode(n ExtensionNode) Node {
	return Node{Type: NodeTypeExtension, Extension: &n}
}

// NewSubgraphNode builds a Node wrapping a SubgraphNode.
func NewSubgraphNode(n SubgraphNode) Node {
	return Node{Type: NodeTypeSubgraph, Subgraph: &n}
}

// Name returns the node's name regardless of variant.
func (n Node) Name() string {
	if n.Type == NodeTypeExtension && n.Extension != nil {
		return n.Extension.Name
	}
	if n.Type == NodeTypeSubgraph && n.Subgraph != nil {
		return n.Subgraph.Name
	}
	return ""
}

type nodeWire struct {
	Type           NodeType        `json:"type"`
	Name           string          `json:"name"`
	Addon          string          `json:"addon,omitempty"`
	ExtensionGroup *string         `json:"extension_group,omitempty"`
	App            *string         `json:"app,omitempty"`
	Property       json.RawMessage `json:"property,omitempty"`
	SourceURI      string          `json:"source_uri,omitempty"`
}

// MarshalJSON renders a Node as its "type"-discriminated wire form.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case NodeTypeExtension:
		if n.Extension == nil {
			return nil, fmt.Errorf("graph: extension node with nil content")
		}
		return json.Marshal(nodeWire{
			Type: NodeTypeExtension, Name: n.Extension.Name, Addon: n.Extension.Addon,
			ExtensionGroup: n.Extension.ExtensionGroup, App: n.Extension.App,
			Property: n.Extension.Property,
		})
	case NodeTypeSubgraph:
		if n.Subgraph == nil {
			return nil, fmt.Errorf("graph: subgraph node with nil content")
		}
		return json.Marshal(nodeWire{
			Type: NodeTypeSubgraph, Name: n.Subgraph.Name,
			Property: n.Subgraph.Property, SourceURI: n.Subgraph.SourceURI,
		})
	default:
		return nil, fmt.Errorf("graph: node %q has unknown type", n.Name())
	}
}

// UnmarshalJSON parses a Node from its "type"-discriminated wire form.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return &Error{Kind: KindSchema, Err: err}
	}
	switch w.Type {
	case NodeTypeExtension:
		*n = NewExtensionNode(ExtensionNode{
			Name: w.Name, Addon: w.Addon, ExtensionGroup: w.ExtensionGroup,
			App: w.App, Property: w.Property,
		})
	case NodeTypeSubgraph:
		if w.SourceURI == "" {
			return newErr(KindSchema, "", "subgraph node %q missing source_uri", w.Name)
		}
		*n = NewSubgraphNode(SubgraphNode{Name: w.Name, Property: w.Property, SourceURI: w.SourceURI})
	default:
		return newErr(KindSchema, "", "node %q has unknown type %q", w.Name, w.Type)
	}
	return nil
}

// validateAndComplete enforces the per-node app-URI rules of spec.md §3.1:
// "localhost" is never a valid explicit app value, in either declaration
// mode.
func (n *Node) validateAndComplete(mode appMode) error {
	if n.Type != NodeTypeExtension || n.Extension == nil || n.Extension.App == nil {
		return nil
	}
	if *n.Extension.App == localhost {
		if mode == appModeSingle {
			return newErr(KindInvariantViolation, "",
				"node %q: \"localhost\" is forbidden as an explicit app value in single-app mode", n.Extension.Name)
		}
		return newErr(KindInvariantViolation, "",
			"node %q: \"localhost\" is forbidden as an explicit app value in multi-app mode", n.Extension.Name)
	}
	return nil
}

// splitSubgraphExtension splits an extension name of the form "prefix:ident"
// into its parts. ok is false unless name contains exactly one ':'.
func splitSubgraphExtension(name string) (prefix, ident string, ok bool) {
	parts := strings.Split(name, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// isReservedTenPrefix reports whether prefix is the reserved "ten" builtin
// marker (spec.md §6.5), which bypasses subgraph-reference validation.
func isReservedTenPrefix(prefix string) bool { return prefix == tenPrefix }
