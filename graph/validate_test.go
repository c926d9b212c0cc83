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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsLocalhostInSingleAppMode(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			NewExtensionNode(ExtensionNode{Name: "ext_a", Addon: "addon_a", App: strp(localhost)}),
		},
	}

	err := g.ValidateAndComplete()
	require.Error(t, err)
	assert.Equal(t, KindInvariantViolation, mustKindOf(t, err))
	assert.Contains(t, err.Error(), "single-app mode")
}

func TestValidateRejectsMixedAppDeclaration(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			NewExtensionNode(ExtensionNode{Name: "ext_a", Addon: "addon_a", App: strp("http://localhost:1")}),
			NewExtensionNode(ExtensionNode{Name: "ext_b", Addon: "addon_b"}),
		},
	}

	err := g.ValidateAndComplete()
	require.Error(t, err)
	assert.Equal(t, KindInvariantViolation, mustKindOf(t, err))
}

func TestValidateRejectsDuplicateNodeName(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			NewExtensionNode(ExtensionNode{Name: "ext_a", Addon: "addon_a"}),
			NewExtensionNode(ExtensionNode{Name: "ext_a", Addon: "addon_b"}),
		},
	}
	err := g.ValidateAndComplete()
	require.Error(t, err)
	assert.Equal(t, KindInvariantViolation, mustKindOf(t, err))
}

func TestValidateRejectsMissingConnectionEndpoint(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			NewExtensionNode(ExtensionNode{Name: "ext_a", Addon: "addon_a"}),
		},
		Connections: []Connection{
			{
				Loc: Loc{Extension: strp("ext_a")},
				Cmd: []MessageFlow{{Name: strp("B"), Dest: []Destination{{Loc: Loc{Extension: strp("ext_missing")}}}}},
			},
		},
	}
	err := g.ValidateAndComplete()
	require.Error(t, err)
	assert.Equal(t, KindInvariantViolation, mustKindOf(t, err))
}

func TestValidateAcceptsWellFormedGraph(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			NewExtensionNode(ExtensionNode{Name: "ext_a", Addon: "addon_a"}),
			NewExtensionNode(ExtensionNode{Name: "ext_b", Addon: "addon_b"}),
		},
		Connections: []Connection{
			{
				Loc: Loc{Extension: strp("ext_a")},
				Cmd: []MessageFlow{{Name: strp("B"), Dest: []Destination{{Loc: Loc{Extension: strp("ext_b")}}}}},
			},
		},
	}
	assert.NoError(t, g.ValidateAndComplete())
}
