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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTwoExtensionGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			NewExtensionNode(ExtensionNode{Name: "a", Addon: "addon_a"}),
			NewExtensionNode(ExtensionNode{Name: "b", Addon: "addon_b"}),
		},
	}
}

func TestAddConnectionInsertsNewFlow(t *testing.T) {
	g := baseTwoExtensionGraph()
	req := AddConnectionRequest{
		Src: Loc{Extension: strp("a")}, Dest: Loc{Extension: strp("b")},
		MsgType: MsgTypeCmd, Names: []string{"X"},
	}
	require.NoError(t, AddConnection(context.Background(), g, req, nil))
	require.Len(t, g.Connections, 1)
	assert.Equal(t, "X", *g.Connections[0].Cmd[0].Name)
}

func TestAddConnectionMultipleNamesSetsNamesField(t *testing.T) {
	g := baseTwoExtensionGraph()
	req := AddConnectionRequest{
		Src: Loc{Extension: strp("a")}, Dest: Loc{Extension: strp("b")},
		MsgType: MsgTypeCmd, Names: []string{"X", "Y"},
	}
	require.NoError(t, AddConnection(context.Background(), g, req, nil))
	require.Len(t, g.Connections, 1)
	require.Len(t, g.Connections[0].Cmd, 1)
	assert.Nil(t, g.Connections[0].Cmd[0].Name)
	assert.Equal(t, []string{"X", "Y"}, g.Connections[0].Cmd[0].Names)
}

func TestAddConnectionRejectsEmptyNames(t *testing.T) {
	g := baseTwoExtensionGraph()
	snapshot := g.Clone()
	req := AddConnectionRequest{
		Src: Loc{Extension: strp("a")}, Dest: Loc{Extension: strp("b")},
		MsgType: MsgTypeCmd,
	}
	err := AddConnection(context.Background(), g, req, nil)
	require.Error(t, err)
	assertGraphsEqual(t, snapshot, g)
}

func TestAddConnectionRejectsDuplicateAndRollsBack(t *testing.T) {
	g := baseTwoExtensionGraph()
	req := AddConnectionRequest{
		Src: Loc{Extension: strp("a")}, Dest: Loc{Extension: strp("b")},
		MsgType: MsgTypeCmd, Names: []string{"X"},
	}
	require.NoError(t, AddConnection(context.Background(), g, req, nil))
	snapshot := g.Clone()

	err := AddConnection(context.Background(), g, req, nil)
	require.Error(t, err)
	assert.Equal(t, KindMutation, mustKindOf(t, err))
	assertGraphsEqual(t, snapshot, g)
}

func TestAddConnectionRejectsUnknownEndpoint(t *testing.T) {
	g := baseTwoExtensionGraph()
	snapshot := g.Clone()
	req := AddConnectionRequest{
		Src: Loc{Extension: strp("a")}, Dest: Loc{Extension: strp("ghost")},
		MsgType: MsgTypeCmd, Names: []string{"X"},
	}
	err := AddConnection(context.Background(), g, req, nil)
	require.Error(t, err)
	assertGraphsEqual(t, snapshot, g)
}

func TestAddConnectionSchemaCheckerRejection(t *testing.T) {
	g := baseTwoExtensionGraph()
	snapshot := g.Clone()
	checker := func(ctx context.Context, srcAddon, destAddon string, t2 MsgType, name string) error {
		return assert.AnError
	}
	req := AddConnectionRequest{
		Src: Loc{Extension: strp("a")}, Dest: Loc{Extension: strp("b")},
		MsgType: MsgTypeCmd, Names: []string{"X"},
	}
	err := AddConnection(context.Background(), g, req, checker)
	require.Error(t, err)
	assert.Equal(t, KindMutation, mustKindOf(t, err))
	assertGraphsEqual(t, snapshot, g)
}

func assertGraphsEqual(t *testing.T, want, got *Graph) {
	t.Helper()
	assert.Equal(t, want.Nodes, got.Nodes)
	assert.Equal(t, want.Connections, got.Connections)
}
