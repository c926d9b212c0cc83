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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenBasicSubgraph(t *testing.T) {
	outer := &Graph{
		Nodes: []Node{
			NewExtensionNode(ExtensionNode{Name: "ext_a", Addon: "addon_a"}),
			NewSubgraphNode(SubgraphNode{Name: "subgraph_1", SourceURI: "x", Property: json.RawMessage(`{"app_id":"K"}`)}),
		},
		Connections: []Connection{
			{
				Loc: Loc{Extension: strp("ext_a")},
				Cmd: []MessageFlow{{Name: strp("B"), Dest: []Destination{{Loc: Loc{Extension: strp("subgraph_1:ext_d")}}}}},
			},
		},
	}

	loader := func(ctx context.Context, sourceURI string) (*Graph, error) {
		require.Equal(t, "x", sourceURI)
		return &Graph{
			Nodes: []Node{
				NewExtensionNode(ExtensionNode{Name: "ext_c", Addon: "addon_c"}),
				NewExtensionNode(ExtensionNode{Name: "ext_d", Addon: "addon_d"}),
			},
			Connections: []Connection{
				{
					Loc: Loc{Extension: strp("ext_c")},
					Cmd: []MessageFlow{{Name: strp("B"), Dest: []Destination{{Loc: Loc{Extension: strp("ext_d")}}}}},
				},
			},
		}, nil
	}

	flattened, err := outer.Flatten(context.Background(), loader)
	require.NoError(t, err)

	names := make([]string, len(flattened.Nodes))
	for i, n := range flattened.Nodes {
		names[i] = n.Name()
	}
	assert.ElementsMatch(t, []string{"ext_a", "subgraph_1_ext_c", "subgraph_1_ext_d"}, names)

	var extD *ExtensionNode
	for _, n := range flattened.Nodes {
		if n.Name() == "subgraph_1_ext_d" {
			extD = n.Extension
		}
	}
	require.NotNil(t, extD)
	assert.JSONEq(t, `{"app_id":"K"}`, string(extD.Property))

	require.Len(t, flattened.Connections, 2)
	var outerConn, innerConn *Connection
	for i := range flattened.Connections {
		c := &flattened.Connections[i]
		name, _ := c.Loc.Name()
		switch name {
		case "ext_a":
			outerConn = c
		case "subgraph_1_ext_c":
			innerConn = c
		}
	}
	require.NotNil(t, outerConn)
	require.NotNil(t, innerConn)
	require.Len(t, outerConn.Cmd, 1)
	destName, _ := outerConn.Cmd[0].Dest[0].Loc.Name()
	assert.Equal(t, "subgraph_1_ext_d", destName)

	require.Len(t, innerConn.Cmd, 1)
	innerDestName, _ := innerConn.Cmd[0].Dest[0].Loc.Name()
	assert.Equal(t, "subgraph_1_ext_d", innerDestName)

	assert.Nil(t, flattened.ExposedMessages)
	assert.Nil(t, flattened.ExposedProperties)
}

func TestFlattenRejectsNestedSubgraphs(t *testing.T) {
	outer := &Graph{
		Nodes: []Node{
			NewSubgraphNode(SubgraphNode{Name: "outer_sub", SourceURI: "x"}),
		},
	}

	loader := func(ctx context.Context, sourceURI string) (*Graph, error) {
		return &Graph{
			Nodes: []Node{
				NewSubgraphNode(SubgraphNode{Name: "inner_sub", SourceURI: "y"}),
			},
		}, nil
	}

	_, err := outer.Flatten(context.Background(), loader)
	require.Error(t, err)
	assert.Equal(t, KindFlattening, mustKindOf(t, err))
}

func mustKindOf(t *testing.T, err error) Kind {
	t.Helper()
	kind, ok := KindOf(err)
	require.True(t, ok, "expected a *graph.Error")
	return kind
}
