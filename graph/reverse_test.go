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

func TestConvertReversedConnectionsSingleFlow(t *testing.T) {
	g := &Graph{
		Connections: []Connection{
			{
				Loc: Loc{Extension: strp("some_extension")},
				Cmd: []MessageFlow{{Name: strp("hello"), Source: []Source{{Loc: Loc{Extension: strp("another_ext")}}}}},
			},
		},
	}

	out, err := convertReversedConnectionsToForward(g)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Len(t, out.Connections, 1)

	c := out.Connections[0]
	name, _ := c.Loc.Name()
	assert.Equal(t, "another_ext", name)
	require.Len(t, c.Cmd, 1)
	assert.Equal(t, "hello", *c.Cmd[0].Name)
	assert.Empty(t, c.Cmd[0].Source)
	require.Len(t, c.Cmd[0].Dest, 1)
	destName, _ := c.Cmd[0].Dest[0].Loc.Name()
	assert.Equal(t, "some_extension", destName)
}

func TestConvertReversedConnectionsMergesDuplicates(t *testing.T) {
	g := &Graph{
		Connections: []Connection{
			{
				Loc: Loc{Extension: strp("some_extension")},
				Cmd: []MessageFlow{{Name: strp("hello"), Source: []Source{{Loc: Loc{Extension: strp("another_ext")}}}}},
			},
			{
				Loc: Loc{Extension: strp("some_extension")},
				Cmd: []MessageFlow{{Name: strp("hello"), Source: []Source{{Loc: Loc{Extension: strp("another_ext")}}}}},
			},
		},
	}

	out, err := convertReversedConnectionsToForward(g)
	require.NoError(t, err)
	require.Len(t, out.Connections, 1)

	c := out.Connections[0]
	require.Len(t, c.Cmd, 1)
	require.Len(t, c.Cmd[0].Dest, 1)
}

func TestConvertReversedConnectionsNoChangeWhenAlreadyForward(t *testing.T) {
	g := &Graph{
		Connections: []Connection{
			{
				Loc: Loc{Extension: strp("a")},
				Cmd: []MessageFlow{{Name: strp("hello"), Dest: []Destination{{Loc: Loc{Extension: strp("b")}}}}},
			},
		},
	}

	out, err := convertReversedConnectionsToForward(g)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestConvertReversedConnectionsConflictingConversionErrors(t *testing.T) {
	g := &Graph{
		Connections: []Connection{
			{
				Loc: Loc{Extension: strp("some_extension")},
				Cmd: []MessageFlow{{
					Name:   strp("hello"),
					Source: []Source{{Loc: Loc{Extension: strp("another_ext")}}},
				}},
			},
		},
	}
	// Manually craft a second forward flow with the same dest but a
	// conflicting msg_conversion, bypassing the reversed-source path to
	// exercise mergeDestination directly.
	into := &MessageFlow{Name: strp("hello"), Dest: []Destination{
		{Loc: Loc{Extension: strp("some_extension")}, MsgConversion: []byte(`{"a":1}`)},
	}}
	err := mergeDestination(into, Destination{Loc: Loc{Extension: strp("some_extension")}, MsgConversion: []byte(`{"a":2}`)})
	require.Error(t, err)
	assert.Equal(t, KindInvariantViolation, mustKindOf(t, err))

	_, err = convertReversedConnectionsToForward(g)
	require.NoError(t, err)
}
