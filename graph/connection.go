//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package graph

// Connection groups the message flows originating at one Loc, split by
// category.
type Connection struct {
	Loc         Loc           `json:"loc"`
	Cmd         []MessageFlow `json:"cmd,omitempty"`
	Data        []MessageFlow `json:"data,omitempty"`
	AudioFrame  []MessageFlow `json:"audio_frame,omitempty"`
	VideoFrame  []MessageFlow `json:"video_frame,omitempty"`
}

// flowsByType returns a pointer to the flow collection for the given
// category, so callers can read and mutate the same slice field.
func (c *Connection) flowsByType(t MsgType) *[]MessageFlow {
	switch t {
	case MsgTypeCmd:
		return &c.Cmd
	case MsgTypeData:
		return &c.Data
	case MsgTypeAudioFrame:
		return &c.AudioFrame
	case MsgTypeVideoFrame:
		return &c.VideoFrame
	default:
		return nil
	}
}

// isEmpty reports whether c carries no flows in any category.
func (c *Connection) isEmpty() bool {
	return len(c.Cmd) == 0 && len(c.Data) == 0 && len(c.AudioFrame) == 0 && len(c.VideoFrame) == 0
}

// cloneConnection returns a deep-enough copy of c safe to mutate
// independently of the original.
func cloneConnection(c Connection) Connection {
	out := c
	for _, t := range allMsgTypes {
		src := *c.flowsByType(t)
		if src == nil {
			continue
		}
		dst := make([]MessageFlow, len(src))
		for i, f := range src {
			dst[i] = cloneFlow(f)
		}
		*out.flowsByType(t) = dst
	}
	return out
}

// cloneGraphConnections deep-copies a connection slice.
func cloneGraphConnections(cs []Connection) []Connection {
	if cs == nil {
		return nil
	}
	out := make([]Connection, len(cs))
	for i, c := range cs {
		out[i] = cloneConnection(c)
	}
	return out
}
