//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package graph

import "encoding/json"

// MsgType is the category a message flow belongs to.
type MsgType string

// The four message categories a Connection can carry.
const (
	MsgTypeCmd        MsgType = "cmd"
	MsgTypeData       MsgType = "data"
	MsgTypeAudioFrame MsgType = "audio_frame"
	MsgTypeVideoFrame MsgType = "video_frame"
)

// allMsgTypes lists the four categories in their canonical, stable order.
var allMsgTypes = []MsgType{MsgTypeCmd, MsgTypeData, MsgTypeAudioFrame, MsgTypeVideoFrame}

// Destination is one recipient of a message flow, with an optional
// conversion bridging the source message to the destination's schema.
type Destination struct {
	Loc           Loc             `json:"loc"`
	MsgConversion json.RawMessage `json:"msg_conversion,omitempty"`
}

// Source is one declared origin of a reversed message flow.
type Source struct {
	Loc Loc `json:"loc"`
}

// MessageFlow is a named (or multi-named) channel within one message
// category. Exactly one of Name/Names is populated.
type MessageFlow struct {
	Name   *string       `json:"name,omitempty"`
	Names  []string      `json:"names,omitempty"`
	Dest   []Destination `json:"dest"`
	Source []Source      `json:"source,omitempty"`
}

// names returns the flow's message name(s) as a slice, regardless of which
// of Name/Names was populated.
func (f MessageFlow) names() []string {
	if f.Name != nil {
		return []string{*f.Name}
	}
	return f.Names
}

// namesKey returns a stable string identifying which message name(s) this
// flow carries, used to detect duplicate flows within a collection
// (spec.md §3.4: flows with the same name must be merged into one).
func (f MessageFlow) namesKey() string {
	ns := f.names()
	if len(ns) == 1 {
		return ns[0]
	}
	key := ""
	for i, n := range ns {
		if i > 0 {
			key += "\x00"
		}
		key += n
	}
	return key
}

func (f MessageFlow) isReversed() bool { return len(f.Source) > 0 }

// cloneFlow returns a deep-enough copy of f safe to mutate independently.
func cloneFlow(f MessageFlow) MessageFlow {
	out := f
	out.Dest = append([]Destination(nil), f.Dest...)
	out.Source = append([]Source(nil), f.Source...)
	if f.Names != nil {
		out.Names = append([]string(nil), f.Names...)
	}
	return out
}
