//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package graph

// ExposedMsgType enumerates the public-surface message directions a
// subgraph can expose (spec.md §3.5).
type ExposedMsgType string

// Exposed message type discriminators.
const (
	ExposedCmdIn         ExposedMsgType = "cmd_in"
	ExposedCmdOut        ExposedMsgType = "cmd_out"
	ExposedDataIn        ExposedMsgType = "data_in"
	ExposedDataOut       ExposedMsgType = "data_out"
	ExposedAudioFrameIn  ExposedMsgType = "audio_frame_in"
	ExposedAudioFrameOut ExposedMsgType = "audio_frame_out"
	ExposedVideoFrameIn  ExposedMsgType = "video_frame_in"
	ExposedVideoFrameOut ExposedMsgType = "video_frame_out"
)

// ExposedMessage is one entry of a subgraph's public message surface.
type ExposedMessage struct {
	MsgType   ExposedMsgType `json:"msg_type"`
	Name      string         `json:"name"`
	Extension *string        `json:"extension,omitempty"`
}

// ExposedProperty is one entry of a subgraph's public property surface.
type ExposedProperty struct {
	Extension    string `json:"extension"`
	PropertyName string `json:"property_name"`
}

// outExposedType maps a message category, on the source (origin) side, to
// its exposed-message direction ("…Out").
func outExposedType(t MsgType) ExposedMsgType {
	switch t {
	case MsgTypeCmd:
		return ExposedCmdOut
	case MsgTypeData:
		return ExposedDataOut
	case MsgTypeAudioFrame:
		return ExposedAudioFrameOut
	case MsgTypeVideoFrame:
		return ExposedVideoFrameOut
	default:
		return ""
	}
}

// inExposedType maps a message category, on the destination side, to its
// exposed-message direction ("…In").
func inExposedType(t MsgType) ExposedMsgType {
	switch t {
	case MsgTypeCmd:
		return ExposedCmdIn
	case MsgTypeData:
		return ExposedDataIn
	case MsgTypeAudioFrame:
		return ExposedAudioFrameIn
	case MsgTypeVideoFrame:
		return ExposedVideoFrameIn
	default:
		return ""
	}
}
