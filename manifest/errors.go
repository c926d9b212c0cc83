//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package manifest

import (
	"errors"
	"fmt"
)

// Kind classifies a manifest operation failure, mirroring the graph
// package's fault taxonomy (spec.md §7).
type Kind int

// Error kinds.
const (
	KindSchema Kind = iota
	KindInvariantViolation
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "SchemaError"
	case KindInvariantViolation:
		return "InvariantViolation"
	case KindReference:
		return "ReferenceError"
	default:
		return "UnknownError"
	}
}

// Error is the error type returned across the manifest package's API
// boundary.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
