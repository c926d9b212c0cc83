//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package graph implements the TEN graph data model and the transformation
// algorithms that validate, flatten, and mutate it.
package graph

import (
	"errors"
	"fmt"
)

// Kind classifies a graph operation failure.
type Kind int

// Error kinds, per the fault taxonomy every core operation reports through.
const (
	// KindSchema marks malformed JSON or a missing required field.
	KindSchema Kind = iota
	// KindInvariantViolation marks a broken structural invariant: duplicate
	// node name, missing referenced node, undeclared subgraph, explicit
	// "localhost", mixed app-declaration mode, duplicate destination.
	KindInvariantViolation
	// KindReference marks a bad import_uri, missing file, or failed fetch.
	KindReference
	// KindFlattening marks a subgraph-flattening failure.
	KindFlattening
	// KindMutation marks a rejected graph mutation.
	KindMutation
	// KindIOFault marks an underlying I/O failure not covered above.
	KindIOFault
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "SchemaError"
	case KindInvariantViolation:
		return "InvariantViolation"
	case KindReference:
		return "ReferenceError"
	case KindFlattening:
		return "FlatteningError"
	case KindMutation:
		return "MutationError"
	case KindIOFault:
		return "IOFault"
	default:
		return "UnknownError"
	}
}

// Error is the error type returned across the graph package's API boundary.
// Path, when set, quotes the offending index path (e.g.
// "connections[2].cmd[0].dest[1]") so callers can locate the faulty element
// without re-walking the graph.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// newErr builds an *Error, wrapping msg (formatted like fmt.Errorf) under
// kind, with an optional index path.
func newErr(kind Kind, path string, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the Kind of err if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
