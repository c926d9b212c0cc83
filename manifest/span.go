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
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ten-framework/ten-graph-core/internal/telemetry"
)

type opSpan struct{ span trace.Span }

func startSpan(ctx context.Context, name string) (context.Context, opSpan) {
	ctx, span := telemetry.Tracer.Start(ctx, name)
	return ctx, opSpan{span: span}
}

func (s opSpan) fail(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	if kind, ok := KindOf(err); ok {
		telemetry.ValidationFailures.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("kind", kind.String())))
	}
}

func (s opSpan) end() { s.span.End() }
