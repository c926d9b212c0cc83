//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides the OpenTelemetry instrumentation shared by the
// graph and manifest packages: tracer/meter globals defaulting to no-op
// implementations, and the span/metric names each core operation uses.
package telemetry

import (
	"go.opentelemetry.io/otel/metric"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	otelmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// Service identity attached to every span and metric this module emits.
const (
	ServiceName    = "ten-graph-core"
	InstrumentName = "ten.graph.core"
)

// Span and metric names for the core transformation operations.
const (
	SpanValidateAndFlatten = "graph.validate_and_complete_and_flatten"
	SpanValidate           = "graph.validate_and_complete"
	SpanReverse            = "graph.convert_reversed_connections"
	SpanFlatten            = "graph.flatten"
	SpanAddConnection      = "graph.add_connection"
	SpanManifestFlatten    = "manifest.flatten"

	MetricValidationFailures = "ten.graph.validation_failures"
	MetricFlattenTotal       = "ten.graph.flatten_total"
	MetricMutationRejections = "ten.graph.mutation_rejections"
)

var (
	// TracerProvider is the global tracer provider used to create Tracer.
	// It defaults to a no-op implementation; callers that want real traces
	// call SetProviders during process startup.
	TracerProvider trace.TracerProvider = nooptrace.NewTracerProvider()

	// MeterProvider is the global meter provider used to create Meter.
	MeterProvider metric.MeterProvider = otelmetric.NewMeterProvider()

	// Tracer is the shared tracer every span in this module is created from.
	Tracer = TracerProvider.Tracer(InstrumentName)

	// Meter is the shared meter every instrument in this module is created from.
	Meter = MeterProvider.Meter(InstrumentName)

	// ValidationFailures counts graph validation failures by error kind.
	ValidationFailures metric.Int64Counter = noopCounter()
	// FlattenTotal counts subgraph-flatten invocations.
	FlattenTotal metric.Int64Counter = noopCounter()
	// MutationRejections counts add_connection calls rejected by an invariant.
	MutationRejections metric.Int64Counter = noopCounter()
)

func noopCounter() metric.Int64Counter {
	c, _ := Meter.Int64Counter("noop")
	return c
}

// SetProviders installs real tracer/meter providers (e.g. from an OTLP SDK
// setup performed by a process' main package) and rebuilds the derived
// Tracer/Meter/instrument globals against them.
func SetProviders(tp trace.TracerProvider, mp metric.MeterProvider) {
	TracerProvider = tp
	MeterProvider = mp
	Tracer = TracerProvider.Tracer(InstrumentName)
	Meter = MeterProvider.Meter(InstrumentName)

	var err error
	ValidationFailures, err = Meter.Int64Counter(MetricValidationFailures,
		metric.WithDescription("number of graph validation failures, by error kind"))
	if err != nil {
		ValidationFailures = noopCounter()
	}
	FlattenTotal, err = Meter.Int64Counter(MetricFlattenTotal,
		metric.WithDescription("number of subgraph flatten operations"))
	if err != nil {
		FlattenTotal = noopCounter()
	}
	MutationRejections, err = Meter.Int64Counter(MetricMutationRejections,
		metric.WithDescription("number of add_connection calls rejected"))
	if err != nil {
		MutationRejections = noopCounter()
	}
}
