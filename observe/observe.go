// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package observe records penpad metrics and traces with OpenTelemetry.
//
// Without explicit providers the global otel providers are used, which are
// no-ops until the application installs an SDK.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gogpu/penpad"

// Observer records penpad telemetry. A nil *Observer is valid and records
// nothing.
type Observer struct {
	tracer trace.Tracer
	meter  metric.Meter

	propChanges    metric.Int64Counter
	transitions    metric.Int64Counter
	shutdowns      metric.Int64Counter
	strokePoints   metric.Int64Counter
	renderDuration metric.Float64Histogram
}

// Option configures an Observer.
type Option func(*Observer)

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *Observer) {
		o.tracer = provider.Tracer(instrumentationName)
	}
}

// WithMeterProvider sets the meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *Observer) {
		o.meter = provider.Meter(instrumentationName)
	}
}

// New creates an Observer and its instruments.
func New(opts ...Option) (*Observer, error) {
	o := &Observer{
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(o)
	}

	var err error
	o.propChanges, err = o.meter.Int64Counter(
		"penpad.prop.changes",
		metric.WithDescription("Number of propagated property changes"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, err
	}

	o.transitions, err = o.meter.Int64Counter(
		"penpad.lifecycle.transitions",
		metric.WithDescription("Number of surface lifecycle transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	o.shutdowns, err = o.meter.Int64Counter(
		"penpad.lifecycle.shutdowns",
		metric.WithDescription("Number of surface shutdowns"),
		metric.WithUnit("{shutdown}"),
	)
	if err != nil {
		return nil, err
	}

	o.strokePoints, err = o.meter.Int64Counter(
		"penpad.stroke.points",
		metric.WithDescription("Number of pen points accepted"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return nil, err
	}

	o.renderDuration, err = o.meter.Float64Histogram(
		"penpad.render.duration",
		metric.WithDescription("Full surface repaint duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return o, nil
}

// PropChanged counts one propagated property change.
func (o *Observer) PropChanged(ctx context.Context, prop, source string) {
	if o == nil {
		return
	}
	o.propChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("prop", prop),
		attribute.String("source", source),
	))
}

// Transition counts one lifecycle transition.
func (o *Observer) Transition(ctx context.Context, from, to string) {
	if o == nil {
		return
	}
	o.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// Shutdown counts one lifecycle shutdown.
func (o *Observer) Shutdown(ctx context.Context, reason string, expected bool) {
	if o == nil {
		return
	}
	o.shutdowns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
		attribute.Bool("expected", expected),
	))
}

// StrokePoints counts accepted pen points.
func (o *Observer) StrokePoints(ctx context.Context, n int) {
	if o == nil || n <= 0 {
		return
	}
	o.strokePoints.Add(ctx, int64(n))
}

// StartRender starts a span for a full repaint. The returned function ends
// the span and records its duration; pass the repaint error, if any.
func (o *Observer) StartRender(ctx context.Context, strokes int) (context.Context, func(error)) {
	if o == nil {
		return ctx, func(error) {}
	}
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "penpad.refresh",
		trace.WithAttributes(attribute.Int("strokes", strokes)),
	)
	return ctx, func(err error) {
		ms := float64(time.Since(start).Microseconds()) / 1000
		o.renderDuration.Record(ctx, ms)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
