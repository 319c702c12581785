// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package tracing names the spans of table compaction.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const Name = "rtmin"

func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(Name).Start(ctx, fmt.Sprint(Name, ".", name), opts...)
}

// Chip attributes a span with a node's co-ordinates.
func Chip(x, y uint8) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.Int("chip.x", int(x)),
		attribute.Int("chip.y", int(y)),
	)
}

// End records a non-nil error before ending the span.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
