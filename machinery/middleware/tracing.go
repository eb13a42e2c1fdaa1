// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"

	"github.com/absmach/uadiscovery/machinery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ machinery.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    machinery.Service
}

// TracingMiddleware traces core service operations.
func TracingMiddleware(svc machinery.Service, tracer trace.Tracer) machinery.Service {
	return &tracingMiddleware{
		tracer: tracer,
		svc:    svc,
	}
}

func (tm *tracingMiddleware) ListMachines(ctx context.Context, serverURI string) ([]machinery.MachineRef, error) {
	ctx, span := tm.tracer.Start(ctx, "list_machines", trace.WithAttributes(
		attribute.String("server_uri", serverURI),
	))
	defer span.End()

	machines, err := tm.svc.ListMachines(ctx, serverURI)
	record(span, err)
	span.SetAttributes(attribute.Int("machines", len(machines)))

	return machines, err
}

func (tm *tracingMiddleware) Discover(ctx context.Context, serverURI, nodeID string) (machinery.Snapshot, error) {
	ctx, span := tm.tracer.Start(ctx, "discover", trace.WithAttributes(
		attribute.String("server_uri", serverURI),
		attribute.String("node_id", nodeID),
	))
	defer span.End()

	snapshot, err := tm.svc.Discover(ctx, serverURI, nodeID)
	record(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("units", snapshot.Units()))
	}

	return snapshot, err
}

func (tm *tracingMiddleware) ViewSnapshot(ctx context.Context, serverURI, nodeID string) (machinery.Snapshot, error) {
	ctx, span := tm.tracer.Start(ctx, "view_snapshot", trace.WithAttributes(
		attribute.String("server_uri", serverURI),
		attribute.String("node_id", nodeID),
	))
	defer span.End()

	snapshot, err := tm.svc.ViewSnapshot(ctx, serverURI, nodeID)
	record(span, err)

	return snapshot, err
}

func record(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
