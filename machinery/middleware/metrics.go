// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/go-kit/kit/metrics"
)

var _ machinery.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	units   metrics.Histogram
	svc     machinery.Service
}

// MetricsMiddleware instruments core service by tracking request count,
// latency and the size of discovered machines.
func MetricsMiddleware(svc machinery.Service, counter metrics.Counter, latency, units metrics.Histogram) machinery.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		units:   units,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) ListMachines(ctx context.Context, serverURI string) ([]machinery.MachineRef, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_machines").Add(1)
		mm.latency.With("method", "list_machines").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListMachines(ctx, serverURI)
}

func (mm *metricsMiddleware) Discover(ctx context.Context, serverURI, nodeID string) (snapshot machinery.Snapshot, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "discover").Add(1)
		mm.latency.With("method", "discover").Observe(time.Since(begin).Seconds())
		if err == nil {
			mm.units.With("method", "discover").Observe(float64(snapshot.Units()))
		}
	}(time.Now())

	return mm.svc.Discover(ctx, serverURI, nodeID)
}

func (mm *metricsMiddleware) ViewSnapshot(ctx context.Context, serverURI, nodeID string) (machinery.Snapshot, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "view_snapshot").Add(1)
		mm.latency.With("method", "view_snapshot").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ViewSnapshot(ctx, serverURI, nodeID)
}
