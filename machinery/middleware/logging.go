// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/uadiscovery/machinery"
)

var _ machinery.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    machinery.Service
}

// LoggingMiddleware adds logging facilities to the core service.
func LoggingMiddleware(svc machinery.Service, logger *slog.Logger) machinery.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) ListMachines(ctx context.Context, serverURI string) (machines []machinery.MachineRef, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("server_uri", serverURI),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List machines failed to complete successfully", args...)
			return
		}
		args = append(args, slog.Int("machines", len(machines)))
		lm.logger.Info("List machines completed successfully", args...)
	}(time.Now())

	return lm.svc.ListMachines(ctx, serverURI)
}

func (lm *loggingMiddleware) Discover(ctx context.Context, serverURI, nodeID string) (snapshot machinery.Snapshot, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("server_uri", serverURI),
			slog.String("node_id", nodeID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Discover machine failed to complete successfully", args...)
			return
		}
		args = append(args, slog.Int("units", snapshot.Units()))
		lm.logger.Info("Discover machine completed successfully", args...)
	}(time.Now())

	return lm.svc.Discover(ctx, serverURI, nodeID)
}

func (lm *loggingMiddleware) ViewSnapshot(ctx context.Context, serverURI, nodeID string) (snapshot machinery.Snapshot, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("server_uri", serverURI),
			slog.String("node_id", nodeID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View snapshot failed to complete successfully", args...)
			return
		}
		lm.logger.Info("View snapshot completed successfully", args...)
	}(time.Now())

	return lm.svc.ViewSnapshot(ctx, serverURI, nodeID)
}
