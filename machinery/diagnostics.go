// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"context"
	"log/slog"
)

// WarningCode classifies a non-fatal anomaly found during discovery.
type WarningCode string

const (
	WarnMultipleTypeDefinitions WarningCode = "multiple_type_definitions"
	WarnMissingTypeDefinition   WarningCode = "missing_type_definition"
)

// Warning is a non-fatal anomaly of one node.
type Warning struct {
	Code    WarningCode
	NodeID  string
	Message string
}

// Diagnostics receives warnings raised during discovery.
type Diagnostics interface {
	Warn(ctx context.Context, w Warning)
}

var _ Diagnostics = (*loggingDiagnostics)(nil)

type loggingDiagnostics struct {
	logger *slog.Logger
}

// NewLoggingDiagnostics returns Diagnostics that write warnings to logger.
func NewLoggingDiagnostics(logger *slog.Logger) Diagnostics {
	return &loggingDiagnostics{logger: logger}
}

func (ld *loggingDiagnostics) Warn(ctx context.Context, w Warning) {
	ld.logger.WarnContext(ctx, w.Message,
		slog.String("code", string(w.Code)),
		slog.String("node_id", w.NodeID),
	)
}
