// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	"github.com/absmach/uadiscovery/machinery"
)

var _ machinery.Diagnostics = (*Diagnostics)(nil)

// Diagnostics records warnings.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []machinery.Warning
}

func (d *Diagnostics) Warn(ctx context.Context, w machinery.Warning) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = append(d.warnings, w)
}

// Warnings returns the recorded warnings in order.
func (d *Diagnostics) Warnings() []machinery.Warning {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]machinery.Warning(nil), d.warnings...)
}
