// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/stretchr/testify/mock"
)

var _ machinery.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

func (svc *Service) ListMachines(ctx context.Context, serverURI string) ([]machinery.MachineRef, error) {
	ret := svc.Called(ctx, serverURI)

	var machines []machinery.MachineRef
	if m := ret.Get(0); m != nil {
		machines = m.([]machinery.MachineRef)
	}

	return machines, ret.Error(1)
}

func (svc *Service) Discover(ctx context.Context, serverURI, nodeID string) (machinery.Snapshot, error) {
	ret := svc.Called(ctx, serverURI, nodeID)

	return ret.Get(0).(machinery.Snapshot), ret.Error(1)
}

func (svc *Service) ViewSnapshot(ctx context.Context, serverURI, nodeID string) (machinery.Snapshot, error) {
	ret := svc.Called(ctx, serverURI, nodeID)

	return ret.Get(0).(machinery.Snapshot), ret.Error(1)
}
