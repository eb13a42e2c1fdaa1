// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/stretchr/testify/mock"
)

var _ machinery.SnapshotRepository = (*SnapshotRepository)(nil)

type SnapshotRepository struct {
	mock.Mock
}

func (repo *SnapshotRepository) Save(ctx context.Context, serverURI string, snapshot machinery.Snapshot) error {
	ret := repo.Called(ctx, serverURI, snapshot)

	return ret.Error(0)
}

func (repo *SnapshotRepository) Retrieve(ctx context.Context, serverURI, nodeID string) (machinery.Snapshot, error) {
	ret := repo.Called(ctx, serverURI, nodeID)

	return ret.Get(0).(machinery.Snapshot), ret.Error(1)
}
