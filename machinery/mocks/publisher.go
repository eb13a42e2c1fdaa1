// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/stretchr/testify/mock"
)

var _ machinery.SnapshotPublisher = (*SnapshotPublisher)(nil)

type SnapshotPublisher struct {
	mock.Mock
}

func (pub *SnapshotPublisher) Publish(ctx context.Context, event machinery.DiscoveryEvent) error {
	ret := pub.Called(ctx, event)

	return ret.Error(0)
}
