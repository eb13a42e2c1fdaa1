// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/stretchr/testify/mock"
)

var _ machinery.Connector = (*Connector)(nil)

type Connector struct {
	mock.Mock
}

func (c *Connector) Connect(ctx context.Context, serverURI string) (machinery.Session, error) {
	ret := c.Called(ctx, serverURI)

	var session machinery.Session
	if s := ret.Get(0); s != nil {
		session = s.(machinery.Session)
	}

	return session, ret.Error(1)
}
