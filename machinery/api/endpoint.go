// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/pkg/apiutil"
	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/go-kit/kit/endpoint"
)

func listMachinesEndpoint(svc machinery.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listMachinesReq)

		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		machines, err := svc.ListMachines(ctx, req.ServerURI)
		if err != nil {
			return nil, err
		}

		return listMachinesRes{
			Total:    len(machines),
			Machines: machines,
		}, nil
	}
}

func discoverEndpoint(svc machinery.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(machineReq)

		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		snapshot, err := svc.Discover(ctx, req.ServerURI, req.NodeID)
		if err != nil {
			return nil, err
		}

		return snapshotRes{Snapshot: snapshot}, nil
	}
}

func viewSnapshotEndpoint(svc machinery.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(machineReq)

		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		snapshot, err := svc.ViewSnapshot(ctx, req.ServerURI, req.NodeID)
		if err != nil {
			return nil, err
		}

		return snapshotRes{Snapshot: snapshot}, nil
	}
}
