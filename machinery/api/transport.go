// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/absmach/uadiscovery"
	"github.com/absmach/uadiscovery/internal/api"
	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/pkg/apiutil"
	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MakeHandler returns a HTTP API handler with health check and metrics.
func MakeHandler(svc machinery.Service, logger *slog.Logger, svcName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux := chi.NewRouter()

	mux.Get("/machines", otelhttp.NewHandler(kithttp.NewServer(
		listMachinesEndpoint(svc),
		decodeListMachines,
		api.EncodeResponse,
		opts...,
	), "list_machines").ServeHTTP)

	mux.Get("/machines/discover", otelhttp.NewHandler(kithttp.NewServer(
		discoverEndpoint(svc),
		decodeMachine,
		api.EncodeResponse,
		opts...,
	), "discover").ServeHTTP)

	mux.Get("/machines/snapshot", otelhttp.NewHandler(kithttp.NewServer(
		viewSnapshotEndpoint(svc),
		decodeMachine,
		api.EncodeResponse,
		opts...,
	), "view_snapshot").ServeHTTP)

	mux.Get("/health", uadiscovery.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeListMachines(_ context.Context, r *http.Request) (interface{}, error) {
	serverURI, err := apiutil.ReadStringQuery(r, api.ServerKey, "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	return listMachinesReq{ServerURI: serverURI}, nil
}

func decodeMachine(_ context.Context, r *http.Request) (interface{}, error) {
	serverURI, err := apiutil.ReadStringQuery(r, api.ServerKey, "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	nodeID, err := apiutil.ReadStringQuery(r, api.NodeKey, "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	return machineReq{
		ServerURI: serverURI,
		NodeID:    nodeID,
	}, nil
}
