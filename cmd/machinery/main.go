// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains machinery main function to start the machinery discovery service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	jaegerclient "github.com/absmach/uadiscovery/internal/clients/jaeger"
	redisclient "github.com/absmach/uadiscovery/internal/clients/redis"
	"github.com/absmach/uadiscovery/internal/env"
	"github.com/absmach/uadiscovery/internal/server"
	httpserver "github.com/absmach/uadiscovery/internal/server/http"
	mglog "github.com/absmach/uadiscovery/logger"
	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/machinery/api"
	"github.com/absmach/uadiscovery/machinery/gopcua"
	"github.com/absmach/uadiscovery/machinery/middleware"
	"github.com/absmach/uadiscovery/machinery/nats"
	"github.com/absmach/uadiscovery/machinery/redis"
	"github.com/absmach/uadiscovery/pkg/prometheus"
	"github.com/absmach/uadiscovery/pkg/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "machinery"
	envPrefixHTTP  = "MG_MACHINERY_HTTP_"
	envPrefixOPCUA = "MG_MACHINERY_OPCUA_"
	defSvcHTTPPort = "8190"
)

type config struct {
	LogLevel              string  `env:"MG_MACHINERY_LOG_LEVEL"              envDefault:"info"`
	InstanceID            string  `env:"MG_MACHINERY_INSTANCE_ID"            envDefault:""`
	MaxDepth              uint    `env:"MG_MACHINERY_MAX_DEPTH"              envDefault:"32"`
	LenientTypeDefinition bool    `env:"MG_MACHINERY_LENIENT_TYPE_DEFINITION" envDefault:"false"`
	RedisURL              string  `env:"MG_MACHINERY_REDIS_URL"              envDefault:"redis://localhost:6379/0"`
	SnapshotPrefix        string  `env:"MG_MACHINERY_SNAPSHOT_PREFIX"        envDefault:"mg"`
	BrokerURL             string  `env:"MG_BROKER_URL"                       envDefault:"nats://localhost:4222"`
	JaegerURL             url.URL `env:"MG_JAEGER_URL"                       envDefault:"http://localhost:4318/v1/traces"`
	TraceRatio            float64 `env:"MG_JAEGER_TRACE_RATIO"               envDefault:"1.0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := mglog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer mglog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	opcConfig := gopcua.Config{}
	if err := env.Parse(&opcConfig, env.Options{Prefix: envPrefixOPCUA}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s OPC-UA client configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	tp, err := jaegerclient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("error shutting down tracer provider: %s", err))
		}
	}()
	tracer := tp.Tracer(svcName)

	redisClient, err := redisclient.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to connect to snapshot redis: %s", err))
		exitCode = 1
		return
	}
	defer redisClient.Close()
	logger.Info("Connected to snapshot Redis")

	publisher, err := nats.NewPublisher(cfg.BrokerURL)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to connect to message broker: %s", err))
		exitCode = 1
		return
	}
	defer publisher.Close()

	opts := machinery.Options{
		MaxDepth:              cfg.MaxDepth,
		LenientTypeDefinition: cfg.LenientTypeDefinition,
		Diagnostics:           machinery.NewLoggingDiagnostics(logger),
	}
	connector := gopcua.NewConnector(opcConfig, logger)
	snapshots := redis.NewSnapshotRepository(redisClient, cfg.SnapshotPrefix)

	svc := newService(connector, snapshots, publisher, opts, logger, tracer)

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	hs := httpserver.New(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(connector machinery.Connector, snapshots machinery.SnapshotRepository, publisher machinery.SnapshotPublisher, opts machinery.Options, logger *slog.Logger, tracer trace.Tracer) machinery.Service {
	svc := machinery.NewService(connector, snapshots, publisher, uuid.New(), opts)
	svc = middleware.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	units := prometheus.MakeDiscoveryMetrics(svcName, "discovery")
	svc = middleware.MetricsMiddleware(svc, counter, latency, units)
	svc = middleware.TracingMiddleware(svc, tracer)

	return svc
}
