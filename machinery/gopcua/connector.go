// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package gopcua

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/cenkalti/backoff/v4"
	opcuagopcua "github.com/gopcua/opcua"
	uagopcua "github.com/gopcua/opcua/ua"
)

var (
	errFailedConn          = errors.New("failed to connect")
	errFailedFindEndpoint  = errors.New("failed to find suitable endpoint")
	errFailedFetchEndpoint = errors.New("failed to fetch OPC-UA server endpoints")
)

// Config holds the OPC-UA client security and connection settings.
type Config struct {
	Policy         string        `env:"POLICY"           envDefault:""`
	Mode           string        `env:"MODE"             envDefault:""`
	CertFile       string        `env:"CERT_FILE"        envDefault:""`
	KeyFile        string        `env:"KEY_FILE"         envDefault:""`
	ConnectRetries uint64        `env:"CONNECT_RETRIES"  envDefault:"3"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"  envDefault:"10s"`
}

var _ machinery.Connector = (*connector)(nil)

type connector struct {
	cfg    Config
	logger *slog.Logger
}

// NewConnector returns a connector opening gopcua sessions.
func NewConnector(cfg Config, logger *slog.Logger) machinery.Connector {
	return &connector{
		cfg:    cfg,
		logger: logger,
	}
}

func (c *connector) Connect(ctx context.Context, serverURI string) (machinery.Session, error) {
	opts, err := c.options(serverURI)
	if err != nil {
		return nil, err
	}

	var oc *opcuagopcua.Client
	connect := func() error {
		cctx := ctx
		if c.cfg.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
			defer cancel()
		}
		client := opcuagopcua.NewClient(serverURI, opts...)
		if err := client.Connect(cctx); err != nil {
			return err
		}
		oc = client
		return nil
	}
	notify := func(err error, next time.Duration) {
		c.logger.Warn(fmt.Sprintf("OPC-UA server %s not ready: %s, next try in %s", serverURI, err, next))
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.ConnectRetries), ctx)
	if err := backoff.RetryNotify(connect, bo, notify); err != nil {
		return nil, errors.Wrap(errFailedConn, err)
	}

	return NewSession(oc), nil
}

// options selects the security settings the same way for every server:
// no security unless a mode is configured, in which case the matching
// endpoint is looked up and anonymous authentication is used.
func (c *connector) options(serverURI string) ([]opcuagopcua.Option, error) {
	if c.cfg.Mode == "" {
		return []opcuagopcua.Option{
			opcuagopcua.SecurityMode(uagopcua.MessageSecurityModeNone),
		}, nil
	}

	endpoints, err := opcuagopcua.GetEndpoints(serverURI)
	if err != nil {
		return nil, errors.Wrap(errFailedFetchEndpoint, err)
	}

	ep := opcuagopcua.SelectEndpoint(endpoints, c.cfg.Policy, uagopcua.MessageSecurityModeFromString(c.cfg.Mode))
	if ep == nil {
		return nil, errFailedFindEndpoint
	}

	return []opcuagopcua.Option{
		opcuagopcua.SecurityPolicy(c.cfg.Policy),
		opcuagopcua.SecurityModeString(c.cfg.Mode),
		opcuagopcua.CertificateFile(c.cfg.CertFile),
		opcuagopcua.PrivateKeyFile(c.cfg.KeyFile),
		opcuagopcua.AuthAnonymous(),
		opcuagopcua.SecurityFromEndpoint(ep, uagopcua.UserTokenTypeAnonymous),
	}, nil
}
