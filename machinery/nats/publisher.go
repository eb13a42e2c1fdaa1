// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package nats publishes discovery events to a NATS broker.
package nats

import (
	"context"
	"encoding/json"

	"github.com/absmach/uadiscovery/machinery"
	broker "github.com/nats-io/nats.go"
)

// SnapshotsSubject is the subject discovery events are published on.
const SnapshotsSubject = "machinery.snapshots"

// A maximum number of reconnect attempts before NATS connection closes
// permanently. -1 retries forever.
const maxReconnects = -1

// Publisher is a SnapshotPublisher holding a NATS connection.
type Publisher interface {
	machinery.SnapshotPublisher

	// Close drains and closes the connection.
	Close() error
}

var _ Publisher = (*publisher)(nil)

type publisher struct {
	conn    *broker.Conn
	subject string
}

// NewPublisher returns NATS discovery event publisher.
func NewPublisher(url string) (Publisher, error) {
	conn, err := broker.Connect(url, broker.MaxReconnects(maxReconnects))
	if err != nil {
		return nil, err
	}

	return &publisher{
		conn:    conn,
		subject: SnapshotsSubject,
	}, nil
}

func (pub *publisher) Publish(ctx context.Context, event machinery.DiscoveryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return pub.conn.Publish(pub.subject, data)
}

func (pub *publisher) Close() error {
	return pub.conn.Drain()
}
