// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"context"
	"time"

	"github.com/absmach/uadiscovery"
	"github.com/absmach/uadiscovery/pkg/errors"
)

// DiscoveryEvent announces a completed discovery.
type DiscoveryEvent struct {
	ID           string    `json:"id"`
	ServerURI    string    `json:"server_uri"`
	NodeID       string    `json:"node_id"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Snapshot     Snapshot  `json:"snapshot"`
}

// SnapshotRepository stores the last snapshot of every discovered machine.
type SnapshotRepository interface {
	// Save stores the snapshot under the server URI and its node id.
	Save(ctx context.Context, serverURI string, snapshot Snapshot) error

	// Retrieve returns the stored snapshot of the node.
	Retrieve(ctx context.Context, serverURI, nodeID string) (Snapshot, error)
}

// SnapshotPublisher announces discoveries to other services.
type SnapshotPublisher interface {
	Publish(ctx context.Context, event DiscoveryEvent) error
}

// Service specifies an API that must be fulfilled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// ListMachines lists the machines exposed by the server.
	ListMachines(ctx context.Context, serverURI string) ([]MachineRef, error)

	// Discover discovers the machine at nodeID, stores and publishes its snapshot.
	Discover(ctx context.Context, serverURI, nodeID string) (Snapshot, error)

	// ViewSnapshot returns the last stored snapshot of the machine.
	ViewSnapshot(ctx context.Context, serverURI, nodeID string) (Snapshot, error)
}

var _ Service = (*service)(nil)

type service struct {
	connector  Connector
	snapshots  SnapshotRepository
	publisher  SnapshotPublisher
	idProvider uadiscovery.IDProvider
	opts       Options
}

// NewService instantiates the machinery discovery service.
func NewService(connector Connector, snapshots SnapshotRepository, publisher SnapshotPublisher, idp uadiscovery.IDProvider, opts Options) Service {
	return &service{
		connector:  connector,
		snapshots:  snapshots,
		publisher:  publisher,
		idProvider: idp,
		opts:       opts,
	}
}

func (svc *service) ListMachines(ctx context.Context, serverURI string) ([]MachineRef, error) {
	session, err := svc.connector.Connect(ctx, serverURI)
	if err != nil {
		return nil, errors.Wrap(ErrConnect, err)
	}
	defer session.Close()

	return ListMachines(ctx, session)
}

func (svc *service) Discover(ctx context.Context, serverURI, nodeID string) (Snapshot, error) {
	session, err := svc.connector.Connect(ctx, serverURI)
	if err != nil {
		return Snapshot{}, errors.Wrap(ErrConnect, err)
	}
	defer session.Close()

	unit := NewMachine(session, nodeID, svc.opts)
	if err := unit.Initialize(ctx); err != nil {
		return Snapshot{}, err
	}
	snapshot := unit.Snapshot()

	if err := svc.snapshots.Save(ctx, serverURI, snapshot); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCreateEntity, err)
	}

	id, err := svc.idProvider.ID()
	if err != nil {
		return Snapshot{}, err
	}
	event := DiscoveryEvent{
		ID:           id,
		ServerURI:    serverURI,
		NodeID:       nodeID,
		DiscoveredAt: time.Now().UTC(),
		Snapshot:     snapshot,
	}
	if err := svc.publisher.Publish(ctx, event); err != nil {
		return Snapshot{}, errors.Wrap(ErrPublish, err)
	}

	return snapshot, nil
}

func (svc *service) ViewSnapshot(ctx context.Context, serverURI, nodeID string) (Snapshot, error) {
	snapshot, err := svc.snapshots.Retrieve(ctx, serverURI, nodeID)
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrViewEntity, err)
	}
	return snapshot, nil
}
