// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/machinery/mocks"
	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/absmach/uadiscovery/pkg/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const serverURI = "opc.tcp://localhost:4840"

var errRepo = errors.New("redis unavailable")

func newService() (machinery.Service, *mocks.Connector, *mocks.SnapshotRepository, *mocks.SnapshotPublisher) {
	connector := new(mocks.Connector)
	repo := new(mocks.SnapshotRepository)
	pub := new(mocks.SnapshotPublisher)
	svc := machinery.NewService(connector, repo, pub, uuid.NewMock(), machinery.Options{Diagnostics: &mocks.Diagnostics{}})
	return svc, connector, repo, pub
}

func TestDiscover(t *testing.T) {
	cases := []struct {
		desc       string
		space      func() *mocks.AddressSpace
		connectErr error
		saveErr    error
		publishErr error
		units      int
		err        error
	}{
		{
			desc:  "discover nested machine",
			space: nestedMachine,
			units: 3,
		},
		{
			desc:       "connection refused",
			space:      newMachine,
			connectErr: errTransport,
			err:        machinery.ErrConnect,
		},
		{
			desc:  "machine without type definition",
			space: mocks.NewAddressSpace,
			err:   machinery.ErrMissingTypeDefinition,
		},
		{
			desc:    "snapshot not saved",
			space:   newMachine,
			saveErr: errRepo,
			err:     errors.ErrCreateEntity,
		},
		{
			desc:       "event not published",
			space:      newMachine,
			publishErr: errRepo,
			err:        machinery.ErrPublish,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, connector, repo, pub := newService()
			as := tc.space()
			var session machinery.Session = as
			if tc.connectErr != nil {
				session = nil
			}
			connector.On("Connect", mock.Anything, serverURI).Return(session, tc.connectErr)
			repo.On("Save", mock.Anything, serverURI, mock.Anything).Return(tc.saveErr)
			pub.On("Publish", mock.Anything, mock.Anything).Return(tc.publishErr)

			snapshot, err := svc.Discover(context.Background(), serverURI, machineID)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
			if tc.err == nil {
				assert.Equal(t, machineID, snapshot.NodeID, tc.desc)
				assert.Equal(t, tc.units, snapshot.Units(), tc.desc)
				repo.AssertCalled(t, "Save", mock.Anything, serverURI, snapshot)
				pub.AssertNumberOfCalls(t, "Publish", 1)
				pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e machinery.DiscoveryEvent) bool {
					return e.ServerURI == serverURI && e.NodeID == machineID && strings.HasPrefix(e.ID, uuid.Prefix) && !e.DiscoveredAt.IsZero()
				}))
			}
			if tc.connectErr == nil {
				assert.True(t, as.Closed(), fmt.Sprintf("%s: session not closed", tc.desc))
			}
		})
	}
}

func TestListMachinesService(t *testing.T) {
	svc, connector, _, _ := newService()
	as := mocks.NewAddressSpace()
	as.AddReference(machinery.ObjectsFolder, machinery.Organizes, machinesFolderID, machinery.QualifiedName{NamespaceIndex: 4, Name: machinery.MachinesFolder})
	as.AddReference(machinesFolderID, machinery.Organizes, machineID, machinery.QualifiedName{NamespaceIndex: 2, Name: "Press"})

	connCall := connector.On("Connect", mock.Anything, serverURI).Return(as, nil)
	machines, err := svc.ListMachines(context.Background(), serverURI)
	assert.Nil(t, err, fmt.Sprintf("unexpected error %s", err))
	assert.Equal(t, []machinery.MachineRef{{NodeID: machineID, BrowseName: "2:Press", DisplayName: "Press"}}, machines)
	assert.True(t, as.Closed())
	connCall.Unset()

	connCall = connector.On("Connect", mock.Anything, serverURI).Return(nil, errTransport)
	_, err = svc.ListMachines(context.Background(), serverURI)
	assert.True(t, errors.Contains(err, machinery.ErrConnect), fmt.Sprintf("expected %s got %s\n", machinery.ErrConnect, err))
	connCall.Unset()
}

func TestViewSnapshot(t *testing.T) {
	stored := machinery.Snapshot{
		NodeID:         machineID,
		Attributes:     map[string]machinery.Value{"DisplayName": machinery.String("Press")},
		References:     map[string]machinery.Value{},
		Identification: map[string]machinery.Value{},
		Components:     []machinery.Snapshot{},
	}
	cases := []struct {
		desc     string
		repoRes  machinery.Snapshot
		repoErr  error
		expected machinery.Snapshot
		err      error
	}{
		{
			desc:     "view stored snapshot",
			repoRes:  stored,
			expected: stored,
		},
		{
			desc:    "view missing snapshot",
			repoRes: machinery.Snapshot{},
			repoErr: errors.ErrNotFound,
			err:     errors.ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, _, repo, _ := newService()
			repo.On("Retrieve", mock.Anything, serverURI, machineID).Return(tc.repoRes, tc.repoErr)
			snapshot, err := svc.ViewSnapshot(context.Background(), serverURI, machineID)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
			assert.Equal(t, tc.expected, snapshot, tc.desc)
		})
	}
}
