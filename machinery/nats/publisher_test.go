// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package nats_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/machinery/nats"
	broker "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	conn, err := broker.Connect(natsURL)
	require.Nil(t, err, fmt.Sprintf("connect to nats: unexpected error %s", err))
	defer conn.Close()

	msgs := make(chan *broker.Msg, 10)
	sub, err := conn.ChanSubscribe(nats.SnapshotsSubject, msgs)
	require.Nil(t, err, fmt.Sprintf("subscribe: unexpected error %s", err))
	defer sub.Unsubscribe() //nolint:errcheck
	require.Nil(t, conn.Flush())

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	event := machinery.DiscoveryEvent{
		ID:           "123e4567-e89b-12d3-a456-000000000001",
		ServerURI:    "opc.tcp://localhost:4840",
		NodeID:       "ns=2;i=1000",
		DiscoveredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Snapshot: machinery.Snapshot{
			NodeID:         "ns=2;i=1000",
			Attributes:     map[string]machinery.Value{"DisplayName": machinery.String("Press")},
			References:     map[string]machinery.Value{},
			Identification: map[string]machinery.Value{"SerialNumber": machinery.Int(42)},
			Components:     []machinery.Snapshot{},
		},
	}

	cases := []struct {
		desc      string
		ctx       context.Context
		event     machinery.DiscoveryEvent
		published bool
		err       error
	}{
		{
			desc:      "publish event",
			ctx:       context.Background(),
			event:     event,
			published: true,
		},
		{
			desc:  "publish with canceled context",
			ctx:   canceled,
			event: event,
			err:   context.Canceled,
		},
	}

	for _, tc := range cases {
		err := publisher.Publish(tc.ctx, tc.event)
		assert.ErrorIs(t, err, tc.err, tc.desc)
		if !tc.published {
			continue
		}
		select {
		case msg := <-msgs:
			var got machinery.DiscoveryEvent
			err := json.Unmarshal(msg.Data, &got)
			require.Nil(t, err, fmt.Sprintf("%s: unexpected error %s", tc.desc, err))
			assert.Equal(t, tc.event, got, tc.desc)
		case <-time.After(5 * time.Second):
			t.Errorf("%s: event not received", tc.desc)
		}
	}
}
