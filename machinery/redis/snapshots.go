// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/go-redis/redis/v8"
)

const snapshotPrefix = "machinery:snapshot"

var _ machinery.SnapshotRepository = (*snapshotRepository)(nil)

type snapshotRepository struct {
	client *redis.Client
	prefix string
}

// NewSnapshotRepository returns redis snapshot repository implementation.
func NewSnapshotRepository(client *redis.Client, prefix string) machinery.SnapshotRepository {
	return &snapshotRepository{
		client: client,
		prefix: prefix,
	}
}

func (sr *snapshotRepository) Save(ctx context.Context, serverURI string, snapshot machinery.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(errors.ErrMalformedEntity, err)
	}
	if err := sr.client.Set(ctx, sr.key(serverURI, snapshot.NodeID), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCreateEntity, err)
	}

	return nil
}

func (sr *snapshotRepository) Retrieve(ctx context.Context, serverURI, nodeID string) (machinery.Snapshot, error) {
	data, err := sr.client.Get(ctx, sr.key(serverURI, nodeID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return machinery.Snapshot{}, errors.Wrap(errors.ErrNotFound, err)
		}
		return machinery.Snapshot{}, errors.Wrap(errors.ErrViewEntity, err)
	}

	var snapshot machinery.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return machinery.Snapshot{}, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return snapshot, nil
}

func (sr *snapshotRepository) key(serverURI, nodeID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", sr.prefix, snapshotPrefix, serverURI, nodeID)
}
