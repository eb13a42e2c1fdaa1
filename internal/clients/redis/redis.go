// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package redis connects to the Redis server holding discovery snapshots.
package redis

import (
	"context"
	"time"

	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/go-redis/redis/v8"
)

const pingTimeout = 5 * time.Second

var (
	errParseURL = errors.New("failed to parse redis url")
	errPing     = errors.New("failed to reach redis server")
)

// Connect parses url, creates a client and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errParseURL, err)
	}

	client := redis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errPing, err)
	}

	return client, nil
}
