// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absmach/uadiscovery/cli"
	"github.com/absmach/uadiscovery/machinery/gopcua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cli.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
	defer func() {
		cli.ConfigPath = ""
		cli.MaxDepth = 0
		cli.Lenient = false
	}()

	defaults := gopcua.Config{Policy: "None", Mode: "None", ConnectRetries: 1}
	cfg, err := cli.ParseConfig(defaults)
	require.Nil(t, err, fmt.Sprintf("unexpected error creating config: %s", err))
	assert.Equal(t, defaults, cfg, "default config should be written and returned")
	_, err = os.Stat(cli.ConfigPath)
	assert.Nil(t, err, "config file should be created")

	cases := []struct {
		desc    string
		key     string
		value   string
		logType outputLog
		errMsg  string
	}{
		{
			desc:    "set security policy",
			key:     "policy",
			value:   "Basic256Sha256",
			logType: okLog,
		},
		{
			desc:    "set max depth",
			key:     "max_depth",
			value:   "4",
			logType: okLog,
		},
		{
			desc:    "set lenient type definition",
			key:     "lenient_type_definition",
			value:   "true",
			logType: okLog,
		},
		{
			desc:    "set invalid max depth",
			key:     "max_depth",
			value:   "four",
			logType: errLog,
			errMsg:  "invalid syntax",
		},
		{
			desc:    "set unknown key",
			key:     "things_url",
			value:   "http://localhost",
			logType: errLog,
			errMsg:  "no such key",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			out := executeCommand(t, cli.NewConfigCmd(), tc.key, tc.value)
			switch tc.logType {
			case okLog:
				assert.True(t, strings.Contains(out, "ok"), fmt.Sprintf("%s: expected ok in output %s", tc.desc, out))
			case errLog:
				assert.True(t, strings.Contains(out, tc.errMsg), fmt.Sprintf("%s: expected %s in output %s", tc.desc, tc.errMsg, out))
			}
		})
	}

	cfg, err = cli.ParseConfig(defaults)
	require.Nil(t, err, fmt.Sprintf("unexpected error reading config: %s", err))
	assert.Equal(t, "Basic256Sha256", cfg.Policy, "policy should be read from config")
	assert.Equal(t, "None", cfg.Mode, "mode should be read from config")
	assert.Equal(t, uint(4), cli.MaxDepth, "max depth should be read from config")
	assert.True(t, cli.Lenient, "lenient flag should be read from config")
}
