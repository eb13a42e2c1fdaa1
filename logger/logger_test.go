// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package logger_test

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/absmach/uadiscovery/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ io.Writer = (*mockWriter)(nil)

type mockWriter struct {
	value []byte
}

func (writer *mockWriter) Write(p []byte) (int, error) {
	writer.value = append([]byte{}, p...)
	return len(p), nil
}

func (writer *mockWriter) Read() (logMsg, error) {
	var output logMsg
	err := json.Unmarshal(writer.value, &output)
	return output, err
}

type logMsg struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
}

func TestNew(t *testing.T) {
	cases := []struct {
		desc  string
		level string
		err   bool
	}{
		{desc: "debug level", level: "debug"},
		{desc: "upper case info level", level: "INFO"},
		{desc: "warn level", level: "warn"},
		{desc: "error level", level: "error"},
		{desc: "unknown level", level: "Not_A_Level", err: true},
		{desc: "empty level", level: "", err: true},
	}

	for _, tc := range cases {
		_, err := logger.New(&mockWriter{}, tc.level)
		assert.Equal(t, tc.err, err != nil, fmt.Sprintf("%s: expected error %t got %v", tc.desc, tc.err, err))
	}
}

func TestInfo(t *testing.T) {
	cases := []struct {
		desc   string
		level  string
		input  string
		output logMsg
	}{
		{
			desc:   "info allowed at debug level",
			level:  "debug",
			input:  "input_string",
			output: logMsg{Level: "INFO", Message: "input_string"},
		},
		{
			desc:   "info empty string at info level",
			level:  "info",
			input:  "",
			output: logMsg{Level: "INFO", Message: ""},
		},
		{
			desc:   "info filtered at warn level",
			level:  "warn",
			input:  "input_string",
			output: logMsg{},
		},
		{
			desc:   "info filtered at error level",
			level:  "error",
			input:  "input_string",
			output: logMsg{},
		},
	}

	for _, tc := range cases {
		writer := mockWriter{}
		l, err := logger.New(&writer, tc.level)
		require.Nil(t, err, fmt.Sprintf("%s: unexpected error %s", tc.desc, err))
		l.Info(tc.input)
		output, _ := writer.Read()
		assert.Equal(t, tc.output, output, fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.output, output))
	}
}

func TestWarnAndError(t *testing.T) {
	writer := mockWriter{}
	l, err := logger.New(&writer, "warn")
	require.Nil(t, err, fmt.Sprintf("unexpected error %s", err))

	l.Warn("warning")
	output, err := writer.Read()
	require.Nil(t, err, fmt.Sprintf("unexpected error %s", err))
	assert.Equal(t, logMsg{Level: "WARN", Message: "warning"}, output)

	l.Error("failure")
	output, err = writer.Read()
	require.Nil(t, err, fmt.Sprintf("unexpected error %s", err))
	assert.Equal(t, logMsg{Level: "ERROR", Message: "failure"}, output)
}
