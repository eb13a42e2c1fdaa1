// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package logger builds the structured JSON logger used by every binary.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// New returns a JSON *slog.Logger writing to w at the given level.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return &slog.Logger{}, fmt.Errorf(`{"level":"error","message":"%s: %s","ts":"%s"}`, err, levelText, time.RFC3339Nano)
	}

	logHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(logHandler), nil
}

// ExitWithError closes the current process with error code.
func ExitWithError(code *int) {
	if *code != 0 {
		os.Exit(*code)
	}
}
