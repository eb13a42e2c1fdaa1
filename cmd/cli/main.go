// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains cli main function to run the discovery CLI.
package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/absmach/uadiscovery/cli"
	"github.com/absmach/uadiscovery/machinery/gopcua"
	"github.com/spf13/cobra"
)

func main() {
	opcConf := gopcua.Config{
		Policy:         "",
		Mode:           "",
		ConnectRetries: 1,
		ConnectTimeout: 10 * time.Second,
	}

	// Root
	rootCmd := &cobra.Command{
		Use: "uadiscovery-cli",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := cli.ParseConfig(opcConf)
			if err != nil {
				log.Fatalf("Failed to parse config: %s", err)
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			cli.SetConnector(gopcua.NewConnector(cfg, logger))
		},
	}

	// API commands
	versionCmd := cli.NewVersionCmd()
	machinesCmd := cli.NewMachinesCmd()
	configCmd := cli.NewConfigCmd()

	// Root Commands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(machinesCmd)
	rootCmd.AddCommand(configCmd)

	// Root Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.ConfigPath,
		"config",
		"c",
		cli.ConfigPath,
		"Config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		cli.RawOutput,
		"Enables raw output mode for easier parsing of output",
	)

	rootCmd.PersistentFlags().DurationVarP(
		&opcConf.ConnectTimeout,
		"timeout",
		"t",
		opcConf.ConnectTimeout,
		"OPC-UA connect timeout",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
