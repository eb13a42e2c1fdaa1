// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/spf13/cobra"
)

var cmdMachines = []cobra.Command{
	{
		Use:   "list <server_uri>",
		Short: "List machines",
		Long: "List the machines organized under Objects/Machines\n" +
			"Usage:\n" +
			"\tuadiscovery-cli machines list opc.tcp://localhost:4840\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			session, err := connector.Connect(ctx, args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			defer session.Close()

			machines, err := machinery.ListMachines(ctx, session)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, machines)
		},
	},
	{
		Use:   "discover <server_uri> <node_id>",
		Short: "Discover machine",
		Long: "Discover the machine at node_id and print its snapshot\n" +
			"Usage:\n" +
			"\tuadiscovery-cli machines discover opc.tcp://localhost:4840 \"ns=2;i=1000\"\n" +
			"\tuadiscovery-cli machines discover opc.tcp://localhost:4840 \"ns=2;i=1000\" --max-depth 4 --lenient\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			session, err := connector.Connect(ctx, args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			defer session.Close()

			opts := machinery.Options{
				MaxDepth:              MaxDepth,
				LenientTypeDefinition: Lenient,
				Diagnostics:           cmdDiagnostics{cmd: cmd},
			}
			unit := machinery.NewMachine(session, args[1], opts)
			if err := unit.Initialize(ctx); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, unit.Snapshot())
		},
	},
}

// NewMachinesCmd returns machines command.
func NewMachinesCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "machines [list | discover]",
		Short: "Machines discovery",
		Long:  `List and discover OPC-UA Machinery machines`,
	}

	for i := range cmdMachines {
		cmd.AddCommand(&cmdMachines[i])
	}

	cmd.PersistentFlags().UintVarP(&MaxDepth, "max-depth", "d", MaxDepth, "Maximum component nesting depth")
	cmd.PersistentFlags().BoolVar(&Lenient, "lenient", Lenient, "Accept nodes without a type definition")

	return &cmd
}

type cmdDiagnostics struct {
	cmd *cobra.Command
}

func (d cmdDiagnostics) Warn(_ context.Context, w machinery.Warning) {
	logWarningCmd(*d.cmd, string(w.Code), w.NodeID, w.Message)
}
