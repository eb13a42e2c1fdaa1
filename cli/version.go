// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/absmach/uadiscovery"
	"github.com/spf13/cobra"
)

// NewVersionCmd returns version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "CLI version",
		Long:  `Print the version and build of the discovery CLI`,
		Run: func(cmd *cobra.Command, args []string) {
			logJSONCmd(*cmd, map[string]string{
				"version":    uadiscovery.Version,
				"commit":     uadiscovery.Commit,
				"build_time": uadiscovery.BuildTime,
			})
		},
	}
}
