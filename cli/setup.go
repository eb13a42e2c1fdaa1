// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package cli contains the commands of the machinery discovery CLI.
package cli

import "github.com/absmach/uadiscovery/machinery"

// Keep connector global so it does not need to be passed through all the functions.
var connector machinery.Connector

// SetConnector sets the connector used to open OPC-UA sessions.
func SetConnector(c machinery.Connector) {
	connector = c
}
