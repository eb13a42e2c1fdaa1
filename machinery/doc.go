// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package machinery discovers machines exposed through the OPC UA for
// Machinery information model and turns each of them into a Snapshot.
//
// A DiscoveryUnit walks the address space of one node: it loads the node's
// descriptive attributes, resolves its type definition, inspects its add-ins
// and expands the "Identification" and "Components" add-ins, recursing into
// every component. All remote calls go through a DirectoryClient and are
// issued sequentially, one at a time.
package machinery
