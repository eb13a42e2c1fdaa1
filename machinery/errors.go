// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import "github.com/absmach/uadiscovery/pkg/errors"

var (
	// ErrRead indicates a transport failure while reading attributes.
	ErrRead = errors.New("failed to read node attributes")

	// ErrBrowse indicates a transport failure while browsing references.
	ErrBrowse = errors.New("failed to browse node references")

	// ErrResolveNodeID indicates a reference target could not be converted
	// into a local node id.
	ErrResolveNodeID = errors.New("failed to resolve node id")

	// ErrMalformedResponse indicates the server returned a response that
	// does not match the request.
	ErrMalformedResponse = errors.New("malformed server response")

	// ErrMissingTypeDefinition indicates a node has no HasTypeDefinition reference.
	ErrMissingTypeDefinition = errors.New("node has no type definition")

	// ErrMaxDepthExceeded indicates the component tree is deeper than allowed.
	ErrMaxDepthExceeded = errors.New("maximum component depth exceeded")

	// ErrAlreadyInitialized indicates Initialize was called twice on one unit.
	ErrAlreadyInitialized = errors.New("discovery unit already initialized")

	// ErrMachinesFolderNotFound indicates the server exposes no Machines folder.
	ErrMachinesFolderNotFound = errors.New("machines folder not found")

	// ErrConnect indicates the OPC-UA server could not be reached.
	ErrConnect = errors.New("failed to connect to OPC-UA server")

	// ErrPublish indicates a discovery event could not be published.
	ErrPublish = errors.New("failed to publish discovery event")
)
