// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/absmach/uadiscovery/pkg/errors"

// Errors defined in this file are used by the transport layer to map
// validation problems to HTTP status codes.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrMissingServerURI indicates missing OPC-UA server URI.
	ErrMissingServerURI = errors.New("missing OPC-UA server URI")

	// ErrInvalidServerURI indicates a server URI that is not an opc.tcp URL.
	ErrInvalidServerURI = errors.New("invalid OPC-UA server URI")

	// ErrMissingNodeID indicates missing node identifier.
	ErrMissingNodeID = errors.New("missing node id")

	// ErrInvalidNodeID indicates a node identifier that cannot be parsed.
	ErrInvalidNodeID = errors.New("invalid node id")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")
)
