// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"context"
	"fmt"
)

// AttributeID identifies a node attribute. Values follow OPC-UA Part 6.
type AttributeID uint32

const (
	AttributeNodeClass   AttributeID = 2
	AttributeBrowseName  AttributeID = 3
	AttributeDisplayName AttributeID = 4
	AttributeDescription AttributeID = 5
	AttributeValue       AttributeID = 13
)

// ReferenceType is the numeric identifier of a namespace 0 reference type.
type ReferenceType uint32

const (
	Organizes         ReferenceType = 35
	HasTypeDefinition ReferenceType = 40
	HasProperty       ReferenceType = 46
	HasComponent      ReferenceType = 47
	HasAddIn          ReferenceType = 17604
)

func (rt ReferenceType) String() string {
	switch rt {
	case Organizes:
		return "Organizes"
	case HasTypeDefinition:
		return "HasTypeDefinition"
	case HasProperty:
		return "HasProperty"
	case HasComponent:
		return "HasComponent"
	case HasAddIn:
		return "HasAddIn"
	default:
		return fmt.Sprintf("i=%d", uint32(rt))
	}
}

// BrowseDirection selects which end of a reference is followed.
type BrowseDirection uint32

const (
	BrowseForward BrowseDirection = iota
	BrowseInverse
	BrowseBoth
)

// StatusCode is an OPC-UA status code.
type StatusCode uint32

const (
	StatusGood                  StatusCode = 0
	StatusBadNodeIDUnknown      StatusCode = 0x80340000
	StatusBadAttributeIDInvalid StatusCode = 0x80350000
	StatusBadNotReadable        StatusCode = 0x803A0000
)

// IsGood reports whether the status is exactly Good.
func (s StatusCode) IsGood() bool {
	return s == StatusGood
}

func (s StatusCode) String() string {
	return fmt.Sprintf("0x%08X", uint32(s))
}

// ReadValueID names one attribute of one node.
type ReadValueID struct {
	NodeID      string
	AttributeID AttributeID
}

// DataValue is the result of reading one attribute. Value is only
// meaningful when Status is good.
type DataValue struct {
	Status StatusCode
	Value  Value
}

// BrowseDescription selects the references to return from a node.
type BrowseDescription struct {
	NodeID          string
	Direction       BrowseDirection
	ReferenceType   ReferenceType
	IncludeSubtypes bool
}

// ReferenceDescription is a reference target returned by Browse. NodeID is
// in the externally-qualified form reported by the server and must go
// through DirectoryClient.ResolveNodeID before it is read or browsed.
type ReferenceDescription struct {
	NodeID      string
	BrowseName  QualifiedName
	DisplayName string
}

// BrowseResult holds the references found by a Browse call.
type BrowseResult struct {
	Status     StatusCode
	References []ReferenceDescription
}

// DirectoryClient is the attribute and reference service of a remote
// address space. Returned errors are transport failures; per-node problems
// are reported through status codes.
type DirectoryClient interface {
	// Read reads the given attributes in one request. Results are in
	// request order, one per request.
	Read(ctx context.Context, nodes ...ReadValueID) ([]DataValue, error)

	// Browse returns the references of a node.
	Browse(ctx context.Context, desc BrowseDescription) (BrowseResult, error)

	// ResolveNodeID converts a reference target into the node id form
	// accepted by Read and Browse.
	ResolveNodeID(ctx context.Context, expanded string) (string, error)
}

// Session is a DirectoryClient bound to an open server connection.
type Session interface {
	DirectoryClient

	// Close releases the connection.
	Close() error
}

// Connector opens sessions to OPC-UA servers.
type Connector interface {
	// Connect opens a session to the server at serverURI.
	Connect(ctx context.Context, serverURI string) (Session, error)
}
