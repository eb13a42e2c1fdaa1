// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/absmach/uadiscovery/machinery"
)

var _ machinery.Session = (*AddressSpace)(nil)

type browseKey struct {
	nodeID  string
	refType machinery.ReferenceType
}

type node struct {
	attributes map[machinery.AttributeID]machinery.DataValue
}

// AddressSpace is an in-memory OPC-UA address space. It counts the calls
// made against it and can be told to fail specific reads and browses.
type AddressSpace struct {
	mu           sync.Mutex
	nodes        map[string]*node
	references   map[browseKey][]machinery.ReferenceDescription
	browseStatus map[browseKey]machinery.StatusCode
	browseErrs   map[browseKey]error
	readErrs     map[string]error
	aliases      map[string]string
	reads        int
	browses      int
	closed       bool
}

// NewAddressSpace returns an empty address space.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{
		nodes:        make(map[string]*node),
		references:   make(map[browseKey][]machinery.ReferenceDescription),
		browseStatus: make(map[browseKey]machinery.StatusCode),
		browseErrs:   make(map[browseKey]error),
		readErrs:     make(map[string]error),
		aliases:      make(map[string]string),
	}
}

func (as *AddressSpace) node(id string) *node {
	n, ok := as.nodes[id]
	if !ok {
		n = &node{attributes: make(map[machinery.AttributeID]machinery.DataValue)}
		as.nodes[id] = n
	}
	return n
}

// SetAttribute stores a good attribute value.
func (as *AddressSpace) SetAttribute(nodeID string, attr machinery.AttributeID, v machinery.Value) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.node(nodeID).attributes[attr] = machinery.DataValue{Status: machinery.StatusGood, Value: v}
}

// SetAttributeStatus makes reading the attribute return a status without value.
func (as *AddressSpace) SetAttributeStatus(nodeID string, attr machinery.AttributeID, status machinery.StatusCode) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.node(nodeID).attributes[attr] = machinery.DataValue{Status: status}
}

// AddReference adds a forward reference from one node to target.
func (as *AddressSpace) AddReference(from string, refType machinery.ReferenceType, target string, browseName machinery.QualifiedName) {
	as.mu.Lock()
	defer as.mu.Unlock()
	key := browseKey{nodeID: from, refType: refType}
	as.references[key] = append(as.references[key], machinery.ReferenceDescription{
		NodeID:      target,
		BrowseName:  browseName,
		DisplayName: browseName.Name,
	})
}

// SetBrowseStatus makes browsing the references of a node return status.
func (as *AddressSpace) SetBrowseStatus(nodeID string, refType machinery.ReferenceType, status machinery.StatusCode) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.browseStatus[browseKey{nodeID: nodeID, refType: refType}] = status
}

// FailBrowse makes browsing the references of a node fail with err.
func (as *AddressSpace) FailBrowse(nodeID string, refType machinery.ReferenceType, err error) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.browseErrs[browseKey{nodeID: nodeID, refType: refType}] = err
}

// FailRead makes any read touching nodeID fail with err.
func (as *AddressSpace) FailRead(nodeID string, err error) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.readErrs[nodeID] = err
}

// AddAlias maps an expanded node id onto a local one.
func (as *AddressSpace) AddAlias(expanded, local string) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.aliases[expanded] = local
}

// Reads returns the number of Read calls.
func (as *AddressSpace) Reads() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.reads
}

// Browses returns the number of Browse calls.
func (as *AddressSpace) Browses() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.browses
}

// Calls returns the number of Read and Browse calls.
func (as *AddressSpace) Calls() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.reads + as.browses
}

// Closed reports whether Close was called.
func (as *AddressSpace) Closed() bool {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.closed
}

func (as *AddressSpace) Read(ctx context.Context, nodes ...machinery.ReadValueID) ([]machinery.DataValue, error) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.reads++
	results := make([]machinery.DataValue, 0, len(nodes))
	for _, rv := range nodes {
		if err, ok := as.readErrs[rv.NodeID]; ok {
			return nil, err
		}
		n, ok := as.nodes[rv.NodeID]
		if !ok {
			results = append(results, machinery.DataValue{Status: machinery.StatusBadNodeIDUnknown})
			continue
		}
		dv, ok := n.attributes[rv.AttributeID]
		if !ok {
			results = append(results, machinery.DataValue{Status: machinery.StatusBadAttributeIDInvalid})
			continue
		}
		results = append(results, dv)
	}
	return results, nil
}

func (as *AddressSpace) Browse(ctx context.Context, desc machinery.BrowseDescription) (machinery.BrowseResult, error) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.browses++
	key := browseKey{nodeID: desc.NodeID, refType: desc.ReferenceType}
	if err, ok := as.browseErrs[key]; ok {
		return machinery.BrowseResult{}, err
	}
	if status, ok := as.browseStatus[key]; ok {
		return machinery.BrowseResult{Status: status}, nil
	}
	refs := append([]machinery.ReferenceDescription(nil), as.references[key]...)
	return machinery.BrowseResult{Status: machinery.StatusGood, References: refs}, nil
}

func (as *AddressSpace) ResolveNodeID(ctx context.Context, expanded string) (string, error) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if local, ok := as.aliases[expanded]; ok {
		return local, nil
	}
	if expanded == "" {
		return "", fmt.Errorf("empty node id")
	}
	return expanded, nil
}

func (as *AddressSpace) Close() error {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.closed = true
	return nil
}
