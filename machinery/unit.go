// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/absmach/uadiscovery/pkg/errors"
)

// DefaultMaxDepth bounds component recursion when Options.MaxDepth is zero.
const DefaultMaxDepth = 32

// UnitKind tells whether a unit is a top-level machine or a component.
type UnitKind uint8

const (
	KindMachine UnitKind = iota
	KindComponent
)

func (k UnitKind) String() string {
	if k == KindMachine {
		return "machine"
	}
	return "component"
}

// State is the initialization stage a unit has reached.
type State uint8

const (
	StateCreated State = iota
	StateAttributesLoaded
	StateTypeResolved
	StateAddInsClassified
	StateIdentificationLoaded
	StateComponentsExpanded
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAttributesLoaded:
		return "attributes_loaded"
	case StateTypeResolved:
		return "type_resolved"
	case StateAddInsClassified:
		return "add_ins_classified"
	case StateIdentificationLoaded:
		return "identification_loaded"
	case StateComponentsExpanded:
		return "components_expanded"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Options tune discovery. The zero value is usable.
type Options struct {
	// MaxDepth bounds component nesting. Zero means DefaultMaxDepth.
	MaxDepth uint

	// LenientTypeDefinition reports a node without a type definition as a
	// warning instead of failing discovery.
	LenientTypeDefinition bool

	// Diagnostics receives warnings. Nil logs them with slog.Default.
	Diagnostics Diagnostics
}

func (o Options) maxDepth() uint {
	if o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) diagnostics() Diagnostics {
	if o.Diagnostics == nil {
		return NewLoggingDiagnostics(slog.Default())
	}
	return o.Diagnostics
}

type component struct {
	key  string
	unit *DiscoveryUnit
}

// DiscoveryUnit is the discovered view of one machine or component node.
// A unit is initialized once and is not safe for concurrent use while
// Initialize runs.
type DiscoveryUnit struct {
	client DirectoryClient
	opts   Options
	kind   UnitKind
	nodeID string
	depth  uint
	state  State

	// ItemState and OperationMode are set by the monitoring subsystem.
	ItemState     string
	OperationMode string

	attributes     map[string]Value
	references     map[string]Value
	identification map[string]Value
	components     []component
	componentIndex map[string]int

	addIns []*addIn
}

// NewMachine returns a unit for the machine at nodeID.
func NewMachine(client DirectoryClient, nodeID string, opts Options) *DiscoveryUnit {
	return newUnit(client, nodeID, KindMachine, opts, 0)
}

// NewComponent returns a unit for a standalone component at nodeID.
func NewComponent(client DirectoryClient, nodeID string, opts Options) *DiscoveryUnit {
	return newUnit(client, nodeID, KindComponent, opts, 0)
}

func newUnit(client DirectoryClient, nodeID string, kind UnitKind, opts Options, depth uint) *DiscoveryUnit {
	return &DiscoveryUnit{
		client:         client,
		opts:           opts,
		kind:           kind,
		nodeID:         nodeID,
		depth:          depth,
		attributes:     map[string]Value{},
		references:     map[string]Value{},
		identification: map[string]Value{},
		componentIndex: map[string]int{},
	}
}

func (u *DiscoveryUnit) NodeID() string { return u.nodeID }
func (u *DiscoveryUnit) Kind() UnitKind { return u.kind }
func (u *DiscoveryUnit) State() State   { return u.state }

// Attributes returns a copy of the descriptive attributes.
func (u *DiscoveryUnit) Attributes() map[string]Value { return copyValues(u.attributes) }

// References returns a copy of the reference-derived facts.
func (u *DiscoveryUnit) References() map[string]Value { return copyValues(u.references) }

// Identification returns a copy of the identification properties.
func (u *DiscoveryUnit) Identification() map[string]Value { return copyValues(u.identification) }

// Components returns the child units in discovery order.
func (u *DiscoveryUnit) Components() []*DiscoveryUnit {
	units := make([]*DiscoveryUnit, 0, len(u.components))
	for _, c := range u.components {
		units = append(units, c.unit)
	}
	return units
}

// Component returns the child stored under the reference target key.
func (u *DiscoveryUnit) Component(key string) (*DiscoveryUnit, bool) {
	i, ok := u.componentIndex[key]
	if !ok {
		return nil, false
	}
	return u.components[i].unit, true
}

// Initialize discovers the node and, recursively, all of its components.
// Any error leaves the unit in StateFailed with everything collected so far
// dropped, so a failed unit projects as empty.
func (u *DiscoveryUnit) Initialize(ctx context.Context) error {
	if u.state != StateCreated {
		return ErrAlreadyInitialized
	}
	defer func() {
		u.addIns = nil
	}()

	stages := []struct {
		run  func(context.Context) error
		next State
	}{
		{u.loadAttributes, StateAttributesLoaded},
		{u.resolveType, StateTypeResolved},
		{u.classifyAddIns, StateAddInsClassified},
		{u.loadIdentification, StateIdentificationLoaded},
		{u.expandComponents, StateComponentsExpanded},
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			u.fail()
			return err
		}
		if err := stage.run(ctx); err != nil {
			u.fail()
			return err
		}
		u.state = stage.next
	}
	u.state = StateReady

	return nil
}

func (u *DiscoveryUnit) fail() {
	u.state = StateFailed
	u.attributes = map[string]Value{}
	u.references = map[string]Value{}
	u.identification = map[string]Value{}
	u.components = nil
	u.componentIndex = map[string]int{}
}

func (u *DiscoveryUnit) read(ctx context.Context, nodes ...ReadValueID) ([]DataValue, error) {
	results, err := u.client.Read(ctx, nodes...)
	if err != nil {
		return nil, errors.Wrap(ErrRead, fmt.Errorf("node %s: %w", nodes[0].NodeID, err))
	}
	if len(results) != len(nodes) {
		return nil, errors.Wrap(ErrMalformedResponse, fmt.Errorf("read %d attributes of %s, got %d results", len(nodes), nodes[0].NodeID, len(results)))
	}
	return results, nil
}

func (u *DiscoveryUnit) browse(ctx context.Context, nodeID string, refType ReferenceType) (BrowseResult, error) {
	res, err := u.client.Browse(ctx, BrowseDescription{
		NodeID:          nodeID,
		Direction:       BrowseForward,
		ReferenceType:   refType,
		IncludeSubtypes: true,
	})
	if err != nil {
		return BrowseResult{}, errors.Wrap(ErrBrowse, fmt.Errorf("%s of %s: %w", refType, nodeID, err))
	}
	return res, nil
}

func (u *DiscoveryUnit) resolve(ctx context.Context, expanded string) (string, error) {
	id, err := u.client.ResolveNodeID(ctx, expanded)
	if err != nil {
		return "", errors.Wrap(ErrResolveNodeID, fmt.Errorf("%s: %w", expanded, err))
	}
	return id, nil
}

func (u *DiscoveryUnit) setComponent(key string, child *DiscoveryUnit) {
	if i, ok := u.componentIndex[key]; ok {
		u.components[i].unit = child
		return
	}
	u.componentIndex[key] = len(u.components)
	u.components = append(u.components, component{key: key, unit: child})
}

func copyValues(m map[string]Value) map[string]Value {
	c := make(map[string]Value, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
