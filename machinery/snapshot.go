// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

// Monitoring is reserved for live machine state merged by the monitoring
// subsystem. Discovery always leaves it nil.
type Monitoring struct{}

// Snapshot is the serializable view of a discovered unit and its components.
type Snapshot struct {
	NodeID         string           `json:"NodeId"`
	Attributes     map[string]Value `json:"Attributes"`
	References     map[string]Value `json:"References"`
	Identification map[string]Value `json:"Identification"`
	Components     []Snapshot       `json:"Components"`
	ItemState      string           `json:"MachineryItemState"`
	OperationMode  string           `json:"MachineryOperationMode"`
	Monitoring     *Monitoring      `json:"Monitoring"`
}

// Snapshot builds a snapshot of the unit. It issues no remote calls and
// successive calls return equal, independent values.
func (u *DiscoveryUnit) Snapshot() Snapshot {
	s := Snapshot{
		NodeID:         u.nodeID,
		Attributes:     copyValues(u.attributes),
		References:     copyValues(u.references),
		Identification: copyValues(u.identification),
		Components:     make([]Snapshot, 0, len(u.components)),
		ItemState:      u.ItemState,
		OperationMode:  u.OperationMode,
	}
	for _, c := range u.components {
		s.Components = append(s.Components, c.unit.Snapshot())
	}

	return s
}

// Units counts the snapshot and all of its nested components.
func (s Snapshot) Units() int {
	n := 1
	for _, c := range s.Components {
		n += c.Units()
	}
	return n
}
