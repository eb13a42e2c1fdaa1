// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"context"
	"fmt"

	"github.com/absmach/uadiscovery/pkg/errors"
)

// Add-in roles recognized by browse name.
const (
	IdentificationAddIn = "Identification"
	ComponentsAddIn     = "Components"
)

type addIn struct {
	ref    ReferenceDescription
	nodeID string
	name   string
	named  bool
	loaded bool
}

func (u *DiscoveryUnit) classifyAddIns(ctx context.Context) error {
	res, err := u.browse(ctx, u.nodeID, HasAddIn)
	if err != nil {
		return err
	}
	if !res.Status.IsGood() {
		return nil
	}
	u.addIns = make([]*addIn, 0, len(res.References))
	for _, ref := range res.References {
		u.addIns = append(u.addIns, &addIn{ref: ref})
	}

	return nil
}

// addInFor returns the first add-in whose browse name matches role. Browse
// names are read from the server once per add-in.
func (u *DiscoveryUnit) addInFor(ctx context.Context, role string) (*addIn, bool, error) {
	for _, a := range u.addIns {
		if err := u.loadAddIn(ctx, a); err != nil {
			return nil, false, err
		}
		if a.named && a.name == role {
			return a, true, nil
		}
	}
	return nil, false, nil
}

func (u *DiscoveryUnit) loadAddIn(ctx context.Context, a *addIn) error {
	if a.loaded {
		return nil
	}
	id, err := u.resolve(ctx, a.ref.NodeID)
	if err != nil {
		return err
	}
	results, err := u.read(ctx, ReadValueID{NodeID: id, AttributeID: AttributeBrowseName})
	if err != nil {
		return err
	}
	a.nodeID = id
	a.loaded = true
	if !results[0].Status.IsGood() {
		return nil
	}
	if qn, ok := results[0].Value.QualifiedName(); ok {
		a.name, a.named = qn.Name, true
		return nil
	}
	if s, ok := results[0].Value.Str(); ok {
		a.name, a.named = s, true
	}

	return nil
}

func (u *DiscoveryUnit) expandComponents(ctx context.Context) error {
	addIn, ok, err := u.addInFor(ctx, ComponentsAddIn)
	if err != nil || !ok {
		return err
	}
	res, err := u.browse(ctx, addIn.nodeID, HasComponent)
	if err != nil {
		return err
	}
	if !res.Status.IsGood() {
		return nil
	}
	for _, ref := range res.References {
		if u.depth+1 > u.opts.maxDepth() {
			return errors.Wrap(ErrMaxDepthExceeded, fmt.Errorf("component %s of %s at depth %d", ref.NodeID, u.nodeID, u.depth+1))
		}
		childID, err := u.resolve(ctx, ref.NodeID)
		if err != nil {
			return err
		}
		child := newUnit(u.client, childID, KindComponent, u.opts, u.depth+1)
		if err := child.Initialize(ctx); err != nil {
			return err
		}
		u.setComponent(ref.NodeID, child)
	}

	return nil
}
