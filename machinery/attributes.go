// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"context"
	"fmt"

	"github.com/absmach/uadiscovery/pkg/errors"
)

// TypeDefinitionKey is the References key holding the type display name.
const TypeDefinitionKey = "TypeDefinition"

var descriptiveAttributes = []struct {
	name string
	id   AttributeID
}{
	{"DisplayName", AttributeDisplayName},
	{"BrowseName", AttributeBrowseName},
	{"Description", AttributeDescription},
}

func (u *DiscoveryUnit) loadAttributes(ctx context.Context) error {
	nodes := make([]ReadValueID, 0, len(descriptiveAttributes))
	for _, attr := range descriptiveAttributes {
		nodes = append(nodes, ReadValueID{NodeID: u.nodeID, AttributeID: attr.id})
	}
	results, err := u.read(ctx, nodes...)
	if err != nil {
		return err
	}
	for i, attr := range descriptiveAttributes {
		if !results[i].Status.IsGood() {
			continue
		}
		u.attributes[attr.name] = attributeText(results[i].Value)
	}

	return nil
}

func (u *DiscoveryUnit) resolveType(ctx context.Context) error {
	res, err := u.browse(ctx, u.nodeID, HasTypeDefinition)
	if err != nil {
		return err
	}
	refs := res.References
	switch {
	case len(refs) == 0:
		if !u.opts.LenientTypeDefinition {
			return errors.Wrap(ErrMissingTypeDefinition, fmt.Errorf("node %s", u.nodeID))
		}
		u.opts.diagnostics().Warn(ctx, Warning{
			Code:    WarnMissingTypeDefinition,
			NodeID:  u.nodeID,
			Message: "node has no type definition",
		})
		return nil
	case len(refs) > 1:
		u.opts.diagnostics().Warn(ctx, Warning{
			Code:    WarnMultipleTypeDefinitions,
			NodeID:  u.nodeID,
			Message: fmt.Sprintf("node has %d type definitions, using the first", len(refs)),
		})
	}

	typeID, err := u.resolve(ctx, refs[0].NodeID)
	if err != nil {
		return err
	}
	results, err := u.read(ctx, ReadValueID{NodeID: typeID, AttributeID: AttributeDisplayName})
	if err != nil {
		return err
	}
	if results[0].Status.IsGood() {
		u.references[TypeDefinitionKey] = attributeText(results[0].Value)
	}

	return nil
}

func (u *DiscoveryUnit) loadIdentification(ctx context.Context) error {
	addIn, ok, err := u.addInFor(ctx, IdentificationAddIn)
	if err != nil || !ok {
		return err
	}
	res, err := u.browse(ctx, addIn.nodeID, HasProperty)
	if err != nil {
		return err
	}
	if !res.Status.IsGood() {
		return nil
	}
	for _, prop := range res.References {
		propID, err := u.resolve(ctx, prop.NodeID)
		if err != nil {
			return err
		}
		results, err := u.read(ctx,
			ReadValueID{NodeID: propID, AttributeID: AttributeValue},
			ReadValueID{NodeID: propID, AttributeID: AttributeDisplayName},
		)
		if err != nil {
			return err
		}
		if !results[0].Status.IsGood() {
			continue
		}
		key := prop.BrowseName.Name
		if results[1].Status.IsGood() {
			if lt, ok := results[1].Value.LocalizedText(); ok {
				key = lt.Text
			}
		}
		u.identification[key] = propertyValue(results[0].Value)
	}

	return nil
}

// attributeText flattens localized text and qualified names to strings.
func attributeText(v Value) Value {
	switch v.Kind() {
	case KindLocalizedText, KindQualifiedName:
		return String(v.String())
	default:
		return v
	}
}

func propertyValue(v Value) Value {
	if lt, ok := v.LocalizedText(); ok {
		return String(lt.Text)
	}
	return v
}
