// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package machinery

import (
	"context"
	"fmt"

	"github.com/absmach/uadiscovery/pkg/errors"
)

const (
	// ObjectsFolder is the node id of the standard Objects folder.
	ObjectsFolder = "i=85"

	// MachinesFolder is the browse name of the folder machines are
	// organized under.
	MachinesFolder = "Machines"
)

// MachineRef points at a machine instance of a server.
type MachineRef struct {
	NodeID      string `json:"node_id"`
	BrowseName  string `json:"browse_name"`
	DisplayName string `json:"display_name"`
}

// ListMachines returns the machines organized under Objects/Machines.
func ListMachines(ctx context.Context, client DirectoryClient) ([]MachineRef, error) {
	objects, err := organized(ctx, client, ObjectsFolder)
	if err != nil {
		return nil, err
	}
	folder := ""
	for _, ref := range objects {
		if ref.BrowseName.Name == MachinesFolder {
			folder = ref.NodeID
			break
		}
	}
	if folder == "" {
		return nil, ErrMachinesFolderNotFound
	}
	folderID, err := client.ResolveNodeID(ctx, folder)
	if err != nil {
		return nil, errors.Wrap(ErrResolveNodeID, fmt.Errorf("%s: %w", folder, err))
	}

	refs, err := organized(ctx, client, folderID)
	if err != nil {
		return nil, err
	}
	machines := make([]MachineRef, 0, len(refs))
	for _, ref := range refs {
		id, err := client.ResolveNodeID(ctx, ref.NodeID)
		if err != nil {
			return nil, errors.Wrap(ErrResolveNodeID, fmt.Errorf("%s: %w", ref.NodeID, err))
		}
		machines = append(machines, MachineRef{
			NodeID:      id,
			BrowseName:  ref.BrowseName.String(),
			DisplayName: ref.DisplayName,
		})
	}

	return machines, nil
}

func organized(ctx context.Context, client DirectoryClient, nodeID string) ([]ReferenceDescription, error) {
	res, err := client.Browse(ctx, BrowseDescription{
		NodeID:          nodeID,
		Direction:       BrowseForward,
		ReferenceType:   Organizes,
		IncludeSubtypes: true,
	})
	if err != nil {
		return nil, errors.Wrap(ErrBrowse, fmt.Errorf("%s of %s: %w", Organizes, nodeID, err))
	}
	if !res.Status.IsGood() {
		return nil, errors.Wrap(ErrBrowse, fmt.Errorf("%s of %s: status %s", Organizes, nodeID, res.Status))
	}
	return res.References, nil
}
