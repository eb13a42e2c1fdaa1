// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/absmach/uadiscovery"
	"github.com/absmach/uadiscovery/machinery"
)

var (
	_ uadiscovery.Response = (*listMachinesRes)(nil)
	_ uadiscovery.Response = (*snapshotRes)(nil)
)

type listMachinesRes struct {
	Total    int                    `json:"total"`
	Machines []machinery.MachineRef `json:"machines"`
}

func (res listMachinesRes) Code() int {
	return http.StatusOK
}

func (res listMachinesRes) Headers() map[string]string {
	return map[string]string{}
}

func (res listMachinesRes) Empty() bool {
	return false
}

type snapshotRes struct {
	machinery.Snapshot
}

func (res snapshotRes) Code() int {
	return http.StatusOK
}

func (res snapshotRes) Headers() map[string]string {
	return map[string]string{}
}

func (res snapshotRes) Empty() bool {
	return false
}
