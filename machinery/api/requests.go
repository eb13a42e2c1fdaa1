// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/url"

	"github.com/absmach/uadiscovery/pkg/apiutil"
	"github.com/gopcua/opcua/ua"
)

const opcTCPScheme = "opc.tcp"

type listMachinesReq struct {
	ServerURI string
}

func (req listMachinesReq) validate() error {
	return validateServerURI(req.ServerURI)
}

type machineReq struct {
	ServerURI string
	NodeID    string
}

func (req machineReq) validate() error {
	if err := validateServerURI(req.ServerURI); err != nil {
		return err
	}
	if req.NodeID == "" {
		return apiutil.ErrMissingNodeID
	}
	if _, err := ua.ParseNodeID(req.NodeID); err != nil {
		return apiutil.ErrInvalidNodeID
	}

	return nil
}

func validateServerURI(serverURI string) error {
	if serverURI == "" {
		return apiutil.ErrMissingServerURI
	}
	u, err := url.Parse(serverURI)
	if err != nil || u.Scheme != opcTCPScheme || u.Host == "" {
		return apiutil.ErrInvalidServerURI
	}

	return nil
}
