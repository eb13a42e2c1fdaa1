// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/absmach/uadiscovery/logger"
	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/machinery/api"
	"github.com/absmach/uadiscovery/machinery/mocks"
	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	serverURI = "opc.tcp://localhost:4840"
	machineID = "ns=2;i=1000"
)

var snapshot = machinery.Snapshot{
	NodeID:         machineID,
	Attributes:     map[string]machinery.Value{"DisplayName": machinery.String("Press")},
	References:     map[string]machinery.Value{"TypeDefinition": machinery.String("MachineType")},
	Identification: map[string]machinery.Value{"SerialNumber": machinery.Int(42)},
	Components:     []machinery.Snapshot{},
}

type testRequest struct {
	client *http.Client
	method string
	url    string
	body   io.Reader
}

func (tr testRequest) make() (*http.Response, error) {
	req, err := http.NewRequest(tr.method, tr.url, tr.body)
	if err != nil {
		return nil, err
	}

	return tr.client.Do(req)
}

func newMachineryServer() (*httptest.Server, *mocks.Service) {
	svc := new(mocks.Service)

	mux := api.MakeHandler(svc, logger.NewMock(), "machinery", "test")
	return httptest.NewServer(mux), svc
}

func query(server, node string) string {
	values := url.Values{}
	if server != "" {
		values.Set("server", server)
	}
	if node != "" {
		values.Set("node", node)
	}
	return values.Encode()
}

func TestListMachinesEndpoint(t *testing.T) {
	ms, svc := newMachineryServer()
	defer ms.Close()

	machines := []machinery.MachineRef{{NodeID: machineID, BrowseName: "2:Press", DisplayName: "Press"}}

	cases := []struct {
		desc   string
		query  string
		status int
		svcRes []machinery.MachineRef
		svcErr error
	}{
		{
			desc:   "list machines successfully",
			query:  query(serverURI, ""),
			status: http.StatusOK,
			svcRes: machines,
		},
		{
			desc:   "list machines with missing server",
			query:  "",
			status: http.StatusBadRequest,
		},
		{
			desc:   "list machines with non opc.tcp server",
			query:  query("http://localhost:4840", ""),
			status: http.StatusBadRequest,
		},
		{
			desc:   "list machines with duplicated server",
			query:  "server=opc.tcp://a:4840&server=opc.tcp://b:4840",
			status: http.StatusBadRequest,
		},
		{
			desc:   "list machines of unreachable server",
			query:  query(serverURI, ""),
			status: http.StatusBadGateway,
			svcErr: errors.Wrap(machinery.ErrConnect, errors.New("dial tcp: connection refused")),
		},
		{
			desc:   "list machines without machines folder",
			query:  query(serverURI, ""),
			status: http.StatusUnprocessableEntity,
			svcErr: machinery.ErrMachinesFolderNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svcCall := svc.On("ListMachines", mock.Anything, serverURI).Return(tc.svcRes, tc.svcErr)
			req := testRequest{
				client: ms.Client(),
				method: http.MethodGet,
				url:    ms.URL + "/machines?" + tc.query,
			}

			resp, err := req.make()
			require.Nil(t, err, tc.desc)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode, tc.desc)
			if tc.status == http.StatusOK {
				var body struct {
					Total    int                    `json:"total"`
					Machines []machinery.MachineRef `json:"machines"`
				}
				err := json.NewDecoder(resp.Body).Decode(&body)
				assert.Nil(t, err, fmt.Sprintf("%s: unexpected error %s", tc.desc, err))
				assert.Equal(t, len(tc.svcRes), body.Total, tc.desc)
				assert.Equal(t, tc.svcRes, body.Machines, tc.desc)
			}
			svcCall.Unset()
		})
	}
}

func TestDiscoverEndpoint(t *testing.T) {
	ms, svc := newMachineryServer()
	defer ms.Close()

	cases := []struct {
		desc   string
		query  string
		status int
		svcErr error
	}{
		{
			desc:   "discover successfully",
			query:  query(serverURI, machineID),
			status: http.StatusOK,
		},
		{
			desc:   "discover with missing node",
			query:  query(serverURI, ""),
			status: http.StatusBadRequest,
		},
		{
			desc:   "discover with missing server",
			query:  query("", machineID),
			status: http.StatusBadRequest,
		},
		{
			desc:   "discover with malformed node",
			query:  query(serverURI, "ns=x;i=1"),
			status: http.StatusBadRequest,
		},
		{
			desc:   "discover with unknown identifier type",
			query:  query(serverURI, "ns=2;q=1000"),
			status: http.StatusBadRequest,
		},
		{
			desc:   "discover with duplicated node",
			query:  query(serverURI, machineID) + "&node=i=85",
			status: http.StatusBadRequest,
		},
		{
			desc:   "discover machine without type definition",
			query:  query(serverURI, machineID),
			status: http.StatusUnprocessableEntity,
			svcErr: errors.Wrap(machinery.ErrMissingTypeDefinition, errors.New("node ns=2;i=1000")),
		},
		{
			desc:   "discover with transport failure",
			query:  query(serverURI, machineID),
			status: http.StatusInternalServerError,
			svcErr: errors.Wrap(machinery.ErrBrowse, errors.New("EOF")),
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svcCall := svc.On("Discover", mock.Anything, serverURI, machineID).Return(snapshot, tc.svcErr)
			req := testRequest{
				client: ms.Client(),
				method: http.MethodGet,
				url:    ms.URL + "/machines/discover?" + tc.query,
			}

			resp, err := req.make()
			require.Nil(t, err, tc.desc)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode, tc.desc)
			if tc.status == http.StatusOK {
				var body map[string]interface{}
				err := json.NewDecoder(resp.Body).Decode(&body)
				assert.Nil(t, err, fmt.Sprintf("%s: unexpected error %s", tc.desc, err))
				assert.Equal(t, machineID, body["NodeId"], tc.desc)
				assert.Equal(t, map[string]interface{}{"SerialNumber": float64(42)}, body["Identification"], tc.desc)
				assert.Equal(t, []interface{}{}, body["Components"], tc.desc)
				assert.Contains(t, body, "Monitoring", tc.desc)
			}
			svcCall.Unset()
		})
	}
}

func TestViewSnapshotEndpoint(t *testing.T) {
	ms, svc := newMachineryServer()
	defer ms.Close()

	cases := []struct {
		desc   string
		query  string
		status int
		svcErr error
	}{
		{
			desc:   "view snapshot successfully",
			query:  query(serverURI, machineID),
			status: http.StatusOK,
		},
		{
			desc:   "view missing snapshot",
			query:  query(serverURI, machineID),
			status: http.StatusNotFound,
			svcErr: errors.Wrap(errors.ErrViewEntity, errors.ErrNotFound),
		},
		{
			desc:   "view snapshot with malformed node",
			query:  query(serverURI, "ns=x;i=1"),
			status: http.StatusBadRequest,
		},
		{
			desc:   "view snapshot with invalid server",
			query:  query("opc.tcp://", machineID),
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svcCall := svc.On("ViewSnapshot", mock.Anything, serverURI, machineID).Return(snapshot, tc.svcErr)
			req := testRequest{
				client: ms.Client(),
				method: http.MethodGet,
				url:    ms.URL + "/machines/snapshot?" + tc.query,
			}

			resp, err := req.make()
			require.Nil(t, err, tc.desc)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode, tc.desc)
			svcCall.Unset()
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	ms, _ := newMachineryServer()
	defer ms.Close()

	req := testRequest{
		client: ms.Client(),
		method: http.MethodGet,
		url:    ms.URL + "/health",
	}
	resp, err := req.make()
	require.Nil(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/health+json", resp.Header.Get("Content-Type"))
}
