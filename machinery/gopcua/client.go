// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package gopcua implements machinery.DirectoryClient on top of the gopcua
// OPC-UA client.
package gopcua

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/pkg/errors"
	opcuagopcua "github.com/gopcua/opcua"
	uagopcua "github.com/gopcua/opcua/ua"
)

const (
	// namespaceArrayID is the Server_NamespaceArray variable.
	namespaceArrayID = "i=2255"

	// maxBrowsePages bounds BrowseNext round trips for one node.
	maxBrowsePages = 1024
)

var (
	errFailedParseNodeID  = errors.New("failed to parse NodeID")
	errUnknownNamespace   = errors.New("namespace URI not registered on server")
	errRemoteServer       = errors.New("node belongs to a remote server")
	errResponseStatus     = errors.New("response status not OK")
	errMalformedResponse  = errors.New("unexpected number of results")
	errNamespaceArrayType = errors.New("namespace array is not a string array")
	errTooManyPages       = errors.New("browse did not complete within the page limit")
)

// nextPage fetches the page behind a continuation point, or releases the
// point when release is set.
type nextPage func(cp []byte, release bool) (*uagopcua.BrowseResult, error)

var _ machinery.Session = (*client)(nil)

type client struct {
	oc *opcuagopcua.Client

	mu         sync.Mutex
	namespaces []string
}

// NewSession wraps a connected gopcua client.
func NewSession(oc *opcuagopcua.Client) machinery.Session {
	return &client{oc: oc}
}

func (c *client) Read(ctx context.Context, nodes ...machinery.ReadValueID) ([]machinery.DataValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := &uagopcua.ReadRequest{
		MaxAge:             2000,
		TimestampsToReturn: uagopcua.TimestampsToReturnNeither,
		NodesToRead:        make([]*uagopcua.ReadValueID, 0, len(nodes)),
	}
	for _, n := range nodes {
		id, err := uagopcua.ParseNodeID(n.NodeID)
		if err != nil {
			return nil, errors.Wrap(errFailedParseNodeID, err)
		}
		req.NodesToRead = append(req.NodesToRead, &uagopcua.ReadValueID{
			NodeID:       id,
			AttributeID:  uagopcua.AttributeID(n.AttributeID),
			DataEncoding: &uagopcua.QualifiedName{},
		})
	}

	res, err := c.oc.Read(req)
	if err != nil {
		return nil, err
	}
	if len(res.Results) != len(nodes) {
		return nil, errMalformedResponse
	}

	values := make([]machinery.DataValue, 0, len(res.Results))
	for _, dv := range res.Results {
		if dv == nil {
			values = append(values, machinery.DataValue{Status: machinery.StatusBadNodeIDUnknown})
			continue
		}
		value := machinery.DataValue{Status: machinery.StatusCode(dv.Status)}
		if dv.Status == uagopcua.StatusOK && dv.Value != nil {
			value.Value = decode(dv.Value.Value())
		}
		values = append(values, value)
	}

	return values, nil
}

func (c *client) Browse(ctx context.Context, desc machinery.BrowseDescription) (machinery.BrowseResult, error) {
	if err := ctx.Err(); err != nil {
		return machinery.BrowseResult{}, err
	}
	id, err := uagopcua.ParseNodeID(desc.NodeID)
	if err != nil {
		return machinery.BrowseResult{}, errors.Wrap(errFailedParseNodeID, err)
	}
	req := &uagopcua.BrowseRequest{
		View: &uagopcua.ViewDescription{
			ViewID: uagopcua.NewTwoByteNodeID(0),
		},
		RequestedMaxReferencesPerNode: 0,
		NodesToBrowse: []*uagopcua.BrowseDescription{
			{
				NodeID:          id,
				BrowseDirection: uagopcua.BrowseDirection(desc.Direction),
				ReferenceTypeID: uagopcua.NewNumericNodeID(0, uint32(desc.ReferenceType)),
				IncludeSubtypes: desc.IncludeSubtypes,
				NodeClassMask:   uint32(uagopcua.NodeClassAll),
				ResultMask:      uint32(uagopcua.BrowseResultMaskAll),
			},
		},
	}

	res, err := c.oc.Browse(req)
	if err != nil {
		return machinery.BrowseResult{}, err
	}
	if len(res.Results) != 1 || res.Results[0] == nil {
		return machinery.BrowseResult{}, errMalformedResponse
	}

	return collect(ctx, res.Results[0], c.browseNext)
}

func (c *client) browseNext(cp []byte, release bool) (*uagopcua.BrowseResult, error) {
	res, err := c.oc.BrowseNext(&uagopcua.BrowseNextRequest{
		ReleaseContinuationPoints: release,
		ContinuationPoints:        [][]byte{cp},
	})
	if err != nil {
		return nil, err
	}
	if release {
		return nil, nil
	}
	if len(res.Results) != 1 || res.Results[0] == nil {
		return nil, errMalformedResponse
	}
	return res.Results[0], nil
}

// collect follows continuation points from first until the server reports
// no more references, and converts every page. The pending continuation
// point is released when paging stops early.
func collect(ctx context.Context, first *uagopcua.BrowseResult, next nextPage) (machinery.BrowseResult, error) {
	result := machinery.BrowseResult{
		Status:     machinery.StatusCode(first.StatusCode),
		References: make([]machinery.ReferenceDescription, 0, len(first.References)),
	}
	page := first
	for pages := 1; ; pages++ {
		result.References = appendReferences(result.References, page.References)
		cp := page.ContinuationPoint
		if len(cp) == 0 || page.StatusCode != uagopcua.StatusOK {
			result.Status = machinery.StatusCode(page.StatusCode)
			return result, nil
		}
		if err := ctx.Err(); err != nil {
			_, _ = next(cp, true)
			return machinery.BrowseResult{}, err
		}
		if pages >= maxBrowsePages {
			_, _ = next(cp, true)
			return machinery.BrowseResult{}, errTooManyPages
		}
		var err error
		if page, err = next(cp, false); err != nil {
			_, _ = next(cp, true)
			return machinery.BrowseResult{}, err
		}
	}
}

func appendReferences(refs []machinery.ReferenceDescription, page []*uagopcua.ReferenceDescription) []machinery.ReferenceDescription {
	for _, ref := range page {
		if ref == nil || ref.NodeID == nil || ref.NodeID.NodeID == nil {
			continue
		}
		rd := machinery.ReferenceDescription{
			NodeID: expandedNodeID(ref.NodeID.ServerIndex, ref.NodeID.NamespaceURI, ref.NodeID.NodeID.String()),
		}
		if ref.BrowseName != nil {
			rd.BrowseName = machinery.QualifiedName{NamespaceIndex: ref.BrowseName.NamespaceIndex, Name: ref.BrowseName.Name}
		}
		if ref.DisplayName != nil {
			rd.DisplayName = ref.DisplayName.Text
		}
		refs = append(refs, rd)
	}
	return refs
}

func (c *client) ResolveNodeID(ctx context.Context, expanded string) (string, error) {
	if !strings.HasPrefix(expanded, "nsu=") && !strings.HasPrefix(expanded, "svr=") {
		if _, err := uagopcua.ParseNodeID(expanded); err != nil {
			return "", errors.Wrap(errFailedParseNodeID, err)
		}
		return expanded, nil
	}
	namespaces, err := c.namespaceArray(ctx)
	if err != nil {
		return "", err
	}

	return localNodeID(expanded, namespaces)
}

func (c *client) Close() error {
	return c.oc.Close()
}

func (c *client) namespaceArray(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.namespaces != nil {
		return c.namespaces, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := uagopcua.ParseNodeID(namespaceArrayID)
	if err != nil {
		return nil, errors.Wrap(errFailedParseNodeID, err)
	}
	res, err := c.oc.Read(&uagopcua.ReadRequest{
		MaxAge:             2000,
		TimestampsToReturn: uagopcua.TimestampsToReturnNeither,
		NodesToRead: []*uagopcua.ReadValueID{
			{NodeID: id, AttributeID: uagopcua.AttributeIDValue, DataEncoding: &uagopcua.QualifiedName{}},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Results) != 1 || res.Results[0] == nil {
		return nil, errMalformedResponse
	}
	if res.Results[0].Status != uagopcua.StatusOK || res.Results[0].Value == nil {
		return nil, errors.Wrap(errResponseStatus, fmt.Errorf("namespace array: %s", machinery.StatusCode(res.Results[0].Status)))
	}
	namespaces, ok := res.Results[0].Value.Value().([]string)
	if !ok {
		return nil, errNamespaceArrayType
	}
	c.namespaces = namespaces

	return c.namespaces, nil
}

// expandedNodeID renders a reference target with its server index and
// namespace URI prefixes.
func expandedNodeID(serverIndex uint32, namespaceURI, nodeID string) string {
	var b strings.Builder
	if serverIndex != 0 {
		fmt.Fprintf(&b, "svr=%d;", serverIndex)
	}
	if namespaceURI != "" {
		b.WriteString("nsu=")
		b.WriteString(namespaceURI)
		b.WriteString(";")
		nodeID = identifier(nodeID)
	}
	b.WriteString(nodeID)

	return b.String()
}

// localNodeID rewrites an expanded node id into "ns=<index>;<identifier>"
// using the server namespace array.
func localNodeID(expanded string, namespaces []string) (string, error) {
	rest := expanded
	if strings.HasPrefix(rest, "svr=") {
		end := strings.Index(rest, ";")
		if end < 0 {
			return "", errors.Wrap(errFailedParseNodeID, fmt.Errorf("%s", expanded))
		}
		idx, err := strconv.ParseUint(rest[len("svr="):end], 10, 32)
		if err != nil {
			return "", errors.Wrap(errFailedParseNodeID, err)
		}
		if idx != 0 {
			return "", errors.Wrap(errRemoteServer, fmt.Errorf("%s", expanded))
		}
		rest = rest[end+1:]
	}
	if !strings.HasPrefix(rest, "nsu=") {
		if _, err := uagopcua.ParseNodeID(rest); err != nil {
			return "", errors.Wrap(errFailedParseNodeID, err)
		}
		return rest, nil
	}

	// Namespace URIs may contain ';', the identifier starts at the last
	// "i=", "s=", "g=" or "b=" segment.
	sep := -1
	for _, prefix := range []string{";i=", ";s=", ";g=", ";b="} {
		if i := strings.LastIndex(rest, prefix); i > sep {
			sep = i
		}
	}
	if sep < 0 {
		return "", errors.Wrap(errFailedParseNodeID, fmt.Errorf("%s", expanded))
	}
	uri, id := rest[len("nsu="):sep], rest[sep+1:]
	for i, ns := range namespaces {
		if ns != uri {
			continue
		}
		local := id
		if i != 0 {
			local = fmt.Sprintf("ns=%d;%s", i, id)
		}
		if _, err := uagopcua.ParseNodeID(local); err != nil {
			return "", errors.Wrap(errFailedParseNodeID, err)
		}
		return local, nil
	}

	return "", errors.Wrap(errUnknownNamespace, fmt.Errorf("%s", uri))
}

// identifier strips the namespace index from a node id string.
func identifier(nodeID string) string {
	if strings.HasPrefix(nodeID, "ns=") {
		if i := strings.Index(nodeID, ";"); i >= 0 {
			return nodeID[i+1:]
		}
	}
	return nodeID
}

// decode converts a gopcua variant payload into a machinery.Value.
func decode(v interface{}) machinery.Value {
	switch val := v.(type) {
	case nil:
		return machinery.Null()
	case bool:
		return machinery.Bool(val)
	case int8:
		return machinery.Int(int64(val))
	case int16:
		return machinery.Int(int64(val))
	case int32:
		return machinery.Int(int64(val))
	case int64:
		return machinery.Int(val)
	case uint8:
		return machinery.Uint(uint64(val))
	case uint16:
		return machinery.Uint(uint64(val))
	case uint32:
		return machinery.Uint(uint64(val))
	case uint64:
		return machinery.Uint(val)
	case float32:
		return machinery.Float(float64(val))
	case float64:
		return machinery.Float(val)
	case string:
		return machinery.String(val)
	case time.Time:
		return machinery.Time(val)
	case *uagopcua.LocalizedText:
		if val == nil {
			return machinery.Null()
		}
		return machinery.Text(machinery.LocalizedText{Locale: val.Locale, Text: val.Text})
	case *uagopcua.QualifiedName:
		if val == nil {
			return machinery.Null()
		}
		return machinery.Name(machinery.QualifiedName{NamespaceIndex: val.NamespaceIndex, Name: val.Name})
	case *uagopcua.NodeID:
		if val == nil {
			return machinery.Null()
		}
		return machinery.String(val.String())
	case []string:
		return machinery.String(strings.Join(val, ", "))
	case []byte:
		return machinery.String(string(val))
	default:
		return machinery.String(fmt.Sprint(val))
	}
}
