// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/absmach/uadiscovery"
	"github.com/absmach/uadiscovery/machinery"
	"github.com/absmach/uadiscovery/pkg/apiutil"
	"github.com/absmach/uadiscovery/pkg/errors"
)

const (
	ServerKey = "server"
	NodeKey   = "node"

	// ContentType represents JSON content type.
	ContentType = "application/json"
)

// EncodeResponse encodes successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(uadiscovery.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrValidation),
		errors.Contains(err, apiutil.ErrMissingServerURI),
		errors.Contains(err, apiutil.ErrInvalidServerURI),
		errors.Contains(err, apiutil.ErrMissingNodeID),
		errors.Contains(err, apiutil.ErrInvalidNodeID),
		errors.Contains(err, apiutil.ErrInvalidQueryParams):
		err = unwrap(err)
		w.WriteHeader(http.StatusBadRequest)

	case errors.Contains(err, errors.ErrNotFound):
		err = unwrap(err)
		w.WriteHeader(http.StatusNotFound)

	case errors.Contains(err, machinery.ErrMissingTypeDefinition),
		errors.Contains(err, machinery.ErrMaxDepthExceeded),
		errors.Contains(err, machinery.ErrMachinesFolderNotFound):
		w.WriteHeader(http.StatusUnprocessableEntity)

	case errors.Contains(err, machinery.ErrConnect):
		err = unwrap(err)
		w.WriteHeader(http.StatusBadGateway)

	case errors.Contains(err, errors.ErrUnsupportedContentType):
		err = unwrap(err)
		w.WriteHeader(http.StatusUnsupportedMediaType)

	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func unwrap(err error) error {
	wrapper, err := errors.Unwrap(err)
	if wrapper != nil {
		return wrapper
	}
	return err
}
