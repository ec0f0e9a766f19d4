// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads path parameters, bodies and the caller from
// incoming requests.
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/internal/platform/validate"
)

const maxBodyBytes = 1 << 20

/*
DecodeAndValidate decodes one JSON document from the body into target and
checks its `validate` struct tags.

Unknown fields are ignored, so read-only attributes sent by a client (a
role on /users/me, an id) have no effect.

Returns:
  - error: validate.ErrInvalidJSON, a VALIDATION_ERROR naming the fields, or nil
*/
func DecodeAndValidate(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.ValidationError("Request body too large")
		}
		return validate.ErrInvalidJSON
	}
	if decoder.More() {
		return validate.ErrInvalidJSON
	}
	return validate.Payload(target)
}

func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Int64 parses a positive numeric path parameter. Anything else cannot
// address a row and is reported as NOT_FOUND for resource.
func Int64(request *http.Request, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}

// Actor is the caller, anonymous when the request carried no token.
func Actor(request *http.Request) access.Actor {
	return ctxutil.GetActor(request.Context())
}
