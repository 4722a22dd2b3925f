// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Actor returns the access result resolved for this request by the access middleware.

Returns:
  - access.ManagerAccess: The caller's capabilities
  - error: apperr.Unauthorized if the request never went through the resolver
*/
func Actor(request *http.Request) (access.ManagerAccess, error) {
	actor, ok := access.ManagerAccessFrom(request.Context())
	if !ok {
		return access.ManagerAccess{}, apperr.Unauthorized("Authentication required")
	}
	return actor, nil
}

/*
QueryDate parses an optional YYYY-MM-DD query parameter.

Returns:
  - *time.Time: nil when the parameter is absent
  - error: a validation error naming the parameter when it is malformed
*/
func QueryDate(request *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(validate.DateLayout, raw)
	if err != nil {
		return nil, validate.RequiredError(name, "Must be a date in YYYY-MM-DD format")
	}
	return &parsed, nil
}
