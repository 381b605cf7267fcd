// Copyright (c) 2026 Maestro Platform. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/ctxutil"
	"github.com/maestroride/maestro/internal/platform/message"
	"github.com/maestroride/maestro/internal/platform/sec"
	"github.com/maestroride/maestro/internal/platform/validate"
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
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated actor claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.SessionClaims {
	return ctxutil.GetActor(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the actor claims.

Returns:
  - *sec.SessionClaims: The authenticated actor claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.SessionClaims, error) {

	// Get actor claims
	claims := ctxutil.GetActor(request.Context())

	// If the request is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized(message.For(message.NotFound, "token"))
	}

	return claims, nil
}
