// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response — success or failure — uses the same envelope:
//
//	{success, message, data?, meta?, error?, errorSource?, stack?}
//
// so clients need exactly one parsing path. [Error] is the single place in
// the system where an error becomes a status code and a body; intermediate
// layers never reinterpret failures.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/ctxutil"
	"github.com/maestroride/maestro/internal/platform/dberr"
)

// Meta is the metadata block attached to list responses.
type Meta struct {
	Total int `json:"total"`
}

// Envelope is the uniform JSON body for every API response.
type Envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    interface{}          `json:"data,omitempty"`
	Meta    *Meta                `json:"meta,omitempty"`
	Error   string               `json:"error,omitempty"`
	Source  []apperr.SourceError `json:"errorSource,omitempty"`
	Stack   string               `json:"stack,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with a catalog message and optional data.
func OK(writer http.ResponseWriter, msg string, data interface{}) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Message: msg, Data: data})
}

// Created writes a 201 Created response.
func Created(writer http.ResponseWriter, msg string, data interface{}) {
	JSON(writer, http.StatusCreated, Envelope{Success: true, Message: msg, Data: data})
}

// List writes a 200 OK response with list data and a metadata block.
func List(writer http.ResponseWriter, msg string, data interface{}, metadata Meta) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Message: msg, Data: data, Meta: &metadata})
}

// NotFoundRoute writes the uniform 404 fallback body naming the unmatched path.
func NotFoundRoute(writer http.ResponseWriter, msg string) {
	JSON(writer, http.StatusNotFound, Envelope{Success: false, Message: msg})
}

// Error is the error normalizer: it converts any Go error into the standard
// failure envelope, classifying it exactly once.
//
// # Mapping
//
//  1. Typed [*apperr.AppError] — its own status, message, and source entries.
//  2. Storage failure shapes (unique violation, id cast, check violation,
//     no rows) via [dberr.Classify].
//  3. Anything else — 500 with a generic message.
//
// Raw error text and a stack trace are attached only in development mode.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)

	if appError == nil {
		appError = dberr.Classify(err)
	}

	if appError == nil {
		// Unexpected internal error: log full details but hide them from the
		// client in production.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.Int("status", appError.HTTPStatus),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	envelope := Envelope{
		Success: false,
		Message: appError.Message,
		Source:  appError.Source,
	}

	// Development mode attaches the raw error and a stack trace for debugging.
	// These fields are always omitted otherwise.
	if ctxutil.IsDevMode(request.Context()) {
		envelope.Error = err.Error()
		envelope.Stack = string(debug.Stack())
	}

	JSON(writer, appError.HTTPStatus, envelope)
}
