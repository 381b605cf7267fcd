// Copyright (c) 2026 Maestro Platform. All rights reserved.

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/ctxutil"
	"github.com/maestroride/maestro/internal/platform/respond"
)

// decodedEnvelope mirrors the wire shape for assertions.
type decodedEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *respond.Meta   `json:"meta"`
	Error   string          `json:"error"`
	Source  []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"errorSource"`
	Stack string `json:"stack"`
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) decodedEnvelope {
	t.Helper()

	var envelope decodedEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func TestOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, "User details were successfully retrieved from the system.", map[string]string{"id": "u1"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	envelope := decode(t, recorder)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data)
}

func TestList_AttachesMeta(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.List(recorder, "Users details were successfully retrieved from the system.",
		[]string{"a", "b", "c"}, respond.Meta{Total: 3})

	envelope := decode(t, recorder)
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 3, envelope.Meta.Total)
}

func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/x", nil)

	respond.Error(recorder, request, apperr.Forbidden("RIDER access is forbidden. You are not allowed to view or modify this resource."))

	assert.Equal(t, http.StatusForbidden, recorder.Code)

	envelope := decode(t, recorder)
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Message, "forbidden")
	assert.Empty(t, envelope.Error, "raw error text is a development-mode extra")
	assert.Empty(t, envelope.Stack)
}

func TestError_ClassifiesStorageFailures(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/x", nil)

	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (lower(email))=(dup@example.com) already exists.",
	}
	respond.Error(recorder, request, fmt.Errorf("postgres_users_create_failed: %w", pgErr))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	envelope := decode(t, recorder)
	assert.False(t, envelope.Success)
	require.Len(t, envelope.Source, 1)
	assert.Equal(t, "dup@example.com", envelope.Source[0].Path)
}

func TestError_UnknownBecomesInternal(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/x", nil)

	respond.Error(recorder, request, errors.New("connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	envelope := decode(t, recorder)
	assert.Equal(t, "Something went wrong!", envelope.Message)
	// The raw cause never leaks outside development mode.
	assert.Empty(t, envelope.Error)
	assert.Empty(t, envelope.Stack)
}

func TestError_DevModeAttachesDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/x", nil)
	request = request.WithContext(ctxutil.WithDevMode(request.Context(), true))

	respond.Error(recorder, request, errors.New("connection reset by peer"))

	envelope := decode(t, recorder)
	assert.Equal(t, "connection reset by peer", envelope.Error)
	assert.NotEmpty(t, envelope.Stack)
}

func TestNotFoundRoute(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.NotFoundRoute(recorder, "Route was not found. It may not exist or has been removed. --> /api/v1/nope <--")

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	envelope := decode(t, recorder)
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Message, "--> /api/v1/nope <--")
}
