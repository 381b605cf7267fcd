// Copyright (c) 2026 Maestro Platform. All rights reserved.

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestroride/maestro/internal/platform/dberr"
)

func TestClassify_NoRows(t *testing.T) {
	// Repositories wrap raw storage errors with %w; classification must see
	// through the wrapping.
	wrapped := fmt.Errorf("postgres_users_find_failed: %w", pgx.ErrNoRows)

	ae := dberr.Classify(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

func TestClassify_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (lower(email))=(dup@example.com) already exists.",
	}
	wrapped := fmt.Errorf("postgres_users_create_failed: %w", pgErr)

	ae := dberr.Classify(wrapped)
	require.NotNil(t, ae)

	// Duplicates map to 400, never 409.
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "dup@example.com already exists. Please use a different one or log in.", ae.Message)

	require.Len(t, ae.Source, 1)
	assert.Equal(t, "dup@example.com", ae.Source[0].Path)
	assert.Equal(t, "Duplicate key error", ae.Source[0].Message)
}

func TestClassify_UniqueViolation_UnparseableDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, Detail: "weird detail"}

	ae := dberr.Classify(pgErr)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "value", ae.Source[0].Path)
}

func TestClassify_InvalidTextRepresentation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    pgerrcode.InvalidTextRepresentation,
		Message: `invalid input syntax for type uuid: "not-a-uuid"`,
	}

	ae := dberr.Classify(pgErr)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)

	require.Len(t, ae.Source, 1)
	assert.Equal(t, "_id", ae.Source[0].Path)
	assert.Equal(t, "Invalid ObjectId", ae.Source[0].Message)
}

func TestClassify_CheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.CheckViolation,
		ConstraintName: "account_driver_vehicle_check",
		Message:        `new row violates check constraint "account_driver_vehicle_check"`,
	}

	ae := dberr.Classify(pgErr)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "account_driver_vehicle_check", ae.Source[0].Path)
}

func TestClassify_Unrecognized(t *testing.T) {
	assert.Nil(t, dberr.Classify(nil))
	assert.Nil(t, dberr.Classify(errors.New("network unreachable")))

	// Other SQLSTATEs stay unclassified and degrade to 500 upstream.
	assert.Nil(t, dberr.Classify(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
}
