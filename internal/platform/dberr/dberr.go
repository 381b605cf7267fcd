// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Package dberr provides a bridge between low-level PostgreSQL errors and
// the application error contract.
//
// # Error Mapping
//
// Storage errors flow raw (wrapped with %w) out of repositories and are
// classified exactly once at the response boundary:
//
//   - unique-constraint violation (23505) -> 400 naming the duplicated value
//   - invalid id text representation (22P02) -> 400 naming _id
//   - check-constraint violation (23514) -> 400 naming the constraint
//   - no rows -> 404
//
// Everything else stays unclassified and degrades to 500 upstream.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/message"
)

// Classify inspects err's chain for database failure shapes and returns the
// corresponding [*apperr.AppError], or nil when the error is not a
// recognizable storage failure.
func Classify(err error) *apperr.AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(message.For(message.NotFound, "resource"))
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		// The duplicated value is data (an email), so it is spliced into the
		// catalog sentence verbatim rather than through the capitalizer.
		value := duplicateValue(pgErr.Detail)
		return apperr.AlreadyExists(
			value+" already exists. Please use a different one or log in.",
			apperr.SourceError{Path: value, Message: "Duplicate key error"},
		)

	case pgerrcode.InvalidTextRepresentation:
		castErr := apperr.BadRequest(message.For(message.NotFound, "Object ID"))
		castErr.Source = []apperr.SourceError{{Path: "_id", Message: "Invalid ObjectId"}}
		return castErr

	case pgerrcode.CheckViolation:
		return apperr.Validation(
			"Validation error",
			apperr.SourceError{Path: pgErr.ConstraintName, Message: pgErr.Message},
		)
	}

	return nil
}

// duplicateValue extracts the offending value from a unique-violation detail
// line, e.g. `Key (email)=(a@x.com) already exists.` yields "a@x.com".
// Falls back to the constraint name when the detail is not in that shape.
func duplicateValue(detail string) string {
	start := strings.Index(detail, ")=(")
	if start == -1 {
		return "value"
	}
	rest := detail[start+3:]
	end := strings.Index(rest, ")")
	if end == -1 {
		return "value"
	}
	return rest[:end]
}
