// Copyright (c) 2026 Maestro Platform. All rights reserved.

package users

import (
	"context"
)

// Repository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresRepository]). Tests
// substitute an in-memory fake.
type Repository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns an error satisfying [apperr.As] with status 404 if the account
	// does not exist. Soft-deleted rows ARE returned: the guard and the
	// lifecycle service decide how deletion surfaces, not the store.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given (lowercased) email.
	//
	// Returns a 404-shaped error if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns every account, newest first.
	FindAll(ctx context.Context) ([]User, error)

	// Create persists a brand-new account.
	//
	// The unique email index is the authority for uniqueness: a duplicate
	// create that races past the service pre-check must still fail here and
	// surface through the normalizer's duplicate-key path.
	Create(ctx context.Context, user *User) error

	// Update persists the full mutable state of an existing account,
	// including the soft-delete flag.
	Update(ctx context.Context, user *User) error
}
