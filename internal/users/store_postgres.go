// Copyright (c) 2026 Maestro Platform. All rights reserved.

package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/database/schema"
	"github.com/maestroride/maestro/internal/platform/message"
)

// PostgresRepository implements the [Repository] interface using pgx.
//
// # Error Mapping
//
// "No rows" becomes a 404-shaped [apperr.AppError] here; constraint
// violations (unique email, invariant checks) flow out RAW wrapped with %w so
// the response boundary classifies them through the duplicate-key and
// check-violation paths.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// accountColumns is the scan-order column list from the schema registry.
var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// Create persists a new account row into users.account.
func (repository *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		schema.UserAccount.Table, accountColumns,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	addressJSON, authsJSON, vehicleJSON, err := marshalEmbedded(user)
	if err != nil {
		return err
	}

	_, err = repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Phone,
		user.Avatar,
		addressJSON,
		authsJSON,
		user.Role,
		user.ActivityStatus,
		user.IsApproved,
		user.IsDeleted,
		vehicleJSON,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_users_create_failed: %w", err)
	}

	return nil
}

// FindByEmail retrieves an account by its unique, lowercased email address.
func (repository *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = lower($1)`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.Email,
	)

	user, err := repository.scanOne(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(message.For(message.NotFound, "user"))
		}
		return nil, fmt.Errorf("postgres_users_find_by_email_failed: %w", err)
	}

	return user, nil
}

// FindByID retrieves an account by its unique ID.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := repository.scanOne(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(message.For(message.NotFound, "user"))
		}
		return nil, fmt.Errorf("postgres_users_find_by_id_failed: %w", err)
	}

	return user, nil
}

// FindAll returns every account, newest first.
func (repository *PostgresRepository) FindAll(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_users_find_all_failed: %w", err)
	}
	defer rows.Close()

	accounts := make([]User, 0)
	for rows.Next() {
		user, err := repository.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_users_scan_failed: %w", err)
		}
		accounts = append(accounts, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_users_iterate_failed: %w", err)
	}

	return accounts, nil
}

// Update persists the full mutable state of an account, soft-delete flag
// included. Field-level constraints are re-checked by the row constraints.
func (repository *PostgresRepository) Update(ctx context.Context, user *User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6,
		    %s = $7, %s = $8, %s = $9, %s = $10,
		    %s = $11, %s = $12, %s = $13
		WHERE %s = $1`,
		account.Table,
		account.Name, account.Password, account.Phone, account.Avatar, account.Address,
		account.Auths, account.Role, account.ActivityStatus, account.IsApproved,
		account.IsDeleted, account.VehicleInfo, account.UpdatedAt,
		account.ID,
	)

	user.UpdatedAt = time.Now()

	addressJSON, authsJSON, vehicleJSON, err := marshalEmbedded(user)
	if err != nil {
		return err
	}

	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Password,
		user.Phone,
		user.Avatar,
		addressJSON,
		authsJSON,
		user.Role,
		user.ActivityStatus,
		user.IsApproved,
		user.IsDeleted,
		vehicleJSON,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_users_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(message.For(message.NotFound, "user"))
	}

	return nil
}

// # Row Mapping

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanOne maps one account row, decoding the JSONB sub-documents.
func (repository *PostgresRepository) scanOne(row rowScanner) (*User, error) {
	var (
		user        User
		addressJSON []byte
		authsJSON   []byte
		vehicleJSON []byte
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.Avatar,
		&addressJSON,
		&authsJSON,
		&user.Role,
		&user.ActivityStatus,
		&user.IsApproved,
		&user.IsDeleted,
		&vehicleJSON,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(addressJSON) > 0 {
		user.Address = &Address{}
		if err := json.Unmarshal(addressJSON, user.Address); err != nil {
			return nil, fmt.Errorf("postgres_users_decode_address_failed: %w", err)
		}
	}
	if len(authsJSON) > 0 {
		if err := json.Unmarshal(authsJSON, &user.Auths); err != nil {
			return nil, fmt.Errorf("postgres_users_decode_auths_failed: %w", err)
		}
	}
	if len(vehicleJSON) > 0 {
		user.VehicleInfo = &VehicleInfo{}
		if err := json.Unmarshal(vehicleJSON, user.VehicleInfo); err != nil {
			return nil, fmt.Errorf("postgres_users_decode_vehicle_failed: %w", err)
		}
	}

	return &user, nil
}

// marshalEmbedded encodes the optional sub-documents for JSONB storage.
// Nil sub-documents stay NULL in the row rather than encoding "null".
func marshalEmbedded(user *User) (addressJSON, authsJSON, vehicleJSON []byte, err error) {
	if user.Address != nil {
		if addressJSON, err = json.Marshal(user.Address); err != nil {
			return nil, nil, nil, fmt.Errorf("postgres_users_encode_address_failed: %w", err)
		}
	}
	if user.Auths != nil {
		if authsJSON, err = json.Marshal(user.Auths); err != nil {
			return nil, nil, nil, fmt.Errorf("postgres_users_encode_auths_failed: %w", err)
		}
	}
	if user.VehicleInfo != nil {
		if vehicleJSON, err = json.Marshal(user.VehicleInfo); err != nil {
			return nil, nil, nil, fmt.Errorf("postgres_users_encode_vehicle_failed: %w", err)
		}
	}
	return addressJSON, authsJSON, vehicleJSON, nil
}
