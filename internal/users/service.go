// Copyright (c) 2026 Maestro Platform. All rights reserved.

package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/message"
	"github.com/maestroride/maestro/internal/platform/sec"
	"github.com/maestroride/maestro/pkg/uuidv7"
)

// Service implements the user lifecycle use cases: register, list, update,
// and soft deletion (modeled as an update).
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration
// defaults, or the mutation policy call must be reviewed by the security team.
type Service struct {
	repository Repository
	bcryptCost int
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// RegisterInput holds the data accepted from a self-registration payload.
// Server-managed fields (id, auths, timestamps) are absent on purpose.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	Avatar      string
	Address     *Address
	Role        Role
	IsApproved  bool
	VehicleInfo *VehicleInfo
}

// Register validates business rules, hashes the credential, and persists a
// new account.
//
// # Business Rules
//   - Self-registration may never grant elevated roles (403).
//   - Email must be unique (400, alreadyExists). The pre-check lookup is an
//     optimization; the store's unique index is the correctness guarantee.
//   - A CREDENTIAL auth-provider entry keyed by email is synthesized.
//   - Riders are invariantly approved at creation.
//   - The returned account has its password hash stripped.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// ── 1. Role Gate ──────────────────────────────────────────────────────

	role := input.Role
	if role == "" {
		role = RoleRider
	}
	if role.Elevated() {
		return nil, apperr.Forbidden(message.For(message.Unauthorized, string(role)))
	}

	// ── 2. Uniqueness Pre-Check ───────────────────────────────────────────

	if _, err := service.repository.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.AlreadyExists(message.For(message.AlreadyExists, "user"))
	}

	// ── 3. Credential Hashing ─────────────────────────────────────────────

	hashedPassword, err := sec.HashPassword(input.Password, service.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:       uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Phone:    input.Phone,
		Avatar:   input.Avatar,
		Address:  input.Address,
		Auths: []AuthProvider{
			{Provider: ProviderCredential, ProviderID: input.Email},
		},
		Role:           role,
		ActivityStatus: StatusActive,
		IsApproved:     input.IsApproved,
		VehicleInfo:    input.VehicleInfo,
	}
	user.NormalizeInvariants()

	// ── 5. Persistence ────────────────────────────────────────────────────

	if err := service.repository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("users_service_register_failed: %w", err)
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// List returns every account, passwords excluded. Authorization is enforced
// by the route guard, not here.
func (service *Service) List(ctx context.Context) ([]User, error) {
	accounts, err := service.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("users_service_list_failed: %w", err)
	}

	for i := range accounts {
		accounts[i] = accounts[i].Sanitized()
	}
	return accounts, nil
}

// Update applies a policy-checked change set to the target account.
//
// Soft deletion goes through this exact path: DELETE builds a change set
// with isDeleted=true and nothing else.
//
// # Flow
//  1. Target must exist (404).
//  2. [CanMutate] evaluates the actor's role against the proposed values.
//  3. A new password is re-hashed before persisting.
//  4. Role-appropriate defaults are re-applied, then the row is persisted
//     with field-level constraints re-checked by the store.
func (service *Service) Update(ctx context.Context, actor Role, targetID string, changes ChangeSet) (*User, error) {
	// ── 1. Target Lookup ──────────────────────────────────────────────────

	user, err := service.repository.FindByID(ctx, targetID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.NotFound(message.For(message.NotFound, "user"))
		}
		return nil, fmt.Errorf("users_service_update_lookup_failed: %w", err)
	}

	// ── 2. Mutation Policy ────────────────────────────────────────────────

	if err := CanMutate(actor, changes); err != nil {
		return nil, err
	}

	// ── 3. Apply Delta ────────────────────────────────────────────────────

	if changes.Name != nil {
		user.Name = *changes.Name
	}
	if changes.Password != nil {
		rehashed, err := sec.HashPassword(*changes.Password, service.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("users_service_rehash_failed: %w", err)
		}
		user.Password = rehashed
	}
	if changes.Phone != nil {
		user.Phone = *changes.Phone
	}
	if changes.Avatar != nil {
		user.Avatar = *changes.Avatar
	}
	if changes.Address != nil {
		user.Address = changes.Address
	}
	if changes.Role != nil {
		user.Role = *changes.Role
	}
	if changes.ActivityStatus != nil {
		user.ActivityStatus = *changes.ActivityStatus
	}
	if changes.IsApproved != nil {
		user.IsApproved = *changes.IsApproved
	}
	if changes.IsDeleted != nil {
		user.IsDeleted = *changes.IsDeleted
	}
	if changes.VehicleInfo != nil {
		user.VehicleInfo = changes.VehicleInfo
	}

	// ── 4. Invariants & Persistence ───────────────────────────────────────

	user.NormalizeInvariants()

	if user.Role == RoleDriver && user.VehicleInfo == nil {
		return nil, apperr.Validation("Validation failed", apperr.SourceError{
			Path:    "vehicleInfo",
			Message: "Vehicle information is required for DRIVER role",
		})
	}

	if err := service.repository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("users_service_update_failed: %w", err)
	}

	service.logger.Info("user_updated", slog.String("user_id", user.ID))

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// EnsureSuperAdmin seeds the configured SUPERADMIN account at startup when
// it does not already exist. The operation is idempotent.
func (service *Service) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if _, err := service.repository.FindByEmail(ctx, email); err == nil {
		return nil
	}

	hashedPassword, err := sec.HashPassword(password, service.bcryptCost)
	if err != nil {
		return fmt.Errorf("users_service_seed_hash_failed: %w", err)
	}

	admin := &User{
		ID:       uuidv7.New(),
		Name:     "Super Admin",
		Email:    email,
		Password: hashedPassword,
		Auths: []AuthProvider{
			{Provider: ProviderCredential, ProviderID: email},
		},
		Role:           RoleSuperAdmin,
		ActivityStatus: StatusActive,
		IsApproved:     true,
	}
	admin.NormalizeInvariants()

	if err := service.repository.Create(ctx, admin); err != nil {
		return fmt.Errorf("users_service_seed_failed: %w", err)
	}

	service.logger.Info("superadmin_seeded", slog.String("email", admin.Email))
	return nil
}
