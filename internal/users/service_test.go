// Copyright (c) 2026 Maestro Platform. All rights reserved.

package users_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/sec"
	"github.com/maestroride/maestro/internal/users"
	"github.com/maestroride/maestro/pkg/pointer"
)

// fakeRepository is an in-memory [users.Repository] for service tests.
type fakeRepository struct {
	byID map[string]*users.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*users.User)}
}

func (repo *fakeRepository) Create(_ context.Context, user *users.User) error {
	stored := *user
	repo.byID[user.ID] = &stored
	return nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*users.User, error) {
	if user, ok := repo.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User was not found. It may not exist or has been removed.")
}

func (repo *fakeRepository) FindByEmail(_ context.Context, email string) (*users.User, error) {
	for _, user := range repo.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User was not found. It may not exist or has been removed.")
}

func (repo *fakeRepository) FindAll(_ context.Context) ([]users.User, error) {
	all := make([]users.User, 0, len(repo.byID))
	for _, user := range repo.byID {
		all = append(all, *user)
	}
	return all, nil
}

func (repo *fakeRepository) Update(_ context.Context, user *users.User) error {
	if _, ok := repo.byID[user.ID]; !ok {
		return apperr.NotFound("User was not found. It may not exist or has been removed.")
	}
	stored := *user
	repo.byID[user.ID] = &stored
	return nil
}

func newTestService(t *testing.T) (*users.Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	// bcrypt cost 4 (MinCost) keeps the suite fast.
	return users.NewService(repo, 4, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

// # Registration

func TestRegister_DefaultsToRider(t *testing.T) {
	service, repo := newTestService(t)

	user, err := service.Register(context.Background(), users.RegisterInput{
		Name:     "Anika",
		Email:    "Anika@Example.com",
		Password: "Secret#One",
	})
	require.NoError(t, err)

	assert.Equal(t, users.RoleRider, user.Role)
	assert.True(t, user.IsApproved, "riders are invariantly approved")
	assert.Equal(t, "anika@example.com", user.Email, "emails are stored lowercased")
	assert.Equal(t, users.StatusActive, user.ActivityStatus)
	assert.Empty(t, user.Password, "returned account must be sanitized")

	// The stored row keeps the hash and gains a CREDENTIAL auth entry.
	stored := repo.byID[user.ID]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.Password)
	assert.True(t, sec.CheckPasswordHash("Secret#One", stored.Password))
	require.Len(t, stored.Auths, 1)
	assert.Equal(t, users.ProviderCredential, stored.Auths[0].Provider)
}

func TestRegister_RejectsElevatedRoles(t *testing.T) {
	service, _ := newTestService(t)

	for _, elevated := range []users.Role{users.RoleAdmin, users.RoleSuperAdmin} {
		_, err := service.Register(context.Background(), users.RegisterInput{
			Name:     "Mallory",
			Email:    "mallory@example.com",
			Password: "Secret#One",
			Role:     elevated,
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, _ := newTestService(t)

	input := users.RegisterInput{Name: "First", Email: "dup@example.com", Password: "Secret#One"}
	_, err := service.Register(context.Background(), input)
	require.NoError(t, err)

	input.Name = "Second"
	_, err = service.Register(context.Background(), input)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	// Duplicates map to 400, not 409.
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "User already exists. Please use a different one or log in.", ae.Message)
}

// # Update

func seedUser(t *testing.T, service *users.Service, email string, role users.Role) *users.User {
	t.Helper()

	input := users.RegisterInput{Name: "Seed", Email: email, Password: "Secret#One", Role: role}
	if role == users.RoleDriver {
		input.VehicleInfo = &users.VehicleInfo{Model: "Axio", PlateNumber: "DH-1234", Capacity: 4}
	}

	user, err := service.Register(context.Background(), input)
	require.NoError(t, err)
	return user
}

func TestUpdate_TargetMissing(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Update(context.Background(), users.RoleAdmin,
		"0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", users.ChangeSet{Name: pointer.To("X")})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

func TestUpdate_PolicyRejection(t *testing.T) {
	service, _ := newTestService(t)
	target := seedUser(t, service, "victim@example.com", users.RoleRider)

	_, err := service.Update(context.Background(), users.RoleRider, target.ID, users.ChangeSet{
		IsDeleted: pointer.To(true),
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
}

func TestUpdate_PasswordIsRehashed(t *testing.T) {
	service, repo := newTestService(t)
	target := seedUser(t, service, "rehash@example.com", users.RoleRider)

	_, err := service.Update(context.Background(), users.RoleRider, target.ID, users.ChangeSet{
		Password: pointer.To("Fresh#Pass2"),
	})
	require.NoError(t, err)

	stored := repo.byID[target.ID]
	assert.NotEqual(t, "Fresh#Pass2", stored.Password, "plain text must never be persisted")
	assert.True(t, sec.CheckPasswordHash("Fresh#Pass2", stored.Password))
}

func TestUpdate_DriverRequiresVehicle(t *testing.T) {
	service, _ := newTestService(t)
	target := seedUser(t, service, "newdriver@example.com", users.RoleRider)

	// Promote to DRIVER without vehicle info: rejected.
	_, err := service.Update(context.Background(), users.RoleAdmin, target.ID, users.ChangeSet{
		Role: role(users.RoleDriver),
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	require.NotEmpty(t, ae.Source)
	assert.Equal(t, "vehicleInfo", ae.Source[0].Path)

	// With vehicle info the same promotion passes.
	updated, err := service.Update(context.Background(), users.RoleAdmin, target.ID, users.ChangeSet{
		Role:        role(users.RoleDriver),
		VehicleInfo: &users.VehicleInfo{Model: "Premio", PlateNumber: "DH-5678", Capacity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, users.RoleDriver, updated.Role)
}

func TestUpdate_RoleChangeBackToRiderRestoresApproval(t *testing.T) {
	service, _ := newTestService(t)
	target := seedUser(t, service, "backtorider@example.com", users.RoleDriver)

	updated, err := service.Update(context.Background(), users.RoleSuperAdmin, target.ID, users.ChangeSet{
		Role:       role(users.RoleRider),
		IsApproved: pointer.To(false),
	})
	require.NoError(t, err)

	// The rider invariant runs after the delta, overriding isApproved=false.
	assert.True(t, updated.IsApproved)
}

func TestUpdate_SoftDelete(t *testing.T) {
	service, repo := newTestService(t)
	target := seedUser(t, service, "gone@example.com", users.RoleRider)

	updated, err := service.Update(context.Background(), users.RoleAdmin, target.ID, users.ChangeSet{
		IsDeleted: pointer.To(true),
	})
	require.NoError(t, err)

	assert.True(t, updated.IsDeleted)

	// The row is retained, not removed.
	stored := repo.byID[target.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.IsDeleted)

	// And the deleted account now fails the access gate with 410.
	ae := apperr.As(stored.CheckAccess())
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusGone, ae.HTTPStatus)
}

// # Listing & Seeding

func TestList_SanitizesPasswords(t *testing.T) {
	service, _ := newTestService(t)
	seedUser(t, service, "one@example.com", users.RoleRider)
	seedUser(t, service, "two@example.com", users.RoleRider)

	all, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	for _, user := range all {
		assert.Empty(t, user.Password)
	}
}

func TestEnsureSuperAdmin_Idempotent(t *testing.T) {
	service, repo := newTestService(t)

	require.NoError(t, service.EnsureSuperAdmin(context.Background(), "root@maestroride.com", "Root#Secret1"))
	require.NoError(t, service.EnsureSuperAdmin(context.Background(), "root@maestroride.com", "Root#Secret1"))

	assert.Len(t, repo.byID, 1)

	seeded, err := repo.FindByEmail(context.Background(), "root@maestroride.com")
	require.NoError(t, err)
	assert.Equal(t, users.RoleSuperAdmin, seeded.Role)
	assert.True(t, seeded.IsApproved)
}
