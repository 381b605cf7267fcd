// Copyright (c) 2026 Maestro Platform. All rights reserved.

package users_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/users"
	"github.com/maestroride/maestro/pkg/pointer"
)

func role(r users.Role) *users.Role { return &r }

func status(s users.ActivityStatus) *users.ActivityStatus { return &s }

/*
TestCanMutate_NonElevated verifies the restricted-field rule for riders and
drivers: changing role to a different value, INACTIVE/BLOCKED, isDeleted=true,
or isApproved=false is forbidden, while ordinary profile fields — and a role
value that merely echoes the actor's own — pass.
*/
func TestCanMutate_NonElevated(t *testing.T) {
	tests := []struct {
		name      string
		actor     users.Role
		changes   users.ChangeSet
		forbidden bool
	}{
		{"rider_profile_fields", users.RoleRider, users.ChangeSet{Name: pointer.To("New Name"), Phone: pointer.To("018")}, false},
		{"rider_echoes_own_role", users.RoleRider, users.ChangeSet{Role: role(users.RoleRider)}, false},
		{"rider_escalates_role", users.RoleRider, users.ChangeSet{Role: role(users.RoleAdmin)}, true},
		{"driver_echoes_own_role", users.RoleDriver, users.ChangeSet{Role: role(users.RoleDriver)}, false},
		{"driver_switches_to_rider", users.RoleDriver, users.ChangeSet{Role: role(users.RoleRider)}, true},
		{"driver_sets_blocked", users.RoleDriver, users.ChangeSet{ActivityStatus: status(users.StatusBlocked)}, true},
		{"driver_sets_inactive", users.RoleDriver, users.ChangeSet{ActivityStatus: status(users.StatusInactive)}, true},
		{"rider_sets_active", users.RoleRider, users.ChangeSet{ActivityStatus: status(users.StatusActive)}, false},
		{"rider_soft_deletes", users.RoleRider, users.ChangeSet{IsDeleted: pointer.To(true)}, true},
		{"rider_clears_deleted", users.RoleRider, users.ChangeSet{IsDeleted: pointer.To(false)}, false},
		{"driver_revokes_approval", users.RoleDriver, users.ChangeSet{IsApproved: pointer.To(false)}, true},
		{"driver_grants_approval", users.RoleDriver, users.ChangeSet{IsApproved: pointer.To(true)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.CanMutate(tt.actor, tt.changes)

			if tt.forbidden {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestCanMutate_Admin verifies the elevation ceiling: an ADMIN manages any
restricted field but may never assign SUPERADMIN.
*/
func TestCanMutate_Admin(t *testing.T) {
	t.Run("admin_blocks_account", func(t *testing.T) {
		err := users.CanMutate(users.RoleAdmin, users.ChangeSet{
			ActivityStatus: status(users.StatusBlocked),
			IsDeleted:      pointer.To(true),
			IsApproved:     pointer.To(false),
		})
		assert.NoError(t, err)
	})

	t.Run("admin_promotes_to_admin", func(t *testing.T) {
		err := users.CanMutate(users.RoleAdmin, users.ChangeSet{Role: role(users.RoleAdmin)})
		assert.NoError(t, err)
	})

	t.Run("admin_assigns_superadmin", func(t *testing.T) {
		err := users.CanMutate(users.RoleAdmin, users.ChangeSet{Role: role(users.RoleSuperAdmin)})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	})

	t.Run("superadmin_assigns_superadmin", func(t *testing.T) {
		err := users.CanMutate(users.RoleSuperAdmin, users.ChangeSet{Role: role(users.RoleSuperAdmin)})
		assert.NoError(t, err)
	})
}

/*
TestCheckAccess covers the shared account-state gate used by the guard, the
sign-in flow, and the refresh flow.
*/
func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name       string
		user       users.User
		wantStatus int
	}{
		{"active", users.User{ActivityStatus: users.StatusActive}, 0},
		{"blocked", users.User{ActivityStatus: users.StatusBlocked}, http.StatusForbidden},
		{"inactive", users.User{ActivityStatus: users.StatusInactive}, http.StatusForbidden},
		{"deleted", users.User{ActivityStatus: users.StatusActive, IsDeleted: true}, http.StatusGone},
		// Status outranks deletion: a blocked AND deleted account reports 403.
		{"blocked_and_deleted", users.User{ActivityStatus: users.StatusBlocked, IsDeleted: true}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.CheckAccess()

			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}

/*
TestNormalizeInvariants verifies role-appropriate defaults.
*/
func TestNormalizeInvariants(t *testing.T) {
	t.Run("rider_is_always_approved", func(t *testing.T) {
		u := users.User{Role: users.RoleRider, IsApproved: false, Email: "  Rider@Example.COM "}
		u.NormalizeInvariants()

		assert.True(t, u.IsApproved)
		assert.Equal(t, "rider@example.com", u.Email)
		assert.Equal(t, users.StatusActive, u.ActivityStatus)
	})

	t.Run("driver_approval_untouched", func(t *testing.T) {
		u := users.User{Role: users.RoleDriver, IsApproved: false, Email: "d@x.com"}
		u.NormalizeInvariants()

		assert.False(t, u.IsApproved)
	})
}
