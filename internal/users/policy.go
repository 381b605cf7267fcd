// Copyright (c) 2026 Maestro Platform. All rights reserved.

package users

import (
	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/message"
)

// ChangeSet is the proposed mutation applied to an account by PATCH/DELETE.
//
// Pointer fields distinguish "not provided" from a zero value, so the policy
// engine and the update path only act on fields the caller actually sent.
type ChangeSet struct {
	Name           *string
	Password       *string
	Phone          *string
	Avatar         *string
	Address        *Address
	Role           *Role
	ActivityStatus *ActivityStatus
	IsApproved     *bool
	IsDeleted      *bool
	VehicleInfo    *VehicleInfo
}

// CanMutate is the access policy engine: a pure decision over the actor's
// role and the proposed field values. The first matching deny wins.
//
// # Precedence
//
//  1. Non-elevated actors (riders, drivers) may not change the role to a
//     different value (echoing the current role passes), set activityStatus
//     to INACTIVE/BLOCKED, set isDeleted, or revoke approval.
//  2. An ADMIN may not assign SUPERADMIN to any target.
//  3. Otherwise allow.
//
// The rule inspects the actor's own role and the proposed values, not target
// ownership: an ordinary actor editing another account's unrestricted fields
// passes, matching the platform's uniform-rule contract.
func CanMutate(actor Role, changes ChangeSet) error {
	if !actor.Elevated() {
		forbidden := (changes.Role != nil && *changes.Role != actor) ||
			(changes.ActivityStatus != nil &&
				(*changes.ActivityStatus == StatusInactive || *changes.ActivityStatus == StatusBlocked)) ||
			(changes.IsDeleted != nil && *changes.IsDeleted) ||
			(changes.IsApproved != nil && !*changes.IsApproved)

		if forbidden {
			return apperr.Forbidden(message.For(message.Forbidden, string(actor)))
		}
	}

	if actor == RoleAdmin && changes.Role != nil && *changes.Role == RoleSuperAdmin {
		return apperr.Forbidden(message.For(message.Forbidden, "ADMIN (cannot assign SUPERADMIN)"))
	}

	return nil
}
