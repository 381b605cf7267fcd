// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Package users defines the account domain for the Maestro ride-booking
// platform: the persisted user entity, the closed role and status
// enumerations, and the mutation policy applied to profile updates.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system. They have no
// dependencies on outer layers (HTTP, SQL) beyond the shared platform error
// contract, which keeps the core logic highly testable.
package users

import (
	"strings"
	"time"

	"github.com/maestroride/maestro/internal/platform/apperr"
	"github.com/maestroride/maestro/internal/platform/message"
)

// Role represents the authorization level granted to an account.
//
// # Single Source of Truth
//
// Both the authentication guard and the mutation policy consume this type;
// role semantics are defined once here and nowhere else.
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN" // Unrestricted system access.
	RoleAdmin      Role = "ADMIN"      // Platform operations and user management.
	RoleRider      Role = "RIDER"      // Default role: books rides.
	RoleDriver     Role = "DRIVER"     // Fulfills rides; requires vehicle info.
)

// AllRoles is the closed set of valid roles, in precedence order.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleRider, RoleDriver}

// IsValid reports whether the role is a member of the closed enumeration.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleRider, RoleDriver:
		return true
	}
	return false
}

// Elevated reports whether the role carries administrative privileges.
// Ordinary riders and drivers are non-elevated.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ActivityStatus represents the account's operational state.
type ActivityStatus string

const (
	StatusActive   ActivityStatus = "ACTIVE"
	StatusInactive ActivityStatus = "INACTIVE"
	StatusBlocked  ActivityStatus = "BLOCKED"
)

// IsValid reports whether the status is a member of the closed enumeration.
func (s ActivityStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBlocked:
		return true
	}
	return false
}

// AuthProviderKind identifies an external authentication provider.
type AuthProviderKind string

const (
	ProviderGoogle     AuthProviderKind = "GOOGLE"
	ProviderFacebook   AuthProviderKind = "FACEBOOK"
	ProviderCredential AuthProviderKind = "CREDENTIAL"
)

// AuthProvider is one linked provider entry. Every account carries at least
// one; credential sign-ups get a CREDENTIAL entry keyed by email.
type AuthProvider struct {
	Provider   AuthProviderKind `json:"provider"`
	ProviderID string           `json:"providerId"`
}

// Address is the optional embedded profile address.
// City, division, and country are mandatory when the address is present.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city"`
	Division   string `json:"division"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

// VehicleInfo is required if and only if the account role is DRIVER.
type VehicleInfo struct {
	Model       string `json:"model"`
	PlateNumber string `json:"plateNumber"`
	Capacity    int    `json:"capacity"`
	Color       string `json:"color,omitempty"`
}

// User represents a registered account on the platform.
//
// # Rules
//   - Email is unique and stored lowercased.
//   - Password holds the bcrypt hash and is never serialized.
//   - role=DRIVER implies VehicleInfo present.
//   - role=RIDER implies IsApproved=true, enforced at every write.
type User struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Password       string         `json:"-"` // Bcrypt hash. Explicitly omitted from JSON.
	Phone          string         `json:"phone,omitempty"`
	Avatar         string         `json:"avatar,omitempty"`
	Address        *Address       `json:"address,omitempty"`
	Auths          []AuthProvider `json:"auths"`
	Role           Role           `json:"role"`
	ActivityStatus ActivityStatus `json:"activityStatus"`
	IsApproved     bool           `json:"isApproved"`
	IsDeleted      bool           `json:"isDeleted"`
	VehicleInfo    *VehicleInfo   `json:"vehicleInfo,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NormalizeInvariants applies role-appropriate defaults before any persist.
// Riders are invariantly approved; this runs on create AND update so a role
// change back to RIDER restores the approval flag.
func (u *User) NormalizeInvariants() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == RoleRider {
		u.IsApproved = true
	}
	if u.ActivityStatus == "" {
		u.ActivityStatus = StatusActive
	}
}

// CheckAccess validates the account's state for authenticated access.
//
// It is the single source for the three state checks shared by the
// authentication guard and the refresh-token flow, so a blocked, deactivated,
// or deleted account fails identically on both paths:
//
//   - BLOCKED or INACTIVE -> 403 with a status-specific message
//   - soft-deleted        -> 410
func (u *User) CheckAccess() error {
	switch u.ActivityStatus {
	case StatusBlocked:
		return apperr.Forbidden(message.For(message.Blocked, "access token"))
	case StatusInactive:
		return apperr.Forbidden(message.For(message.Inactive, "access token"))
	}

	if u.IsDeleted {
		return apperr.Gone(message.For(message.Delete, "user"))
	}

	return nil
}

// Sanitized returns a copy safe to serialize: the password hash is stripped.
// The JSON tag already omits Password; clearing the field also covers callers
// that re-marshal through other layers.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
