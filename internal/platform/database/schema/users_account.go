// Copyright (c) 2026 Maestro Platform. All rights reserved.

// Package schema is the single registry of table and column identifiers.
//
// Repositories build their SQL from these definitions instead of scattering
// string literals, so a rename touches exactly one file.
package schema

import "github.com/maestroride/maestro/internal/platform/constants"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table          string
	ID             string
	Name           string
	Email          string
	Password       string
	Phone          string
	Avatar         string
	Address        string
	Auths          string
	Role           string
	ActivityStatus string
	IsApproved     string
	IsDeleted      string
	VehicleInfo    string
	CreatedAt      string
	UpdatedAt      string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:          constants.SchemaUsers + ".account",
	ID:             "id",
	Name:           "name",
	Email:          "email",
	Password:       "password",
	Phone:          "phone",
	Avatar:         "avatar",
	Address:        "address",
	Auths:          "auths",
	Role:           "role",
	ActivityStatus: "activity_status",
	IsApproved:     "is_approved",
	IsDeleted:      "is_deleted",
	VehicleInfo:    "vehicle_info",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
}

// Columns returns all standard column names in scan order
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Password, t.Phone, t.Avatar, t.Address,
		t.Auths, t.Role, t.ActivityStatus, t.IsApproved, t.IsDeleted,
		t.VehicleInfo, t.CreatedAt, t.UpdatedAt,
	}
}
