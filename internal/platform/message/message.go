// Copyright (c) 2026 Maestro Platform. All rights reserved.

/*
Package message provides the human-readable message catalog shared by every
API response.

It centralizes response phrasing so success and failure envelopes read
consistently across the platform, and so tests can assert on stable strings.
*/
package message

import "strings"

// Kind selects a catalog entry.
type Kind string

const (
	Create        Kind = "create"
	Update        Kind = "update"
	Delete        Kind = "delete"
	Get           Kind = "get"
	SignIn        Kind = "signIn"
	SignUp        Kind = "signUp"
	SignOut       Kind = "signOut"
	NotFound      Kind = "notFound"
	AlreadyExists Kind = "alreadyExists"
	Unauthorized  Kind = "unauthorized"
	Forbidden     Kind = "forbidden"
	BadRequest    Kind = "badRequest"
	Expired       Kind = "expired"
	Inactive      Kind = "inactive"
	Blocked       Kind = "blocked"
	Validation    Kind = "validation"
)

// catalog holds one template per [Kind]. The %s slot is the capitalized entity.
var catalog = map[Kind]string{
	Create:        "%s was successfully created and is now available.",
	Update:        "%s was successfully updated with the latest information.",
	Delete:        "%s was successfully deleted and is no longer available.",
	Get:           "%s details were successfully retrieved from the system.",
	SignIn:        "%s was successfully signed in. Welcome back!",
	SignUp:        "%s was successfully registered. Welcome aboard!",
	SignOut:       "%s was successfully signed out of the system.",
	NotFound:      "%s was not found. It may not exist or has been removed.",
	AlreadyExists: "%s already exists. Please use a different one or log in.",
	Unauthorized:  "%s access denied. You do not have the required permissions to perform this action.",
	Forbidden:     "%s access is forbidden. You are not allowed to view or modify this resource.",
	BadRequest:    "%s request is invalid. Please check your input and try again.",
	Expired:       "%s has expired. Please request a new one or try again later.",
	Blocked:       "%s has been blocked. Please request a new one or try again later.",
	Inactive:      "%s has been deactivated. Please request a new one or try again later.",
	Validation:    "%s validation failed. Please check the provided information.",
}

// For renders the catalog entry for kind with the entity name capitalized.
// An optional note is appended verbatim (used by the 404 route fallback to
// name the unmatched path).
func For(kind Kind, entity string, note ...string) string {
	capitalized := capitalize(entity)

	template, ok := catalog[kind]
	if !ok {
		template = catalog[BadRequest]
	}

	rendered := strings.Replace(template, "%s", capitalized, 1)
	if len(note) > 0 && note[0] != "" {
		rendered = rendered + " " + note[0]
	}
	return rendered
}

// capitalize upper-cases the first character and lower-cases the rest.
func capitalize(entity string) string {
	if entity == "" {
		return entity
	}
	return strings.ToUpper(entity[:1]) + strings.ToLower(entity[1:])
}
