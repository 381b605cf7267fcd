// Copyright (c) 2026 Maestro Platform. All rights reserved.

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maestroride/maestro/internal/platform/message"
	requestutil "github.com/maestroride/maestro/internal/platform/request"
	"github.com/maestroride/maestro/internal/platform/respond"
	"github.com/maestroride/maestro/internal/platform/validate"
)

// RoleGuard admits only authenticated actors holding one of the permitted
// roles. Satisfied by the platform authentication guard; declared here so the
// domain package does not depend on the middleware package.
type RoleGuard interface {
	RequireRoles(permitted ...Role) func(http.Handler) http.Handler
}

// Handler implements the HTTP delivery layer for account management.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns a [chi.Router] configured with the user domain's endpoints.
//
// # Authorization Matrix
//
//   - POST   /register     — public
//   - GET    /all          — ADMIN, SUPERADMIN
//   - PATCH  /update/{id}  — any authenticated role (policy engine restricts fields)
//   - DELETE /delete/{id}  — ADMIN, SUPERADMIN
func (handler *Handler) Routes(guard RoleGuard) chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)

	router.With(guard.RequireRoles(RoleAdmin, RoleSuperAdmin)).
		Get("/all", handler.listAll)

	router.With(guard.RequireRoles(AllRoles...)).
		Patch("/update/{id}", handler.update)

	router.With(guard.RequireRoles(RoleAdmin, RoleSuperAdmin)).
		Delete("/delete/{id}", handler.softDelete)

	return router
}

// # Registration

// registerRequest defines the expected JSON payload for self-registration.
type registerRequest struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Password    string       `json:"password"`
	Phone       string       `json:"phone"`
	Avatar      string       `json:"avatar"`
	Address     *Address     `json:"address"`
	Role        string       `json:"role"`
	IsApproved  bool         `json:"isApproved"`
	VehicleInfo *VehicleInfo `json:"vehicleInfo"`
}

/*
POST /api/v1/user/register.

Description: Registers a new rider or driver account.

Request:
  - body: registerRequest

Response:
  - 201: User: The created account, password excluded
  - 400: Validation/alreadyExists: Invalid input or duplicate email
  - 403: Forbidden: Elevated role requested during self-registration
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MinLen("name", input.Name, 2).
		MaxLen("name", input.Name, 60).
		Required("email", input.Email).
		Email("email", input.Email).
		Password("password", input.Password)

	// The full role enum is accepted at the validation boundary; requesting
	// an elevated role is a policy violation (403 from the service), not a
	// malformed payload.
	if input.Role != "" {
		v.OneOf("role", input.Role,
			string(RoleSuperAdmin), string(RoleAdmin), string(RoleRider), string(RoleDriver))
	}
	if input.Avatar != "" {
		v.URL("avatar", input.Avatar)
	}
	validateAddress(v, input.Address)
	if Role(input.Role) == RoleDriver {
		validateVehicle(v, input.VehicleInfo, true)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userService.Register(request.Context(), RegisterInput{
		Name:        input.Name,
		Email:       input.Email,
		Password:    input.Password,
		Phone:       input.Phone,
		Avatar:      input.Avatar,
		Address:     input.Address,
		Role:        Role(input.Role),
		IsApproved:  input.IsApproved,
		VehicleInfo: input.VehicleInfo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, message.For(message.Create, "user"), user)
}

// # Administration

/*
GET /api/v1/user/all.

Description: Lists every registered account, newest first.

Response:
  - 200: []User + meta.total
  - 401/403/404/410: Guard rejections
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	accounts, err := handler.userService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, message.For(message.Get, "users"), accounts, respond.Meta{
		Total: len(accounts),
	})
}

// # Mutation

// updateRequest defines the partial-update payload. Pointer fields distinguish
// "absent" from a zero value so the policy engine sees only what was sent.
type updateRequest struct {
	Name           *string      `json:"name"`
	Password       *string      `json:"password"`
	Phone          *string      `json:"phone"`
	Avatar         *string      `json:"avatar"`
	Address        *Address     `json:"address"`
	Role           *string      `json:"role"`
	ActivityStatus *string      `json:"activityStatus"`
	IsApproved     *bool        `json:"isApproved"`
	IsDeleted      *bool        `json:"isDeleted"`
	VehicleInfo    *VehicleInfo `json:"vehicleInfo"`
}

/*
PATCH /api/v1/user/update/{id}.

Description: Applies a policy-checked partial update to the target account.

Request:
  - id: string (UUID)
  - body: updateRequest (partial JSON)

Response:
  - 200: User: The updated account
  - 400: Validation: Invalid field values
  - 403: Forbidden: Mutation policy rejection
  - 404: NotFound: Target account does not exist
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.UUID("id", targetID)

	if input.Name != nil {
		v.MinLen("name", *input.Name, 2).MaxLen("name", *input.Name, 60)
	}
	if input.Password != nil {
		v.Password("password", *input.Password)
	}
	if input.Avatar != nil && *input.Avatar != "" {
		v.URL("avatar", *input.Avatar)
	}
	if input.Role != nil {
		v.OneOf("role", *input.Role,
			string(RoleSuperAdmin), string(RoleAdmin), string(RoleRider), string(RoleDriver))
	}
	if input.ActivityStatus != nil {
		v.OneOf("activityStatus", *input.ActivityStatus,
			string(StatusActive), string(StatusInactive), string(StatusBlocked))
	}
	validateAddress(v, input.Address)
	if input.VehicleInfo != nil {
		validateVehicle(v, input.VehicleInfo, false)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	changes := ChangeSet{
		Name:        input.Name,
		Password:    input.Password,
		Phone:       input.Phone,
		Avatar:      input.Avatar,
		Address:     input.Address,
		IsApproved:  input.IsApproved,
		IsDeleted:   input.IsDeleted,
		VehicleInfo: input.VehicleInfo,
	}
	if input.Role != nil {
		role := Role(*input.Role)
		changes.Role = &role
	}
	if input.ActivityStatus != nil {
		status := ActivityStatus(*input.ActivityStatus)
		changes.ActivityStatus = &status
	}

	user, err := handler.userService.Update(request.Context(), Role(claims.Role), targetID, changes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message.For(message.Update, "user"), user)
}

/*
DELETE /api/v1/user/delete/{id}.

Description: Soft-deletes the target account. The row is retained with
isDeleted=true and the account becomes unusable (410 on authenticated access).

Request:
  - id: string (UUID)

Response:
  - 200: User: The account with isDeleted=true
  - 404: NotFound: Target account does not exist
*/
func (handler *Handler) softDelete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")

	v := &validate.Validator{}
	if err := v.UUID("id", targetID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Soft deletion is an update: same policy path, same persistence path,
	// same response messaging as PATCH.
	deleted := true
	user, err := handler.userService.Update(request.Context(), Role(claims.Role), targetID, ChangeSet{
		IsDeleted: &deleted,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message.For(message.Update, "user"), user)
}

// # Shared Field Validation

// validateAddress checks the embedded address sub-document when present.
// City, division, and country are mandatory inside a provided address.
func validateAddress(v *validate.Validator, address *Address) {
	if address == nil {
		return
	}
	v.Required("address.city", address.City).
		Required("address.division", address.Division).
		Required("address.country", address.Country)
}

// validateVehicle checks the vehicle sub-document. When required is true a
// missing document is itself a failure (driver registration).
func validateVehicle(v *validate.Validator, vehicle *VehicleInfo, required bool) {
	if vehicle == nil {
		if required {
			v.Custom("vehicleInfo", true, "Vehicle information is required for DRIVER role")
		}
		return
	}
	v.Required("vehicleInfo.model", vehicle.Model).
		Required("vehicleInfo.plateNumber", vehicle.PlateNumber).
		Custom("vehicleInfo.capacity", vehicle.Capacity < 1, "Must be a positive number")
}
