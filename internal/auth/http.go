// Copyright (c) 2026 Maestro Platform. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maestroride/maestro/internal/platform/constants"
	"github.com/maestroride/maestro/internal/platform/message"
	requestutil "github.com/maestroride/maestro/internal/platform/request"
	"github.com/maestroride/maestro/internal/platform/respond"
	"github.com/maestroride/maestro/internal/platform/validate"
)

// CookieSettings controls how the token pair is persisted in the browser.
type CookieSettings struct {
	AccessName  string
	RefreshName string

	// Secure is false only in development so the cookies work over plain
	// HTTP on localhost.
	Secure bool
}

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
	cookies     CookieSettings
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service, cookies CookieSettings) *Handler {
	return &Handler{authService: service, cookies: cookies}
}

// Routes returns a [chi.Router] configured with the session endpoints.
//
// # Endpoints
//   - POST /sign-in  : Authenticates a credential and sets the cookie pair.
//   - POST /refresh  : Exchanges a refresh token for a new access token.
//   - POST /sign-out : Clears the cookie pair.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/sign-in", handler.signIn)
	router.Post("/refresh", handler.refresh)
	router.Post("/sign-out", handler.signOut)

	return router
}

// signInRequest represents the JSON payload expected for authentication.
type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
POST /api/v1/auth/sign-in.

Description: Authenticates an email/password credential. On success the token
pair is returned in the body AND set as httpOnly cookies.

Request:
  - body: signInRequest

Response:
  - 200: Session: Token pair plus the sanitized account
  - 401: Unauthorized: Unknown email or wrong password (indistinguishable)
  - 403/410: Blocked, deactivated, or deleted account
  - 429: TooManyRequests: Brute-force throttle engaged
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("email", input.Email).
		Required("password", input.Password)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setTokenCookie(writer, handler.cookies.AccessName, session.AccessToken, constants.AccessCookieMaxAge)
	handler.setTokenCookie(writer, handler.cookies.RefreshName, session.RefreshToken, constants.RefreshCookieMaxAge)

	respond.OK(writer, message.For(message.SignIn, "user"), session)
}

// refreshRequest is the fallback payload for clients that do not use cookies.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
POST /api/v1/auth/refresh.

Description: Exchanges a refresh token (cookie first, body fallback) for a
fresh access token reflecting the account's current role.

Response:
  - 200: {accessToken}
  - 401: Unauthorized: Missing, invalid, or expired refresh token
  - 403/410: Blocked, deactivated, or deleted account
  - 404: NotFound: Account no longer exists
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := handler.extractRefreshToken(request)
	if refreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refreshToken", "This field is required"))
		return
	}

	accessToken, err := handler.authService.RefreshAccess(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setTokenCookie(writer, handler.cookies.AccessName, accessToken, constants.AccessCookieMaxAge)

	respond.OK(writer, message.For(message.Update, "access token"), map[string]string{
		"accessToken": accessToken,
	})
}

/*
POST /api/v1/auth/sign-out.

Description: Clears both token cookies. Stateless JWTs cannot be revoked
server-side; sign-out is a client-state operation.

Response:
  - 200: Empty success envelope
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	handler.clearTokenCookie(writer, handler.cookies.AccessName)
	handler.clearTokenCookie(writer, handler.cookies.RefreshName)

	respond.OK(writer, message.For(message.SignOut, "user"), nil)
}

// # Cookie Management

// extractRefreshToken reads the refresh token from its cookie, falling back
// to the JSON body for non-browser clients.
func (handler *Handler) extractRefreshToken(request *http.Request) string {
	if cookie, err := request.Cookie(handler.cookies.RefreshName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err == nil {
		return input.RefreshToken
	}

	return ""
}

func (handler *Handler) setTokenCookie(writer http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   handler.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (handler *Handler) clearTokenCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
