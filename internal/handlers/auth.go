package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/internal/store"
	"github.com/mg3/promag-api/types"
)

const (
	tokenScheme = "Token"

	msgNoCredentials  = "Authentication credentials were not provided."
	msgInvalidToken   = "Invalid token."
	msgUsersTableGone = "Users table is missing. Run migrations first."
	msgBadCredentials = "Invalid credentials."
	msgLoggedOut      = "Logged out."
)

var userResource = resource{singular: "user", plural: "users", label: "User"}

// AuthHandler provides token authentication endpoints.
type AuthHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, log: log}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/login", handler.Login)
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth)
		r.Post("/logout", handler.Logout)
		r.Get("/me", handler.Me)
		r.Get("/users", handler.ListUsers)
	})
}

// RequireAuth resolves the "Token <value>" header to a user and stores the
// identity in the request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := h.userService.Authenticate(r.Context(), tokenFromHeader(r))
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(services.WithIdentity(r.Context(), identity)))
		case errors.Is(err, services.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, msgNoCredentials)
		case errors.Is(err, services.ErrInvalidCredential):
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
		case errors.Is(err, store.ErrSchemaNotProvisioned):
			h.log.Error("users table is missing",
				zap.String("path", r.URL.Path),
				zap.Bool("schema_not_provisioned", true),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, msgUsersTableGone)
		default:
			writeStoreError(w, r, h.log, userResource, "authenticate", "request", err)
		}
	})
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, identity, err := h.userService.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: identity})
	case errors.Is(err, services.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, store.ErrSchemaNotProvisioned):
		h.log.Error("users table is missing",
			zap.String("path", r.URL.Path),
			zap.Bool("schema_not_provisioned", true),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, msgUsersTableGone)
	default:
		writeStoreError(w, r, h.log, userResource, "log in", "user", err)
	}
}

// Logout revokes the caller's token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := services.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNoCredentials)
		return
	}
	if err := h.userService.Logout(r.Context(), identity); err != nil {
		writeStoreError(w, r, h.log, userResource, "log out", "user", err)
		return
	}
	writeJSON(w, http.StatusOK, DetailResponse{Detail: msgLoggedOut})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := services.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNoCredentials)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{User: identity})
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeStoreError(w, r, h.log, userResource, "fetch", "users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  types.Identity `json:"user"`
}

type MeResponse struct {
	User types.Identity `json:"user"`
}

// tokenFromHeader returns the credential of a "Token <value>" Authorization
// header, or "" when the header is absent or uses another scheme.
func tokenFromHeader(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, value, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, tokenScheme) {
		return ""
	}
	return strings.TrimSpace(value)
}
