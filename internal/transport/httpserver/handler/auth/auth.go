package auth

import (
	"errors"
	"net/http"
	"strings"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/identity"
	"church-admin-go/internal/transport/httpserver/middleware"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authMeResponse struct {
	ID         string                       `json:"id"`
	Email      string                       `json:"email"`
	Name       string                       `json:"name"`
	ChurchUser *churchuserdomain.ChurchUser `json:"church_user"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	session, err := h.Identities.SignIn(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err, "email", email)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		h.log.InternalError("auth.login: sign in failed", err, "email", email)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	response := authMeResponse{
		ID:    principal.ID,
		Email: principal.Email,
		Name:  principal.Name,
	}
	if user, ok := middleware.ChurchUserFromContext(r.Context()); ok {
		response.ChurchUser = &user
	}

	writeJSON(w, http.StatusOK, response)
}
