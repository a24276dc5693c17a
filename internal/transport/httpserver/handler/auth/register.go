package auth

import (
	"errors"
	"net/http"
	"strings"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"max=200"`
}

type registerResponse struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	ChurchID          *string `json:"church_id"`
	AlreadyRegistered bool    `json:"already_registered"`
}

// Register signs a visitor up as a plain church user. An identity that already
// has a church user gets 200 with already_registered set.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	email := req.Email

	user, created, err := h.ChurchUsers.Register(r.Context(), churchuserdomain.RegisterInput{
		Email:    email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, churchuserdomain.ErrInvalidRegistration):
			h.log.BusinessError("auth.register: invalid input", err, "email", email)
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), churchuserdomain.ErrInvalidRegistration.Error()+": "))
		case errors.Is(err, churchuserdomain.ErrIdentityConflict):
			h.log.BusinessError("auth.register: identity conflict", err, "email", email)
			writeError(w, http.StatusConflict, "identity_conflict", "an account with this email already exists with a different password")
		case errors.Is(err, churchuserdomain.ErrTemporarilyUnavailable):
			h.log.Warn("auth.register: store unavailable", "error", err, "email", email)
			writeError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "please try again shortly")
		case errors.Is(err, churchuserdomain.ErrRegistrationDisabled):
			h.log.Warn("auth.register: registration disabled", "error", err)
			writeError(w, http.StatusNotFound, "not_found", "not found")
		default:
			h.log.InternalError("auth.register: registration failed", err, "email", email)
			writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong, please try again or contact support")
		}
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	writeJSON(w, status, registerResponse{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		Role:              user.Role,
		ChurchID:          user.ChurchID,
		AlreadyRegistered: !created,
	})
}
