package assignments

import (
	"errors"
	"net/http"

	assignmentdomain "church-admin-go/internal/domain/assignment"
	churchdomain "church-admin-go/internal/domain/church"
	churchuserdomain "church-admin-go/internal/domain/churchuser"
)

type registerRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,max=72"`
}

// openAssignmentResponse is the public view used by the registration form.
type openAssignmentResponse struct {
	ID         string                `json:"id"`
	PastorName string                `json:"pastor_name"`
	Church     *churchdomain.Summary `json:"church"`
}

type openAssignmentsResponse struct {
	Items       []openAssignmentResponse `json:"items"`
	Unavailable bool                     `json:"unavailable"`
}

type registrationResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	ChurchID *string `json:"church_id"`
}

func (h *Handlers) ListOpenAssignments(w http.ResponseWriter, r *http.Request) {
	result, err := h.Assignments.ListPendingAssignments(r.Context())
	if err != nil {
		h.log.InternalError("registration.list: list pending assignments failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong, please try again or contact support")
		return
	}

	items := make([]openAssignmentResponse, 0, len(result.Items))
	for _, row := range result.Items {
		items = append(items, openAssignmentResponse{
			ID:         row.ID,
			PastorName: row.PastorName,
			Church:     row.Church,
		})
	}
	writeJSON(w, http.StatusOK, openAssignmentsResponse{Items: items, Unavailable: result.Unavailable})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}

	user, err := h.Assignments.CompleteRegistration(r.Context(), assignmentdomain.RegistrationInput{
		AssignmentID: req.AssignmentID,
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, assignmentdomain.ErrInvalidInput):
			h.log.BusinessError("registration.complete: invalid input", err, "assignment_id", req.AssignmentID)
			writeError(w, http.StatusBadRequest, "invalid_request", detail(err, assignmentdomain.ErrInvalidInput))
		case errors.Is(err, assignmentdomain.ErrAssignmentNotFound):
			h.log.BusinessError("registration.complete: assignment not found", err, "assignment_id", req.AssignmentID)
			writeError(w, http.StatusNotFound, "assignment_not_found", "assignment not found or no longer pending")
		case errors.Is(err, assignmentdomain.ErrIdentityConflict):
			h.log.BusinessError("registration.complete: identity conflict", err, "assignment_id", req.AssignmentID)
			writeError(w, http.StatusConflict, "identity_conflict", "an account with this email already exists with a different password")
		case errors.Is(err, assignmentdomain.ErrTemporarilyUnavailable):
			h.log.Warn("registration.complete: store unavailable", "error", err, "assignment_id", req.AssignmentID)
			writeError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "please try again shortly")
		default:
			h.log.InternalError("registration.complete: registration failed", err, "assignment_id", req.AssignmentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong, please try again or contact support")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toRegistrationResponse(user))
}

func toRegistrationResponse(user *churchuserdomain.ChurchUser) registrationResponse {
	return registrationResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		ChurchID: user.ChurchID,
	}
}
