package assignments

import (
	"errors"
	"net/http"
	"strings"
	"time"

	assignmentdomain "church-admin-go/internal/domain/assignment"
	churchdomain "church-admin-go/internal/domain/church"
	"church-admin-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createAssignmentRequest struct {
	ChurchID   string `json:"church_id" validate:"required"`
	PastorName string `json:"pastor_name" validate:"required,max=200"`
}

type assignmentResponse struct {
	ID          string                `json:"id"`
	ChurchID    string                `json:"church_id"`
	PastorName  string                `json:"pastor_name"`
	PastorEmail *string               `json:"pastor_email"`
	Status      string                `json:"status"`
	CreatedBy   string                `json:"created_by,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at"`
	CancelledAt *time.Time            `json:"cancelled_at"`
	Church      *churchdomain.Summary `json:"church"`
}

type assignmentsResponse struct {
	Items []assignmentResponse `json:"items"`
}

func (h *Handlers) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}

	admin, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Assignments.CreatePendingAssignment(r.Context(), req.ChurchID, req.PastorName, admin.ID)
	if err != nil {
		switch {
		case errors.Is(err, assignmentdomain.ErrInvalidInput):
			h.log.BusinessError("assignments.create: invalid input", err, "church_id", req.ChurchID)
			writeError(w, http.StatusBadRequest, "invalid_request", detail(err, assignmentdomain.ErrInvalidInput))
		case errors.Is(err, assignmentdomain.ErrChurchNotFound):
			h.log.BusinessError("assignments.create: church not found", err, "church_id", req.ChurchID)
			writeError(w, http.StatusNotFound, "church_not_found", "church not found")
		case errors.Is(err, assignmentdomain.ErrDuplicateAssignment):
			h.log.BusinessError("assignments.create: already pending", err, "church_id", req.ChurchID, "pastor_name", req.PastorName)
			writeError(w, http.StatusConflict, "assignment_already_pending", "this pastor is already pending for the church")
		case errors.Is(err, assignmentdomain.ErrTemporarilyUnavailable):
			h.log.Warn("assignments.create: store unavailable", "error", err, "church_id", req.ChurchID)
			writeError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "please try again shortly")
		default:
			h.log.InternalError("assignments.create: create assignment failed", err, "church_id", req.ChurchID)
			writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong, please try again or contact support")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentResponse(*result))
}

func (h *Handlers) ListAssignments(w http.ResponseWriter, r *http.Request) {
	filter := assignmentdomain.ListFilter{
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		ChurchID: strings.TrimSpace(r.URL.Query().Get("church_id")),
	}

	rows, err := h.Assignments.ListAssignments(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, assignmentdomain.ErrInvalidInput):
			h.log.BusinessError("assignments.list: invalid filter", err, "status", filter.Status)
			writeError(w, http.StatusBadRequest, "invalid_request", detail(err, assignmentdomain.ErrInvalidInput))
		case errors.Is(err, assignmentdomain.ErrTemporarilyUnavailable):
			h.log.Warn("assignments.list: store unavailable", "error", err)
			writeError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "please try again shortly")
		default:
			h.log.InternalError("assignments.list: list assignments failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong, please try again or contact support")
		}
		return
	}

	items := make([]assignmentResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toAssignmentResponse(row))
	}
	writeJSON(w, http.StatusOK, assignmentsResponse{Items: items})
}

func (h *Handlers) CancelAssignment(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.Assignments.CancelPendingAssignment(r.Context(), id); err != nil {
		if errors.Is(err, assignmentdomain.ErrAssignmentNotFound) {
			h.log.BusinessError("assignments.cancel: assignment not found", err, "assignment_id", id)
			writeError(w, http.StatusNotFound, "assignment_not_found", "assignment not found or no longer pending")
			return
		}
		h.log.InternalError("assignments.cancel: cancel assignment failed", err, "assignment_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong, please try again or contact support")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toAssignmentResponse(row assignmentdomain.PendingAssignment) assignmentResponse {
	return assignmentResponse{
		ID:          row.ID,
		ChurchID:    row.ChurchID,
		PastorName:  row.PastorName,
		PastorEmail: row.PastorEmail,
		Status:      row.Status,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
		CancelledAt: row.CancelledAt,
		Church:      row.Church,
	}
}
