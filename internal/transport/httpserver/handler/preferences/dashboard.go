package preferences

import (
	"errors"
	"net/http"

	preferencesdomain "church-admin-go/internal/domain/preferences"
	"church-admin-go/internal/transport/httpserver/middleware"
)

type updateDashboardRequest struct {
	Widgets map[string]bool `json:"widgets" validate:"required"`
}

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Preferences.Dashboard(r.Context(), principal.ID)
	if err != nil {
		h.log.InternalError("preferences.get_dashboard: load failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) UpdateDashboard(w http.ResponseWriter, r *http.Request) {
	var req updateDashboardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Preferences.UpdateDashboard(r.Context(), principal.ID, preferencesdomain.Widgets(req.Widgets))
	if err != nil {
		if errors.Is(err, preferencesdomain.ErrUnknownWidget) {
			h.log.BusinessError("preferences.update_dashboard: unknown widget", err, "user_id", principal.ID)
			writeError(w, http.StatusBadRequest, "unknown_widget", err.Error())
			return
		}
		h.log.InternalError("preferences.update_dashboard: save failed", err, "user_id", principal.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
