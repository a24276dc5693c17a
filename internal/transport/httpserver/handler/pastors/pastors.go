package pastors

import (
	"errors"
	"net/http"
	"strings"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type pastorsResponse struct {
	Items []churchuserdomain.Pastor `json:"items"`
}

func (h *Handlers) ListPastors(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.ChurchUsers.ListPastors(r.Context(), actor)
	if err != nil {
		if errors.Is(err, churchuserdomain.ErrForbidden) {
			h.log.BusinessError("pastors.list: forbidden", err, "church_user_id", actor.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		h.log.InternalError("pastors.list: list pastors failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if items == nil {
		items = []churchuserdomain.Pastor{}
	}

	writeJSON(w, http.StatusOK, pastorsResponse{Items: items})
}

func (h *Handlers) UnassignPastor(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.ChurchUsers.UnassignPastor(r.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, churchuserdomain.ErrChurchUserNotFound):
			h.log.BusinessError("pastors.unassign: pastor not found", err, "church_user_id", id)
			writeError(w, http.StatusNotFound, "pastor_not_found", "pastor not found")
		case errors.Is(err, churchuserdomain.ErrNotPastor):
			h.log.BusinessError("pastors.unassign: not a pastor", err, "church_user_id", id)
			writeError(w, http.StatusConflict, "not_pastor", "church user is not an assigned pastor")
		case errors.Is(err, churchuserdomain.ErrForbidden):
			h.log.BusinessError("pastors.unassign: forbidden", err, "church_user_id", id)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		default:
			h.log.InternalError("pastors.unassign: unassign failed", err, "church_user_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
