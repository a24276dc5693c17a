package reports

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	reportsdomain "church-admin-go/internal/domain/reports"
	"church-admin-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	summary, err := h.Reports.Summary(r.Context(), actor)
	if err != nil {
		if errors.Is(err, reportsdomain.ErrForbidden) {
			h.log.BusinessError("reports.summary: forbidden", err, "church_user_id", actor.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		h.log.InternalError("reports.summary: build summary failed", err, "church_user_id", actor.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) ChurchesCSV(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	churches, err := h.Reports.Churches(r.Context(), actor)
	if err != nil {
		if errors.Is(err, reportsdomain.ErrForbidden) {
			h.log.BusinessError("reports.churches_csv: forbidden", err, "church_user_id", actor.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		h.log.InternalError("reports.churches_csv: load churches failed", err, "church_user_id", actor.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	var buf bytes.Buffer
	if err := reportsdomain.WriteChurchesCSV(&buf, churches); err != nil {
		h.log.InternalError("reports.churches_csv: encode csv failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	filename := "churches-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
