package churches

import (
	"errors"
	"net/http"
	"strings"

	churchdomain "church-admin-go/internal/domain/church"
	"church-admin-go/internal/transport/httpserver/middleware"
	"church-admin-go/pkg/textclean"
	"github.com/go-chi/chi/v5"
)

type churchRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Location       string  `json:"location" validate:"max=200"`
	PastorName     string  `json:"pastor_name" validate:"max=200"`
	PastorPhone    string  `json:"pastor_phone" validate:"max=50"`
	PastorEmail    string  `json:"pastor_email" validate:"omitempty,email"`
	PastorPhotoURL string  `json:"pastor_photo_url" validate:"omitempty,url"`
	Attendance     int     `json:"attendance" validate:"gte=0"`
	Tithes         float64 `json:"tithes" validate:"gte=0"`
}

type churchesResponse struct {
	Items []churchdomain.WithMemberCount `json:"items"`
}

func (h *Handlers) ListChurches(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Churches.List(r.Context(), actor)
	if err != nil {
		h.log.InternalError("churches.list: list churches failed", err, "church_user_id", actor.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if items == nil {
		items = []churchdomain.WithMemberCount{}
	}

	writeJSON(w, http.StatusOK, churchesResponse{Items: items})
}

func (h *Handlers) GetChurch(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	result, err := h.Churches.Get(r.Context(), actor, id)
	if err != nil {
		h.writeChurchError(w, "churches.get", err, id)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) CreateChurch(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChurchInput(w, r)
	if !ok {
		return
	}
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Churches.Create(r.Context(), actor, input)
	if err != nil {
		h.writeChurchError(w, "churches.create", err, "")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handlers) UpdateChurch(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChurchInput(w, r)
	if !ok {
		return
	}
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	result, err := h.Churches.Update(r.Context(), actor, id, input)
	if err != nil {
		h.writeChurchError(w, "churches.update", err, id)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) DeleteChurch(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.Churches.Delete(r.Context(), actor, id); err != nil {
		h.writeChurchError(w, "churches.delete", err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeChurchError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, churchdomain.ErrChurchNotFound):
		h.log.BusinessError(op+": church not found", err, "church_id", id)
		writeError(w, http.StatusNotFound, "church_not_found", "church not found")
	case errors.Is(err, churchdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "church_id", id)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, churchdomain.ErrInvalidChurch):
		h.log.BusinessError(op+": invalid church", err, "church_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, "church_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func decodeChurchInput(w http.ResponseWriter, r *http.Request) (churchdomain.Input, bool) {
	var req churchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return churchdomain.Input{}, false
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return churchdomain.Input{}, false
	}

	input := churchdomain.Input{
		Name:           textclean.Plain(req.Name),
		Location:       textclean.Plain(req.Location),
		PastorName:     textclean.Plain(req.PastorName),
		PastorPhone:    textclean.Plain(req.PastorPhone),
		PastorEmail:    strings.TrimSpace(req.PastorEmail),
		PastorPhotoURL: strings.TrimSpace(req.PastorPhotoURL),
		Attendance:     req.Attendance,
		Tithes:         req.Tithes,
	}
	if input.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return churchdomain.Input{}, false
	}
	return input, true
}
