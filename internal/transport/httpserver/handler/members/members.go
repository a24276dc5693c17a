package members

import (
	"errors"
	"net/http"
	"strings"

	memberdomain "church-admin-go/internal/domain/member"
	commonhandler "church-admin-go/internal/transport/httpserver/handler/common"
	"church-admin-go/internal/transport/httpserver/middleware"
	"church-admin-go/pkg/textclean"
	"github.com/go-chi/chi/v5"
)

type memberRequest struct {
	ChurchID string `json:"church_id"`
	Name     string `json:"name" validate:"required,max=200"`
	Age      *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender   string `json:"gender" validate:"max=16"`
	Role     string `json:"role" validate:"max=64"`
	Phone    string `json:"phone" validate:"max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type membersResponse struct {
	Items []memberdomain.Member `json:"items"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	values := r.URL.Query()
	query := memberdomain.Query{
		ChurchID: strings.TrimSpace(values.Get("church_id")),
		Search:   textclean.Plain(values.Get("q")),
		Genders:  commonhandler.ParseCSV(strings.ToLower(values.Get("gender"))),
		Role:     textclean.Plain(values.Get("role")),
	}

	items, err := h.Members.List(r.Context(), actor, query)
	if err != nil {
		h.writeMemberError(w, "members.list", err, "")
		return
	}
	if items == nil {
		items = []memberdomain.Member{}
	}

	writeJSON(w, http.StatusOK, membersResponse{Items: items})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	result, err := h.Members.Get(r.Context(), actor, id)
	if err != nil {
		h.writeMemberError(w, "members.get", err, id)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeMemberInput(w, r)
	if !ok {
		return
	}
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Members.Create(r.Context(), actor, input)
	if err != nil {
		h.writeMemberError(w, "members.create", err, "")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeMemberInput(w, r)
	if !ok {
		return
	}
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	result, err := h.Members.Update(r.Context(), actor, id, input)
	if err != nil {
		h.writeMemberError(w, "members.update", err, id)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ChurchUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.Members.Delete(r.Context(), actor, id); err != nil {
		h.writeMemberError(w, "members.delete", err, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, memberdomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, "member_id", id)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, memberdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "member_id", id)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, memberdomain.ErrInvalidMember), errors.Is(err, memberdomain.ErrInvalidFilter):
		h.log.BusinessError(op+": invalid request", err, "member_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, "member_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func decodeMemberInput(w http.ResponseWriter, r *http.Request) (memberdomain.Input, bool) {
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return memberdomain.Input{}, false
	}
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return memberdomain.Input{}, false
	}

	input := memberdomain.Input{
		ChurchID: strings.TrimSpace(req.ChurchID),
		Name:     textclean.Plain(req.Name),
		Age:      req.Age,
		Gender:   req.Gender,
		Role:     textclean.Plain(req.Role),
		Phone:    textclean.Plain(req.Phone),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if input.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return memberdomain.Input{}, false
	}
	return input, true
}
