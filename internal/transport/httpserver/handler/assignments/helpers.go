package assignments

import (
	"errors"
	"net/http"
	"strings"

	commonhandler "church-admin-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst any) error {
	return commonhandler.DecodeJSON(r, dst)
}

func validateStruct(v any) error {
	return commonhandler.ValidateStruct(v)
}

func validationMessage(err error) string {
	return commonhandler.ValidationMessage(err)
}

// detail strips the sentinel prefix from a wrapped domain error.
func detail(err, sentinel error) string {
	message := err.Error()
	if trimmed := strings.TrimPrefix(message, sentinel.Error()+": "); trimmed != message {
		return trimmed
	}
	if errors.Is(err, sentinel) {
		return sentinel.Error()
	}
	return message
}
