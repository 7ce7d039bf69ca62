// Package respond junta writeJSON y el mapeo error -> status que antes
// estaba duplicado en cada handler de dominio.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-diary/internal/domain/validation"
	"pet-diary/internal/ports/storage"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Error traduce los errores de dominio/storage a HTTP.
// Lo que no reconoce sale como 500 sin exponer el mensaje interno.
func Error(w http.ResponseWriter, err error) {
	var fe *validation.FieldError
	switch {
	case errors.As(err, &fe):
		JSON(w, http.StatusBadRequest, errorBody{Error: fe.Error(), Field: fe.Field})
	case errors.Is(err, validation.ErrInvalidInput):
		JSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, storage.ErrDuplicateKey):
		JSON(w, http.StatusConflict, errorBody{Error: "already exists"})
	case errors.Is(err, storage.ErrConnection):
		JSON(w, http.StatusServiceUnavailable, errorBody{Error: "database unavailable"})
	default:
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}
