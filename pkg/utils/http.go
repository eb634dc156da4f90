package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Response is the uniform API envelope. Failures carry success=false and a
// message; successes carry the payload and an optional message.
type Response struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, payload any, code int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, data any, message string, code int) error {
	return WriteJSON(w, Response{Success: true, Data: data, Message: message}, code)
}

func WriteError(w http.ResponseWriter, message string, code int) error {
	return WriteJSON(w, Response{Success: false, Message: message}, code)
}

func DecodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// WriteValidationError maps validator failures to per-field messages.
func WriteValidationError(w http.ResponseWriter, err error) error {
	res := Response{
		Success: false,
		Message: "invalid request",
		Fields:  make(map[string]string),
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			res.Fields[fe.Field()] = fe.Tag()
		}
	}

	return WriteJSON(w, res, http.StatusBadRequest)
}
