// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "exposure/pkg/domain-errors"
)

// WriteJSON writes v as a JSON body with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the JSON error envelope. Internal failures never
// expose their message.
func WriteError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	description := ""

	var de *dErrors.Error
	if errors.As(err, &de) {
		switch de.Code {
		case dErrors.CodeInvalidInput:
			status, code = http.StatusBadRequest, "bad_request"
		case dErrors.CodeNotFound:
			status, code = http.StatusNotFound, "not_found"
		case dErrors.CodeConflict:
			status, code = http.StatusConflict, "conflict"
		case dErrors.CodeUnavailable:
			status, code = http.StatusServiceUnavailable, "unavailable"
		}
		if status != http.StatusInternalServerError {
			description = de.Message
		}
	}

	body := map[string]string{"error": code}
	if description != "" {
		body["error_description"] = description
	}
	WriteJSON(w, status, body)
}
