package server

import (
	"encoding/json"
	"errors"
	"net/http"

	perrors "github.com/matzehuels/graphprep/pkg/errors"
)

// errorResponse is the standard error envelope.
type errorResponse struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err with the status derived from its code. Errors
// without a code are reported as internal errors without leaking details.
func writeError(w http.ResponseWriter, err error) {
	status := perrors.HTTPStatus(err)
	code := perrors.GetCode(err)
	msg := perrors.UserMessage(err)

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status, code = http.StatusRequestEntityTooLarge, perrors.ErrCodeInvalidInput
	case code == "":
		code, msg = perrors.ErrCodeInternal, "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
