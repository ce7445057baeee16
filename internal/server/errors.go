package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	cgerrors "github.com/matzehuels/compgraph/pkg/errors"
)

var errBodyTooLarge = errors.New("request body too large")

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code and the message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	code := cgerrors.GetCode(err)
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == cgerrors.ErrCodeEmptyGraph:
		return http.StatusUnprocessableEntity
	case code == cgerrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case code == cgerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	code := string(cgerrors.GetCode(err))
	msg := cgerrors.UserMessage(err)
	switch {
	case errors.Is(err, errBodyTooLarge):
		code = "BODY_TOO_LARGE"
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = "TIMEOUT", "request timed out"
	case code == "":
		code, msg = string(cgerrors.ErrCodeInternal), "internal error"
	}
	writeErrorCode(w, status, code, msg)
}

func writeErrorCode(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
