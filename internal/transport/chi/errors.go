package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/archsearch/internal/domain"
)

// ErrorCode is a machine-readable error category returned to chat clients.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest    ErrorCode = "bad_request"
	ErrorCodeUnauthorized  ErrorCode = "unauthorized"
	ErrorCodeRateLimited   ErrorCode = "rate_limited"
	ErrorCodeNotConfigured ErrorCode = "not_configured"
	ErrorCodeSearchFailed  ErrorCode = "search_failed"
	ErrorCodeInternal      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// classify maps a pipeline error to a client-safe code and message without exposing internals.
func classify(err error) (ErrorCode, string) {
	switch {
	case errors.Is(err, domain.ErrSearchFailed), errors.Is(err, domain.ErrAgentFailed):
		return ErrorCodeSearchFailed, "search failed"
	case errors.Is(err, domain.ErrNotConfigured):
		return ErrorCodeNotConfigured, domain.ErrNotConfigured.Error()
	default:
		return ErrorCodeInternal, "internal error"
	}
}
