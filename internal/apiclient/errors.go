package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/attachment"
	"github.com/abduss/pressroom/internal/auth"
)

// ErrorResponse is the error body written by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// APIError is a non-2xx response. It matches the server-side sentinel for its
// status so callers can use errors.Is on either side of the wire.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == auth.ErrUnauthorized
	case http.StatusBadRequest:
		return target == announcement.ErrInvalidInput || target == attachment.ErrInvalidInput
	case http.StatusNotFound:
		return target == announcement.ErrNotFound
	default:
		return false
	}
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}
	return &APIError{StatusCode: resp.StatusCode}
}
