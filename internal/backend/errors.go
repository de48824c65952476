package backend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alsafar-travels/umrahdesk/internal/errs"
)

// APIError is a non-2xx response from the backend. Message is the
// server-provided reason and is surfaced to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Unwrap maps the HTTP status onto the shared sentinels so callers can
// branch with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return errs.ErrUnauthenticated
	case e.Status == http.StatusForbidden:
		return errs.ErrForbidden
	case e.Status == http.StatusNotFound:
		return errs.ErrNotFound
	case e.Status >= http.StatusInternalServerError:
		return errs.ErrUnavailable
	default:
		return nil
	}
}

func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	return &APIError{Status: status, Message: msg}
}
