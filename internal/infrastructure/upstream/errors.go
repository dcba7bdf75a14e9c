package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// APIError is a non-2xx answer of the EDI API. Error and Message mirror the
// fields of its JSON error body.
type APIError struct {
	Status  int    `json:"-"`
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	msg := e.Err
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("edi api status %d: %s", e.Status, msg)
}

// Unwrap classifies the answer for errors.Is.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return domain.ErrUnauthenticated
	}
	return domain.ErrUpstream
}

// StatusCode returns the HTTP status of the answer.
func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) RemoteError() string   { return e.Err }
func (e *APIError) RemoteMessage() string { return e.Message }

// parseAPIError decodes an error body. Bodies that are not JSON keep only
// the status.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr = &APIError{}
	}
	apiErr.Status = status
	apiErr.Err = strings.TrimSpace(apiErr.Err)
	apiErr.Message = strings.TrimSpace(apiErr.Message)
	return apiErr
}

// IsUnauthorized reports whether err is a 401 answer of the EDI API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
