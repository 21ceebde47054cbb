package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for every non-2xx response from the backend.
type APIError struct {
	Status     int
	StatusText string
	URL        string
	Body       map[string]any
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorCode returns the business error code carried in the body, if any.
func (e *APIError) ErrorCode() string {
	if e.Body == nil {
		return ""
	}
	code, _ := e.Body["error_code"].(string)
	return code
}

func newAPIError(status int, statusText, url string, body map[string]any) *APIError {
	msg := ""
	if m, ok := body["message"].(string); ok && m != "" {
		msg = m
	} else if d, ok := body["detail"].(string); ok && d != "" {
		msg = d
	} else {
		msg = fmt.Sprintf("HTTP %d: %s", status, statusText)
	}
	return &APIError{
		Status:     status,
		StatusText: statusText,
		URL:        url,
		Body:       body,
		Message:    msg,
	}
}

// ContractError reports a 2xx response whose shape does not match the
// enveloped contract the console expects.
type ContractError struct {
	Endpoint string
	Expected string
	Raw      []byte
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("unexpected response from %s: expected %s", e.Endpoint, e.Expected)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// AsContractError reports whether err carries a *ContractError.
func AsContractError(err error) (*ContractError, bool) {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
