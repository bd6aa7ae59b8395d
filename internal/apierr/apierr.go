// Package apierr carries the request-level failures the API reports
// directly: malformed bodies, bad identifiers, unknown chart types and the
// like. Domain failures (load, render, AI, export) keep their own typed
// errors and are mapped to statuses at the handler boundary.
package apierr

import (
	"fmt"
	"net/http"
)

// Stable machine-readable codes for request-level failures.
const (
	CodeInvalidBody      = "invalid_body"
	CodeInvalidDatasetID = "invalid_dataset_id"
	CodeMissingFile      = "missing_file"
	CodeUnknownChartType = "unknown_chart_type"
	CodeInvalidFormat    = "invalid_format"
	CodeAINotConfigured  = "ai_not_configured"
)

// Error pairs an HTTP status and code with the wrapped cause.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// BadRequest is a 400: the request itself was malformed.
func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// Unavailable is a 503: the capability exists but is not configured.
func Unavailable(code string, err error) *Error {
	return New(http.StatusServiceUnavailable, code, err)
}
