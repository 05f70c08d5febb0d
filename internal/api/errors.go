package api

import (
	"errors"
	"fmt"
)

// Error kinds, in order of how far the request got.
const (
	KindTransport = "TRANSPORT_ERROR"
	KindServer    = "SERVER_ERROR"
	KindContract  = "CONTRACT_VIOLATION"
)

// Error is any failure of a backend operation. Kind distinguishes transport
// failures, structured non-2xx responses, and 2xx responses that broke a
// local post-condition.
type Error struct {
	Op       string // extract, analyze, export, history
	Kind     string
	Status   int    // HTTP status for server errors, 0 otherwise
	Detail   string // server detail or local reason, may be empty
	Fallback string // generic per-operation user message
	Err      error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the most specific user-facing text available.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Fallback
}

// UserMessage extracts a user-facing message from any error, preferring
// server detail, then the operation fallback, then the raw error text.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
