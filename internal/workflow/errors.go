package workflow

import "errors"

// ErrBusy is returned when an operation is requested while another one is
// still in flight. The caller must re-trigger the action; nothing is queued.
var ErrBusy = errors.New("another operation is in progress")

// ValidationError is a local pre-flight failure. It never reaches the
// network and carries the exact message shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
