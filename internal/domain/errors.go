package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound       = errors.New("queue entry not found")
	ErrBundleNotFound      = errors.New("bundle not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
)

// ValidationError rejects a malformed notification before it enters
// the pipeline.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid notification: %s %s", e.Field, e.Reason)
}
