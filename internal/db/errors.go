package db

import (
	"errors"
	"fmt"
)

// DataAccessError is returned for any failure talking to the store.
// Callers treat it as fatal: nothing is mutated after one is seen.
type DataAccessError struct {
	Message string
	Cause   error
}

func (e *DataAccessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("data access error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("data access error: %s", e.Message)
}

func (e *DataAccessError) Unwrap() error {
	return e.Cause
}

// IsDataAccessError reports whether err wraps a DataAccessError
func IsDataAccessError(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}

func wrap(message string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Message: message, Cause: err}
}
