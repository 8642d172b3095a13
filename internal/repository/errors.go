package repository

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrNotFound signals a missing record where a boolean return is not possible
	ErrNotFound = errors.New("record not found")
	// ErrToolUnavailable signals a checkout against a tool with no free units
	ErrToolUnavailable = errors.New("ferramenta não disponível para empréstimo")
	// ErrTotalBelowLoaned signals an attempt to lower a tool's total quantity
	// below the number of units currently on loan
	ErrTotalBelowLoaned = errors.New("quantidade total menor que a quantidade emprestada")
)

// StorageError wraps a backend failure (connectivity, constraint
// violation, malformed query). Handlers map it to HTTP 500.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the backend error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr wraps err as a StorageError, passing nil through
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError checks whether err is a backend failure
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
