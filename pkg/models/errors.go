package models

import "fmt"

// ValidationError represents an error due to invalid or malformed input.
// Supports errors.As.
type ValidationError struct {
	msg string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// TransformationError wraps failures converting stored or wire data into models,
// such as an undecodable cache entry or profile payload.
// Supports errors.As.
type TransformationError struct {
	msg string
}

// Error implements the error interface.
func (e *TransformationError) Error() string {
	return e.msg
}

// NewTransformationError creates a new TransformationError.
func NewTransformationError(msg string) error {
	return &TransformationError{
		msg: msg,
	}
}

// StorageError wraps errors from the persistent key value storage.
// Supports errors.As and errors.Unwrap.
type StorageError struct {
	Op  string
	err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("storage error: %v", e.err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.err)
}

func (e *StorageError) Unwrap() error {
	return e.err
}

// NewStorageError creates a new StorageError for the given operation.
func NewStorageError(op string, err error) error {
	return &StorageError{
		Op:  op,
		err: err,
	}
}
