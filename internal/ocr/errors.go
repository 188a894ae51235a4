package ocr

import (
	"fmt"

	"smartconv/internal/domain"
)

// BackendError is a processing error reported by a configured backend.
// It matches domain.ErrOCRBackend with errors.Is.
type BackendError struct {
	Backend string
	Page    int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	prefix := e.Backend
	if e.Page > 0 {
		prefix = fmt.Sprintf("%s (page %d)", e.Backend, e.Page)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == domain.ErrOCRBackend
}

// NewBackendError creates a BackendError for the named backend.
func NewBackendError(backend, message string, err error) *BackendError {
	return &BackendError{Backend: backend, Message: message, Err: err}
}
