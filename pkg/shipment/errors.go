package shipment

import (
	"errors"
	"fmt"
)

// NotFoundError indicates an event or query referenced an unknown shipment id.
type NotFoundError struct {
	ID string // Shipment id that was looked up
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shipment not found: %s", e.ID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

// InvalidTransitionError indicates a lifecycle event whose guard was not
// satisfied. The shipment state is left untouched when this is returned.
type InvalidTransitionError struct {
	ID     string // Shipment id
	Phase  Phase  // Phase the shipment was in when the event arrived
	Event  string // Event kind that was rejected
	Reason string // Why the guard rejected the event
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition [shipment=%s, phase=%s, event=%s]: %s",
		e.ID, e.Phase, e.Event, e.Reason)
}

// NewInvalidTransitionError creates a new InvalidTransitionError.
func NewInvalidTransitionError(id string, phase Phase, event, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{ID: id, Phase: phase, Event: event, Reason: reason}
}

// ValidationError indicates a malformed inbound record. Records failing
// validation are rejected before entering any phase; nothing is persisted.
type ValidationError struct {
	Field  string // Field that failed validation
	Reason string // Why the field is invalid
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [field=%s]: %s", e.Field, e.Reason)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError represents an error from a shipment storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "postgres", "memory")
	Operation string // Operation that failed ("put", "get", "list", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// ExportError represents an error during shipment export.
type ExportError struct {
	Format  string // Export format ("json", "csv")
	Records int    // Number of records processed before the failure
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, records=%d]: %v", e.Format, e.Records, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, records int, cause error) *ExportError {
	return &ExportError{Format: format, Records: records, Cause: cause}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidTransition reports whether err is (or wraps) an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
