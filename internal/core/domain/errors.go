package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown store or sink driver.
	ErrUnsupportedType = errors.New("unsupported type")

	// Run failure taxonomy. Every failure aborts the run; these sentinels
	// only tell the caller which collaborator failed.

	// ErrUpstreamProtocolViolation indicates the tracker returned a page
	// that contradicts its own pagination contract.
	ErrUpstreamProtocolViolation = errors.New("upstream protocol violation")

	// ErrTransport indicates a network or HTTP failure talking to the
	// tracker or the search sink.
	ErrTransport = errors.New("transport error")

	// ErrStore indicates the checkpoint store could not be read or written.
	ErrStore = errors.New("checkpoint store error")

	// ErrSinkRejected indicates the search sink reported a failed write.
	ErrSinkRejected = errors.New("search sink rejected write")
)

// ProtocolViolationError describes an inconsistent listing page.
type ProtocolViolationError struct {
	// Page is the zero-based index of the offending page.
	Page uint32

	// TotalPages is the page count the iterator was working against.
	TotalPages uint32

	// Reason describes the inconsistency.
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("upstream protocol violation on page %d of %d: %s", e.Page, e.TotalPages, e.Reason)
}

// Unwrap lets errors.Is match ErrUpstreamProtocolViolation.
func (e *ProtocolViolationError) Unwrap() error {
	return ErrUpstreamProtocolViolation
}

// SinkRejectionError carries the search sink's diagnostic payload for a
// failed write task.
type SinkRejectionError struct {
	TaskID  int64
	Code    string
	Type    string
	Message string
}

func (e *SinkRejectionError) Error() string {
	return fmt.Sprintf("search sink rejected task %d: %s (%s)", e.TaskID, e.Message, e.Code)
}

// Unwrap lets errors.Is match ErrSinkRejected.
func (e *SinkRejectionError) Unwrap() error {
	return ErrSinkRejected
}
