package errs

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when all featured slots are occupied.
// It is checked before any write is attempted.
var ErrCapacityExceeded = errors.New("all featured slots are occupied")

// FetchError wraps a store/transport failure. Nothing is retried; the
// triggering action fails and the caller reports it.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewFetchError(op string, err error) error {
	return &FetchError{Op: op, Err: err}
}

// ConflictError signals a uniqueness constraint violation (duplicate slot
// order, duplicate property number).
type ConflictError struct {
	Entity string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %v", e.Entity, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

func NewConflictError(entity string, err error) error {
	return &ConflictError{Entity: entity, Err: err}
}

// PartialReorderFailure reports a slot swap that could not be completed
// atomically. LastKnownGood maps slot id to the display order the slot held
// before the swap started, so an operator can restore it by hand.
type PartialReorderFailure struct {
	SlotID        uint
	OtherSlotID   uint
	LastKnownGood map[uint]int
	Err           error
}

func (e *PartialReorderFailure) Error() string {
	return fmt.Sprintf("partial reorder of slot %d: %v (last known good orders: %v)",
		e.SlotID, e.Err, e.LastKnownGood)
}

func (e *PartialReorderFailure) Unwrap() error { return e.Err }

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
