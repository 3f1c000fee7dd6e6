package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrOverlap            = errors.New("period overlaps an existing period")
	ErrDuplicateShortName = errors.New("short name already used in this period")
	ErrInvalidRange       = errors.New("start date is after end date")
	ErrInvalidShortName   = errors.New("short name must be non-empty and not a number")
	ErrAmbiguousShortName = errors.New("short name matches subjects in several periods")
	ErrNegativeAmount     = errors.New("amount of time can't be negative")
	ErrInsufficientTime   = errors.New("too much to subtract")
	ErrStore              = errors.New("store failure")
)

// OverlapError names the stored period a create or modify collided with.
type OverlapError struct {
	Conflict Period
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: conflicts with period %d (%s)", ErrOverlap, e.Conflict.ID, e.Conflict.Description)
}

func (e *OverlapError) Is(target error) bool { return target == ErrOverlap }

// InsufficientTimeError is returned by strict subtraction when the cell holds less than asked.
type InsufficientTimeError struct {
	Current   int64
	Requested int64
}

func (e *InsufficientTimeError) Error() string {
	return fmt.Sprintf("%s: requested %d minutes, only %d recorded", ErrInsufficientTime, e.Requested, e.Current)
}

func (e *InsufficientTimeError) Is(target error) bool { return target == ErrInsufficientTime }

// StoreError wraps a persistence failure. It matches ErrStore and unwraps to the driver error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// NewStoreError returns nil when err is nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
