// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. The typed error structs below
// match their corresponding sentinel, so callers can branch on the
// category without unpacking the struct:
//
//	if errors.Is(err, ubf.ErrFieldNotFound) { ... }
var (
	// ErrFieldNotFound matches any [FieldNotFoundError].
	ErrFieldNotFound = errors.New("field not present")

	// ErrTypeMismatch matches any [TypeError].
	ErrTypeMismatch = errors.New("field type mismatch")

	// ErrAllocation matches any [AllocationError].
	ErrAllocation = errors.New("buffer allocation failed")
)

// FieldNotFoundError reports that a requested (identifier, occurrence)
// pair has no value. Absence is an ordinary, recoverable condition:
// callers may substitute a default or treat the field as optional.
type FieldNotFoundError struct {
	Field      FieldID
	Occurrence int
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %s occurrence %d not present", e.Field, e.Occurrence)
}

// Is makes the error match [ErrFieldNotFound].
func (e *FieldNotFoundError) Is(target error) bool { return target == ErrFieldNotFound }

// TypeError reports that a value's semantic type does not match the
// field identifier's embedded type, or that a decode did not match the
// expected shape. The Op names the failed operation; Cause, when
// non-nil, is the underlying conversion failure.
type TypeError struct {
	Field FieldID
	Op    string
	Cause error
}

func (e *TypeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: field %s: %v", e.Op, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: field %s has type %s", e.Op, e.Field, e.Field.Type())
}

func (e *TypeError) Unwrap() error { return e.Cause }

// Is makes the error match [ErrTypeMismatch].
func (e *TypeError) Is(target error) bool { return target == ErrTypeMismatch }

// AllocationError reports that backing memory could not be created or
// grown, or that a released buffer was used. It is surfaced to the
// caller as-is; any retry policy belongs to the caller.
type AllocationError struct {
	Op    string
	Cause error
}

func (e *AllocationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return e.Op
}

func (e *AllocationError) Unwrap() error { return e.Cause }

// Is makes the error match [ErrAllocation].
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// ConversionError reports a failed struct-mapping or generic-codec
// operation. It carries the native struct and field names alongside the
// buffer identifier so the failure is diagnosable without buffer
// introspection tools. Conversions are all-or-nothing: when one is
// returned, no partially populated struct or buffer was produced.
type ConversionError struct {
	Struct  string
	Field   string
	FieldID FieldID
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Struct, e.Err)
	}
	return fmt.Sprintf("%s.%s (field %s): %v", e.Struct, e.Field, e.FieldID, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
