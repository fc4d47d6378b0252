// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"errors"
	"fmt"
)

// Each error kind below mirrors the teacher's InvalidFormatError
// shape: a small wrapper type implementing Is(target error) bool so
// callers can use errors.Is(err, &ifclite.EntityNotFoundError{}) etc.
// against any value of the same kind, regardless of the wrapped
// detail.

// InvalidFormatError reports that the input is not well-formed STEP
// Part 21 text (bad header, truncated DATA section, unbalanced
// quoting).
type InvalidFormatError struct{ Err error }

func (e *InvalidFormatError) Error() string { return "invalid format: " + e.Err.Error() }
func (e *InvalidFormatError) Unwrap() error { return e.Err }
func (e *InvalidFormatError) Is(target error) bool {
	_, ok := target.(*InvalidFormatError)
	return ok
}

func newInvalidFormatErrorf(format string, args ...any) error {
	return &InvalidFormatError{fmt.Errorf(format, args...)}
}

// InvalidHeaderError reports a malformed or missing HEADER section
// field (FILE_DESCRIPTION, FILE_NAME, FILE_SCHEMA).
type InvalidHeaderError struct{ Err error }

func (e *InvalidHeaderError) Error() string { return "invalid header: " + e.Err.Error() }
func (e *InvalidHeaderError) Unwrap() error { return e.Err }
func (e *InvalidHeaderError) Is(target error) bool {
	_, ok := target.(*InvalidHeaderError)
	return ok
}

func newInvalidHeaderErrorf(format string, args ...any) error {
	return &InvalidHeaderError{fmt.Errorf(format, args...)}
}

// EntityParseError reports that a single entity record could not be
// tokenized or decoded; it carries the offending id.
type EntityParseError struct {
	ID  EntityID
	Err error
}

func (e *EntityParseError) Error() string {
	return fmt.Sprintf("entity #%d: %s", e.ID, e.Err.Error())
}
func (e *EntityParseError) Unwrap() error { return e.Err }
func (e *EntityParseError) Is(target error) bool {
	_, ok := target.(*EntityParseError)
	return ok
}

func newEntityParseError(id EntityID, err error) error {
	return &EntityParseError{ID: id, Err: err}
}

// EntityNotFoundError reports a reference to an id absent from the
// entity index.
type EntityNotFoundError struct{ ID EntityID }

func (e *EntityNotFoundError) Error() string { return fmt.Sprintf("entity #%d not found", e.ID) }
func (e *EntityNotFoundError) Is(target error) bool {
	_, ok := target.(*EntityNotFoundError)
	return ok
}

func newEntityNotFoundError(id EntityID) error { return &EntityNotFoundError{ID: id} }

// InvalidReferenceError reports that an attribute expected to be an
// entity reference was not one, or pointed at the wrong type.
type InvalidReferenceError struct{ Err error }

func (e *InvalidReferenceError) Error() string { return "invalid reference: " + e.Err.Error() }
func (e *InvalidReferenceError) Unwrap() error { return e.Err }
func (e *InvalidReferenceError) Is(target error) bool {
	_, ok := target.(*InvalidReferenceError)
	return ok
}

func newInvalidReferenceErrorf(format string, args ...any) error {
	return &InvalidReferenceError{fmt.Errorf(format, args...)}
}

// TypeMismatchError reports that an attribute was read with an
// accessor that didn't match its kind.
type TypeMismatchError struct {
	Want, Got string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}
func (e *TypeMismatchError) Is(target error) bool {
	_, ok := target.(*TypeMismatchError)
	return ok
}

// MissingAttributeError reports a required positional attribute that
// was null, out of range, or absent.
type MissingAttributeError struct {
	Entity EntityID
	Index  int
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("entity #%d: missing attribute at index %d", e.Entity, e.Index)
}
func (e *MissingAttributeError) Is(target error) bool {
	_, ok := target.(*MissingAttributeError)
	return ok
}

func newMissingAttributeError(entity EntityID, idx int) error {
	return &MissingAttributeError{Entity: entity, Index: idx}
}

// UnsupportedSchemaError reports a FILE_SCHEMA the decoder does not
// recognize enough to proceed confidently; by policy this degrades
// to best-effort parsing rather than aborting (see spec §7).
type UnsupportedSchemaError struct{ Schema string }

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported schema %q", e.Schema)
}
func (e *UnsupportedSchemaError) Is(target error) bool {
	_, ok := target.(*UnsupportedSchemaError)
	return ok
}

// GeometryError reports a failure specific to profile extraction,
// triangulation, or solid construction for one representation item.
type GeometryError struct{ Err error }

func (e *GeometryError) Error() string { return "geometry: " + e.Err.Error() }
func (e *GeometryError) Unwrap() error { return e.Err }
func (e *GeometryError) Is(target error) bool {
	_, ok := target.(*GeometryError)
	return ok
}

func newGeometryErrorf(format string, args ...any) error {
	return &GeometryError{fmt.Errorf(format, args...)}
}

// IoError wraps an underlying I/O failure (short read, seek failure)
// encountered while scanning a model's content.
type IoError struct{ Err error }

func (e *IoError) Error() string { return "io: " + e.Err.Error() }
func (e *IoError) Unwrap() error { return e.Err }
func (e *IoError) Is(target error) bool {
	_, ok := target.(*IoError)
	return ok
}

// IsInvalidFormat reports whether err (or anything it wraps) is an
// InvalidFormatError.
func IsInvalidFormat(err error) bool {
	var target *InvalidFormatError
	return errors.As(err, &target)
}

// IsEntityNotFound reports whether err (or anything it wraps) is an
// EntityNotFoundError.
func IsEntityNotFound(err error) bool {
	var target *EntityNotFoundError
	return errors.As(err, &target)
}
