// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"strconv"
	"strings"
)

// Structural errors. These indicate that the input is not a well-formed
// sequence of data value encodings.
var (
	ErrTagMismatch   = errors.New("tag mismatch")
	ErrTruncated     = errors.New("truncated data value")
	ErrInvalidLength = errors.New("invalid length")
	ErrUnterminated  = errors.New("missing end-of-contents")
	ErrInvalidEOC    = errors.New("invalid end-of-contents")
	ErrInvalidVarint = errors.New("malformed base-128 integer")
	ErrTagOverflow   = errors.New("tag number too large")
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")
	ErrTrailingData  = errors.New("unexpected trailing data")
)

// Content errors. These indicate that the contents of a data value do not
// conform to the type that was expected.
var (
	ErrInvalidBitString = errors.New("invalid bit string")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrWrongSize        = errors.New("wrong content size")
	ErrInvalidValue     = errors.New("invalid value")
	ErrOverflow         = errors.New("value out of range")
	ErrNonCanonical     = errors.New("non-canonical encoding")
)

// Semantic errors.
var (
	ErrConstraint     = errors.New("constraint violation")
	ErrNoValidChoice  = errors.New("no valid choice")
	ErrMissingField   = errors.New("missing required field")
	ErrDuplicateField = errors.New("duplicate field")
	ErrUnknownField   = errors.New("unknown field")
)

// ErrInvalidType indicates an error in a type descriptor rather than in the
// data being processed. See [TypeError].
var ErrInvalidType = errors.New("invalid type definition")

// A DecodeError describes a failure to decode a value. Structural, content and
// semantic errors are reported as DecodeError values wrapping one of the
// sentinel errors of this package, so callers can use [errors.Is] to classify
// them.
type DecodeError struct {
	Codec    string   // name of the codec, e.g. "DER"
	Tag      Tag      // tag of the data value that caused the error
	Expected Tag      // tag that was expected, if the error is about tags
	Path     []string // field names from the outermost to the innermost value
	Offset   int      // byte offset of the offending data value or -1
	Err      error
}

func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Codec != "" {
		b.WriteString(strings.ToLower(e.Codec))
		b.WriteString(": ")
	}
	b.WriteString("decoding")
	if p := e.FieldPath(); p != "" {
		b.WriteString(" ")
		b.WriteString(p)
	}
	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if errors.Is(e.Err, ErrTagMismatch) {
		b.WriteString(" (expected ")
		b.WriteString(e.Expected.String())
		b.WriteString(", got ")
		b.WriteString(e.Tag.String())
		b.WriteString(")")
	}
	return b.String()
}

// FieldPath returns the dotted path of e, for example "outer.items[2].name".
func (e *DecodeError) FieldPath() string {
	return joinPath(e.Path)
}

// An EncodeError describes a failure to encode a value.
type EncodeError struct {
	Codec string   // name of the codec, e.g. "DER"
	Tag   Tag      // tag of the value that could not be encoded
	Path  []string // field names from the outermost to the innermost value
	Err   error
}

func (e *EncodeError) Unwrap() error { return e.Err }
func (e *EncodeError) Error() string {
	var b strings.Builder
	if e.Codec != "" {
		b.WriteString(strings.ToLower(e.Codec))
		b.WriteString(": ")
	}
	b.WriteString("encoding")
	if p := e.FieldPath(); p != "" {
		b.WriteString(" ")
		b.WriteString(p)
	}
	b.WriteString(" ")
	b.WriteString(e.Tag.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// FieldPath returns the dotted path of e, for example "outer.items[2].name".
func (e *EncodeError) FieldPath() string {
	return joinPath(e.Path)
}

// WithField records that err occurred while processing the field or
// alternative called name. Codecs call WithField while the error propagates
// outwards, so the path of the error lists the outermost name first. Errors
// other than [*DecodeError] and [*EncodeError] are returned unchanged.
//
// Element indices of SEQUENCE OF and SET OF values are recorded with a name of
// the form "[i]".
func WithField(err error, name string) error {
	if name == "" {
		return err
	}
	var de *DecodeError
	if errors.As(err, &de) {
		de.Path = append([]string{name}, de.Path...)
		return err
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		ee.Path = append([]string{name}, ee.Path...)
	}
	return err
}

// joinPath joins the elements of path with dots, except for index elements.
func joinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// A TypeError describes a malformed type descriptor, for example a CHOICE type
// whose alternatives share a tag. TypeError values wrap [ErrInvalidType].
type TypeError struct {
	Identifier string // name of the offending type
	Msg        string
}

func (e *TypeError) Unwrap() error { return ErrInvalidType }
func (e *TypeError) Error() string {
	if e.Identifier == "" {
		return "asn1: invalid type: " + e.Msg
	}
	return "asn1: invalid type " + e.Identifier + ": " + e.Msg
}

// A ConstraintError describes a value that violates a subtype constraint.
// ConstraintError values wrap [ErrConstraint].
type ConstraintError struct {
	Kind       string // "value", "size" or "alphabet"
	Value      string // the offending value
	Constraint string // the violated constraint
}

func (e *ConstraintError) Unwrap() error { return ErrConstraint }
func (e *ConstraintError) Error() string {
	return "constraint violation: " + e.Kind + " " + e.Value + " not in " + e.Constraint
}
