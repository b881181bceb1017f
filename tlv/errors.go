// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"strconv"
)

// SyntaxError represents an error in the TLV encoding. The error value contains
// the location of the error within the input as well as the [Header] of the
// surrounding data value. Err is one of the structural errors of package asn1,
// such as [asn1.ErrTruncated] or [asn1.ErrUnterminated].
type SyntaxError struct {
	requireKeyedLiterals
	nonComparable

	Err error // underlying error

	// ByteOffset is the location of the error. The location is usually the start of
	// the TLV header containing the error.
	ByteOffset int

	// Header is the TLV header of the constructed TLV whose value contained the
	// malformed data.
	Header Header
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("tlv: syntax error")
	if !e.Header.IsEOC() {
		b = append(b, " within "...)
		b = append(b, e.Header.String()...)
	}
	if e.ByteOffset > 0 {
		b = strconv.AppendInt(append(b, " for TLV beginning at offset "...), int64(e.ByteOffset), 10)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

// syntaxError returns a *SyntaxError for err at offset. If err already is a
// *SyntaxError its offset is shifted by offset.
func syntaxError(err error, offset int, h Header) error {
	if sErr, ok := err.(*SyntaxError); ok {
		sErr.ByteOffset += offset
		return sErr
	}
	return &SyntaxError{Err: err, ByteOffset: offset, Header: h}
}
