// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"errors"
	"math"

	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/internal/vlq"
)

// ParseHeader decodes the identifier and length octets at the start of b. It
// returns the header and the number of bytes it occupies. Errors are the
// structural errors of package asn1 and are not wrapped.
//
// Tag numbers in the long form must be minimally encoded. ParseHeader accepts
// non-minimal length octets as permitted by BER. Compare the result of
// [HeaderLen] with the returned size to detect those.
func ParseHeader(b []byte) (h Header, n int, err error) {
	if len(b) == 0 {
		return h, 0, asn1.ErrTruncated
	}
	h = Header{
		Tag:         asn1.Tag{Class: asn1.Class(b[0] >> 6), Number: uint(b[0] & 0x1f)},
		Constructed: b[0]&0x20 == 0x20,
	}
	n = 1

	// If the bottom five bits are set, then the tag number is actually VLQ-encoded
	if b[0]&0x1f == 0x1f {
		num, l, err := vlq.DecodeMinimal[uint](b[n:])
		n += l
		switch {
		case errors.Is(err, vlq.ErrTruncated):
			return h, n, asn1.ErrTruncated
		case errors.Is(err, vlq.ErrNotMinimal):
			return h, n, asn1.ErrInvalidVarint
		case errors.Is(err, vlq.ErrOverflow):
			return h, n, asn1.ErrTagOverflow
		}
		h.Tag.Number = num
	}

	if n >= len(b) {
		return h, n, asn1.ErrTruncated
	}
	c := b[n]
	n++
	switch {
	case c&0x80 == 0:
		// The length is encoded in the bottom 7 bits.
		h.Length = int(c)
	case c == 0x80:
		if !h.Constructed {
			return h, n, asn1.ErrInvalidLength
		}
		h.Length = LengthIndefinite
	case c == 0xff:
		// reserved for future extensions
		return h, n, asn1.ErrInvalidLength
	default:
		// Bottom 7 bits give the number of length bytes to follow.
		numBytes := int(c & 0x7f)
		if len(b)-n < numBytes {
			return h, len(b), asn1.ErrTruncated
		}
		for _, c := range b[n : n+numBytes] {
			if h.Length > math.MaxInt>>8 {
				// We can't shift h.length up without overflowing.
				return h, n + numBytes, asn1.ErrInvalidLength
			}
			h.Length = h.Length<<8 | int(c)
		}
		n += numBytes
	}
	return h, n, nil
}

// isEOC reports whether b starts with the two zero octets of the
// end-of-contents marker.
func isEOC(b []byte) bool {
	return len(b) >= 2 && b[0] == 0 && b[1] == 0
}

// Split separates the data value at the start of b from the data values
// following it. It returns the header of the value, its contents and the
// remaining bytes. For the indefinite-length format the contents do not
// include the end-of-contents marker.
//
// The end of an indefinite-length value is found by scanning its contents.
// Values nested more than maxDepth levels below the value at the start of b
// are rejected with [asn1.ErrDepthExceeded]. Split does not validate values
// nested inside definite-length values.
//
// Errors are reported as [*SyntaxError] with offsets relative to b.
func Split(b []byte, maxDepth int) (h Header, content, rest []byte, err error) {
	h, n, err := ParseHeader(b)
	if err != nil {
		return h, nil, nil, syntaxError(err, 0, Header{})
	}
	if h.Tag == (asn1.Tag{}) {
		return h, nil, nil, syntaxError(asn1.ErrInvalidEOC, 0, Header{})
	}
	if h.Length != LengthIndefinite {
		if h.Length > len(b)-n {
			return h, nil, nil, syntaxError(asn1.ErrTruncated, 0, Header{})
		}
		return h, b[n : n+h.Length], b[n+h.Length:], nil
	}
	end, err := scanIndefinite(b[n:], maxDepth)
	if err != nil {
		return h, nil, nil, syntaxError(err, n, h)
	}
	return h, b[n : n+end], b[n+end+2:], nil
}

// scanIndefinite returns the length of the contents of an indefinite-length
// value whose contents start at b, not including the end-of-contents marker.
// Nested values of definite length are skipped without inspection.
func scanIndefinite(b []byte, maxDepth int) (int, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	pos := 0
	depth := 1
	for {
		if pos >= len(b) {
			return 0, syntaxError(asn1.ErrUnterminated, pos, Header{})
		}
		if isEOC(b[pos:]) {
			pos += 2
			depth--
			if depth == 0 {
				return pos - 2, nil
			}
			continue
		}
		h, n, err := ParseHeader(b[pos:])
		if err != nil {
			return 0, syntaxError(err, pos, Header{})
		}
		if h.Tag == (asn1.Tag{}) {
			return 0, syntaxError(asn1.ErrInvalidEOC, pos, Header{})
		}
		if h.Length == LengthIndefinite {
			depth++
			if depth > maxDepth {
				return 0, syntaxError(asn1.ErrDepthExceeded, pos, Header{})
			}
			pos += n
			continue
		}
		if h.Length > len(b)-pos-n {
			return 0, syntaxError(asn1.ErrTruncated, pos, Header{})
		}
		pos += n + h.Length
	}
}
