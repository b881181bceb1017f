// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"math/bits"

	"github.com/asn1kit/asn1/internal/vlq"
)

// HeaderLen returns the number of bytes [AppendHeader] produces for h. This is
// the size of the shortest encoding of h.
func HeaderLen(h Header) int {
	l := 1 // class, constructed, tag
	if h.Tag.Number >= 31 {
		l += vlq.Size(h.Tag.Number)
	}
	l++ // length
	if h.Length == LengthIndefinite || h.Length < 128 {
		return l
	}
	return l + (bits.Len(uint(h.Length))+7)/8
}

// AppendHeader appends the shortest encoding of h to dst and returns the
// extended slice.
func AppendHeader(dst []byte, h Header) []byte {
	b := uint8(h.Tag.Class) << 6
	if h.Constructed {
		b |= 0x20
	}
	if h.Tag.Number < 31 {
		dst = append(dst, b|uint8(h.Tag.Number))
	} else {
		dst = append(dst, b|0x1f)
		dst = vlq.Append(dst, h.Tag.Number)
	}

	if h.Length == LengthIndefinite {
		return append(dst, 0x80)
	} else if h.Length >= 128 {
		numBytes := (bits.Len(uint(h.Length)) + 7) / 8
		dst = append(dst, 0x80|byte(numBytes))
		for ; numBytes > 0; numBytes-- {
			dst = append(dst, byte(h.Length>>uint((numBytes-1)*8)))
		}
		return dst
	}
	return append(dst, byte(h.Length))
}

// AppendEOC appends the end-of-contents marker to dst.
func AppendEOC(dst []byte) []byte {
	return append(dst, 0x00, 0x00)
}

// Append appends a complete data value with the given header and contents to
// dst. The length of h is ignored unless it is [LengthIndefinite], in which
// case an end-of-contents marker is appended after the contents.
func Append(dst []byte, h Header, content []byte) []byte {
	if h.Length != LengthIndefinite {
		h.Length = len(content)
	}
	dst = AppendHeader(dst, h)
	dst = append(dst, content...)
	if h.Length == LengthIndefinite {
		dst = AppendEOC(dst)
	}
	return dst
}
