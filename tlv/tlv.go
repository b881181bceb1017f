// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tlv implements the tag-length-value (TLV) framing used by the Basic
// Encoding Rules (BER) and related encoding rules as specified in
// [Rec. ITU-T X.690]. See also “[A Layman's Guide to a Subset of ASN.1, BER,
// and DER]”.
//
// This package deals with the syntactic layer of TLV-encoding: identifier and
// length octets, the end-of-contents marker and the nesting of constructed
// values. Packages such as [github.com/asn1kit/asn1/ber] deal with the
// semantic layer. All functions operate on byte slices and never copy the
// contents of a data value.
//
// # Headers and Values
//
// In BER each value is encoded using a tag-length-value format. The tag and
// length (we call them a header) are represented by the [Header] type. Values
// can use the primitive or constructed encoding. Values using the constructed
// encoding contain more BER-encoded values and can either end implicitly (when
// using the definite-length encoding) or explicitly with an end-of-contents
// marker (indefinite length).
//
// [Split] separates one complete data value from its successors. The [Scanner]
// type visits all data values of an encoding in depth-first order and reports
// the end of every constructed value with an [EndOfContents] header,
// regardless of whether it uses the definite or indefinite-length encoding.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"math"
	"strconv"

	"github.com/asn1kit/asn1"
)

// DefaultMaxDepth is the nesting limit used when a function receives a
// non-positive maximum depth.
const DefaultMaxDepth = 64

// EndOfContents is the end-of-contents marker signalling the end of a
// constructed element. It coincides with the zero Header.
var EndOfContents = Header{}

// LengthIndefinite when used as a magic number for the length of a [Header]
// indicates that the data value is encoded using the constructed
// indefinite-length format.
const LengthIndefinite = -1

// CombinedLength returns the sum of the given lengths or offsets. The result
// is [LengthIndefinite] if any of the arguments is [LengthIndefinite] or if the
// sum overflows an int. The [Scanner] uses it to compute the end of a data
// value.
func CombinedLength(ls ...int) int {
	sum := 0
	for _, l := range ls {
		if l == LengthIndefinite || l > math.MaxInt-sum {
			return LengthIndefinite
		}
		sum += l
	}
	return sum
}

// MinLength returns the smaller of l1 and l2, treating [LengthIndefinite] as
// larger than any definite length.
func MinLength(l1, l2 int) int {
	switch {
	case l1 == LengthIndefinite:
		return l2
	case l2 == LengthIndefinite:
		return l1
	}
	return min(l1, l2)
}

// Header represents a TLV header. The [Header.Length] may be [LengthIndefinite]
// if an indefinite-length encoding is used. It is invalid to use the
// indefinite-length encoding when [Header.Constructed] = false.
type Header struct {
	Tag         asn1.Tag
	Constructed bool
	Length      int
}

// IsEOC reports whether h is the end-of-contents marker.
func (h Header) IsEOC() bool {
	return h == EndOfContents
}

// String returns a string representation of h.
func (h Header) String() string {
	if h.IsEOC() {
		return "EndOfContents"
	}
	s := h.Tag.String()
	if h.Constructed {
		s += "/c"
	} else {
		s += "/p"
	}
	if h.Length == LengthIndefinite {
		return s + ":indefinite"
	}
	return s + ":" + strconv.Itoa(h.Length)
}

// requireKeyedLiterals can be embedded in a struct to require keyed literals.
type requireKeyedLiterals struct{}

// nonComparable can be embedded in a struct to prevent comparability.
type nonComparable [0]func()
