// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 implements the abstract model of ASN.1 data structures as
// defined in [Rec. ITU-T X.680]: tags, tag trees, subtype constraints and the
// static type descriptors of SEQUENCE, SET and CHOICE types. Encoding and
// decoding of values using concrete encoding rules is implemented in
// subpackages of this package.
//
// # Codec Contract
//
// Types participate in encoding and decoding by implementing [Encodable] and
// [Decodable]. The methods of these interfaces receive an [Encoder] or
// [Decoder] that exposes one operation per ASN.1 type. A type's
// implementation calls exactly the operations corresponding to its ASN.1
// definition; the codec decides how those operations are represented on the
// wire. The same implementation therefore works for every codec, for example
// the BER, CER and DER codecs in the ber package.
//
// This package provides implementations for the built-in ASN.1 types such as
// [Integer], [OctetString], [ObjectIdentifier] or [UTF8String]. Structured
// types are described by a [TypeInfo] that is built once, usually in a package
// level variable:
//
//	// Person ::= SEQUENCE {
//	//     name  UTF8String,
//	//     age   [0] INTEGER OPTIONAL
//	// }
//	var personType = asn1.Must(asn1.NewSequenceType("Person", false,
//		asn1.NewField("name", asn1.UTF8StringType, ""),
//		asn1.NewField("age", asn1.IntegerType, "tag:0,optional"),
//	))
//
// The implementation of Person then uses the generic helpers [EncodeRequired],
// [EncodeOptional], [DecodeRequired] and [DecodeOptional] to process the
// individual components. Building a descriptor validates the tags of its
// components: ambiguous CHOICE alternatives or SET members are reported
// before any value is processed.
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
package asn1

import (
	"cmp"
	"strconv"
	"strings"
)

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
//
// Whether a data value uses the primitive or constructed encoding is not part
// of its tag. Encoding rules record that information alongside the tag.
type Tag struct {
	Class  Class
	Number uint
}

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Universal returns the tag with number n in the UNIVERSAL class.
func Universal(n uint) Tag { return Tag{ClassUniversal, n} }

// Application returns the tag with number n in the APPLICATION class.
func Application(n uint) Tag { return Tag{ClassApplication, n} }

// Context returns the context-specific tag with number n.
func Context(n uint) Tag { return Tag{ClassContextSpecific, n} }

// Private returns the tag with number n in the PRIVATE class.
func Private(n uint) Tag { return Tag{ClassPrivate, n} }

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// Compare returns -1, 0 or +1 depending on whether t sorts before, equal to or
// after u. Tags are ordered by class first (UNIVERSAL, APPLICATION,
// CONTEXT-SPECIFIC, PRIVATE) and by number second. This is the canonical order
// of Rec. ITU-T X.680, Section 8.6.
func (t Tag) Compare(u Tag) int {
	if c := cmp.Compare(t.Class, u.Class); c != 0 {
		return c
	}
	return cmp.Compare(t.Number, u.Number)
}

// TagReserved is a reserved tag number in the [ClassUniversal] namespace to be
// used by encoding rules. This assignment is defined in Rec. ITU-T X.680,
// Section 8, Table 1.
const TagReserved = 0

// These are some ASN.1 tag numbers are defined in the [ClassUniversal]
// namespace. These assignments are defined in Rec. ITU-T X.680, Section 8, Table
// 1.
const (
	TagBoolean          uint = 1
	TagInteger          uint = 2
	TagBitString        uint = 3
	TagOctetString      uint = 4
	TagNull             uint = 5
	TagOID              uint = 6
	TagObjectDescriptor uint = 7
	TagExternal         uint = 8
	TagReal             uint = 9
	TagEnumerated       uint = 10
	TagEmbeddedPDV      uint = 11
	TagUTF8String       uint = 12
	TagRelativeOID      uint = 13
	TagTime             uint = 14
	TagSequence         uint = 16
	TagSet              uint = 17
	TagNumericString    uint = 18
	TagPrintableString  uint = 19
	TagTeletexString    uint = 20
	TagT61String             = TagTeletexString
	TagVideotexString   uint = 21
	TagIA5String        uint = 22
	TagUTCTime          uint = 23
	TagGeneralizedTime  uint = 24
	TagGraphicString    uint = 25
	TagVisibleString    uint = 26
	TagISO646String          = TagVisibleString
	TagGeneralString    uint = 27
	TagUniversalString  uint = 28
	TagCharacterString  uint = 29
	TagBMPString        uint = 30
	TagDate             uint = 31
	TagTimeOfDay        uint = 32
	TagDateTime         uint = 33
	TagDuration         uint = 34
)
