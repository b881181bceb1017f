// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"math/big"
)

// Encodable is implemented by types that can be encoded by any [Encoder].
//
// ASN1Type returns the static descriptor of the type. It must not depend on
// the receiver's value. EncodeASN1 encodes the receiver using tag as the
// outermost tag and checks the receiver against the constraints cs. The tag
// differs from ASN1Type().Tag if the value is tagged implicitly. CHOICE types
// ignore the tag.
type Encodable interface {
	ASN1Type() *TypeInfo
	EncodeASN1(e Encoder, tag Tag, cs Constraints) error
}

// Decodable is implemented by types that can be decoded by any [Decoder]. It
// is usually implemented with a pointer receiver. The meaning of tag and cs
// matches [Encodable].
type Decodable interface {
	ASN1Type() *TypeInfo
	DecodeASN1(d Decoder, tag Tag, cs Constraints) error
}

// A Decoder is the decoding half of a codec. It exposes one operation per ASN.1
// type. Each operation consumes one data value from the input, verifies that
// it begins with the given tag and returns its value.
//
// Operations on structured types receive a callback. The callback is invoked
// with a Decoder that is scoped to the contents of the structured value.
// Operations return a [*DecodeError] on malformed input.
type Decoder interface {
	// Codec returns the name of the encoding rules, for example "DER".
	Codec() string

	// DecodeAny decodes the next data value as an open type without
	// interpreting its contents.
	DecodeAny() (RawValue, error)

	DecodeBool(tag Tag) (bool, error)
	DecodeInteger(tag Tag, cs Constraints) (*big.Int, error)
	DecodeEnumerated(tag Tag, cs Constraints) (int64, error)
	DecodeReal(tag Tag) (float64, error)
	DecodeNull(tag Tag) error
	DecodeObjectIdentifier(tag Tag) (ObjectIdentifier, error)
	DecodeRelativeOID(tag Tag) (RelativeOID, error)
	DecodeBitString(tag Tag, cs Constraints) (BitString, error)
	DecodeOctetString(tag Tag, cs Constraints) ([]byte, error)

	// DecodeCharacterString decodes a string of the given kind and returns it
	// in UTF-8.
	DecodeCharacterString(tag Tag, kind StringKind, cs Constraints) (string, error)

	// DecodeExplicitPrefix decodes a data value with the given tag that wraps
	// exactly one inner data value. fn decodes the inner value.
	DecodeExplicitPrefix(tag Tag, fn func(Decoder) error) error

	// DecodeSequence decodes a SEQUENCE described by ti. fn decodes the
	// components in declaration order using DecodeField, DecodeOptional and
	// DecodeExtensionAddition. Components that are not present in the input
	// are reported as absent, so an empty SEQUENCE yields only default
	// values.
	DecodeSequence(tag Tag, ti *TypeInfo, fn func(Decoder) error) error

	// DecodeSet decodes a SET described by ti. fn is called once for every
	// member present in the input, in the order they appear, with the index
	// of the matching component in ti.Fields. fn must consume exactly that
	// member.
	DecodeSet(tag Tag, ti *TypeInfo, fn func(field int, d Decoder) error) error

	// DecodeSequenceOf calls fn once for every element of a SEQUENCE OF. fn must
	// consume exactly one data value.
	DecodeSequenceOf(tag Tag, cs Constraints, fn func(Decoder) error) error

	// DecodeSetOf calls fn once for every element of a SET OF. fn must consume
	// exactly one data value.
	DecodeSetOf(tag Tag, cs Constraints, fn func(Decoder) error) error

	// DecodeChoice determines the alternative of the CHOICE ti by inspecting
	// the tag of the next data value and calls fn with its index. fn must
	// consume the alternative. If ti is extensible and the tag belongs to no
	// alternative, fn is called with UnknownAlternative and should consume
	// the value with DecodeAny.
	DecodeChoice(ti *TypeInfo, fn func(alt int, d Decoder) error) error

	// DecodeField decodes a required component of the SEQUENCE currently
	// being decoded. fn decodes the value of the component, usually with
	// DecodeFieldValue.
	DecodeField(f Field, fn func(Decoder) error) error

	// DecodeOptional decodes an OPTIONAL or DEFAULT component. It reports
	// whether the component was present. fn is only called if it was.
	DecodeOptional(f Field, fn func(Decoder) error) (bool, error)

	// DecodeExtensionAddition decodes an extension addition. It reports
	// whether the addition was present.
	DecodeExtensionAddition(f Field, fn func(Decoder) error) (bool, error)
}

// UnknownAlternative is passed to the callback of [Decoder.DecodeChoice] for
// an unknown alternative of an extensible CHOICE.
const UnknownAlternative = -1

// An Encoder is the encoding half of a codec. Its operations are the duals of
// the operations of [Decoder]. Operations return an [*EncodeError] if a value
// cannot be encoded, for example because it violates a constraint.
type Encoder interface {
	// Codec returns the name of the encoding rules, for example "DER".
	Codec() string

	// EncodeAny writes rv unchanged.
	EncodeAny(rv RawValue) error

	EncodeBool(tag Tag, v bool) error
	EncodeInteger(tag Tag, cs Constraints, v *big.Int) error
	EncodeEnumerated(tag Tag, cs Constraints, v int64) error
	EncodeReal(tag Tag, v float64) error
	EncodeNull(tag Tag) error
	EncodeObjectIdentifier(tag Tag, oid ObjectIdentifier) error
	EncodeRelativeOID(tag Tag, oid RelativeOID) error
	EncodeBitString(tag Tag, cs Constraints, v BitString) error
	EncodeOctetString(tag Tag, cs Constraints, v []byte) error

	// EncodeCharacterString encodes the UTF-8 string v as a string of the
	// given kind.
	EncodeCharacterString(tag Tag, kind StringKind, cs Constraints, v string) error

	// EncodeExplicitPrefix writes a data value with the given tag that wraps
	// the single value written by fn.
	EncodeExplicitPrefix(tag Tag, fn func(Encoder) error) error

	// EncodeSequence writes a SEQUENCE described by ti whose components are
	// written by fn.
	EncodeSequence(tag Tag, ti *TypeInfo, fn func(Encoder) error) error

	// EncodeSet writes a SET described by ti whose members are written by fn.
	// Canonical encoding rules reorder the members.
	EncodeSet(tag Tag, ti *TypeInfo, fn func(Encoder) error) error

	// EncodeSequenceOf writes a SEQUENCE OF with n elements. fn writes the
	// element with index i.
	EncodeSequenceOf(tag Tag, cs Constraints, n int, fn func(i int, e Encoder) error) error

	// EncodeSetOf writes a SET OF with n elements. Canonical encoding rules
	// reorder the elements.
	EncodeSetOf(tag Tag, cs Constraints, n int, fn func(i int, e Encoder) error) error

	// EncodeChoice writes the alternative alt of the CHOICE ti. fn writes the
	// value of the alternative, usually with EncodeFieldValue.
	EncodeChoice(ti *TypeInfo, alt int, fn func(Encoder) error) error

	// EncodeField writes a required component.
	EncodeField(f Field, fn func(Encoder) error) error

	// EncodeOptional writes an OPTIONAL component if present is true.
	EncodeOptional(f Field, present bool, fn func(Encoder) error) error

	// EncodeDefault writes a DEFAULT component unless isDefault reports that
	// its value equals the default value.
	EncodeDefault(f Field, isDefault bool, fn func(Encoder) error) error

	// EncodeExtensionAddition writes an extension addition if present is
	// true.
	EncodeExtensionAddition(f Field, present bool, fn func(Encoder) error) error
}

// StringKind identifies one of the ASN.1 character string types.
//
//go:generate stringer -type=StringKind -trimprefix=Kind
type StringKind uint8

const (
	KindUTF8String StringKind = iota
	KindNumericString
	KindPrintableString
	KindTeletexString
	KindVideotexString
	KindIA5String
	KindGraphicString
	KindVisibleString
	KindGeneralString
	KindUniversalString
	KindBMPString
	KindUTCTime
	KindGeneralizedTime
)

// UniversalTag returns the UNIVERSAL tag of the string type k. Segments of a
// constructed string encoding carry this tag, even if the string itself is
// tagged differently.
func (k StringKind) UniversalTag() Tag {
	var n uint
	switch k {
	case KindUTF8String:
		n = TagUTF8String
	case KindNumericString:
		n = TagNumericString
	case KindPrintableString:
		n = TagPrintableString
	case KindTeletexString:
		n = TagTeletexString
	case KindVideotexString:
		n = TagVideotexString
	case KindIA5String:
		n = TagIA5String
	case KindGraphicString:
		n = TagGraphicString
	case KindVisibleString:
		n = TagVisibleString
	case KindGeneralString:
		n = TagGeneralString
	case KindUniversalString:
		n = TagUniversalString
	case KindBMPString:
		n = TagBMPString
	case KindUTCTime:
		n = TagUTCTime
	case KindGeneralizedTime:
		n = TagGeneralizedTime
	}
	return Universal(n)
}

// Valid reports whether every character of the UTF-8 string s belongs to the
// character repertoire of k. Teletex, Videotex, Graphic and General strings
// use escape sequences to switch character sets and are not validated.
func (k StringKind) Valid(s string) bool {
	switch k {
	case KindUTF8String, KindUniversalString:
		return UTF8String(s).IsValid()
	case KindNumericString:
		return NumericString(s).IsValid()
	case KindPrintableString:
		return PrintableString(s).IsValid()
	case KindIA5String:
		return IA5String(s).IsValid()
	case KindVisibleString, KindUTCTime, KindGeneralizedTime:
		return VisibleString(s).IsValid()
	case KindBMPString:
		return BMPString(s).IsValid()
	}
	return true
}
