// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"strings"
	"unicode/utf8"
)

// The character string types below all encode themselves through
// [Encoder.EncodeCharacterString]. Their Go representation is always UTF-8.
// Each type has an IsValid method reporting whether a value fits the
// repertoire of the ASN.1 type. Encoders reject invalid values.

func encodeString(e Encoder, tag Tag, kind StringKind, cs Constraints, s string) error {
	return e.EncodeCharacterString(tag, kind, cs, s)
}

func decodeString[S ~string](d Decoder, tag Tag, kind StringKind, cs Constraints, s *S) error {
	v, err := d.DecodeCharacterString(tag, kind, cs)
	if err != nil {
		return err
	}
	*s = S(v)
	return nil
}

//region [UNIVERSAL 12] UTF8String

// UTF8String represents the ASN.1 UTF8String type. It can only hold valid UTF-8
// values.
//
// See also section 41 of Rec. ITU-T X.680.
type UTF8String string

// UTF8StringType is the descriptor of the UTF8String type.
var UTF8StringType = NewSimpleType("UTF8String", Universal(TagUTF8String))

// IsValid reports whether s is a valid UTF-8 string.
func (s UTF8String) IsValid() bool {
	return utf8.ValidString(string(s))
}

// Compare compares s and o lexicographically.
func (s UTF8String) Compare(o UTF8String) int { return strings.Compare(string(s), string(o)) }

func (UTF8String) ASN1Type() *TypeInfo { return UTF8StringType }

func (s UTF8String) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindUTF8String, cs, string(s))
}

func (s *UTF8String) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindUTF8String, cs, s)
}

//endregion

//region [UNIVERSAL 18] NumericString

// NumericString corresponds to the ASN.1 NumericString type. A NumericString
// can only consist of the digits 0-9 and space. Note that it is possible to
// create NumericString values in Go that violate this constraint. Use the
// IsValid method to check whether a string's contents are numeric.
//
// See also section 41 of Rec. ITU-T X.680.
type NumericString string

// NumericStringType is the descriptor of the NumericString type.
var NumericStringType = NewSimpleType("NumericString", Universal(TagNumericString))

// IsValid reports whether s consists only of allowed numeric characters.
func (s NumericString) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if !isNumeric(s[i]) {
			return false
		}
	}
	return true
}

// isNumeric reports whether b can appear in an ASN.1 NumericString.
func isNumeric(b byte) bool {
	return '0' <= b && b <= '9' || b == ' '
}

func (s NumericString) Compare(o NumericString) int { return strings.Compare(string(s), string(o)) }

func (NumericString) ASN1Type() *TypeInfo { return NumericStringType }

func (s NumericString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindNumericString, cs, string(s))
}

func (s *NumericString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindNumericString, cs, s)
}

//endregion

//region [UNIVERSAL 19] PrintableString

// PrintableString represents the ASN.1 type PrintableString. A printable string
// can only contain the following ASCII characters:
//
//	A-Z	// upper case letters
//	a-z	// lower case letters
//	0-9	// digits
//	 	// space
//	'	// apostrophe
//	()	// Parenthesis
//	+-/	// plus, hyphen, solidus
//	.,:	// fill stop, comma, colon
//	=	// equals sign
//	?	// question mark
//
// See also section 41 of Rec. ITU-T X.680.
type PrintableString string

// PrintableStringType is the descriptor of the PrintableString type.
var PrintableStringType = NewSimpleType("PrintableString", Universal(TagPrintableString))

// IsValid reports whether s consists only of printable characters.
func (s PrintableString) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if !isPrintable(s[i]) {
			return false
		}
	}
	return true
}

// isPrintable reports whether the given b is in the ASN.1 PrintableString set.
func isPrintable(b byte) bool {
	return 'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9' ||
		'\'' <= b && b <= ')' ||
		'+' <= b && b <= '/' ||
		b == ' ' ||
		b == ':' ||
		b == '=' ||
		b == '?'
}

func (s PrintableString) Compare(o PrintableString) int {
	return strings.Compare(string(s), string(o))
}

func (PrintableString) ASN1Type() *TypeInfo { return PrintableStringType }

func (s PrintableString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindPrintableString, cs, string(s))
}

func (s *PrintableString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindPrintableString, cs, s)
}

//endregion

//region [UNIVERSAL 20] TeletexString (T61String)

// TeletexString represents the ASN.1 TeletexString type. Its contents are
// transferred as raw octets. Escape sequences are not interpreted.
type TeletexString string

// TeletexStringType is the descriptor of the TeletexString type.
var TeletexStringType = NewSimpleType("TeletexString", Universal(TagTeletexString))

func (TeletexString) ASN1Type() *TypeInfo { return TeletexStringType }

func (s TeletexString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindTeletexString, cs, string(s))
}

func (s *TeletexString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindTeletexString, cs, s)
}

//endregion

//region [UNIVERSAL 21] VideotexString

// VideotexString represents the ASN.1 VideotexString type. Like
// [TeletexString] its octets are not interpreted.
type VideotexString string

// VideotexStringType is the descriptor of the VideotexString type.
var VideotexStringType = NewSimpleType("VideotexString", Universal(TagVideotexString))

func (VideotexString) ASN1Type() *TypeInfo { return VideotexStringType }

func (s VideotexString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindVideotexString, cs, string(s))
}

func (s *VideotexString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindVideotexString, cs, s)
}

//endregion

//region [UNIVERSAL 22] IA5String

// IA5String represents the ASN.1 type IA5String. An IA5String must consist on
// ASCII characters only. Note that it is possible to create IA5String values in
// Go that violate this constraint. Use the IsValid method to check whether a
// string's contents are ASCII only.
//
// See also section 41 of Rec. ITU-T X.680.
type IA5String string

// IA5StringType is the descriptor of the IA5String type.
var IA5StringType = NewSimpleType("IA5String", Universal(TagIA5String))

// IsValid reports whether the contents of s consist only of ASCII characters.
func (s IA5String) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (s IA5String) Compare(o IA5String) int { return strings.Compare(string(s), string(o)) }

func (IA5String) ASN1Type() *TypeInfo { return IA5StringType }

func (s IA5String) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindIA5String, cs, string(s))
}

func (s *IA5String) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindIA5String, cs, s)
}

//endregion

//region [UNIVERSAL 25] GraphicString

// GraphicString represents the ASN.1 GraphicString type. Its octets are not
// interpreted.
type GraphicString string

// GraphicStringType is the descriptor of the GraphicString type.
var GraphicStringType = NewSimpleType("GraphicString", Universal(TagGraphicString))

func (GraphicString) ASN1Type() *TypeInfo { return GraphicStringType }

func (s GraphicString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindGraphicString, cs, string(s))
}

func (s *GraphicString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindGraphicString, cs, s)
}

//endregion

//region [UNIVERSAL 26] VisibleString

// VisibleString represents the corresponding ASN.1 type. It is limited to
// visible ASCII characters. In particular this does not include ASCII control
// characters.
//
// See also section 41 of Rec. ITU-T X.680.
type VisibleString string

// VisibleStringType is the descriptor of the VisibleString type.
var VisibleStringType = NewSimpleType("VisibleString", Universal(TagVisibleString))

// IsValid reports whether s only consists of visible ASCII characters.
func (s VisibleString) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] >= 0x7F {
			return false
		}
	}
	return true
}

func (s VisibleString) Compare(o VisibleString) int { return strings.Compare(string(s), string(o)) }

func (VisibleString) ASN1Type() *TypeInfo { return VisibleStringType }

func (s VisibleString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindVisibleString, cs, string(s))
}

func (s *VisibleString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindVisibleString, cs, s)
}

//endregion

//region [UNIVERSAL 27] GeneralString

// GeneralString represents the ASN.1 GeneralString type. Its octets are not
// interpreted.
type GeneralString string

// GeneralStringType is the descriptor of the GeneralString type.
var GeneralStringType = NewSimpleType("GeneralString", Universal(TagGeneralString))

func (GeneralString) ASN1Type() *TypeInfo { return GeneralStringType }

func (s GeneralString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindGeneralString, cs, string(s))
}

func (s *GeneralString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindGeneralString, cs, s)
}

//endregion

//region [UNIVERSAL 28] UniversalString

// UniversalString represents the corresponding ASN.1 type. A UniversalString
// can contain any Unicode character. Note that the Go type uses standard Go
// strings which are UTF-8 encoded. The BER encoding uses big endian UTF-32.
//
// In most cases [UTF8String] is a more appropriate type.
//
// See also section 41 of Rec. ITU-T X.680.
type UniversalString string

// UniversalStringType is the descriptor of the UniversalString type.
var UniversalStringType = NewSimpleType("UniversalString", Universal(TagUniversalString))

// IsValid reports whether s consists of a valid UTF-8 encoding. Note that this
// does not validate the encoding of a UniversalString but its Go
// representation.
func (s UniversalString) IsValid() bool {
	return utf8.ValidString(string(s))
}

func (UniversalString) ASN1Type() *TypeInfo { return UniversalStringType }

func (s UniversalString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindUniversalString, cs, string(s))
}

func (s *UniversalString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindUniversalString, cs, s)
}

//endregion

//region [UNIVERSAL 30] BMPString

// BMPString represents the corresponding ASN.1 type. A BMPString can hold any
// character of the Unicode Basic Multilingual Plane. Note that this type uses
// standard Go strings which are UTF-8 encoded. The BER encoding uses big
// endian UTF-16.
//
// In most cases [UTF8String] is a more appropriate type.
//
// See also section 41 of Rec. ITU-T X.680.
type BMPString string

// BMPStringType is the descriptor of the BMPString type.
var BMPStringType = NewSimpleType("BMPString", Universal(TagBMPString))

// IsValid reports whether s is valid UTF-8 and only contains characters of the
// Basic Multilingual Plane. Surrogate code points are not allowed.
func (s BMPString) IsValid() bool {
	if !utf8.ValidString(string(s)) {
		return false
	}
	for _, r := range s {
		if r > 0xFFFF || (r >= 0xD800 && r < 0xE000) {
			return false
		}
	}
	return true
}

func (BMPString) ASN1Type() *TypeInfo { return BMPStringType }

func (s BMPString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return encodeString(e, tag, KindBMPString, cs, string(s))
}

func (s *BMPString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	return decodeString(d, tag, KindBMPString, cs, s)
}

//endregion
