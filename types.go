// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

//region [UNIVERSAL 1] BOOLEAN

// Boolean represents the ASN.1 BOOLEAN type.
//
// See also section 18 of Rec. ITU-T X.680.
type Boolean bool

// BooleanType is the descriptor of the BOOLEAN type.
var BooleanType = NewSimpleType("BOOLEAN", Universal(TagBoolean))

func (Boolean) ASN1Type() *TypeInfo { return BooleanType }

func (b Boolean) EncodeASN1(e Encoder, tag Tag, _ Constraints) error {
	return e.EncodeBool(tag, bool(b))
}

func (b *Boolean) DecodeASN1(d Decoder, tag Tag, _ Constraints) error {
	v, err := d.DecodeBool(tag)
	*b = Boolean(v)
	return err
}

// Compare orders false before true.
func (b Boolean) Compare(o Boolean) int {
	switch {
	case b == o:
		return 0
	case !bool(b):
		return -1
	}
	return 1
}

//endregion

//region [UNIVERSAL 2] INTEGER

// Integer represents the ASN.1 INTEGER type with arbitrary precision. The zero
// value represents 0.
//
// See also section 19 of Rec. ITU-T X.680.
type Integer struct {
	v *big.Int
}

// IntegerType is the descriptor of the INTEGER type.
var IntegerType = NewSimpleType("INTEGER", Universal(TagInteger))

// NewInteger returns the Integer with value i.
func NewInteger(i int64) Integer {
	return Integer{big.NewInt(i)}
}

// IntegerFromBig returns an Integer with the value of b. The value is copied.
func IntegerFromBig(b *big.Int) Integer {
	return Integer{new(big.Int).Set(b)}
}

// Big returns the value of i as a new [big.Int].
func (i Integer) Big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.v)
}

// Int64 returns the value of i and reports whether it fits into an int64.
func (i Integer) Int64() (int64, bool) {
	if i.v == nil {
		return 0, true
	}
	return i.v.Int64(), i.v.IsInt64()
}

// Compare compares the values of i and j.
func (i Integer) Compare(j Integer) int {
	return i.big().Cmp(j.big())
}

// String returns the decimal representation of i.
func (i Integer) String() string {
	return i.big().String()
}

func (i Integer) big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return i.v
}

func (Integer) ASN1Type() *TypeInfo { return IntegerType }

func (i Integer) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return e.EncodeInteger(tag, cs, i.big())
}

func (i *Integer) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	v, err := d.DecodeInteger(tag, cs)
	if err != nil {
		return err
	}
	i.v = v
	return nil
}

// Int64 represents an ASN.1 INTEGER whose values fit into 64 bits. Decoding a
// larger value fails with [ErrOverflow].
type Int64 int64

func (Int64) ASN1Type() *TypeInfo { return IntegerType }

func (i Int64) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return e.EncodeInteger(tag, cs, big.NewInt(int64(i)))
}

func (i *Int64) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	v, err := DecodeInt[int64](d, tag, cs)
	*i = Int64(v)
	return err
}

// Compare compares the values of i and j.
func (i Int64) Compare(j Int64) int {
	switch {
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

//endregion

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte in memory and the number of valid bits is recorded. Padding
// bits will be encoded and decoded as zero bits.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// BitStringType is the descriptor of the BIT STRING type.
var BitStringType = NewSimpleType("BIT STRING", Universal(TagBitString))

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// RightAlign returns a slice where the padding bits are at the beginning. The
// slice may share memory with the BitString.
func (s BitString) RightAlign() []byte {
	shift := uint(8 - (s.BitLength % 8))
	if shift == 8 || len(s.Bytes) == 0 {
		return s.Bytes
	}

	a := make([]byte, len(s.Bytes))
	a[0] = s.Bytes[0] >> shift
	for i := 1; i < len(s.Bytes); i++ {
		a[i] = s.Bytes[i-1] << (8 - shift)
		a[i] |= s.Bytes[i] >> shift
	}

	return a
}

// String formats s into a readable binary representation. Bits are grouped
// into bytes. The last group may have fewer than 8 characters.
func (s BitString) String() string {
	var sb strings.Builder
	sb.Grow(s.BitLength + s.BitLength/8)
	for i := 0; i < s.BitLength; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + byte(s.At(i)))
	}
	return sb.String()
}

func (BitString) ASN1Type() *TypeInfo { return BitStringType }

func (s BitString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return e.EncodeBitString(tag, cs, s)
}

func (s *BitString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	v, err := d.DecodeBitString(tag, cs)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

//endregion

//region [UNIVERSAL 4] OCTET STRING

// OctetString represents the ASN.1 OCTET STRING type.
//
// See also section 23 of Rec. ITU-T X.680.
type OctetString []byte

// OctetStringType is the descriptor of the OCTET STRING type.
var OctetStringType = NewSimpleType("OCTET STRING", Universal(TagOctetString))

func (OctetString) ASN1Type() *TypeInfo { return OctetStringType }

func (s OctetString) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return e.EncodeOctetString(tag, cs, s)
}

func (s *OctetString) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	v, err := d.DecodeOctetString(tag, cs)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Compare compares s and o lexicographically.
func (s OctetString) Compare(o OctetString) int {
	return bytes.Compare(s, o)
}

//endregion

//region [UNIVERSAL 5] NULL

// Null represents the ASN.1 NULL type.
//
// See also section 24 of Rec. ITU-T X.680.
type Null struct{}

// NullType is the descriptor of the NULL type.
var NullType = NewSimpleType("NULL", Universal(TagNull))

func (Null) ASN1Type() *TypeInfo { return NullType }

func (Null) EncodeASN1(e Encoder, tag Tag, _ Constraints) error {
	return e.EncodeNull(tag)
}

func (*Null) DecodeASN1(d Decoder, tag Tag, _ Constraints) error {
	return d.DecodeNull(tag)
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

var errInvalidOID = errors.New("invalid object identifier")

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of
// an object identifier are specified in [Rec. ITU-T X.660].
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint

// ObjectIdentifierType is the descriptor of the OBJECT IDENTIFIER type.
var ObjectIdentifierType = NewSimpleType("OBJECT IDENTIFIER", Universal(TagOID))

// ParseObjectIdentifier parses the dot-separated notation of an object
// identifier such as "1.2.840.113549".
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	arcs, err := parseArcs(s)
	if err != nil {
		return nil, err
	}
	oid := ObjectIdentifier(arcs)
	if !oid.IsValid() {
		return nil, fmt.Errorf("%w %q", errInvalidOID, s)
	}
	return oid, nil
}

func parseArcs(s string) ([]uint, error) {
	parts := strings.Split(s, ".")
	arcs := make([]uint, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("%w %q", errInvalidOID, s)
		}
		arcs[i] = uint(v)
	}
	return arcs, nil
}

// IsValid reports whether oid can be encoded: it must have at least two arcs,
// the first arc must be 0, 1 or 2 and the second arc must be below 40 unless
// the first arc is 2.
func (oid ObjectIdentifier) IsValid() bool {
	if len(oid) < 2 || oid[0] > 2 {
		return false
	}
	return oid[0] == 2 || oid[1] < 40
}

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// Compare compares oid and other arc by arc.
func (oid ObjectIdentifier) Compare(other ObjectIdentifier) int {
	return slices.Compare(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	return formatArcs(oid)
}

func formatArcs(arcs []uint) string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 20)
	for i, v := range arcs {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, uint64(v), 10))
	}

	return s.String()
}

func (ObjectIdentifier) ASN1Type() *TypeInfo { return ObjectIdentifierType }

func (oid ObjectIdentifier) EncodeASN1(e Encoder, tag Tag, _ Constraints) error {
	return e.EncodeObjectIdentifier(tag, oid)
}

func (oid *ObjectIdentifier) DecodeASN1(d Decoder, tag Tag, _ Constraints) error {
	v, err := d.DecodeObjectIdentifier(tag)
	if err != nil {
		return err
	}
	*oid = v
	return nil
}

//endregion

//region [UNIVERSAL 9] REAL

// Real represents the ASN.1 REAL type with the precision of a float64.
//
// See also section 21 of Rec. ITU-T X.680.
type Real float64

// RealType is the descriptor of the REAL type.
var RealType = NewSimpleType("REAL", Universal(TagReal))

func (Real) ASN1Type() *TypeInfo { return RealType }

func (r Real) EncodeASN1(e Encoder, tag Tag, _ Constraints) error {
	return e.EncodeReal(tag, float64(r))
}

func (r *Real) DecodeASN1(d Decoder, tag Tag, _ Constraints) error {
	v, err := d.DecodeReal(tag)
	*r = Real(v)
	return err
}

//endregion

//region [UNIVERSAL 10] ENUMERATED

// Enumerated represents the ASN.1 ENUMERATED type. Named values are usually
// declared as constants of a type with underlying type Enumerated. The set of
// valid values can be restricted with a value constraint.
//
// See also section 20 of Rec. ITU-T X.680.
type Enumerated int64

// EnumeratedType is the descriptor of the ENUMERATED type.
var EnumeratedType = NewSimpleType("ENUMERATED", Universal(TagEnumerated))

func (Enumerated) ASN1Type() *TypeInfo { return EnumeratedType }

func (v Enumerated) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return e.EncodeEnumerated(tag, cs, int64(v))
}

func (v *Enumerated) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	n, err := d.DecodeEnumerated(tag, cs)
	*v = Enumerated(n)
	return err
}

// Compare compares the values of v and o.
func (v Enumerated) Compare(o Enumerated) int {
	return Int64(v).Compare(Int64(o))
}

//endregion

//region [UNIVERSAL 13] RELATIVE-OID

// RelativeOID represents the ASN.1 RELATIVE OID type. This is similar to the
// [ObjectIdentifier] type, but a RelativeOID is only a suffix of an OID.
//
// See also section 33 of Rec. ITU-T X.680.
type RelativeOID []uint

// RelativeOIDType is the descriptor of the RELATIVE-OID type.
var RelativeOIDType = NewSimpleType("RELATIVE-OID", Universal(TagRelativeOID))

// ParseRelativeOID parses the dot-separated notation of a relative object
// identifier.
func ParseRelativeOID(s string) (RelativeOID, error) {
	arcs, err := parseArcs(s)
	return arcs, err
}

// Equal reports whether oid and other represent the same identifier.
func (oid RelativeOID) Equal(other RelativeOID) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid RelativeOID) String() string {
	return formatArcs(oid)
}

func (RelativeOID) ASN1Type() *TypeInfo { return RelativeOIDType }

func (oid RelativeOID) EncodeASN1(e Encoder, tag Tag, _ Constraints) error {
	return e.EncodeRelativeOID(tag, oid)
}

func (oid *RelativeOID) DecodeASN1(d Decoder, tag Tag, _ Constraints) error {
	v, err := d.DecodeRelativeOID(tag)
	if err != nil {
		return err
	}
	*oid = v
	return nil
}

//endregion

//region [UNIVERSAL 16] SEQUENCE, [UNIVERSAL 17] SET

// SequenceOfType is the descriptor of an unconstrained SEQUENCE OF type. Use
// [TypeInfo.WithConstraints] to add a size constraint.
var SequenceOfType = &TypeInfo{
	Identifier:  "SEQUENCE OF",
	Kind:        TypeSequenceOf,
	Tag:         Universal(TagSequence),
	Constructed: true,
	TagTree:     Leaf(Universal(TagSequence)),
}

// SetOfType is the descriptor of an unconstrained SET OF type.
var SetOfType = &TypeInfo{
	Identifier:  "SET OF",
	Kind:        TypeSetOf,
	Tag:         Universal(TagSet),
	Constructed: true,
	TagTree:     Leaf(Universal(TagSet)),
}

//endregion

//region Open Types

// AnyType is the descriptor of an open type. An untagged component of an open
// type matches any tag.
var AnyType = &TypeInfo{
	Identifier: "ANY",
	Kind:       TypeAny,
}

// A RawValue represents an un-decoded ASN.1 data value. It is used for open
// types, whose actual type is determined by other parts of a value. During
// decoding the syntax of the data value is validated so FullBytes is
// guaranteed to contain a valid encoding. During encoding the bytes are
// written as-is without any validation.
type RawValue struct {
	Tag         Tag
	Constructed bool
	Bytes       []byte // contents octets, without end-of-contents for indefinite lengths
	FullBytes   []byte // complete encoding including identifier and length octets
}

// String returns a string representation of rv. The byte contents of rv are
// only included if they are short enough.
func (rv RawValue) String() string {
	constructed := "primitive"
	if rv.Constructed {
		constructed = "constructed"
	}
	if len(rv.Bytes) > 24 {
		return fmt.Sprintf("RawValue{%s (%s) {%d bytes}}", rv.Tag.String(), constructed, len(rv.Bytes))
	}
	return fmt.Sprintf("RawValue{%s (%s) {% X}}", rv.Tag.String(), constructed, rv.Bytes)
}

func (RawValue) ASN1Type() *TypeInfo { return AnyType }

func (rv RawValue) EncodeASN1(e Encoder, _ Tag, _ Constraints) error {
	return e.EncodeAny(rv)
}

func (rv *RawValue) DecodeASN1(d Decoder, _ Tag, _ Constraints) error {
	v, err := d.DecodeAny()
	if err != nil {
		return err
	}
	*rv = v
	return nil
}

//endregion
