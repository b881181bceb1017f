// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/internal/vlq"
	"github.com/asn1kit/asn1/tlv"
)

// cerSegmentSize is the maximum number of contents octets of a primitive
// string encoding under CER. Longer strings are split into segments.
const cerSegmentSize = 1000

// A member is the encoding of one member of a SET or SET OF that is held back
// until all members are known so that they can be sorted.
type member struct {
	key asn1.Tag // SET: the tag the member is ordered by
	enc []byte
}

//region type Encoder

// Encoder implements [asn1.Encoder] for the BER family of encoding rules. An
// Encoder appends to a byte slice. Because the length of a value precedes its
// contents, every structured value is first encoded into a separate Encoder
// whose output is copied into the parent once it is complete.
//
// To create an Encoder, use [Options.NewEncoder].
type Encoder struct {
	cfg *config
	buf []byte

	// set is true for the members of a SET under the canonical rules. The
	// members are collected in members instead of buf.
	set     bool
	members []member
}

var _ asn1.Encoder = (*Encoder)(nil)

// Codec returns the name of the encoding rules of e.
func (e *Encoder) Codec() string {
	return e.cfg.rules.String()
}

// Bytes returns the encoded data values. The slice is valid until the next
// write to e.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset discards the output of e.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// scratch returns an empty Encoder sharing the configuration of e.
func (e *Encoder) scratch() *Encoder {
	return &Encoder{cfg: e.cfg}
}

// error returns a *asn1.EncodeError for err.
func (e *Encoder) error(tag asn1.Tag, err error) error {
	return &asn1.EncodeError{Codec: e.Codec(), Tag: tag, Err: err}
}

// primitive appends a primitive data value with the given tag and contents.
func (e *Encoder) primitive(tag asn1.Tag, content []byte) {
	e.buf = tlv.Append(e.buf, tlv.Header{Tag: tag}, content)
}

// constructed appends a constructed data value with the given tag whose
// contents are written by fn. If indefinite is true, the indefinite-length
// format is used.
func (e *Encoder) constructed(tag asn1.Tag, indefinite bool, fn func(*Encoder) error) error {
	c := e.scratch()
	if err := fn(c); err != nil {
		return err
	}
	h := tlv.Header{Tag: tag, Constructed: true}
	if indefinite {
		h.Length = tlv.LengthIndefinite
	}
	e.buf = tlv.Append(e.buf, h, c.buf)
	return nil
}

//endregion

//region Simple Types

// EncodeAny appends rv without validation. If rv.FullBytes is set, it is
// written as-is. Otherwise, an encoding is built from the other fields.
func (e *Encoder) EncodeAny(rv asn1.RawValue) error {
	if len(rv.FullBytes) > 0 {
		e.buf = append(e.buf, rv.FullBytes...)
		return nil
	}
	e.buf = tlv.Append(e.buf, tlv.Header{Tag: rv.Tag, Constructed: rv.Constructed}, rv.Bytes)
	return nil
}

func (e *Encoder) EncodeBool(tag asn1.Tag, v bool) error {
	b := byte(0x00)
	if v {
		b = 0xFF
	}
	e.primitive(tag, []byte{b})
	return nil
}

func (e *Encoder) EncodeInteger(tag asn1.Tag, cs asn1.Constraints, v *big.Int) error {
	if v == nil {
		return e.error(tag, fmt.Errorf("%w: nil integer", asn1.ErrInvalidValue))
	}
	if err := cs.CheckValue(v); err != nil {
		return e.error(tag, err)
	}
	e.primitive(tag, appendInteger(nil, v))
	return nil
}

// appendInteger appends the minimal two's complement encoding of i to dst.
func appendInteger(dst []byte, i *big.Int) []byte {
	switch i.Sign() {
	case 0:
		// Zero is written as a single 0 zero rather than no bytes.
		return append(dst, 0x00)
	case 1:
		bs := i.Bytes()
		if bs[0]&0x80 != 0 {
			// We'll have to pad this with 0x00 in order to stop it looking
			// like a negative number.
			dst = append(dst, 0x00)
		}
		return append(dst, bs...)
	}
	// A negative number has to be converted to two's-complement form. So we'll
	// invert and subtract 1. If the most-significant-bit isn't set then we'll
	// need to pad the beginning with 0xff in order to keep the number negative.
	nMinus1 := new(big.Int).Neg(i)
	nMinus1.Sub(nMinus1, bigOne)
	bs := nMinus1.Bytes()
	for j := range bs {
		bs[j] ^= 0xFF
	}
	if len(bs) == 0 || bs[0]&0x80 == 0 {
		dst = append(dst, 0xFF)
	}
	return append(dst, bs...)
}

// appendInt64 appends the minimal two's complement encoding of i to dst.
func appendInt64(dst []byte, i int64) []byte {
	n := 1
	for j := i; j > 127 || j < -128; j >>= 8 {
		n++
	}
	for ; n > 0; n-- {
		dst = append(dst, byte(i>>uint((n-1)*8)))
	}
	return dst
}

func (e *Encoder) EncodeEnumerated(tag asn1.Tag, cs asn1.Constraints, v int64) error {
	if err := cs.CheckInt(v); err != nil {
		return e.error(tag, err)
	}
	e.primitive(tag, appendInt64(nil, v))
	return nil
}

func (e *Encoder) EncodeReal(tag asn1.Tag, v float64) error {
	e.primitive(tag, appendReal(nil, v))
	return nil
}

func (e *Encoder) EncodeNull(tag asn1.Tag) error {
	e.primitive(tag, nil)
	return nil
}

func (e *Encoder) EncodeObjectIdentifier(tag asn1.Tag, oid asn1.ObjectIdentifier) error {
	if !oid.IsValid() {
		return e.error(tag, fmt.Errorf("%w: invalid object identifier %s", asn1.ErrInvalidValue, oid))
	}
	b := vlq.Append(nil, oid[0]*40+oid[1])
	for _, arc := range oid[2:] {
		b = vlq.Append(b, arc)
	}
	e.primitive(tag, b)
	return nil
}

func (e *Encoder) EncodeRelativeOID(tag asn1.Tag, oid asn1.RelativeOID) error {
	var b []byte
	for _, arc := range oid {
		b = vlq.Append(b, arc)
	}
	e.primitive(tag, b)
	return nil
}

// EncodeBitString encodes a BIT STRING. Unused bits are encoded as zero bits.
func (e *Encoder) EncodeBitString(tag asn1.Tag, cs asn1.Constraints, v asn1.BitString) error {
	if !v.IsValid() {
		return e.error(tag, asn1.ErrInvalidBitString)
	}
	if err := cs.CheckSize(v.BitLength); err != nil {
		return e.error(tag, err)
	}
	n := (v.BitLength + 7) / 8
	data := slices.Clone(v.Bytes[:n])
	padding := byte((8 - v.BitLength%8) % 8)
	if n > 0 {
		// zero out any padding bits
		data[n-1] &^= byte(1<<padding - 1)
	}
	segTag := asn1.Universal(asn1.TagBitString)
	if e.cfg.rules != CER || n < cerSegmentSize {
		e.primitive(tag, append([]byte{padding}, data...))
		return nil
	}
	// Every segment carries its own unused bits octet. Only the last segment
	// may have unused bits.
	return e.constructed(tag, true, func(c *Encoder) error {
		for len(data) > 0 {
			l := min(len(data), cerSegmentSize-1)
			p := byte(0)
			if l == len(data) {
				p = padding
			}
			c.primitive(segTag, append([]byte{p}, data[:l]...))
			data = data[l:]
		}
		return nil
	})
}

func (e *Encoder) EncodeOctetString(tag asn1.Tag, cs asn1.Constraints, v []byte) error {
	if err := cs.CheckSize(len(v)); err != nil {
		return e.error(tag, err)
	}
	e.appendString(tag, asn1.Universal(asn1.TagOctetString), v)
	return nil
}

// EncodeCharacterString encodes s as a string of the given kind. The
// characters of s must belong to the repertoire of kind and satisfy the
// constraints cs.
func (e *Encoder) EncodeCharacterString(tag asn1.Tag, kind asn1.StringKind, cs asn1.Constraints, s string) error {
	if !kind.Valid(s) {
		return e.error(tag, fmt.Errorf("%w in %s", asn1.ErrInvalidCharacter, kind))
	}
	if err := cs.CheckString(s); err != nil {
		return e.error(tag, err)
	}
	b := []byte(s)
	var err error
	switch kind {
	case asn1.KindBMPString:
		b, err = encodeFixedWidth(s, bmpEncoding)
	case asn1.KindUniversalString:
		b, err = encodeFixedWidth(s, universalEncoding)
	}
	if err != nil {
		return e.error(tag, err)
	}
	e.appendString(tag, kind.UniversalTag(), b)
	return nil
}

// appendString appends a string value. Under CER strings longer than
// cerSegmentSize octets are split into primitive segments with the tag segTag.
func (e *Encoder) appendString(tag, segTag asn1.Tag, b []byte) {
	if e.cfg.rules != CER || len(b) <= cerSegmentSize {
		e.primitive(tag, b)
		return
	}
	e.appendSegments(tag, segTag, b)
}

// appendSegments appends b as a constructed indefinite-length string of
// primitive segments of at most cerSegmentSize octets.
func (e *Encoder) appendSegments(tag, segTag asn1.Tag, b []byte) {
	c := e.scratch()
	for chunk := range slices.Chunk(b, cerSegmentSize) {
		c.primitive(segTag, chunk)
	}
	h := tlv.Header{Tag: tag, Constructed: true, Length: tlv.LengthIndefinite}
	e.buf = tlv.Append(e.buf, h, c.buf)
}

//endregion

//region Structured Types

// EncodeExplicitPrefix wraps the value written by fn in a constructed value
// with the given tag. CER uses the indefinite-length format.
func (e *Encoder) EncodeExplicitPrefix(tag asn1.Tag, fn func(asn1.Encoder) error) error {
	return e.constructed(tag, e.cfg.rules == CER, func(c *Encoder) error {
		return fn(c)
	})
}

func (e *Encoder) EncodeSequence(tag asn1.Tag, _ *asn1.TypeInfo, fn func(asn1.Encoder) error) error {
	return e.constructed(tag, false, func(c *Encoder) error {
		return fn(c)
	})
}

// EncodeSet encodes a SET. CER sorts the members by the smallest tag of each
// member, DER by the tag of each member's encoding.
func (e *Encoder) EncodeSet(tag asn1.Tag, _ *asn1.TypeInfo, fn func(asn1.Encoder) error) error {
	return e.constructed(tag, false, func(c *Encoder) error {
		c.set = e.cfg.rules.canonical()
		if err := fn(c); err != nil {
			return err
		}
		slices.SortStableFunc(c.members, func(a, b member) int {
			return a.key.Compare(b.key)
		})
		for _, m := range c.members {
			c.buf = append(c.buf, m.enc...)
		}
		return nil
	})
}

func (e *Encoder) EncodeSequenceOf(tag asn1.Tag, cs asn1.Constraints, n int, fn func(int, asn1.Encoder) error) error {
	if err := cs.CheckSize(n); err != nil {
		return e.error(tag, err)
	}
	return e.constructed(tag, e.cfg.rules == CER, func(c *Encoder) error {
		for i := range n {
			if err := fn(i, c); err != nil {
				return asn1.WithField(err, fmt.Sprintf("[%d]", i))
			}
		}
		return nil
	})
}

// EncodeSetOf encodes a SET OF. The canonical rules sort the elements by their
// encodings.
func (e *Encoder) EncodeSetOf(tag asn1.Tag, cs asn1.Constraints, n int, fn func(int, asn1.Encoder) error) error {
	if !e.cfg.rules.canonical() {
		return e.EncodeSequenceOf(tag, cs, n, fn)
	}
	if err := cs.CheckSize(n); err != nil {
		return e.error(tag, err)
	}
	return e.constructed(tag, e.cfg.rules == CER, func(c *Encoder) error {
		elems := make([][]byte, n)
		for i := range n {
			s := c.scratch()
			if err := fn(i, s); err != nil {
				return asn1.WithField(err, fmt.Sprintf("[%d]", i))
			}
			elems[i] = s.buf
		}
		slices.SortStableFunc(elems, compareEncodings)
		for _, b := range elems {
			c.buf = append(c.buf, b...)
		}
		return nil
	})
}

func (e *Encoder) EncodeChoice(ti *asn1.TypeInfo, alt int, fn func(asn1.Encoder) error) error {
	if alt < 0 || alt >= len(ti.Fields) {
		return e.error(ti.Tag, fmt.Errorf("%w for %s", asn1.ErrNoValidChoice, ti.Identifier))
	}
	return asn1.WithField(fn(e), ti.Fields[alt].Name)
}

// component writes the component f. In a SET under the canonical rules the
// encoding is held back for sorting.
func (e *Encoder) component(f asn1.Field, fn func(asn1.Encoder) error) error {
	if !e.set {
		return asn1.WithField(fn(e), f.Name)
	}
	s := e.scratch()
	if err := fn(s); err != nil {
		return asn1.WithField(err, f.Name)
	}
	e.members = append(e.members, member{key: e.memberKey(f, s.buf), enc: s.buf})
	return nil
}

// memberKey returns the sort key of the SET member f encoded as enc. CER sorts
// by the smallest tag of the member's type (X.690 9.3), DER by the tag of the
// encoding so that an untagged CHOICE is placed by its chosen alternative
// (X.690 10.3).
func (e *Encoder) memberKey(f asn1.Field, enc []byte) asn1.Tag {
	if e.cfg.rules == DER {
		if h, _, err := tlv.ParseHeader(enc); err == nil {
			return h.Tag
		}
	}
	return f.TagTree.Smallest()
}

func (e *Encoder) EncodeField(f asn1.Field, fn func(asn1.Encoder) error) error {
	return e.component(f, fn)
}

func (e *Encoder) EncodeOptional(f asn1.Field, present bool, fn func(asn1.Encoder) error) error {
	if !present {
		return nil
	}
	return e.component(f, fn)
}

// EncodeDefault omits the component f if isDefault is true. This is required
// by CER and DER and done for BER as well.
func (e *Encoder) EncodeDefault(f asn1.Field, isDefault bool, fn func(asn1.Encoder) error) error {
	return e.EncodeOptional(f, !isDefault, fn)
}

func (e *Encoder) EncodeExtensionAddition(f asn1.Field, present bool, fn func(asn1.Encoder) error) error {
	return e.EncodeOptional(f, present, fn)
}

//endregion
