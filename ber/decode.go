// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/internal/vlq"
	"github.com/asn1kit/asn1/tlv"
)

var (
	errConstructed = fmt.Errorf("%w: constructed encoding of a primitive type", asn1.ErrInvalidValue)
	errPrimitive   = fmt.Errorf("%w: primitive encoding of a constructed type", asn1.ErrInvalidValue)
)

// A value is a single data value encoding taken from the input of a [Decoder].
type value struct {
	tlv.Header
	Offset        int    // absolute offset of the identifier octets
	ContentOffset int    // absolute offset of the contents octets
	Content       []byte // contents octets, without end-of-contents
	Full          []byte // the complete encoding
}

//region type Decoder

// Decoder implements [asn1.Decoder] for the BER family of encoding rules. A
// Decoder reads from a byte slice. Structured types are decoded by nested
// Decoders that are scoped to the contents of the structured value. All
// Decoders of a single decoding operation share their configuration.
//
// To create a Decoder, use [Options.NewDecoder].
type Decoder struct {
	cfg   *config
	buf   []byte // remaining input
	off   int    // absolute offset of buf
	depth int    // number of enclosing constructed values

	// SEQUENCE state
	ti    *asn1.TypeInfo
	field int // index of the next component
}

var _ asn1.Decoder = (*Decoder)(nil)

// Codec returns the name of the encoding rules of d.
func (d *Decoder) Codec() string {
	return d.cfg.rules.String()
}

// More reports whether there is unread input left in the scope of d.
func (d *Decoder) More() bool {
	return len(d.buf) > 0
}

// InputOffset returns the offset of the next data value relative to the
// start of the input.
func (d *Decoder) InputOffset() int {
	return d.off
}

// child returns a Decoder for the contents of the constructed value v.
func (d *Decoder) child(v value) *Decoder {
	return &Decoder{cfg: d.cfg, buf: v.Content, off: v.ContentOffset, depth: d.depth + 1}
}

// error returns a *asn1.DecodeError for err at the absolute offset off.
// Syntax errors of the tlv package are unpacked so that their offset is
// reported relative to the start of the input.
func (d *Decoder) error(off int, tag asn1.Tag, err error) error {
	var sErr *tlv.SyntaxError
	if errors.As(err, &sErr) {
		off += sErr.ByteOffset
		err = sErr.Err
	}
	return &asn1.DecodeError{Codec: d.Codec(), Tag: tag, Offset: off, Err: err}
}

// mismatch returns an error indicating that a data value with tag got was
// found instead of a value with tag want.
func (d *Decoder) mismatch(off int, got, want asn1.Tag) error {
	return &asn1.DecodeError{Codec: d.Codec(), Tag: got, Expected: want, Offset: off, Err: asn1.ErrTagMismatch}
}

// peek parses the header of the next data value without consuming it.
func (d *Decoder) peek() (tlv.Header, int, error) {
	if len(d.buf) == 0 {
		return tlv.Header{}, 0, d.error(d.off, asn1.Tag{}, asn1.ErrTruncated)
	}
	h, n, err := tlv.ParseHeader(d.buf)
	if err != nil {
		return h, n, d.error(d.off, h.Tag, err)
	}
	if h.Tag == (asn1.Tag{}) {
		return h, n, d.error(d.off, h.Tag, asn1.ErrInvalidEOC)
	}
	return h, n, nil
}

// next consumes the next data value. The syntax of the value is validated as
// far as necessary to find its end. Under the canonical rules non-minimal
// length octets are rejected. DER additionally rejects indefinite lengths.
func (d *Decoder) next() (value, error) {
	h, n, err := d.peek()
	if err != nil {
		return value{}, err
	}
	if h.Constructed && d.depth >= d.cfg.maxDepth {
		return value{}, d.error(d.off, h.Tag, asn1.ErrDepthExceeded)
	}
	if d.cfg.rules.canonical() && n != tlv.HeaderLen(h) {
		return value{}, d.error(d.off, h.Tag, fmt.Errorf("%w: non-minimal length", asn1.ErrNonCanonical))
	}
	if d.cfg.rules == DER && h.Length == tlv.LengthIndefinite {
		return value{}, d.error(d.off, h.Tag, fmt.Errorf("%w: indefinite length", asn1.ErrNonCanonical))
	}
	h, content, rest, err := tlv.Split(d.buf, max(d.cfg.maxDepth-d.depth, 1))
	if err != nil {
		return value{}, d.error(d.off, h.Tag, err)
	}
	size := len(d.buf) - len(rest)
	v := value{
		Header:        h,
		Offset:        d.off,
		ContentOffset: d.off + n,
		Content:       content,
		Full:          d.buf[:size],
	}
	d.buf = rest
	d.off += size
	return v, nil
}

// expect consumes the next data value and verifies that it has the given tag.
// The input is not consumed if the tag does not match.
func (d *Decoder) expect(tag asn1.Tag) (value, error) {
	h, _, err := d.peek()
	if err != nil {
		return value{}, err
	}
	if h.Tag != tag {
		return value{}, d.mismatch(d.off, h.Tag, tag)
	}
	return d.next()
}

// primitive consumes the next data value which must be a primitive value with
// the given tag.
func (d *Decoder) primitive(tag asn1.Tag) (value, error) {
	v, err := d.expect(tag)
	if err == nil && v.Constructed {
		err = d.error(v.Offset, tag, errConstructed)
	}
	return v, err
}

// constructed consumes the next data value which must be a constructed value
// with the given tag.
func (d *Decoder) constructed(tag asn1.Tag) (value, error) {
	v, err := d.expect(tag)
	if err == nil && !v.Constructed {
		err = d.error(v.Offset, tag, errPrimitive)
	}
	return v, err
}

// finish verifies that all input of d has been consumed.
func (d *Decoder) finish(tag asn1.Tag) error {
	if len(d.buf) > 0 {
		return d.error(d.off, tag, asn1.ErrTrailingData)
	}
	return nil
}

// discard consumes the remaining data values of d. Their syntax is validated.
func (d *Decoder) discard(msg string, tag asn1.Tag) error {
	for len(d.buf) > 0 {
		v, err := d.next()
		if err != nil {
			return err
		}
		d.cfg.logger.Debug(msg, "tag", v.Tag, "offset", v.Offset, "size", len(v.Full), "in", tag)
	}
	return nil
}

//endregion

//region Simple Types

// DecodeAny decodes the next data value as a [asn1.RawValue]. The bytes of the
// raw value share memory with the input.
func (d *Decoder) DecodeAny() (asn1.RawValue, error) {
	v, err := d.next()
	if err != nil {
		return asn1.RawValue{}, err
	}
	return asn1.RawValue{
		Tag:         v.Tag,
		Constructed: v.Constructed,
		Bytes:       v.Content,
		FullBytes:   v.Full,
	}, nil
}

func (d *Decoder) DecodeBool(tag asn1.Tag) (bool, error) {
	v, err := d.primitive(tag)
	if err != nil {
		return false, err
	}
	if len(v.Content) != 1 {
		return false, d.error(v.Offset, tag, asn1.ErrWrongSize)
	}
	b := v.Content[0]
	if d.cfg.rules.canonical() && b != 0x00 && b != 0xFF {
		return false, d.error(v.Offset, tag, asn1.ErrNonCanonical)
	}
	return b != 0x00, nil
}

// integerBytes validates the contents of an INTEGER or ENUMERATED value.
func (d *Decoder) integerBytes(tag asn1.Tag) (value, error) {
	v, err := d.primitive(tag)
	if err != nil {
		return v, err
	}
	bs := v.Content
	if len(bs) == 0 {
		return v, d.error(v.Offset, tag, asn1.ErrWrongSize)
	}
	if len(bs) > 1 && (bs[0] == 0x00 && bs[1]&0x80 == 0x00 || bs[0] == 0xFF && bs[1]&0x80 == 0x80) {
		return v, d.error(v.Offset, tag, fmt.Errorf("%w: integer not minimally encoded", asn1.ErrNonCanonical))
	}
	return v, nil
}

func (d *Decoder) DecodeInteger(tag asn1.Tag, cs asn1.Constraints) (*big.Int, error) {
	v, err := d.integerBytes(tag)
	if err != nil {
		return nil, err
	}
	i := parseInteger(v.Content)
	if err = cs.CheckValue(i); err != nil {
		return nil, d.error(v.Offset, tag, err)
	}
	return i, nil
}

// parseInteger interprets bs as a two's complement big-endian integer.
func parseInteger(bs []byte) *big.Int {
	i := new(big.Int).SetBytes(bs)
	if len(bs) > 0 && bs[0]&0x80 == 0x80 {
		// subtract 2^(8*len) to get the negative value
		i.Sub(i, new(big.Int).Lsh(bigOne, uint(8*len(bs))))
	}
	return i
}

var bigOne = big.NewInt(1)

func (d *Decoder) DecodeEnumerated(tag asn1.Tag, cs asn1.Constraints) (int64, error) {
	v, err := d.integerBytes(tag)
	if err != nil {
		return 0, err
	}
	if len(v.Content) > 8 {
		return 0, d.error(v.Offset, tag, asn1.ErrOverflow)
	}
	var i int64
	for _, b := range v.Content {
		i = i<<8 | int64(b)
	}
	// sign extend
	i <<= 64 - 8*len(v.Content)
	i >>= 64 - 8*len(v.Content)
	if err = cs.CheckInt(i); err != nil {
		return 0, d.error(v.Offset, tag, err)
	}
	return i, nil
}

func (d *Decoder) DecodeReal(tag asn1.Tag) (float64, error) {
	v, err := d.primitive(tag)
	if err != nil {
		return 0, err
	}
	f, err := parseReal(v.Content, d.cfg.rules.canonical())
	if err != nil {
		return 0, d.error(v.Offset, tag, err)
	}
	return f, nil
}

func (d *Decoder) DecodeNull(tag asn1.Tag) error {
	v, err := d.primitive(tag)
	if err == nil && len(v.Content) != 0 {
		err = d.error(v.Offset, tag, asn1.ErrWrongSize)
	}
	return err
}

func (d *Decoder) DecodeObjectIdentifier(tag asn1.Tag) (asn1.ObjectIdentifier, error) {
	v, err := d.primitive(tag)
	if err != nil {
		return nil, err
	}
	if len(v.Content) == 0 {
		return nil, d.error(v.Offset, tag, asn1.ErrWrongSize)
	}

	// The first subidentifier is 40*value1 + value2. value1 can take the values
	// 0, 1 and 2 only. When value1 = 0 or value1 = 1, then value2 is <= 39.
	// When value1 = 2, then there are no restrictions on value2.
	first, n, err := vlq.DecodeMinimal[uint](v.Content)
	if err != nil {
		return nil, d.error(v.Offset, tag, vlqError(err))
	}
	// In the worst case every remaining subidentifier is a single byte long.
	oid := make(asn1.ObjectIdentifier, 2, len(v.Content)-n+2)
	if first < 80 {
		oid[0], oid[1] = first/40, first%40
	} else {
		oid[0], oid[1] = 2, first-80
	}
	arcs, err := parseArcs(v.Content[n:], oid)
	if err != nil {
		return nil, d.error(v.Offset, tag, err)
	}
	return arcs, nil
}

func (d *Decoder) DecodeRelativeOID(tag asn1.Tag) (asn1.RelativeOID, error) {
	v, err := d.primitive(tag)
	if err != nil {
		return nil, err
	}
	arcs, err := parseArcs(v.Content, make([]uint, 0, len(v.Content)))
	if err != nil {
		return nil, d.error(v.Offset, tag, err)
	}
	return arcs, nil
}

// parseArcs appends the base-128 subidentifiers in b to arcs.
func parseArcs(b []byte, arcs []uint) ([]uint, error) {
	for len(b) > 0 {
		arc, n, err := vlq.DecodeMinimal[uint](b)
		if err != nil {
			return nil, vlqError(err)
		}
		arcs = append(arcs, arc)
		b = b[n:]
	}
	return arcs, nil
}

// vlqError translates an error of the vlq package into a sentinel error of
// the asn1 package.
func vlqError(err error) error {
	switch {
	case errors.Is(err, vlq.ErrNotMinimal):
		return asn1.ErrInvalidVarint
	case errors.Is(err, vlq.ErrOverflow):
		return asn1.ErrOverflow
	default:
		return asn1.ErrTruncated
	}
}

//endregion

//region Structured Types

func (d *Decoder) DecodeExplicitPrefix(tag asn1.Tag, fn func(asn1.Decoder) error) error {
	v, err := d.constructed(tag)
	if err != nil {
		return err
	}
	c := d.child(v)
	if err = fn(c); err != nil {
		return err
	}
	return c.finish(tag)
}

// DecodeSequence decodes a SEQUENCE. If ti is extensible, data values
// following the last known component are validated and discarded. Otherwise
// they cause an error wrapping [asn1.ErrTrailingData].
func (d *Decoder) DecodeSequence(tag asn1.Tag, ti *asn1.TypeInfo, fn func(asn1.Decoder) error) error {
	v, err := d.constructed(tag)
	if err != nil {
		return err
	}
	c := d.child(v)
	c.ti = ti
	if err = fn(c); err != nil {
		return err
	}
	for _, f := range ti.Fields[min(c.field, len(ti.Fields)):] {
		if !f.IsOptional() {
			return asn1.WithField(c.error(c.off, f.Tag, asn1.ErrMissingField), f.Name)
		}
	}
	if !ti.Extensible() {
		return c.finish(tag)
	}
	return c.discard("discarding unknown extension", tag)
}

// DecodeSet decodes a SET. Members are identified by their tag, the order of
// the members is irrelevant except for DER, which requires the members in
// ascending order of their tags.
func (d *Decoder) DecodeSet(tag asn1.Tag, ti *asn1.TypeInfo, fn func(int, asn1.Decoder) error) error {
	v, err := d.constructed(tag)
	if err != nil {
		return err
	}
	c := d.child(v)
	seen := make([]bool, len(ti.Fields))
	var prev asn1.Tag
	for c.More() {
		h, _, err := c.peek()
		if err != nil {
			return err
		}
		i, ok := ti.FieldForTag(h.Tag)
		if !ok {
			if !ti.Extensible() {
				return c.error(c.off, h.Tag, asn1.ErrUnknownField)
			}
			u, err := c.next()
			if err != nil {
				return err
			}
			c.cfg.logger.Debug("discarding unknown member", "tag", u.Tag, "offset", u.Offset, "in", tag)
			continue
		}
		f := ti.Fields[i]
		if seen[i] {
			return asn1.WithField(c.error(c.off, h.Tag, asn1.ErrDuplicateField), f.Name)
		}
		seen[i] = true
		if c.cfg.rules == DER && h.Tag.Compare(prev) < 0 {
			return asn1.WithField(c.error(c.off, h.Tag, fmt.Errorf("%w: SET members out of order", asn1.ErrNonCanonical)), f.Name)
		}
		prev = h.Tag
		if err = fn(i, c); err != nil {
			return asn1.WithField(err, f.Name)
		}
	}
	for i, f := range ti.Fields {
		if !seen[i] && !f.IsOptional() {
			return asn1.WithField(c.error(c.off, f.Tag, asn1.ErrMissingField), f.Name)
		}
	}
	return nil
}

func (d *Decoder) DecodeSequenceOf(tag asn1.Tag, cs asn1.Constraints, fn func(asn1.Decoder) error) error {
	return d.decodeElements(tag, cs, false, fn)
}

// DecodeSetOf decodes the elements of a SET OF. DER requires the elements to
// be in ascending order of their encodings.
func (d *Decoder) DecodeSetOf(tag asn1.Tag, cs asn1.Constraints, fn func(asn1.Decoder) error) error {
	return d.decodeElements(tag, cs, d.cfg.rules == DER, fn)
}

// decodeElements implements [Decoder.DecodeSequenceOf] and
// [Decoder.DecodeSetOf]. If sorted is true, the encodings of the elements must
// be in ascending order.
func (d *Decoder) decodeElements(tag asn1.Tag, cs asn1.Constraints, sorted bool, fn func(asn1.Decoder) error) error {
	v, err := d.constructed(tag)
	if err != nil {
		return err
	}
	c := d.child(v)
	var prev []byte
	n := 0
	for ; c.More(); n++ {
		start := c.off
		rest := c.buf
		if err = fn(c); err != nil {
			return asn1.WithField(err, fmt.Sprintf("[%d]", n))
		}
		if c.off == start {
			return c.error(start, tag, fmt.Errorf("%w: element decoder consumed no input", asn1.ErrInvalidType))
		}
		elem := rest[:c.off-start]
		if sorted && prev != nil && compareEncodings(prev, elem) > 0 {
			return asn1.WithField(c.error(start, tag, fmt.Errorf("%w: SET OF elements out of order", asn1.ErrNonCanonical)), fmt.Sprintf("[%d]", n))
		}
		prev = elem
	}
	if err = cs.CheckSize(n); err != nil {
		return d.error(v.Offset, tag, err)
	}
	return nil
}

// compareEncodings compares two encodings as octet strings where the shorter
// one is padded with trailing zero octets.
func compareEncodings(a, b []byte) int {
	l := min(len(a), len(b))
	if c := bytes.Compare(a[:l], b[:l]); c != 0 {
		return c
	}
	for _, x := range a[l:] {
		if x != 0 {
			return 1
		}
	}
	for _, x := range b[l:] {
		if x != 0 {
			return -1
		}
	}
	return 0
}

// DecodeChoice decodes a CHOICE by looking up the tag of the next data value
// among the alternatives of ti.
func (d *Decoder) DecodeChoice(ti *asn1.TypeInfo, fn func(int, asn1.Decoder) error) error {
	h, _, err := d.peek()
	if err != nil {
		return err
	}
	alt, ok := ti.FieldForTag(h.Tag)
	if !ok {
		if !ti.Extensible() {
			return d.error(d.off, h.Tag, fmt.Errorf("%w for %s", asn1.ErrNoValidChoice, ti.Identifier))
		}
		alt = asn1.UnknownAlternative
	}
	return fn(alt, d)
}

// component advances the component cursor of a SEQUENCE to f.
func (d *Decoder) component(f asn1.Field) {
	if d.ti != nil && f.Index >= d.field {
		d.field = f.Index + 1
	}
}

func (d *Decoder) DecodeField(f asn1.Field, fn func(asn1.Decoder) error) error {
	d.component(f)
	if !d.More() {
		return asn1.WithField(d.error(d.off, f.Tag, asn1.ErrMissingField), f.Name)
	}
	h, _, err := d.peek()
	if err != nil {
		return asn1.WithField(err, f.Name)
	}
	if !f.Matches(h.Tag) {
		return asn1.WithField(d.mismatch(d.off, h.Tag, f.Tag), f.Name)
	}
	return asn1.WithField(fn(d), f.Name)
}

func (d *Decoder) DecodeOptional(f asn1.Field, fn func(asn1.Decoder) error) (bool, error) {
	d.component(f)
	if !d.More() {
		return false, nil
	}
	h, _, err := d.peek()
	if err != nil {
		return false, asn1.WithField(err, f.Name)
	}
	if !f.Matches(h.Tag) {
		return false, nil
	}
	return true, asn1.WithField(fn(d), f.Name)
}

func (d *Decoder) DecodeExtensionAddition(f asn1.Field, fn func(asn1.Decoder) error) (bool, error) {
	return d.DecodeOptional(f, fn)
}

//endregion
