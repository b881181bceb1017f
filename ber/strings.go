// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/asn1kit/asn1"
)

// Character string types with a fixed-width encoding. BMPString uses UCS-2,
// UniversalString uses UCS-4, both in big-endian byte order without a byte
// order mark.
var (
	bmpEncoding       encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	universalEncoding encoding.Encoding = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
)

// segments calls fn with the contents of every primitive segment of the string
// value v. If v is constructed, each of its elements must be a segment with
// the universal tag segTag. Constructed segments are processed recursively.
func (d *Decoder) segments(v value, segTag asn1.Tag, fn func(seg value) error) error {
	if !v.Constructed {
		return fn(v)
	}
	c := d.child(v)
	for c.More() {
		seg, err := c.expect(segTag)
		if err != nil {
			return err
		}
		if err = c.segments(seg, segTag, fn); err != nil {
			return err
		}
	}
	return nil
}

// stringValue consumes a string value with the given tag. DER requires strings
// to use the primitive encoding.
func (d *Decoder) stringValue(tag asn1.Tag) (value, error) {
	v, err := d.expect(tag)
	if err == nil && v.Constructed && d.cfg.rules == DER {
		err = d.error(v.Offset, tag, fmt.Errorf("%w: constructed string", asn1.ErrNonCanonical))
	}
	return v, err
}

// stringBytes returns the reassembled contents of a string value. If the value
// is primitive, the result shares memory with the input.
func (d *Decoder) stringBytes(tag, segTag asn1.Tag) ([]byte, int, error) {
	v, err := d.stringValue(tag)
	if err != nil {
		return nil, 0, err
	}
	if !v.Constructed {
		return v.Content, v.Offset, nil
	}
	buf := make([]byte, 0, len(v.Content))
	err = d.segments(v, segTag, func(seg value) error {
		buf = append(buf, seg.Content...)
		return nil
	})
	return buf, v.Offset, err
}

func (d *Decoder) DecodeOctetString(tag asn1.Tag, cs asn1.Constraints) ([]byte, error) {
	b, off, err := d.stringBytes(tag, asn1.Universal(asn1.TagOctetString))
	if err != nil {
		return nil, err
	}
	if err = cs.CheckSize(len(b)); err != nil {
		return nil, d.error(off, tag, err)
	}
	return b, nil
}

// DecodeBitString decodes a BIT STRING. Each segment starts with the number
// of unused bits in its last octet. Only the last segment may have unused
// bits. Under BER the unused bits are set to zero, the canonical rules
// require them to be zero.
func (d *Decoder) DecodeBitString(tag asn1.Tag, cs asn1.Constraints) (asn1.BitString, error) {
	v, err := d.stringValue(tag)
	if err != nil {
		return asn1.BitString{}, err
	}
	var buf []byte
	padding := byte(0)
	err = d.segments(v, asn1.Universal(asn1.TagBitString), func(seg value) error {
		if padding != 0 {
			return d.error(seg.Offset, tag, fmt.Errorf("%w: unused bits in non-final segment", asn1.ErrInvalidBitString))
		}
		if len(seg.Content) == 0 {
			return d.error(seg.Offset, tag, fmt.Errorf("%w: missing unused bits octet", asn1.ErrInvalidBitString))
		}
		padding = seg.Content[0]
		if padding > 7 || len(seg.Content) == 1 && padding > 0 {
			return d.error(seg.Offset, tag, fmt.Errorf("%w: invalid number of unused bits", asn1.ErrInvalidBitString))
		}
		buf = append(buf, seg.Content[1:]...)
		return nil
	})
	if err != nil {
		return asn1.BitString{}, err
	}
	bs := asn1.BitString{Bytes: buf, BitLength: len(buf)*8 - int(padding)}
	if len(buf) > 0 {
		mask := byte(1<<padding - 1)
		if buf[len(buf)-1]&mask != 0 && d.cfg.rules.canonical() {
			return asn1.BitString{}, d.error(v.Offset, tag, fmt.Errorf("%w: non-zero unused bits", asn1.ErrNonCanonical))
		}
		buf[len(buf)-1] &^= mask
	}
	if err = cs.CheckSize(bs.BitLength); err != nil {
		return asn1.BitString{}, d.error(v.Offset, tag, err)
	}
	return bs, nil
}

// DecodeCharacterString decodes a character string of the given kind and
// returns it as UTF-8. The characters are validated against the repertoire of
// kind and against the constraints cs.
func (d *Decoder) DecodeCharacterString(tag asn1.Tag, kind asn1.StringKind, cs asn1.Constraints) (string, error) {
	b, off, err := d.stringBytes(tag, kind.UniversalTag())
	if err != nil {
		return "", err
	}
	var s string
	switch kind {
	case asn1.KindBMPString:
		s, err = decodeFixedWidth(b, 2, bmpEncoding)
	case asn1.KindUniversalString:
		s, err = decodeFixedWidth(b, 4, universalEncoding)
	case asn1.KindUTF8String:
		if !utf8.Valid(b) {
			err = asn1.ErrInvalidCharacter
		}
		s = string(b)
	default:
		s = string(b)
	}
	if err != nil {
		return "", d.error(off, tag, err)
	}
	if !kind.Valid(s) {
		return "", d.error(off, tag, asn1.ErrInvalidCharacter)
	}
	if err = cs.CheckString(s); err != nil {
		return "", d.error(off, tag, err)
	}
	return s, nil
}

// decodeFixedWidth converts b from a character encoding with width octets per
// character into UTF-8. Surrogates and code points outside of the Unicode
// range are rejected before they reach enc, which would replace them.
func decodeFixedWidth(b []byte, width int, enc encoding.Encoding) (string, error) {
	if len(b)%width != 0 {
		return "", asn1.ErrWrongSize
	}
	for i := 0; i < len(b); i += width {
		var r uint32
		if width == 2 {
			r = uint32(binary.BigEndian.Uint16(b[i:]))
		} else {
			r = binary.BigEndian.Uint32(b[i:])
		}
		if r > utf8.MaxRune || 0xD800 <= r && r <= 0xDFFF {
			return "", asn1.ErrInvalidCharacter
		}
	}
	s, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", asn1.ErrInvalidCharacter, err)
	}
	return string(s), nil
}

// encodeFixedWidth converts the UTF-8 string s into enc.
func encodeFixedWidth(s string, enc encoding.Encoding) ([]byte, error) {
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", asn1.ErrInvalidCharacter, err)
	}
	return b, nil
}
