// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber implements the ASN.1 Basic Encoding Rules (BER) and its two
// canonical subsets, the Canonical Encoding Rules (CER) and the Distinguished
// Encoding Rules (DER). The encoding rules are defined in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// The [Decoder] and [Encoder] types implement the [asn1.Decoder] and
// [asn1.Encoder] interfaces over byte slices. Types implementing
// [asn1.Encodable] and [asn1.Decodable] can be encoded and decoded using any
// of the three rule sets. The rule set only affects the form of the encoding:
//
//   - BER encodes definite lengths and primitive strings. When decoding, all
//     valid BER encodings are accepted.
//   - CER encodes strings longer than 1000 octets in segments and uses the
//     indefinite-length format for SEQUENCE OF, SET OF and explicit tags.
//     The members of a SET and the elements of a SET OF are sorted.
//   - DER encodes definite lengths and primitive strings only. The members of
//     a SET and the elements of a SET OF are sorted. When decoding, encodings
//     that are valid BER but not valid DER are rejected.
//
// Under all rule sets INTEGER values must be minimally encoded and DEFAULT
// components equal to their default value are omitted.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package ber

import (
	"log/slog"

	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/tlv"
)

// Rules selects one of the BER family of encoding rules.
//
//go:generate stringer -type=Rules
type Rules uint8

const (
	BER Rules = iota // Basic Encoding Rules
	CER              // Canonical Encoding Rules
	DER              // Distinguished Encoding Rules
)

// canonical reports whether r is one of the canonical subsets of BER.
func (r Rules) canonical() bool {
	return r == CER || r == DER
}

// Options configure an [Encoder] or [Decoder]. The zero value selects the Basic
// Encoding Rules with the default nesting limit and no logging.
type Options struct {
	// Rules selects the encoding rules.
	Rules Rules

	// MaxDepth limits the nesting of constructed values during decoding. A
	// non-positive value selects [tlv.DefaultMaxDepth].
	MaxDepth int

	// Logger receives debug records about discarded data, such as unknown
	// extensions. If Logger is nil, nothing is logged.
	Logger *slog.Logger
}

// config is the resolved form of Options shared by all decoders and encoders
// of a single call.
type config struct {
	rules    Rules
	maxDepth int
	logger   *slog.Logger
}

func (o Options) config() *config {
	c := &config{rules: o.Rules, maxDepth: o.MaxDepth, logger: o.Logger}
	if c.maxDepth <= 0 {
		c.maxDepth = tlv.DefaultMaxDepth
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// NewDecoder returns a [Decoder] reading the data values in b.
func (o Options) NewDecoder(b []byte) *Decoder {
	return &Decoder{cfg: o.config(), buf: b}
}

// NewEncoder returns an [Encoder] with an empty output buffer.
func (o Options) NewEncoder() *Encoder {
	return &Encoder{cfg: o.config()}
}

// Marshal returns the encoding of v.
func (o Options) Marshal(v asn1.Encodable) ([]byte, error) {
	e := o.NewEncoder()
	ti := v.ASN1Type()
	if err := v.EncodeASN1(e, ti.Tag, ti.Constraints); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal decodes the single data value in b into v. If any data is left
// over in b after v has been decoded, an error wrapping [asn1.ErrTrailingData]
// is returned.
func (o Options) Unmarshal(b []byte, v asn1.Decodable) error {
	d := o.NewDecoder(b)
	ti := v.ASN1Type()
	if err := v.DecodeASN1(d, ti.Tag, ti.Constraints); err != nil {
		return err
	}
	if len(d.buf) > 0 {
		return d.error(d.off, asn1.Tag{}, asn1.ErrTrailingData)
	}
	d.cfg.logger.Debug("decoded value", "type", ti.Identifier, "rules", d.Codec(), "size", d.off)
	return nil
}

// UnmarshalRaw decodes the open type value rv into v. This is used to
// interpret a [asn1.RawValue] after its actual type has been determined.
func (o Options) UnmarshalRaw(rv asn1.RawValue, v asn1.Decodable) error {
	b := rv.FullBytes
	if len(b) == 0 {
		b = tlv.Append(nil, tlv.Header{Tag: rv.Tag, Constructed: rv.Constructed}, rv.Bytes)
	}
	return o.Unmarshal(b, v)
}

// Marshal returns the BER encoding of v.
func Marshal(v asn1.Encodable) ([]byte, error) {
	return Options{}.Marshal(v)
}

// Unmarshal decodes the BER encoding in b into v. See [Options.Unmarshal].
func Unmarshal(b []byte, v asn1.Decodable) error {
	return Options{}.Unmarshal(b, v)
}
