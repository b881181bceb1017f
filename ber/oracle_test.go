// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	encasn1 "encoding/asn1"
	"math/big"
	"testing"
	"time"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/asn1kit/asn1"
)

// The tests in this file compare the DER codec with the independent DER
// implementation of golang.org/x/crypto/cryptobyte.

func TestDER_DecodeCryptobyte(t *testing.T) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(-300)
		b.AddASN1Int64(1 << 33)
		b.AddASN1(cbasn1.Tag(0).ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddBytes([]byte("origin"))
		})
		b.AddASN1(cbasn1.Tag(1).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
			b.AddASN1Int64(7)
		})
	})
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("Builder.Bytes() error = %v", err)
	}

	var p point
	if err = (Options{Rules: DER}).Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.X != -300 || p.Y != 1<<33 || p.Label == nil || *p.Label != "origin" || p.Version != 7 {
		t.Errorf("Unmarshal() = %+v", p)
	}
}

func TestDER_EncodeCryptobyte(t *testing.T) {
	label := asn1.UTF8String("origin")
	data, err := Options{Rules: DER}.Marshal(point{X: -300, Y: 1 << 33, Label: &label, Version: 1})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	input := cryptobyte.String(data)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		t.Fatalf("ReadASN1(SEQUENCE) failed for % X", data)
	}
	var x, y, version int64
	var l cryptobyte.String
	var hasLabel bool
	if !seq.ReadASN1Integer(&x) || !seq.ReadASN1Integer(&y) {
		t.Fatalf("ReadASN1Integer() failed for % X", data)
	}
	if !seq.ReadOptionalASN1(&l, &hasLabel, cbasn1.Tag(0).ContextSpecific()) {
		t.Fatalf("ReadOptionalASN1([0]) failed for % X", data)
	}
	if !seq.ReadOptionalASN1Integer(&version, cbasn1.Tag(1).ContextSpecific().Constructed(), int64(1)) {
		t.Fatalf("ReadOptionalASN1Integer([1]) failed for % X", data)
	}
	if !seq.Empty() {
		t.Errorf("SEQUENCE has trailing data % X", []byte(seq))
	}
	if x != -300 || y != 1<<33 || !hasLabel || string(l) != "origin" || version != 1 {
		t.Errorf("cryptobyte read x=%d y=%d label=%q version=%d", x, y, l, version)
	}
}

func TestDER_Primitives(t *testing.T) {
	oid := asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	bits := asn1.BitString{Bytes: []byte{0xA5, 0xC0}, BitLength: 10}
	when := time.Date(2024, 2, 29, 12, 30, 15, 0, time.UTC)
	big1 := new(big.Int).Lsh(big.NewInt(-3), 70)

	t.Run("ObjectIdentifier", func(t *testing.T) {
		data, err := Options{Rules: DER}.Marshal(oid)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var got encasn1.ObjectIdentifier
		s := cryptobyte.String(data)
		if !s.ReadASN1ObjectIdentifier(&got) || !s.Empty() {
			t.Fatalf("ReadASN1ObjectIdentifier() failed for % X", data)
		}
		if got.String() != oid.String() {
			t.Errorf("ReadASN1ObjectIdentifier() = %s, want %s", got, oid)
		}
	})
	t.Run("BitString", func(t *testing.T) {
		data, err := Options{Rules: DER}.Marshal(bits)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var got encasn1.BitString
		s := cryptobyte.String(data)
		if !s.ReadASN1BitString(&got) || !s.Empty() {
			t.Fatalf("ReadASN1BitString() failed for % X", data)
		}
		if got.BitLength != bits.BitLength || string(got.Bytes) != string(bits.Bytes) {
			t.Errorf("ReadASN1BitString() = %v, want %v", got, bits)
		}
	})
	t.Run("GeneralizedTime", func(t *testing.T) {
		data, err := Options{Rules: DER}.Marshal(asn1.GeneralizedTime(when))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var got time.Time
		s := cryptobyte.String(data)
		if !s.ReadASN1GeneralizedTime(&got) || !s.Empty() {
			t.Fatalf("ReadASN1GeneralizedTime() failed for % X", data)
		}
		if !got.Equal(when) {
			t.Errorf("ReadASN1GeneralizedTime() = %v, want %v", got, when)
		}
	})
	t.Run("UTCTime", func(t *testing.T) {
		var b cryptobyte.Builder
		b.AddASN1UTCTime(when)
		data, err := b.Bytes()
		if err != nil {
			t.Fatalf("Builder.Bytes() error = %v", err)
		}
		var got asn1.UTCTime
		if err = (Options{Rules: DER}).Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if !time.Time(got).Equal(when) {
			t.Errorf("Unmarshal() = %v, want %v", time.Time(got), when)
		}
	})
	t.Run("BigInteger", func(t *testing.T) {
		var b cryptobyte.Builder
		b.AddASN1BigInt(big1)
		data, err := b.Bytes()
		if err != nil {
			t.Fatalf("Builder.Bytes() error = %v", err)
		}
		var got asn1.Integer
		if err = (Options{Rules: DER}).Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got.Big().Cmp(big1) != 0 {
			t.Errorf("Unmarshal() = %v, want %v", got, big1)
		}
		enc, err := Options{Rules: DER}.Marshal(got)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(enc) != string(data) {
			t.Errorf("Marshal() = % X, want % X", enc, data)
		}
	})
}
