// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/asn1kit/asn1"
)

func TestMarshal(t *testing.T) {
	seq := asn1.SequenceOf[asn1.Boolean, *asn1.Boolean]{true, false}
	got, err := Marshal(seq)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := []byte{0x30, 0x80, 0x01, 0x01, 0xFF, 0x01, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}

	long, err := Marshal(asn1.OctetString(bytes.Repeat([]byte{0x01}, 1001)))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.HasPrefix(long, []byte{0x24, 0x80, 0x04, 0x82, 0x03, 0xE8}) || !bytes.HasSuffix(long, []byte{0x04, 0x01, 0x01, 0x00, 0x00}) {
		t.Errorf("Marshal() = % X, want 1000 octet segments", long)
	}
}

func TestUnmarshal(t *testing.T) {
	var seq asn1.SequenceOf[asn1.Boolean, *asn1.Boolean]
	if err := Unmarshal([]byte{0x30, 0x80, 0x01, 0x01, 0xFF, 0x00, 0x00}, &seq); err != nil || len(seq) != 1 {
		t.Errorf("Unmarshal() = %v, %v", seq, err)
	}
	var i asn1.Int64
	if err := Unmarshal([]byte{0x02, 0x81, 0x01, 0x05}, &i); !errors.Is(err, asn1.ErrNonCanonical) {
		t.Errorf("Unmarshal(non-minimal length) error = %v, want ErrNonCanonical", err)
	}
}
