// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/asn1kit/asn1"
)

func TestAppendHeader(t *testing.T) {
	tests := map[string]struct {
		h    Header
		want []byte
	}{
		"Primitive":       {Header{asn1.Universal(asn1.TagInteger), false, 1}, []byte{0x02, 0x01}},
		"Constructed":     {Header{asn1.Universal(asn1.TagSequence), true, 3}, []byte{0x30, 0x03}},
		"Indefinite":      {Header{asn1.Universal(asn1.TagSequence), true, LengthIndefinite}, []byte{0x30, 0x80}},
		"ContextSpecific": {Header{asn1.Context(0), true, 5}, []byte{0xA0, 0x05}},
		"Application":     {Header{asn1.Application(1), false, 0}, []byte{0x41, 0x00}},
		"Private":         {Header{asn1.Private(31), false, 0}, []byte{0xDF, 0x1F, 0x00}},
		"LargeTag":        {Header{asn1.Universal(215), false, 0}, []byte{0x1F, 0x81, 0x57, 0x00}},
		"LargeLength":     {Header{asn1.Universal(asn1.TagSet), true, 1000}, []byte{0x31, 0x82, 0x03, 0xE8}},
		"Length128":       {Header{asn1.Universal(asn1.TagOctetString), false, 128}, []byte{0x04, 0x81, 0x80}},
		"Length127":       {Header{asn1.Universal(asn1.TagOctetString), false, 127}, []byte{0x04, 0x7F}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := AppendHeader(nil, tc.h)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("AppendHeader(%s) = % X, want % X", tc.h, got, tc.want)
			}
			if l := HeaderLen(tc.h); l != len(tc.want) {
				t.Errorf("HeaderLen(%s) = %d, want %d", tc.h, l, len(tc.want))
			}
			h, n, err := ParseHeader(got)
			if err != nil {
				t.Fatalf("ParseHeader(% X) returned an unexpected error: %v", got, err)
			}
			if h != tc.h || n != len(got) {
				t.Errorf("ParseHeader(% X) = %s, %d, want %s, %d", got, h, n, tc.h, len(got))
			}
		})
	}
}

func TestAppend(t *testing.T) {
	t.Run("Definite", func(t *testing.T) {
		got := Append(nil, Header{Tag: asn1.Universal(asn1.TagSequence), Constructed: true}, []byte{0x02, 0x01, 0x15})
		want := []byte{0x30, 0x03, 0x02, 0x01, 0x15}
		if !bytes.Equal(got, want) {
			t.Errorf("Append() = % X, want % X", got, want)
		}
	})
	t.Run("Indefinite", func(t *testing.T) {
		got := Append(nil, Header{Tag: asn1.Universal(asn1.TagSequence), Constructed: true, Length: LengthIndefinite}, []byte{0x02, 0x01, 0x15})
		want := []byte{0x30, 0x80, 0x02, 0x01, 0x15, 0x00, 0x00}
		if !bytes.Equal(got, want) {
			t.Errorf("Append() = % X, want % X", got, want)
		}
	})
}

func ExampleAppend() {
	var b []byte
	b = Append(b, Header{Tag: asn1.Universal(asn1.TagInteger)}, []byte{0x15})
	b = Append(b, Header{Tag: asn1.Universal(asn1.TagNull)}, nil)
	fmt.Printf("% X\n", b)
	// Output: 02 01 15 05 00
}
