// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/asn1kit/asn1"
)

// testCase represents an encoding or decoding test case. For encoding cases
// marshaling val should result in data. For decoding cases decoding data into
// the type of val should result in val.
type testCase[T any] struct {
	val     T
	data    []byte
	wantErr error
}

// testCodec runs the tests specified as arguments with the options opts.
// Common tests are tested for both marshaling and unmarshalling. The marshal
// and unmarshal tests are only run for the respective direction.
func testCodec[T asn1.Encodable, P asn1.Pointer[T]](t *testing.T, opts Options, common, marshal, unmarshal map[string]testCase[T]) {
	t.Helper()
	t.Run("Marshal", func(t *testing.T) {
		t.Helper()
		testMarshal(t, opts, common)
		testMarshal(t, opts, marshal)
	})
	t.Run("Unmarshal", func(t *testing.T) {
		t.Helper()
		testUnmarshal[T, P](t, opts, common)
		testUnmarshal[T, P](t, opts, unmarshal)
	})
}

// testMarshal marshals val and validates that the resulting data matches the
// expectations. If tc.wantErr is non-nil marshaling is expected to return an
// error wrapping tc.wantErr.
func testMarshal[T asn1.Encodable](t *testing.T, opts Options, tests map[string]testCase[T]) {
	t.Helper()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Helper()
			got, err := opts.Marshal(tc.val)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Marshal() error = %v, wantErr = %v", err, tc.wantErr)
				}
				return
			} else if err != nil {
				t.Fatalf("Marshal() error = %v, wantErr = nil", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Errorf("Marshal() = % X, want % X", got, tc.data)
			}
		})
	}
}

// testUnmarshal unmarshalls the provided data into type T. The result is then
// asserted against tc.val. If tc.wantErr is non-nil the unmarshalling process
// is expected to return an error wrapping tc.wantErr.
func testUnmarshal[T any, P asn1.Pointer[T]](t *testing.T, opts Options, tests map[string]testCase[T]) {
	t.Helper()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Helper()
			var got T
			err := opts.Unmarshal(tc.data, P(&got))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Unmarshal() error = %v, wantErr = %v", err, tc.wantErr)
				}
				return
			} else if err != nil {
				t.Fatalf("Unmarshal() error = %v, wantErr = nil", err)
			}
			if !equal(got, tc.val) {
				t.Errorf("Unmarshal() = %v, want %v", got, tc.val)
			}
		})
	}
}

// equal compares two decoded values. Integers are compared by value, reals
// treat NaN as equal to itself and times are compared as instants.
func equal(a, b any) bool {
	switch x := a.(type) {
	case asn1.Integer:
		y, ok := b.(asn1.Integer)
		return ok && x.Compare(y) == 0
	case asn1.Real:
		y, ok := b.(asn1.Real)
		if !ok {
			return false
		}
		if math.IsNaN(float64(x)) {
			return math.IsNaN(float64(y))
		}
		return x == y && math.Signbit(float64(x)) == math.Signbit(float64(y))
	case asn1.UTCTime:
		y, ok := b.(asn1.UTCTime)
		return ok && time.Time(x).Equal(time.Time(y))
	case asn1.GeneralizedTime:
		y, ok := b.(asn1.GeneralizedTime)
		return ok && time.Time(x).Equal(time.Time(y))
	}
	return reflect.DeepEqual(a, b)
}

// allRules lists the encoding rules for tests that run under every rule set.
var allRules = []Rules{BER, CER, DER}

func TestRules_String(t *testing.T) {
	tests := map[Rules]string{
		BER:      "BER",
		CER:      "CER",
		DER:      "DER",
		Rules(7): "Rules(7)",
	}
	for r, want := range tests {
		if got := r.String(); got != want {
			t.Errorf("Rules(%d).String() = %q, want %q", uint8(r), got, want)
		}
	}
}

func TestOptions_Defaults(t *testing.T) {
	c := Options{}.config()
	if c.rules != BER {
		t.Errorf("config().rules = %v, want BER", c.rules)
	}
	if c.maxDepth != 64 {
		t.Errorf("config().maxDepth = %d, want 64", c.maxDepth)
	}
	if c.logger == nil {
		t.Errorf("config().logger = nil, want discarding logger")
	}
	if got := (Options{MaxDepth: 3}).config().maxDepth; got != 3 {
		t.Errorf("config().maxDepth = %d, want 3", got)
	}
}

func TestUnmarshal_TrailingData(t *testing.T) {
	var v asn1.Int64
	err := Unmarshal([]byte{0x02, 0x01, 0x05, 0x00}, &v)
	if !errors.Is(err, asn1.ErrTrailingData) {
		t.Fatalf("Unmarshal() error = %v, want ErrTrailingData", err)
	}
	var de *asn1.DecodeError
	if !errors.As(err, &de) || de.Offset != 3 {
		t.Errorf("Unmarshal() error = %#v, want offset 3", err)
	}
}

func TestUnmarshal_Empty(t *testing.T) {
	var v asn1.Boolean
	if err := Unmarshal(nil, &v); !errors.Is(err, asn1.ErrTruncated) {
		t.Errorf("Unmarshal(nil) error = %v, want ErrTruncated", err)
	}
}

func TestUnmarshalRaw(t *testing.T) {
	data := []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x02}
	var rv asn1.RawValue
	if err := Unmarshal(data, &rv); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rv.Tag != asn1.Universal(asn1.TagSequence) || !rv.Constructed {
		t.Errorf("Unmarshal() = %v, want constructed SEQUENCE", rv)
	}
	var p point
	if err := (Options{}).UnmarshalRaw(rv, &p); err != nil {
		t.Fatalf("UnmarshalRaw() error = %v", err)
	}
	if want := (point{X: 1, Y: 2, Version: 1}); !reflect.DeepEqual(p, want) {
		t.Errorf("UnmarshalRaw() = %+v, want %+v", p, want)
	}

	// without FullBytes the encoding is rebuilt from the contents
	rv.FullBytes = nil
	p = point{}
	if err := (Options{}).UnmarshalRaw(rv, &p); err != nil {
		t.Fatalf("UnmarshalRaw() error = %v", err)
	}
	if p.X != 1 || p.Y != 2 {
		t.Errorf("UnmarshalRaw() = %+v, want X=1 Y=2", p)
	}
}

func TestEncoder_Reset(t *testing.T) {
	e := Options{}.NewEncoder()
	if err := e.EncodeNull(asn1.Universal(asn1.TagNull)); err != nil {
		t.Fatalf("EncodeNull() error = %v", err)
	}
	if got := e.Bytes(); !bytes.Equal(got, []byte{0x05, 0x00}) {
		t.Errorf("Bytes() = % X, want 05 00", got)
	}
	e.Reset()
	if got := e.Bytes(); len(got) != 0 {
		t.Errorf("Bytes() after Reset() = % X, want empty", got)
	}
}

func TestDecoder_Stream(t *testing.T) {
	d := Options{}.NewDecoder([]byte{0x01, 0x01, 0xFF, 0x05, 0x00, 0x02, 0x01, 0x07})
	b, err := d.DecodeBool(asn1.Universal(asn1.TagBoolean))
	if err != nil || !b {
		t.Fatalf("DecodeBool() = %v, %v, want true, nil", b, err)
	}
	if d.InputOffset() != 3 {
		t.Errorf("InputOffset() = %d, want 3", d.InputOffset())
	}
	if err = d.DecodeNull(asn1.Universal(asn1.TagNull)); err != nil {
		t.Fatalf("DecodeNull() error = %v", err)
	}
	i, err := d.DecodeInteger(asn1.Universal(asn1.TagInteger), nil)
	if err != nil || i.Int64() != 7 {
		t.Fatalf("DecodeInteger() = %v, %v, want 7, nil", i, err)
	}
	if d.More() {
		t.Errorf("More() = true, want false")
	}
}

// TestRoundTrip encodes values under every rule set and checks that BER can
// decode all of them and that every rule set can decode its own output.
func TestRoundTrip(t *testing.T) {
	label := asn1.UTF8String("ünïcödé")
	values := map[string]asn1.Encodable{
		"Point":    point{X: -5, Y: 1 << 40, Label: &label, Version: 3},
		"Settings": settings{Name: "host", Port: 443, Enabled: ptr(asn1.Boolean(false))},
		"Polygon": polygon{Points: asn1.SequenceOf[point, *point]{
			{X: 1, Y: 2, Version: 1},
			{X: 3, Y: 4, Version: 1},
		}},
		"Shape":     shape{Circle: ptr(asn1.Int64(12))},
		"LongBytes": asn1.OctetString(bytes.Repeat([]byte{0xAB}, 2500)),
		"LongBits":  asn1.BitString{Bytes: bytes.Repeat([]byte{0xF0}, 1500), BitLength: 1500*8 - 4},
		"LongText":  asn1.IA5String(bytes.Repeat([]byte("abc"), 700)),
		"Real":      asn1.Real(-0.1),
	}
	for name, v := range values {
		for _, r := range allRules {
			t.Run(name+"/"+r.String(), func(t *testing.T) {
				opts := Options{Rules: r}
				data, err := opts.Marshal(v)
				if err != nil {
					t.Fatalf("Marshal() error = %v", err)
				}
				for _, dr := range []Rules{BER, r} {
					got := reflect.New(reflect.TypeOf(v))
					if err = (Options{Rules: dr}).Unmarshal(data, got.Interface().(asn1.Decodable)); err != nil {
						t.Fatalf("Unmarshal() with %v error = %v", dr, err)
					}
					if !equal(got.Elem().Interface(), v) {
						t.Errorf("Unmarshal() with %v = %v, want %v", dr, got.Elem().Interface(), v)
					}
				}
			})
		}
	}
}

// TestDER_Idempotent checks that re-encoding decoded DER yields the same
// octets.
func TestDER_Idempotent(t *testing.T) {
	inputs := map[string][]byte{
		"Point":    {0x30, 0x0E, 0x02, 0x01, 0x01, 0x02, 0x01, 0x02, 0x80, 0x01, 0x61, 0xA1, 0x03, 0x02, 0x01, 0x02},
		"Settings": {0x31, 0x09, 0x01, 0x01, 0xFF, 0x80, 0x01, 0x61, 0x81, 0x01, 0x50},
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			var v asn1.Decodable
			switch name {
			case "Point":
				v = new(point)
			default:
				v = new(settings)
			}
			if err := (Options{Rules: DER}).Unmarshal(data, v); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			got, err := (Options{Rules: DER}).Marshal(reflect.ValueOf(v).Elem().Interface().(asn1.Encodable))
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("Marshal() = % X, want % X", got, data)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
