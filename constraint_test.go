// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestBounded_Contains(t *testing.T) {
	tests := map[string]struct {
		b    Bounded[int64]
		v    int64
		want bool
	}{
		"UnboundedMin":  {Unbounded[int64](), math.MinInt64, true},
		"UnboundedMax":  {Unbounded[int64](), math.MaxInt64, true},
		"SingleHit":     {Single[int64](5), 5, true},
		"SingleMiss":    {Single[int64](5), 6, false},
		"RangeStart":    {Range[int64](0, 10), 0, true},
		"RangeEnd":      {Range[int64](0, 10), 10, true},
		"BelowRange":    {Range[int64](0, 10), -1, false},
		"AboveRange":    {Range[int64](0, 10), 11, false},
		"AtLeastHit":    {AtLeast[int64](3), math.MaxInt64, true},
		"AtLeastMiss":   {AtLeast[int64](3), 2, false},
		"AtMostHit":     {AtMost[int64](-3), math.MinInt64, true},
		"AtMostMiss":    {AtMost[int64](-3), -2, false},
		"NegativeRange": {Range[int64](-128, 127), -128, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.b.Contains(tt.v); got != tt.want {
				t.Errorf("%s.Contains(%d) = %v, want %v", tt.b, tt.v, got, tt.want)
			}
			if got := tt.b.ContainsBig(big.NewInt(tt.v)); got != tt.want {
				t.Errorf("%s.ContainsBig(%d) = %v, want %v", tt.b, tt.v, got, tt.want)
			}
		})
	}
}

func TestBounded_ContainsBig(t *testing.T) {
	huge, _ := new(big.Int).SetString("100000000000000000000", 10)
	if Range[int64](0, math.MaxInt64).ContainsBig(huge) {
		t.Errorf("ContainsBig(%s) = true, want false", huge)
	}
	if !AtLeast[int64](0).ContainsBig(huge) {
		t.Errorf("AtLeast(0).ContainsBig(%s) = false, want true", huge)
	}
	if !Range[uint64](0, math.MaxUint64).ContainsBig(new(big.Int).SetUint64(math.MaxUint64)) {
		t.Errorf("ContainsBig(MaxUint64) = false, want true")
	}
}

func TestRange_Invalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Range(10, 0) did not panic")
		}
	}()
	Range(10, 0)
}

func TestBounded_String(t *testing.T) {
	tests := map[string]struct {
		b    Bounded[int]
		want string
	}{
		"Unbounded": {Unbounded[int](), "(MIN..MAX)"},
		"Single":    {Single(5), "(5)"},
		"Range":     {Range(-1, 10), "(-1..10)"},
		"AtLeast":   {AtLeast(1), "(1..MAX)"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstraints_Check(t *testing.T) {
	cs := Constraints{Value(Range[int64](0, 255)), Size(Range(1, 4))}
	if err := cs.CheckInt(0); err != nil {
		t.Errorf("CheckInt(0) = %v, want nil", err)
	}
	if err := cs.CheckInt(255); err != nil {
		t.Errorf("CheckInt(255) = %v, want nil", err)
	}
	if err := cs.CheckInt(256); !errors.Is(err, ErrConstraint) {
		t.Errorf("CheckInt(256) = %v, want %v", err, ErrConstraint)
	}
	if err := cs.CheckValue(big.NewInt(-1)); !errors.Is(err, ErrConstraint) {
		t.Errorf("CheckValue(-1) = %v, want %v", err, ErrConstraint)
	}
	if err := cs.CheckSize(0); !errors.Is(err, ErrConstraint) {
		t.Errorf("CheckSize(0) = %v, want %v", err, ErrConstraint)
	}
	if err := cs.CheckSize(4); err != nil {
		t.Errorf("CheckSize(4) = %v, want nil", err)
	}
	if err := cs.CheckString("äöü"); err != nil {
		t.Errorf("CheckString(äöü) = %v, want nil", err)
	}
}

func TestConstraints_Extensible(t *testing.T) {
	cs := Constraints{ExtensibleValue(Range[int64](0, 10), Range[int64](11, 20)), ExtensibleSize(FixedSize(2).Root)}
	if cs.Extensible() {
		t.Errorf("Extensible() = true, want false")
	}
	if err := cs.CheckInt(1000); err != nil {
		t.Errorf("CheckInt(1000) = %v, want nil", err)
	}
	if err := cs.CheckSize(3); err != nil {
		t.Errorf("CheckSize(3) = %v, want nil", err)
	}
	if !append(cs, Extensibility).Extensible() {
		t.Errorf("Extensible() = false, want true")
	}
}

func TestConstraints_Intersection(t *testing.T) {
	cs := Constraints{Value(AtLeast[int64](0)), Value(AtMost[int64](10)), Value(Range[int64](5, 20))}
	want := Range[int64](5, 10)
	if got := cs.Value(); got != want {
		t.Errorf("Value() = %s, want %s", got, want)
	}
	for _, v := range []int64{4, 11} {
		if err := cs.CheckInt(v); err == nil {
			t.Errorf("CheckInt(%d) = nil, want error", v)
		}
	}
}

func TestPermittedAlphabet(t *testing.T) {
	a := MustPermittedAlphabet("A..Z", "0..9", " ", "AEIOU")
	if a.Len() != 37 {
		t.Errorf("Len() = %d, want 37", a.Len())
	}
	for _, r := range "AZ09 M" {
		if !a.Contains(r) {
			t.Errorf("Contains(%q) = false, want true", r)
		}
	}
	for _, r := range "az-@ä" {
		if a.Contains(r) {
			t.Errorf("Contains(%q) = true, want false", r)
		}
	}
	if got := a.String(); got != "(' ' | '0'..'9' | 'A'..'Z')" {
		t.Errorf("String() = %q", got)
	}

	cs := Constraints{Alphabet(a)}
	if err := cs.CheckAlphabet("HELLO 42"); err != nil {
		t.Errorf("CheckAlphabet(HELLO 42) = %v, want nil", err)
	}
	var ce *ConstraintError
	if err := cs.CheckAlphabet("Hello"); !errors.As(err, &ce) || ce.Kind != "alphabet" {
		t.Errorf("CheckAlphabet(Hello) = %v, want alphabet ConstraintError", err)
	}
}

func TestNewPermittedAlphabet_Invalid(t *testing.T) {
	if _, err := NewPermittedAlphabet("z..a"); err == nil {
		t.Errorf("NewPermittedAlphabet(z..a) = nil error, want error")
	}
	a, err := NewPermittedAlphabet("..")
	if err != nil || a.Len() != 1 || !a.Contains('.') {
		t.Errorf("NewPermittedAlphabet(..) = %v, %v; want alphabet of '.'", a, err)
	}
}
