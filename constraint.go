// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"math/big"
	"strconv"
	"unicode/utf8"

	"golang.org/x/exp/constraints"
)

//region Bounded

// Bounded is an interval of integers. Either end of the interval may be
// absent, in which case the interval is unbounded in that direction. Both
// ends are inclusive. The zero value is the unbounded interval (MIN..MAX).
//
// See also section 51.4 of Rec. ITU-T X.680.
type Bounded[T constraints.Integer] struct {
	Start, End       T
	HasStart, HasEnd bool
}

// Unbounded returns the interval (MIN..MAX).
func Unbounded[T constraints.Integer]() Bounded[T] {
	return Bounded[T]{}
}

// Single returns the interval containing only v.
func Single[T constraints.Integer](v T) Bounded[T] {
	return Bounded[T]{Start: v, End: v, HasStart: true, HasEnd: true}
}

// Range returns the interval (start..end). Range panics if start > end.
func Range[T constraints.Integer](start, end T) Bounded[T] {
	if start > end {
		panic("asn1: invalid range " + strconv.FormatInt(int64(start), 10) + ".." + strconv.FormatInt(int64(end), 10))
	}
	return Bounded[T]{Start: start, End: end, HasStart: true, HasEnd: true}
}

// AtLeast returns the interval (start..MAX).
func AtLeast[T constraints.Integer](start T) Bounded[T] {
	return Bounded[T]{Start: start, HasStart: true}
}

// AtMost returns the interval (MIN..end).
func AtMost[T constraints.Integer](end T) Bounded[T] {
	return Bounded[T]{End: end, HasEnd: true}
}

// IsUnbounded reports whether b has neither a lower nor an upper bound.
func (b Bounded[T]) IsUnbounded() bool {
	return !b.HasStart && !b.HasEnd
}

// IsSingle reports whether b contains exactly one value.
func (b Bounded[T]) IsSingle() bool {
	return b.HasStart && b.HasEnd && b.Start == b.End
}

// Contains reports whether v lies within b.
func (b Bounded[T]) Contains(v T) bool {
	return (!b.HasStart || b.Start <= v) && (!b.HasEnd || v <= b.End)
}

// ContainsBig reports whether v lies within b. Values that do not fit into T
// are compared against the bounds correctly.
func (b Bounded[T]) ContainsBig(v *big.Int) bool {
	if b.HasStart && v.Cmp(toBig(b.Start)) < 0 {
		return false
	}
	if b.HasEnd && v.Cmp(toBig(b.End)) > 0 {
		return false
	}
	return true
}

// String returns the ASN.1 notation of b, for example "(0..255)" or "(5)".
func (b Bounded[T]) String() string {
	if b.IsSingle() {
		return "(" + formatInt(b.Start) + ")"
	}
	start, end := "MIN", "MAX"
	if b.HasStart {
		start = formatInt(b.Start)
	}
	if b.HasEnd {
		end = formatInt(b.End)
	}
	return "(" + start + ".." + end + ")"
}

func toBig[T constraints.Integer](v T) *big.Int {
	if v < 0 {
		return big.NewInt(int64(v))
	}
	return new(big.Int).SetUint64(uint64(v))
}

func formatInt[T constraints.Integer](v T) string {
	if v < 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

//endregion

//region Extensible

// Extensible wraps a constraint that may carry the ASN.1 extension marker. The
// Root is the constraint that applies to the current version of an
// ASN.1 module. Additions list the constraints added after the extension
// marker.
//
// See also section 52 of Rec. ITU-T X.680.
type Extensible[T any] struct {
	Root       T
	Extensible bool
	Additions  []T
}

//endregion

//region Constraint Kinds

// A Constraint is one of [ValueConstraint], [SizeConstraint],
// [AlphabetConstraint] or [ExtensibleMarker].
type Constraint interface {
	constraint()
	String() string
}

// ValueConstraint restricts the values of an INTEGER or ENUMERATED type.
type ValueConstraint struct {
	Extensible[Bounded[int64]]
}

// SizeConstraint restricts the number of items in a string or in a SEQUENCE
// OF or SET OF value. The size of a character string is measured in
// characters, the size of a BIT STRING in bits.
type SizeConstraint struct {
	Extensible[Bounded[int]]
}

// AlphabetConstraint restricts the characters of a character string.
type AlphabetConstraint struct {
	Extensible[*PermittedAlphabet]
}

// ExtensibleMarker indicates that a type is extensible. For SEQUENCE, SET and
// CHOICE types this corresponds to the "..." in the component list.
type ExtensibleMarker struct{}

func (ValueConstraint) constraint()    {}
func (SizeConstraint) constraint()     {}
func (AlphabetConstraint) constraint() {}
func (ExtensibleMarker) constraint()   {}

// Extensibility is the [ExtensibleMarker] constraint.
var Extensibility Constraint = ExtensibleMarker{}

// Value returns a non-extensible value constraint.
func Value(root Bounded[int64]) ValueConstraint {
	return ValueConstraint{Extensible[Bounded[int64]]{Root: root}}
}

// ExtensibleValue returns an extensible value constraint with the given
// extension additions.
func ExtensibleValue(root Bounded[int64], additions ...Bounded[int64]) ValueConstraint {
	return ValueConstraint{Extensible[Bounded[int64]]{Root: root, Extensible: true, Additions: additions}}
}

// Size returns a non-extensible size constraint.
func Size(root Bounded[int]) SizeConstraint {
	return SizeConstraint{Extensible[Bounded[int]]{Root: root}}
}

// FixedSize returns a non-extensible size constraint permitting exactly n
// items.
func FixedSize(n int) SizeConstraint {
	return Size(Single(n))
}

// ExtensibleSize returns an extensible size constraint with the given extension
// additions.
func ExtensibleSize(root Bounded[int], additions ...Bounded[int]) SizeConstraint {
	return SizeConstraint{Extensible[Bounded[int]]{Root: root, Extensible: true, Additions: additions}}
}

// Alphabet returns a non-extensible permitted alphabet constraint.
func Alphabet(root *PermittedAlphabet) AlphabetConstraint {
	return AlphabetConstraint{Extensible[*PermittedAlphabet]{Root: root}}
}

// ExtensibleAlphabet returns an extensible permitted alphabet constraint.
func ExtensibleAlphabet(root *PermittedAlphabet, additions ...*PermittedAlphabet) AlphabetConstraint {
	return AlphabetConstraint{Extensible[*PermittedAlphabet]{Root: root, Extensible: true, Additions: additions}}
}

func (c ValueConstraint) String() string    { return c.Root.String() + ext(c.Extensible.Extensible) }
func (c SizeConstraint) String() string     { return "SIZE" + c.Root.String() + ext(c.Extensible.Extensible) }
func (c AlphabetConstraint) String() string { return "FROM" + c.Root.String() + ext(c.Extensible.Extensible) }
func (ExtensibleMarker) String() string     { return "..." }

func ext(extensible bool) string {
	if extensible {
		return "..."
	}
	return ""
}

//endregion

//region Constraints

// Constraints is the list of constraints that apply to a type. All
// constraints of the same kind must be satisfied at the same time.
//
// Extensible constraints never reject a value: a value outside the root may
// stem from a later version of the ASN.1 module.
type Constraints []Constraint

// Extensible reports whether cs contains the [ExtensibleMarker].
func (cs Constraints) Extensible() bool {
	for _, c := range cs {
		if _, ok := c.(ExtensibleMarker); ok {
			return true
		}
	}
	return false
}

// Value returns the effective value bounds of cs. The result is the
// intersection of the roots of all non-extensible value constraints.
func (cs Constraints) Value() Bounded[int64] {
	var b Bounded[int64]
	for _, c := range cs {
		if vc, ok := c.(ValueConstraint); ok && !vc.Extensible.Extensible {
			b = intersect(b, vc.Root)
		}
	}
	return b
}

// Size returns the effective size bounds of cs. The result is the
// intersection of the roots of all non-extensible size constraints.
func (cs Constraints) Size() Bounded[int] {
	var b Bounded[int]
	for _, c := range cs {
		if sc, ok := c.(SizeConstraint); ok && !sc.Extensible.Extensible {
			b = intersect(b, sc.Root)
		}
	}
	return b
}

func intersect[T constraints.Integer](a, b Bounded[T]) Bounded[T] {
	if b.HasStart && (!a.HasStart || b.Start > a.Start) {
		a.Start, a.HasStart = b.Start, true
	}
	if b.HasEnd && (!a.HasEnd || b.End < a.End) {
		a.End, a.HasEnd = b.End, true
	}
	return a
}

// CheckValue returns a [*ConstraintError] if v violates a value constraint in
// cs.
func (cs Constraints) CheckValue(v *big.Int) error {
	for _, c := range cs {
		vc, ok := c.(ValueConstraint)
		if !ok || vc.Extensible.Extensible {
			continue
		}
		if !vc.Root.ContainsBig(v) {
			return &ConstraintError{Kind: "value", Value: v.String(), Constraint: vc.String()}
		}
	}
	return nil
}

// CheckInt is like [Constraints.CheckValue] for an int64 value.
func (cs Constraints) CheckInt(v int64) error {
	for _, c := range cs {
		vc, ok := c.(ValueConstraint)
		if !ok || vc.Extensible.Extensible {
			continue
		}
		if !vc.Root.Contains(v) {
			return &ConstraintError{Kind: "value", Value: strconv.FormatInt(v, 10), Constraint: vc.String()}
		}
	}
	return nil
}

// CheckSize returns a [*ConstraintError] if n violates a size constraint in
// cs.
func (cs Constraints) CheckSize(n int) error {
	for _, c := range cs {
		sc, ok := c.(SizeConstraint)
		if !ok || sc.Extensible.Extensible {
			continue
		}
		if !sc.Root.Contains(n) {
			return &ConstraintError{Kind: "size", Value: strconv.Itoa(n), Constraint: sc.String()}
		}
	}
	return nil
}

// CheckAlphabet returns a [*ConstraintError] if s contains a character that
// is not permitted by an alphabet constraint in cs.
func (cs Constraints) CheckAlphabet(s string) error {
	for _, c := range cs {
		ac, ok := c.(AlphabetConstraint)
		if !ok || ac.Extensible.Extensible || ac.Root == nil {
			continue
		}
		for _, r := range s {
			if !ac.Root.Contains(r) {
				return &ConstraintError{Kind: "alphabet", Value: strconv.QuoteRune(r), Constraint: ac.String()}
			}
		}
	}
	return nil
}

// CheckString checks the size (in characters) and the alphabet of s.
func (cs Constraints) CheckString(s string) error {
	if len(cs) == 0 {
		return nil
	}
	if err := cs.CheckSize(utf8.RuneCountInString(s)); err != nil {
		return err
	}
	return cs.CheckAlphabet(s)
}

//endregion
