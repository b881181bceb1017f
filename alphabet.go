// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// A PermittedAlphabet is a set of characters used in a permitted alphabet
// constraint (FROM). The set is stored sorted and without duplicates so
// membership tests are a binary search.
//
// See also section 51.7 of Rec. ITU-T X.680.
type PermittedAlphabet struct {
	runes []rune
}

// NewPermittedAlphabet builds a permitted alphabet from the given definitions.
// A definition of the form "a..z" (exactly one character on either side of
// "..") denotes the inclusive range of characters between the two ends. Any
// other definition adds each of its characters to the alphabet.
//
//	NewPermittedAlphabet("A..Z", "a..z", "0..9", " '()+,-./:=?")
func NewPermittedAlphabet(defs ...string) (*PermittedAlphabet, error) {
	var runes []rune
	for _, def := range defs {
		if !utf8.ValidString(def) {
			return nil, errors.New("asn1: invalid UTF-8 in permitted alphabet " + strconv.Quote(def))
		}
		if lo, hi, ok := parseRange(def); ok {
			if lo > hi {
				return nil, errors.New("asn1: invalid permitted alphabet range " + strconv.Quote(def))
			}
			for r := lo; r <= hi; r++ {
				runes = append(runes, r)
			}
			continue
		}
		runes = append(runes, []rune(def)...)
	}
	slices.Sort(runes)
	return &PermittedAlphabet{runes: slices.Compact(runes)}, nil
}

// MustPermittedAlphabet is like [NewPermittedAlphabet] but panics if a definition is
// invalid. It simplifies safe initialization of global variables.
func MustPermittedAlphabet(defs ...string) *PermittedAlphabet {
	a, err := NewPermittedAlphabet(defs...)
	if err != nil {
		panic(err)
	}
	return a
}

// parseRange parses definitions of the form "x..y".
func parseRange(def string) (lo, hi rune, ok bool) {
	lo, n := utf8.DecodeRuneInString(def)
	if n == 0 || !strings.HasPrefix(def[n:], "..") {
		return 0, 0, false
	}
	rest := def[n+2:]
	hi, m := utf8.DecodeRuneInString(rest)
	if m == 0 || m != len(rest) {
		return 0, 0, false
	}
	return lo, hi, true
}

// Contains reports whether r is part of a.
func (a *PermittedAlphabet) Contains(r rune) bool {
	if a == nil {
		return false
	}
	_, found := slices.BinarySearch(a.runes, r)
	return found
}

// Len returns the number of characters in a.
func (a *PermittedAlphabet) Len() int {
	if a == nil {
		return 0
	}
	return len(a.runes)
}

// Runes returns the characters of a in ascending order. The returned slice
// must not be modified.
func (a *PermittedAlphabet) Runes() []rune {
	if a == nil {
		return nil
	}
	return a.runes
}

// String returns the characters of a as a quoted string, collapsing runs of
// consecutive characters into ranges.
func (a *PermittedAlphabet) String() string {
	if a == nil {
		return `("")`
	}
	var parts []string
	for i := 0; i < len(a.runes); {
		j := i
		for j+1 < len(a.runes) && a.runes[j+1] == a.runes[j]+1 {
			j++
		}
		if j-i >= 2 {
			parts = append(parts, strconv.QuoteRune(a.runes[i])+".."+strconv.QuoteRune(a.runes[j]))
		} else {
			for k := i; k <= j; k++ {
				parts = append(parts, strconv.QuoteRune(a.runes[k]))
			}
		}
		i = j + 1
	}
	return "(" + strings.Join(parts, " | ") + ")"
}
