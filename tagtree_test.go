// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"slices"
	"testing"
)

func TestTag_Compare(t *testing.T) {
	tests := map[string]struct {
		a, b Tag
		want int
	}{
		"Equal":          {Context(1), Context(1), 0},
		"SameClass":      {Context(1), Context(2), -1},
		"ClassFirst":     {Universal(30), Application(0), -1},
		"PrivateLast":    {Private(0), Context(100), 1},
		"UniversalOrder": {Universal(TagInteger), Universal(TagBoolean), 1},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTagTree_Leaves(t *testing.T) {
	nested := ChoiceTree(
		Leaf(Context(0)),
		ChoiceTree(Leaf(Context(1)), Leaf(Universal(TagInteger))),
		Leaf(Application(3)),
	)
	want := []Tag{Context(0), Context(1), Universal(TagInteger), Application(3)}
	if got := nested.Leaves(); !slices.Equal(got, want) {
		t.Errorf("Leaves() = %v, want %v", got, want)
	}
	if !nested.Contains(Universal(TagInteger)) {
		t.Errorf("Contains(%s) = false, want true", Universal(TagInteger))
	}
	if nested.Contains(Context(2)) {
		t.Errorf("Contains(%s) = true, want false", Context(2))
	}
	if got := nested.Smallest(); got != Universal(TagInteger) {
		t.Errorf("Smallest() = %s, want %s", got, Universal(TagInteger))
	}
	if got := nested.String(); got != "([0] | ([1] | [UNIVERSAL 2]) | [APPLICATION 3])" {
		t.Errorf("String() = %q", got)
	}
}

func TestTagTree_IsUnique(t *testing.T) {
	tests := map[string]struct {
		tree TagTree
		want bool
	}{
		"Leaf":  {Leaf(Context(0)), true},
		"Empty": {ChoiceTree(), true},
		"Flat":  {ChoiceTree(Leaf(Context(0)), Leaf(Context(1))), true},
		"FlatDuplicate": {
			ChoiceTree(Leaf(Context(0)), Leaf(Context(0))), false,
		},
		"NestedDuplicate": {
			ChoiceTree(Leaf(Context(0)), ChoiceTree(Leaf(Context(1)), Leaf(Context(0)))), false,
		},
		"SameNumberDifferentClass": {
			ChoiceTree(Leaf(Context(0)), Leaf(Application(0)), Leaf(Private(0))), true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.tree.IsUnique(); got != tt.want {
				t.Errorf("IsUnique() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagTree_Empty(t *testing.T) {
	var tt TagTree
	if tt.IsLeaf() {
		t.Errorf("zero TagTree is a leaf")
	}
	if len(tt.Leaves()) != 0 {
		t.Errorf("zero TagTree has leaves %v", tt.Leaves())
	}
	if tt.Contains(Tag{}) {
		t.Errorf("zero TagTree contains %s", Tag{})
	}
	if got := tt.Smallest(); got != (Tag{}) {
		t.Errorf("Smallest() = %s, want %s", got, Tag{})
	}
}
