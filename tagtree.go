// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"slices"
	"strings"
)

// A TagTree describes the set of tags a value of some type may begin with. For
// most types this is a single tag, a leaf. An untagged CHOICE type may begin
// with the tag of any of its alternatives, so its tag tree is a choice node
// whose children are the trees of the alternatives. Choice nodes can nest
// arbitrarily when alternatives are themselves untagged CHOICE types.
//
// The zero value is an empty choice node that matches no tag.
type TagTree struct {
	leaf     bool
	tag      Tag
	children []TagTree
}

// Leaf returns a tag tree consisting of the single tag t.
func Leaf(t Tag) TagTree {
	return TagTree{leaf: true, tag: t}
}

// ChoiceTree returns a tag tree that matches any tag of the given trees. The
// order of the trees is preserved.
func ChoiceTree(trees ...TagTree) TagTree {
	return TagTree{children: slices.Clone(trees)}
}

// IsLeaf reports whether tt consists of a single tag.
func (tt TagTree) IsLeaf() bool {
	return tt.leaf
}

// Tag returns the tag of a leaf. For a choice node Tag returns the smallest
// tag within the tree.
func (tt TagTree) Tag() Tag {
	if tt.leaf {
		return tt.tag
	}
	return tt.Smallest()
}

// Children returns the subtrees of a choice node. The result is nil for a leaf.
func (tt TagTree) Children() []TagTree {
	return tt.children
}

// Leaves returns all tags in tt in declaration order, flattening nested choice
// nodes.
func (tt TagTree) Leaves() []Tag {
	var leaves []Tag
	return tt.appendLeaves(leaves)
}

func (tt TagTree) appendLeaves(dst []Tag) []Tag {
	if tt.leaf {
		return append(dst, tt.tag)
	}
	for _, c := range tt.children {
		dst = c.appendLeaves(dst)
	}
	return dst
}

// IsUnique reports whether no tag occurs more than once in tt.
func (tt TagTree) IsUnique() bool {
	_, _, ok := firstDuplicate(tt.Leaves())
	return ok
}

// Contains reports whether t is one of the leaves of tt.
func (tt TagTree) Contains(t Tag) bool {
	if tt.leaf {
		return tt.tag == t
	}
	for _, c := range tt.children {
		if c.Contains(t) {
			return true
		}
	}
	return false
}

// Smallest returns the smallest leaf of tt according to [Tag.Compare]. If tt
// has no leaves, the zero Tag is returned.
func (tt TagTree) Smallest() Tag {
	leaves := tt.Leaves()
	if len(leaves) == 0 {
		return Tag{}
	}
	return slices.MinFunc(leaves, Tag.Compare)
}

// String returns a readable representation of tt, for example
// "([0] | [1] | [UNIVERSAL 2])".
func (tt TagTree) String() string {
	if tt.leaf {
		return tt.tag.String()
	}
	parts := make([]string, len(tt.children))
	for i, c := range tt.children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// firstDuplicate returns the first tag that occurs twice in tags, together
// with the index of its second occurrence. ok is true if there are no
// duplicates.
func firstDuplicate(tags []Tag) (dup Tag, index int, ok bool) {
	seen := make(map[Tag]struct{}, len(tags))
	for i, t := range tags {
		if _, found := seen[t]; found {
			return t, i, false
		}
		seen[t] = struct{}{}
	}
	return Tag{}, -1, true
}
