// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"slices"
	"strconv"

	"github.com/asn1kit/asn1/internal/params"
)

// TypeKind classifies a [TypeInfo].
type TypeKind uint8

const (
	TypeSimple     TypeKind = iota // a type without components
	TypeSequence                   // SEQUENCE
	TypeSet                        // SET
	TypeChoice                     // CHOICE
	TypeSequenceOf                 // SEQUENCE OF
	TypeSetOf                      // SET OF
	TypeAny                        // open type, any tag
)

// TypeInfo is the static descriptor of an ASN.1 type. It records the tag of
// the type, the set of tags a value of the type may begin with, the
// constraints of the type and, for SEQUENCE, SET and CHOICE types, the
// descriptors of the components.
//
// A TypeInfo is immutable once built. Descriptors of structured types must be
// created with [NewSequenceType], [NewSetType] or [NewChoiceType], which
// validate the components.
type TypeInfo struct {
	Identifier  string
	Kind        TypeKind
	Tag         Tag     // tag of the type; for CHOICE types the smallest tag of its alternatives
	Constructed bool    // canonical form of the encoding
	TagTree     TagTree // all tags a value of this type can begin with
	Constraints Constraints
	Fields      []Field // components or alternatives

	tagIndex map[Tag]int // SET and CHOICE: leaf tag to field index
}

// Presence describes whether a component must be present in a value.
type Presence uint8

const (
	Required Presence = iota
	Optional          // OPTIONAL
	Default           // DEFAULT; absent means the default value
)

// String returns the ASN.1 keyword of p or "" for Required.
func (p Presence) String() string {
	switch p {
	case Optional:
		return "OPTIONAL"
	case Default:
		return "DEFAULT"
	case Required:
		return ""
	}
	return "Presence(" + strconv.Itoa(int(p)) + ")"
}

// Field describes a component of a SEQUENCE or SET type or an alternative of
// a CHOICE type.
type Field struct {
	Index       int     // position within the surrounding type
	Name        string  // component identifier
	Tag         Tag     // tag on the wire; the outer tag if Explicit is set
	TagTree     TagTree // tags a present component can begin with
	Explicit    bool    // the Tag wraps the encoding of Type
	Presence    Presence
	Extension   bool        // the component is an extension addition
	Constraints Constraints // additional constraints on top of Type.Constraints
	Type        *TypeInfo

	open bool // untagged open type, matches any tag
}

// NewField returns the descriptor of a component called name of type typ.
// params is a comma separated list of the following parts:
//
//	tag:x       specifies the ASN.1 tag number; implies ASN.1 CONTEXT SPECIFIC
//	application specifies that an APPLICATION tag is used
//	private     specifies that a PRIVATE tag is used
//	universal   specifies that a UNIVERSAL tag is used
//	explicit    marks the tag as EXPLICIT
//	optional    marks the component as OPTIONAL
//	default     marks the component as having a DEFAULT value
//	extension   marks the component as an extension addition
//
// Without "explicit" a tag replaces the tag of typ (IMPLICIT tagging). Tagging
// a CHOICE type or an open type is always explicit. NewField panics if params
// is malformed; field descriptors are meant to be built during package
// initialization.
func NewField(name string, typ *TypeInfo, parameters string) Field {
	if typ == nil {
		panic(&TypeError{Identifier: name, Msg: "field without type"})
	}
	p, err := params.Parse(parameters)
	if err != nil {
		panic(&TypeError{Identifier: name, Msg: err.Error()})
	}
	f := Field{
		Index:   -1,
		Name:    name,
		Tag:     typ.Tag,
		TagTree: typ.TagTree,
		Type:    typ,
		open:    typ.Kind == TypeAny,
	}
	if p.HasTag {
		f.Tag = Tag{Class(p.Class), p.Number}
		f.TagTree = Leaf(f.Tag)
		f.Explicit = p.Explicit || typ.Kind == TypeChoice || typ.Kind == TypeAny
		f.open = false
	}
	switch {
	case p.Optional:
		f.Presence = Optional
	case p.Default:
		f.Presence = Default
	}
	f.Extension = p.Extension
	return f
}

// WithConstraints returns a copy of f with additional constraints.
func (f Field) WithConstraints(cs ...Constraint) Field {
	f.Constraints = slices.Concat(f.Constraints, cs)
	return f
}

// IsOptional reports whether f may be absent from a value. This is the case
// for OPTIONAL and DEFAULT components as well as for extension additions.
func (f Field) IsOptional() bool {
	return f.Presence != Required || f.Extension
}

// Matches reports whether a data value with tag t can be the encoding of f.
func (f Field) Matches(t Tag) bool {
	return f.open || f.TagTree.Contains(t)
}

// EffectiveConstraints returns the constraints of the type of f together with
// the constraints of f itself.
func (f Field) EffectiveConstraints() Constraints {
	if f.Type == nil {
		return f.Constraints
	}
	if len(f.Constraints) == 0 {
		return f.Type.Constraints
	}
	return slices.Concat(f.Type.Constraints, f.Constraints)
}

// ValueTag returns the tag the value of f is encoded with: the tag of the
// field for implicit tagging or the tag of its type for explicit tagging.
func (f Field) ValueTag() Tag {
	if f.Explicit && f.Type != nil {
		return f.Type.Tag
	}
	return f.Tag
}

// String returns the identifier of ti.
func (ti *TypeInfo) String() string {
	return ti.Identifier
}

// Extensible reports whether ti carries the extension marker.
func (ti *TypeInfo) Extensible() bool {
	return ti.Constraints.Extensible()
}

// FieldForTag returns the index of the member of a SET type or the alternative
// of a CHOICE type whose tag tree contains t.
func (ti *TypeInfo) FieldForTag(t Tag) (int, bool) {
	i, ok := ti.tagIndex[t]
	return i, ok
}

// AllOptional reports whether every component of ti may be absent.
func (ti *TypeInfo) AllOptional() bool {
	for _, f := range ti.Fields {
		if !f.IsOptional() {
			return false
		}
	}
	return true
}

// Tagged returns a copy of ti that uses the tag t instead of the tag of ti.
// This corresponds to an IMPLICIT tag in a type assignment such as
//
//	Message ::= [APPLICATION 1] IMPLICIT SEQUENCE { ... }
//
// Tagged panics if ti is a CHOICE type or an open type, as those can only be
// tagged explicitly.
func (ti *TypeInfo) Tagged(t Tag) *TypeInfo {
	if ti.Kind == TypeChoice || ti.Kind == TypeAny {
		panic(&TypeError{Identifier: ti.Identifier, Msg: "CHOICE and open types cannot be tagged implicitly"})
	}
	c := *ti
	c.Tag = t
	c.TagTree = Leaf(t)
	return &c
}

// WithConstraints returns a copy of ti with additional constraints. It is used
// to define constrained types such as
//
//	Port ::= INTEGER (0..65535)
func (ti *TypeInfo) WithConstraints(cs ...Constraint) *TypeInfo {
	c := *ti
	c.Constraints = slices.Concat(ti.Constraints, cs)
	return &c
}

// Named returns a copy of ti with the given identifier.
func (ti *TypeInfo) Named(identifier string) *TypeInfo {
	c := *ti
	c.Identifier = identifier
	return &c
}

// NewSimpleType returns the descriptor of a type without components that uses
// the primitive encoding.
func NewSimpleType(identifier string, tag Tag, cs ...Constraint) *TypeInfo {
	return &TypeInfo{
		Identifier:  identifier,
		Kind:        TypeSimple,
		Tag:         tag,
		TagTree:     Leaf(tag),
		Constraints: cs,
	}
}

// Must is a helper that wraps a call to a function returning (*TypeInfo, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as
//
//	var t = asn1.Must(asn1.NewChoiceType("Value", false, ...))
func Must(ti *TypeInfo, err error) *TypeInfo {
	if err != nil {
		panic(err)
	}
	return ti
}

// NewSequenceType returns the descriptor of a SEQUENCE type with the given
// components. The components must be listed in declaration order, extension
// additions last. In each run of OPTIONAL or DEFAULT components the tags of
// the run and of the component following it must be distinct, so that a
// decoder can tell which components are present.
func NewSequenceType(identifier string, extensible bool, fields ...Field) (*TypeInfo, error) {
	ti := newStructured(identifier, TypeSequence, extensible, fields)
	if err := ti.checkFields(); err != nil {
		return nil, err
	}
	fs := ti.Fields
	for i, f := range fs {
		if !f.IsOptional() {
			continue
		}
		for j := i + 1; j < len(fs); j++ {
			if t, ok := overlap(f, fs[j]); ok {
				return nil, &TypeError{identifier, "components " + f.Name + " and " + fs[j].Name + " share tag " + t.String()}
			}
			if !fs[j].IsOptional() {
				break
			}
		}
	}
	return ti, nil
}

// NewSetType returns the descriptor of a SET type with the given components.
// All tags of all components must be distinct.
func NewSetType(identifier string, extensible bool, fields ...Field) (*TypeInfo, error) {
	ti := newStructured(identifier, TypeSet, extensible, fields)
	ti.Tag = Universal(TagSet)
	ti.TagTree = Leaf(ti.Tag)
	if err := ti.checkFields(); err != nil {
		return nil, err
	}
	if err := ti.buildIndex(); err != nil {
		return nil, err
	}
	return ti, nil
}

// NewChoiceType returns the descriptor of a CHOICE type with the given
// alternatives. All tags of all alternatives must be distinct. A CHOICE type
// has no tag of its own: its tag tree consists of the trees of its
// alternatives.
func NewChoiceType(identifier string, extensible bool, alternatives ...Field) (*TypeInfo, error) {
	ti := newStructured(identifier, TypeChoice, extensible, alternatives)
	ti.Constructed = false
	if err := ti.checkFields(); err != nil {
		return nil, err
	}
	trees := make([]TagTree, len(ti.Fields))
	for i, f := range ti.Fields {
		if f.Presence != Required {
			return nil, &TypeError{identifier, "alternative " + f.Name + " cannot be " + f.Presence.String()}
		}
		if f.open {
			return nil, &TypeError{identifier, "alternative " + f.Name + " is an untagged open type"}
		}
		trees[i] = f.TagTree
	}
	ti.TagTree = ChoiceTree(trees...)
	ti.Tag = ti.TagTree.Smallest()
	if err := ti.buildIndex(); err != nil {
		return nil, err
	}
	return ti, nil
}

// newStructured creates a constructed TypeInfo and assigns field indices.
func newStructured(identifier string, kind TypeKind, extensible bool, fields []Field) *TypeInfo {
	ti := &TypeInfo{
		Identifier:  identifier,
		Kind:        kind,
		Tag:         Universal(TagSequence),
		Constructed: true,
		Fields:      slices.Clone(fields),
	}
	ti.TagTree = Leaf(ti.Tag)
	if extensible {
		ti.Constraints = Constraints{Extensibility}
	}
	for i := range ti.Fields {
		ti.Fields[i].Index = i
	}
	return ti
}

// checkFields validates names and the placement of extension additions.
func (ti *TypeInfo) checkFields() error {
	names := make(map[string]struct{}, len(ti.Fields))
	inExtension := false
	for _, f := range ti.Fields {
		if f.Name == "" {
			return &TypeError{ti.Identifier, "component without name"}
		}
		if _, dup := names[f.Name]; dup {
			return &TypeError{ti.Identifier, "duplicate component " + f.Name}
		}
		names[f.Name] = struct{}{}
		if f.Extension && !ti.Extensible() {
			return &TypeError{ti.Identifier, "extension addition " + f.Name + " in non-extensible type"}
		}
		if inExtension && !f.Extension {
			return &TypeError{ti.Identifier, "root component " + f.Name + " after extension additions"}
		}
		inExtension = inExtension || f.Extension
	}
	return nil
}

// buildIndex verifies that all leaves of all fields are distinct and records
// the field index of each leaf.
func (ti *TypeInfo) buildIndex() error {
	ti.tagIndex = make(map[Tag]int)
	var all []Tag
	for i, f := range ti.Fields {
		if f.open {
			return &TypeError{ti.Identifier, "component " + f.Name + " is an untagged open type"}
		}
		for _, t := range f.TagTree.Leaves() {
			all = append(all, t)
			if _, dup := ti.tagIndex[t]; !dup {
				ti.tagIndex[t] = i
			}
		}
	}
	if dup, _, ok := firstDuplicate(all); !ok {
		return &TypeError{ti.Identifier, "tag " + dup.String() + " is not unique"}
	}
	return nil
}

// overlap returns a tag that occurs in the tag trees of both a and b.
func overlap(a, b Field) (Tag, bool) {
	if a.open || b.open {
		return Tag{}, true
	}
	for _, t := range a.TagTree.Leaves() {
		if b.TagTree.Contains(t) {
			return t, true
		}
	}
	return Tag{}, false
}
