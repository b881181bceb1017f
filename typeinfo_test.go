// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"testing"
)

func TestNewField(t *testing.T) {
	tests := map[string]struct {
		typ      *TypeInfo
		params   string
		tag      Tag
		explicit bool
		presence Presence
	}{
		"Untagged":       {IntegerType, "", Universal(TagInteger), false, Required},
		"Implicit":       {IntegerType, "tag:3", Context(3), false, Required},
		"Explicit":       {IntegerType, "tag:3,explicit,optional", Context(3), true, Optional},
		"Application":    {UTF8StringType, "application,tag:7,default", Application(7), false, Default},
		"Private":        {BooleanType, "tag:1,private", Private(1), false, Required},
		"ChoiceExplicit": {shapeType, "tag:0", Context(0), true, Required},
		"AnyExplicit":    {AnyType, "tag:5", Context(5), true, Required},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := NewField("f", tt.typ, tt.params)
			if f.Tag != tt.tag || f.Explicit != tt.explicit || f.Presence != tt.presence {
				t.Errorf("NewField(%q) = {Tag: %s, Explicit: %v, Presence: %v}, want {%s, %v, %v}",
					tt.params, f.Tag, f.Explicit, f.Presence, tt.tag, tt.explicit, tt.presence)
			}
			if !f.Matches(tt.tag) {
				t.Errorf("Matches(%s) = false, want true", tt.tag)
			}
		})
	}
}

func TestNewField_Invalid(t *testing.T) {
	for _, params := range []string{"tag:x", "explicit", "optional,default", "application", "bogus"} {
		t.Run(params, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrInvalidType) {
					t.Errorf("NewField(%q) panicked with %v, want TypeError", params, r)
				}
			}()
			NewField("f", IntegerType, params)
		})
	}
}

var shapeType = Must(NewChoiceType("Shape", true,
	NewField("circle", IntegerType, "tag:0"),
	NewField("square", IntegerType, "tag:1"),
))

func TestNewSequenceType(t *testing.T) {
	tests := map[string]struct {
		extensible bool
		fields     []Field
		wantErr    bool
	}{
		"Valid": {false, []Field{
			NewField("a", IntegerType, ""),
			NewField("b", IntegerType, "tag:0,optional"),
			NewField("c", IntegerType, ""),
		}, false},
		"RepeatedRequired": {false, []Field{
			NewField("a", IntegerType, ""),
			NewField("b", IntegerType, ""),
		}, false},
		"AmbiguousOptional": {false, []Field{
			NewField("a", IntegerType, "optional"),
			NewField("b", IntegerType, ""),
		}, true},
		"AmbiguousRun": {false, []Field{
			NewField("a", IntegerType, "tag:0,optional"),
			NewField("b", IntegerType, "tag:1,optional"),
			NewField("c", IntegerType, "tag:0"),
		}, true},
		"AmbiguousChoice": {false, []Field{
			NewField("a", IntegerType, "tag:1,optional"),
			NewField("b", shapeType, ""),
		}, true},
		"OpenAfterOptional": {false, []Field{
			NewField("a", IntegerType, "optional"),
			NewField("b", AnyType, ""),
		}, true},
		"Extension": {true, []Field{
			NewField("a", IntegerType, ""),
			NewField("b", IntegerType, "tag:0,extension"),
		}, false},
		"ExtensionNotExtensible": {false, []Field{
			NewField("a", IntegerType, ""),
			NewField("b", IntegerType, "tag:0,extension"),
		}, true},
		"RootAfterExtension": {true, []Field{
			NewField("a", IntegerType, "tag:0,extension"),
			NewField("b", IntegerType, "tag:1"),
		}, true},
		"DuplicateName": {false, []Field{
			NewField("a", IntegerType, ""),
			NewField("a", BooleanType, ""),
		}, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ti, err := NewSequenceType("T", tt.extensible, tt.fields...)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidType) {
					t.Errorf("NewSequenceType() error = %v, want ErrInvalidType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSequenceType() error = %v", err)
			}
			if ti.Tag != Universal(TagSequence) || !ti.Constructed {
				t.Errorf("NewSequenceType() = {Tag: %s, Constructed: %v}", ti.Tag, ti.Constructed)
			}
			for i, f := range ti.Fields {
				if f.Index != i {
					t.Errorf("Fields[%d].Index = %d", i, f.Index)
				}
			}
		})
	}
}

func TestNewSetType(t *testing.T) {
	ti, err := NewSetType("S", false,
		NewField("name", IA5StringType, "tag:2"),
		NewField("shape", shapeType, ""),
		NewField("flag", BooleanType, "optional"),
	)
	if err != nil {
		t.Fatalf("NewSetType() error = %v", err)
	}
	if ti.Tag != Universal(TagSet) {
		t.Errorf("Tag = %s, want %s", ti.Tag, Universal(TagSet))
	}
	for tag, want := range map[Tag]int{Context(2): 0, Context(0): 1, Context(1): 1, Universal(TagBoolean): 2} {
		if i, ok := ti.FieldForTag(tag); !ok || i != want {
			t.Errorf("FieldForTag(%s) = %d, %v; want %d", tag, i, ok, want)
		}
	}
	if _, ok := ti.FieldForTag(Context(3)); ok {
		t.Errorf("FieldForTag([3]) found a field")
	}

	_, err = NewSetType("S", false,
		NewField("a", IntegerType, "tag:0"),
		NewField("b", shapeType, ""),
	)
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("NewSetType() with duplicate tags error = %v, want ErrInvalidType", err)
	}
	_, err = NewSetType("S", false, NewField("a", AnyType, ""))
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("NewSetType() with open type error = %v, want ErrInvalidType", err)
	}
}

func TestNewChoiceType(t *testing.T) {
	nested := Must(NewChoiceType("Nested", false,
		NewField("shape", shapeType, ""),
		NewField("name", UTF8StringType, ""),
		NewField("id", IntegerType, "application,tag:4"),
	))
	want := []Tag{Context(0), Context(1), Universal(TagUTF8String), Application(4)}
	got := nested.TagTree.Leaves()
	if len(got) != len(want) {
		t.Fatalf("Leaves() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Leaves()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if nested.Tag != Universal(TagUTF8String) {
		t.Errorf("Tag = %s, want the smallest alternative tag", nested.Tag)
	}
	if i, ok := nested.FieldForTag(Context(1)); !ok || i != 0 {
		t.Errorf("FieldForTag([1]) = %d, %v; want 0", i, ok)
	}

	tests := map[string][]Field{
		"Duplicate": {
			NewField("a", shapeType, ""),
			NewField("b", IntegerType, "tag:1"),
		},
		"Optional": {
			NewField("a", IntegerType, "optional"),
		},
		"Open": {
			NewField("a", IntegerType, ""),
			NewField("b", AnyType, ""),
		},
	}
	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewChoiceType("C", false, fields...); !errors.Is(err, ErrInvalidType) {
				t.Errorf("NewChoiceType() error = %v, want ErrInvalidType", err)
			}
		})
	}
}

func TestTypeInfo_Tagged(t *testing.T) {
	msg := IntegerType.Tagged(Application(1))
	if msg.Tag != Application(1) || !msg.TagTree.Contains(Application(1)) {
		t.Errorf("Tagged() = {Tag: %s, TagTree: %s}", msg.Tag, msg.TagTree)
	}
	if IntegerType.Tag != Universal(TagInteger) {
		t.Errorf("Tagged() modified the original descriptor")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Tagged() on a CHOICE type did not panic")
		}
	}()
	shapeType.Tagged(Context(9))
}

func TestTypeInfo_Constraints(t *testing.T) {
	port := IntegerType.WithConstraints(Value(Range[int64](0, 65535))).Named("Port")
	if port.String() != "Port" || len(port.Constraints) != 1 || len(IntegerType.Constraints) != 0 {
		t.Errorf("WithConstraints().Named() = %s with %v", port, port.Constraints)
	}
	f := NewField("port", port, "tag:0").WithConstraints(Value(AtLeast[int64](1024)))
	if got := f.EffectiveConstraints().Value(); got != Range[int64](1024, 65535) {
		t.Errorf("EffectiveConstraints().Value() = %s, want (1024..65535)", got)
	}
	if !shapeType.Extensible() || IntegerType.Extensible() {
		t.Errorf("Extensible() does not reflect the extension marker")
	}
}

func TestTypeInfo_AllOptional(t *testing.T) {
	ti := Must(NewSequenceType("T", true,
		NewField("a", IntegerType, "optional"),
		NewField("b", BooleanType, "default"),
		NewField("c", UTF8StringType, "tag:0,extension"),
	))
	if !ti.AllOptional() {
		t.Errorf("AllOptional() = false, want true")
	}
	if ti.Fields[2].Presence != Required || !ti.Fields[2].IsOptional() {
		t.Errorf("extension addition is not optional")
	}
}

func TestPresence_String(t *testing.T) {
	for p, want := range map[Presence]string{Required: "", Optional: "OPTIONAL", Default: "DEFAULT", 7: "Presence(7)"} {
		if got := p.String(); got != want {
			t.Errorf("Presence(%d).String() = %q, want %q", p, got, want)
		}
	}
}
