// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// The helpers in this file are written against the [Encoder] and [Decoder]
// interfaces only. They work with every codec.

// Pointer is satisfied by pointer types *T that implement [Decodable]. It is
// used to instantiate generic helpers with value types whose DecodeASN1 method
// has a pointer receiver.
type Pointer[T any] interface {
	*T
	Decodable
}

// Ordered is implemented by value types with a total order. Elements of a
// [SetOf] must be ordered.
type Ordered[T any] interface {
	Encodable
	Compare(T) int
}

//region Fields

// DecodeFieldValue decodes the value of the component f into v. If f is tagged
// explicitly the outer tag is removed first. The constraints of the type of f
// and of f itself are passed on to v.
func DecodeFieldValue(d Decoder, f Field, v Decodable) error {
	cs := f.EffectiveConstraints()
	if f.Explicit {
		return d.DecodeExplicitPrefix(f.Tag, func(d Decoder) error {
			return v.DecodeASN1(d, f.Type.Tag, cs)
		})
	}
	return v.DecodeASN1(d, f.Tag, cs)
}

// EncodeFieldValue is the dual of [DecodeFieldValue].
func EncodeFieldValue(e Encoder, f Field, v Encodable) error {
	cs := f.EffectiveConstraints()
	if f.Explicit {
		return e.EncodeExplicitPrefix(f.Tag, func(e Encoder) error {
			return v.EncodeASN1(e, f.Type.Tag, cs)
		})
	}
	return v.EncodeASN1(e, f.Tag, cs)
}

// DecodeRequired decodes the required component f of a SEQUENCE into v.
func DecodeRequired(d Decoder, f Field, v Decodable) error {
	return d.DecodeField(f, func(d Decoder) error {
		return DecodeFieldValue(d, f, v)
	})
}

// EncodeRequired encodes the required component f of a SEQUENCE or SET.
func EncodeRequired(e Encoder, f Field, v Encodable) error {
	return e.EncodeField(f, func(e Encoder) error {
		return EncodeFieldValue(e, f, v)
	})
}

// DecodeOptional decodes the OPTIONAL component or extension addition f. It
// returns nil if the component is absent.
func DecodeOptional[T any, P Pointer[T]](d Decoder, f Field) (*T, error) {
	var v *T
	_, err := decodeOptional(d, f, func(d Decoder) error {
		v = new(T)
		return DecodeFieldValue(d, f, P(v))
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeOptional encodes the OPTIONAL component or extension addition f. The
// component is omitted if v is nil.
func EncodeOptional[T Encodable](e Encoder, f Field, v *T) error {
	fn := func(e Encoder) error {
		return EncodeFieldValue(e, f, *v)
	}
	if f.Extension {
		return e.EncodeExtensionAddition(f, v != nil, fn)
	}
	return e.EncodeOptional(f, v != nil, fn)
}

// DecodeDefault decodes the DEFAULT component f into v. If the component is
// absent, v is set to def.
func DecodeDefault[T any, P Pointer[T]](d Decoder, f Field, v *T, def T) error {
	present, err := decodeOptional(d, f, func(d Decoder) error {
		return DecodeFieldValue(d, f, P(v))
	})
	if err == nil && !present {
		*v = def
	}
	return err
}

// EncodeDefault encodes the DEFAULT component f. The component is omitted if
// isDefault is true.
func EncodeDefault(e Encoder, f Field, v Encodable, isDefault bool) error {
	return e.EncodeDefault(f, isDefault, func(e Encoder) error {
		return EncodeFieldValue(e, f, v)
	})
}

func decodeOptional(d Decoder, f Field, fn func(Decoder) error) (bool, error) {
	if f.Extension {
		return d.DecodeExtensionAddition(f, fn)
	}
	return d.DecodeOptional(f, fn)
}

//endregion

//region Choice

// DecodeAlternative decodes the value of the CHOICE alternative f into v. It is
// meant to be called from the callback of [Decoder.DecodeChoice].
func DecodeAlternative(d Decoder, f Field, v Decodable) error {
	return WithField(DecodeFieldValue(d, f, v), f.Name)
}

// EncodeAlternative encodes v as the alternative f of the CHOICE ti.
func EncodeAlternative(e Encoder, ti *TypeInfo, f Field, v Encodable) error {
	return e.EncodeChoice(ti, f.Index, func(e Encoder) error {
		return EncodeFieldValue(e, f, v)
	})
}

//endregion

//region SEQUENCE OF, SET OF

// DecodeSequenceOf decodes a SEQUENCE OF with elements of type T. Elements are
// decoded with the tag and constraints of their type descriptor.
func DecodeSequenceOf[T any, P Pointer[T]](d Decoder, tag Tag, cs Constraints) ([]T, error) {
	var vs []T
	err := d.DecodeSequenceOf(tag, cs, func(d Decoder) error {
		var v T
		if err := decodeElement(d, P(&v)); err != nil {
			return err
		}
		vs = append(vs, v)
		return nil
	})
	return vs, err
}

// EncodeSequenceOf encodes vs as a SEQUENCE OF.
func EncodeSequenceOf[T Encodable](e Encoder, tag Tag, cs Constraints, vs []T) error {
	return e.EncodeSequenceOf(tag, cs, len(vs), func(i int, e Encoder) error {
		return encodeElement(e, vs[i])
	})
}

// DecodeSetOf decodes a SET OF with elements of type T. ASN.1 does not define
// an order for the elements of a SET OF, so the result is sorted by compare
// and duplicate elements are merged.
func DecodeSetOf[T any, P Pointer[T]](d Decoder, tag Tag, cs Constraints, compare func(a, b T) int) ([]T, error) {
	var vs []T
	err := d.DecodeSetOf(tag, cs, func(d Decoder) error {
		var v T
		if err := decodeElement(d, P(&v)); err != nil {
			return err
		}
		vs = append(vs, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(vs, compare)
	return slices.CompactFunc(vs, func(a, b T) bool { return compare(a, b) == 0 }), nil
}

// EncodeSetOf encodes vs as a SET OF. Canonical encoding rules sort the
// elements by their encoding.
func EncodeSetOf[T Encodable](e Encoder, tag Tag, cs Constraints, vs []T) error {
	return e.EncodeSetOf(tag, cs, len(vs), func(i int, e Encoder) error {
		return encodeElement(e, vs[i])
	})
}

func decodeElement(d Decoder, v Decodable) error {
	ti := v.ASN1Type()
	return v.DecodeASN1(d, ti.Tag, ti.Constraints)
}

func encodeElement(e Encoder, v Encodable) error {
	ti := v.ASN1Type()
	return v.EncodeASN1(e, ti.Tag, ti.Constraints)
}

// SequenceOf implements an unconstrained SEQUENCE OF T. The second type
// parameter must be *T.
type SequenceOf[T Encodable, P Pointer[T]] []T

func (SequenceOf[T, P]) ASN1Type() *TypeInfo { return SequenceOfType }

func (s SequenceOf[T, P]) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return EncodeSequenceOf(e, tag, cs, []T(s))
}

func (s *SequenceOf[T, P]) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	vs, err := DecodeSequenceOf[T, P](d, tag, cs)
	if err != nil {
		return err
	}
	*s = vs
	return nil
}

// SetOf implements an unconstrained SET OF T. A decoded SetOf is sorted and
// free of duplicates.
type SetOf[T Ordered[T], P Pointer[T]] []T

func (SetOf[T, P]) ASN1Type() *TypeInfo { return SetOfType }

func (s SetOf[T, P]) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	return EncodeSetOf(e, tag, cs, []T(s))
}

func (s *SetOf[T, P]) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	vs, err := DecodeSetOf[T, P](d, tag, cs, func(a, b T) int { return a.Compare(b) })
	if err != nil {
		return err
	}
	*s = vs
	return nil
}

//endregion

//region Integers

// DecodeInt decodes an INTEGER into the Go integer type T. If the value does
// not fit into T, an [ErrOverflow] error is returned.
func DecodeInt[T constraints.Integer](d Decoder, tag Tag, cs Constraints) (T, error) {
	b, err := d.DecodeInteger(tag, cs)
	if err != nil {
		return 0, err
	}
	switch {
	case b.IsInt64():
		i := b.Int64()
		if t := T(i); int64(t) == i && (t < 0) == (i < 0) {
			return t, nil
		}
	case b.IsUint64():
		u := b.Uint64()
		if t := T(u); uint64(t) == u && t >= 0 {
			return t, nil
		}
	}
	return 0, &DecodeError{Codec: d.Codec(), Tag: tag, Offset: -1, Err: ErrOverflow}
}

//endregion
