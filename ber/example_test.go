// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber_test

import (
	"errors"
	"fmt"

	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/ber"
	"github.com/asn1kit/asn1/der"
)

// Person ::= SEQUENCE {
//     name  UTF8String,
//     age   [0] INTEGER OPTIONAL }
type Person struct {
	Name asn1.UTF8String
	Age  *asn1.Int64
}

var personType = asn1.Must(asn1.NewSequenceType("Person", false,
	asn1.NewField("name", asn1.UTF8StringType, ""),
	asn1.NewField("age", asn1.IntegerType, "tag:0,optional"),
))

func (Person) ASN1Type() *asn1.TypeInfo { return personType }

func (p Person) EncodeASN1(e asn1.Encoder, tag asn1.Tag, _ asn1.Constraints) error {
	return e.EncodeSequence(tag, personType, func(e asn1.Encoder) error {
		if err := asn1.EncodeRequired(e, personType.Fields[0], p.Name); err != nil {
			return err
		}
		return asn1.EncodeOptional(e, personType.Fields[1], p.Age)
	})
}

func (p *Person) DecodeASN1(d asn1.Decoder, tag asn1.Tag, _ asn1.Constraints) error {
	return d.DecodeSequence(tag, personType, func(d asn1.Decoder) error {
		if err := asn1.DecodeRequired(d, personType.Fields[0], &p.Name); err != nil {
			return err
		}
		var err error
		p.Age, err = asn1.DecodeOptional[asn1.Int64](d, personType.Fields[1])
		return err
	})
}

func ExampleOptions_Marshal() {
	age := asn1.Int64(36)
	data, err := ber.Options{Rules: ber.DER}.Marshal(Person{Name: "Ada", Age: &age})
	if err != nil {
		panic(err)
	}
	fmt.Printf("% X\n", data)
	// Output:
	// 30 08 0C 03 41 64 61 80 01 24
}

func ExampleUnmarshal() {
	// indefinite-length SEQUENCE without the optional age
	data := []byte{0x30, 0x80, 0x0C, 0x03, 0x41, 0x64, 0x61, 0x00, 0x00}
	var p Person
	if err := ber.Unmarshal(data, &p); err != nil {
		panic(err)
	}
	fmt.Println(p.Name, p.Age == nil)
	// Output:
	// Ada true
}

func ExampleOptions_Unmarshal() {
	data := []byte{0x30, 0x80, 0x0C, 0x03, 0x41, 0x64, 0x61, 0x00, 0x00}
	var p Person
	err := der.Unmarshal(data, &p)
	fmt.Println(errors.Is(err, asn1.ErrNonCanonical))
	// Output:
	// true
}

func ExampleOptions_UnmarshalRaw() {
	// an open type value whose actual type is only known later
	var rv asn1.RawValue
	if err := ber.Unmarshal([]byte{0x06, 0x03, 0x2A, 0x86, 0x48}, &rv); err != nil {
		panic(err)
	}
	var oid asn1.ObjectIdentifier
	if err := (ber.Options{}).UnmarshalRaw(rv, &oid); err != nil {
		panic(err)
	}
	fmt.Println(rv.Tag, oid)
	// Output:
	// [UNIVERSAL 6] 1.2.840
}

func Example_errorPath() {
	data := []byte{0x30, 0x07, 0x0C, 0x03, 0x41, 0x64, 0x61, 0x80, 0x00}
	var p Person
	err := ber.Unmarshal(data, &p)
	var de *asn1.DecodeError
	if errors.As(err, &de) {
		fmt.Println(de.FieldPath(), errors.Is(err, asn1.ErrWrongSize))
	}
	// Output:
	// age true
}
