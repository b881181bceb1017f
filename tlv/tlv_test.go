// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"errors"
	"fmt"
	"math"

	"github.com/asn1kit/asn1"
)

func ExampleCombinedLength() {
	fmt.Println(CombinedLength(3, 2, 40))
	fmt.Println(CombinedLength(42, LengthIndefinite))
	fmt.Println(CombinedLength(math.MaxInt, 2))

	// Output:
	// 45
	// -1
	// -1
}

func ExampleMinLength() {
	fmt.Println(MinLength(42, LengthIndefinite))
	fmt.Println(MinLength(LengthIndefinite, 7))
	fmt.Println(MinLength(LengthIndefinite, LengthIndefinite))

	// Output:
	// 42
	// 7
	// -1
}

func ExampleHeader_String() {
	fmt.Println(Header{Tag: asn1.Universal(asn1.TagSequence), Constructed: true, Length: LengthIndefinite})
	fmt.Println(Header{Tag: asn1.Context(2), Length: 4})
	fmt.Println(EndOfContents)

	// Output:
	// [UNIVERSAL 16]/c:indefinite
	// [2]/p:4
	// EndOfContents
}

func ExampleSplit() {
	data := []byte{0x24, 0x80, 0x04, 0x02, 0x01, 0x02, 0x00, 0x00, 0x05, 0x00}
	h, content, rest, err := Split(data, 0)
	if err != nil {
		panic(err)
	}
	fmt.Println(h)
	fmt.Printf("% X\n", content)
	fmt.Printf("% X\n", rest)

	_, _, _, err = Split(data[:6], 0)
	fmt.Println(errors.Is(err, asn1.ErrUnterminated))

	// Output:
	// [UNIVERSAL 4]/c:indefinite
	// 04 02 01 02
	// 05 00
	// true
}

func ExampleScanner() {
	s := NewScanner([]byte{0x30, 0x80, 0x02, 0x01, 0x05, 0x00, 0x00}, 0)
	for {
		tok, err := s.Next()
		if err != nil {
			break
		}
		fmt.Println(tok.Depth, tok.Header)
	}

	// Output:
	// 0 [UNIVERSAL 16]/c:indefinite
	// 1 [UNIVERSAL 2]/p:1
	// 0 EndOfContents
}
