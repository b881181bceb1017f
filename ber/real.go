// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	"github.com/asn1kit/asn1"
)

// Special values of the REAL type. See Section 8.5.9 of Rec. ITU-T X.690.
const (
	realPlusInfinity  = 0b01000000
	realMinusInfinity = 0b01000001
	realNaN           = 0b01000010
	realMinusZero     = 0b01000011
)

var (
	errRealBase     = fmt.Errorf("%w: reserved REAL base", asn1.ErrInvalidValue)
	errRealMantissa = fmt.Errorf("%w: zero REAL mantissa", asn1.ErrInvalidValue)
	errRealDecimal  = fmt.Errorf("%w: invalid decimal REAL", asn1.ErrInvalidValue)
	errRealSpecial  = fmt.Errorf("%w: invalid special REAL value", asn1.ErrInvalidValue)
	errRealExponent = fmt.Errorf("%w: REAL exponent not minimally encoded", asn1.ErrNonCanonical)
	errRealForm     = fmt.Errorf("%w: REAL must use base 2 with an odd mantissa", asn1.ErrNonCanonical)
)

// appendReal appends the contents octets of the REAL value f to dst. Finite
// values use the binary encoding with base 2 and an odd mantissa, which is
// the form required by CER and DER.
func appendReal(dst []byte, f float64) []byte {
	switch {
	case f == 0 && !math.Signbit(f):
		// positive zero, no content bytes
		return dst
	case f == 0:
		return append(dst, realMinusZero)
	case math.IsInf(f, 1):
		return append(dst, realPlusInfinity)
	case math.IsInf(f, -1):
		return append(dst, realMinusInfinity)
	case math.IsNaN(f):
		return append(dst, realNaN)
	}

	// compute mantissa and exponent such that the mantissa is odd
	bts := math.Float64bits(f)
	m := bts & (1<<52 - 1)
	be := int(bts>>52) & 0x7FF
	if be == 0 {
		// subnormal numbers have no implicit leading 1
		be = 1
	} else {
		m |= 1 << 52
	}
	e := be - 1023 - 52
	shift := bits.TrailingZeros64(m)
	m >>= shift
	e += shift

	// The exponent of a float64 fits into 2 bytes. We are in case a) or b) of
	// Rec. ITU-T X.690, Section 8.5.7.4.
	el := 1
	if e < math.MinInt8 || e > math.MaxInt8 {
		el = 2
	}
	s := byte(bts >> 63)
	// First byte is 1s0000ee where s is the sign and ee indicates the number of
	// exponent octets.
	dst = append(dst, 0b10000000|s<<6|byte(el-1))
	for i := el - 1; i >= 0; i-- {
		dst = append(dst, byte(e>>(8*i)))
	}
	for i := (bits.Len64(m)+7)/8 - 1; i >= 0; i-- {
		dst = append(dst, byte(m>>(8*i)))
	}
	return dst
}

// parseReal parses the contents octets of a REAL value. If canonical is true,
// binary encodings must use the form produced by appendReal.
func parseReal(b []byte, canonical bool) (float64, error) {
	switch {
	case len(b) == 0:
		return 0, nil
	case b[0]&0x80 != 0:
		return parseBinaryReal(b, canonical)
	case b[0]&0x40 != 0:
		if len(b) != 1 {
			return 0, errRealSpecial
		}
		switch b[0] {
		case realPlusInfinity:
			return math.Inf(1), nil
		case realMinusInfinity:
			return math.Inf(-1), nil
		case realNaN:
			return math.NaN(), nil
		case realMinusZero:
			return math.Copysign(0, -1), nil
		}
		return 0, errRealSpecial
	default:
		return parseDecimalReal(b)
	}
}

// parseBinaryReal parses the binary encoding of a REAL value.
//
// See Section 8.5.7 of Rec. ITU-T X.690.
func parseBinaryReal(b []byte, canonical bool) (float64, error) {
	sign := b[0] & 0x40 >> 6
	base := b[0] & 0x30 >> 4 // 0, 1 or 2 for the bases 2, 8 and 16
	f := b[0] & 0x0C >> 2    // scaling factor
	el := int(b[0]&0x03) + 1
	b = b[1:]
	if base == 3 {
		return 0, errRealBase
	}
	if el == 4 {
		if len(b) == 0 {
			return 0, asn1.ErrTruncated
		}
		el = int(b[0])
		b = b[1:]
		if el == 0 {
			return 0, fmt.Errorf("%w: zero REAL exponent length", asn1.ErrInvalidValue)
		}
	}
	if len(b) < el {
		return 0, asn1.ErrTruncated
	}
	if el > 8 {
		return 0, asn1.ErrOverflow
	}
	if el > 1 && (b[0] == 0x00 && b[1]&0x80 == 0 || b[0] == 0xFF && b[1]&0x80 != 0) {
		return 0, errRealExponent
	}
	var e int64
	for _, c := range b[:el] {
		e = e<<8 | int64(c)
	}
	// Shift up and down in order to sign extend the exponent.
	e <<= 64 - 8*el
	e >>= 64 - 8*el
	b = b[el:]

	m := new(big.Int).SetBytes(b)
	if m.Sign() == 0 {
		return 0, errRealMantissa
	}
	if canonical && (base != 0 || f != 0 || m.Bit(0) == 0) {
		return 0, errRealForm
	}

	// value = m * 2^f * (2^(base+1))^e for bases 8 and 16, m * 2^f * 2^e for base 2
	exp2 := e
	switch base {
	case 1:
		exp2 *= 3
	case 2:
		exp2 *= 4
	}
	exp2 += int64(f)
	if exp2 > math.MaxInt32/2 || exp2 < math.MinInt32/2 {
		return 0, asn1.ErrOverflow
	}
	r := new(big.Float).SetInt(m)
	r.SetMantExp(r, int(exp2))
	if sign == 1 {
		r.Neg(r)
	}
	v, acc := r.Float64()
	if acc != big.Exact {
		return 0, asn1.ErrOverflow
	}
	return v, nil
}

// parseDecimalReal parses the decimal encoding of a REAL value. The first
// byte of b selects the number representation NR1, NR2 or NR3 of [ISO 6093].
//
// [ISO 6093]: https://www.iso.org/standard/12285.html
func parseDecimalReal(b []byte) (float64, error) {
	nr := b[0] & 0x3F
	if nr == 0 || nr > 3 {
		return 0, errRealDecimal
	}
	s := strings.TrimLeft(string(b[1:]), " ")
	if !validDecimal(s, nr) {
		return 0, errRealDecimal
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, asn1.ErrOverflow
	} else if err != nil {
		return 0, errRealDecimal
	}
	return v, nil
}

// validDecimal validates the syntax of s according to the number
// representation nr. strconv.ParseFloat accepts more than ISO 6093 permits.
func validDecimal(s string, nr byte) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	n := digits(s)
	s = s[n:]
	if nr == 1 {
		return n > 0 && s == ""
	}
	if s != "" && (s[0] == '.' || s[0] == ',') {
		s = s[1:]
		frac := digits(s)
		s = s[frac:]
		n += frac
	}
	if n == 0 {
		return false
	}
	if nr == 2 {
		return s == ""
	}
	// NR3 requires an exponent
	if s == "" || s[0] != 'e' && s[0] != 'E' {
		return false
	}
	s = s[1:]
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	n = digits(s)
	return n > 0 && n == len(s)
}

// digits returns the number of leading decimal digits in s.
func digits(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return i
		}
	}
	return len(s)
}
