// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unsafe"
)

var (
	errInvalidUTCTime         = errors.New("invalid UTCTime")
	errInvalidGeneralizedTime = errors.New("invalid GeneralizedTime")
)

//region [UNIVERSAL 23] UTCTime

// UTCTime represents the corresponding ASN.1 type. Only dates between
// 1950 and 2049 can be represented by this type.
//
// See also section 47 of Rec. ITU-T X.680.
type UTCTime time.Time

// UTCTimeType is the descriptor of the UTCTime type.
var UTCTimeType = NewSimpleType("UTCTime", Universal(TagUTCTime))

// IsValid reports whether the year of t is between 1950 and 2049.
func (t UTCTime) IsValid() bool {
	year := time.Time(t).Year()
	return year >= 1950 && year < 2050
}

// String returns the time of t in the format YYMMDDhhmmssZ or YYMMDDhhmmss+hhmm.
func (t UTCTime) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(17)
	b.WriteString(itoaN(tt.Year()%100, 2))
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteString(itoaN(tt.Day(), 2))
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteString(itoaN(tt.Second(), 2))
	writeZone(&b, tt)
	return b.String()
}

func (UTCTime) ASN1Type() *TypeInfo { return UTCTimeType }

// EncodeASN1 encodes t in UTC as YYMMDDhhmmssZ, the form required by the
// canonical encoding rules.
func (t UTCTime) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	if !t.IsValid() {
		return &EncodeError{Codec: e.Codec(), Tag: tag, Err: errInvalidUTCTime}
	}
	return e.EncodeCharacterString(tag, KindUTCTime, cs, UTCTime(time.Time(t).UTC()).String())
}

func (t *UTCTime) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	s, err := d.DecodeCharacterString(tag, KindUTCTime, cs)
	if err != nil {
		return err
	}
	v, err := ParseUTCTime(s)
	if err != nil {
		return &DecodeError{Codec: d.Codec(), Tag: tag, Offset: -1, Err: err}
	}
	*t = v
	return nil
}

// ParseUTCTime parses the string representation of a UTCTime value. Two digit
// years below 50 are interpreted as 20xx, all others as 19xx.
func ParseUTCTime(s string) (UTCTime, error) {
	if len(s) < 11 || len(s) > 17 {
		return UTCTime{}, errInvalidUTCTime
	}
	year := atoiN[int](s, 2)
	month := atoiN[time.Month](s[2:], 2)
	day := atoiN[int](s[4:], 2)
	hour := atoiN[int](s[6:], 2)
	minute := atoiN[int](s[8:], 2)
	s = s[10:]
	second := atoiN[int](s, 2)
	if second >= 0 {
		s = s[2:]
	} else {
		second = 0
	}
	loc := parseLocation(s)
	if loc == nil {
		return UTCTime{}, errInvalidUTCTime
	}

	// UTCTime only encodes times prior to 2050. See https://tools.ietf.org/html/rfc5280#section-4.1.2.5.1
	if year < 0 {
		return UTCTime{}, errInvalidUTCTime
	} else if year <= 49 {
		year += 2000
	} else {
		year += 1900
	}
	ret := time.Date(year, month, day, hour, minute, second, 0, loc)
	if ret.Year() != year || ret.Month() != month || ret.Day() != day || ret.Hour() != hour || ret.Minute() != minute || ret.Second() != second {
		return UTCTime{}, errInvalidUTCTime
	}
	return UTCTime(ret), nil
}

//endregion

//region [UNIVERSAL 24] GeneralizedTime

// GeneralizedTime represents the corresponding ASN.1 type. This type can
// represent dates between years 1 and 9999.
//
// See also section 46 of Rec. ITU-T X.680.
type GeneralizedTime time.Time

// GeneralizedTimeType is the descriptor of the GeneralizedTime type.
var GeneralizedTimeType = NewSimpleType("GeneralizedTime", Universal(TagGeneralizedTime))

// IsValid reports if the year of t is between 1 and 9999.
func (t GeneralizedTime) IsValid() bool {
	year := time.Time(t).Year()
	return year >= 1 && year <= 9999
}

// String returns a string representation of t that matches its representation
// in ASN.1 notation.
func (t GeneralizedTime) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(29) // allocate enough space for nanosecond precision
	b.WriteString(itoaN(tt.Year()%10000, 4))
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteString(itoaN(tt.Day(), 2))
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteString(itoaN(tt.Second(), 2))
	if tt.Nanosecond() > 0 {
		s := strconv.FormatFloat(float64(tt.Nanosecond())/float64(time.Second), 'f', -1, 64)
		b.WriteString(s[1:])
	}
	if tt.Location() == time.Local {
		return b.String()
	}
	writeZone(&b, tt)
	return b.String()
}

func (GeneralizedTime) ASN1Type() *TypeInfo { return GeneralizedTimeType }

// EncodeASN1 encodes t in UTC without trailing zeros in the fractional
// seconds, the form required by the canonical encoding rules.
func (t GeneralizedTime) EncodeASN1(e Encoder, tag Tag, cs Constraints) error {
	if !t.IsValid() {
		return &EncodeError{Codec: e.Codec(), Tag: tag, Err: errInvalidGeneralizedTime}
	}
	return e.EncodeCharacterString(tag, KindGeneralizedTime, cs, GeneralizedTime(time.Time(t).UTC()).String())
}

func (t *GeneralizedTime) DecodeASN1(d Decoder, tag Tag, cs Constraints) error {
	s, err := d.DecodeCharacterString(tag, KindGeneralizedTime, cs)
	if err != nil {
		return err
	}
	v, err := ParseGeneralizedTime(s)
	if err != nil {
		return &DecodeError{Codec: d.Codec(), Tag: tag, Offset: -1, Err: err}
	}
	*t = v
	return nil
}

// ParseGeneralizedTime parses the string representation of a GeneralizedTime
// value. Minutes, seconds, fractions and the time zone are optional. A value
// without time zone designator is read as UTC so that the result does not
// depend on the zone of the host.
func ParseGeneralizedTime(s string) (GeneralizedTime, error) {
	if len(s) < 10 {
		return GeneralizedTime{}, errInvalidGeneralizedTime
	}
	year := atoiN[int](s, 4)
	month := atoiN[time.Month](s[4:], 2)
	day := atoiN[int](s[6:], 2)
	hour := atoiN[time.Duration](s[8:], 2)
	if year < 0 || hour < 0 || 23 < hour {
		return GeneralizedTime{}, errInvalidGeneralizedTime
	}
	s = s[10:]
	dur := hour * time.Hour
	unit := time.Hour // unit for fractional time
	if len(s) >= 2 && '0' <= s[0] && s[0] <= '9' {
		minute := atoiN[time.Duration](s, 2)
		if minute < 0 || 59 < minute {
			return GeneralizedTime{}, errInvalidGeneralizedTime
		}
		dur += minute * time.Minute
		unit = time.Minute
		s = s[2:]
	}
	if len(s) >= 2 && '0' <= s[0] && s[0] <= '9' {
		second := atoiN[time.Duration](s, 2)
		if second < 0 || 59 < second {
			return GeneralizedTime{}, errInvalidGeneralizedTime
		}
		unit = time.Second
		dur += second * time.Second
		s = s[2:]
	}
	if len(s) > 0 && (s[0] == '.' || s[0] == ',') {
		i := 1
		for ; i < len(s); i++ {
			if s[i] < '0' || '9' < s[i] {
				break
			}
			unit /= 10
			dur += time.Duration(s[i]-'0') * unit
		}
		if i == 1 {
			return GeneralizedTime{}, errInvalidGeneralizedTime
		}
		s = s[i:]
	}
	loc := time.UTC
	if len(s) > 0 {
		if loc = parseLocation(s); loc == nil {
			return GeneralizedTime{}, errInvalidGeneralizedTime
		}
	}
	ret := time.Date(year, month, day, 0, 0, 0, 0, loc)
	ret = ret.Add(dur)
	if ret.Year() != year || ret.Month() != month || ret.Day() != day {
		return GeneralizedTime{}, errInvalidGeneralizedTime
	}
	return GeneralizedTime(ret), nil
}

//endregion

// writeZone appends the zone designator of tt: Z for UTC or +hhmm/-hhmm.
func writeZone(b *strings.Builder, tt time.Time) {
	_, offset := tt.Zone()
	offset /= 60
	if offset == 0 {
		b.WriteByte('Z')
		return
	}
	if offset < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(itoaN(offset/60, 2))
	b.WriteString(itoaN(offset%60, 2))
}

func parseLocation(s string) *time.Location {
	if len(s) == 1 && s[0] == 'Z' {
		return time.UTC
	}
	if len(s) != 5 {
		return nil
	}
	if s[0] != '+' && s[0] != '-' {
		return nil
	}
	mul := 44 - int(s[0])
	locHour := atoiN[int](s[1:], 2)
	locMinute := atoiN[int](s[3:], 2)
	if locHour < 0 || locMinute < 0 {
		return nil
	}
	return time.FixedZone("", mul*(locHour*3600+locMinute*60))
}

// atoiN parses exactly n decimal digits from the start of s. It returns -1 if s
// is too short or contains a non-digit.
func atoiN[T ~int | ~int64](s string, n int) (i T) {
	if len(s) < n {
		return -1
	}
	for j := 0; j < n; j++ {
		if s[j] < '0' || '9' < s[j] {
			return -1
		}
		i = i*10 + T(s[j]-'0')
	}
	return i
}

// itoaN returns the base 10 string representation of the absolute value of i,
// truncated or zero padded to exactly n digits.
func itoaN[T ~int](i T, n int) string {
	if i < 0 {
		i = -i
	}
	bs := make([]byte, n)
	for ; n > 0; n-- {
		bs[n-1] = '0' + byte(i%10)
		i /= 10
	}
	return unsafe.String(unsafe.SliceData(bs), len(bs))
}
