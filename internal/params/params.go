// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package params parses the compact parameter strings used to describe the
// components of ASN.1 SEQUENCE, SET and CHOICE types.
package params

import (
	"errors"
	"math/bits"
	"strconv"
	"strings"
)

// Tag classes as encoded in bits 8 and 7 of an identifier octet.
const (
	ClassUniversal uint8 = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// FieldParameters is the parsed representation of a field parameter string.
type FieldParameters struct {
	HasTag    bool  // true iff a tag number was given
	Class     uint8 // the class of the EXPLICIT or IMPLICIT tag
	Number    uint  // the number of the EXPLICIT or IMPLICIT tag
	Explicit  bool  // true iff an EXPLICIT tag is in use.
	Optional  bool  // true iff the field is OPTIONAL
	Default   bool  // true iff the field has a DEFAULT value
	Extension bool  // true iff the field is an extension addition
}

// Parse parses str into a FieldParameters structure. The string is a comma
// separated list of the following parts:
//
//	tag:x       specifies the ASN.1 tag number; implies ASN.1 CONTEXT SPECIFIC
//	application specifies that an APPLICATION tag is used
//	private     specifies that a PRIVATE tag is used
//	universal   specifies that a UNIVERSAL tag is used
//	explicit    mark the tag as explicit
//	optional    marks the field as ASN.1 OPTIONAL
//	default     marks the field as having an ASN.1 DEFAULT value
//	extension   marks the field as an extension addition
//
// Empty parts and surrounding white space are ignored. Unknown parts and
// malformed tag numbers are reported as an error.
func Parse(str string) (ret FieldParameters, err error) {
	hasClass := false
	for part := range strings.SplitSeq(str, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == "optional":
			ret.Optional = true
		case part == "default":
			ret.Default = true
		case part == "explicit":
			ret.Explicit = true
		case part == "extension":
			ret.Extension = true
		case strings.HasPrefix(part, "tag:"):
			i, perr := strconv.ParseUint(part[4:], 10, bits.UintSize)
			if perr != nil {
				return ret, errors.New("invalid tag number " + strconv.Quote(part[4:]))
			}
			if !hasClass {
				ret.Class = ClassContextSpecific
			}
			ret.HasTag = true
			ret.Number = uint(i)
		case part == "application":
			ret.Class = ClassApplication
			hasClass = true
		case part == "private":
			ret.Class = ClassPrivate
			hasClass = true
		case part == "universal":
			ret.Class = ClassUniversal
			hasClass = true
		default:
			return ret, errors.New("unknown field parameter " + strconv.Quote(part))
		}
	}
	if hasClass && !ret.HasTag {
		return ret, errors.New("class given without tag number")
	}
	if ret.Explicit && !ret.HasTag {
		return ret, errors.New("explicit requires a tag number")
	}
	if ret.Optional && ret.Default {
		return ret, errors.New("a field cannot be both optional and default")
	}
	return ret, nil
}
