// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements the ASN.1 Distinguished Encoding Rules (DER). DER is
// a subset of BER that allows exactly one encoding for every value. See the
// package ber for details.
package der

import (
	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/ber"
)

// Options are the options used by [Marshal] and [Unmarshal].
var Options = ber.Options{Rules: ber.DER}

// Marshal returns the DER encoding of v.
func Marshal(v asn1.Encodable) ([]byte, error) {
	return Options.Marshal(v)
}

// Unmarshal decodes the DER encoding in b into v. Encodings that are valid
// BER but not valid DER are rejected. If b contains data after the encoding
// of v, an error is returned.
func Unmarshal(b []byte, v asn1.Decodable) error {
	return Options.Unmarshal(b, v)
}
