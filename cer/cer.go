// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cer implements the ASN.1 Canonical Encoding Rules (CER). CER is a
// subset of BER that uses the indefinite-length format for most constructed
// values and splits long strings into segments. See the package ber for
// details.
package cer

import (
	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/ber"
)

// Options are the options used by [Marshal] and [Unmarshal].
var Options = ber.Options{Rules: ber.CER}

// Marshal returns the CER encoding of v.
func Marshal(v asn1.Encodable) ([]byte, error) {
	return Options.Marshal(v)
}

// Unmarshal decodes the CER encoding in b into v. If b contains data after
// the encoding of v, an error is returned.
func Unmarshal(b []byte, v asn1.Decodable) error {
	return Options.Unmarshal(b, v)
}
