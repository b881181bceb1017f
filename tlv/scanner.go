// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"io"

	"github.com/asn1kit/asn1"
)

// A Token is a single step of a [Scanner]. A token either describes the
// beginning of a data value or, if Header is [EndOfContents], the end of the
// innermost constructed value.
type Token struct {
	Header
	Offset    int    // offset of the identifier octets within the input
	HeaderLen int    // number of identifier and length octets
	Depth     int    // number of enclosing constructed values
	Value     []byte // contents of a primitive value
}

// Scanner visits the data values of a TLV encoding in depth-first order. It
// validates the TLV structure while doing so: lengths must fit into the
// enclosing value, indefinite-length values must be terminated and the
// nesting depth is limited.
//
// The end of every constructed value is reported as an [EndOfContents] token,
// regardless of whether the value uses the definite or indefinite-length
// format.
type Scanner struct {
	buf      []byte
	off      int
	maxDepth int
	state
}

// NewScanner creates a Scanner reading the data values in b. Constructed
// values may be nested at most maxDepth levels. A non-positive maxDepth
// selects [DefaultMaxDepth].
func NewScanner(b []byte, maxDepth int) *Scanner {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	s := &Scanner{buf: b, maxDepth: maxDepth}
	s.reset(len(b))
	return s
}

// InputOffset returns the offset of the next token.
func (s *Scanner) InputOffset() int {
	return s.off
}

// Depth returns the number of constructed values currently open.
func (s *Scanner) Depth() int {
	return s.depth()
}

// Next returns the next token. At the end of the input Next returns [io.EOF].
// Structural errors are reported as [*SyntaxError]. After an error the
// Scanner cannot continue.
func (s *Scanner) Next() (Token, error) {
	if !s.root() && s.curr.End != LengthIndefinite && s.off == s.curr.End {
		s.pop()
		return Token{Offset: s.off, Depth: s.depth()}, nil
	}
	limit := s.limit()
	if s.off >= limit {
		if s.root() {
			return Token{}, io.EOF
		}
		return Token{}, s.error(asn1.ErrUnterminated)
	}
	if isEOC(s.buf[s.off:limit]) {
		if s.root() || s.curr.End != LengthIndefinite {
			return Token{}, s.error(asn1.ErrInvalidEOC)
		}
		s.pop()
		t := Token{Offset: s.off, HeaderLen: 2, Depth: s.depth()}
		s.off += 2
		return t, nil
	}

	h, n, err := ParseHeader(s.buf[s.off:limit])
	if err != nil {
		return Token{}, s.error(err)
	}
	if h.Tag == (asn1.Tag{}) {
		return Token{}, s.error(asn1.ErrInvalidEOC)
	}
	t := Token{Header: h, Offset: s.off, HeaderLen: n, Depth: s.depth()}
	end := CombinedLength(s.off, n, h.Length)
	if h.Length != LengthIndefinite && (end == LengthIndefinite || end > limit) {
		return Token{}, s.error(asn1.ErrTruncated)
	}
	if !h.Constructed {
		t.Value = s.buf[s.off+n : end]
		s.off = end
		return t, nil
	}
	if s.depth() >= s.maxDepth {
		return Token{}, s.error(asn1.ErrDepthExceeded)
	}
	s.off += n
	s.push(h, s.off)
	return t, nil
}

// Skip skips the remainder of the innermost constructed value, including its
// end. If the value uses the indefinite-length format, its contents are
// scanned.
func (s *Scanner) Skip() error {
	if s.root() {
		s.off = len(s.buf)
		return nil
	}
	depth := s.depth()
	for s.depth() >= depth {
		if s.curr.End != LengthIndefinite && s.depth() == depth {
			s.off = s.curr.End
		}
		if _, err := s.Next(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) error(err error) error {
	h := s.curr.Header
	if s.root() {
		h = Header{}
	}
	return &SyntaxError{Err: err, ByteOffset: s.off, Header: h}
}
