// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

// stateEntry represents the decoding state of a constructed TLV.
type stateEntry struct {
	Header

	// End is the offset of the first byte after the contents of the TLV, or
	// LengthIndefinite if the end is marked by an end-of-contents marker.
	End int
}

// state maintains the state of a [Scanner]. The state consists of a stack of
// constructed TLVs that are currently being processed. At the bottom of the
// stack there is a virtual constructed TLV representing the root level of the
// input.
type state struct {
	stack []stateEntry
	curr  stateEntry // top entry of the stack
}

// reset clears the state to a single root element spanning n bytes. The
// allocated stack space is reused.
func (s *state) reset(n int) {
	if s.stack == nil {
		s.stack = make([]stateEntry, 0, 10)
	}
	s.stack = s.stack[:0]
	s.curr = stateEntry{
		Header: Header{Length: n, Constructed: true},
		End:    n,
	}
}

// root indicates whether s is currently at the root level.
func (s *state) root() bool {
	return len(s.stack) == 0
}

// depth returns the number of constructed TLVs currently being processed.
func (s *state) depth() int {
	return len(s.stack)
}

// limit returns the offset that the contents of the current TLV cannot
// exceed. For indefinite-length TLVs this is the limit of the closest
// definite-length ancestor. The root entry always has a definite end.
func (s *state) limit() int {
	l := s.curr.End
	for i := len(s.stack) - 1; i >= 0 && l == LengthIndefinite; i-- {
		l = MinLength(l, s.stack[i].End)
	}
	return l
}

// push puts h, whose contents start at offset, onto the stack.
func (s *state) push(h Header, offset int) {
	s.stack = append(s.stack, s.curr)
	s.curr = stateEntry{Header: h, End: CombinedLength(offset, h.Length)}
}

// pop removes the topmost element from the stack.
func (s *state) pop() {
	s.curr = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}
