// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ternary provides 32-bit match patterns with don't-care bits and the
// region algebra over their match sets.
//
// A Pattern is a (key, mask) pair. A clear mask bit is a don't-care; a set
// mask bit requires the address bit to equal the key bit. The match set of a
// pattern is every 32-bit address a with a & mask == key.
package ternary

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

const Bits = 32

var (
	// ErrInvalidEncoding is returned for a key bit set without its mask bit.
	ErrInvalidEncoding = errors.New("ternary: invalid encoding")
	ErrSyntax          = errors.New("ternary: syntax error")
)

// Value is the ternary value of one bit position.
type Value uint8

const (
	X Value = iota // don't-care
	Zero
	One
	NValues
)

func (v Value) String() string {
	switch v {
	case X:
		return "-"
	case Zero:
		return "0"
	case One:
		return "1"
	}
	return "?"
}

// KeyMask returns the key and mask bits of v at the given bit position.
func (v Value) KeyMask(bit uint) (key, mask uint32) {
	switch v {
	case Zero:
		mask = 1 << bit
	case One:
		key = 1 << bit
		mask = 1 << bit
	}
	return
}

type Pattern struct {
	Key, Mask uint32
}

// Any matches every address.
var Any = Pattern{}

// New validates the canonical encoding of the key and mask.
func New(key, mask uint32) (Pattern, error) {
	if key&^mask != 0 {
		return Pattern{}, fmt.Errorf("%#08x/%#08x: %w", key, mask,
			ErrInvalidEncoding)
	}
	return Pattern{key, mask}, nil
}

// MustNew is New that panics on a non-canonical encoding.
func MustNew(key, mask uint32) Pattern {
	p, err := New(key, mask)
	if err != nil {
		panic(err)
	}
	return p
}

// Exact matches the single given address.
func Exact(addr uint32) Pattern { return Pattern{addr, ^uint32(0)} }

// Parse reads the 32 character form, most significant bit first, of
// '0', '1' and '-' (or 'x', 'X').
func Parse(s string) (p Pattern, err error) {
	if len(s) != Bits {
		return p, fmt.Errorf("%q: %w: length %d", s, ErrSyntax, len(s))
	}
	for i := 0; i < Bits; i++ {
		bit := uint32(1) << uint(Bits-1-i)
		switch s[i] {
		case '0':
			p.Mask |= bit
		case '1':
			p.Mask |= bit
			p.Key |= bit
		case '-', 'x', 'X':
		default:
			return Pattern{}, fmt.Errorf("%q: %w: %q", s, ErrSyntax,
				s[i])
		}
	}
	return
}

func MustParse(s string) Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) Valid() bool { return p.Key&^p.Mask == 0 }

// At returns the ternary value of the given bit.
func (p Pattern) At(bit uint) Value {
	m := uint32(1) << bit
	switch {
	case p.Mask&m == 0:
		return X
	case p.Key&m == 0:
		return Zero
	}
	return One
}

// With returns the pattern with the given bit replaced by v.
func (p Pattern) With(bit uint, v Value) Pattern {
	m := uint32(1) << bit
	k, mk := v.KeyMask(bit)
	return Pattern{p.Key&^m | k, p.Mask&^m | mk}
}

func (p Pattern) Matches(addr uint32) bool { return addr&p.Mask == p.Key }

// Specified is the number of non don't-care bits.
func (p Pattern) Specified() int { return bits.OnesCount32(p.Mask) }

// Size is the number of addresses in the match set.
func (p Pattern) Size() uint64 { return 1 << uint(Bits-p.Specified()) }

// Intersects reports whether the match sets share an address.
func (p Pattern) Intersects(q Pattern) bool {
	return (p.Key^q.Key)&p.Mask&q.Mask == 0
}

// Intersect returns the pattern matching the shared addresses, if any.
func (p Pattern) Intersect(q Pattern) (Pattern, bool) {
	if !p.Intersects(q) {
		return Pattern{}, false
	}
	return Pattern{p.Key | q.Key, p.Mask | q.Mask}, true
}

// Covers reports whether q's match set is a subset of p's.
func (p Pattern) Covers(q Pattern) bool {
	return p.Mask&^q.Mask == 0 && (p.Key^q.Key)&p.Mask == 0
}

// Subtract returns disjoint patterns that match exactly the addresses of p
// that q doesn't.
func (p Pattern) Subtract(q Pattern) []Pattern {
	if !p.Intersects(q) {
		return []Pattern{p}
	}
	var l []Pattern
	cur := p
	for free := q.Mask &^ p.Mask; free != 0; {
		bit := uint(Bits - 1 - bits.LeadingZeros32(free))
		m := uint32(1) << bit
		free &^= m
		l = append(l, Pattern{cur.Key | (^q.Key & m), cur.Mask | m})
		cur = Pattern{cur.Key | (q.Key & m), cur.Mask | m}
	}
	return l
}

// String formats p as 32 of '0', '1', or '-', most significant bit first.
func (p Pattern) String() string {
	var sb strings.Builder
	sb.Grow(Bits)
	for bit := Bits - 1; bit >= 0; bit-- {
		sb.WriteString(p.At(uint(bit)).String())
	}
	return sb.String()
}

// Hex formats p as "key/mask".
func (p Pattern) Hex() string {
	return fmt.Sprintf("%08x/%08x", p.Key, p.Mask)
}
