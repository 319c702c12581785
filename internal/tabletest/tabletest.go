// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package tabletest generates small tables for property tests and checks
// them address by address.
package tabletest

import (
	"math/rand"

	"github.com/platinasystems/rtmin/table"
	"github.com/platinasystems/rtmin/ternary"
)

// Domain is the number of addresses a generated table may match: Random
// varies the low byte of keys, Spread the eight Bits.
const Domain = 1 << 8

// Random returns n entries with one of nactions core routes. Keys cluster
// around a few bases, as routing keys of neighboring cores do.
func Random(rng *rand.Rand, n, nactions int) []table.Entry {
	bases := []uint32{0x00, 0x40, 0x80, 0xc0}
	l := make([]table.Entry, n)
	for i := range l {
		base := bases[rng.Intn(len(bases))]
		mask := ^uint32(Domain-1) | 0xc0 | rng.Uint32()&0x3f
		key := (base | rng.Uint32()&0x3f) & mask
		l[i] = table.Entry{
			Pattern: ternary.Pattern{Key: key, Mask: mask},
			Routes:  table.NewRoutes(table.Core(rng.Intn(nactions))),
		}
	}
	return l
}

// Lookup returns the routes of the first entry matching addr.
func Lookup(entries []table.Entry, addr uint32) (table.Routes, bool) {
	for _, e := range entries {
		if e.Matches(addr) {
			return e.Routes, true
		}
	}
	return 0, false
}

// Bits are the address bits that vary among the entries of Spread.
var Bits = [8]uint{31, 30, 24, 17, 9, 5, 1, 0}

// Scatter moves bit j of i to address bit Bits[j].
func Scatter(i uint32) (addr uint32) {
	for j, bit := range Bits {
		addr |= (i >> uint(j) & 1) << bit
	}
	return
}

// Spread returns n entries with one of nactions core routes that fix every
// address bit other than Bits to zero, so wildcards appear at both ends of
// the word.
func Spread(rng *rand.Rand, n, nactions int) []table.Entry {
	free := Scatter(Domain - 1)
	l := make([]table.Entry, n)
	for i := range l {
		mask := ^free | Scatter(rng.Uint32()&(Domain-1))
		key := Scatter(rng.Uint32()&(Domain-1)) & mask
		l[i] = table.Entry{
			Pattern: ternary.Pattern{Key: key, Mask: mask},
			Routes:  table.NewRoutes(table.Core(rng.Intn(nactions))),
		}
	}
	return l
}

// Mismatch returns the first address of the Domain matched by original
// that candidate routes differently.
func Mismatch(original, candidate []table.Entry) (uint32, bool) {
	return mismatch(original, candidate, func(i uint32) uint32 { return i })
}

// MismatchSpread is Mismatch over the addresses of Spread entries.
func MismatchSpread(original, candidate []table.Entry) (uint32, bool) {
	return mismatch(original, candidate, Scatter)
}

func mismatch(original, candidate []table.Entry, address func(uint32) uint32) (uint32, bool) {
	for i := uint32(0); i < Domain; i++ {
		addr := address(i)
		want, ok := Lookup(original, addr)
		if !ok {
			continue
		}
		if got, ok := Lookup(candidate, addr); !ok || got != want {
			return addr, true
		}
	}
	return 0, false
}
