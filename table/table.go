// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package table provides the ternary forwarding entries and per-node tables
// of a multicast fabric along with their binary exchange format.
//
// A table is evaluated first-match: the action for an address is that of
// the first entry, in table order, whose pattern matches the address.
package table

import (
	"fmt"
	"io"

	"github.com/platinasystems/rtmin/internal/accumulate"
	"github.com/platinasystems/rtmin/ternary"
)

// Capacity is the number of entries of a node's forwarding hardware.
const Capacity = 1 << 10

type Entry struct {
	ternary.Pattern
	// Action: the outputs of a matched packet.
	Routes Routes
	// Input links of matching packets; carried by the extended format only.
	Sources Routes
}

// NewEntry validates the key and mask encoding.
func NewEntry(key, mask uint32, routes Routes) (Entry, error) {
	p, err := ternary.New(key, mask)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Pattern: p, Routes: routes}, nil
}

func MustEntry(key, mask uint32, routes ...Route) Entry {
	e, err := NewEntry(key, mask, NewRoutes(routes...))
	if err != nil {
		panic(err)
	}
	return e
}

func (e Entry) String() string {
	return fmt.Sprint(e.Pattern, " ", e.Routes)
}

// Chip identifies a fabric node by its co-ordinates.
type Chip struct {
	X, Y uint8
}

func (c Chip) String() string { return fmt.Sprintf("(%3d, %3d)", c.X, c.Y) }

type Table struct {
	Chip
	Entries []Entry
}

func (t Table) Len() int { return len(t.Entries) }

// Lookup returns the index of the first entry matching addr or -1.
func (t Table) Lookup(addr uint32) int {
	for i, e := range t.Entries {
		if e.Matches(addr) {
			return i
		}
	}
	return -1
}

// Clone returns a table that shares no entries with t.
func (t Table) Clone() Table {
	return Table{t.Chip, append([]Entry(nil), t.Entries...)}
}

// Fprint writes one line per entry, with ternary patterns if tern is set;
// otherwise, with hexadecimal key and mask.
func (t Table) Fprint(w io.Writer, tern bool) (int64, error) {
	acc := accumulate.New(w)
	fmt.Fprintln(acc, t.Chip, len(t.Entries))
	for i, e := range t.Entries {
		pat := e.Pattern.Hex()
		if tern {
			pat = e.Pattern.String()
		}
		fmt.Fprintf(acc, "\t%4d %s %s", i, pat, e.Routes)
		if !e.Sources.Empty() {
			fmt.Fprint(acc, " from ", e.Sources)
		}
		fmt.Fprintln(acc)
	}
	return acc.Tuple()
}

// ByChip indexes tables by their node.
func ByChip(tables []Table) map[Chip]Table {
	m := make(map[Chip]Table, len(tables))
	for _, t := range tables {
		m[t.Chip] = t
	}
	return m
}
