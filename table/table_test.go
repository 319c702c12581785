// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package table

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/platinasystems/rtmin/internal/test"
	"github.com/platinasystems/rtmin/ternary"
)

func TestRoutes(t *testing.T) {
	assert := test.Assert{TB: t}
	s := NewRoutes(East, Core(3))
	assert.Equal(s.String(), "{east, core_3}")
	assert.True(s == Routes(1|1<<9))
	assert.True(s.Len() == 2)
	assert.True(s.Has(Core(3)))
	assert.False(s.Has(West))
	assert.DeepEqual(s.Without(East).Routes(), []Route{Core(3)})
	_, ok := s.Only()
	assert.False(ok)
	r, ok := NewRoutes(North).Only()
	assert.True(ok && r == North)
	assert.Equal(Routes(0).String(), "{}")
}

func TestOpposite(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, x := range []struct{ a, b Route }{
		{East, West},
		{NorthEast, SouthWest},
		{North, South},
	} {
		assert.True(x.a.Opposite() == x.b)
		assert.True(x.b.Opposite() == x.a)
	}
	assert.True(Core(1).Opposite() == Core(1))
	assert.Equal(NorthEast.String(), "north_east")
}

func TestNewEntry(t *testing.T) {
	assert := test.Assert{TB: t}
	_, err := NewEntry(0x3, 0x1, NewRoutes(East))
	assert.Error(err, ternary.ErrInvalidEncoding)
	e, err := NewEntry(0x1, 0xf, NewRoutes(East))
	assert.Nil(err)
	assert.True(e.Matches(0x11))
	assert.False(e.Matches(0x12))
}

func TestLookup(t *testing.T) {
	assert := test.Assert{TB: t}
	tbl := Table{Entries: []Entry{
		MustEntry(0x0, 0xf, Core(1)),
		MustEntry(0x0, 0x0, Core(2)),
	}}
	assert.True(tbl.Lookup(0x10) == 0)
	assert.True(tbl.Lookup(0x11) == 1)
	assert.True(Table{}.Lookup(0) == -1)
}

func randomTables(rng *rand.Rand, n int) []Table {
	tables := make([]Table, n)
	for i := range tables {
		tables[i].Chip = Chip{uint8(rng.Intn(256)), uint8(rng.Intn(256))}
		tables[i].Entries = make([]Entry, rng.Intn(40))
		for j := range tables[i].Entries {
			mask := rng.Uint32()
			tables[i].Entries[j] = Entry{
				Pattern: ternary.Pattern{
					Key:  rng.Uint32() & mask,
					Mask: mask,
				},
				Routes:  Routes(rng.Uint32() & (1<<NRoutes - 1)),
				Sources: Routes(rng.Uint32() & (1<<NLinks - 1)),
			}
		}
	}
	return tables
}

func TestRoundTrip(t *testing.T) {
	assert := test.Assert{TB: t}
	rng := rand.New(rand.NewSource(*test.Seed))
	tables := randomTables(rng, 8)
	t.Run("extended", func(t *testing.T) {
		assert := test.Assert{TB: t}
		buf := new(bytes.Buffer)
		assert.Nil(WriteAll(buf, Extended, tables...))
		got, err := ReadAll(buf, Extended)
		assert.Nil(err)
		assert.DeepEqual(got, tables)
	})
	t.Run("legacy", func(t *testing.T) {
		assert := test.Assert{TB: t}
		buf := new(bytes.Buffer)
		assert.Nil(WriteAll(buf, Legacy, tables...))
		size := 0
		for _, tbl := range tables {
			size += headerSize + 12*len(tbl.Entries)
		}
		assert.True(buf.Len() == size)
		got, err := ReadAll(buf, Legacy)
		assert.Nil(err)
		assert.True(len(got) == len(tables))
		for i, tbl := range got {
			assert.True(tbl.Chip == tables[i].Chip)
			assert.True(len(tbl.Entries) == len(tables[i].Entries))
			for j, e := range tbl.Entries {
				want := tables[i].Entries[j]
				want.Sources = 0
				assert.DeepEqual(e, want)
			}
		}
	})
	assert.True(len(tables) == 8)
}

func TestWireLayout(t *testing.T) {
	assert := test.Assert{TB: t}
	buf := new(bytes.Buffer)
	assert.Nil(WriteAll(buf, Legacy, Table{Chip{1, 2}, []Entry{
		MustEntry(0x1, 0xf, East, Core(0)),
	}}))
	want := []byte{1, 2, 1, 0}
	for _, w := range []uint32{0x1, 0xf, 1 | 1<<6} {
		want = binary.LittleEndian.AppendUint32(want, w)
	}
	assert.DeepEqual(buf.Bytes(), want)
}

func TestTruncated(t *testing.T) {
	assert := test.Assert{TB: t}
	buf := new(bytes.Buffer)
	assert.Nil(WriteAll(buf, Legacy, Table{Chip{0, 0}, []Entry{
		MustEntry(0x1, 0xf, East),
		MustEntry(0x2, 0xf, East),
	}}))
	b := buf.Bytes()
	_, err := ReadAll(bytes.NewReader(b[:len(b)-1]), Legacy)
	assert.Error(err, io.ErrUnexpectedEOF)
	_, err = ReadAll(bytes.NewReader(b[:2]), Legacy)
	assert.Error(err, io.ErrUnexpectedEOF)
	tables, err := ReadAll(bytes.NewReader(nil), Legacy)
	assert.Nil(err)
	assert.True(len(tables) == 0)
}

func TestInvalidEncoding(t *testing.T) {
	assert := test.Assert{TB: t}
	b := []byte{3, 4, 1, 0}
	for _, w := range []uint32{0x3, 0x1, 1} {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	_, err := ReadAll(bytes.NewReader(b), Legacy)
	assert.Error(err, ternary.ErrInvalidEncoding)
	assert.True(strings.Contains(err.Error(), "(  3,   4): entry 0"))
}

func TestTooManyEntries(t *testing.T) {
	assert := test.Assert{TB: t}
	tbl := Table{Entries: make([]Entry, 1<<16)}
	assert.Error(WriteAll(io.Discard, Legacy, tbl), ErrTooManyEntries)
}

func TestRemoveDefaultRoutes(t *testing.T) {
	assert := test.Assert{TB: t}
	entry := func(key, mask uint32, src, dst Routes) Entry {
		return Entry{ternary.MustNew(key, mask), dst, src}
	}
	straight := entry(0x1, 0xf, NewRoutes(West), NewRoutes(East))
	turn := entry(0x2, 0xf, NewRoutes(West), NewRoutes(North))
	local := entry(0x3, 0xf, NewRoutes(West), NewRoutes(Core(1)))
	fork := entry(0x4, 0xf, NewRoutes(South), NewRoutes(North, East))
	legacy := Entry{ternary.MustNew(0x5, 0xf), NewRoutes(East), 0}
	got := RemoveDefaultRoutes([]Entry{straight, turn, local, fork, legacy})
	assert.DeepEqual(got, []Entry{turn, local, fork, legacy})

	t.Run("aliased", func(t *testing.T) {
		assert := test.Assert{TB: t}
		wide := entry(0x0, 0x0, NewRoutes(North), NewRoutes(Core(2)))
		l := []Entry{straight, wide}
		assert.DeepEqual(RemoveDefaultRoutes(l), l)
		l = []Entry{wide, straight}
		assert.DeepEqual(RemoveDefaultRoutes(l), []Entry{wide})
	})
}

func TestFprint(t *testing.T) {
	assert := test.Assert{TB: t}
	sb := new(strings.Builder)
	n, err := Table{Chip{1, 2}, []Entry{
		MustEntry(0x1, 0xf, East),
	}}.Fprint(sb, false)
	assert.Nil(err)
	assert.Equal(sb.String(), "(  1,   2) 1\n\t   0 00000001/0000000f {east}\n")
	assert.True(n == int64(sb.Len()))
}
