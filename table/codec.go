// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package table

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/platinasystems/rtmin/ternary"
)

// Form selects the entry layout of a table stream. Streams don't describe
// their own form.
//
//	header: x:u8, y:u8, n:u16
//	Legacy entry:   key:u32, mask:u32, routes:u32
//	Extended entry: key:u32, mask:u32, sources:u32, routes:u32
//
// All words are little-endian.
type Form int

const (
	Legacy Form = iota
	Extended
)

const headerSize = 4

var ErrTooManyEntries = errors.New("table: too many entries")

func (f Form) EntrySize() int {
	if f == Extended {
		return 16
	}
	return 12
}

func (f Form) String() string {
	if f == Extended {
		return "extended"
	}
	return "legacy"
}

type Decoder struct {
	r    *bufio.Reader
	form Form
}

func NewDecoder(r io.Reader, form Form) *Decoder {
	return &Decoder{bufio.NewReader(r), form}
}

// Decode returns the next table of the stream or io.EOF at its clean end.
// A partial header or entry is io.ErrUnexpectedEOF.
func (d *Decoder) Decode() (t Table, err error) {
	var hdr [headerSize]byte
	if _, err = io.ReadFull(d.r, hdr[:]); err != nil {
		return
	}
	t.Chip = Chip{hdr[0], hdr[1]}
	n := int(binary.LittleEndian.Uint16(hdr[2:]))
	t.Entries = make([]Entry, n)
	buf := make([]byte, d.form.EntrySize())
	for i := range t.Entries {
		if _, err = io.ReadFull(d.r, buf); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return t, fmt.Errorf("%v: entry %d: %w", t.Chip, i, err)
		}
		e := &t.Entries[i]
		key := binary.LittleEndian.Uint32(buf[0:])
		mask := binary.LittleEndian.Uint32(buf[4:])
		if e.Pattern, err = ternary.New(key, mask); err != nil {
			return t, fmt.Errorf("%v: entry %d: %w", t.Chip, i, err)
		}
		if d.form == Extended {
			e.Sources = Routes(binary.LittleEndian.Uint32(buf[8:]))
			e.Routes = Routes(binary.LittleEndian.Uint32(buf[12:]))
		} else {
			e.Routes = Routes(binary.LittleEndian.Uint32(buf[8:]))
		}
	}
	return
}

type Encoder struct {
	w    io.Writer
	form Form
}

func NewEncoder(w io.Writer, form Form) *Encoder {
	return &Encoder{w, form}
}

// Encode writes the table; the Legacy form drops entry sources.
func (enc *Encoder) Encode(t Table) error {
	if len(t.Entries) > math.MaxUint16 {
		return fmt.Errorf("%v: %d: %w", t.Chip, len(t.Entries),
			ErrTooManyEntries)
	}
	sz := enc.form.EntrySize()
	buf := make([]byte, headerSize+len(t.Entries)*sz)
	buf[0], buf[1] = t.X, t.Y
	binary.LittleEndian.PutUint16(buf[2:], uint16(len(t.Entries)))
	b := buf[headerSize:]
	for _, e := range t.Entries {
		binary.LittleEndian.PutUint32(b[0:], e.Key)
		binary.LittleEndian.PutUint32(b[4:], e.Mask)
		if enc.form == Extended {
			binary.LittleEndian.PutUint32(b[8:], uint32(e.Sources))
			binary.LittleEndian.PutUint32(b[12:], uint32(e.Routes))
		} else {
			binary.LittleEndian.PutUint32(b[8:], uint32(e.Routes))
		}
		b = b[sz:]
	}
	_, err := enc.w.Write(buf)
	return err
}

// ReadAll decodes every table of the stream.
func ReadAll(r io.Reader, form Form) ([]Table, error) {
	var tables []Table
	d := NewDecoder(r, form)
	for {
		t, err := d.Decode()
		if err == io.EOF {
			return tables, nil
		}
		if err != nil {
			return tables, err
		}
		tables = append(tables, t)
	}
}

// WriteAll encodes the tables back-to-back.
func WriteAll(w io.Writer, form Form, tables ...Table) error {
	bw := bufio.NewWriter(w)
	enc := NewEncoder(bw, form)
	for _, t := range tables {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return bw.Flush()
}
