// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

/*
Package accumulate provides a Writer wrapper that sums the bytes written.
Use it to print a listing like this,

	func (t TYPE) Fprint(w io.Writer) (int64, error) {
		acc := accumulate.New(w)
		fmt.Fprint(acc, ...)
		...
		fmt.Fprint(acc, ...)
		return acc.Tuple()
	}

An accumulator skips subsequent writes after an error.
*/
package accumulate

import "io"

type Accumulator struct {
	n   int64
	err error
	w   io.Writer
}

func New(w io.Writer) *Accumulator {
	return &Accumulator{w: w}
}

// Error records the first non-nil argument, if any, then returns the first
// error encountered by the accumulator.
func (acc *Accumulator) Error(errs ...error) error {
	for _, err := range errs {
		if acc.err == nil {
			acc.err = err
		}
	}
	return acc.err
}

// Total is the sum of the bytes written.
func (acc *Accumulator) Total() int64 { return acc.n }

func (acc *Accumulator) Tuple() (int64, error) {
	return acc.n, acc.err
}

func (acc *Accumulator) Write(b []byte) (int, error) {
	if acc.err != nil {
		return 0, acc.err
	}
	i, err := acc.w.Write(b)
	acc.n += int64(i)
	acc.err = err
	return i, err
}

func (acc *Accumulator) WriteString(s string) (int, error) {
	return acc.Write([]byte(s))
}
