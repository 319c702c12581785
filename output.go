// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rtmin

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	outputMark int
	outputKey  = &outputMark
)

func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return Output{ctx, w}
}

// Output is the command's writer for reports and "-" tables. It discards
// everything once its context is done; a nil writer discards everything.
type Output struct {
	context.Context
	w io.Writer
}

func OutputOf(ctx context.Context) Output {
	if v := ctx.Value(outputKey); v != nil {
		return v.(Output)
	}
	return Output{ctx, nil}
}

// IsTerminal is true if the output is a terminal.
func (o Output) IsTerminal() bool {
	f, ok := o.w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (o Output) Print(args ...interface{}) {
	fmt.Fprint(o, args...)
}

func (o Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o, format, args...)
}

func (o Output) Println(args ...interface{}) {
	fmt.Fprintln(o, args...)
}

func (o Output) Value(k interface{}) interface{} {
	if k == outputKey {
		return o
	}
	return o.Context.Value(k)
}

func (o Output) Write(data []byte) (int, error) {
	if err := o.Err(); err != nil {
		return 0, err
	}
	if o.w == nil {
		return len(data), nil
	}
	return o.w.Write(data)
}
