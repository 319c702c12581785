// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rtmin

import (
	"context"
	"io"

	"github.com/platinasystems/url"
)

var (
	inputMark int
	inputKey  = &inputMark
)

func WithInput(ctx context.Context, r io.Reader) context.Context {
	return Input{ctx, r}
}

type Input struct {
	context.Context
	r io.Reader
}

func InputOf(ctx context.Context) Input {
	if v := ctx.Value(inputKey); v != nil {
		return v.(Input)
	}
	return Input{ctx, nil}
}

func (in Input) Read(buf []byte) (int, error) {
	if err := in.Err(); err != nil {
		return 0, err
	}
	if in.r == nil {
		return 0, io.EOF
	}
	return in.r.Read(buf)
}

func (in Input) Value(k interface{}) interface{} {
	if k == inputKey {
		return in
	}
	return in.Context.Value(k)
}

// Open returns the context input for "-"; otherwise, the named file or URL.
func Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(InputOf(ctx)), nil
	}
	return url.Open(name)
}

type outputCloser struct{ Output }

func (outputCloser) Close() error { return nil }

// Create returns the context output for "-"; otherwise, the named file or
// URL.
func Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if name == "-" {
		return outputCloser{OutputOf(ctx)}, nil
	}
	return url.Create(name)
}
