// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rtmin

import "context"

var (
	pathMark int
	pathKey  = &pathMark
)

// PathOf returns a FIFO of each element appended to the context.
func PathOf(ctx context.Context) []string {
	var l []string
	for v := ctx.Value(pathKey); v != nil; v = ctx.Value(pathKey) {
		p := v.(path)
		l = append(l, p.name)
		ctx = p.Context
	}
	for i, j := 0, len(l)-1; i < j; i, j = i+1, j-1 {
		l[i], l[j] = l[j], l[i]
	}
	return l
}

// WithPath appends an element to the context path.
func WithPath(ctx context.Context, name string) context.Context {
	return path{ctx, name}
}

type path struct {
	context.Context
	name string
}

func (p path) Value(k interface{}) interface{} {
	if k == pathKey {
		return p
	}
	return p.Context.Value(k)
}
