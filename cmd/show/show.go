// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package show provides the command that prints tables.
package show

import (
	"context"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/rtmin"
)

const Usage = `[-x] [-ternary] FILE...
Print each table of FILE(s), or standard input (-), with an entry per line.

Options:
	-x	extended table format, with entry sources
	-ternary
		print patterns as 32 of 0, 1, or - instead of key/mask`

var options = []string{"-x", "-ternary"}

func Main(ctx context.Context, args ...string) error {
	o := rtmin.OutputOf(ctx)
	switch rtmin.Preemption(ctx) {
	case "":
	case "complete":
		for _, s := range rtmin.CompleteOptions(options, args) {
			o.Println(s)
		}
		return nil
	case "help":
		rtmin.Usage(ctx, Usage)
		fallthrough
	default:
		return nil
	}
	flag, args := flags.New(args, "-x", "-ternary")
	if len(args) == 0 {
		args = append(args, "-")
	}
	form := rtmin.Form(flag.ByName["-x"])
	for _, fn := range args {
		tables, err := rtmin.ReadTables(ctx, fn, form)
		if err != nil {
			return err
		}
		for _, t := range tables {
			if _, err = t.Fprint(o, flag.ByName["-ternary"]); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}
