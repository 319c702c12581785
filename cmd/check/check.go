// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package check provides the command that verifies compacted tables
// against their originals.
package check

import (
	"context"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/rtmin"
	"github.com/platinasystems/rtmin/oracle"
	"github.com/platinasystems/rtmin/table"
)

const Usage = `[-v] [-x] [-rde] ORIGINAL CANDIDATE
Verify that each table of CANDIDATE may replace that of the same node in
ORIGINAL. Print a diagnostic for each node that fails.

Options:
	-v	also print the nodes that pass
	-x	extended table format, with entry sources
	-rde	remove default routes from the original tables`

var options = []string{"-v", "-x", "-rde"}

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
	flag, args := flags.New(args, "-v", "-x", "-rde")
	switch len(args) {
	case 0:
		return rtmin.ErrorfWith(ctx, "ORIGINAL CANDIDATE: missing")
	case 1:
		return rtmin.ErrorfWith(ctx, "CANDIDATE: missing")
	case 2:
	default:
		return rtmin.ErrorfWith(ctx, "%q: unexpected", args[2:])
	}
	form := rtmin.Form(flag.ByName["-x"])
	original, err := rtmin.ReadTables(ctx, args[0], form)
	if err != nil {
		return err
	}
	candidate, err := rtmin.ReadTables(ctx, args[1], form)
	if err != nil {
		return err
	}
	byChip := table.ByChip(candidate)
	failed := 0
	for _, t := range original {
		ref := t.Entries
		if flag.ByName["-rde"] {
			ref = table.RemoveDefaultRoutes(ref)
		}
		c, found := byChip[t.Chip]
		if !found {
			if len(ref) == 0 {
				continue
			}
			failed++
			o.Println(t.Chip, "missing")
			continue
		}
		if err := oracle.Check(ref, c.Entries); err != nil {
			failed++
			o.Println(t.Chip, err)
		} else if flag.ByName["-v"] {
			o.Println(t.Chip, "ok")
		}
	}
	if failed > 0 {
		return rtmin.ErrorfWith(ctx, "%d of %d nodes failed", failed,
			len(original))
	}
	return nil
}
