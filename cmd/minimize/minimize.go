// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package minimize provides the command that compacts every table of a
// stream.
package minimize

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/rtmin"
	"github.com/platinasystems/rtmin/espresso"
	"github.com/platinasystems/rtmin/grouped"
	"github.com/platinasystems/rtmin/minimizer"
	"github.com/platinasystems/rtmin/mtrie"
	"github.com/platinasystems/rtmin/publish"
	"github.com/platinasystems/rtmin/table"
)

const Usage = `[OPTION]... INPUT OUTPUT
Compact each table of INPUT and write them to OUTPUT.
INPUT and OUTPUT may be files, URLs, or - for standard input and output.

Options:
	-v	also print the compacted tables
	-x	extended table format, with entry sources
	-no-offset
		minimize each group without an off-set
	-joint	minimize all groups at once
	-rde	remove default routes
	-by-source
		group entries by sources as well as routes
	-strict	fail if a table exceeds capacity
	-minimizer mtrie|espresso|unmerged
	-espresso PATH
		default: $` + espresso.PathEnv + ` or ` + espresso.DefaultPath + `
	-delegate-timeout DURATION
	-j WORKERS
	-capacity ENTRIES
		default: 1024
	-redis ADDR
		publish results to this redis server`

var options = []string{
	"-v", "-x", "-no-offset", "-joint", "-rde", "-by-source", "-strict",
	"-minimizer", "-espresso", "-delegate-timeout", "-j", "-capacity",
	"-redis",
}

const (
	green = "\x1b[32m"
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

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
	parm, args := parms.New(args, "-minimizer", "-espresso",
		"-delegate-timeout", "-j", "-capacity", "-redis")
	flag, args := flags.New(args, "-v", "-x", "-no-offset", "-joint",
		"-rde", "-by-source", "-strict")
	switch len(args) {
	case 0:
		return rtmin.ErrorfWith(ctx, "INPUT OUTPUT: missing")
	case 1:
		return rtmin.ErrorfWith(ctx, "OUTPUT: missing")
	case 2:
	default:
		return rtmin.ErrorfWith(ctx, "%q: unexpected", args[2:])
	}
	c := &grouped.Compactor{
		NoOffSet:            flag.ByName["-no-offset"],
		Joint:               flag.ByName["-joint"],
		RemoveDefaultRoutes: flag.ByName["-rde"],
		BySource:            flag.ByName["-by-source"],
	}
	var err error
	if c.Minimizer, err = newMinimizer(parm.ByName); err != nil {
		return rtmin.ErrorfWith(ctx, "%w", err)
	}
	b := &grouped.Batch{Compactor: c}
	if s := parm.ByName["-capacity"]; len(s) > 0 {
		if c.Capacity, err = strconv.Atoi(s); err != nil {
			return rtmin.ErrorfWith(ctx, "-capacity: %w", err)
		}
	}
	if s := parm.ByName["-j"]; len(s) > 0 {
		if b.Workers, err = strconv.Atoi(s); err != nil {
			return rtmin.ErrorfWith(ctx, "-j: %w", err)
		}
	}
	form := rtmin.Form(flag.ByName["-x"])
	tables, err := rtmin.ReadTables(ctx, args[0], form)
	if err != nil {
		return err
	}
	var results []grouped.Result
	if addr := parm.ByName["-redis"]; len(addr) > 0 {
		pub, err := publish.Dial(addr, 5*time.Second)
		if err != nil {
			return rtmin.ErrorfWith(ctx, "-redis: %w", err)
		}
		defer pub.Close()
		var errs []error
		b.Done = func(r grouped.Result) {
			errs = append(errs, pub.Publish(r))
		}
		defer func() {
			if err := errors.Join(errs...); err != nil {
				o.Println("redis:", err)
			}
		}()
		defer func() {
			errs = append(errs, pub.Summary(results))
		}()
	}
	results, err = b.Run(ctx, tables)
	tty := o.IsTerminal()
	var before, after int
	for _, r := range results {
		before += r.Before
		after += r.After
		switch {
		case !tty:
			o.Println(r)
		case r.Err != nil || r.OverCapacity():
			o.Print(red, r, reset, "\n")
		default:
			o.Print(green, r, reset, "\n")
		}
		if flag.ByName["-v"] && r.Err == nil {
			r.Table.Fprint(o, false)
		}
	}
	if err != nil {
		return rtmin.ErrorfWith(ctx, "%s: not written: %w", args[1], err)
	}
	o.Printf("total\t%d\t%d\n", before, after)
	out := make([]table.Table, len(results))
	for i, r := range results {
		if flag.ByName["-strict"] {
			if err = r.CheckCapacity(); err != nil {
				return rtmin.ErrorfWith(ctx, "%s: not written: %w",
					args[1], err)
			}
		}
		out[i] = r.Table
	}
	return rtmin.WriteTables(ctx, args[1], form, out...)
}

func newMinimizer(parm map[string]string) (minimizer.Minimizer, error) {
	var timeout time.Duration
	if s := parm["-delegate-timeout"]; len(s) > 0 {
		var err error
		if timeout, err = time.ParseDuration(s); err != nil {
			return nil, fmt.Errorf("-delegate-timeout: %w", err)
		}
	}
	switch name := parm["-minimizer"]; name {
	case "", "mtrie":
		return mtrie.Minimizer{}, nil
	case "espresso":
		return minimizer.Fallback{
			Primary: &espresso.Delegate{
				Path:    parm["-espresso"],
				Timeout: timeout,
			},
			Secondary: mtrie.Minimizer{},
		}, nil
	case "unmerged":
		return minimizer.Unmerged, nil
	default:
		return nil, fmt.Errorf("-minimizer: %q: unknown", name)
	}
}
