// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package rtmin dispatches the commands of the rtmin program. Each
// command is a Func of a context carrying its input, output, and the
// path of command names that selected it.
package rtmin

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

var Prog = filepath.Base(os.Args[0])

type Func = func(context.Context, ...string) error

type Selection map[string]Func

var BuiltIn = Selection{
	"build-info": func(ctx context.Context, args ...string) error {
		if bi, ok := debug.ReadBuildInfo(); ok {
			OutputOf(ctx).Print(bi)
		}
		return nil
	},
	"version": func(ctx context.Context, args ...string) error {
		if bi, ok := debug.ReadBuildInfo(); ok {
			OutputOf(ctx).Println(bi.Main.Version)
		}
		return nil
	},
}

func (m Selection) Keys() []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Selection) Main() {
	StyleLog()
	ctx, stop := Context(context.Background())
	defer stop()
	for k, v := range BuiltIn {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	ctx = WithInput(ctx, os.Stdin)
	ctx = WithOutput(ctx, os.Stdout)
	ctx = WithPath(ctx, Prog)
	timeout := flag.Duration("timeout", 0,
		"Terminate command if incomplete by non-zero limit.")
	flag.CommandLine.Init(Prog, flag.ContinueOnError)
	flag.Usage = func() {
		Usage(ctx, "[-timeout DURATION] COMMAND [OPTION]...\n",
			"\n",
			m)
	}
	ctx = WithUsage(ctx, flag.Usage)
	if err := flag.CommandLine.Parse(os.Args[1:]); err == flag.ErrHelp {
		return
	} else if err != nil {
		PlainLog()
		Fatal(err)
	}
	if *timeout != 0 {
		t, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()
		ctx = t
	}
	args := flag.Args()
	ctx, args = Preempt(ctx, args)
	defer recovery()
	if err := m.Select(ctx, args...); err != nil {
		PlainLog()
		Fatal(err)
	}
}

func (m Selection) Select(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		switch Preemption(ctx) {
		case "":
			if f, found := m[""]; found {
				return f(ctx)
			}
			return ErrorfWith(ctx, "COMMAND: missing")
		case "complete":
			m.complete(ctx)
		case "help":
			m.usage(ctx)
		}
	} else if f, found := m[args[0]]; found {
		ctx = WithPath(ctx, args[0])
		return f(ctx, args[1:]...)
	} else {
		switch Preemption(ctx) {
		case "":
			return ErrorfWith(ctx, "%s: command not found", args[0])
		case "complete":
			m.complete(ctx, args...)
		case "help":
			m.usage(ctx)
		}
	}
	return nil
}

func (m Selection) complete(ctx context.Context, args ...string) {
	o := OutputOf(ctx)
	for _, s := range CompleteStrings(m.Keys(), args) {
		o.Println(s)
	}
}

func (m Selection) usage(ctx context.Context) {
	if usage := UsageOf(ctx); usage != nil {
		usage()
	} else {
		Usage(ctx, "COMMAND [OPTION]...\n", m)
	}
}

func recovery() {
	r := recover()
	if r == nil {
		return
	}
	sb := new(strings.Builder)
	fmt.Fprintln(sb, r)
	pcs := make([]uintptr, 64)
	if n := runtime.Callers(2, pcs); n > 0 {
		frames := runtime.CallersFrames(pcs[:n])
		for {
			f, more := frames.Next()
			if len(f.Function) == 0 {
				break
			}
			if strings.Contains(f.File, "runtime/") {
				continue
			}
			fmt.Fprint(sb, "    ", f.Function, "()\n")
			fmt.Fprint(sb, "        ", f.File, ":", f.Line, "\n")
			if !more {
				break
			}
		}
	}
	PlainLog()
	Fatal(sb)
}
