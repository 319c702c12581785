// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmdtest runs commands with captured output and table files.
package cmdtest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/platinasystems/rtmin"
	"github.com/platinasystems/rtmin/table"
)

// Run the command as "rtmin NAME ARGS..." and return its output.
func Run(f rtmin.Func, name string, args ...string) (string, error) {
	w := new(strings.Builder)
	ctx := rtmin.WithOutput(context.Background(), w)
	ctx = rtmin.WithPath(ctx, "rtmin")
	ctx, args = rtmin.Preempt(ctx, args)
	ctx = rtmin.WithPath(ctx, name)
	err := f(ctx, args...)
	return w.String(), err
}

// Write the tables to a temporary file and return its name.
func Write(t testing.TB, name string, form table.Form, tables ...table.Table) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	err := rtmin.WriteTables(context.Background(), fn, form, tables...)
	if err != nil {
		t.Fatal(err)
	}
	return fn
}

// Read the tables of the named file.
func Read(t testing.TB, fn string, form table.Form) []table.Table {
	t.Helper()
	tables, err := rtmin.ReadTables(context.Background(), fn, form)
	if err != nil {
		t.Fatal(err)
	}
	return tables
}
