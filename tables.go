// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rtmin

import (
	"context"
	"fmt"

	"github.com/platinasystems/rtmin/table"
)

// Form is Extended if the -x flag is set.
func Form(extended bool) table.Form {
	if extended {
		return table.Extended
	}
	return table.Legacy
}

// ReadTables from the named file, URL, or "-" for context input.
func ReadTables(ctx context.Context, name string, form table.Form) ([]table.Table, error) {
	r, err := Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	tables, err := table.ReadAll(r, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tables, nil
}

// WriteTables to the named file, URL, or "-" for context output.
func WriteTables(ctx context.Context, name string, form table.Form, tables ...table.Table) error {
	w, err := Create(ctx, name)
	if err != nil {
		return err
	}
	if err = table.WriteAll(w, form, tables...); err != nil {
		w.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return w.Close()
}
