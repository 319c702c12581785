// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package grouped

import (
	"context"
	"errors"
	"runtime"

	"github.com/platinasystems/rtmin/table"
	"golang.org/x/sync/errgroup"
)

// Batch compacts the tables of many nodes in parallel; they share nothing
// but the Compactor.
type Batch struct {
	Compactor *Compactor
	// Workers is the most tables compacted at once, default NumCPU.
	Workers int
	// Done, if not nil, is called with each result as it completes.
	Done func(Result)
}

// Run returns a result for every table, in table order, along with the
// joined errors of the failed nodes.
func (b *Batch) Run(ctx context.Context, tables []table.Table) ([]Result, error) {
	c := b.Compactor
	if c == nil {
		c = new(Compactor)
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(tables))
	done := make(chan Result)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for r := range done {
			if b.Done != nil {
				b.Done(r)
			}
		}
	}()
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range tables {
		i := i
		g.Go(func() error {
			results[i], _ = c.Compact(ctx, tables[i])
			done <- results[i]
			return nil
		})
	}
	g.Wait()
	close(done)
	<-finished
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}
