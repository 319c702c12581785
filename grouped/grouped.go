// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package grouped compacts forwarding tables by minimizing the patterns of
// each group of entries that share routes.
//
// The groups are minimized from smallest to largest. The patterns of the
// groups that follow are the off-set of a group's minimization so that its
// result can't match their addresses; the compacted table is then the
// concatenation of the results in the same order. Because any minimizer
// may be used, the compacted table is verified against its input before
// it's returned.
package grouped

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/platinasystems/log"
	"github.com/platinasystems/rtmin/internal/tracing"
	"github.com/platinasystems/rtmin/minimizer"
	"github.com/platinasystems/rtmin/mtrie"
	"github.com/platinasystems/rtmin/oracle"
	"github.com/platinasystems/rtmin/table"
)

// Compactor is safe for concurrent use if its Minimizer is. The zero value
// minimizes each group with an m-Trie.
type Compactor struct {
	Minimizer minimizer.Minimizer
	// NoOffSet omits the off-set of each group's minimization. This is
	// only correct if the Minimizer never matches more than its on-set
	// or no address is matched by entries of different routes; the
	// compacted table is verified regardless.
	NoOffSet bool
	// Joint minimizes all groups at once as the outputs of one problem.
	Joint bool
	// RemoveDefaultRoutes before compaction; the remaining entries are
	// the reference of verification.
	RemoveDefaultRoutes bool
	// BySource groups entries by sources as well as routes.
	BySource bool
	// Capacity of the forwarding hardware, default table.Capacity.
	Capacity int
	Clock    clock.Clock
}

func (c *Compactor) minimizer() minimizer.Minimizer {
	if c.Minimizer == nil {
		return mtrie.Minimizer{}
	}
	return c.Minimizer
}

func (c *Compactor) capacity() int {
	if c.Capacity == 0 {
		return table.Capacity
	}
	return c.Capacity
}

func (c *Compactor) clock() clock.Clock {
	if c.Clock == nil {
		return clock.New()
	}
	return c.Clock
}

// Compact returns the compacted table of a node in its Result. A
// compacted table that isn't a valid replacement is an error wrapping an
// *oracle.CoverageFailure; the Result then has no table.
func (c *Compactor) Compact(ctx context.Context, t table.Table) (res Result, err error) {
	clk := c.clock()
	t0 := clk.Now()
	res = Result{
		Chip:     t.Chip,
		Before:   t.Len(),
		Capacity: c.capacity(),
	}
	ctx, span := tracing.StartSpan(ctx, "Compact", tracing.Chip(t.X, t.Y))
	defer func() {
		res.Elapsed = clk.Since(t0)
		if err != nil {
			err = fmt.Errorf("%v: %w", t.Chip, err)
			res.Err = err
		}
		tracing.End(span, err)
	}()
	if err = ctx.Err(); err != nil {
		return
	}
	ref := t.Entries
	if c.RemoveDefaultRoutes {
		ref = table.RemoveDefaultRoutes(ref)
		if res.Defaults = len(t.Entries) - len(ref); res.Defaults > 0 {
			log.Printf("info", "%v: removed %d default routes",
				t.Chip, res.Defaults)
		}
	}
	groups := Partition(Resolve(ref), c.BySource)
	var entries []table.Entry
	if c.Joint && len(groups) > minimizer.MaxOutputs {
		log.Printf("warn", "%v: %d groups: too many to minimize jointly",
			t.Chip, len(groups))
		entries, err = c.each(ctx, groups)
	} else if c.Joint {
		entries, err = c.joint(ctx, groups)
	} else {
		entries, err = c.each(ctx, groups)
	}
	if err != nil {
		return
	}
	if err = oracle.Check(ref, entries); err != nil {
		return
	}
	if len(entries) > len(ref) {
		log.Printf("info", "%v: %d minimized entries exceed %d; unchanged",
			t.Chip, len(entries), len(ref))
		entries = append([]table.Entry(nil), ref...)
	}
	res.Table = table.Table{Chip: t.Chip, Entries: entries}
	res.After = len(entries)
	if res.OverCapacity() {
		log.Printf("warn", "%v: %d entries exceed capacity of %d",
			t.Chip, res.After, res.Capacity)
	}
	return
}

// each minimizes the groups one at a time.
func (c *Compactor) each(ctx context.Context, groups []*Group) ([]table.Entry, error) {
	var entries []table.Entry
	for i, g := range groups {
		p := minimizer.Problem{
			Outputs: 1,
			Cubes:   make([]minimizer.Cube, 0, g.Len()),
		}
		for _, pat := range g.Patterns {
			p.Cubes = append(p.Cubes, minimizer.Cube{
				Pattern: pat,
				On:      1,
			})
		}
		if !c.NoOffSet {
			for _, h := range groups[i+1:] {
				if h.Routes == g.Routes {
					continue
				}
				for _, pat := range h.Patterns {
					p.Cubes = append(p.Cubes, minimizer.Cube{
						Pattern: pat,
						Off:     1,
					})
				}
			}
		}
		cubes, err := c.minimizer().Minimize(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", g.Routes, err)
		}
		for _, cube := range cubes {
			if cube.On&1 != 0 {
				entries = append(entries, g.entry(cube))
			}
		}
	}
	return entries, nil
}

// joint minimizes all groups at once with an output per group. The cubes
// of a group are in the off-set of every other group with different
// routes.
func (c *Compactor) joint(ctx context.Context, groups []*Group) ([]table.Entry, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	p := minimizer.Problem{Outputs: len(groups)}
	for i, g := range groups {
		var off uint64
		if !c.NoOffSet {
			for j, h := range groups {
				if h.Routes != g.Routes {
					off |= 1 << j
				}
			}
		}
		for _, pat := range g.Patterns {
			p.Cubes = append(p.Cubes, minimizer.Cube{
				Pattern: pat,
				On:      1 << i,
				Off:     off,
			})
		}
	}
	cubes, err := c.minimizer().Minimize(ctx, p)
	if err != nil {
		return nil, err
	}
	var entries []table.Entry
	for i, g := range groups {
		for _, cube := range cubes {
			if cube.On&(1<<i) != 0 {
				entries = append(entries, g.entry(cube))
			}
		}
	}
	return entries, nil
}

func (g *Group) entry(c minimizer.Cube) table.Entry {
	return table.Entry{
		Pattern: c.Pattern,
		Routes:  g.Routes,
		Sources: g.SourcesOf(c.Pattern),
	}
}
