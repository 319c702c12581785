// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package grouped

import (
	"sort"

	"github.com/platinasystems/rtmin/oracle"
	"github.com/platinasystems/rtmin/table"
	"github.com/platinasystems/rtmin/ternary"
)

// Group has the patterns of the entries sharing routes and, if grouping by
// source, sources.
type Group struct {
	Routes  table.Routes
	Sources table.Routes
	// Patterns and the sources of their entries.
	Patterns []ternary.Pattern
	sources  []table.Routes
}

func (g *Group) Len() int { return len(g.Patterns) }

func (g *Group) add(e table.Entry) {
	g.Sources |= e.Sources
	g.Patterns = append(g.Patterns, e.Pattern)
	g.sources = append(g.sources, e.Sources)
}

// SourcesOf returns the union of the sources of the group's entries that
// intersect p, so an entry that comes out of minimization unchanged keeps
// its own sources.
func (g *Group) SourcesOf(p ternary.Pattern) (s table.Routes) {
	for i, q := range g.Patterns {
		if q.Intersects(p) {
			s |= g.sources[i]
		}
	}
	return
}

type groupKey struct {
	routes, sources table.Routes
}

// Partition groups the entries by routes, and if bySource, by sources,
// then sorts the groups from smallest to largest; groups of equal size
// remain in order of first appearance. Without bySource, the sources of a
// group are those of all of its entries.
func Partition(entries []table.Entry, bySource bool) []*Group {
	var groups []*Group
	index := make(map[groupKey]*Group)
	for _, e := range entries {
		k := groupKey{routes: e.Routes}
		if bySource {
			k.sources = e.Sources
		}
		g, found := index[k]
		if !found {
			g = &Group{Routes: e.Routes}
			index[k] = g
			groups = append(groups, g)
		}
		g.add(e)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Len() < groups[j].Len()
	})
	return groups
}

// Resolve returns entries routing every address as the given entries do
// in which entries of different routes never intersect, so they may be
// reordered. Each conflicting entry is replaced by the disjoint patterns of
// the addresses that it first matches; shadowed entries are dropped.
func Resolve(entries []table.Entry) []table.Entry {
	if !conflicts(entries) {
		return entries
	}
	l := make([]table.Entry, 0, len(entries))
	for i, e := range entries {
		for _, p := range oracle.Effective(entries, i) {
			l = append(l, table.Entry{
				Pattern: p,
				Routes:  e.Routes,
				Sources: e.Sources,
			})
		}
	}
	return l
}

func conflicts(entries []table.Entry) bool {
	for i, e := range entries {
		for _, d := range entries[:i] {
			if d.Routes != e.Routes && d.Intersects(e.Pattern) {
				return true
			}
		}
	}
	return false
}
