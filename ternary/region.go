// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ternary

import "strings"

// Region is a set of addresses held as pairwise disjoint patterns.
type Region []Pattern

// NewRegion returns the region matched by any of the given patterns.
func NewRegion(ps ...Pattern) Region {
	var r Region
	for _, p := range ps {
		r = r.Union(p)
	}
	return r
}

func (r Region) Empty() bool { return len(r) == 0 }

// Size is the number of addresses in the region.
func (r Region) Size() (n uint64) {
	for _, p := range r {
		n += p.Size()
	}
	return
}

func (r Region) Matches(addr uint32) bool {
	for _, p := range r {
		if p.Matches(addr) {
			return true
		}
	}
	return false
}

// Intersects reports whether any address of q is in the region.
func (r Region) Intersects(q Pattern) bool {
	for _, p := range r {
		if p.Intersects(q) {
			return true
		}
	}
	return false
}

// Intersection returns the part of the region also matched by q.
func (r Region) Intersection(q Pattern) Region {
	var l Region
	for _, p := range r {
		if x, ok := p.Intersect(q); ok {
			l = append(l, x)
		}
	}
	return l
}

// Subtract returns the region without the addresses matched by q.
func (r Region) Subtract(q Pattern) Region {
	var l Region
	for _, p := range r {
		if !p.Intersects(q) {
			l = append(l, p)
			continue
		}
		l = append(l, p.Subtract(q)...)
	}
	return l
}

// Union returns the region with the addresses of q added.
func (r Region) Union(q Pattern) Region {
	add := Region{q}
	for _, p := range r {
		add = add.Subtract(p)
		if add.Empty() {
			break
		}
	}
	l := make(Region, 0, len(r)+len(add))
	l = append(l, r...)
	return append(l, add...)
}

// Covers reports whether every address of q is in the region.
func (r Region) Covers(q Pattern) bool {
	rest := Region{q}
	for _, p := range r {
		rest = rest.Subtract(p)
		if rest.Empty() {
			return true
		}
	}
	return rest.Empty()
}

func (r Region) String() string {
	ss := make([]string, len(r))
	for i, p := range r {
		ss[i] = p.String()
	}
	return "{" + strings.Join(ss, " ") + "}"
}
