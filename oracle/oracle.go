// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package oracle decides whether a candidate table may replace an original.
//
// The candidate must route every address that the original routes, and
// route it the same way, by first match. Addresses that the original
// doesn't match are free. The check is symbolic over ternary regions so
// it never enumerates addresses.
package oracle

import (
	"fmt"

	"github.com/platinasystems/rtmin/table"
	"github.com/platinasystems/rtmin/ternary"
)

// CoverageFailure identifies an original entry with addresses that the
// candidate doesn't route the same way.
type CoverageFailure struct {
	// Index of the original entry.
	Index int
	Entry table.Entry
	// Region is one piece of the entry's addresses that fails.
	Region ternary.Pattern
	// Shadow is the index of the candidate entry that first matches
	// Region with other routes or -1 if nothing matches it.
	Shadow int
	// Routes of the shadowing entry.
	Routes table.Routes
}

func (f *CoverageFailure) Error() string {
	if f.Shadow < 0 {
		return fmt.Sprintf("entry %d: %v: %v: no match", f.Index,
			f.Entry, f.Region)
	}
	return fmt.Sprintf("entry %d: %v: %v: shadowed by entry %d %v",
		f.Index, f.Entry, f.Region, f.Shadow, f.Routes)
}

// IsValidReplacement is true if candidate may replace original.
func IsValidReplacement(original, candidate []table.Entry) bool {
	return Check(original, candidate) == nil
}

// Check returns a *CoverageFailure for the first original entry that the
// candidate doesn't replace.
func Check(original, candidate []table.Entry) error {
	for i, e := range original {
		region := Effective(original, i)
		if region.Empty() {
			continue
		}
		for j, c := range candidate {
			if region.Empty() {
				break
			}
			if c.Routes == e.Routes {
				region = region.Subtract(c.Pattern)
				continue
			}
			if shadowed := region.Intersection(c.Pattern); !shadowed.Empty() {
				return &CoverageFailure{
					Index:  i,
					Entry:  e,
					Region: shadowed[0],
					Shadow: j,
					Routes: c.Routes,
				}
			}
		}
		if !region.Empty() {
			return &CoverageFailure{
				Index:  i,
				Entry:  e,
				Region: region[0],
				Shadow: -1,
			}
		}
	}
	return nil
}

// Effective returns the addresses of entries[i] that aren't first matched
// by an earlier entry with other routes.
func Effective(entries []table.Entry, i int) ternary.Region {
	e := entries[i]
	region := ternary.NewRegion(e.Pattern)
	for _, d := range entries[:i] {
		if region.Empty() {
			break
		}
		if d.Routes != e.Routes {
			region = region.Subtract(d.Pattern)
		}
	}
	return region
}
