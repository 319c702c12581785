// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package grouped

import (
	"errors"
	"fmt"
	"time"

	"github.com/platinasystems/rtmin/table"
)

// ErrCapacityExceeded is for callers that refuse tables too large for the
// forwarding hardware; Compact only reports these with OverCapacity.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// Result of a node's compaction.
type Result struct {
	table.Chip
	// Number of entries of the input and compacted tables.
	Before, After int
	// Number of default routes removed from the input.
	Defaults int
	Capacity int
	Elapsed  time.Duration
	// Compacted table; empty if Err.
	Table table.Table
	Err   error
}

func (r Result) OverCapacity() bool { return r.After > r.Capacity }

// Reduction is the percentage of input entries eliminated.
func (r Result) Reduction() float64 {
	if r.Before == 0 {
		return 0
	}
	return 100 * float64(r.Before-r.After) / float64(r.Before)
}

// String formats the result as a tab separated summary line.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprint(r.Chip, "\t", r.Before, "\t", r.Err)
	}
	return fmt.Sprintf("%v\t%d\t%d\t%.1f%%", r.Chip, r.Before, r.After,
		r.Reduction())
}

// CheckCapacity returns an error wrapping ErrCapacityExceeded if the
// compacted table is too large.
func (r Result) CheckCapacity() error {
	if r.OverCapacity() {
		return fmt.Errorf("%v: %d entries: %w %d", r.Chip, r.After,
			ErrCapacityExceeded, r.Capacity)
	}
	return nil
}
