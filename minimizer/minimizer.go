// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package minimizer describes the two-level, multiple-output minimization
// problems handed to a pluggable minimizer.
package minimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/platinasystems/log"
	"github.com/platinasystems/rtmin/ternary"
)

// A minimizer returns one of these when it can't produce a result;
// callers may fall back to another minimizer.
var (
	ErrUnavailable = errors.New("minimizer unavailable")
	ErrTimeout     = errors.New("minimizer timeout")
)

// MaxOutputs is the most output columns of a Problem.
const MaxOutputs = 64

// Cube is a pattern with per-output membership. Bit j of On has the
// pattern in the on-set of output j; bit j of Off has it in the off-set.
// Outputs with neither bit are don't-care.
type Cube struct {
	ternary.Pattern
	On, Off uint64
}

func (c Cube) String() string {
	return fmt.Sprint(c.Pattern, " ", outputs(c.On, c.Off, MaxOutputs))
}

// Outputs formats the output columns of c as 1 (on), 0 (off) or -.
func (c Cube) Outputs(n int) string { return outputs(c.On, c.Off, n) }

func outputs(on, off uint64, n int) string {
	var sb strings.Builder
	for j := 0; j < n; j++ {
		switch bit := uint64(1) << j; {
		case on&bit != 0:
			sb.WriteByte('1')
		case off&bit != 0:
			sb.WriteByte('0')
		default:
			sb.WriteByte('-')
		}
	}
	s := sb.String()
	if n == MaxOutputs {
		s = strings.TrimRight(s, "-")
	}
	return s
}

type Problem struct {
	Outputs int
	Cubes   []Cube
}

func (p Problem) Valid() error {
	if p.Outputs < 1 || p.Outputs > MaxOutputs {
		return fmt.Errorf("%d outputs: out of range", p.Outputs)
	}
	return nil
}

// OnSet returns the cubes with a membership in any on-set.
func (p Problem) OnSet() []Cube {
	l := make([]Cube, 0, len(p.Cubes))
	for _, c := range p.Cubes {
		if c.On != 0 {
			l = append(l, Cube{Pattern: c.Pattern, On: c.On})
		}
	}
	return l
}

// Column returns the on-set patterns of output j.
func (p Problem) Column(j int) []ternary.Pattern {
	var l []ternary.Pattern
	for _, c := range p.Cubes {
		if c.On&(1<<j) != 0 {
			l = append(l, c.Pattern)
		}
	}
	return l
}

// A Minimizer returns cubes such that, for every output, the union of the
// result's on-sets covers that of the problem and never meets its
// off-set. Results have an empty Off.
type Minimizer interface {
	Minimize(context.Context, Problem) ([]Cube, error)
}

type Func func(context.Context, Problem) ([]Cube, error)

func (f Func) Minimize(ctx context.Context, p Problem) ([]Cube, error) {
	return f(ctx, p)
}

// Unmerged returns the on-set as is.
var Unmerged = Func(func(_ context.Context, p Problem) ([]Cube, error) {
	if err := p.Valid(); err != nil {
		return nil, err
	}
	return p.OnSet(), nil
})

// Fallback tries Primary then, if that was unavailable or timed out,
// Secondary; without a Secondary, it returns the unmerged on-set.
type Fallback struct {
	Primary, Secondary Minimizer
}

func (fb Fallback) Minimize(ctx context.Context, p Problem) ([]Cube, error) {
	cubes, err := fb.Primary.Minimize(ctx, p)
	if err == nil || !Recoverable(err) {
		return cubes, err
	}
	log.Print("warn", "minimizer: ", err, "; falling back")
	if fb.Secondary != nil {
		cubes, err = fb.Secondary.Minimize(ctx, p)
		if err == nil || !Recoverable(err) {
			return cubes, err
		}
		log.Print("warn", "minimizer: ", err, "; unmerged")
	}
	return Unmerged(ctx, p)
}

// Recoverable errors leave the problem for another minimizer.
func Recoverable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}
