// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package grouped

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/platinasystems/rtmin/internal/tabletest"
	"github.com/platinasystems/rtmin/internal/test"
	"github.com/platinasystems/rtmin/minimizer"
	"github.com/platinasystems/rtmin/mtrie"
	"github.com/platinasystems/rtmin/oracle"
	"github.com/platinasystems/rtmin/table"
	"github.com/platinasystems/rtmin/ternary"
)

var (
	one = table.NewRoutes(table.Route(1))
	two = table.NewRoutes(table.Route(2))
)

func entry(key, mask uint32, routes table.Routes) table.Entry {
	return table.Entry{Pattern: ternary.MustNew(key, mask), Routes: routes}
}

var scenario = table.Table{
	Chip: table.Chip{X: 0, Y: 0},
	Entries: []table.Entry{
		entry(0x0, 0xf, one),
		entry(0x1, 0xf, one),
		entry(0x2, 0xf, two),
	},
}

func TestScenario(t *testing.T) {
	for _, c := range []*Compactor{
		{},
		{Joint: true},
		{NoOffSet: true},
	} {
		assert := test.Assert{TB: t}
		res, err := c.Compact(context.Background(), scenario)
		assert.Nil(err)
		assert.DeepEqual(res.Table.Entries, []table.Entry{
			entry(0x2, 0xf, two),
			entry(0x0, 0xe, one),
		})
		assert.True(oracle.IsValidReplacement(scenario.Entries,
			res.Table.Entries))
		assert.True(res.Before == 3 && res.After == 2)
		assert.True(res.Capacity == table.Capacity)
		assert.False(res.OverCapacity())
		assert.Equal(res.String(), "(  0,   0)\t3\t2\t33.3%")
	}
}

func TestProblems(t *testing.T) {
	assert := test.Assert{TB: t}
	var problems []minimizer.Problem
	c := &Compactor{
		Minimizer: minimizer.Func(func(ctx context.Context, p minimizer.Problem) ([]minimizer.Cube, error) {
			problems = append(problems, p)
			return mtrie.Minimizer{}.Minimize(ctx, p)
		}),
	}
	_, err := c.Compact(context.Background(), scenario)
	assert.Nil(err)
	assert.DeepEqual(problems, []minimizer.Problem{
		{
			Outputs: 1,
			Cubes: []minimizer.Cube{
				{Pattern: ternary.MustNew(0x2, 0xf), On: 1},
				{Pattern: ternary.MustNew(0x0, 0xf), Off: 1},
				{Pattern: ternary.MustNew(0x1, 0xf), Off: 1},
			},
		},
		{
			Outputs: 1,
			Cubes: []minimizer.Cube{
				{Pattern: ternary.MustNew(0x0, 0xf), On: 1},
				{Pattern: ternary.MustNew(0x1, 0xf), On: 1},
			},
		},
	})

	problems = problems[:0]
	c.Joint = true
	_, err = c.Compact(context.Background(), scenario)
	assert.Nil(err)
	assert.DeepEqual(problems, []minimizer.Problem{
		{
			Outputs: 2,
			Cubes: []minimizer.Cube{
				{Pattern: ternary.MustNew(0x2, 0xf), On: 1, Off: 2},
				{Pattern: ternary.MustNew(0x0, 0xf), On: 2, Off: 1},
				{Pattern: ternary.MustNew(0x1, 0xf), On: 2, Off: 1},
			},
		},
	})
}

func TestOffSet(t *testing.T) {
	assert := test.Assert{TB: t}
	p := ternary.MustNew(1, 1)
	cubes, err := mtrie.Minimizer{}.Minimize(context.Background(),
		minimizer.Problem{
			Outputs: 1,
			Cubes: []minimizer.Cube{
				{Pattern: p, On: 1},
				{Pattern: p, Off: 1},
			},
		})
	assert.Nil(err)
	assert.DeepEqual(cubes, []minimizer.Cube{{Pattern: p, On: 1}})
}

func TestPartition(t *testing.T) {
	assert := test.Assert{TB: t}
	a, b, c, d := table.NewRoutes(table.Core(0)), table.NewRoutes(table.Core(1)),
		table.NewRoutes(table.Core(2)), table.NewRoutes(table.Core(3))
	var l []table.Entry
	for i, r := range []table.Routes{a, b, b, c, c, c, d} {
		e := entry(uint32(i), 0xf, r)
		e.Sources = table.NewRoutes(table.Route(i % 2))
		l = append(l, e)
	}
	groups := Partition(l, false)
	var order []table.Routes
	for _, g := range groups {
		order = append(order, g.Routes)
	}
	assert.DeepEqual(order, []table.Routes{a, d, b, c})
	assert.True(groups[2].Sources == table.NewRoutes(0, 1))
	assert.True(len(Partition(l, true)) == 6)
	assert.True(len(Partition(nil, false)) == 0)
}

func TestSources(t *testing.T) {
	from := func(key, mask uint32, src table.Route) table.Entry {
		e := entry(key, mask, one)
		e.Sources = table.NewRoutes(src)
		return e
	}
	tbl := table.Table{Entries: []table.Entry{
		from(0x00, 0xff, table.East),
		from(0x13, 0xff, table.North),
		from(0x20, 0xff, table.West),
		from(0x21, 0xff, table.South),
	}}
	for _, c := range []*Compactor{{}, {Joint: true}} {
		assert := test.Assert{TB: t}
		res, err := c.Compact(context.Background(), tbl)
		assert.Nil(err)
		got := make(map[ternary.Pattern]table.Routes)
		for _, e := range res.Table.Entries {
			got[e.Pattern] = e.Sources
		}
		assert.DeepEqual(got, map[ternary.Pattern]table.Routes{
			ternary.MustNew(0x00, 0xff): table.NewRoutes(table.East),
			ternary.MustNew(0x13, 0xff): table.NewRoutes(table.North),
			ternary.MustNew(0x20, 0xfe): table.NewRoutes(table.West,
				table.South),
		})
	}
}

func TestResolve(t *testing.T) {
	assert := test.Assert{TB: t}
	l := []table.Entry{
		entry(0x0, 0xe, one),
		entry(0x0, 0x0, two),
	}
	resolved := Resolve(l)
	assert.True(len(resolved) == 4)
	for i, e := range resolved[1:] {
		assert.True(e.Routes == two)
		assert.False(e.Intersects(resolved[0].Pattern))
		for _, d := range resolved[i+2:] {
			assert.False(e.Intersects(d.Pattern))
		}
	}
	assert.True(oracle.IsValidReplacement(l, resolved))
	assert.True(oracle.IsValidReplacement(resolved, l))
	disjoint := scenario.Entries
	assert.DeepEqual(Resolve(disjoint), disjoint)

	c := new(Compactor)
	res, err := c.Compact(context.Background(), table.Table{Entries: l})
	assert.Nil(err)
	assert.True(oracle.IsValidReplacement(l, res.Table.Entries))
	assert.True(res.After <= 2)
}

func TestRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(*test.Seed))
	compactors := map[string]*Compactor{
		"each":     {},
		"joint":    {Joint: true},
		"no-off":   {NoOffSet: true},
		"source":   {BySource: true},
		"unmerged": {Minimizer: minimizer.Unmerged},
	}
	for _, gen := range []struct {
		name     string
		random   func(*rand.Rand, int, int) []table.Entry
		mismatch func(original, candidate []table.Entry) (uint32, bool)
	}{
		{"low", tabletest.Random, tabletest.Mismatch},
		{"spread", tabletest.Spread, tabletest.MismatchSpread},
	} {
		gen := gen
		for name, c := range compactors {
			c := c
			t.Run(gen.name+"/"+name, func(t *testing.T) {
				for i := 0; i < 40; i++ {
					assert := test.Assert{TB: t}
					tbl := table.Table{
						Entries: gen.random(rng, 1+rng.Intn(40), 3),
					}
					res, err := c.Compact(context.Background(), tbl)
					assert.Nil(err)
					assert.True(res.After <= res.Before)
					if addr, bad := gen.mismatch(tbl.Entries, res.Table.Entries); bad {
						t.Fatalf("%#x: %v\n%v", addr, tbl.Entries,
							res.Table.Entries)
					}
				}
			})
		}
	}
}

func TestCoverageFailure(t *testing.T) {
	assert := test.Assert{TB: t}
	c := &Compactor{
		Minimizer: minimizer.Func(func(context.Context, minimizer.Problem) ([]minimizer.Cube, error) {
			return []minimizer.Cube{{Pattern: ternary.Any, On: 1}}, nil
		}),
	}
	res, err := c.Compact(context.Background(), scenario)
	var failure *oracle.CoverageFailure
	assert.True(errors.As(err, &failure))
	assert.True(failure.Index == 0 && failure.Shadow == 0)
	assert.Match(err.Error(), `^\(  0,   0\): entry 0: `)
	assert.True(res.Err == err)
	assert.True(res.Table.Len() == 0)
}

func TestOversize(t *testing.T) {
	assert := test.Assert{TB: t}
	c := &Compactor{
		Minimizer: minimizer.Func(func(_ context.Context, p minimizer.Problem) ([]minimizer.Cube, error) {
			on := p.OnSet()
			return append(on, on...), nil
		}),
	}
	res, err := c.Compact(context.Background(), scenario)
	assert.Nil(err)
	assert.DeepEqual(res.Table.Entries, scenario.Entries)
	assert.True(res.After == 3)
}

func TestDelegateError(t *testing.T) {
	assert := test.Assert{TB: t}
	c := &Compactor{
		Minimizer: minimizer.Func(func(context.Context, minimizer.Problem) ([]minimizer.Cube, error) {
			return nil, minimizer.ErrTimeout
		}),
	}
	_, err := c.Compact(context.Background(), scenario)
	assert.Error(err, minimizer.ErrTimeout)
	c.Minimizer = minimizer.Fallback{Primary: c.Minimizer}
	res, err := c.Compact(context.Background(), scenario)
	assert.Nil(err)
	assert.True(res.After == 3)
}

func TestDefaults(t *testing.T) {
	assert := test.Assert{TB: t}
	straight := entry(0x1, 0xf, table.NewRoutes(table.East))
	straight.Sources = table.NewRoutes(table.West)
	turn := entry(0x2, 0xf, table.NewRoutes(table.North))
	turn.Sources = table.NewRoutes(table.West)
	tbl := table.Table{Entries: []table.Entry{straight, turn}}
	res, err := (&Compactor{RemoveDefaultRoutes: true}).Compact(
		context.Background(), tbl)
	assert.Nil(err)
	assert.True(res.Defaults == 1)
	assert.DeepEqual(res.Table.Entries, []table.Entry{turn})
	res, err = new(Compactor).Compact(context.Background(), tbl)
	assert.Nil(err)
	assert.True(res.Defaults == 0 && res.After == 2)

	// compacted entries keep their own sources so a later pass may still
	// find the defaults among them
	other := entry(0x8, 0xf, table.NewRoutes(table.East))
	other.Sources = table.NewRoutes(table.South)
	tbl.Entries = []table.Entry{straight, other}
	res, err = new(Compactor).Compact(context.Background(), tbl)
	assert.Nil(err)
	assert.True(res.After == 2)
	res, err = (&Compactor{RemoveDefaultRoutes: true}).Compact(
		context.Background(), res.Table)
	assert.Nil(err)
	assert.True(res.Defaults == 1)
	assert.DeepEqual(res.Table.Entries, []table.Entry{other})
}

func TestCapacity(t *testing.T) {
	assert := test.Assert{TB: t}
	res, err := (&Compactor{Capacity: 1}).Compact(context.Background(),
		scenario)
	assert.Nil(err)
	assert.True(res.OverCapacity())
	assert.Error(res.CheckCapacity(), ErrCapacityExceeded)
	assert.Nil(Result{Capacity: 1}.CheckCapacity())
}

func TestElapsed(t *testing.T) {
	assert := test.Assert{TB: t}
	mock := clock.NewMock()
	c := &Compactor{
		Clock: mock,
		Minimizer: minimizer.Func(func(ctx context.Context, p minimizer.Problem) ([]minimizer.Cube, error) {
			mock.Add(time.Second)
			return mtrie.Minimizer{}.Minimize(ctx, p)
		}),
	}
	res, err := c.Compact(context.Background(), scenario)
	assert.Nil(err)
	assert.True(res.Elapsed == 2*time.Second)
}

func TestCanceled(t *testing.T) {
	assert := test.Assert{TB: t}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := new(Compactor).Compact(ctx, scenario)
	assert.Error(err, context.Canceled)
	assert.True(res.Err != nil)
}

func TestEmpty(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, c := range []*Compactor{{}, {Joint: true}} {
		res, err := c.Compact(context.Background(), table.Table{})
		assert.Nil(err)
		assert.True(res.After == 0)
		assert.True(res.Reduction() == 0)
	}
}
