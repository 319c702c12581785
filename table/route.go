// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package table

import (
	"fmt"
	"math/bits"
	"strings"
)

// Route is one physical output of a fabric node: one of six inter-node links
// or one of the node's cores.
type Route uint8

const (
	East Route = iota
	NorthEast
	North
	West
	SouthWest
	South
	Core0
)

const (
	NLinks  = 6
	NCores  = 18
	NRoutes = NLinks + NCores
)

var linkNames = [NLinks]string{
	East:      "east",
	NorthEast: "north_east",
	North:     "north",
	West:      "west",
	SouthWest: "south_west",
	South:     "south",
}

func Core(i int) Route { return Core0 + Route(i) }

func (r Route) IsLink() bool { return r < NLinks }
func (r Route) IsCore() bool { return r >= Core0 && r < NRoutes }

// Opposite is the link in the reverse direction; cores are their own
// opposite.
func (r Route) Opposite() Route {
	if !r.IsLink() {
		return r
	}
	return (r + NLinks/2) % NLinks
}

func (r Route) String() string {
	switch {
	case r.IsLink():
		return linkNames[r]
	case r.IsCore():
		return fmt.Sprint("core_", int(r-Core0))
	}
	return fmt.Sprint("route_", int(r))
}

// Routes is a set of Route with bit r set for each member r. This is also
// the wire form of an entry's action and source.
type Routes uint32

func NewRoutes(rs ...Route) (s Routes) {
	for _, r := range rs {
		s = s.With(r)
	}
	return
}

func (s Routes) Has(r Route) bool       { return s&(1<<r) != 0 }
func (s Routes) With(r Route) Routes    { return s | 1<<r }
func (s Routes) Without(r Route) Routes { return s &^ (1 << r) }
func (s Routes) Len() int               { return bits.OnesCount32(uint32(s)) }
func (s Routes) Empty() bool            { return s == 0 }

// Routes lists the members in ascending order.
func (s Routes) Routes() []Route {
	l := make([]Route, 0, s.Len())
	for w := uint32(s); w != 0; w &= w - 1 {
		l = append(l, Route(bits.TrailingZeros32(w)))
	}
	return l
}

// Only returns the single member of a one-element set.
func (s Routes) Only() (Route, bool) {
	if s.Len() != 1 {
		return 0, false
	}
	return Route(bits.TrailingZeros32(uint32(s))), true
}

func (s Routes) String() string {
	rs := s.Routes()
	ss := make([]string, len(rs))
	for i, r := range rs {
		ss[i] = r.String()
	}
	return "{" + strings.Join(ss, ", ") + "}"
}
