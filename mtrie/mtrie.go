// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mtrie minimizes a set of ternary patterns with an m-Trie.
//
// Ahmad, S.; Mahapatra, R., "M-trie: an efficient approach to on-chip logic
// minimization," ICCAD-2004, pp.428-435.
//
// Each trie node inspects one bit, from 31 down to 0, and has up to three
// children, one per ternary value. A pattern is a path from the root to a
// leaf. After every insertion the nodes of the new path are visited from
// the leaf up, merging paths that are shared by the 0 and 1 children into
// the don't-care child and dropping 0 or 1 paths already covered by the
// don't-care child. Neither rule changes the set of matched addresses.
package mtrie

import (
	"github.com/platinasystems/rtmin/internal/pool"
	"github.com/platinasystems/rtmin/ternary"
)

type nodeIndex uint32

// Node zero is never used so that a zero child index means no child.
const nilNode nodeIndex = 0

type node struct {
	// Bit inspected by this node; negative for a leaf.
	bit      int8
	children [ternary.NValues]nodeIndex
}

func (n *node) isLeaf() bool { return n.bit < 0 }

func (n *node) isEmpty() bool {
	return n.children == [ternary.NValues]nodeIndex{}
}

type nodePool struct {
	pool.Pool
	nodes []node
}

func (p *nodePool) get(bit int) nodeIndex {
	i := p.GetIndex(uint(len(p.nodes)))
	if i == uint(len(p.nodes)) {
		p.nodes = append(p.nodes, node{})
	}
	p.nodes[i] = node{bit: int8(bit)}
	return nodeIndex(i)
}

func (p *nodePool) put(i nodeIndex) { p.PutIndex(uint(i)) }

type Trie struct {
	nodePool
	root nodeIndex
}

func New() *Trie {
	t := &Trie{}
	t.get(-1)
	t.root = t.get(ternary.Bits - 1)
	return t
}

// Minimize returns the fewest patterns found by the trie that match exactly
// the addresses of the given patterns.
func Minimize(ps []ternary.Pattern) []ternary.Pattern {
	t := New()
	for _, p := range ps {
		t.Insert(p)
	}
	return t.Patterns()
}

func (t *Trie) node(i nodeIndex) *node { return &t.nodes[i] }

// Insert adds the pattern then minimizes the trie along its path.
func (t *Trie) Insert(p ternary.Pattern) {
	path := t.traverse(t.root, p)
	for _, i := range path[1:] {
		t.minimize(i)
	}
}

// Patterns reads back the paths from root to leaf.
func (t *Trie) Patterns() []ternary.Pattern {
	var l []ternary.Pattern
	t.walk(t.root, ternary.Any, func(p ternary.Pattern) {
		l = append(l, p)
	})
	return l
}

// Len is the number of paths in the trie.
func (t *Trie) Len() (n int) {
	t.walk(t.root, ternary.Any, func(ternary.Pattern) { n++ })
	return
}

// Nodes is the number of allocated trie nodes, including the root.
func (t *Trie) Nodes() int {
	return int(t.Elts(uint(len(t.nodes)))) - 1
}

// traverse follows, and if necessary creates, the path of p beneath node i
// and returns the nodes of this path from leaf to i.
func (t *Trie) traverse(i nodeIndex, p ternary.Pattern) []nodeIndex {
	path := make([]nodeIndex, 0, ternary.Bits+1)
	for {
		path = append(path, i)
		n := t.node(i)
		if n.isLeaf() {
			break
		}
		bit := n.bit
		v := p.At(uint(bit))
		c := n.children[v]
		if c == nilNode {
			// get may grow the pool, so n isn't valid after this.
			c = t.get(int(bit) - 1)
			t.node(i).children[v] = c
		}
		i = c
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// untraverse removes the path of p beneath node i and returns true if i is
// left without children.
func (t *Trie) untraverse(i nodeIndex, p ternary.Pattern) bool {
	n := t.node(i)
	if n.isLeaf() {
		return true
	}
	v := p.At(uint(n.bit))
	c := n.children[v]
	if c == nilNode {
		return false
	}
	if t.untraverse(c, p) {
		t.free(c)
		t.node(i).children[v] = nilNode
	}
	return t.node(i).isEmpty()
}

// remove the path with suffix p beneath the v child of node i, pruning the
// child if it's left empty.
func (t *Trie) remove(i nodeIndex, v ternary.Value, p ternary.Pattern) {
	c := t.node(i).children[v]
	if c == nilNode {
		return
	}
	if t.untraverse(c, p) {
		t.free(c)
		t.node(i).children[v] = nilNode
	}
}

func (t *Trie) free(i nodeIndex) {
	for _, c := range t.node(i).children {
		if c != nilNode {
			t.free(c)
		}
	}
	t.put(i)
}

// walk calls f with the pattern of every path beneath i, where acc has the
// values of the bits above i.
func (t *Trie) walk(i nodeIndex, acc ternary.Pattern, f func(ternary.Pattern)) {
	n := t.node(i)
	if n.isLeaf() {
		f(acc)
		return
	}
	bit := uint(n.bit)
	for v, c := range n.children {
		if c != nilNode {
			t.walk(c, acc.With(bit, ternary.Value(v)), f)
		}
	}
}

// suffixes returns the patterns of the paths beneath the v child of node i.
// These only have bits below that of node i.
func (t *Trie) suffixes(i nodeIndex, v ternary.Value) []ternary.Pattern {
	var l []ternary.Pattern
	if c := t.node(i).children[v]; c != nilNode {
		t.walk(c, ternary.Any, func(p ternary.Pattern) {
			l = append(l, p)
		})
	}
	return l
}

// minimize applies the merge and absorption rules to node i.
func (t *Trie) minimize(i nodeIndex) {
	if t.node(i).isLeaf() {
		return
	}
	t.merge(i)
	t.absorb(i)
}

// merge replaces each path found beneath both the 0 and 1 children with a
// single path beneath the don't-care child.
func (t *Trie) merge(i nodeIndex) {
	n := t.node(i)
	if n.children[ternary.Zero] == nilNode ||
		n.children[ternary.One] == nilNode {
		return
	}
	ones := make(map[ternary.Pattern]struct{})
	for _, p := range t.suffixes(i, ternary.One) {
		ones[p] = struct{}{}
	}
	for _, p := range t.suffixes(i, ternary.Zero) {
		if _, found := ones[p]; !found {
			continue
		}
		t.remove(i, ternary.Zero, p)
		t.remove(i, ternary.One, p)
		// p has a don't-care at bit i so this leads through the
		// don't-care child; the new nodes may now have merges of
		// their own.
		path := t.traverse(i, p)
		for _, j := range path[1 : len(path)-1] {
			t.minimize(j)
		}
	}
}

// absorb drops the 0 and 1 paths that only match addresses already matched
// beneath the don't-care child.
func (t *Trie) absorb(i nodeIndex) {
	if t.node(i).children[ternary.X] == nilNode {
		return
	}
	x := ternary.NewRegion(t.suffixes(i, ternary.X)...)
	for _, v := range []ternary.Value{ternary.Zero, ternary.One} {
		for _, p := range t.suffixes(i, v) {
			if x.Covers(p) {
				t.remove(i, v, p)
			}
		}
	}
}
