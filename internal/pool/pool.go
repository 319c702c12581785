// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package pool recycles the indices of a growable vector of elements.
package pool

import "math/bits"

// Pool tracks the free indices of a vector owned by its user, e.g.
//
//	type nodePool struct {
//		pool.Pool
//		nodes []node
//	}
//
//	func (p *nodePool) get() uint {
//		i := p.GetIndex(uint(len(p.nodes)))
//		if i == uint(len(p.nodes)) {
//			p.nodes = append(p.nodes, node{})
//		}
//		return i
//	}
type Pool struct {
	// Vector of free indices
	freeIndices []uint32
	// Bitmap of free indices
	freeBitmap []uint64
}

// GetIndex returns the most recently freed index, if any; otherwise, the
// given length of the vector, which the caller must then extend.
func (p *Pool) GetIndex(max uint) (i uint) {
	i = max
	l := uint(len(p.freeIndices))
	if l != 0 {
		i = uint(p.freeIndices[l-1])
		p.freeIndices = p.freeIndices[:l-1]
		p.freeBitmap[i/64] &^= 1 << (i % 64)
	}
	return
}

// Put (free) given pool index.
func (p *Pool) PutIndex(i uint) (ok bool) {
	if ok = !p.IsFree(i); ok {
		for uint(len(p.freeBitmap)) <= i/64 {
			p.freeBitmap = append(p.freeBitmap, 0)
		}
		p.freeIndices = append(p.freeIndices, uint32(i))
		p.freeBitmap[i/64] |= 1 << (i % 64)
	}
	return
}

func (p *Pool) IsFree(i uint) bool {
	if i/64 >= uint(len(p.freeBitmap)) {
		return false
	}
	return p.freeBitmap[i/64]&(1<<(i%64)) != 0
}

// Elts is the number of indices in use of a vector with the given length.
func (p *Pool) Elts(max uint) uint {
	n := uint(0)
	for _, w := range p.freeBitmap {
		n += uint(bits.OnesCount64(w))
	}
	return max - n
}
