// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package table

// RemoveDefaultRoutes returns the entries that the fabric wouldn't route
// the same way without them. A node forwards an unmatched packet straight
// through, out the link opposite the one it arrived on, so an entry with a
// single link source, and a single route that is that source's opposite,
// is redundant unless a later entry also matches some of its addresses.
//
// Entries without sources, as read from the Legacy form, are always kept.
func RemoveDefaultRoutes(entries []Entry) []Entry {
	aliases := mayAlias(entries)
	l := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if !isDefault(e) {
			l = append(l, e)
			continue
		}
		if aliases && aliased(e, entries[i+1:]) {
			l = append(l, e)
		}
	}
	return l
}

func isDefault(e Entry) bool {
	src, ok := e.Sources.Only()
	if !ok || !src.IsLink() {
		return false
	}
	dst, ok := e.Routes.Only()
	if !ok || !dst.IsLink() {
		return false
	}
	return src.Opposite() == dst
}

func aliased(e Entry, later []Entry) bool {
	for _, d := range later {
		if e.Intersects(d.Pattern) {
			return true
		}
	}
	return false
}

// mayAlias is false for a table of unique keys sharing one mask, which
// can't have intersecting entries.
func mayAlias(entries []Entry) bool {
	if len(entries) == 0 {
		return false
	}
	keys := make(map[uint32]struct{}, len(entries))
	mask := entries[0].Mask
	for _, e := range entries {
		if e.Mask != mask {
			return true
		}
		if _, found := keys[e.Key]; found {
			return true
		}
		keys[e.Key] = struct{}{}
	}
	return false
}
