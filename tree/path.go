/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: a mapping key or a sequence index.
type Segment struct {
	key   string
	index int
}

// Key returns a mapping-key segment.
func Key(k string) Segment {
	return Segment{key: k, index: -1}
}

// Index returns a sequence-index segment.
func Index(i int) Segment {
	return Segment{index: i}
}

// IsIndex reports whether the segment selects a sequence item.
func (s Segment) IsIndex() bool {
	return s.index >= 0
}

// Key returns the mapping key. It is empty for index segments.
func (s Segment) Key() string {
	return s.key
}

// Index returns the sequence index, or -1 for key segments.
func (s Segment) Index() int {
	return s.index
}

// String returns the key, or the decimal index.
func (s Segment) String() string {
	if s.IsIndex() {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path locates a node from the root of a tree.
type Path []Segment

// KeyPath builds a path of key segments.
func KeyPath(keys ...string) Path {
	p := make(Path, len(keys))
	for i, k := range keys {
		p[i] = Key(k)
	}
	return p
}

// Append returns a new path with seg appended. The receiver is never
// modified, so paths can be shared between sibling walks.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Strings returns every segment as a string.
func (p Path) Strings() []string {
	out := make([]string, len(p))
	for i, seg := range p {
		out[i] = seg.String()
	}
	return out
}

// String renders the path as colors.main.100 or fontSize.sm[0].
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if seg.IsIndex() {
			sb.WriteString("[" + strconv.Itoa(seg.index) + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.key)
	}
	return sb.String()
}

// Head returns the first key, or "" for an empty path.
func (p Path) Head() string {
	if len(p) == 0 || p[0].IsIndex() {
		return ""
	}
	return p[0].key
}
