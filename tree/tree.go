/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package tree provides the design-token tree used by the engine and the
// theme preset.
//
// A tree is made of exactly three node kinds: [*String] leaves,
// [*Sequence] leaves (ordered lists, e.g. a font size paired with its line
// height) and [*Mapping] nodes. Mappings keep insertion order so walks,
// merges and generated output are deterministic.
package tree

// Node is a design-token tree node. It is implemented by *String,
// *Sequence and *Mapping only.
type Node interface {
	// Clone returns a deep copy of the node.
	Clone() Node

	node()
}

// String is a string leaf.
type String struct {
	Value string
}

// Sequence is an ordered list leaf.
type Sequence struct {
	Items []Node
}

// Mapping is an insertion-ordered mapping of string keys to nodes.
type Mapping struct {
	keys   []string
	values map[string]Node
}

func (*String) node()   {}
func (*Sequence) node() {}
func (*Mapping) node()  {}

// Str creates a string leaf.
func Str(value string) *String {
	return &String{Value: value}
}

// Seq creates a sequence of string leaves.
func Seq(values ...string) *Sequence {
	items := make([]Node, len(values))
	for i, v := range values {
		items[i] = Str(v)
	}
	return &Sequence{Items: items}
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Node)}
}

// Map builds a mapping from alternating keys and values. Values may be
// nodes or plain strings; it panics on anything else and is meant for
// literals in code and tests.
func Map(pairs ...any) *Mapping {
	if len(pairs)%2 != 0 {
		panic("tree.Map: odd number of arguments")
	}
	m := NewMapping()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("tree.Map: keys must be strings")
		}
		switch v := pairs[i+1].(type) {
		case string:
			m.Set(key, Str(v))
		case []string:
			m.Set(key, Seq(v...))
		case Node:
			m.Set(key, v)
		default:
			panic("tree.Map: unsupported value for key " + key)
		}
	}
	return m
}

// Clone returns a copy of the leaf.
func (s *String) Clone() Node {
	return &String{Value: s.Value}
}

// Clone returns a deep copy of the sequence.
func (s *Sequence) Clone() Node {
	items := make([]Node, len(s.Items))
	for i, item := range s.Items {
		if item != nil {
			items[i] = item.Clone()
		}
	}
	return &Sequence{Items: items}
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	return len(s.Items)
}

// Clone returns a deep copy of the mapping.
func (m *Mapping) Clone() Node {
	return m.CloneMapping()
}

// CloneMapping is Clone with a concrete return type.
func (m *Mapping) CloneMapping() *Mapping {
	out := NewMapping()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		v := m.values[k]
		if v != nil {
			v = v.Clone()
		}
		out.Set(k, v)
	}
	return out
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Get returns the node stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. Existing keys keep their position.
func (m *Mapping) Set(key string, value Node) {
	if m.values == nil {
		m.values = make(map[string]Node)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Mapping returns the child mapping stored under key, if any.
func (m *Mapping) Mapping(key string) (*Mapping, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Mapping)
	return child, ok
}

// Lookup walks path from m. Index segments select sequence items.
func (m *Mapping) Lookup(path Path) (Node, bool) {
	var cur Node = m
	for _, seg := range path {
		switch n := cur.(type) {
		case *Mapping:
			if seg.IsIndex() {
				return nil, false
			}
			next, ok := n.Get(seg.Key())
			if !ok {
				return nil, false
			}
			cur = next
		case *Sequence:
			if !seg.IsIndex() || seg.Index() >= len(n.Items) {
				return nil, false
			}
			cur = n.Items[seg.Index()]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// LookupString returns the string leaf at path.
func (m *Mapping) LookupString(path Path) (string, bool) {
	n, ok := m.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := n.(*String)
	if !ok {
		return "", false
	}
	return s.Value, true
}
