/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"bennypowers.dev/themevars/tree"
)

// Variable is a generated custom property and its value in every theme
// that defines one.
type Variable struct {
	// Name is the custom property name, e.g. --un-preset-theme-colors-primary.
	Name string

	// Path is the token path the variable replaces.
	Path tree.Path

	// Values maps theme keys to values. Themes without a value are absent.
	Values map[string]string

	// AlphaName is the companion alpha property, or "" when no theme
	// carries an alpha channel.
	AlphaName string

	// AlphaValues maps theme keys to alpha values. Every theme in Values
	// has an entry when AlphaName is set.
	AlphaValues map[string]string

	// Color is the color function family when the leaf was decomposed
	// into components, e.g. "rgb". Empty for opaque values.
	Color string
}

// Value returns the variable's value for a theme key.
func (v *Variable) Value(key string) (string, bool) {
	val, ok := v.Values[key]
	return val, ok
}

// Table holds every variable of a rewrite, in generation order. It is not
// modified once the rewrite returns.
type Table struct {
	keys   []string
	vars   []*Variable
	byName map[string]*Variable
	byPath map[string]*Variable
}

func newTable(keys []string) *Table {
	return &Table{
		keys:   keys,
		byName: make(map[string]*Variable),
		byPath: make(map[string]*Variable),
	}
}

func (t *Table) add(v *Variable) {
	t.vars = append(t.vars, v)
	t.byName[v.Name] = v
	if v.AlphaName != "" {
		t.byName[v.AlphaName] = v
	}
	t.byPath[v.Path.String()] = v
}

// Keys returns the theme keys the table has values for, in order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of variables.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.vars)
}

// Variables returns every variable in generation order.
func (t *Table) Variables() []*Variable {
	if t == nil {
		return nil
	}
	return append([]*Variable(nil), t.vars...)
}

// Lookup finds a variable by its name or by its alpha companion's name.
func (t *Table) Lookup(name string) (*Variable, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.byName[name]
	return v, ok
}

// LookupPath finds the variable generated for a token path.
func (t *Table) LookupPath(path tree.Path) (*Variable, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.byPath[path.String()]
	return v, ok
}
