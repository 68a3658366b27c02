/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

// Run is the state of one Generate call. Presets keep per-run data on it
// with Value and SetValue, which keeps concurrent runs independent.
type Run struct {
	// Generator is the generator executing the run.
	Generator *Generator

	// Parent is set for nested runs.
	Parent *Run

	// Options are the options the run was started with.
	Options GenerateOptions

	values map[any]any
}

func newRun(g *Generator, opts GenerateOptions) *Run {
	return &Run{
		Generator: g,
		Parent:    opts.Parent,
		Options:   opts,
		values:    make(map[any]any),
	}
}

// Nested reports whether the run was started from inside another run.
func (r *Run) Nested() bool {
	return r.Parent != nil
}

// Root returns the outermost run.
func (r *Run) Root() *Run {
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Value returns the value stored under key on this run or, failing that,
// on the closest ancestor run that has it.
func (r *Run) Value(key any) (any, bool) {
	for cur := r; cur != nil; cur = cur.Parent {
		if v, ok := cur.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetValue stores a value on this run.
func (r *Run) SetValue(key, value any) {
	r.values[key] = value
}
