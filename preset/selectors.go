/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import "bennypowers.dev/themevars/engine"

// SelectorMap maps theme keys to the selector their declarations are
// scoped to.
type SelectorMap struct {
	base       string
	selectors  map[string]string
	overridden map[string]bool
}

// NewSelectorMap returns the selectors for base, with per-key overrides.
// By default the base key maps to :root and every other key to the class
// selector for the key, escaped so "hi.contrast" stays one class.
func NewSelectorMap(base string, overrides map[string]string) *SelectorMap {
	m := &SelectorMap{
		base:       base,
		selectors:  make(map[string]string, len(overrides)),
		overridden: make(map[string]bool, len(overrides)),
	}
	for key, sel := range overrides {
		if sel == "" {
			continue
		}
		m.selectors[key] = sel
		m.overridden[key] = true
	}
	return m
}

// Selector returns the selector for a theme key.
func (m *SelectorMap) Selector(key string) string {
	if sel, ok := m.selectors[key]; ok {
		return sel
	}
	if key == m.base {
		return ":root"
	}
	return engine.ClassSelector(key)
}

// Overridden reports whether the user configured a selector for key.
func (m *SelectorMap) Overridden(key string) bool {
	return m.overridden[key]
}

// schemeScoped reports whether key may be emitted inside a
// prefers-color-scheme query: it must be a reserved key whose selector
// was not configured.
func (m *SelectorMap) schemeScoped(key string) bool {
	return (key == ThemeDark || key == ThemeLight) && !m.overridden[key]
}
