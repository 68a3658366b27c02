/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"fmt"
	"strings"
	"unicode"

	"bennypowers.dev/themevars/tree"
)

// Reserved theme keys, which may map to prefers-color-scheme queries.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultBase is the theme key used as the base theme unless configured.
const DefaultBase = ThemeLight

// ThemeSet is an ordered set of named theme trees.
type ThemeSet struct {
	keys   []string
	themes map[string]*tree.Mapping
}

// NewThemeSet creates an empty theme set.
func NewThemeSet() *ThemeSet {
	return &ThemeSet{themes: make(map[string]*tree.Mapping)}
}

// ThemeSetFromMapping builds a theme set from a mapping of theme key to
// theme tree, keeping key order.
func ThemeSetFromMapping(m *tree.Mapping) (*ThemeSet, error) {
	set := NewThemeSet()
	for _, key := range m.Keys() {
		node, _ := m.Get(key)
		theme, ok := node.(*tree.Mapping)
		if !ok {
			return nil, &ConfigError{Theme: key, Err: fmt.Errorf("%w: theme must be a mapping", ErrUnsupportedLeaf)}
		}
		set.Set(key, theme)
	}
	return set, nil
}

// Set adds or replaces a theme. New keys are appended.
func (s *ThemeSet) Set(key string, theme *tree.Mapping) {
	if s.themes == nil {
		s.themes = make(map[string]*tree.Mapping)
	}
	if _, ok := s.themes[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.themes[key] = theme
}

// Get returns the theme stored under key.
func (s *ThemeSet) Get(key string) (*tree.Mapping, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.themes[key]
	return t, ok
}

// Has reports whether the set contains key.
func (s *ThemeSet) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns the theme keys in order.
func (s *ThemeSet) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of themes.
func (s *ThemeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// withBase validates the keys and returns a copy of the set that
// contains base, appending an empty theme when it is missing.
func (s *ThemeSet) withBase(base string) (*ThemeSet, error) {
	if err := ValidateThemeKey(base); err != nil {
		return nil, err
	}
	out := NewThemeSet()
	for _, key := range s.Keys() {
		if err := ValidateThemeKey(key); err != nil {
			return nil, err
		}
		theme, _ := s.Get(key)
		if theme == nil {
			theme = tree.NewMapping()
		}
		out.Set(key, theme)
	}
	if !out.Has(base) {
		out.Set(base, tree.NewMapping())
	}
	return out, nil
}

// ValidateThemeKey reports whether key can name a theme. Keys must be
// non-empty and must not start with '@'. Colons, whitespace and control
// characters are rejected.
func ValidateThemeKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidThemeKey)
	case strings.HasPrefix(key, "@"):
		return fmt.Errorf("%w: %q starts with '@'", ErrInvalidThemeKey, key)
	case strings.ContainsRune(key, ':'):
		return fmt.Errorf("%w: %q contains ':'", ErrInvalidThemeKey, key)
	case strings.ContainsFunc(key, unicode.IsSpace):
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidThemeKey, key)
	case strings.ContainsFunc(key, unicode.IsControl):
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidThemeKey, key)
	}
	return nil
}
