/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package preset themes an engine's design tokens with CSS custom
// properties.
//
// Every leaf of the configured themes is replaced in the engine's theme
// by a var() reference, so ordinary utilities resolve to variables. A
// preflight on the theme layer then declares each variable that a
// generated utility referenced, once per theme, scoped to the theme's
// selector or to a prefers-color-scheme query:
//
//	:root{--un-preset-theme-colors-primary:18 52 86;}
//	.dark{--un-preset-theme-colors-primary:101 67 33;}
package preset

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync/atomic"

	"bennypowers.dev/themevars/cssparse"
	"bennypowers.dev/themevars/engine"
	"bennypowers.dev/themevars/engine/mini"
	"bennypowers.dev/themevars/tree"
)

// LayerTheme is the layer holding variable declarations.
const LayerTheme = "theme"

// DefaultBreakpoints are used for media themes when the engine theme has
// no breakpoints group.
var DefaultBreakpoints = tree.Map(
	"sm", "640px",
	"md", "768px",
	"lg", "1024px",
	"xl", "1280px",
	"2xl", "1536px",
)

// Options configures a Preset.
type Options struct {
	// Themes are the named themes. Required.
	Themes *ThemeSet

	// MediaThemes are themes keyed by breakpoint name, applied above
	// that breakpoint's min-width.
	MediaThemes *ThemeSet

	// Prefix namespaces variable names. Defaults to DefaultPrefix.
	Prefix string

	// Selectors overrides the selector of individual theme keys.
	Selectors map[string]string

	// Base is the theme key whose missing values fall back to the
	// engine's own theme. Defaults to DefaultBase.
	Base string

	// DarkMode must match the engine's dark mode. In media mode the dark
	// and light themes are scoped to prefers-color-scheme queries unless
	// their selector is overridden.
	DarkMode mini.DarkMode
}

// Preset is the theming preset. A Preset serves a single generator.
type Preset struct {
	base        string
	prefix      string
	darkMode    mini.DarkMode
	themes      *ThemeSet
	media       *ThemeSet
	selectors   *SelectorMap
	breakpoints map[string]string

	// keys are the theme keys followed by "@"-prefixed breakpoint keys.
	keys    []string
	table   *Table
	varRE   *regexp.Regexp
	counter atomic.Uint64
}

// New validates the options and creates a preset.
func New(opts Options) (*Preset, error) {
	if opts.Themes == nil {
		return nil, ErrNoThemes
	}
	base := opts.Base
	if base == "" {
		base = DefaultBase
	}
	themes, err := opts.Themes.withBase(base)
	if err != nil {
		return nil, err
	}
	for _, key := range opts.MediaThemes.Keys() {
		if err := ValidateThemeKey(key); err != nil {
			return nil, fmt.Errorf("media theme: %w", err)
		}
	}
	darkMode := opts.DarkMode
	if darkMode == "" {
		darkMode = mini.DarkModeClass
	}

	prefix := NormalizePrefix(opts.Prefix)
	return &Preset{
		base:      base,
		prefix:    prefix,
		varRE:     varPattern(prefix),
		darkMode:  darkMode,
		themes:    themes,
		media:     opts.MediaThemes,
		selectors: NewSelectorMap(base, opts.Selectors),
	}, nil
}

// NormalizePrefix applies the default prefix and makes sure it starts
// with "--" and does not end with "-".
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultPrefix
	}
	return "--" + strings.Trim(prefix, "-")
}

// Engine returns the engine hooks of the preset.
func (p *Preset) Engine() engine.Preset {
	return engine.Preset{
		Name:        "themevars",
		ExtendTheme: p.extendTheme,
		Rules:       []engine.Rule{p.markerRule()},
		Layers: map[string]int{
			LayerTheme:          0,
			engine.LayerDefault: 1,
		},
		Preflights: []engine.Preflight{
			{Layer: LayerTheme, GetCSS: p.themeCSS},
		},
		Postprocess: p.postprocess,
	}
}

// Prefix returns the normalized variable prefix.
func (p *Preset) Prefix() string {
	return p.prefix
}

// Base returns the base theme key.
func (p *Preset) Base() string {
	return p.base
}

// Keys returns the theme keys, followed by media theme keys as
// "@breakpoint", in output order.
func (p *Preset) Keys() []string {
	if p.keys != nil {
		return slices.Clone(p.keys)
	}
	return p.themes.Keys()
}

// Selectors returns the selector map.
func (p *Preset) Selectors() *SelectorMap {
	return p.selectors
}

// Table returns the variable table, or nil before a generator extended
// the theme.
func (p *Preset) Table() *Table {
	return p.table
}

func (p *Preset) extendTheme(theme *tree.Mapping) (*tree.Mapping, error) {
	if p.table != nil {
		return nil, ErrAlreadyBound
	}

	breakpoints, order := readBreakpoints(theme)
	mediaKeys := p.media.Keys()
	for _, bp := range mediaKeys {
		if _, ok := breakpoints[bp]; !ok {
			return nil, &ConfigError{Theme: bp, Err: ErrUnknownBreakpoint}
		}
	}
	slices.SortStableFunc(mediaKeys, func(a, b string) int {
		return order[a] - order[b]
	})

	all := NewThemeSet()
	for _, key := range p.themes.Keys() {
		t, _ := p.themes.Get(key)
		all.Set(key, t)
	}
	for _, bp := range mediaKeys {
		t, _ := p.media.Get(bp)
		if t == nil {
			t = tree.NewMapping()
		}
		all.Set("@"+bp, t)
	}

	rewritten, table, err := Rewrite(theme, all, p.base, p.prefix)
	if err != nil {
		return nil, err
	}
	p.breakpoints = breakpoints
	p.keys = all.Keys()
	p.table = table
	return rewritten, nil
}

// readBreakpoints returns breakpoint widths by name and their order.
func readBreakpoints(theme *tree.Mapping) (map[string]string, map[string]int) {
	group, ok := theme.Mapping("breakpoints")
	if !ok {
		group = DefaultBreakpoints
	}
	widths := make(map[string]string)
	order := make(map[string]int)
	for i, key := range group.Keys() {
		if s, ok := group.LookupString(tree.KeyPath(key)); ok {
			widths[key] = s
			order[key] = i
		}
	}
	return widths, order
}

func (p *Preset) postprocess(run *engine.Run, u *engine.Utility) {
	if run.Nested() || p.table == nil {
		return
	}
	p.session(run).Track(u)
}

// session returns the session of the outermost run, creating it.
func (p *Preset) session(run *engine.Run) *Session {
	root := run.Root()
	if s, ok := root.Value(sessionKey{}); ok {
		return s.(*Session)
	}
	s := newSession(p.table, p.varRE)
	root.SetValue(sessionKey{}, s)
	return s
}

// StaticCSS declares every variable, used or not, for every theme, in
// the same layout as the theme layer.
func (p *Preset) StaticCSS() (string, error) {
	if p.table == nil {
		return "", ErrNotBound
	}
	vars := p.table.Variables()
	blocks := make([]syntheticBlock, 0, len(p.keys))
	for _, key := range p.keys {
		b := syntheticBlock{key: key, body: renderBody(declarations(vars, key))}
		if p.darkMode == mini.DarkModeMedia && p.selectors.schemeScoped(key) {
			b.scheme = key
		}
		blocks = append(blocks, b)
	}
	css, err := p.render(blocks)
	if err != nil {
		return "", err
	}
	if err := cssparse.Verify(css, markerToken); err != nil {
		return "", err
	}
	return css, nil
}
