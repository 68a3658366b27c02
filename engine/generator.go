/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"bennypowers.dev/themevars/tree"
)

// maxVariantDepth bounds how many variant prefixes one candidate may carry.
const maxVariantDepth = 10

// Generator generates CSS for utility candidates. It is safe for
// concurrent use; per-call state lives on a Run.
type Generator struct {
	theme       *tree.Mapping
	rules       []Rule
	variants    []Variant
	layers      map[string]int
	preflights  []Preflight
	postprocess []func(*Run, *Utility)

	mu    sync.RWMutex
	cache map[string]*Utility
}

// New creates a generator, letting each preset extend the theme in order.
func New(cfg Config) (*Generator, error) {
	theme := cfg.Theme.CloneMapping()
	g := &Generator{
		layers: map[string]int{
			LayerPreflights: -100,
			LayerDefault:    1,
		},
		cache: make(map[string]*Utility),
	}

	for _, p := range cfg.Presets {
		if p.ExtendTheme != nil {
			extended, err := p.ExtendTheme(theme)
			if err != nil {
				return nil, fmt.Errorf("preset %s: extending theme: %w", p.Name, err)
			}
			if extended != nil {
				theme = extended
			}
		}
		g.rules = append(g.rules, p.Rules...)
		g.variants = append(g.variants, p.Variants...)
		g.preflights = append(g.preflights, p.Preflights...)
		for name, order := range p.Layers {
			g.layers[name] = order
		}
		if p.Postprocess != nil {
			g.postprocess = append(g.postprocess, p.Postprocess)
		}
	}
	g.theme = theme

	return g, nil
}

// Theme returns the design-token tree after every preset extended it.
// Callers must not modify it.
func (g *Generator) Theme() *tree.Mapping {
	return g.theme
}

// LayerOrder returns the sort order of a layer. Unknown layers sort as 0.
func (g *Generator) LayerOrder(layer string) int {
	return g.layers[layer]
}

// Generate resolves every candidate and returns the stylesheet.
func (g *Generator) Generate(ctx context.Context, targets []string, opts GenerateOptions) (*Result, error) {
	run := newRun(g, opts)

	seen := make(map[string]bool, len(targets))
	var utilities []*Utility
	var matched []string

	for _, raw := range targets {
		raw = strings.TrimSpace(raw)
		if raw == "" || seen[raw] {
			continue
		}
		seen[raw] = true

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u := g.resolve(raw, run)
		if u == nil {
			continue
		}
		u.seq = len(matched)
		matched = append(matched, raw)

		for _, hook := range g.postprocess {
			hook(run, u)
		}
		if len(u.Entries) > 0 {
			utilities = append(utilities, u)
		}
	}

	preflightCSS := make(map[string][]string)
	if opts.Preflights {
		for _, p := range g.preflights {
			css, err := p.GetCSS(ctx, run)
			if err != nil {
				return nil, fmt.Errorf("preflight: %w", err)
			}
			if css = strings.TrimSpace(css); css == "" {
				continue
			}
			layer := p.Layer
			if layer == "" {
				layer = LayerPreflights
			}
			preflightCSS[layer] = append(preflightCSS[layer], css)
		}
	}

	css, layers := g.render(utilities, preflightCSS)
	return &Result{CSS: css, Matched: matched, Layers: layers}, nil
}

// resolve returns a fresh copy of the utility for raw, or nil.
func (g *Generator) resolve(raw string, run *Run) *Utility {
	g.mu.RLock()
	cached, ok := g.cache[raw]
	g.mu.RUnlock()
	if ok {
		return cached.clone()
	}

	u := g.match(raw, run)
	if u != nil && u.volatile {
		return u
	}

	g.mu.Lock()
	g.cache[raw] = u
	g.mu.Unlock()

	return u.clone()
}

func (g *Generator) match(raw string, run *Run) *Utility {
	matcher := raw
	var applied []*VariantMatch
	for depth := 0; depth < maxVariantDepth; depth++ {
		vm := g.matchVariant(matcher)
		if vm == nil {
			break
		}
		applied = append(applied, vm)
		matcher = vm.Matcher
	}

	rctx := &RuleContext{Raw: raw, Matcher: matcher, Theme: g.theme, Run: run}
	for i := len(g.rules) - 1; i >= 0; i-- {
		rule := g.rules[i]
		m := rule.Pattern.FindStringSubmatch(matcher)
		if m == nil {
			continue
		}
		entries, ok := rule.Handler(m, rctx)
		if !ok {
			continue
		}

		u := &Utility{
			Raw:      raw,
			Selector: ClassSelector(raw),
			Layer:    rule.Layer,
			Entries:  entries,
			order:    i,
			volatile: rule.Volatile,
		}
		if u.Layer == "" {
			u.Layer = LayerDefault
		}
		// innermost variant first, so the outermost prefix wraps last
		for j := len(applied) - 1; j >= 0; j-- {
			if applied[j].Selector != nil {
				u.Selector = applied[j].Selector(u.Selector)
			}
		}
		for _, vm := range applied {
			if vm.Parent != "" {
				u.Parent = vm.Parent
				break
			}
		}
		return u
	}
	return nil
}

func (g *Generator) matchVariant(matcher string) *VariantMatch {
	for _, v := range g.variants {
		if vm, ok := v.Match(matcher); ok && vm.Matcher != matcher {
			return vm
		}
	}
	return nil
}

func (u *Utility) clone() *Utility {
	if u == nil {
		return nil
	}
	out := *u
	out.Entries = append([]Entry(nil), u.Entries...)
	return &out
}

// render assembles layers in order: preflight CSS first, then utilities
// grouped by parent at-rule.
func (g *Generator) render(utilities []*Utility, preflightCSS map[string][]string) (string, []string) {
	byLayer := make(map[string][]*Utility)
	names := make(map[string]bool)
	for _, u := range utilities {
		byLayer[u.Layer] = append(byLayer[u.Layer], u)
		names[u.Layer] = true
	}
	for layer := range preflightCSS {
		names[layer] = true
	}

	layers := make([]string, 0, len(names))
	for name := range names {
		layers = append(layers, name)
	}
	sort.Slice(layers, func(i, j int) bool {
		oi, oj := g.LayerOrder(layers[i]), g.LayerOrder(layers[j])
		if oi != oj {
			return oi < oj
		}
		return layers[i] < layers[j]
	})

	var lines []string
	for _, layer := range layers {
		lines = append(lines, "/* layer: "+layer+" */")
		lines = append(lines, preflightCSS[layer]...)
		lines = append(lines, renderUtilities(byLayer[layer])...)
	}
	return strings.Join(lines, "\n"), layers
}

func renderUtilities(utilities []*Utility) []string {
	sort.SliceStable(utilities, func(i, j int) bool {
		if utilities[i].order != utilities[j].order {
			return utilities[i].order < utilities[j].order
		}
		return utilities[i].seq < utilities[j].seq
	})

	var parents []string
	grouped := make(map[string][]string)
	for _, u := range utilities {
		if _, ok := grouped[u.Parent]; !ok && u.Parent != "" {
			parents = append(parents, u.Parent)
		}
		grouped[u.Parent] = append(grouped[u.Parent], u.Selector+"{"+renderEntries(u.Entries)+"}")
	}

	lines := grouped[""]
	for _, parent := range parents {
		lines = append(lines, parent+"{")
		lines = append(lines, grouped[parent]...)
		lines = append(lines, "}")
	}
	return lines
}

func renderEntries(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Property)
		sb.WriteByte(':')
		sb.WriteString(e.Value)
		sb.WriteByte(';')
	}
	return sb.String()
}
