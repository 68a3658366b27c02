/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package engine is a small utility-first CSS generator.
//
// It turns utility candidates such as "text-primary" or "dark:bg-main-200"
// into CSS by running them through registered variants and rules, and
// lets presets hook into generation: extend the design-token tree before
// anything runs, inspect every resolved utility (postprocess), and inject
// CSS ahead of utilities (preflights). Output is grouped into ordered
// layers, each introduced by a "/* layer: name */" comment line, with one
// rule per line and at-rule wrappers on their own lines.
package engine

import (
	"context"
	"regexp"

	"bennypowers.dev/themevars/tree"
)

// Layer names known to the engine.
const (
	LayerPreflights = "preflights"
	LayerDefault    = "default"
)

// Entry is a single CSS declaration.
type Entry struct {
	Property string
	Value    string
}

// Utility is a resolved utility, ready to print.
type Utility struct {
	// Raw is the candidate as written, including variant prefixes.
	Raw string

	// Selector is the final selector, after variants.
	Selector string

	// Parent is an optional at-rule wrapping the rule,
	// e.g. "@media (prefers-color-scheme: dark)".
	Parent string

	// Layer is the output layer.
	Layer string

	// Entries are the declarations, in order.
	Entries []Entry

	order    int
	seq      int
	volatile bool
}

// RuleContext is passed to rule handlers.
type RuleContext struct {
	// Raw is the full candidate.
	Raw string

	// Matcher is the candidate with variant prefixes removed.
	Matcher string

	// Theme is the generator's design-token tree. Handlers must not modify it.
	Theme *tree.Mapping

	// Run is the generation run that resolves the candidate.
	Run *Run
}

// Rule maps matching candidates to declarations.
type Rule struct {
	// Name identifies the rule in logs.
	Name string

	// Pattern is matched against the variant-free matcher.
	Pattern *regexp.Regexp

	// Layer defaults to LayerDefault.
	Layer string

	// Handler returns the declarations for a match. Returning false lets
	// the next rule try the candidate.
	Handler func(match []string, ctx *RuleContext) ([]Entry, bool)

	// Volatile rules depend on run state; their results are not cached.
	Volatile bool
}

// VariantMatch describes how a variant transforms a utility.
type VariantMatch struct {
	// Matcher is the candidate with this variant's prefix removed.
	Matcher string

	// Selector rewrites the utility selector. Optional.
	Selector func(selector string) string

	// Parent wraps the rule in an at-rule. Optional.
	Parent string
}

// Variant recognizes a candidate prefix.
type Variant struct {
	Name  string
	Match func(matcher string) (*VariantMatch, bool)
}

// Preflight injects CSS ahead of utilities.
type Preflight struct {
	// Layer defaults to LayerPreflights.
	Layer string

	// GetCSS returns the CSS text for the run.
	GetCSS func(ctx context.Context, run *Run) (string, error)
}

// Preset bundles rules, variants and hooks.
type Preset struct {
	Name string

	// ExtendTheme receives the current design-token tree once, when the
	// generator is created, and returns the tree to use from then on.
	ExtendTheme func(theme *tree.Mapping) (*tree.Mapping, error)

	Rules      []Rule
	Variants   []Variant
	Layers     map[string]int
	Preflights []Preflight

	// Postprocess is called for every resolved utility of every run.
	Postprocess func(run *Run, u *Utility)
}

// Config configures a Generator.
type Config struct {
	// Theme is the base design-token tree.
	Theme *tree.Mapping

	// Presets are applied in order. Later rules take precedence.
	Presets []Preset
}

// GenerateOptions configures a single Generate call.
type GenerateOptions struct {
	// Preflights enables preflight CSS.
	Preflights bool

	// Parent links a nested run (started from a preflight or rule) to the
	// run that started it.
	Parent *Run
}

// Result is the output of Generate.
type Result struct {
	// CSS is the generated stylesheet.
	CSS string

	// Matched lists candidates that produced a utility, in input order.
	Matched []string

	// Layers lists the emitted layers, in output order.
	Layers []string
}
