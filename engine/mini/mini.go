/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mini is a minimal utility preset for the engine: text, background
// and border colors with opacity modifiers, font sizes, padding and margin,
// and the dark:, light: and hover: variants.
package mini

import (
	"regexp"
	"strconv"
	"strings"

	"bennypowers.dev/themevars/color"
	"bennypowers.dev/themevars/engine"
	"bennypowers.dev/themevars/tree"
)

// DarkMode selects how the dark: and light: variants scope their rules.
type DarkMode string

const (
	// DarkModeClass scopes rules under a .dark or .light ancestor.
	DarkModeClass DarkMode = "class"
	// DarkModeMedia wraps rules in a prefers-color-scheme media query.
	DarkModeMedia DarkMode = "media"
)

// ParseDarkMode parses a dark mode name. The empty string means class.
func ParseDarkMode(s string) (DarkMode, bool) {
	switch DarkMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DarkModeClass:
		return DarkModeClass, true
	case DarkModeMedia:
		return DarkModeMedia, true
	default:
		return "", false
	}
}

// Options configures the preset.
type Options struct {
	DarkMode DarkMode
}

// colorProperties maps utility prefixes to the property they set.
var colorProperties = map[string]string{
	"text":   "color",
	"bg":     "background-color",
	"border": "border-color",
}

var spacingSides = map[string][]string{
	"":  {""},
	"x": {"-left", "-right"},
	"y": {"-top", "-bottom"},
	"t": {"-top"},
	"b": {"-bottom"},
	"l": {"-left"},
	"r": {"-right"},
}

// New returns the preset.
func New(opts Options) engine.Preset {
	if opts.DarkMode == "" {
		opts.DarkMode = DarkModeClass
	}
	return engine.Preset{
		Name: "mini",
		Rules: []engine.Rule{
			{
				Name:    "font-size",
				Pattern: regexp.MustCompile(`^text-(.+)$`),
				Handler: fontSize,
			},
			{
				Name:    "spacing",
				Pattern: regexp.MustCompile(`^([pm])([xytblr]?)-(.+)$`),
				Handler: spacing,
			},
			{
				Name:    "color",
				Pattern: regexp.MustCompile(`^(text|bg|border)-(.+?)(?:/(\d{1,3}))?$`),
				Handler: colorRule,
			},
		},
		Variants: []engine.Variant{
			schemeVariant("dark", opts.DarkMode),
			schemeVariant("light", opts.DarkMode),
			{
				Name: "hover",
				Match: func(matcher string) (*engine.VariantMatch, bool) {
					rest, ok := strings.CutPrefix(matcher, "hover:")
					if !ok {
						return nil, false
					}
					return &engine.VariantMatch{
						Matcher:  rest,
						Selector: func(s string) string { return s + ":hover" },
					}, true
				},
			},
		},
	}
}

func schemeVariant(scheme string, mode DarkMode) engine.Variant {
	prefix := scheme + ":"
	return engine.Variant{
		Name: scheme,
		Match: func(matcher string) (*engine.VariantMatch, bool) {
			rest, ok := strings.CutPrefix(matcher, prefix)
			if !ok {
				return nil, false
			}
			if mode == DarkModeMedia {
				return &engine.VariantMatch{
					Matcher: rest,
					Parent:  "@media (prefers-color-scheme: " + scheme + ")",
				}, true
			}
			return &engine.VariantMatch{
				Matcher:  rest,
				Selector: func(s string) string { return "." + scheme + " " + s },
			}, true
		},
	}
}

func colorRule(m []string, ctx *engine.RuleContext) ([]engine.Entry, bool) {
	kind, name, opacity := m[1], m[2], m[3]
	value, ok := lookupString(ctx.Theme, "colors", name)
	if !ok {
		return nil, false
	}
	prop := colorProperties[kind]

	c, ok := color.Parse(value)
	switch {
	case !ok:
		return []engine.Entry{{Property: prop, Value: value}}, true
	case opacity != "":
		n, _ := strconv.Atoi(opacity)
		alpha := strconv.FormatFloat(float64(n)/100, 'f', -1, 64)
		return []engine.Entry{{Property: prop, Value: c.WithAlpha(alpha).CSS()}}, true
	case c.HasAlpha():
		return []engine.Entry{{Property: prop, Value: c.CSS()}}, true
	default:
		opacityVar := "--un-" + kind + "-opacity"
		return []engine.Entry{
			{Property: opacityVar, Value: "1"},
			{Property: prop, Value: color.Wrap(c.Type, c.ComponentString(), "var("+opacityVar+")")},
		}, true
	}
}

func fontSize(m []string, ctx *engine.RuleContext) ([]engine.Entry, bool) {
	node, ok := lookup(ctx.Theme, "fontSize", m[1])
	if !ok {
		return nil, false
	}
	switch n := node.(type) {
	case *tree.String:
		return []engine.Entry{{Property: "font-size", Value: n.Value}}, true
	case *tree.Sequence:
		var entries []engine.Entry
		for i, prop := range []string{"font-size", "line-height"} {
			if i >= len(n.Items) {
				break
			}
			if s, ok := n.Items[i].(*tree.String); ok {
				entries = append(entries, engine.Entry{Property: prop, Value: s.Value})
			}
		}
		return entries, len(entries) > 0
	}
	return nil, false
}

func spacing(m []string, ctx *engine.RuleContext) ([]engine.Entry, bool) {
	property := map[string]string{"p": "padding", "m": "margin"}[m[1]]
	value, ok := lookupString(ctx.Theme, "spacing", m[3])
	if !ok {
		n, err := strconv.ParseFloat(m[3], 64)
		if err != nil || n < 0 {
			return nil, false
		}
		value = strconv.FormatFloat(n*0.25, 'f', -1, 64) + "rem"
		if n == 0 {
			value = "0"
		}
	}
	var entries []engine.Entry
	for _, side := range spacingSides[m[2]] {
		entries = append(entries, engine.Entry{Property: property + side, Value: value})
	}
	return entries, true
}

func lookupString(theme *tree.Mapping, section, name string) (string, bool) {
	node, ok := lookup(theme, section, name)
	if !ok {
		return "", false
	}
	s, ok := node.(*tree.String)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// lookup resolves a hyphenated utility name against a theme section.
// "main-200" finds colors.main.200 as well as colors["main-200"], and
// "color-key" finds colors.colorKey.
func lookup(theme *tree.Mapping, section, name string) (tree.Node, bool) {
	m, ok := theme.Mapping(section)
	if !ok {
		return nil, false
	}
	return resolve(m, strings.Split(name, "-"))
}

func resolve(m *tree.Mapping, parts []string) (tree.Node, bool) {
	for i := len(parts); i >= 1; i-- {
		head, rest := parts[:i], parts[i:]
		for _, key := range candidateKeys(head) {
			node, ok := m.Get(key)
			if !ok {
				continue
			}
			child, isMapping := node.(*tree.Mapping)
			switch {
			case len(rest) == 0 && !isMapping:
				return node, true
			case len(rest) == 0:
				if def, ok := child.Get("DEFAULT"); ok {
					return def, true
				}
			case isMapping:
				if found, ok := resolve(child, rest); ok {
					return found, true
				}
			}
		}
	}
	return nil, false
}

func candidateKeys(parts []string) []string {
	joined := strings.Join(parts, "-")
	if len(parts) == 1 {
		return []string{joined}
	}
	var sb strings.Builder
	sb.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return []string{joined, sb.String()}
}
