/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"strconv"
	"strings"

	"bennypowers.dev/themevars/color"
	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/tree"
)

// DefaultPrefix namespaces generated variable names.
const DefaultPrefix = "--un-preset-theme"

// colorsKey is the top-level token group whose leaves are decomposed
// into color components.
const colorsKey = "colors"

// Rewrite replaces every leaf of the merged themes with a reference to a
// custom property named after prefix and the leaf's path, and records the
// property's value in each theme.
//
// The shape is the deep merge of every theme in order. Values missing from
// the base theme fall back to the original tree. The returned tree is the
// original with the rewritten leaves merged over it; the original is not
// modified.
func Rewrite(original *tree.Mapping, themes *ThemeSet, baseKey, prefix string) (*tree.Mapping, *Table, error) {
	keys := themes.Keys()
	trees := make([]*tree.Mapping, 0, len(keys))
	for _, key := range keys {
		theme, _ := themes.Get(key)
		trees = append(trees, theme)
	}

	r := &rewriter{
		original: original,
		themes:   themes,
		keys:     keys,
		baseKey:  baseKey,
		prefix:   prefix,
		table:    newTable(keys),
	}
	rewritten, err := r.walk(tree.MergeAll(trees...), nil)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("rewrote %d theme variables across %d themes", r.table.Len(), len(keys))
	return tree.Merge(original, rewritten), r.table, nil
}

// VariableName returns the custom property name for a token path.
func VariableName(prefix string, path tree.Path) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, seg := range path {
		sb.WriteByte('-')
		if seg.IsIndex() {
			sb.WriteString(strconv.Itoa(seg.Index()))
			continue
		}
		sb.WriteString(escapeIdent(seg.Key()))
	}
	return sb.String()
}

// escapeIdent escapes characters that may not appear in a custom
// property name, e.g. "0.5" becomes "0\.5".
func escapeIdent(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 0x80, r == '-', r == '_',
			r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func wrapVar(name string) string {
	return "var(" + name + ")"
}

type rewriter struct {
	original *tree.Mapping
	themes   *ThemeSet
	keys     []string
	baseKey  string
	prefix   string
	table    *Table
}

// themeValue is one theme's value for a leaf.
type themeValue struct {
	key   string
	value string
}

func (r *rewriter) walk(shape *tree.Mapping, path tree.Path) (*tree.Mapping, error) {
	out := tree.NewMapping()
	for _, key := range shape.Keys() {
		node, _ := shape.Get(key)
		p := path.Append(tree.Key(key))

		switch n := node.(type) {
		case *tree.Mapping:
			if err := r.checkMapping(p); err != nil {
				return nil, err
			}
			child, err := r.walk(n, p)
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
		case *tree.Sequence:
			seq, err := r.sequence(n, p)
			if err != nil {
				return nil, err
			}
			out.Set(key, seq)
		case *tree.String:
			if seq := r.widestSequence(p); seq != nil {
				rewritten, err := r.sequence(seq, p)
				if err != nil {
					return nil, err
				}
				out.Set(key, rewritten)
				continue
			}
			ref, err := r.leaf(p)
			if err != nil {
				return nil, err
			}
			out.Set(key, tree.Str(ref))
		default:
			return nil, &ConfigError{Path: p, Err: ErrUnsupportedLeaf}
		}
	}
	return out, nil
}

// checkMapping rejects themes that hold a leaf where another theme holds
// a mapping.
func (r *rewriter) checkMapping(path tree.Path) error {
	for _, key := range r.keys {
		theme, _ := r.themes.Get(key)
		node, ok := theme.Lookup(path)
		if !ok {
			continue
		}
		if _, isMapping := node.(*tree.Mapping); !isMapping {
			return &ConfigError{Theme: key, Path: path, Err: ErrConflictingShape}
		}
	}
	return nil
}

func (r *rewriter) sequence(seq *tree.Sequence, path tree.Path) (*tree.Sequence, error) {
	out := &tree.Sequence{Items: make([]tree.Node, len(seq.Items))}
	for i, item := range seq.Items {
		itemPath := path.Append(tree.Index(i))
		if _, ok := item.(*tree.String); !ok {
			return nil, &ConfigError{Path: itemPath, Err: ErrUnsupportedLeaf}
		}

		v := &Variable{
			Name:   VariableName(r.prefix, itemPath),
			Path:   itemPath,
			Values: make(map[string]string),
		}
		for _, key := range r.keys {
			value, ok, err := r.sequenceValue(key, path, i)
			if err != nil {
				return nil, err
			}
			if ok && value != wrapVar(v.Name) {
				v.Values[key] = value
			}
		}
		r.table.add(v)
		out.Items[i] = tree.Str(wrapVar(v.Name))
	}
	return out, nil
}

// widestSequence returns the longest sequence any theme, or the host
// tree the base theme falls back to, holds at path. A theme overriding a
// tuple with a plain string must not hide the tuple from the shape.
func (r *rewriter) widestSequence(path tree.Path) *tree.Sequence {
	var widest *tree.Sequence
	consider := func(node tree.Node, ok bool) {
		if !ok {
			return
		}
		if seq, ok := node.(*tree.Sequence); ok && (widest == nil || seq.Len() > widest.Len()) {
			widest = seq
		}
	}
	for _, key := range r.keys {
		theme, _ := r.themes.Get(key)
		consider(theme.Lookup(path))
	}
	if r.themes.Has(r.baseKey) {
		consider(r.original.Lookup(path))
	}
	return widest
}

// sequenceValue returns item i of the sequence at path for a theme. A
// theme holding a plain string there uses it for every item.
func (r *rewriter) sequenceValue(key string, path tree.Path, i int) (string, bool, error) {
	theme, _ := r.themes.Get(key)
	itemPath := path.Append(tree.Index(i))
	if node, ok := theme.Lookup(path); ok {
		value, found, err := sequenceItem(node, i)
		if err != nil {
			return "", false, &ConfigError{Theme: key, Path: path, Err: err}
		}
		if found {
			value, err = cleanValue(key, itemPath, value)
			return value, err == nil, err
		}
	}
	if key != r.baseKey {
		return "", false, nil
	}
	node, ok := r.original.Lookup(path)
	if !ok {
		return "", false, nil
	}
	// shape problems in the host tree are not ours to report
	value, found, err := sequenceItem(node, i)
	if err != nil || !found {
		return "", false, nil
	}
	value, err = cleanValue(key, itemPath, value)
	return value, err == nil, err
}

func sequenceItem(node tree.Node, i int) (string, bool, error) {
	switch n := node.(type) {
	case *tree.String:
		return n.Value, true, nil
	case *tree.Sequence:
		if i >= len(n.Items) {
			return "", false, nil
		}
		s, ok := n.Items[i].(*tree.String)
		if !ok {
			return "", false, ErrUnsupportedLeaf
		}
		return s.Value, true, nil
	default:
		return "", false, ErrConflictingShape
	}
}

func (r *rewriter) leaf(path tree.Path) (string, error) {
	values, err := r.leafValues(path)
	if err != nil {
		return "", err
	}

	v := &Variable{
		Name:   VariableName(r.prefix, path),
		Path:   path,
		Values: make(map[string]string),
	}

	if path.Head() == colorsKey {
		if ref, ok := r.colorLeaf(v, values); ok {
			r.table.add(v)
			return ref, nil
		}
	}

	for _, tv := range values {
		if tv.value != wrapVar(v.Name) {
			v.Values[tv.key] = tv.value
		}
	}
	r.table.add(v)
	return wrapVar(v.Name), nil
}

// leafValues collects the string at path from every theme, in theme order.
func (r *rewriter) leafValues(path tree.Path) ([]themeValue, error) {
	var values []themeValue
	for _, key := range r.keys {
		theme, _ := r.themes.Get(key)
		node, ok := theme.Lookup(path)
		if ok {
			s, isString := node.(*tree.String)
			if !isString {
				return nil, &ConfigError{Theme: key, Path: path, Err: ErrConflictingShape}
			}
			value, err := cleanValue(key, path, s.Value)
			if err != nil {
				return nil, err
			}
			values = append(values, themeValue{key: key, value: value})
			continue
		}
		if key != r.baseKey {
			continue
		}
		if s, ok := r.original.LookupString(path); ok {
			value, err := cleanValue(key, path, s)
			if err != nil {
				return nil, err
			}
			values = append(values, themeValue{key: key, value: value})
		}
	}
	return values, nil
}

// cleanValue collapses whitespace runs so each declaration stays on one
// line, and rejects braces, which would end the declaration block.
func cleanValue(key string, path tree.Path, value string) (string, error) {
	if strings.ContainsAny(value, "{}") {
		return "", &ConfigError{Theme: key, Path: path, Err: ErrInvalidValue}
	}
	return strings.Join(strings.Fields(value), " "), nil
}

// colorLeaf decomposes a color leaf. It reports false, leaving v
// untouched, unless every value parses as a color. Values written in
// different notations are converted to rgb so they share one family.
//
// A value whose components are exactly a reference to v is an earlier
// rewrite of this same path: it carries no value of its own, but its
// alpha companion is kept.
func (r *rewriter) colorLeaf(v *Variable, values []themeValue) (string, bool) {
	type parsed struct {
		key string
		raw string
		c   *color.Color
	}
	self := wrapVar(v.Name)

	var (
		family   string
		previous *color.Color
		colors   []parsed
		failed   int
		mixed    bool
	)
	for _, tv := range values {
		c, ok := color.Parse(tv.value)
		if !ok {
			failed++
			continue
		}
		if len(c.Components) == 1 && c.Components[0] == self {
			previous = c
			continue
		}
		if family != "" && c.Type != family {
			mixed = true
		}
		family = c.Type
		colors = append(colors, parsed{key: tv.key, raw: tv.value, c: c})
	}

	if failed > 0 {
		if len(colors) > 0 {
			logger.Warn("%s: some theme values are not decomposable colors, emitting values verbatim", v.Path)
		}
		return "", false
	}
	if mixed {
		for i, p := range colors {
			rgb, ok := color.ToRGB(p.raw)
			if !ok {
				logger.Warn("%s: themes mix color notations and %q has no rgb form, emitting values verbatim", v.Path, p.raw)
				return "", false
			}
			colors[i].c = rgb
		}
		logger.Debug("%s: themes mix color notations, converted to rgb", v.Path)
		family = "rgb"
	}
	if family == "" {
		if previous == nil {
			return "", false
		}
		family = previous.Type
	}

	withAlpha := previous != nil && previous.HasAlpha()
	for _, p := range colors {
		if p.c.HasAlpha() {
			withAlpha = true
		}
	}

	v.Color = family
	for _, p := range colors {
		v.Values[p.key] = p.c.ComponentString()
	}
	if !withAlpha {
		return color.Wrap(family, self, ""), true
	}

	v.AlphaName = v.Name + "--alpha"
	v.AlphaValues = make(map[string]string, len(colors))
	for _, p := range colors {
		alpha := p.c.Alpha
		if alpha == "" {
			alpha = "1"
		}
		v.AlphaValues[p.key] = alpha
	}
	return color.Wrap(family, self, "var("+v.AlphaName+", 1)"), true
}
