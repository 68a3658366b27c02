/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/themevars/color"
	"bennypowers.dev/themevars/preset"
)

// Value is a variable's value in one theme.
type Value struct {
	Theme string `json:"theme"`
	// Value is the declared value, e.g. "18 52 86" for a decomposed color.
	Value string `json:"value"`
	// Alpha is the companion alpha value, if any.
	Alpha string `json:"alpha,omitempty"`
	// Display is the value as a usable CSS value, e.g. "rgb(18 52 86)".
	Display string `json:"display"`
	// Hex is set for values that parse as colors.
	Hex string `json:"hex,omitempty"`
}

// Row holds computed display values for a single variable.
type Row struct {
	Name      string   `json:"name"`
	AlphaName string   `json:"alphaName,omitempty"`
	Path      []string `json:"path"`
	Color     string   `json:"color,omitempty"`
	Values    []Value  `json:"values"`
}

// HierarchyNode represents a node in the token hierarchy tree.
type HierarchyNode struct {
	Name     string
	Path     []string
	Rows     []Row
	Children map[string]*HierarchyNode
}

// MarkdownOptions configures markdown output.
type MarkdownOptions struct {
	IncludeTOC bool
	TOCDepth   int
}

// ComputeRows builds display rows for the variables, with one value per
// theme key that defines one, in key order.
func ComputeRows(vars []*preset.Variable, keys []string) []Row {
	rows := make([]Row, 0, len(vars))
	for _, v := range vars {
		row := Row{
			Name:      v.Name,
			AlphaName: v.AlphaName,
			Path:      v.Path.Strings(),
			Color:     v.Color,
		}
		for _, key := range keys {
			raw, ok := v.Value(key)
			if !ok {
				continue
			}
			val := Value{Theme: key, Value: raw, Display: raw}
			if v.AlphaName != "" {
				val.Alpha = v.AlphaValues[key]
			}
			if v.Color != "" {
				alpha := val.Alpha
				if alpha == "1" {
					alpha = ""
				}
				val.Display = color.Wrap(v.Color, raw, alpha)
			}
			val.Hex = Hex(val.Display)
			row.Values = append(row.Values, val)
		}
		rows = append(rows, row)
	}
	return rows
}

// Hex returns the #rrggbb form of a CSS color, or "" if value is not one.
func Hex(value string) string {
	c, ok := parseColor(value)
	if !ok {
		return ""
	}
	return c.Hex()
}

func parseColor(value string) (colorful.Color, bool) {
	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return colorful.Color{}, false
	}
	return colorful.Color{R: parsed.R, G: parsed.G, B: parsed.B}.Clamped(), true
}

// ColorSwatch returns a 24-bit ANSI color block for the given color value.
func ColorSwatch(value string) string {
	c, ok := parseColor(value)
	if !ok {
		return ""
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m ", r, g, b)
}

// Table renders rows as an aligned table, one line per theme value.
func Table(w io.Writer, rows []Row, swatches bool) error {
	if len(rows) == 0 {
		return nil
	}
	nameW, themeW := 4, 5
	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
		for _, v := range r.Values {
			themeW = max(themeW, len(v.Theme))
		}
	}
	for _, r := range rows {
		name := r.Name
		for _, v := range r.Values {
			swatch := ""
			if swatches && v.Hex != "" {
				swatch = ColorSwatch(v.Display)
			}
			if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s%s\n", nameW, name, themeW, v.Theme, swatch, v.Display); err != nil {
				return err
			}
			name = ""
		}
	}
	return nil
}

// JSON renders rows as an indented JSON array.
func JSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Names renders just the variable names, one per line.
func Names(w io.Writer, rows []Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.Name); err != nil {
			return err
		}
	}
	return nil
}

// slugify converts a name to a URL-safe anchor ID.
// e.g., "Color Brand" -> "color-brand"
func slugify(name string) string {
	var result strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' || r == '.' {
			result.WriteRune('-')
		}
	}
	s := result.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// toTitleCase converts a string to Title Case.
func toTitleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}

// BuildHierarchy groups rows by every path segment but the last.
func BuildHierarchy(rows []Row) *HierarchyNode {
	root := &HierarchyNode{Children: make(map[string]*HierarchyNode)}

	for _, row := range rows {
		current := root
		for i := 0; i < len(row.Path)-1; i++ {
			name := row.Path[i]
			if current.Children[name] == nil {
				current.Children[name] = &HierarchyNode{
					Name:     name,
					Path:     row.Path[:i+1],
					Children: make(map[string]*HierarchyNode),
				}
			}
			current = current.Children[name]
		}
		current.Rows = append(current.Rows, row)
	}

	return root
}

// GenerateTOC generates a markdown table of contents from the hierarchy.
func GenerateTOC(root *HierarchyNode, maxDepth int) string {
	var sb strings.Builder
	sb.WriteString("## Table Of Contents\n\n")
	generateTOCRecursive(root, 0, maxDepth, &sb)
	return sb.String()
}

func generateTOCRecursive(node *HierarchyNode, depth int, maxDepth int, sb *strings.Builder) {
	if depth >= maxDepth {
		return
	}
	for _, name := range sortedChildren(node) {
		child := node.Children[name]
		indent := strings.Repeat("  ", depth)
		slug := slugify(strings.Join(child.Path, "-"))
		fmt.Fprintf(sb, "%s- [%s](#%s)\n", indent, toTitleCase(name), slug)
		generateTOCRecursive(child, depth+1, maxDepth, sb)
	}
}

func sortedChildren(node *HierarchyNode) []string {
	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Markdown renders rows as markdown tables, one section per token group,
// with a column per theme key.
func Markdown(w io.Writer, rows []Row, keys []string, opts MarkdownOptions) error {
	if len(rows) == 0 {
		return nil
	}
	var sb strings.Builder
	hierarchy := BuildHierarchy(rows)
	if opts.IncludeTOC {
		depth := opts.TOCDepth
		if depth <= 0 {
			depth = 3
		}
		sb.WriteString(GenerateTOC(hierarchy, depth))
		sb.WriteString("\n")
	}
	if len(hierarchy.Rows) > 0 {
		writeVariableTable(&sb, hierarchy.Rows, keys)
		sb.WriteString("\n")
	}
	renderHierarchyNode(&sb, hierarchy, 1, keys)
	_, err := io.WriteString(w, sb.String())
	return err
}

func renderHierarchyNode(sb *strings.Builder, node *HierarchyNode, depth int, keys []string) {
	for _, name := range sortedChildren(node) {
		child := node.Children[name]
		level := min(depth+1, 6)
		slug := slugify(strings.Join(child.Path, "-"))
		fmt.Fprintf(sb, "%s %s {#%s}\n\n", strings.Repeat("#", level), toTitleCase(name), slug)
		if len(child.Rows) > 0 {
			writeVariableTable(sb, child.Rows, keys)
			sb.WriteString("\n")
		}
		renderHierarchyNode(sb, child, depth+1, keys)
	}
}

func writeVariableTable(sb *strings.Builder, rows []Row, keys []string) {
	header := append([]string{"Variable"}, keys...)
	fmt.Fprintf(sb, "| %s |\n", strings.Join(header, " | "))
	seps := make([]string, len(header))
	for i, h := range header {
		seps[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintf(sb, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range rows {
		cells := make([]string, 0, len(header))
		cells = append(cells, "`"+r.Name+"`")
		for _, key := range keys {
			cells = append(cells, markdownCell(r, key))
		}
		fmt.Fprintf(sb, "| %s |\n", strings.Join(cells, " | "))
	}
}

func markdownCell(r Row, key string) string {
	for _, v := range r.Values {
		if v.Theme != key {
			continue
		}
		cell := "`" + strings.ReplaceAll(v.Display, "|", `\|`) + "`"
		if v.Hex != "" && !strings.EqualFold(v.Hex, v.Display) {
			cell += " " + v.Hex
		}
		return cell
	}
	return ""
}
