/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tokens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"bennypowers.dev/themevars/tree"
)

// AlphaThreshold is the alpha at or above which a color is opaque.
const AlphaThreshold = 0.999

// convertObject renders a structured $value as CSS.
func (r *resolver) convertObject(tok *Token, m *tree.Mapping) (string, error) {
	switch {
	case m.Has("colorSpace"):
		return r.color(tok, m)
	case m.Has("value") && m.Has("unit"):
		return r.dimension(tok, m)
	case tok.Type == "shadow" || (m.Has("offsetX") && m.Has("offsetY")):
		return r.shadow(tok, m)
	case tok.Type == "border":
		return r.border(tok, m)
	default:
		typ := tok.Type
		if typ == "" {
			typ = "object"
		}
		return "", fmt.Errorf("token %s: %w: %s", tok.Name, ErrUnsupportedValue, typ)
	}
}

// color renders a 2025.10 color object. sRGB colors become hex; other
// spaces use their CSS function, or color() when CSS has none.
func (r *resolver) color(tok *Token, m *tree.Mapping) (string, error) {
	if hex, ok := m.LookupString(tree.KeyPath("hex")); ok && hex != "" {
		return hex, nil
	}
	space, _ := m.LookupString(tree.KeyPath("colorSpace"))
	node, _ := m.Get("components")
	seq, ok := node.(*tree.Sequence)
	if !ok || len(seq.Items) == 0 {
		return "", fmt.Errorf("token %s: %w: color without components", tok.Name, ErrUnsupportedValue)
	}

	components := make([]string, len(seq.Items))
	numbers := make([]float64, 0, len(seq.Items))
	for i, item := range seq.Items {
		s, ok := item.(*tree.String)
		if !ok {
			return "", fmt.Errorf("token %s: %w: color component", tok.Name, ErrUnsupportedValue)
		}
		if s.Value == "none" {
			components[i] = s.Value
			continue
		}
		f, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			return "", fmt.Errorf("token %s: invalid color component %q: %w", tok.Name, s.Value, err)
		}
		components[i] = formatNumber(f)
		numbers = append(numbers, f)
	}

	alpha := 1.0
	if a, ok := m.LookupString(tree.KeyPath("alpha")); ok {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return "", fmt.Errorf("token %s: invalid alpha %q: %w", tok.Name, a, err)
		}
		alpha = f
	}
	opaque := alpha >= AlphaThreshold

	if space == "srgb" && opaque && len(numbers) == 3 && len(components) == 3 {
		return colorful.Color{R: numbers[0], G: numbers[1], B: numbers[2]}.Clamped().Hex(), nil
	}

	body := strings.Join(components, " ")
	if !opaque {
		body += " / " + formatNumber(alpha)
	}
	switch space {
	case "hsl", "hwb", "lab", "lch", "oklab", "oklch":
		return space + "(" + body + ")", nil
	default:
		return "color(" + space + " " + body + ")", nil
	}
}

// dimension renders {value, unit} as e.g. 16px.
func (r *resolver) dimension(tok *Token, m *tree.Mapping) (string, error) {
	value, _, err := r.str(tok, m, "value")
	if err != nil {
		return "", err
	}
	unit, _, err := r.str(tok, m, "unit")
	if err != nil {
		return "", err
	}
	return value + unit, nil
}

// shadow renders a shadow object as a box-shadow value.
func (r *resolver) shadow(tok *Token, m *tree.Mapping) (string, error) {
	var parts []string
	if inset, ok := m.LookupString(tree.KeyPath("inset")); ok && inset == "true" {
		parts = append(parts, "inset")
	}
	for _, key := range []string{"offsetX", "offsetY", "blur", "spread", "color"} {
		v, ok, err := r.str(tok, m, key)
		if err != nil {
			return "", err
		}
		if ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " "), nil
}

// border renders a border object as a border shorthand.
func (r *resolver) border(tok *Token, m *tree.Mapping) (string, error) {
	var parts []string
	for _, key := range []string{"width", "style", "color"} {
		v, ok, err := r.str(tok, m, key)
		if err != nil {
			return "", err
		}
		if ok {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("token %s: %w: empty border", tok.Name, ErrUnsupportedValue)
	}
	return strings.Join(parts, " "), nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}
