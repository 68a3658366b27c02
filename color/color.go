/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package color decomposes CSS color strings into a function family,
// components and alpha, so they can be rebuilt around custom properties.
package color

import (
	"math"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Color is a CSS color split into its parts. Components and Alpha are kept
// as written (e.g. "100%", "var(--x)"), except for hex colors, which are
// expanded to decimal rgb components.
type Color struct {
	// Type is the CSS color function family: rgb, hsl, hwb, lab, lch,
	// oklab, oklch or color. Legacy rgba/hsla are folded into rgb/hsl.
	Type string

	// Components are the channel values in order.
	Components []string

	// Alpha is the alpha channel, or "" when the color has none.
	Alpha string
}

// functions maps accepted CSS color functions to their family.
var functions = map[string]string{
	"rgb":   "rgb",
	"rgba":  "rgb",
	"hsl":   "hsl",
	"hsla":  "hsl",
	"hwb":   "hwb",
	"lab":   "lab",
	"lch":   "lch",
	"oklab": "oklab",
	"oklch": "oklch",
	"color": "color",
}

// Parse decomposes a hex color or a functional color notation.
// Named colors and other values such as var(--x) are not decomposed and
// report false, so callers can pass them through untouched.
func Parse(s string) (*Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	return parseFunction(s)
}

// HasAlpha reports whether the color carries an alpha channel other than
// the literal 1.
func (c *Color) HasAlpha() bool {
	return c.Alpha != "" && c.Alpha != "1"
}

// ComponentString joins the components with spaces.
func (c *Color) ComponentString() string {
	return strings.Join(c.Components, " ")
}

// CSS renders the color in modern space-separated syntax.
func (c *Color) CSS() string {
	return Wrap(c.Type, c.ComponentString(), c.Alpha)
}

// WithAlpha returns a copy of c whose alpha is replaced.
func (c *Color) WithAlpha(alpha string) *Color {
	out := *c
	out.Components = append([]string(nil), c.Components...)
	out.Alpha = alpha
	return &out
}

// Wrap builds fn(components) or fn(components / alpha).
func Wrap(fn, components, alpha string) string {
	if alpha == "" {
		return fn + "(" + components + ")"
	}
	return fn + "(" + components + " / " + alpha + ")"
}

// ToRGB converts any color csscolorparser understands into decimal rgb
// components. Alpha is kept only when below 1. Channels outside the sRGB
// gamut are clamped.
func ToRGB(s string) (*Color, bool) {
	c, err := csscolorparser.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, false
	}
	r, g, b, _ := c.Clamp().RGBA255()
	out := &Color{
		Type: "rgb",
		Components: []string{
			strconv.Itoa(int(r)),
			strconv.Itoa(int(g)),
			strconv.Itoa(int(b)),
		},
	}
	if c.A < 1 {
		out.Alpha = formatAlpha(c.A)
	}
	return out, true
}

func parseHex(s string) (*Color, bool) {
	switch len(s) {
	case 4, 5, 7, 9:
	default:
		return nil, false
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return nil, false
	}
	r, g, b, _ := c.RGBA255()
	out := &Color{
		Type: "rgb",
		Components: []string{
			strconv.Itoa(int(r)),
			strconv.Itoa(int(g)),
			strconv.Itoa(int(b)),
		},
	}
	if len(s) == 5 || len(s) == 9 {
		out.Alpha = formatAlpha(c.A)
	}
	return out, true
}

func formatAlpha(a float64) string {
	return strconv.FormatFloat(math.Round(a*1000)/1000, 'f', -1, 64)
}

func parseFunction(s string) (*Color, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	family, ok := functions[strings.ToLower(s[:open])]
	if !ok {
		return nil, false
	}
	body := strings.TrimSpace(s[open+1 : len(s)-1])
	if body == "" || !balanced(body) {
		return nil, false
	}

	channels, alpha, hasSlash := cutTopLevel(body, '/')
	var components []string
	if containsTopLevel(channels, ',') {
		if hasSlash {
			return nil, false
		}
		components = splitTopLevel(channels, ',')
		if family != "color" && len(components) == 4 {
			alpha = components[3]
			components = components[:3]
		}
	} else {
		components = strings.Fields(channels)
		components = rejoinFields(components)
	}

	for _, comp := range components {
		if comp == "" {
			return nil, false
		}
	}

	switch {
	case family == "color":
		if len(components) < 2 {
			return nil, false
		}
	case len(components) == 1:
		if !strings.HasPrefix(components[0], "var(") {
			return nil, false
		}
	case len(components) != 3:
		return nil, false
	}

	return &Color{
		Type:       family,
		Components: components,
		Alpha:      strings.TrimSpace(alpha),
	}, true
}

// balanced reports whether parentheses in s are balanced.
func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// cutTopLevel splits s around the first sep outside parentheses.
func cutTopLevel(s string, sep byte) (before, after string, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return strings.TrimSpace(s), "", false
}

func containsTopLevel(s string, sep byte) bool {
	_, _, found := cutTopLevel(s, sep)
	return found
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	for {
		before, after, found := cutTopLevel(s, sep)
		parts = append(parts, before)
		if !found {
			return parts
		}
		s = after
	}
}

// rejoinFields merges whitespace-split fields that belong to one
// parenthesized group, e.g. "var(--a," "1)".
func rejoinFields(fields []string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for _, f := range fields {
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(f)
		depth += strings.Count(f, "(") - strings.Count(f, ")")
		if depth == 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
