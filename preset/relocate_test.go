/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/themevars/engine"
)

func testMarkers() map[string]string {
	return map[string]string{
		engine.ClassSelector("dark:__themevars:dark:7"):   "dark",
		engine.ClassSelector("__themevars:compact:7"):     "compact",
		engine.ClassSelector("light:__themevars:light:7"): "light",
	}
}

func TestParseSyntheticBlocks(t *testing.T) {
	css := strings.Join([]string{
		"/* layer: theme */",
		`.__themevars\:compact\:7{--a:1;}`,
		`.dark .dark\:__themevars\:dark\:7{--a:2;}`,
		"@media (prefers-color-scheme: light){",
		`.light\:__themevars\:light\:7{--a:3;--b:4;}`,
		"}",
	}, "\n")

	blocks, err := parseSyntheticBlocks(css, testMarkers())
	require.NoError(t, err)
	assert.Equal(t, []syntheticBlock{
		{key: "compact", body: "--a:1;"},
		{key: "dark", body: "--a:2;"},
		{key: "light", scheme: "light", body: "--a:3;--b:4;"},
	}, blocks)
}

func TestParseSyntheticBlocks_Errors(t *testing.T) {
	tests := []struct {
		name string
		css  string
	}{
		{"foreign rule", ".text-red{color:red;}"},
		{"two ancestors", `.a .dark .dark\:__themevars\:dark\:7{--a:1;}`},
		{"wrong stamp", `.__themevars\:compact\:8{--a:1;}`},
		{"other media", "@media print{\n" + `.__themevars\:compact\:7{--a:1;}` + "\n}"},
		{"nested media", "@media (prefers-color-scheme: dark){\n@media (prefers-color-scheme: dark){\n}\n}"},
		{"unterminated media", "@media (prefers-color-scheme: dark){\n" + `.dark\:__themevars\:dark\:7{--a:1;}`},
		{"stray brace", "}"},
		{"not a rule", "--a:1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSyntheticBlocks(tt.css, testMarkers())
			assert.ErrorIs(t, err, ErrUnmatchedMarker)
		})
	}
}

func TestParseSyntheticBlocks_Empty(t *testing.T) {
	blocks, err := parseSyntheticBlocks("", testMarkers())
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestRender_SchemeForUnscopedKey(t *testing.T) {
	p, err := New(Options{
		Themes:    themes("dark", nil),
		Selectors: map[string]string{"dark": ".night"},
	})
	require.NoError(t, err)
	p.keys = p.themes.Keys()

	_, err = p.render([]syntheticBlock{{key: "dark", scheme: "dark", body: "--a:1;"}})
	assert.ErrorIs(t, err, ErrUnmatchedMarker)
}

func TestRender_Order(t *testing.T) {
	p, err := New(Options{
		Themes: themes("star", nil, "dark", nil, "compact", nil),
	})
	require.NoError(t, err)
	p.keys = append(p.themes.Keys(), "@sm")
	p.breakpoints = map[string]string{"sm": "640px"}

	css, err := p.render([]syntheticBlock{
		{key: "@sm", body: "--a:5;"},
		{key: "compact", body: "--a:3;"},
		{key: "dark", scheme: "dark", body: "--a:2;"},
		{key: "star", body: "--a:4;"},
		{key: "light", body: "--a:1;"},
		{key: "compact", body: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		":root{--a:1;}",
		"@media (prefers-color-scheme: dark){",
		":root{--a:2;}",
		"}",
		".star{--a:4;}",
		".compact{--a:3;}",
		"@media (min-width: 640px){",
		":root{--a:5;}",
		"}",
	}, "\n"), css)
}

func TestDeclarations(t *testing.T) {
	vars := []*Variable{
		{Name: "--a", Values: map[string]string{"dark": "1 2 3"}, AlphaName: "--a--alpha", AlphaValues: map[string]string{"dark": "0.5"}},
		{Name: "--b", Values: map[string]string{"light": "x"}},
	}
	assert.Equal(t, []engine.Entry{
		{Property: "--a", Value: "1 2 3"},
		{Property: "--a--alpha", Value: "0.5"},
	}, declarations(vars, "dark"))
	assert.Equal(t, "--b:x;", renderBody(declarations(vars, "light")))
	assert.Empty(t, declarations(vars, "compact"))
}
