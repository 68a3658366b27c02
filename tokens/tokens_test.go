/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tokens

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/testutil"
	"bennypowers.dev/themevars/tree"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func loadTheme(t *testing.T) *tree.Mapping {
	t.Helper()
	doc, err := tree.Parse(testutil.LoadFixtureFile(t, "tokens.json"))
	require.NoError(t, err)
	require.True(t, IsDocument(doc))
	theme, err := ToTheme(doc)
	require.NoError(t, err)
	return theme
}

func TestToTheme(t *testing.T) {
	theme := loadTheme(t)

	tests := []struct {
		path string
		want string
	}{
		{"color.brand.DEFAULT", "#0066cc"},
		{"color.brand.muted", "oklch(0.7 0.1 250 / 0.5)"},
		{"color.text", "#0066cc"},
		{"color.link", "#0066cc"},
		{"color.hexed", "#ff0000"},
		{"spacing.base", "4px"},
		{"spacing.double", "calc(4px * 2)"},
		{"ease.out", "cubic-bezier(0, 0, 0.58, 1)"},
		{"shadow.sm", "0px 1px 2px 0px #0066cc"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := theme.LookupString(tree.KeyPath(strings.Split(tt.path, ".")...))
			require.True(t, ok, "missing %s", tt.path)
			assert.Equal(t, tt.want, got)
		})
	}

	fonts, ok := theme.Lookup(tree.KeyPath("font", "sans"))
	require.True(t, ok)
	assert.Equal(t, tree.Seq("Inter", "sans-serif"), fonts)

	assert.False(t, theme.Has("type"), "typography has no single CSS value")
	assert.False(t, theme.Has("$schema"))
}

func TestToTheme_KeepsDocumentOrder(t *testing.T) {
	theme := loadTheme(t)
	assert.Equal(t, []string{"color", "spacing", "font", "ease", "shadow"}, theme.Keys())
}

func TestToTheme_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  *tree.Mapping
		want error
	}{
		{
			name: "unresolved",
			doc:  tree.Map("a", tree.Map("$value", "{missing.token}")),
			want: ErrUnresolvedReference,
		},
		{
			name: "circular",
			doc: tree.Map(
				"a", tree.Map("$value", "{b}"),
				"b", tree.Map("$value", "{a}"),
			),
			want: ErrCircularReference,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToTheme(tt.doc)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestIsDocument(t *testing.T) {
	assert.False(t, IsDocument(tree.Map("colors", tree.Map("bg", "#fff"))))
	assert.True(t, IsDocument(tree.Map("colors", tree.Map("bg", tree.Map("$value", "#fff")))))
}

func TestCollect_InheritsType(t *testing.T) {
	doc := tree.Map("color", tree.Map(
		"$type", "color",
		"bg", tree.Map("$value", "#fff"),
		"size", tree.Map("$type", "dimension", "$value", "1px"),
	))
	toks := Collect(doc)
	require.Len(t, toks, 2)
	assert.Equal(t, "color.bg", toks[0].Name)
	assert.Equal(t, "color", toks[0].Type)
	assert.Equal(t, "dimension", toks[1].Type)
}
