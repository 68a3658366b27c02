/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/themevars/internal/mapfs"
	"bennypowers.dev/themevars/specifier"
	"bennypowers.dev/themevars/tree"
)

type stubFetcher struct {
	body  string
	err   error
	urls  []string
	calls atomic.Int32
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func fixture() *mapfs.MapFileSystem {
	mfs := mapfs.New()
	mfs.AddFile("/project/themes/dark.yaml", "colors:\n  primary: '#123456'\n", 0644)
	mfs.AddFile("/project/themes/all.json", `{
  // both schemes
  "dark": {"colors": {"primary": "#000"}},
  "light": {"colors": {"primary": "#fff"}},
  "name": "acme"
}`, 0644)
	mfs.AddFile("/project/node_modules/@acme/themes/dark.yaml", "colors:\n  primary: red\n", 0644)
	return mfs
}

func TestLoader_Theme(t *testing.T) {
	l, err := New(Options{Root: "/project", FS: fixture()})
	require.NoError(t, err)

	tests := []struct {
		spec string
		want string
	}{
		{"themes/dark.yaml", "#123456"},
		{"themes/all.json#dark", "#000"},
		{"themes/all.json#light", "#fff"},
		{"npm:@acme/themes/dark.yaml", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			m, err := l.Theme(context.Background(), tt.spec)
			require.NoError(t, err)
			got, ok := m.LookupString(tree.KeyPath("colors", "primary"))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoader_ReturnsCopies(t *testing.T) {
	l, err := New(Options{Root: "/project", FS: fixture()})
	require.NoError(t, err)

	first, err := l.Theme(context.Background(), "themes/dark.yaml")
	require.NoError(t, err)
	first.Delete("colors")

	second, err := l.Theme(context.Background(), "themes/dark.yaml")
	require.NoError(t, err)
	assert.True(t, second.Has("colors"))
}

func TestLoader_FragmentErrors(t *testing.T) {
	l, err := New(Options{Root: "/project", FS: fixture()})
	require.NoError(t, err)

	_, err = l.Theme(context.Background(), "themes/all.json#sepia")
	assert.ErrorIs(t, err, specifier.ErrNotFound)

	_, err = l.Theme(context.Background(), "themes/all.json#name")
	assert.ErrorIs(t, err, ErrNotMapping)
}

func TestLoader_NoFetcher(t *testing.T) {
	l, err := New(Options{Root: "/project", FS: fixture()})
	require.NoError(t, err)

	_, err = l.Theme(context.Background(), "npm:@acme/other/dark.yaml")
	assert.ErrorIs(t, err, specifier.ErrNotFound)
}

func TestLoader_CDNFallback(t *testing.T) {
	fetcher := &stubFetcher{body: "colors:\n  primary: blue\n"}
	l, err := New(Options{Root: "/project", FS: fixture(), Fetcher: fetcher, CDN: specifier.CDNJSDelivr})
	require.NoError(t, err)

	m, err := l.Theme(context.Background(), "npm:@acme/other/dark.yaml")
	require.NoError(t, err)
	got, _ := m.LookupString(tree.KeyPath("colors", "primary"))
	assert.Equal(t, "blue", got)
	assert.Equal(t, []string{"https://cdn.jsdelivr.net/npm/@acme/other/dark.yaml"}, fetcher.urls)

	_, err = l.Theme(context.Background(), "npm:@acme/other/dark.yaml")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestLoader_LocalNeverFetched(t *testing.T) {
	fetcher := &stubFetcher{body: "colors: {}"}
	l, err := New(Options{Root: "/project", FS: fixture(), Fetcher: fetcher})
	require.NoError(t, err)

	_, err = l.Theme(context.Background(), "themes/missing.yaml")
	assert.ErrorIs(t, err, specifier.ErrNotFound)
	assert.Zero(t, fetcher.calls.Load())
}

func TestLoader_FetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("offline")}
	l, err := New(Options{Root: "/project", FS: fixture(), Fetcher: fetcher})
	require.NoError(t, err)

	_, err = l.Theme(context.Background(), "npm:@acme/other/dark.yaml")
	assert.ErrorIs(t, err, ErrLocalResolution)
	assert.ErrorIs(t, err, ErrNetworkFallback)
	assert.ErrorIs(t, err, specifier.ErrNotFound)
}

func TestTheme(t *testing.T) {
	m, err := Theme(context.Background(), "themes/dark.yaml", Options{Root: "/project", FS: fixture()})
	require.NoError(t, err)
	assert.Equal(t, []string{"colors"}, m.Keys())
}

func TestLoader_DesignTokens(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/tokens/dark.tokens.json", `{
  "colors": {
    "$type": "color",
    "primary": { "$value": { "colorSpace": "srgb", "components": [1, 1, 1] } },
    "text": { "$value": "{colors.primary}" }
  }
}`, 0644)
	l, err := New(Options{Root: "/project", FS: mfs})
	require.NoError(t, err)

	theme, err := l.Theme(context.Background(), "tokens/dark.tokens.json#colors")
	require.NoError(t, err)
	assert.Equal(t, tree.Map("primary", "#ffffff", "text", "#ffffff"), theme)
}
