/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/themevars/internal/mapfs"
	"bennypowers.dev/themevars/tree"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec     string
		kind     Kind
		pkg      string
		file     string
		fragment string
	}{
		{"npm:@acme/themes/dark.yaml", KindNPM, "@acme/themes", "dark.yaml", ""},
		{"npm:themes/all.json#brand.dark", KindNPM, "themes", "all.json", "brand.dark"},
		{"npm:themes", KindNPM, "themes", "", ""},
		{"jsr:@acme/themes/dark.yaml", KindJSR, "@acme/themes", "dark.yaml", ""},
		{"./themes/dark.yaml", KindLocal, "", "./themes/dark.yaml", ""},
		{"themes.yaml#dark", KindLocal, "", "themes.yaml", "dark"},
		{"npm:", KindLocal, "", "npm:", ""},
		{"npm:@scope", KindLocal, "", "npm:@scope", ""},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			s := Parse(tt.spec)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.pkg, s.Package)
			assert.Equal(t, tt.file, s.File)
			assert.Equal(t, tt.fragment, s.Fragment)
			assert.Equal(t, tt.spec, s.Raw)
		})
	}
}

func TestIsPackageSpecifier(t *testing.T) {
	assert.True(t, IsPackageSpecifier("npm:pkg/file.json"))
	assert.True(t, IsPackageSpecifier("jsr:@a/b/file.json"))
	assert.False(t, IsPackageSpecifier("file.json"))
}

func TestFragmentPath(t *testing.T) {
	assert.Nil(t, Parse("a.yaml").FragmentPath())
	assert.Equal(t, tree.KeyPath("brand", "dark"), Parse("a.yaml#brand.dark").FragmentPath())
}

func TestResolver(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/themes/dark.yaml", "colors: {}", 0644)
	mfs.AddFile("/node_modules/@acme/themes/dark.yaml", "colors: {}", 0644)
	mfs.AddFile("/project/node_modules/@jsr/acme__themes/light.yaml", "colors: {}", 0644)

	r, err := NewResolver(mfs, "/project/packages/site")
	require.NoError(t, err)

	tests := []struct {
		spec string
		path string
	}{
		{"/project/themes/dark.yaml", "/project/themes/dark.yaml"},
		{"npm:@acme/themes/dark.yaml", "/node_modules/@acme/themes/dark.yaml"},
		{"jsr:@acme/themes/light.yaml", "/project/node_modules/@jsr/acme__themes/light.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			rf, err := r.Resolve(Parse(tt.spec))
			require.NoError(t, err)
			assert.Equal(t, tt.path, rf.Path)
		})
	}
}

func TestResolver_RelativeLocal(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/themes/dark.yaml", "colors: {}", 0644)
	r, err := NewResolver(mfs, "/project")
	require.NoError(t, err)

	rf, err := r.Resolve(Parse("themes/dark.yaml#colors"))
	require.NoError(t, err)
	assert.Equal(t, "/project/themes/dark.yaml", rf.Path)
	assert.Equal(t, "colors", rf.Specifier.Fragment)
}

func TestResolver_Errors(t *testing.T) {
	r, err := NewResolver(mapfs.New(), "/project")
	require.NoError(t, err)

	_, err = r.Resolve(Parse("npm:@acme/themes/missing.yaml"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(Parse("missing.yaml"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(Parse("npm:pkg/../../../etc/passwd"))
	assert.ErrorIs(t, err, ErrPathTraversal)

	_, err = NewResolver(mapfs.New(), "relative")
	assert.Error(t, err)
}

func TestCDNURL(t *testing.T) {
	tests := []struct {
		name   string
		spec   string
		cdn    CDN
		want   string
		wantOK bool
	}{
		{"default is unpkg", "npm:@acme/themes/dark.yaml", "", "https://unpkg.com/@acme/themes/dark.yaml", true},
		{"jsdelivr", "npm:themes/dark.yaml", CDNJSDelivr, "https://cdn.jsdelivr.net/npm/themes/dark.yaml", true},
		{"esm.sh npm", "npm:themes/dark.yaml", CDNEsmSh, "https://esm.sh/themes/dark.yaml", true},
		{"esm.sh jsr", "jsr:@acme/themes/dark.yaml", CDNEsmSh, "https://esm.sh/jsr/@acme/themes/dark.yaml", true},
		{"unpkg jsr", "jsr:@acme/themes/dark.yaml", CDNUnpkg, "", false},
		{"no file", "npm:themes", CDNUnpkg, "", false},
		{"local", "themes/dark.yaml", CDNUnpkg, "", false},
		{"fragment dropped", "npm:themes/all.yaml#dark", CDNUnpkg, "https://unpkg.com/themes/all.yaml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CDNURL(Parse(tt.spec), tt.cdn)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCDN(t *testing.T) {
	cdn, err := ParseCDN("")
	require.NoError(t, err)
	assert.Equal(t, CDNUnpkg, cdn)

	cdn, err = ParseCDN("esm.sh")
	require.NoError(t, err)
	assert.Equal(t, CDNEsmSh, cdn)

	_, err = ParseCDN("skypack")
	assert.Error(t, err)
}
