/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/themevars/cssparse"
	"bennypowers.dev/themevars/engine"
	"bennypowers.dev/themevars/engine/mini"
	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/testutil"
	"bennypowers.dev/themevars/tree"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func themes(pairs ...any) *ThemeSet {
	set := NewThemeSet()
	for i := 0; i < len(pairs); i += 2 {
		theme, _ := pairs[i+1].(*tree.Mapping)
		set.Set(pairs[i].(string), theme)
	}
	return set
}

func newGenerator(t *testing.T, theme *tree.Mapping, opts Options) (*engine.Generator, *Preset) {
	t.Helper()
	p, err := New(opts)
	require.NoError(t, err)
	g, err := engine.New(engine.Config{
		Theme: theme,
		Presets: []engine.Preset{
			mini.New(mini.Options{DarkMode: opts.DarkMode}),
			p.Engine(),
		},
	})
	require.NoError(t, err)
	return g, p
}

func generate(t *testing.T, g *engine.Generator, targets ...string) string {
	t.Helper()
	res, err := g.Generate(context.Background(), targets, engine.GenerateOptions{Preflights: true})
	require.NoError(t, err)
	return res.CSS
}

// themeLayer returns the lines of the theme layer.
func themeLayer(css string) string {
	_, rest, ok := strings.Cut(css, "/* layer: theme */\n")
	if !ok {
		return ""
	}
	layer, _, _ := strings.Cut(rest, "\n/* layer:")
	return layer
}

func mainColors() *tree.Mapping {
	return tree.Map("colors", tree.Map("main", tree.Map(
		"100", "#000001",
		"200", "#000002",
		"500", "#000004",
	)))
}

func basicGenerator(t *testing.T) *engine.Generator {
	t.Helper()
	host := tree.Merge(mainColors(), tree.Map("fontSize", tree.Map(
		"xs", []string{"0.75rem", "1rem"},
		"sm", []string{"0.875rem", "1.25rem"},
	)))
	g, _ := newGenerator(t, host, Options{
		Themes: themes(
			"dark", tree.Map("colors", tree.Map("main", tree.Map(
				"100", "#fffff1",
				"200", "#fffff2",
				"500", "#fffff4",
			))),
			"compact", tree.Map("fontSize", tree.Map(
				"xs", []string{"1.75rem", "2rem"},
				"sm", []string{"1.875rem", "2.25rem"},
			)),
		),
	})
	return g
}

func TestGenerate_Basic(t *testing.T) {
	g := basicGenerator(t)

	css := generate(t, g, "text-main-100", "bg-main-200", "border-main-500", "text-sm")

	expected := strings.Join([]string{
		"/* layer: theme */",
		":root{--un-preset-theme-colors-main-100:0 0 1;--un-preset-theme-colors-main-200:0 0 2;--un-preset-theme-colors-main-500:0 0 4;--un-preset-theme-fontSize-sm-0:0.875rem;--un-preset-theme-fontSize-sm-1:1.25rem;}",
		".dark{--un-preset-theme-colors-main-100:255 255 241;--un-preset-theme-colors-main-200:255 255 242;--un-preset-theme-colors-main-500:255 255 244;}",
		".compact{--un-preset-theme-fontSize-sm-0:1.875rem;--un-preset-theme-fontSize-sm-1:2.25rem;}",
		"/* layer: default */",
		".text-sm{font-size:var(--un-preset-theme-fontSize-sm-0);line-height:var(--un-preset-theme-fontSize-sm-1);}",
		".text-main-100{--un-text-opacity:1;color:rgb(var(--un-preset-theme-colors-main-100) / var(--un-text-opacity));}",
		".bg-main-200{--un-bg-opacity:1;background-color:rgb(var(--un-preset-theme-colors-main-200) / var(--un-bg-opacity));}",
		".border-main-500{--un-border-opacity:1;border-color:rgb(var(--un-preset-theme-colors-main-500) / var(--un-border-opacity));}",
	}, "\n")
	assert.Equal(t, expected, css)
}

func TestGenerate_NoLeakBetweenRuns(t *testing.T) {
	g := basicGenerator(t)

	first := themeLayer(generate(t, g, "text-main-100"))
	assert.Contains(t, first, "--un-preset-theme-colors-main-100:")

	second := themeLayer(generate(t, g, "bg-main-200"))
	assert.Contains(t, second, "--un-preset-theme-colors-main-200:")
	assert.NotContains(t, second, "--un-preset-theme-colors-main-100:")
}

func TestGenerate_Concurrent(t *testing.T) {
	g := basicGenerator(t)

	owned := map[string]string{
		"text-main-100":   "--un-preset-theme-colors-main-100:",
		"bg-main-200":     "--un-preset-theme-colors-main-200:",
		"border-main-500": "--un-preset-theme-colors-main-500:",
		"text-xs":         "--un-preset-theme-fontSize-xs-0:",
	}

	var wg sync.WaitGroup
	for target, own := range owned {
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := g.Generate(context.Background(), []string{target}, engine.GenerateOptions{Preflights: true})
				if !assert.NoError(t, err) {
					return
				}
				layer := themeLayer(res.CSS)
				assert.Contains(t, layer, own)
				for other, decl := range owned {
					if other != target {
						assert.NotContains(t, layer, decl, "%s leaked into %s", other, target)
					}
				}
			}()
		}
	}
	wg.Wait()
}

func TestGenerate_UnusedVariablesExcluded(t *testing.T) {
	host := tree.Map("colors", tree.Map("primary", "#123456", "accent", "#abcdef"))
	g, p := newGenerator(t, host, Options{
		Themes: themes("dark", tree.Map("colors", tree.Map("primary", "#654321", "accent", "#fedcba"))),
	})

	css := generate(t, g, "text-primary")

	_, ok := p.Table().Lookup("--un-preset-theme-colors-accent")
	require.True(t, ok, "accent has a variable")
	assert.NotContains(t, css, "--un-preset-theme-colors-accent")
	assert.Contains(t, themeLayer(css), "--un-preset-theme-colors-primary:18 52 86;")
}

func TestGenerate_NothingUsed(t *testing.T) {
	g := basicGenerator(t)

	res, err := g.Generate(context.Background(), []string{"px-2"}, engine.GenerateOptions{Preflights: true})
	require.NoError(t, err)
	assert.NotContains(t, res.CSS, "layer: theme")
	assert.Equal(t, []string{engine.LayerDefault}, res.Layers)
}

func TestGenerate_RoundTrip(t *testing.T) {
	g := basicGenerator(t)
	css := generate(t, g, "text-main-100", "bg-main-200", "text-xs", "text-sm")

	rules, err := cssparse.Parse(css)
	require.NoError(t, err)

	declared := make(map[string]map[string]bool)
	for _, r := range rules {
		if declared[r.Selector] == nil {
			declared[r.Selector] = make(map[string]bool)
		}
		for _, d := range r.Declarations {
			declared[r.Selector][d.Property] = true
		}
	}

	refRE := regexp.MustCompile(`var\((--un-preset-theme[\w-]*)`)
	var refs int
	for _, r := range rules {
		if r.Selector == ":root" || r.Selector == ".dark" || r.Selector == ".compact" {
			continue
		}
		for _, d := range r.Declarations {
			for _, m := range refRE.FindAllStringSubmatch(d.Value, -1) {
				refs++
				assert.True(t, declared[":root"][m[1]], "%s declared in :root", m[1])
			}
		}
	}
	assert.Equal(t, 6, refs)

	// every theme with a value for a used path declares it
	assert.True(t, declared[".dark"]["--un-preset-theme-colors-main-100"])
	assert.True(t, declared[".compact"]["--un-preset-theme-fontSize-xs-1"])
	assert.False(t, declared[".compact"]["--un-preset-theme-colors-main-100"])
}

func TestGenerate_ColorAlpha(t *testing.T) {
	host := tree.Map("colors", tree.Map("a", "rgb(0, 255, 0)"))
	g, p := newGenerator(t, host, Options{
		Themes: themes("dark", tree.Map("colors", tree.Map("a", "rgba(255, 0, 0, 0.5)"))),
	})

	v, ok := g.Theme().LookupString(tree.KeyPath("colors", "a"))
	require.True(t, ok)
	assert.Equal(t, "rgb(var(--un-preset-theme-colors-a) / var(--un-preset-theme-colors-a--alpha, 1))", v)

	css := generate(t, g, "text-a/40", "text-a")

	expected := strings.Join([]string{
		"/* layer: theme */",
		":root{--un-preset-theme-colors-a:0 255 0;--un-preset-theme-colors-a--alpha:1;}",
		".dark{--un-preset-theme-colors-a:255 0 0;--un-preset-theme-colors-a--alpha:0.5;}",
		"/* layer: default */",
		`.text-a\/40{color:rgb(var(--un-preset-theme-colors-a) / 0.4);}`,
		".text-a{color:rgb(var(--un-preset-theme-colors-a) / var(--un-preset-theme-colors-a--alpha, 1));}",
	}, "\n")
	assert.Equal(t, expected, css)

	rec, ok := p.Table().Lookup("--un-preset-theme-colors-a--alpha")
	require.True(t, ok)
	assert.Equal(t, "rgb", rec.Color)
}

func TestGenerate_Selectors(t *testing.T) {
	host := tree.Map("colors", tree.Map("primary", "#123456"))
	g, _ := newGenerator(t, host, Options{
		Themes:    themes("dark", tree.Map("colors", tree.Map("primary", "#654321"))),
		Selectors: map[string]string{"dark": "body.dark", "light": ".light"},
	})

	css := generate(t, g, "text-primary")

	assert.Equal(t, strings.Join([]string{
		".light{--un-preset-theme-colors-primary:18 52 86;}",
		"body.dark{--un-preset-theme-colors-primary:101 67 33;}",
	}, "\n"), themeLayer(css))
}

func TestSelectorMap(t *testing.T) {
	m := NewSelectorMap("light", map[string]string{"dark": "[data-theme=dark]", "empty": ""})

	assert.Equal(t, ":root", m.Selector("light"))
	assert.Equal(t, "[data-theme=dark]", m.Selector("dark"))
	assert.Equal(t, ".compact", m.Selector("compact"))
	assert.Equal(t, `.hi\.contrast`, m.Selector("hi.contrast"))
	assert.Equal(t, `.\32 x`, m.Selector("2x"))
	assert.Equal(t, ".empty", m.Selector("empty"))
	assert.True(t, m.Overridden("dark"))
	assert.False(t, m.Overridden("empty"))
}

func TestGenerate_MediaDarkMode(t *testing.T) {
	host := tree.Map(
		"colors", tree.Map("primary", "#123456"),
		"fontSize", tree.Map("xs", []string{"1.75rem", "2rem"}),
	)
	g, _ := newGenerator(t, host, Options{
		Themes: themes(
			"dark", tree.Map("colors", tree.Map("primary", "#654321")),
			"compact", tree.Map("fontSize", tree.Map("xs", []string{"0.75rem", "1rem"})),
		),
		DarkMode: mini.DarkModeMedia,
	})

	css := generate(t, g, "text-xs", "text-primary")

	assert.Equal(t, testutil.Golden(t, "golden/media-dark-mode.css", css), css)
}

func TestGenerate_MediaDarkModeOverriddenSelector(t *testing.T) {
	host := tree.Map("colors", tree.Map("primary", "#123456"))
	g, _ := newGenerator(t, host, Options{
		Themes:    themes("dark", tree.Map("colors", tree.Map("primary", "#654321"))),
		Selectors: map[string]string{"dark": "[data-theme=dark]"},
		DarkMode:  mini.DarkModeMedia,
	})

	layer := themeLayer(generate(t, g, "text-primary"))

	assert.Equal(t, strings.Join([]string{
		"@media (prefers-color-scheme: light){",
		":root{--un-preset-theme-colors-primary:18 52 86;}",
		"}",
		"[data-theme=dark]{--un-preset-theme-colors-primary:101 67 33;}",
	}, "\n"), layer)
}

func TestGenerate_NestedArrayLeaf(t *testing.T) {
	host := tree.Map("fontSize", tree.Map("sm", []string{"0.875rem", "1.25rem"}))
	g, p := newGenerator(t, host, Options{
		Themes: themes(
			"compact", tree.Map("fontSize", tree.Map("sm", []string{"0.75rem", "1rem"})),
			"roomy", tree.Map("fontSize", tree.Map("sm", "1rem")),
		),
	})

	first, ok := p.Table().LookupPath(tree.KeyPath("fontSize", "sm").Append(tree.Index(0)))
	require.True(t, ok)
	second, ok := p.Table().LookupPath(tree.KeyPath("fontSize", "sm").Append(tree.Index(1)))
	require.True(t, ok)

	assert.Equal(t, "--un-preset-theme-fontSize-sm-0", first.Name)
	assert.Equal(t, "--un-preset-theme-fontSize-sm-1", second.Name)
	assert.Equal(t, map[string]string{"compact": "0.75rem", "roomy": "1rem", "light": "0.875rem"}, first.Values)
	assert.Equal(t, map[string]string{"compact": "1rem", "roomy": "1rem", "light": "1.25rem"}, second.Values)

	layer := themeLayer(generate(t, g, "text-sm"))
	assert.Equal(t, strings.Join([]string{
		":root{--un-preset-theme-fontSize-sm-0:0.875rem;--un-preset-theme-fontSize-sm-1:1.25rem;}",
		".compact{--un-preset-theme-fontSize-sm-0:0.75rem;--un-preset-theme-fontSize-sm-1:1rem;}",
		".roomy{--un-preset-theme-fontSize-sm-0:1rem;--un-preset-theme-fontSize-sm-1:1rem;}",
	}, "\n"), layer)
}

func TestGenerate_HostTupleOverriddenByString(t *testing.T) {
	host := tree.Map("fontSize", tree.Map("sm", []string{"0.875rem", "1.25rem"}))
	g, p := newGenerator(t, host, Options{
		Themes: themes("compact", tree.Map("fontSize", tree.Map("sm", "1rem"))),
	})

	v, ok := g.Theme().Lookup(tree.KeyPath("fontSize", "sm"))
	require.True(t, ok)
	assert.IsType(t, &tree.Sequence{}, v)

	first, ok := p.Table().LookupPath(tree.KeyPath("fontSize", "sm").Append(tree.Index(0)))
	require.True(t, ok)
	assert.Equal(t, map[string]string{"compact": "1rem", "light": "0.875rem"}, first.Values)

	css := generate(t, g, "text-sm")
	assert.Equal(t, strings.Join([]string{
		":root{--un-preset-theme-fontSize-sm-0:0.875rem;--un-preset-theme-fontSize-sm-1:1.25rem;}",
		".compact{--un-preset-theme-fontSize-sm-0:1rem;--un-preset-theme-fontSize-sm-1:1rem;}",
	}, "\n"), themeLayer(css))
	assert.Contains(t, css, ".text-sm{font-size:var(--un-preset-theme-fontSize-sm-0);line-height:var(--un-preset-theme-fontSize-sm-1);}")
}

func TestGenerate_MixedColorNotations(t *testing.T) {
	host := tree.Map("colors", tree.Map("a", "#ff0000"))
	g, p := newGenerator(t, host, Options{
		Themes: themes("dark", tree.Map("colors", tree.Map("a", "hsl(120 100% 50%)"))),
	})

	v, ok := p.Table().Lookup("--un-preset-theme-colors-a")
	require.True(t, ok)
	assert.Equal(t, "rgb", v.Color)

	css := generate(t, g, "text-a/40")
	assert.Equal(t, strings.Join([]string{
		":root{--un-preset-theme-colors-a:255 0 0;}",
		".dark{--un-preset-theme-colors-a:0 255 0;}",
	}, "\n"), themeLayer(css))
	assert.Contains(t, css, `.text-a\/40{color:rgb(var(--un-preset-theme-colors-a) / 0.4);}`)
}

func TestGenerate_MultilineValue(t *testing.T) {
	host := tree.Map("spacing", tree.Map("a", "calc(1px +\n 2px)"))
	g, _ := newGenerator(t, host, Options{
		Themes: themes("compact", tree.Map("spacing", tree.Map("a", "calc(2px\n\t+   2px)"))),
	})

	css := generate(t, g, "p-a")

	assert.Equal(t, strings.Join([]string{
		":root{--un-preset-theme-spacing-a:calc(1px + 2px);}",
		".compact{--un-preset-theme-spacing-a:calc(2px + 2px);}",
	}, "\n"), themeLayer(css))
	assert.Contains(t, css, ".p-a{padding:var(--un-preset-theme-spacing-a);}")
}

func TestGenerate_DottedThemeKey(t *testing.T) {
	host := tree.Map("colors", tree.Map("a", "#000001"))
	g, _ := newGenerator(t, host, Options{
		Themes: themes("hi.contrast", tree.Map("colors", tree.Map("a", "#ffffff"))),
	})

	layer := themeLayer(generate(t, g, "text-a"))

	assert.Contains(t, layer, `.hi\.contrast{--un-preset-theme-colors-a:255 255 255;}`)
	assert.NotContains(t, layer, ".hi.contrast{")
}

func TestGenerate_ColorKeywordsAndCustomVars(t *testing.T) {
	host := tree.Map("colors", tree.Map("colorKey", "red", "customVar", "var(--fd-color-light)"))
	g, _ := newGenerator(t, host, Options{
		Themes: themes("dark", tree.Map("colors", tree.Map("colorKey", "blue", "customVar", "var(--fd-color-dark)"))),
	})

	css := generate(t, g, "text-color-key", "text-custom-var")

	assert.Equal(t, strings.Join([]string{
		"/* layer: theme */",
		":root{--un-preset-theme-colors-colorKey:red;--un-preset-theme-colors-customVar:var(--fd-color-light);}",
		".dark{--un-preset-theme-colors-colorKey:blue;--un-preset-theme-colors-customVar:var(--fd-color-dark);}",
		"/* layer: default */",
		".text-color-key{color:var(--un-preset-theme-colors-colorKey);}",
		".text-custom-var{color:var(--un-preset-theme-colors-customVar);}",
	}, "\n"), css)
}

func TestGenerate_EscapedSegment(t *testing.T) {
	host := tree.Map("spacing", tree.Map("0.5", "0.125rem"))
	g, _ := newGenerator(t, host, Options{
		Themes: themes("compact", tree.Map("spacing", tree.Map("0.5", "1px"))),
	})

	css := generate(t, g, "p-0.5")

	assert.Contains(t, css, `:root{--un-preset-theme-spacing-0\.5:0.125rem;}`)
	assert.Contains(t, css, `.compact{--un-preset-theme-spacing-0\.5:1px;}`)
	assert.Contains(t, css, `.p-0\.5{padding:var(--un-preset-theme-spacing-0\.5);}`)
}

func TestGenerate_MediaThemes(t *testing.T) {
	host := tree.Map("spacing", tree.Map("lg", "1rem"))
	g, p := newGenerator(t, host, Options{
		Themes:      NewThemeSet(),
		MediaThemes: themes("xl", tree.Map("spacing", tree.Map("lg", "3rem")), "md", tree.Map("spacing", tree.Map("lg", "2rem"))),
	})

	assert.Equal(t, []string{"light", "@md", "@xl"}, p.Keys())

	layer := themeLayer(generate(t, g, "p-lg"))
	assert.Equal(t, strings.Join([]string{
		":root{--un-preset-theme-spacing-lg:1rem;}",
		"@media (min-width: 768px){",
		":root{--un-preset-theme-spacing-lg:2rem;}",
		"}",
		"@media (min-width: 1280px){",
		":root{--un-preset-theme-spacing-lg:3rem;}",
		"}",
	}, "\n"), layer)
}

func TestGenerate_MediaThemesCustomBreakpoints(t *testing.T) {
	host := tree.Map(
		"spacing", tree.Map("lg", "1rem"),
		"breakpoints", tree.Map("tablet", "600px"),
	)
	g, _ := newGenerator(t, host, Options{
		Themes:      NewThemeSet(),
		MediaThemes: themes("tablet", tree.Map("spacing", tree.Map("lg", "2rem"))),
	})

	assert.Contains(t, generate(t, g, "p-lg"), "@media (min-width: 600px){\n:root{--un-preset-theme-spacing-lg:2rem;}\n}")
}

func TestGenerate_MarkerIgnoredOutsideTheme(t *testing.T) {
	g := basicGenerator(t)

	res, err := g.Generate(context.Background(), []string{"__themevars:dark:1", "dark:__themevars:dark:1"}, engine.GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Matched)
}

func TestStaticCSS(t *testing.T) {
	host := tree.Map("colors", tree.Map("primary", "#123456", "accent", "#abcdef"))
	_, p := newGenerator(t, host, Options{
		Themes: themes("dark", tree.Map("colors", tree.Map("primary", "#654321"))),
	})

	css, err := p.StaticCSS()
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		":root{--un-preset-theme-colors-primary:18 52 86;}",
		".dark{--un-preset-theme-colors-primary:101 67 33;}",
	}, "\n"), css)
}

func TestStaticCSS_MediaMode(t *testing.T) {
	_, p := newGenerator(t, mainColors(), Options{
		Themes:   themes("dark", tree.Map("colors", tree.Map("main", tree.Map("100", "#fff")))),
		DarkMode: mini.DarkModeMedia,
	})

	css, err := p.StaticCSS()
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"@media (prefers-color-scheme: dark){",
		":root{--un-preset-theme-colors-main-100:255 255 255;}",
		"}",
		"@media (prefers-color-scheme: light){",
		":root{--un-preset-theme-colors-main-100:0 0 1;}",
		"}",
	}, "\n"), css)
}

func TestStaticCSS_NotBound(t *testing.T) {
	p, err := New(Options{Themes: NewThemeSet()})
	require.NoError(t, err)
	_, err = p.StaticCSS()
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoThemes)

	_, err = New(Options{Themes: themes("my theme", tree.NewMapping())})
	assert.ErrorIs(t, err, ErrInvalidThemeKey)

	_, err = New(Options{Themes: NewThemeSet(), Base: "a:b"})
	assert.ErrorIs(t, err, ErrInvalidThemeKey)

	_, err = New(Options{Themes: NewThemeSet(), MediaThemes: themes("", tree.NewMapping())})
	assert.ErrorIs(t, err, ErrInvalidThemeKey)
}

func TestExtendTheme_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr error
		path    string
	}{
		{
			name: "sequence of mappings",
			opts: Options{Themes: themes("dark", tree.Map("shadows", &tree.Sequence{
				Items: []tree.Node{tree.Map("x", "1px")},
			}))},
			wantErr: ErrUnsupportedLeaf,
			path:    "shadows[0]",
		},
		{
			name: "conflicting shapes",
			opts: Options{Themes: themes(
				"dark", tree.Map("colors", tree.Map("primary", "#fff")),
				"star", tree.Map("colors", tree.Map("primary", tree.Map("DEFAULT", "#000"))),
			)},
			wantErr: ErrConflictingShape,
			path:    "colors.primary",
		},
		{
			name:    "brace in value",
			opts:    Options{Themes: themes("dark", tree.Map("spacing", tree.Map("a", "1px}body{color:red")))},
			wantErr: ErrInvalidValue,
			path:    "spacing.a",
		},
		{
			name:    "brace in sequence item",
			opts:    Options{Themes: themes("dark", tree.Map("fontSize", tree.Map("sm", []string{"1rem", "{"})))},
			wantErr: ErrInvalidValue,
			path:    "fontSize.sm[1]",
		},
		{
			name:    "unknown breakpoint",
			opts:    Options{Themes: NewThemeSet(), MediaThemes: themes("huge", tree.NewMapping())},
			wantErr: ErrUnknownBreakpoint,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			require.NoError(t, err)
			_, err = engine.New(engine.Config{Theme: tree.NewMapping(), Presets: []engine.Preset{p.Engine()}})
			require.ErrorIs(t, err, tt.wantErr)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.path, cfgErr.Path.String())
		})
	}
}

func TestExtendTheme_AlreadyBound(t *testing.T) {
	p, err := New(Options{Themes: NewThemeSet()})
	require.NoError(t, err)

	_, err = engine.New(engine.Config{Theme: tree.NewMapping(), Presets: []engine.Preset{p.Engine()}})
	require.NoError(t, err)
	_, err = engine.New(engine.Config{Theme: tree.NewMapping(), Presets: []engine.Preset{p.Engine()}})
	assert.ErrorIs(t, err, ErrAlreadyBound)
}

func TestRewrite_MixedColorNotationsConvertToRGB(t *testing.T) {
	_, table, err := Rewrite(
		tree.Map("colors", tree.Map("a", "#fff")),
		themes("light", tree.NewMapping(), "dark", tree.Map("colors", tree.Map("a", "hsl(0 0% 0% / 0.5)"))),
		"light", DefaultPrefix,
	)
	require.NoError(t, err)

	v, ok := table.Lookup("--un-preset-theme-colors-a")
	require.True(t, ok)
	assert.Equal(t, "rgb", v.Color)
	assert.Equal(t, map[string]string{"light": "255 255 255", "dark": "0 0 0"}, v.Values)
	assert.Equal(t, map[string]string{"light": "1", "dark": "0.5"}, v.AlphaValues)
}

func TestRewrite_WarnsOnUnconvertibleColorMix(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(io.Discard) })

	_, table, err := Rewrite(
		tree.Map("colors", tree.Map("a", "#fff")),
		themes("light", tree.NewMapping(), "dark", tree.Map("colors", tree.Map("a", "hsl(var(--h) 0% 0%)"))),
		"light", DefaultPrefix,
	)
	require.NoError(t, err)

	v, ok := table.Lookup("--un-preset-theme-colors-a")
	require.True(t, ok)
	assert.Empty(t, v.Color)
	assert.Equal(t, map[string]string{"light": "#fff", "dark": "hsl(var(--h) 0% 0%)"}, v.Values)
	assert.Contains(t, buf.String(), "warning:")
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, DefaultPrefix, NormalizePrefix(""))
	assert.Equal(t, "--brand", NormalizePrefix("brand"))
	assert.Equal(t, "--brand", NormalizePrefix("--brand-"))
}
