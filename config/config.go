/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for themevars.
package config

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/themevars/engine/mini"
	"bennypowers.dev/themevars/load"
	"bennypowers.dev/themevars/preset"
	"bennypowers.dev/themevars/specifier"
	"bennypowers.dev/themevars/tree"
)

// Config represents the themevars configuration.
type Config struct {
	// Prefix namespaces the generated variables. Defaults to --un-preset-theme.
	Prefix string `yaml:"prefix" json:"prefix,omitempty"`

	// Base is the theme key rendered on :root. Defaults to light.
	Base string `yaml:"base" json:"base,omitempty"`

	// DarkMode is "class" or "media".
	DarkMode string `yaml:"darkMode" json:"darkMode,omitempty"`

	// Selectors overrides the selector of individual theme keys.
	Selectors map[string]string `yaml:"selectors" json:"selectors,omitempty"`

	// Theme is the generator's own theme, which themes override.
	Theme *tree.Mapping `yaml:"theme" json:"theme,omitempty"`

	// ThemeFile loads the generator's own theme from a specifier.
	// Inline Theme values take precedence.
	ThemeFile string `yaml:"themeFile" json:"themeFile,omitempty"`

	// Themes are the named themes, in order.
	Themes *tree.Mapping `yaml:"themes" json:"themes,omitempty"`

	// MediaThemes are themes keyed by breakpoint name.
	MediaThemes *tree.Mapping `yaml:"mediaThemes" json:"mediaThemes,omitempty"`

	// ThemeFiles loads themes from local files or packages.
	ThemeFiles ThemeFiles `yaml:"themeFiles" json:"themeFiles,omitempty"`

	// Content lists globs of files to scan for utilities. Patterns
	// starting with "!" exclude matches.
	Content []string `yaml:"content" json:"content,omitempty"`

	// Targets are utilities always generated.
	Targets []string `yaml:"targets" json:"targets,omitempty"`

	// Output is the stylesheet path. Empty means stdout.
	Output string `yaml:"output" json:"output,omitempty"`

	// CDN selects the network fallback for package theme files.
	CDN string `yaml:"cdn" json:"cdn,omitempty"`

	// Path is the file the config was loaded from.
	Path string `yaml:"-" json:"-"`
}

// ThemeFile loads one theme from a specifier.
type ThemeFile struct {
	Key  string `yaml:"key" json:"key"`
	Path string `yaml:"path" json:"path"`
}

// ThemeFiles is an ordered list of theme files. In YAML and JSON it is
// either a mapping from theme key to specifier or a list of objects.
type ThemeFiles []ThemeFile

// UnmarshalYAML handles both mapping and list forms for ThemeFiles.
func (t *ThemeFiles) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		var list []ThemeFile
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	}

	files := make(ThemeFiles, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: theme file for %q must be a string", value.Line, key.Value)
		}
		files = append(files, ThemeFile{Key: key.Value, Path: value.Value})
	}
	*t = files
	return nil
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Base:     preset.DefaultBase,
		DarkMode: string(mini.DarkModeClass),
	}
}

// Validate reports every problem in the config.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := mini.ParseDarkMode(c.DarkMode); !ok {
		errs = append(errs, fmt.Errorf("darkMode: unknown mode %q (valid: class, media)", c.DarkMode))
	}
	if c.Base != "" {
		if err := preset.ValidateThemeKey(c.Base); err != nil {
			errs = append(errs, fmt.Errorf("base: %w", err))
		}
	}
	if _, err := specifier.ParseCDN(c.CDN); err != nil {
		errs = append(errs, fmt.Errorf("cdn: %w", err))
	}
	errs = append(errs, validateThemes("themes", c.Themes)...)
	errs = append(errs, validateThemes("mediaThemes", c.MediaThemes)...)
	for _, f := range c.ThemeFiles {
		if err := preset.ValidateThemeKey(f.Key); err != nil {
			errs = append(errs, fmt.Errorf("themeFiles: %w", err))
		}
		if f.Path == "" {
			errs = append(errs, fmt.Errorf("themeFiles: %s: empty path", f.Key))
		}
	}
	for key := range c.Selectors {
		if err := preset.ValidateThemeKey(key); err != nil {
			errs = append(errs, fmt.Errorf("selectors: %w", err))
		}
	}
	if c.Themes.Len() == 0 && len(c.ThemeFiles) == 0 {
		errs = append(errs, preset.ErrNoThemes)
	}

	return errors.Join(errs...)
}

// ThemeSet returns the configured themes. Themes loaded from files come
// first in file order; inline values override file values per token.
func (c *Config) ThemeSet(ctx context.Context, loader *load.Loader) (*preset.ThemeSet, error) {
	inline := preset.NewThemeSet()
	if c.Themes != nil {
		var err error
		if inline, err = preset.ThemeSetFromMapping(c.Themes); err != nil {
			return nil, err
		}
	}
	if len(c.ThemeFiles) == 0 {
		return inline, nil
	}

	set := preset.NewThemeSet()
	for _, f := range c.ThemeFiles {
		theme, err := loader.Theme(ctx, f.Path)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", f.Key, err)
		}
		if prev, ok := set.Get(f.Key); ok {
			theme = tree.Merge(prev, theme)
		}
		set.Set(f.Key, theme)
	}
	for _, key := range inline.Keys() {
		theme, _ := inline.Get(key)
		if prev, ok := set.Get(key); ok {
			theme = tree.Merge(prev, theme)
		}
		set.Set(key, theme)
	}
	return set, nil
}

// MediaThemeSet returns the configured media themes, or nil.
func (c *Config) MediaThemeSet() (*preset.ThemeSet, error) {
	if c.MediaThemes == nil {
		return nil, nil
	}
	return preset.ThemeSetFromMapping(c.MediaThemes)
}

// HostTheme returns the generator's own theme.
func (c *Config) HostTheme(ctx context.Context, loader *load.Loader) (*tree.Mapping, error) {
	theme := tree.NewMapping()
	if c.ThemeFile != "" {
		loaded, err := loader.Theme(ctx, c.ThemeFile)
		if err != nil {
			return nil, fmt.Errorf("themeFile: %w", err)
		}
		theme = loaded
	}
	if c.Theme != nil {
		theme = tree.Merge(theme, c.Theme)
	}
	return theme, nil
}

// PresetOptions builds preset options from the config and loaded themes.
func (c *Config) PresetOptions(themes, media *preset.ThemeSet) (preset.Options, error) {
	mode, ok := mini.ParseDarkMode(c.DarkMode)
	if !ok {
		return preset.Options{}, fmt.Errorf("darkMode: unknown mode %q", c.DarkMode)
	}
	return preset.Options{
		Themes:      themes,
		MediaThemes: media,
		Prefix:      c.Prefix,
		Selectors:   c.Selectors,
		Base:        c.Base,
		DarkMode:    mode,
	}, nil
}

func validateThemes(field string, themes *tree.Mapping) []error {
	if themes == nil {
		return nil
	}
	var errs []error
	if _, err := preset.ThemeSetFromMapping(themes); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", field, err))
	}
	for _, key := range themes.Keys() {
		if err := preset.ValidateThemeKey(key); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	return errs
}
