/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	tvfs "bennypowers.dev/themevars/fs"
)

// ErrNoConfig indicates that no config file exists.
var ErrNoConfig = errors.New("no themevars config found")

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "themevars"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Load searches for .config/themevars.{yaml,yml,json} from rootDir.
// Returns ErrNoConfig if there is none.
func Load(filesystem tvfs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}

		data, err := filesystem.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg, err := Parse(data, ext == ".json")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		cfg.Path = configPath
		return cfg, nil
	}

	return nil, fmt.Errorf("%w in %s", ErrNoConfig, filepath.Join(rootDir, ConfigDir))
}

// Parse decodes a config document over the defaults. JSON may contain
// comments. Both formats decode through yaml so theme key order is kept.
func Parse(data []byte, isJSON bool) (*Config, error) {
	if isJSON {
		data = jsonc.ToJSON(data)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault returns the config, or defaults if there is none. Other
// errors are returned.
func LoadOrDefault(filesystem tvfs.FileSystem, rootDir string) (*Config, error) {
	cfg, err := Load(filesystem, rootDir)
	if errors.Is(err, ErrNoConfig) {
		return Default(), nil
	}
	return cfg, err
}

// ExpandContent expands the Content globs relative to rootDir and returns
// the matching files, sorted and without duplicates.
func (c *Config) ExpandContent(filesystem tvfs.FileSystem, rootDir string) ([]string, error) {
	var include, exclude []string
	for _, pattern := range c.Content {
		if neg, ok := strings.CutPrefix(pattern, "!"); ok {
			exclude = append(exclude, absPattern(rootDir, neg))
			continue
		}
		include = append(include, absPattern(rootDir, pattern))
	}

	seen := make(map[string]bool)
	var result []string
	for _, pattern := range include {
		matches, err := expandFilePath(filesystem, pattern)
		if err != nil {
			return nil, err
		}
		for _, path := range matches {
			if seen[path] || excluded(exclude, path) {
				continue
			}
			seen[path] = true
			result = append(result, path)
		}
	}
	slices.Sort(result)
	return result, nil
}

func absPattern(rootDir, pattern string) string {
	if filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(rootDir, pattern)
}

func excluded(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matchDoublestar(filepath.ToSlash(pattern), filepath.ToSlash(path)) {
			return true
		}
	}
	return false
}

// expandFilePath expands a single absolute pattern which may contain globs.
func expandFilePath(filesystem tvfs.FileSystem, pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		if !filesystem.Exists(pattern) {
			return nil, nil
		}
		return []string{pattern}, nil
	}
	return expandGlob(filesystem, pattern)
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem tvfs.FileSystem, pattern string) ([]string, error) {
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}
	if !filesystem.Exists(baseDir) {
		return nil, nil
	}

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	var matches []string
	err := fs.WalkDir(filesystem, baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == "node_modules" && !strings.Contains(relPattern, "node_modules") {
				return fs.SkipDir
			}
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
		if matchDoublestar(filepath.ToSlash(relPattern), filepath.ToSlash(relPath)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// matchDoublestar provides ** glob matching using the doublestar library.
func matchDoublestar(pattern, path string) bool {
	matched, _ := doublestar.Match(pattern, path)
	return matched
}
