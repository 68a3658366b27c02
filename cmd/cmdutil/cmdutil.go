/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmdutil opens the project the CLI flags point at.
package cmdutil

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/themevars/config"
	"bennypowers.dev/themevars/fs"
	"bennypowers.dev/themevars/load"
	"bennypowers.dev/themevars/project"
)

// Root returns the absolute project directory from --root.
func Root() (string, error) {
	root := viper.GetString("root")
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path: %w", err)
	}
	return abs, nil
}

// LoadConfig loads the project config and applies flag and environment
// overrides.
func LoadConfig(filesystem fs.FileSystem, root string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(filesystem, root)
	if err != nil {
		return nil, err
	}
	ApplyOverrides(cfg)
	return cfg, nil
}

// ApplyOverrides copies non-empty prefix, dark-mode and cdn settings
// onto cfg.
func ApplyOverrides(cfg *config.Config) {
	if prefix := viper.GetString("prefix"); prefix != "" {
		cfg.Prefix = prefix
	}
	if mode := viper.GetString("dark-mode"); mode != "" {
		cfg.DarkMode = mode
	}
	if cdn := viper.GetString("cdn"); cdn != "" {
		cfg.CDN = cdn
	}
}

// Fetcher returns the CDN fetcher when --fetch is set, or nil.
func Fetcher() load.Fetcher {
	if !viper.GetBool("fetch") {
		return nil
	}
	return load.NewHTTPFetcher(load.DefaultMaxSize)
}

// Open loads the project from the OS filesystem.
func Open(ctx context.Context) (*project.Project, error) {
	root, err := Root()
	if err != nil {
		return nil, err
	}
	filesystem := fs.NewOSFileSystem()
	cfg, err := LoadConfig(filesystem, root)
	if err != nil {
		return nil, err
	}
	return project.Open(ctx, project.Options{
		Root:    root,
		FS:      filesystem,
		Config:  cfg,
		Fetcher: Fetcher(),
	})
}
