/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project assembles a generator from a themevars config: it
// loads theme files, builds the preset and scans content for utilities.
package project

import (
	"context"
	"fmt"
	"path/filepath"

	"bennypowers.dev/themevars/config"
	"bennypowers.dev/themevars/engine"
	"bennypowers.dev/themevars/engine/mini"
	"bennypowers.dev/themevars/extract"
	"bennypowers.dev/themevars/fs"
	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/load"
	"bennypowers.dev/themevars/preset"
	"bennypowers.dev/themevars/specifier"
)

// Options configures Open.
type Options struct {
	// Root is the project directory. Defaults to the working directory.
	Root string

	// FS defaults to the OS filesystem.
	FS fs.FileSystem

	// Config overrides loading .config/themevars.* from Root.
	Config *config.Config

	// Fetcher enables CDN fallback for package theme files.
	Fetcher load.Fetcher
}

// Project is a loaded config bound to a generator.
type Project struct {
	Root      string
	FS        fs.FileSystem
	Config    *config.Config
	Preset    *preset.Preset
	Generator *engine.Generator
}

// Open loads and validates the config, loads its theme files and
// builds the generator.
func Open(ctx context.Context, opts Options) (*Project, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = abs
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.LoadOrDefault(filesystem, root); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cdn, err := specifier.ParseCDN(cfg.CDN)
	if err != nil {
		return nil, err
	}
	loader, err := load.New(load.Options{Root: root, FS: filesystem, Fetcher: opts.Fetcher, CDN: cdn})
	if err != nil {
		return nil, err
	}
	themes, err := cfg.ThemeSet(ctx, loader)
	if err != nil {
		return nil, err
	}
	media, err := cfg.MediaThemeSet()
	if err != nil {
		return nil, err
	}
	host, err := cfg.HostTheme(ctx, loader)
	if err != nil {
		return nil, err
	}
	presetOpts, err := cfg.PresetOptions(themes, media)
	if err != nil {
		return nil, err
	}

	p, err := preset.New(presetOpts)
	if err != nil {
		return nil, err
	}
	g, err := engine.New(engine.Config{
		Theme: host,
		Presets: []engine.Preset{
			mini.New(mini.Options{DarkMode: presetOpts.DarkMode}),
			p.Engine(),
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("project %s: %d themes, %d variables", root, len(p.Keys()), p.Table().Len())

	return &Project{
		Root:      root,
		FS:        filesystem,
		Config:    cfg,
		Preset:    p,
		Generator: g,
	}, nil
}

// Targets returns the configured targets, then the candidates found in
// content files, then extra.
func (p *Project) Targets(ctx context.Context, extra []string) ([]string, error) {
	files, err := p.Config.ExpandContent(p.FS, p.Root)
	if err != nil {
		return nil, fmt.Errorf("expanding content: %w", err)
	}
	found, err := extract.Files(ctx, p.FS, files)
	if err != nil {
		return nil, err
	}
	targets := make([]string, 0, len(p.Config.Targets)+len(found)+len(extra))
	targets = append(targets, p.Config.Targets...)
	targets = append(targets, found...)
	targets = append(targets, extra...)
	return targets, nil
}

// Generate generates the stylesheet for the project's targets plus extra.
func (p *Project) Generate(ctx context.Context, extra []string) (*engine.Result, error) {
	targets, err := p.Targets(ctx, extra)
	if err != nil {
		return nil, err
	}
	return p.Generator.Generate(ctx, targets, engine.GenerateOptions{Preflights: true})
}
