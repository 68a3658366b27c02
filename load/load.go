/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load reads theme mappings from local files and packages, with
// opt-in CDN fallback for package specifiers.
package load

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"bennypowers.dev/themevars/fs"
	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/specifier"
	"bennypowers.dev/themevars/tokens"
	"bennypowers.dev/themevars/tree"
)

var (
	// ErrLocalResolution indicates that local filesystem resolution failed.
	ErrLocalResolution = errors.New("local resolution failed")

	// ErrNetworkFallback indicates that the CDN network fallback also failed.
	ErrNetworkFallback = errors.New("network fallback failed")

	// ErrNotMapping indicates a fragment that does not name a mapping.
	ErrNotMapping = errors.New("fragment is not a mapping")
)

// Options configures how theme files are loaded.
type Options struct {
	// Root is the directory for local and node_modules resolution.
	// Defaults to the working directory.
	Root string

	// FS is the filesystem to use. Defaults to the OS filesystem.
	FS fs.FileSystem

	// Fetcher enables network fallback for package specifiers that fail
	// local resolution. Nil disables it.
	Fetcher Fetcher

	// CDN selects the fallback CDN. Defaults to unpkg.
	CDN specifier.CDN

	// FetchTimeout bounds each fetch. Defaults to DefaultTimeout.
	FetchTimeout time.Duration
}

// Loader loads theme files. Documents are cached by specifier without
// fragment, so several fragments of one file are read once.
type Loader struct {
	opts     Options
	resolver specifier.Resolver

	mu    sync.Mutex
	cache map[string]*tree.Mapping
}

// New creates a Loader.
func New(opts Options) (*Loader, error) {
	if opts.FS == nil {
		opts.FS = fs.NewOSFileSystem()
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if !filepath.IsAbs(opts.Root) {
		abs, err := filepath.Abs(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		opts.Root = abs
	}
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = DefaultTimeout
	}
	res, err := specifier.NewResolver(opts.FS, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}
	return &Loader{
		opts:     opts,
		resolver: res,
		cache:    make(map[string]*tree.Mapping),
	}, nil
}

// Theme loads the mapping a specifier names. The returned mapping is a
// copy the caller may modify.
func (l *Loader) Theme(ctx context.Context, spec string) (*tree.Mapping, error) {
	parsed := specifier.Parse(spec)
	doc, err := l.document(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", spec, err)
	}

	path := parsed.FragmentPath()
	if len(path) == 0 {
		return doc.CloneMapping(), nil
	}
	node, ok := doc.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("failed to load %q: %w: %s", spec, specifier.ErrNotFound, path)
	}
	m, ok := node.(*tree.Mapping)
	if !ok {
		return nil, fmt.Errorf("failed to load %q: %w: %s", spec, ErrNotMapping, path)
	}
	return m.CloneMapping(), nil
}

func (l *Loader) document(ctx context.Context, spec *specifier.Specifier) (*tree.Mapping, error) {
	key := spec.Kind.String() + ":" + spec.Package + "/" + spec.File

	l.mu.Lock()
	doc, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return doc, nil
	}

	content, err := l.content(ctx, spec)
	if err != nil {
		return nil, err
	}
	doc, err = tree.Parse(content)
	if err != nil {
		return nil, err
	}
	if tokens.IsDocument(doc) {
		if doc, err = tokens.ToTheme(doc); err != nil {
			return nil, err
		}
		logger.Debug("converted design tokens from %s", spec.Raw)
	}

	l.mu.Lock()
	l.cache[key] = doc
	l.mu.Unlock()
	return doc, nil
}

// content tries local resolution first, then the CDN for package
// specifiers when a Fetcher is set.
func (l *Loader) content(ctx context.Context, spec *specifier.Specifier) ([]byte, error) {
	resolved, err := l.resolver.Resolve(spec)
	if err != nil {
		return l.fetchFromCDN(ctx, spec, err)
	}

	content, readErr := l.opts.FS.ReadFile(resolved.Path)
	if readErr != nil {
		return l.fetchFromCDN(ctx, spec, fmt.Errorf("failed to read %s: %w", resolved.Path, readErr))
	}
	logger.Debug("loaded %s from %s", spec.Raw, resolved.Path)
	return content, nil
}

func (l *Loader) fetchFromCDN(ctx context.Context, spec *specifier.Specifier, localErr error) ([]byte, error) {
	if l.opts.Fetcher == nil {
		return nil, localErr
	}
	url, ok := specifier.CDNURL(spec, l.opts.CDN)
	if !ok {
		return nil, localErr
	}

	ctx, cancel := context.WithTimeout(ctx, l.opts.FetchTimeout)
	defer cancel()

	logger.Debug("fetching %s from %s", spec.Raw, url)
	content, err := l.opts.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w (%w), %w: %w", ErrLocalResolution, localErr, ErrNetworkFallback, err)
	}
	return content, nil
}

// Theme loads a single theme mapping with a one-off Loader.
func Theme(ctx context.Context, spec string, opts Options) (*tree.Mapping, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	return l.Theme(ctx, spec)
}
