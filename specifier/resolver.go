/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tvfs "bennypowers.dev/themevars/fs"
)

// Sentinel errors for specifier resolution.
var (
	// ErrNotFound indicates that no file exists for a specifier.
	ErrNotFound = errors.New("theme file not found")

	// ErrPathTraversal indicates a package path that escapes node_modules.
	ErrPathTraversal = errors.New("path traversal in specifier")
)

// ResolvedFile preserves both the original specifier and the resolved filesystem path.
type ResolvedFile struct {
	// Specifier is the parsed specifier.
	Specifier *Specifier

	// Path is the resolved filesystem path.
	Path string
}

// Resolver resolves specifiers to filesystem paths.
type Resolver interface {
	Resolve(spec *Specifier) (*ResolvedFile, error)
}

// NodeModulesResolver resolves local paths against a root directory and
// package specifiers by walking up from it looking for node_modules.
// jsr: packages are looked up under the npm compatibility scope, so
// jsr:@scope/pkg lives at node_modules/@jsr/scope__pkg.
type NodeModulesResolver struct {
	fs      tvfs.FileSystem
	rootDir string
}

// NewResolver creates a resolver rooted at rootDir, which must be absolute.
func NewResolver(fs tvfs.FileSystem, rootDir string) (*NodeModulesResolver, error) {
	if !filepath.IsAbs(rootDir) {
		return nil, fmt.Errorf("rootDir must be an absolute path, got: %s", rootDir)
	}
	return &NodeModulesResolver{fs: fs, rootDir: rootDir}, nil
}

// Resolve resolves spec to an existing file.
func (r *NodeModulesResolver) Resolve(spec *Specifier) (*ResolvedFile, error) {
	switch spec.Kind {
	case KindNPM:
		return r.walkUp(spec, spec.Package)
	case KindJSR:
		return r.walkUp(spec, filepath.Join("@jsr", jsrToNPMCompatPackage(spec.Package)))
	}

	path := spec.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.rootDir, path)
	}
	if !r.fs.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Raw)
	}
	return &ResolvedFile{Specifier: spec, Path: path}, nil
}

func (r *NodeModulesResolver) walkUp(spec *Specifier, pkgDir string) (*ResolvedFile, error) {
	dir := r.rootDir
	for {
		base := filepath.Join(dir, "node_modules")
		candidate := filepath.Clean(filepath.Join(base, pkgDir, spec.File))
		if !isInsideDir(candidate, base) {
			return nil, fmt.Errorf("%w: %s", ErrPathTraversal, spec.Raw)
		}
		if r.fs.Exists(candidate) {
			return &ResolvedFile{Specifier: spec, Path: candidate}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, fmt.Errorf("%w: %s (looked in node_modules starting from %s)", ErrNotFound, spec.Raw, r.rootDir)
}

// jsrToNPMCompatPackage converts @scope/pkg to scope__pkg.
func jsrToNPMCompatPackage(pkg string) string {
	if scoped, ok := strings.CutPrefix(pkg, "@"); ok {
		return strings.Replace(scoped, "/", "__", 1)
	}
	return pkg
}

func isInsideDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
