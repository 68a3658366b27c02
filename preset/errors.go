/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"errors"
	"fmt"

	"bennypowers.dev/themevars/tree"
)

// Sentinel errors for theme rewriting and emission.
var (
	// ErrUnmatchedMarker indicates engine output that the relocator could
	// not attribute to a theme key.
	ErrUnmatchedMarker = errors.New("unmatched theme marker in generated css")

	// ErrUnsupportedLeaf indicates a theme value that is neither a string,
	// a sequence of strings, nor a mapping.
	ErrUnsupportedLeaf = errors.New("unsupported theme leaf")

	// ErrConflictingShape indicates two themes disagree on whether a path
	// holds a mapping or a leaf.
	ErrConflictingShape = errors.New("conflicting theme shapes")

	// ErrInvalidValue indicates a theme value that cannot be written into
	// a declaration block.
	ErrInvalidValue = errors.New("invalid theme value")

	// ErrInvalidThemeKey indicates an empty or malformed theme key.
	ErrInvalidThemeKey = errors.New("invalid theme key")

	// ErrUnknownBreakpoint indicates a media theme keyed by a breakpoint
	// the host theme does not define.
	ErrUnknownBreakpoint = errors.New("unknown breakpoint")

	// ErrAlreadyBound indicates a preset reused across generators.
	ErrAlreadyBound = errors.New("preset is already bound to a generator")

	// ErrNotBound indicates a preset used before a generator extended
	// its theme.
	ErrNotBound = errors.New("preset is not bound to a generator")

	// ErrNoThemes indicates options without a theme set.
	ErrNoThemes = errors.New("no themes configured")
)

// ConfigError reports a configuration problem at a theme path.
type ConfigError struct {
	// Theme is the theme key, when the problem is specific to one theme.
	Theme string
	// Path is the offending token path.
	Path tree.Path
	// Err is the underlying sentinel.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Theme != "" {
		return fmt.Sprintf("theme %s: %s: %v", e.Theme, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
