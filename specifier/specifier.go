/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package specifier parses theme file specifiers and resolves them to
// files on disk. A specifier is a local path or an npm: or jsr: package
// path, optionally followed by a "#" fragment naming a mapping inside
// the file, e.g. "npm:@acme/themes/themes.yaml#dark".
package specifier

import (
	"regexp"
	"strings"

	"bennypowers.dev/themevars/tree"
)

// Kind indicates the type of specifier.
type Kind int

const (
	// KindLocal is a local file path.
	KindLocal Kind = iota
	// KindNPM is an npm package specifier.
	KindNPM
	// KindJSR is a jsr package specifier.
	KindJSR
)

func (k Kind) String() string {
	switch k {
	case KindNPM:
		return "npm"
	case KindJSR:
		return "jsr"
	default:
		return "local"
	}
}

// Specifier is a parsed theme file specifier.
type Specifier struct {
	Kind Kind

	// Package is the package name, e.g. "@scope/pkg". Empty for local paths.
	Package string

	// File is the path inside the package, or the local path.
	File string

	// Fragment is the dot-separated mapping path after "#", if any.
	Fragment string

	// Raw is the specifier as written.
	Raw string
}

// packagePattern matches @scope/pkg/path, pkg/path, or a bare package.
var packagePattern = regexp.MustCompile(`^(@[^/]+/[^/]+|[^/@][^/]*)(/.*)?$`)

// Parse parses a specifier. Malformed package specifiers are treated as
// local paths.
func Parse(spec string) *Specifier {
	s := &Specifier{Raw: spec}
	body, fragment, _ := strings.Cut(spec, "#")
	s.Fragment = fragment

	for _, proto := range []struct {
		prefix string
		kind   Kind
	}{{"npm:", KindNPM}, {"jsr:", KindJSR}} {
		rest, ok := strings.CutPrefix(body, proto.prefix)
		if !ok {
			continue
		}
		if m := packagePattern.FindStringSubmatch(rest); m != nil {
			s.Kind = proto.kind
			s.Package = m[1]
			s.File = strings.TrimPrefix(m[2], "/")
			return s
		}
	}

	s.Kind = KindLocal
	s.File = body
	return s
}

// IsPackageSpecifier reports whether spec is a valid npm or jsr specifier.
func IsPackageSpecifier(spec string) bool {
	return Parse(spec).Kind != KindLocal
}

// FragmentPath returns the fragment as a mapping path.
func (s *Specifier) FragmentPath() tree.Path {
	if s.Fragment == "" {
		return nil
	}
	return tree.KeyPath(strings.Split(s.Fragment, ".")...)
}
