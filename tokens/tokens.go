/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package tokens converts design token documents (DTCG draft and
// 2025.10) into theme mappings.
//
// Groups become nested mappings and tokens become leaves holding their
// CSS value. A group's $root token becomes its DEFAULT key. Aliases
// like {color.brand.primary} and $ref pointers resolve to the CSS value
// of the referenced token.
package tokens

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/tree"
)

// Sentinel errors for token conversion.
var (
	ErrUnsupportedValue    = errors.New("unsupported token value")
	ErrUnresolvedReference = errors.New("unresolved token reference")
	ErrCircularReference   = errors.New("circular token reference")
)

// Reserved keys.
const (
	ValueKey   = "$value"
	TypeKey    = "$type"
	RootKey    = "$root"
	DefaultKey = "DEFAULT"
)

// Token is a design token found in a document.
type Token struct {
	// Name is the dot-separated token path, e.g. "color.brand.$root".
	Name string
	// Path is the theme path, with $root mapped to DEFAULT.
	Path tree.Path
	// Type is the token's $type, inherited from enclosing groups.
	Type string
	// Value is the raw $value.
	Value tree.Node
}

// IsDocument reports whether m contains at least one token.
func IsDocument(m *tree.Mapping) bool {
	if m.Has(ValueKey) {
		return true
	}
	for _, key := range m.Keys() {
		if child, ok := m.Mapping(key); ok && IsDocument(child) {
			return true
		}
	}
	return false
}

// Collect returns the tokens of doc in document order.
func Collect(doc *tree.Mapping) []*Token {
	var tokens []*Token
	collect(doc, nil, nil, "", &tokens)
	return tokens
}

func collect(m *tree.Mapping, names []string, path tree.Path, inherited string, out *[]*Token) {
	typ := inherited
	if t, ok := m.LookupString(tree.KeyPath(TypeKey)); ok {
		typ = t
	}
	if value, ok := m.Get(ValueKey); ok {
		*out = append(*out, &Token{
			Name:  strings.Join(names, "."),
			Path:  path,
			Type:  typ,
			Value: value,
		})
		return
	}
	for _, key := range m.Keys() {
		if strings.HasPrefix(key, "$") && key != RootKey {
			continue
		}
		child, ok := m.Mapping(key)
		if !ok {
			continue
		}
		segment := key
		if key == RootKey {
			segment = DefaultKey
		}
		collect(child,
			append(names[:len(names):len(names)], key),
			path.Append(tree.Key(segment)),
			typ, out)
	}
}

// ToTheme converts doc into a theme mapping. Tokens whose composite
// type has no single CSS value are skipped with a warning.
func ToTheme(doc *tree.Mapping) (*tree.Mapping, error) {
	tokens := Collect(doc)
	r := newResolver(tokens)

	theme := tree.NewMapping()
	for _, tok := range tokens {
		value, err := r.resolve(tok)
		if errors.Is(err, ErrUnsupportedValue) {
			logger.Warn("skipping token %s: %v", tok.Name, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := set(theme, tok.Path, value); err != nil {
			return nil, fmt.Errorf("token %s: %w", tok.Name, err)
		}
	}
	return theme, nil
}

func set(m *tree.Mapping, path tree.Path, value tree.Node) error {
	for i, seg := range path {
		key := seg.Key()
		if i == len(path)-1 {
			m.Set(key, value)
			return nil
		}
		child, ok := m.Get(key)
		if !ok {
			next := tree.NewMapping()
			m.Set(key, next)
			m = next
			continue
		}
		next, ok := child.(*tree.Mapping)
		if !ok {
			return fmt.Errorf("%s is both a token and a group", path[:i+1])
		}
		m = next
	}
	return nil
}
