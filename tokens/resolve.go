/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tokens

import (
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/themevars/tree"
)

// curlyRef matches {token.reference.path}.
var curlyRef = regexp.MustCompile(`\{([^{}]+)\}`)

type resolver struct {
	byName   map[string]*Token
	resolved map[*Token]tree.Node
	stack    []string
}

func newResolver(tokens []*Token) *resolver {
	r := &resolver{
		byName:   make(map[string]*Token, len(tokens)),
		resolved: make(map[*Token]tree.Node, len(tokens)),
	}
	for _, tok := range tokens {
		r.byName[tok.Name] = tok
	}
	return r
}

// resolve returns the CSS value of tok with every reference replaced.
func (r *resolver) resolve(tok *Token) (tree.Node, error) {
	if v, ok := r.resolved[tok]; ok {
		return v.Clone(), nil
	}
	for i, name := range r.stack {
		if name == tok.Name {
			cycle := append(r.stack[i:len(r.stack):len(r.stack)], tok.Name)
			return nil, fmt.Errorf("%w: %s", ErrCircularReference, strings.Join(cycle, " -> "))
		}
	}

	r.stack = append(r.stack, tok.Name)
	v, err := r.convert(tok, tok.Value)
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		return nil, err
	}
	r.resolved[tok] = v
	return v.Clone(), nil
}

// lookup finds a referenced token. A reference to a group names its
// $root token.
func (r *resolver) lookup(from *Token, name string) (*Token, error) {
	name = strings.TrimSpace(name)
	if tok, ok := r.byName[name]; ok {
		return tok, nil
	}
	if tok, ok := r.byName[name+"."+RootKey]; ok {
		return tok, nil
	}
	return nil, fmt.Errorf("token %s: %w: {%s}", from.Name, ErrUnresolvedReference, name)
}

func (r *resolver) reference(from *Token, name string) (tree.Node, error) {
	target, err := r.lookup(from, name)
	if err != nil {
		return nil, err
	}
	return r.resolve(target)
}

func (r *resolver) convert(tok *Token, node tree.Node) (tree.Node, error) {
	switch n := node.(type) {
	case *tree.String:
		return r.convertString(tok, n.Value)
	case *tree.Sequence:
		return r.convertSequence(tok, n)
	case *tree.Mapping:
		if ref, ok := n.LookupString(tree.KeyPath("$ref")); ok {
			return r.reference(tok, pointerToName(ref))
		}
		s, err := r.convertObject(tok, n)
		if err != nil {
			return nil, err
		}
		return tree.Str(s), nil
	default:
		return nil, fmt.Errorf("token %s: %w", tok.Name, ErrUnsupportedValue)
	}
}

func (r *resolver) convertString(tok *Token, s string) (tree.Node, error) {
	if m := curlyRef.FindStringSubmatch(s); m != nil && m[0] == s {
		return r.reference(tok, m[1])
	}
	var err error
	out := curlyRef.ReplaceAllStringFunc(s, func(match string) string {
		if err != nil {
			return match
		}
		var v tree.Node
		if v, err = r.reference(tok, match[1:len(match)-1]); err != nil {
			return match
		}
		return flatten(v)
	})
	if err != nil {
		return nil, err
	}
	return tree.Str(out), nil
}

func (r *resolver) convertSequence(tok *Token, seq *tree.Sequence) (tree.Node, error) {
	items := make([]string, 0, len(seq.Items))
	for _, item := range seq.Items {
		v, err := r.convert(tok, item)
		if err != nil {
			return nil, err
		}
		items = append(items, flatten(v))
	}
	switch tok.Type {
	case "cubicBezier":
		return tree.Str("cubic-bezier(" + strings.Join(items, ", ") + ")"), nil
	case "shadow":
		return tree.Str(strings.Join(items, ", ")), nil
	default:
		return tree.Seq(items...), nil
	}
}

// str converts a component of a composite value to a string.
func (r *resolver) str(tok *Token, m *tree.Mapping, key string) (string, bool, error) {
	node, ok := m.Get(key)
	if !ok {
		return "", false, nil
	}
	v, err := r.convert(tok, node)
	if err != nil {
		return "", false, err
	}
	return flatten(v), true, nil
}

// flatten renders a converted node as a single CSS value.
func flatten(n tree.Node) string {
	switch v := n.(type) {
	case *tree.String:
		return v.Value
	case *tree.Sequence:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = flatten(item)
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// pointerToName converts "#/color/brand/$value" to "color.brand".
func pointerToName(pointer string) string {
	name := strings.ReplaceAll(strings.TrimPrefix(pointer, "#/"), "/", ".")
	return strings.TrimSuffix(name, "."+ValueKey)
}
