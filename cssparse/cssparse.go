/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cssparse checks generated stylesheets with the tree-sitter CSS
// grammar and reads their rule sets back.
package cssparse

import (
	"errors"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Sentinel errors for stylesheet checks.
var (
	// ErrInvalidCSS indicates a stylesheet the CSS grammar rejects.
	ErrInvalidCSS = errors.New("invalid css")

	// ErrMarkerLeak indicates an internal marker left in output.
	ErrMarkerLeak = errors.New("internal marker leaked into css")
)

// Declaration is a property and its value.
type Declaration struct {
	Property string
	Value    string
}

// RuleSet is a style rule, with the media query that encloses it, if any.
type RuleSet struct {
	Media        string
	Selector     string
	Declarations []Declaration
}

// Verify parses css and reports syntax errors and any occurrence of the
// forbidden tokens.
func Verify(css string, forbidden ...string) error {
	for _, token := range forbidden {
		if token == "" {
			continue
		}
		if i := strings.Index(css, token); i >= 0 {
			line := strings.Count(css[:i], "\n") + 1
			return fmt.Errorf("%w: %q at line %d", ErrMarkerLeak, token, line)
		}
	}
	if strings.TrimSpace(css) == "" {
		return nil
	}
	_, err := parse(css)
	return err
}

// Parse returns every rule set of css in document order.
func Parse(css string) ([]RuleSet, error) {
	return parse(css)
}

func parse(css string) ([]RuleSet, error) {
	src := maskEscapes([]byte(css))

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_css.Language())); err != nil {
		return nil, fmt.Errorf("loading css grammar: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: parser returned no tree", ErrInvalidCSS)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			return nil, fmt.Errorf("%w: line %d column %d", ErrInvalidCSS, pos.Row+1, pos.Column+1)
		}
		return nil, ErrInvalidCSS
	}

	// text is read from the original, so escapes survive
	original := []byte(css)
	var rules []RuleSet
	collect(root, original, "", &rules)
	return rules, nil
}

func collect(node *tree_sitter.Node, src []byte, media string, rules *[]RuleSet) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "rule_set":
			*rules = append(*rules, ruleSet(child, src, media))
		case "media_statement":
			query, block := mediaParts(child, src)
			if block != nil {
				collect(block, src, query, rules)
			}
		}
	}
}

func ruleSet(node *tree_sitter.Node, src []byte, media string) RuleSet {
	rs := RuleSet{Media: media}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "selectors":
			rs.Selector = strings.TrimSpace(child.Utf8Text(src))
		case "block":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				decl := child.NamedChild(j)
				if decl.Kind() != "declaration" {
					continue
				}
				text := strings.TrimSuffix(strings.TrimSpace(decl.Utf8Text(src)), ";")
				prop, value := cutDeclaration(text)
				rs.Declarations = append(rs.Declarations, Declaration{
					Property: strings.TrimSpace(prop),
					Value:    strings.TrimSpace(value),
				})
			}
		}
	}
	return rs
}

// cutDeclaration splits at the first unescaped colon.
func cutDeclaration(text string) (string, string) {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case ':':
			return text[:i], text[i+1:]
		}
	}
	return text, ""
}

func mediaParts(node *tree_sitter.Node, src []byte) (string, *tree_sitter.Node) {
	var parts []string
	var block *tree_sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "block" {
			block = child
			continue
		}
		parts = append(parts, strings.TrimSpace(child.Utf8Text(src)))
	}
	return strings.Join(parts, " "), block
}

func firstError(node *tree_sitter.Node) *tree_sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

// maskEscapes replaces CSS escapes with identifier characters of the same
// byte length. The grammar has no escape support, and offsets must not
// move.
func maskEscapes(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	for i := 0; i < len(out); i++ {
		if out[i] != '\\' || i+1 >= len(out) {
			continue
		}
		out[i] = '_'
		j := i + 1
		if isHex(out[j]) {
			for n := 0; j < len(out) && n < 6 && isHex(out[j]); n++ {
				out[j] = '_'
				j++
			}
			if j < len(out) && out[j] == ' ' {
				out[j] = '_'
				j++
			}
		} else if out[j] < 0x80 && out[j] != '\n' {
			out[j] = '_'
			j++
		}
		i = j - 1
	}
	return out
}

func isHex(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}
