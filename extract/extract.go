/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package extract finds utility candidates in source files. HTML class
// attributes, JavaScript strings and PHP strings are read with tree-sitter
// grammars; other files are split on whitespace.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"bennypowers.dev/themevars/fs"
	"bennypowers.dev/themevars/internal/logger"
)

// Language selects how a file is scanned.
type Language int

const (
	Plain Language = iota
	HTML
	JavaScript
	PHP
)

func (l Language) String() string {
	switch l {
	case HTML:
		return "html"
	case JavaScript:
		return "javascript"
	case PHP:
		return "php"
	default:
		return "plain"
	}
}

var extensions = map[string]Language{
	".html": HTML,
	".htm":  HTML,
	".js":   JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".jsx":  JavaScript,
	".php":  PHP,
}

// LanguageFor picks the language of a file by extension.
func LanguageFor(filename string) Language {
	return extensions[strings.ToLower(filepath.Ext(filename))]
}

// Grammar node kinds.
const (
	htmlAttribute      = "attribute"
	htmlAttributeName  = "attribute_name"
	htmlAttributeValue = "attribute_value"
	htmlQuotedValue    = "quoted_attribute_value"
	htmlScriptElement  = "script_element"
	htmlRawText        = "raw_text"

	jsString         = "string"
	jsTemplateString = "template_string"

	phpText           = "text"
	phpString         = "string"
	phpEncapsedString = "encapsed_string"
)

// candidatePattern accepts the characters utilities are made of.
var candidatePattern = regexp.MustCompile(`^[\w\-:/.\[\]#%(),!@]+$`)

// Candidates splits text on whitespace and keeps tokens that could be
// utilities, in first-seen order.
func Candidates(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, field := range strings.Fields(text) {
		field = strings.Trim(field, `"'`+"`"+`;,`)
		if field == "" || seen[field] || !candidatePattern.MatchString(field) {
			continue
		}
		if !strings.ContainsFunc(field, isLetter) {
			continue
		}
		seen[field] = true
		out = append(out, field)
	}
	return out
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// Extract returns the utility candidates in src, in first-seen order.
func Extract(filename string, src []byte) ([]string, error) {
	var texts []string
	var err error
	switch LanguageFor(filename) {
	case HTML:
		texts, err = htmlTexts(src)
	case JavaScript:
		texts, err = javascriptTexts(src)
	case PHP:
		texts, err = phpTexts(src)
	default:
		texts = []string{string(src)}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return Candidates(strings.Join(texts, "\n")), nil
}

// Files extracts candidates from every file, merged in file order.
func Files(ctx context.Context, filesystem fs.FileSystem, paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := filesystem.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		found, err := Extract(path, src)
		if err != nil {
			return nil, err
		}
		logger.Debug("%s: %d candidates", path, len(found))
		for _, c := range found {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func parse(src []byte, language *tree_sitter.Language, visit func(*tree_sitter.Node) bool) error {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return fmt.Errorf("loading grammar: %w", err)
	}
	tree := parser.Parse(src, nil)
	if tree == nil {
		return fmt.Errorf("parser returned no tree")
	}
	defer tree.Close()
	walk(tree.RootNode(), visit)
	return nil
}

// walk visits nodes depth first. visit returns false to skip children.
func walk(node *tree_sitter.Node, visit func(*tree_sitter.Node) bool) {
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		walk(node.NamedChild(i), visit)
	}
}

func htmlTexts(src []byte) ([]string, error) {
	var texts []string
	var scripts [][]byte
	err := parse(src, tree_sitter.NewLanguage(tree_sitter_html.Language()), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case htmlAttribute:
			if value, ok := classAttribute(n, src); ok {
				texts = append(texts, value)
			}
			return false
		case htmlScriptElement:
			for i := uint(0); i < n.NamedChildCount(); i++ {
				if child := n.NamedChild(i); child.Kind() == htmlRawText {
					scripts = append(scripts, []byte(child.Utf8Text(src)))
				}
			}
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	for _, script := range scripts {
		found, err := javascriptTexts(script)
		if err != nil {
			return nil, err
		}
		texts = append(texts, found...)
	}
	return texts, nil
}

func classAttribute(n *tree_sitter.Node, src []byte) (string, bool) {
	var name, value string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case htmlAttributeName:
			name = child.Utf8Text(src)
		case htmlAttributeValue:
			value = child.Utf8Text(src)
		case htmlQuotedValue:
			value = unquote(child.Utf8Text(src))
		}
	}
	return value, strings.EqualFold(name, "class")
}

func javascriptTexts(src []byte) ([]string, error) {
	var texts []string
	err := parse(src, tree_sitter.NewLanguage(tree_sitter_javascript.Language()), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case jsString, jsTemplateString:
			texts = append(texts, unquote(n.Utf8Text(src)))
			return n.Kind() == jsTemplateString
		}
		return true
	})
	return texts, err
}

func phpTexts(src []byte) ([]string, error) {
	var texts []string
	var markup [][]byte
	err := parse(src, tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case phpText:
			markup = append(markup, []byte(n.Utf8Text(src)))
			return false
		case phpString, phpEncapsedString:
			texts = append(texts, unquote(n.Utf8Text(src)))
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	for _, m := range markup {
		found, err := htmlTexts(m)
		if err != nil {
			return nil, err
		}
		texts = append(texts, found...)
	}
	return texts, nil
}

// unquote strips one pair of matching quotes or backticks.
func unquote(s string) string {
	if len(s) >= 2 {
		switch q := s[0]; q {
		case '"', '\'', '`':
			if s[len(s)-1] == q {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
