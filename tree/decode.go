/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import (
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedValue indicates a document value that is not a string,
// sequence or mapping.
var ErrUnsupportedValue = errors.New("unsupported token value")

// DecodeError reports where in a document decoding failed.
type DecodeError struct {
	Path Path
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s (line %d): %v", e.Path, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Parse parses a YAML or JSON (with comments) document whose root is a
// mapping. Scalars of every YAML type become string leaves, so
// `lineHeight: 1.5` yields "1.5".
func Parse(data []byte) (*Mapping, error) {
	if isLikelyJSON(data) {
		data = jsonc.ToJSON(data)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse token document: %w", err)
	}
	if doc.Kind == 0 {
		return NewMapping(), nil
	}
	return FromYAML(&doc)
}

// FromYAML converts a decoded YAML node into a mapping.
func FromYAML(node *yaml.Node) (*Mapping, error) {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return NewMapping(), nil
		}
		node = node.Content[0]
	}
	n, err := fromYAML(node, nil)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*Mapping)
	if !ok {
		return nil, &DecodeError{Line: node.Line, Err: errors.New("document root must be a mapping")}
	}
	return m, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping key order.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := FromYAML(node)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

func fromYAML(node *yaml.Node, path Path) (Node, error) {
	switch node.Kind {
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, &DecodeError{Path: path, Line: node.Line, Err: errors.New("dangling alias")}
		}
		return fromYAML(node.Alias, path)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, &DecodeError{Path: path, Line: node.Line, Err: fmt.Errorf("%w: null", ErrUnsupportedValue)}
		}
		return Str(node.Value), nil
	case yaml.SequenceNode:
		seq := &Sequence{Items: make([]Node, 0, len(node.Content))}
		for i, item := range node.Content {
			child, err := fromYAML(item, path.Append(Index(i)))
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, child)
		}
		return seq, nil
	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, &DecodeError{Path: path, Line: keyNode.Line, Err: errors.New("mapping keys must be scalars")}
			}
			child, err := fromYAML(valueNode, path.Append(Key(keyNode.Value)))
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, child)
		}
		return m, nil
	default:
		return nil, &DecodeError{Path: path, Line: node.Line, Err: ErrUnsupportedValue}
	}
}

// isLikelyJSON checks if data appears to be JSON rather than YAML.
func isLikelyJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 0xEF, 0xBB, 0xBF: // UTF-8 BOM
			continue
		case '{', '/':
			return true
		default:
			return false
		}
	}
	return false
}
