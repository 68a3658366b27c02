/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ToYAML converts a node into a YAML node.
func ToYAML(n Node) *yaml.Node {
	switch v := n.(type) {
	case *String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Value}
	case *Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			out.Content = append(out.Content, ToYAML(item))
		}
		return out
	case *Mapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.keys {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				ToYAML(v.values[k]))
		}
		return out
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// MarshalYAML implements yaml.Marshaler.
func (m *Mapping) MarshalYAML() (any, error) {
	return ToYAML(m), nil
}

// MarshalJSON implements json.Marshaler, keeping key order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (s *Sequence) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (s *String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

func writeJSON(buf *bytes.Buffer, n Node) error {
	switch v := n.(type) {
	case *String:
		b, err := json.Marshal(v.Value)
		if err != nil {
			return err
		}
		buf.Write(b)
	case *Sequence:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Mapping:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, v.values[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}
