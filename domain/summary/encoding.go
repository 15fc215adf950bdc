package summary

import (
	"bytes"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the result as an object whose keys follow section
// order. Tables encode as {stat: {column: value}}.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range r.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, s.Title); err != nil {
			return nil, err
		}
		body, err := s.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes a section body with its keys in order.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.Table != nil {
		return s.Table.MarshalJSON()
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, e.Key); err != nil {
			return nil, err
		}
		if err := writeValue(&buf, Cell(e.Value)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the table column-major.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for j, stat := range t.Stats {
		if j > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, stat); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for i, row := range t.Rows {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, row.Column); err != nil {
				return nil, err
			}
			if err := writeValue(&buf, Cell(row.Values[j])); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// MarshalYAML encodes the result as an ordered mapping.
func (r *Result) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range r.Sections {
		body, err := s.yamlNode()
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, scalarNode(s.Title), body)
	}
	return root, nil
}

func (s Section) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if s.Table != nil {
		for j, stat := range s.Table.Stats {
			inner := &yaml.Node{Kind: yaml.MappingNode}
			for _, row := range s.Table.Rows {
				val, err := valueNode(Cell(row.Values[j]))
				if err != nil {
					return nil, err
				}
				inner.Content = append(inner.Content, scalarNode(row.Column), val)
			}
			node.Content = append(node.Content, scalarNode(stat), inner)
		}
		return node, nil
	}
	for _, e := range s.Entries {
		val, err := valueNode(Cell(e.Value))
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, scalarNode(e.Key), val)
	}
	return node, nil
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func valueNode(v any) (*yaml.Node, error) {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}
