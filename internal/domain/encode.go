package domain

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Tree encodes the document as an ordered node tree. Object properties keep
// the position given by ExtensionOrder, which is removed from the tree.
func (d Document) Tree() (*yaml.Node, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("cannot encode document: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("cannot decode document: %w", err)
	}
	normalize(&root, plainNode)
	return &root, nil
}

type nodeRole int

const (
	plainNode nodeRole = iota
	propertiesNode
	propertyNode
)

// normalize drops ExtensionOrder from property schemas and clears the flow
// and quoting styles of the JSON source.
func normalize(n *yaml.Node, role nodeRole) {
	n.Style = 0

	if n.Kind != yaml.MappingNode {
		for _, c := range n.Content {
			normalize(c, plainNode)
		}
		return
	}

	content := n.Content[:0]
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if role == propertyNode && k.Value == ExtensionOrder {
			continue
		}

		child := plainNode
		switch {
		case role == propertiesNode:
			child = propertyNode
		case k.Value == "properties":
			child = propertiesNode
		}

		normalize(k, plainNode)
		normalize(v, child)
		content = append(content, k, v)
	}
	n.Content = content
}

// EncodeJSON writes the tree as JSON in tree order, indented by indent.
func EncodeJSON(n *yaml.Node, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n); err != nil {
		return nil, err
	}
	if indent == "" {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, n.Content[0])
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			buf.WriteString("null")
		case "!!bool", "!!int", "!!float":
			buf.WriteString(n.Value)
		default:
			b, err := json.Marshal(n.Value)
			if err != nil {
				return err
			}
			buf.Write(b)
		}
	default:
		return fmt.Errorf("unsupported node kind %d", n.Kind)
	}
	return nil
}

// EncodeYAML writes the tree as block style YAML.
func EncodeYAML(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
