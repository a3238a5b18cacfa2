package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML parses a YAML document into a Value tree. A mapping node becomes
// an Object named by its "name" key (or "" if absent, e.g. the document
// root); every other key becomes a field. A sequence node becomes an Array.
// Scalars are classified by yaml.v3's own tag: !!bool becomes True/False,
// !!int/!!float a Number, and any other tag (!!str included) a Literal,
// matching the core's "Literal" shape for named choices like
// "policy: TryBoth".
func FromYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Value{}, fmt.Errorf("config: invalid YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return Value{}, fmt.Errorf("config: empty YAML document")
	}
	return fromNode(node.Content[0])
}

func fromNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		return fromNode(n.Content[0])
	case yaml.MappingNode:
		return mappingToObject(n)
	case yaml.SequenceNode:
		items := make([]Value, len(n.Content))
		for i, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return NewArray(items), nil
	case yaml.ScalarNode:
		return scalarToValue(n)
	case yaml.AliasNode:
		return fromNode(n.Alias)
	default:
		return Value{}, fmt.Errorf("config: unsupported YAML node kind %d", n.Kind)
	}
}

func mappingToObject(n *yaml.Node) (Value, error) {
	name := ""
	var fields []Field
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if key == "name" && n.Content[i+1].Kind == yaml.ScalarNode {
			name = n.Content[i+1].Value
			continue
		}
		val, err := fromNode(n.Content[i+1])
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, Field{Name: key, Value: val})
	}
	return NewObject(name, fields), nil
}

func scalarToValue(n *yaml.Node) (Value, error) {
	switch n.Tag {
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return Value{}, fmt.Errorf("config: invalid bool %q: %w", n.Value, err)
		}
		return NewBool(b), nil
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return Value{}, fmt.Errorf("config: invalid number %q: %w", n.Value, err)
		}
		return NewNumber(f), nil
	default:
		return NewLiteral(n.Value), nil
	}
}
