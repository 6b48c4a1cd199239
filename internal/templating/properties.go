package templating

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Property is one front matter entry. List-valued properties keep their
// items in declared order.
type Property struct {
	Key    string
	Value  string
	Items  []string
	IsList bool
}

// Properties is an ordered property mapping. It decodes from a YAML or JSON
// mapping without losing key order.
type Properties []Property

func Scalar(key, value string) Property {
	return Property{Key: key, Value: value}
}

func List(key string, items ...string) Property {
	return Property{Key: key, Items: items, IsList: true}
}

func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*p = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}

	props := make(Properties, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		switch valueNode.Kind {
		case yaml.ScalarNode:
			props = append(props, Scalar(keyNode.Value, scalarValue(valueNode)))
		case yaml.SequenceNode:
			items := make([]string, 0, len(valueNode.Content))
			for _, item := range valueNode.Content {
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: property %q must contain only scalar items", item.Line, keyNode.Value)
				}
				items = append(items, scalarValue(item))
			}
			props = append(props, List(keyNode.Value, items...))
		default:
			return fmt.Errorf("line %d: property %q must be a string or a list of strings", valueNode.Line, keyNode.Value)
		}
	}

	*p = props
	return nil
}

func scalarValue(node *yaml.Node) string {
	if node.Tag == "!!null" {
		return ""
	}
	return node.Value
}

// UnmarshalJSON walks the object token by token so key order survives.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("properties must be a mapping")
	}

	props := make(Properties, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		valueTok, err := dec.Token()
		if err != nil {
			return err
		}
		if valueTok != json.Delim('[') {
			value, ok := jsonScalar(valueTok)
			if !ok {
				return fmt.Errorf("property %q must be a string or a list of strings", key)
			}
			props = append(props, Scalar(key, value))
			continue
		}

		items := make([]string, 0)
		for dec.More() {
			itemTok, err := dec.Token()
			if err != nil {
				return err
			}
			item, ok := jsonScalar(itemTok)
			if !ok {
				return fmt.Errorf("property %q must contain only scalar items", key)
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		props = append(props, List(key, items...))
	}

	*p = props
	return nil
}

func jsonScalar(tok json.Token) (string, bool) {
	switch v := tok.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
