package compose

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// YAML Serialization
// =============================================================================

// MarshalYAML serializes the document to compose YAML.
//
// Output is deterministic: services appear in insertion order, fragment keys
// in their insertion order, label maps sorted by key. Named volumes referenced
// by services are declared under a top-level volumes mapping; the key is
// omitted when there are none.
func MarshalYAML(doc *Document) ([]byte, error) {
	services := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range doc.ServiceNames() {
		fragment, _ := doc.Service(name)
		svcNode, err := fragmentNode(name, fragment)
		if err != nil {
			return nil, err
		}
		services.Content = append(services.Content, scalarNode(name), svcNode)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalarNode("services"), services)

	if volumes := doc.NamedVolumes(); len(volumes) > 0 {
		volNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, v := range volumes {
			volNode.Content = append(volNode.Content,
				scalarNode(v),
				&yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle},
			)
		}
		root.Content = append(root.Content, scalarNode("volumes"), volNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, NewDocumentError("", fmt.Sprintf("failed to encode document: %v", err), ErrUnsupportedValue)
	}
	if err := enc.Close(); err != nil {
		return nil, NewDocumentError("", fmt.Sprintf("failed to encode document: %v", err), ErrUnsupportedValue)
	}

	return buf.Bytes(), nil
}

// fragmentNode converts one fragment into a YAML mapping node.
func fragmentNode(name string, fragment *Fragment) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range fragment.Keys() {
		value, _ := fragment.Get(key)
		switch value.(type) {
		case string, int, []string, map[string]string:
		default:
			return nil, NewDocumentError(
				"services."+name+"."+key,
				fmt.Sprintf("unsupported value type %T", value),
				ErrUnsupportedValue,
			)
		}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(value); err != nil {
			return nil, NewDocumentError("services."+name+"."+key, err.Error(), ErrUnsupportedValue)
		}
		node.Content = append(node.Content, scalarNode(key), valueNode)
	}
	return node, nil
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
