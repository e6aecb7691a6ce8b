package gwschema

import (
	"github.com/goccy/go-yaml"
)

// Draft4 is the JSON Schema dialect used by API Gateway models.
const Draft4 = "http://json-schema.org/draft-04/schema#"

// JSONSchema renders the tree as an ordered draft-04 document. Property order
// follows declaration order so rendered output is stable.
func (n *Node) JSONSchema() yaml.MapSlice {
	doc := yaml.MapSlice{{Key: "$schema", Value: Draft4}}
	return append(doc, n.jsonSchema()...)
}

func (n *Node) jsonSchema() yaml.MapSlice {
	if n == nil {
		return yaml.MapSlice{}
	}

	var out yaml.MapSlice
	if n.Title != "" {
		out = append(out, yaml.MapItem{Key: "title", Value: n.Title})
	}
	if n.Description != "" {
		out = append(out, yaml.MapItem{Key: "description", Value: n.Description})
	}
	out = append(out, yaml.MapItem{Key: "type", Value: n.Kind.String()})
	if n.Format != "" {
		out = append(out, yaml.MapItem{Key: "format", Value: n.Format})
	}
	if len(n.Enum) > 0 {
		out = append(out, yaml.MapItem{Key: "enum", Value: n.Enum})
	}

	switch n.Kind {
	case Object:
		props := yaml.MapSlice{}
		for _, p := range n.Properties {
			props = append(props, yaml.MapItem{Key: p.Name, Value: p.Node.jsonSchema()})
		}
		out = append(out, yaml.MapItem{Key: "properties", Value: props})
		if req := n.Required(); len(req) > 0 {
			out = append(out, yaml.MapItem{Key: "required", Value: req})
		}
	case Array:
		out = append(out, yaml.MapItem{Key: "items", Value: n.Items.jsonSchema()})
	}
	return out
}
