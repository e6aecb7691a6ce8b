// Package gwschema translates data-model descriptions into schema trees that can be
// compiled into request validation models.
package gwschema

// Kind is the variant tag of a Node.
type Kind int

const (
	Invalid Kind = iota
	String
	Number
	Boolean
	Null
	Object
	Array
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "invalid"
	}
}

// IsPrimitive reports whether the kind has no child schemas.
func (k Kind) IsPrimitive() bool {
	return k == String || k == Number || k == Boolean || k == Null
}

// Node is a schema tree. Object nodes carry Properties in declaration order,
// array nodes carry Items. Title and Description are informational and do not
// take part in structural comparison.
type Node struct {
	Kind        Kind
	Title       string
	Description string
	Format      string
	Enum        []string
	Properties  []Property
	Items       *Node
}

// Property is a named member of an object node.
type Property struct {
	Name     string
	Node     *Node
	Required bool
}

// Schema is a translated, named model.
type Schema struct {
	Name string
	Root *Node
}

// Required returns the names of the required properties in declaration order.
func (n *Node) Required() []string {
	var names []string
	for _, p := range n.Properties {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Property returns the named property.
func (n *Node) Property(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Primitive returns a primitive node of the given kind.
func Primitive(k Kind) *Node {
	return &Node{Kind: k}
}
