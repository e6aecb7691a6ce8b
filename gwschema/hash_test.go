package gwschema_test

import (
	"slices"
	"testing"

	"github.com/advdv/apigw/gwschema"
	"github.com/goccy/go-yaml"
)

func obj(props ...gwschema.Property) *gwschema.Node {
	return &gwschema.Node{Kind: gwschema.Object, Properties: props}
}

func prop(name string, k gwschema.Kind, required bool) gwschema.Property {
	return gwschema.Property{Name: name, Node: gwschema.Primitive(k), Required: required}
}

func TestHash_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := obj(prop("a", gwschema.String, true), prop("b", gwschema.Number, false))
	b := obj(prop("b", gwschema.Number, false), prop("a", gwschema.String, true))

	if a.Hash() != b.Hash() {
		t.Errorf("property order changed the hash: %s vs %s", a.Hash(), b.Hash())
	}
	if !a.Equal(b) {
		t.Error("expected Equal")
	}
	if len(a.Hash()) != 16 {
		t.Errorf("expected 16 char hash, got %q", a.Hash())
	}
}

func TestHash_IgnoresTitleAndDescription(t *testing.T) {
	t.Parallel()

	a := obj(prop("a", gwschema.String, true))
	b := obj(prop("a", gwschema.String, true))
	a.Title, b.Title = "CreateItem", "UpdateItem"
	b.Description = "other"

	if a.Hash() != b.Hash() {
		t.Error("informational fields must not affect the hash")
	}
}

func TestHash_StructuralDifferences(t *testing.T) {
	t.Parallel()

	base := obj(prop("a", gwschema.String, true))
	variants := map[string]*gwschema.Node{
		"required flag": obj(prop("a", gwschema.String, false)),
		"kind":          obj(prop("a", gwschema.Number, true)),
		"name":          obj(prop("b", gwschema.String, true)),
		"extra prop":    obj(prop("a", gwschema.String, true), prop("b", gwschema.String, false)),
		"format": obj(gwschema.Property{
			Name: "a", Required: true, Node: &gwschema.Node{Kind: gwschema.String, Format: "date-time"},
		}),
		"enum": obj(gwschema.Property{
			Name: "a", Required: true, Node: &gwschema.Node{Kind: gwschema.String, Enum: []string{"x"}},
		}),
		"array": {Kind: gwschema.Array, Items: base},
	}

	for name, v := range variants {
		if v.Hash() == base.Hash() {
			t.Errorf("%s: expected different hash", name)
		}
	}
}

func TestJSONSchema_Draft4(t *testing.T) {
	t.Parallel()

	node := obj(prop("name", gwschema.String, true), prop("price", gwschema.Number, false))
	node.Title = "Item"

	doc := node.JSONSchema()

	var keys []string
	for _, item := range doc {
		keys = append(keys, item.Key.(string))
	}
	if want := []string{"$schema", "title", "type", "properties", "required"}; !slices.Equal(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	if doc[0].Value != gwschema.Draft4 {
		t.Errorf("$schema = %v", doc[0].Value)
	}

	props, ok := doc[3].Value.(yaml.MapSlice)
	if !ok || len(props) != 2 || props[0].Key != "name" || props[1].Key != "price" {
		t.Errorf("properties not in declaration order: %v", doc[3].Value)
	}
	if req, _ := doc[4].Value.([]string); !slices.Equal(req, []string{"name"}) {
		t.Errorf("required = %v", doc[4].Value)
	}

	if _, err := yaml.Marshal(doc); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}
