package gwschema_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/advdv/apigw/gwschema"
)

func itemModel() *gwschema.StaticModel {
	return &gwschema.StaticModel{
		ModelName: "Item",
		FieldList: []gwschema.Field{
			{Name: "name", Type: gwschema.PrimitiveType(gwschema.String)},
			{Name: "price", Type: gwschema.PrimitiveType(gwschema.Number), Optional: true},
		},
	}
}

func TestTranslate_Object(t *testing.T) {
	t.Parallel()

	node, err := gwschema.NewTranslator().Translate(itemModel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Kind != gwschema.Object {
		t.Fatalf("expected object, got %s", node.Kind)
	}
	if node.Title != "Item" {
		t.Errorf("Title = %q, want Item", node.Title)
	}
	if got := node.Required(); !slices.Equal(got, []string{"name"}) {
		t.Errorf("Required() = %v, want [name]", got)
	}

	price, ok := node.Property("price")
	if !ok || price.Node.Kind != gwschema.Number || price.Required {
		t.Errorf("unexpected price property: %+v", price)
	}
}

func TestTranslate_NestedAndArrays(t *testing.T) {
	t.Parallel()

	order := &gwschema.StaticModel{
		ModelName: "Order",
		FieldList: []gwschema.Field{
			{Name: "items", Type: gwschema.ArrayOf(gwschema.Ref(itemModel()))},
			{Name: "tags", Type: gwschema.ArrayOf(gwschema.PrimitiveType(gwschema.String)), Optional: true},
			{Name: "primary", Type: gwschema.Ref(itemModel()), Description: "first item"},
		},
	}

	node, err := gwschema.NewTranslator().Translate(order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, _ := node.Property("items")
	if items.Node.Kind != gwschema.Array || items.Node.Items.Kind != gwschema.Object {
		t.Errorf("items should be an array of objects, got %s of %v", items.Node.Kind, items.Node.Items)
	}

	primary, _ := primaryProp(node)
	if primary.Description != "first item" {
		t.Errorf("description not carried: %q", primary.Description)
	}
	if !primary.Equal(items.Node.Items) {
		t.Error("same model should translate to structurally equal trees")
	}
}

func primaryProp(n *gwschema.Node) (*gwschema.Node, bool) {
	p, ok := n.Property("primary")
	return p.Node, ok
}

func TestTranslate_Idempotent(t *testing.T) {
	t.Parallel()

	a, err := gwschema.NewTranslator().Translate(itemModel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := gwschema.NewTranslator().Translate(itemModel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Hash() != b.Hash() {
		t.Errorf("hashes differ: %s vs %s", a.Hash(), b.Hash())
	}
}

func TestTranslate_Cycle(t *testing.T) {
	t.Parallel()

	a := &gwschema.StaticModel{ModelName: "A"}
	b := &gwschema.StaticModel{ModelName: "B"}
	a.FieldList = []gwschema.Field{{Name: "b", Type: gwschema.Ref(b)}}
	b.FieldList = []gwschema.Field{{Name: "a", Type: gwschema.Ref(a), Optional: true}}

	_, err := gwschema.NewTranslator().Translate(a)

	var cycle *gwschema.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if want := []string{"A", "B", "A"}; !slices.Equal(cycle.Chain, want) {
		t.Errorf("Chain = %v, want %v", cycle.Chain, want)
	}
}

func TestTranslate_SelfReference(t *testing.T) {
	t.Parallel()

	n := &gwschema.StaticModel{ModelName: "TreeNode"}
	n.FieldList = []gwschema.Field{{Name: "children", Type: gwschema.ArrayOf(gwschema.Ref(n))}}

	_, err := gwschema.NewTranslator().Translate(n)

	var cycle *gwschema.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestTranslate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		model gwschema.Model
	}{
		{"nil model", nil},
		{"unnamed", &gwschema.StaticModel{}},
		{"duplicate field", &gwschema.StaticModel{ModelName: "X", FieldList: []gwschema.Field{
			{Name: "a", Type: gwschema.PrimitiveType(gwschema.String)},
			{Name: "a", Type: gwschema.PrimitiveType(gwschema.Number)},
		}}},
		{"array without elem", &gwschema.StaticModel{ModelName: "X", FieldList: []gwschema.Field{
			{Name: "a", Type: gwschema.Type{Kind: gwschema.Array}},
		}}},
		{"object without model", &gwschema.StaticModel{ModelName: "X", FieldList: []gwschema.Field{
			{Name: "a", Type: gwschema.Type{Kind: gwschema.Object}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := gwschema.NewTranslator().Translate(tt.model); err == nil {
				t.Error("expected error")
			}
		})
	}
}
