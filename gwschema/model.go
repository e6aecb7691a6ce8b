package gwschema

// Model is a data-model description. Implementations enumerate fields in
// declaration order; translated schemas keep that order.
//
// Names identify models during translation. Models whose names may repeat
// across packages also implement ID() string, which is used instead.
type Model interface {
	Name() string
	Fields() ([]Field, error)
}

// Field is one member of a Model.
type Field struct {
	Name        string
	Type        Type
	Optional    bool
	Description string
}

// Type is the declared type of a field. A nested model reference has Kind Object
// and a non-nil Model; an array has Kind Array and a non-nil Elem.
type Type struct {
	Kind   Kind
	Format string
	Enum   []string
	Elem   *Type
	Model  Model
}

// PrimitiveType returns the type of a primitive field.
func PrimitiveType(k Kind) Type {
	return Type{Kind: k}
}

// ArrayOf returns an array type of the given element type.
func ArrayOf(elem Type) Type {
	return Type{Kind: Array, Elem: &elem}
}

// Ref returns a type referencing a nested model.
func Ref(m Model) Type {
	return Type{Kind: Object, Model: m}
}

// StaticModel is a Model with a fixed field list.
type StaticModel struct {
	ModelName string
	FieldList []Field
}

// Name implements Model.
func (m *StaticModel) Name() string { return m.ModelName }

// Fields implements Model.
func (m *StaticModel) Fields() ([]Field, error) { return m.FieldList, nil }
