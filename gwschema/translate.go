package gwschema

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnsupportedType is returned for field types that have no schema equivalent.
var ErrUnsupportedType = errors.New("unsupported field type")

// CycleError is returned when a model references itself, directly or through a
// chain of nested models.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "schema cycle: " + strings.Join(e.Chain, " -> ")
}

// Translator converts models into schema trees. Results are memoized by model
// identity (ID() when the model has one, Name() otherwise), so a Translator
// should not be shared between unrelated applications.
type Translator struct {
	done     map[string]*Node
	visiting []string
	names    []string
}

// NewTranslator creates an empty Translator.
func NewTranslator() *Translator {
	return &Translator{done: map[string]*Node{}}
}

// Translate converts m into a schema tree.
func (t *Translator) Translate(m Model) (*Node, error) {
	if m == nil {
		return nil, errors.New("nil model")
	}

	name := m.Name()
	if name == "" {
		return nil, errors.New("model has no name")
	}

	id := identity(m)
	if n, ok := t.done[id]; ok {
		return n, nil
	}

	if i := slices.Index(t.visiting, id); i >= 0 {
		chain := append(slices.Clone(t.names[i:]), name)
		return nil, errors.WithStack(&CycleError{Chain: chain})
	}

	t.visiting = append(t.visiting, id)
	t.names = append(t.names, name)
	defer func() {
		t.visiting = t.visiting[:len(t.visiting)-1]
		t.names = t.names[:len(t.names)-1]
	}()

	fields, err := m.Fields()
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", name)
	}

	node := &Node{Kind: Object, Title: name}
	seen := map[string]bool{}
	for _, f := range fields {
		if seen[f.Name] {
			return nil, errors.Newf("model %s: duplicate field %q", name, f.Name)
		}
		seen[f.Name] = true

		child, err := t.translateType(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "model %s: field %s", name, f.Name)
		}
		if f.Description != "" {
			withDesc := *child
			withDesc.Description = f.Description
			child = &withDesc
		}

		node.Properties = append(node.Properties, Property{
			Name:     f.Name,
			Node:     child,
			Required: !f.Optional,
		})
	}

	t.done[id] = node
	return node, nil
}

// identifier is implemented by models whose Name is not globally unique.
type identifier interface {
	ID() string
}

func identity(m Model) string {
	if im, ok := m.(identifier); ok {
		return im.ID()
	}
	return m.Name()
}

// Schema translates m and pairs the result with the model name.
func (t *Translator) Schema(m Model) (*Schema, error) {
	root, err := t.Translate(m)
	if err != nil {
		return nil, err
	}
	return &Schema{Name: m.Name(), Root: root}, nil
}

// TranslateType converts a standalone field type, e.g. a parameter type.
func (t *Translator) TranslateType(typ Type) (*Node, error) {
	return t.translateType(typ)
}

func (t *Translator) translateType(typ Type) (*Node, error) {
	switch {
	case typ.Kind.IsPrimitive():
		return &Node{Kind: typ.Kind, Format: typ.Format, Enum: slices.Clone(typ.Enum)}, nil
	case typ.Kind == Array:
		if typ.Elem == nil {
			return nil, errors.Wrap(ErrUnsupportedType, "array without element type")
		}
		items, err := t.translateType(*typ.Elem)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Array, Items: items}, nil
	case typ.Kind == Object:
		if typ.Model == nil {
			return nil, errors.Wrap(ErrUnsupportedType, "object without model reference")
		}
		return t.Translate(typ.Model)
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "kind %s", typ.Kind)
	}
}
