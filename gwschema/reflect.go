package gwschema

import (
	"encoding"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
)

// Struct tags that mark a field as a request parameter rather than a body member.
const (
	PathTag   = "path"
	QueryTag  = "query"
	HeaderTag = "header"
)

// EnumValuer is implemented by named string types with a closed set of values.
type EnumValuer interface {
	EnumValues() []string
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	enumValuerType    = reflect.TypeFor[EnumValuer]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Of returns the Model of the Go struct type T.
func Of[T any]() Model {
	return FromType(reflect.TypeFor[T]())
}

// FromType returns the Model of a Go struct type. Pointers are dereferenced.
// Fields of non-struct types fail with ErrUnsupportedType.
func FromType(t reflect.Type) Model {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return &reflectModel{t: t, name: t.Name()}
}

type reflectModel struct {
	t    reflect.Type
	name string
}

func (m *reflectModel) Name() string { return m.name }

func (m *reflectModel) ID() string {
	if m.t.Name() == "" {
		return "anon." + m.name + "." + m.t.String()
	}
	return m.t.PkgPath() + "." + m.t.Name()
}

func (m *reflectModel) Fields() ([]Field, error) {
	if m.t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s is not a struct", m.t)
	}
	return m.structFields(m.t, []reflect.Type{m.t})
}

// structFields lists the fields of t. Embedded structs are flattened; embedding
// a struct that is already being flattened is a cycle.
func (m *reflectModel) structFields(t reflect.Type, embedding []reflect.Type) ([]Field, error) {
	var fields []Field
	for i := range t.NumField() {
		sf := t.Field(i)
		if isParamField(sf) {
			continue
		}

		name, opts, hasTag := parseJSONTag(sf)
		if name == "-" {
			continue
		}

		if sf.Anonymous && !hasTag {
			et := sf.Type
			for et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if i := slices.Index(embedding, et); i >= 0 {
					chain := make([]string, 0, len(embedding)-i+1)
					for _, e := range embedding[i:] {
						chain = append(chain, e.Name())
					}
					return nil, errors.WithStack(&CycleError{Chain: append(chain, et.Name())})
				}
				embedded, err := m.structFields(et, append(slices.Clip(embedding), et))
				if err != nil {
					return nil, err
				}
				fields = append(fields, embedded...)
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}

		typ, isPtr, err := typeOf(sf.Type, m.name, sf.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", sf.Name)
		}

		optional := isPtr || strings.Contains(opts, "omitempty") || strings.Contains(opts, "omitzero")
		if hasValidateRequired(sf) {
			optional = false
		}

		fields = append(fields, Field{
			Name:        name,
			Type:        typ,
			Optional:    optional,
			Description: sf.Tag.Get("description"),
		})
	}
	return fields, nil
}

func isParamField(sf reflect.StructField) bool {
	for _, tag := range []string{PathTag, QueryTag, HeaderTag} {
		if _, ok := sf.Tag.Lookup(tag); ok {
			return true
		}
	}
	return false
}

func parseJSONTag(sf reflect.StructField) (name, opts string, hasName bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, "", false
	}
	name, opts, _ = strings.Cut(tag, ",")
	if name == "" {
		return sf.Name, opts, false
	}
	return name, opts, true
}

func hasValidateRequired(sf reflect.StructField) bool {
	for rule := range strings.SplitSeq(sf.Tag.Get("validate"), ",") {
		if rule == "required" {
			return true
		}
	}
	return false
}

// typeOf maps a Go type onto a field Type. The boolean reports whether the type
// was a pointer, which makes the field optional.
func typeOf(t reflect.Type, owner, field string) (Type, bool, error) {
	isPtr := false
	for t.Kind() == reflect.Pointer {
		isPtr = true
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return Type{Kind: String, Format: "date-time"}, isPtr, nil
	case t.Implements(enumValuerType):
		ev := reflect.Zero(t).Interface().(EnumValuer) //nolint:forcetypeassert // checked by Implements
		return Type{Kind: String, Enum: ev.EnumValues()}, isPtr, nil
	case t.Kind() != reflect.Struct && reflect.PointerTo(t).Implements(textMarshalerType):
		return Type{Kind: String}, isPtr, nil
	}

	switch t.Kind() {
	case reflect.String:
		return PrimitiveType(String), isPtr, nil
	case reflect.Bool:
		return PrimitiveType(Boolean), isPtr, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return PrimitiveType(Number), isPtr, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Type{Kind: String, Format: "byte"}, isPtr, nil
		}
		elem, _, err := typeOf(t.Elem(), owner, field)
		if err != nil {
			return Type{}, false, err
		}
		return ArrayOf(elem), isPtr, nil
	case reflect.Struct:
		if t.Name() == "" {
			return Ref(&reflectModel{t: t, name: strcase.ToCamel(owner + "_" + field)}), isPtr, nil
		}
		return Ref(&reflectModel{t: t, name: t.Name()}), isPtr, nil
	default:
		return Type{}, false, errors.Wrapf(ErrUnsupportedType, "%s", t)
	}
}

// TypeOf maps a Go type onto a field Type, e.g. for declaring parameter types.
func TypeOf(t reflect.Type) (Type, error) {
	typ, _, err := typeOf(t, "", "")
	return typ, err
}
