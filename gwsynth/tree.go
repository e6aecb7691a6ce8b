package gwsynth

import (
	"slices"
	"strings"

	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
)

// Resource mirrors one path segment. Shared prefixes collapse into one Resource.
type Resource struct {
	// PathPart is the segment as API Gateway expects it, e.g. "items" or "{id}".
	// The root resource has an empty PathPart.
	PathPart string
	// Path is the canonical full path, e.g. "/items/{id}".
	Path     string
	Methods  []*Method
	children map[string]*Resource
}

// Children returns the child resources sorted by path part.
func (r *Resource) Children() []*Resource {
	out := make([]*Resource, 0, len(r.children))
	for _, c := range r.children {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Resource) int { return strings.Compare(a.PathPart, b.PathPart) })
	return out
}

// Child returns the child with the given path part.
func (r *Resource) Child(part string) (*Resource, bool) {
	c, ok := r.children[part]
	return c, ok
}

// Method returns the method definition for m.
func (r *Resource) Method(m gwroute.Method) (*Method, bool) {
	for _, md := range r.Methods {
		if md.HTTPMethod == m {
			return md, true
		}
	}
	return nil, false
}

// Method is the definition attached to a resource for one HTTP method.
type Method struct {
	HTTPMethod      gwroute.Method
	RouteName       string
	Integration     string
	APIKeyRequired  bool
	ValidationModel *ValidationModel
	// Parameters maps API Gateway request keys, e.g. "method.request.path.id",
	// to whether the parameter is required.
	Parameters map[string]bool
	// Policy is set on key-protected methods once the tree is complete.
	Policy *Policy
}

// ParameterKeys returns the request parameter keys in sorted order.
func (m *Method) ParameterKeys() []string {
	keys := make([]string, 0, len(m.Parameters))
	for k := range m.Parameters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Policy is the usage policy attached to key-protected methods.
type Policy struct {
	Throttle Throttle
	Quota    Quota
}

// ValidationModel is a named request schema shared by every method whose
// request schema has the same structural hash.
type ValidationModel struct {
	Name string
	Hash string
	// Schema is the tree of the source the model is named after, so titles,
	// descriptions and property order do not depend on route order.
	Schema  *gwschema.Node
	Sources []string

	candidates []candidate
}

type candidate struct {
	source string
	node   *gwschema.Node
}

// Tree is the synthesized resource tree. Models is keyed by structural hash.
type Tree struct {
	Root   *Resource
	Models map[string]*ValidationModel
}

// Walk visits every resource depth-first, parents before children and siblings
// in path part order. Walking stops at the first error.
func (t *Tree) Walk(fn func(*Resource) error) error {
	return walk(t.Root, fn)
}

func walk(r *Resource, fn func(*Resource) error) error {
	if err := fn(r); err != nil {
		return err
	}
	for _, c := range r.Children() {
		if err := walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// ModelsByName returns the validation models sorted by name.
func (t *Tree) ModelsByName() []*ValidationModel {
	out := make([]*ValidationModel, 0, len(t.Models))
	for _, m := range t.Models {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *ValidationModel) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Lookup finds the resource for a path template. Parameter names are not
// significant, so "/items/{itemId}" finds the resource created for "/items/{id}".
func (t *Tree) Lookup(template string) (*Resource, bool) {
	path, err := gwroute.ParsePath(template)
	if err != nil {
		return nil, false
	}

	cur := t.Root
	for _, seg := range path {
		next, ok := cur.childFor(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (r *Resource) childFor(seg gwroute.Segment) (*Resource, bool) {
	if !seg.Param {
		return r.Child(seg.Name)
	}
	for _, c := range r.children {
		if isParamPart(c.PathPart) && strings.HasSuffix(c.PathPart, "+}") == seg.Greedy {
			return c, true
		}
	}
	return nil, false
}

func isParamPart(part string) bool {
	return strings.HasPrefix(part, "{")
}
