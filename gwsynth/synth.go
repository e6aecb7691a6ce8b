// Package gwsynth folds a list of routes into an API Gateway resource tree with
// deduplicated validation models and usage policy attachments.
package gwsynth

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"
	"github.com/iancoleman/strcase"
)

// ConflictError is returned when two definitions would occupy the same resource
// or method.
type ConflictError struct {
	Path   string
	Method gwroute.Method
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("conflict at %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("conflict at %s %s: %s", e.Method, e.Path, e.Reason)
}

// Synthesize builds the resource tree for routes. The result depends only on
// the set of routes, not on their order.
func Synthesize(routes []gwroute.Route, cfg Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	names := canonicalParamNames(routes)
	tree := &Tree{
		Root:   newResource("", "/"),
		Models: map[string]*ValidationModel{},
	}

	for _, r := range routes {
		if err := tree.insert(r, names, cfg); err != nil {
			return nil, err
		}
	}

	tree.nameModels()
	tree.attachPolicy(cfg)

	for _, m := range tree.Models {
		slices.Sort(m.Sources)
		m.Sources = slices.Compact(m.Sources)
	}

	return tree, nil
}

func newResource(part, path string) *Resource {
	return &Resource{PathPart: part, Path: path, children: map[string]*Resource{}}
}

// canonicalParamNames picks one parameter name per parent resource so that
// "/items/{id}" and "/items/{itemId}/tags" share a single "{id}" child. The
// lexicographically smallest name wins.
func canonicalParamNames(routes []gwroute.Route) map[string]string {
	names := map[string]string{}
	for _, r := range routes {
		for i, seg := range r.Path {
			if !seg.Param {
				continue
			}
			parent := r.Path[:i].Shape()
			if cur, ok := names[parent]; !ok || seg.Name < cur {
				names[parent] = seg.Name
			}
		}
	}
	return names
}

func (t *Tree) insert(r gwroute.Route, names map[string]string, cfg Config) error {
	if err := checkCanonicalParams(r, names); err != nil {
		return err
	}

	renamed := map[string]string{}
	cur := t.Root

	for i, seg := range r.Path {
		if seg.Param {
			canonical := names[r.Path[:i].Shape()]
			renamed[seg.Name] = canonical
			seg.Name = canonical
		}

		part := seg.PathPart()
		child, ok := cur.children[part]
		if !ok {
			if err := checkVariableSibling(cur, part); err != nil {
				return err
			}
			child = newResource(part, strings.TrimSuffix(cur.Path, "/")+"/"+part)
			cur.children[part] = child
		}
		cur = child
	}

	if _, exists := cur.Method(r.Method); exists {
		return errors.WithStack(&ConflictError{
			Path:   cur.Path,
			Method: r.Method,
			Reason: fmt.Sprintf("method already defined (route %s)", r),
		})
	}

	md := &Method{
		HTTPMethod:     r.Method,
		RouteName:      r.Name,
		Integration:    cfg.Integration,
		APIKeyRequired: r.APIKey.Resolve(cfg.APIKeyRequired),
		Parameters:     map[string]bool{},
	}

	for _, p := range r.Params {
		name := p.Name
		if p.In == gwroute.InPath {
			name = renamed[p.Name]
		}
		md.Parameters[p.In.RequestKey(name)] = p.Required
	}

	if r.Request != nil {
		md.ValidationModel = t.model(r)
	}

	cur.Methods = append(cur.Methods, md)
	slices.SortFunc(cur.Methods, func(a, b *Method) int {
		return slices.Index(gwroute.Methods(), a.HTTPMethod) - slices.Index(gwroute.Methods(), b.HTTPMethod)
	})
	return nil
}

// checkCanonicalParams rejects routes whose path parameters would share a
// name once renamed to the canonical name of their parent resource.
func checkCanonicalParams(r gwroute.Route, names map[string]string) error {
	seen := map[string]string{}
	for i, seg := range r.Path {
		if !seg.Param {
			continue
		}
		canonical := names[r.Path[:i].Shape()]
		if prev, ok := seen[canonical]; ok {
			return errors.WithStack(&ConflictError{
				Path:   r.Path.String(),
				Method: r.Method,
				Reason: fmt.Sprintf("parameters %s and %s both resolve to {%s} on shared resources", prev, seg.Name, canonical),
			})
		}
		seen[canonical] = seg.Name
	}
	return nil
}

// checkVariableSibling enforces that a resource has at most one variable child.
func checkVariableSibling(parent *Resource, part string) error {
	if !isParamPart(part) {
		return nil
	}
	for existing := range parent.children {
		if isParamPart(existing) {
			return errors.WithStack(&ConflictError{
				Path:   parent.Path,
				Reason: fmt.Sprintf("variable segments %s and %s share a parent", existing, part),
			})
		}
	}
	return nil
}

func (t *Tree) model(r gwroute.Route) *ValidationModel {
	hash := r.Request.Root.Hash()
	vm, ok := t.Models[hash]
	if !ok {
		vm = &ValidationModel{Hash: hash}
		t.Models[hash] = vm
	}
	vm.Sources = append(vm.Sources, r.Request.Name)
	vm.candidates = append(vm.candidates, candidate{source: r.Request.Name, node: r.Request.Root})
	return vm
}

// nameModels gives each model the smallest sanitized source name and the schema
// of that source. Distinct models that would share a name are suffixed with
// their hash.
func (t *Tree) nameModels() {
	byName := map[string][]*ValidationModel{}
	for _, vm := range t.Models {
		best := slices.MinFunc(vm.candidates, compareCandidates)
		vm.Schema = best.node
		vm.candidates = nil

		base := sanitizeModelName(best.source)
		if base == "" {
			base = "Model"
		}
		byName[base] = append(byName[base], vm)
	}

	for base, models := range byName {
		for _, vm := range models {
			vm.Name = base
			if len(models) > 1 {
				vm.Name = base + vm.Hash[:8]
			}
		}
	}
}

// compareCandidates orders sources by sanitized name, then raw name, then the
// full rendering of their schema. Sources that sanitize to nothing sort last.
func compareCandidates(a, b candidate) int {
	an, bn := sanitizeModelName(a.source), sanitizeModelName(b.source)
	switch {
	case an == "" && bn != "":
		return 1
	case bn == "" && an != "":
		return -1
	}
	if c := cmp.Or(strings.Compare(an, bn), strings.Compare(a.source, b.source)); c != 0 {
		return c
	}
	return bytes.Compare(renderNode(a.node), renderNode(b.node))
}

func renderNode(n *gwschema.Node) []byte {
	out, err := yaml.Marshal(n.JSONSchema())
	if err != nil {
		return nil
	}
	return out
}

// sanitizeModelName returns an alphanumeric CamelCase name, as required for API
// Gateway model names.
func sanitizeModelName(name string) string {
	camel := strcase.ToCamel(name)
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, camel)
}

func (t *Tree) attachPolicy(cfg Config) {
	policy := &Policy{Throttle: cfg.Throttle, Quota: cfg.Quota}
	_ = t.Walk(func(r *Resource) error {
		for _, m := range r.Methods {
			if m.APIKeyRequired {
				m.Policy = policy
			}
		}
		return nil
	})
}
