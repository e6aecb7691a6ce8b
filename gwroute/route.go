// Package gwroute holds the in-memory model of an HTTP endpoint as read from an
// application's route table.
package gwroute

import (
	"github.com/advdv/apigw/gwschema"
	"github.com/cockroachdb/errors"
)

// ParamLocation is where a request parameter is carried.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
)

// RequestKey returns the API Gateway method request key, e.g. "method.request.path.id".
func (l ParamLocation) RequestKey(name string) string {
	loc := string(l)
	if l == InQuery {
		loc = "querystring"
	}
	return "method.request." + loc + "." + name
}

// Param is a declared request parameter.
type Param struct {
	Name     string
	In       ParamLocation
	Required bool
	Schema   *gwschema.Node
}

// KeyRequirement states whether a route demands an API key. KeyDefault defers to
// the synthesizer's global setting.
type KeyRequirement int

const (
	KeyDefault KeyRequirement = iota
	KeyRequired
	KeyNotRequired
)

// Resolve returns the effective requirement given the global default.
func (k KeyRequirement) Resolve(def bool) bool {
	switch k {
	case KeyRequired:
		return true
	case KeyNotRequired:
		return false
	default:
		return def
	}
}

// Route is one HTTP endpoint: a single method on a single normalized path.
type Route struct {
	Method   Method
	Path     Path
	Name     string
	Summary  string
	Tags     []string
	Params   []Param
	Request  *gwschema.Schema
	Response *gwschema.Schema
	APIKey   KeyRequirement
}

// Key identifies the route after normalization. Routes with equal keys would
// occupy the same API Gateway method.
func (r Route) Key() string {
	return string(r.Method) + " " + r.Path.Shape()
}

// String renders the route for messages, e.g. "GET /items/{id}".
func (r Route) String() string {
	return string(r.Method) + " " + r.Path.String()
}

// Validate checks the per-route invariants: parameter declarations are unique
// and every path parameter is declared with a schema.
func (r Route) Validate() error {
	declared := map[ParamLocation]map[string]bool{}
	for _, p := range r.Params {
		if declared[p.In] == nil {
			declared[p.In] = map[string]bool{}
		}
		if declared[p.In][p.Name] {
			return errors.Newf("%s: %s parameter %q declared twice", r, p.In, p.Name)
		}
		declared[p.In][p.Name] = true

		if p.In == InPath && !r.Path.HasParam(p.Name) {
			return errors.Newf("%s: path parameter %q is not part of the path", r, p.Name)
		}
		if p.Schema == nil {
			return errors.Newf("%s: %s parameter %q has no schema", r, p.In, p.Name)
		}
	}

	for _, name := range r.Path.Params() {
		if !declared[InPath][name] {
			return errors.Newf("%s: path parameter %q has no declared type", r, name)
		}
	}

	return nil
}

// Param returns the declared parameter with the given location and name.
func (r Route) Param(in ParamLocation, name string) (Param, bool) {
	for _, p := range r.Params {
		if p.In == in && p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
