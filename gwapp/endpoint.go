package gwapp

import (
	"net/http"

	"github.com/advdv/apigw/gwintrospect"
	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
)

type endpoint struct {
	methods  []gwroute.Method
	template string
	request  gwschema.Model
	response gwschema.Model
	name     string
	summary  string
	tags     []string
	params   []gwintrospect.ParamDecl
	paramErr error
	apiKey   gwroute.KeyRequirement
	handler  http.Handler
}

func (e *endpoint) Methods() []string {
	out := make([]string, len(e.methods))
	for i, m := range e.methods {
		out[i] = string(m)
	}
	return out
}

func (e *endpoint) PathTemplate() string           { return e.template }
func (e *endpoint) RequestModel() gwschema.Model   { return e.request }
func (e *endpoint) ResponseModel() gwschema.Model  { return e.response }
func (e *endpoint) Name() string                   { return e.name }
func (e *endpoint) Summary() string                { return e.summary }
func (e *endpoint) Tags() []string                 { return e.tags }
func (e *endpoint) APIKey() gwroute.KeyRequirement { return e.apiKey }

// Params reports the parameter fields of the request struct. A field whose
// type has no schema fails here rather than at registration.
func (e *endpoint) Params() ([]gwintrospect.ParamDecl, error) {
	return e.params, e.paramErr
}

// RouteOption configures a registered route.
type RouteOption func(*endpoint)

// Name sets the route name, used as the OpenAPI operation id.
func Name(name string) RouteOption {
	return func(e *endpoint) { e.name = name }
}

// Summary sets a one-line description of the route.
func Summary(s string) RouteOption {
	return func(e *endpoint) { e.summary = s }
}

// Tags groups the route for documentation.
func Tags(tags ...string) RouteOption {
	return func(e *endpoint) { e.tags = append(e.tags, tags...) }
}

// APIKey overrides the synthesizer's default key requirement for the route.
func APIKey(k gwroute.KeyRequirement) RouteOption {
	return func(e *endpoint) { e.apiKey = k }
}
