// Package gwopenapi renders introspected routes as an OpenAPI 3 document.
package gwopenapi

import (
	"strings"

	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"
)

// APIKeyScheme is the security scheme name used for key-protected operations.
const APIKeyScheme = "api_key"

// APIKeyHeader is the header API Gateway reads the key from.
const APIKeyHeader = "x-api-key"

// Info describes the API as a whole.
type Info struct {
	Title       string
	Version     string
	Description string
	// ServerURL is the invoke URL of the deployed stage, if known.
	ServerURL string
	// APIKeyRequired is the default for routes that do not state a requirement.
	APIKeyRequired bool
}

// Build creates the document for routes. Request and response models become
// component schemas; structurally different models sharing a name are
// suffixed with their hash.
func Build(info Info, routes []gwroute.Route) *openapi3.T {
	b := &builder{
		doc: &openapi3.T{
			OpenAPI: "3.0.3",
			Info: &openapi3.Info{
				Title:       info.Title,
				Version:     info.Version,
				Description: info.Description,
			},
			Paths: openapi3.Paths{},
			Components: &openapi3.Components{
				Schemas:         openapi3.Schemas{},
				SecuritySchemes: openapi3.SecuritySchemes{},
			},
		},
		names:       map[string]string{},
		operationID: map[string]int{},
	}

	if info.ServerURL != "" {
		b.doc.Servers = openapi3.Servers{{URL: info.ServerURL}}
	}

	for _, g := range gwroute.GroupByTag(routes) {
		b.doc.Tags = append(b.doc.Tags, &openapi3.Tag{Name: g.Tag})
	}

	for _, r := range routes {
		b.addRoute(r, r.APIKey.Resolve(info.APIKeyRequired))
	}

	if b.usesKey {
		b.doc.Components.SecuritySchemes[APIKeyScheme] = &openapi3.SecuritySchemeRef{
			Value: openapi3.NewSecurityScheme().WithType("apiKey").WithIn("header").WithName(APIKeyHeader),
		}
	}

	return b.doc
}

type builder struct {
	doc         *openapi3.T
	names       map[string]string
	operationID map[string]int
	usesKey     bool
}

func (b *builder) addRoute(r gwroute.Route, keyRequired bool) {
	path := r.Path.String()
	item := b.doc.Paths[path]
	if item == nil {
		item = &openapi3.PathItem{}
		b.doc.Paths[path] = item
	}

	op := openapi3.NewOperation()
	op.OperationID = b.uniqueOperationID(r)
	op.Summary = r.Summary
	op.Tags = r.Tags

	for _, p := range r.Params {
		param := &openapi3.Parameter{
			Name:     p.Name,
			In:       string(p.In),
			Required: p.Required,
			Schema:   openapi3.NewSchemaRef("", nodeSchema(p.Schema)),
		}
		op.AddParameter(param)
	}

	if r.Request != nil {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(b.component(r.Request)),
		}
	}

	resp := openapi3.NewResponse().WithDescription("Successful Response")
	if r.Response != nil {
		resp = resp.WithJSONSchemaRef(b.component(r.Response))
	}
	op.Responses = openapi3.Responses{"200": &openapi3.ResponseRef{Value: resp}}

	if keyRequired {
		b.usesKey = true
		op.Security = openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(APIKeyScheme))
	}

	item.SetOperation(string(r.Method), op)
}

func (b *builder) uniqueOperationID(r gwroute.Route) string {
	id := r.Name
	if id == "" {
		var parts []string
		parts = append(parts, strings.ToLower(string(r.Method)))
		for _, seg := range r.Path {
			if seg.Param {
				parts = append(parts, "by", seg.Name)
			} else {
				parts = append(parts, seg.Name)
			}
		}
		id = strcase.ToLowerCamel(strings.Join(parts, "_"))
	}

	b.operationID[id]++
	if n := b.operationID[id]; n > 1 {
		return id + strings.Repeat("_", n-1)
	}
	return id
}

// component registers s under components/schemas and returns a reference to it.
func (b *builder) component(s *gwschema.Schema) *openapi3.SchemaRef {
	hash := s.Root.Hash()
	name := strcase.ToCamel(s.Name)
	if owner, ok := b.names[name]; ok && owner != hash {
		name += hash[:8]
	}
	b.names[name] = hash

	if _, ok := b.doc.Components.Schemas[name]; !ok {
		b.doc.Components.Schemas[name] = openapi3.NewSchemaRef("", nodeSchema(s.Root))
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func nodeSchema(n *gwschema.Node) *openapi3.Schema {
	s := &openapi3.Schema{
		Title:       n.Title,
		Description: n.Description,
		Format:      n.Format,
	}

	if n.Kind == gwschema.Null {
		s.Nullable = true
		return s
	}
	s.Type = n.Kind.String()

	for _, e := range n.Enum {
		s.Enum = append(s.Enum, e)
	}

	switch n.Kind {
	case gwschema.Object:
		s.Properties = openapi3.Schemas{}
		for _, p := range n.Properties {
			s.Properties[p.Name] = openapi3.NewSchemaRef("", nodeSchema(p.Node))
		}
		s.Required = n.Required()
	case gwschema.Array:
		if n.Items != nil {
			s.Items = openapi3.NewSchemaRef("", nodeSchema(n.Items))
		}
	}
	return s
}
