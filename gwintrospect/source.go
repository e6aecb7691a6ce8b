// Package gwintrospect reads an application's route table through a small set of
// capability interfaces and produces normalized, validated routes.
package gwintrospect

import (
	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
)

// Source is an application that exposes its registered endpoints. Endpoints must
// be returned in registration order.
type Source interface {
	Endpoints() []Endpoint
}

// Endpoint is one registered handler. A nil model means the endpoint has no
// request or response body.
type Endpoint interface {
	Methods() []string
	PathTemplate() string
	RequestModel() gwschema.Model
	ResponseModel() gwschema.Model
}

// Describer is implemented by endpoints that carry documentation metadata.
type Describer interface {
	Name() string
	Summary() string
	Tags() []string
}

// ParamDecl declares the type of a path, query or header parameter.
type ParamDecl struct {
	Name     string
	In       gwroute.ParamLocation
	Required bool
	Type     gwschema.Type
}

// ParamDeclarer is implemented by endpoints that declare request parameters.
// An error reports a declared parameter whose type has no schema.
type ParamDeclarer interface {
	Params() ([]ParamDecl, error)
}

// KeyDeclarer is implemented by endpoints with their own API key requirement.
type KeyDeclarer interface {
	APIKey() gwroute.KeyRequirement
}
