package gwintrospect

import (
	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
)

// StaticSource is a Source backed by a fixed list of endpoints.
type StaticSource []Endpoint

// Endpoints implements Source.
func (s StaticSource) Endpoints() []Endpoint { return s }

// StaticEndpoint is an Endpoint whose metadata is set directly. It implements
// every optional interface.
type StaticEndpoint struct {
	MethodList  []string
	Template    string
	Request     gwschema.Model
	Response    gwschema.Model
	RouteName   string
	Description string
	TagList     []string
	ParamList   []ParamDecl
	Key         gwroute.KeyRequirement
}

func (e *StaticEndpoint) Methods() []string              { return e.MethodList }
func (e *StaticEndpoint) PathTemplate() string           { return e.Template }
func (e *StaticEndpoint) RequestModel() gwschema.Model   { return e.Request }
func (e *StaticEndpoint) ResponseModel() gwschema.Model  { return e.Response }
func (e *StaticEndpoint) Name() string                   { return e.RouteName }
func (e *StaticEndpoint) Summary() string                { return e.Description }
func (e *StaticEndpoint) Tags() []string                 { return e.TagList }
func (e *StaticEndpoint) Params() ([]ParamDecl, error)   { return e.ParamList, nil }
func (e *StaticEndpoint) APIKey() gwroute.KeyRequirement { return e.Key }
