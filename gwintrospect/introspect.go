package gwintrospect

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
	"github.com/cockroachdb/errors"
)

// Error is returned for malformed or ambiguous route declarations. Endpoint is
// the registration index of the offending endpoint.
type Error struct {
	Endpoint int
	Route    string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("introspect endpoint #%d (%s): %v", e.Endpoint, e.Route, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Introspector converts a Source into routes.
type Introspector struct {
	logger     *slog.Logger
	skip       []gwroute.Method
	translator *gwschema.Translator
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithLogger sets the logger that receives per-route debug output.
func WithLogger(l *slog.Logger) Option {
	return func(in *Introspector) {
		in.logger = l
	}
}

// WithSkipMethods replaces the set of methods that are dropped during
// introspection. OPTIONS is skipped by default since CORS preflight serves it.
func WithSkipMethods(ms ...gwroute.Method) Option {
	return func(in *Introspector) {
		in.skip = ms
	}
}

// WithTranslator shares a schema translator across runs. By default every
// Introspect call uses a fresh one.
func WithTranslator(t *gwschema.Translator) Option {
	return func(in *Introspector) {
		in.translator = t
	}
}

// New creates an Introspector.
func New(opts ...Option) *Introspector {
	in := &Introspector{
		logger: slog.New(slog.DiscardHandler),
		skip:   []gwroute.Method{gwroute.OPTIONS},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Introspect reads every endpoint of src in registration order. Endpoints with
// several methods expand into one route per method, in canonical method order.
// The first malformed or colliding declaration aborts the run.
func (in *Introspector) Introspect(src Source) ([]gwroute.Route, error) {
	if src == nil {
		return nil, errors.New("nil source")
	}

	tr := in.translator
	if tr == nil {
		tr = gwschema.NewTranslator()
	}

	var routes []gwroute.Route
	owners := map[string]gwroute.Route{}

	for i, ep := range src.Endpoints() {
		fail := func(err error) error {
			return &Error{Endpoint: i, Route: ep.PathTemplate(), Err: err}
		}

		expanded, err := in.endpointRoutes(tr, ep)
		if err != nil {
			return nil, fail(err)
		}

		for _, r := range expanded {
			if err := r.Validate(); err != nil {
				return nil, fail(err)
			}

			if prev, ok := owners[r.Key()]; ok {
				return nil, fail(errors.Newf("%s collides with %s", r, prev))
			}
			owners[r.Key()] = r

			in.logger.Debug("route introspected",
				slog.String("route", r.String()),
				slog.Bool("request_schema", r.Request != nil))
			routes = append(routes, r)
		}
	}

	return routes, nil
}

func (in *Introspector) endpointRoutes(tr *gwschema.Translator, ep Endpoint) ([]gwroute.Route, error) {
	path, err := gwroute.ParsePath(ep.PathTemplate())
	if err != nil {
		return nil, err
	}

	methods := make([]gwroute.Method, 0, len(ep.Methods()))
	for _, s := range ep.Methods() {
		m, err := gwroute.ParseMethod(s)
		if err != nil {
			return nil, err
		}
		if slices.Contains(in.skip, m) {
			continue
		}
		methods = append(methods, m)
	}
	methods = gwroute.SortMethods(methods)

	base := gwroute.Route{Path: path}
	if d, ok := ep.(Describer); ok {
		base.Name, base.Summary, base.Tags = d.Name(), d.Summary(), slices.Clone(d.Tags())
	}
	if k, ok := ep.(KeyDeclarer); ok {
		base.APIKey = k.APIKey()
	}

	if pd, ok := ep.(ParamDeclarer); ok {
		decls, err := pd.Params()
		if err != nil {
			return nil, errors.Wrap(err, "parameters")
		}
		for _, decl := range decls {
			node, err := tr.TranslateType(decl.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "%s parameter %q", decl.In, decl.Name)
			}
			base.Params = append(base.Params, gwroute.Param{
				Name:     decl.Name,
				In:       decl.In,
				Required: decl.Required || decl.In == gwroute.InPath,
				Schema:   node,
			})
		}
	}

	if m := ep.RequestModel(); m != nil {
		if base.Request, err = tr.Schema(m); err != nil {
			return nil, errors.Wrap(err, "request model")
		}
	}
	if m := ep.ResponseModel(); m != nil {
		if base.Response, err = tr.Schema(m); err != nil {
			return nil, errors.Wrap(err, "response model")
		}
	}

	routes := make([]gwroute.Route, 0, len(methods))
	for _, m := range methods {
		r := base
		r.Method = m
		r.Tags = slices.Clone(base.Tags)
		r.Params = slices.Clone(base.Params)
		routes = append(routes, r)
	}
	return routes, nil
}
