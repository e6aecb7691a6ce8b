package gwapp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/advdv/apigw/gwintrospect"
	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwschema"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Empty is used as Req or Res for routes without input or output.
type Empty struct{}

// HandlerFunc is a typed route handler.
type HandlerFunc[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Handle registers fn for method on path. Req must be a struct: fields tagged
// `path:"name"`, `query:"name"` or `header:"Name"` are filled from the request
// line and headers, the remaining fields from the JSON body. Res is encoded as
// JSON.
func Handle[Req, Res any](a *App, method gwroute.Method, path string, fn HandlerFunc[Req, Res], opts ...RouteOption) {
	HandleMethods(a, []gwroute.Method{method}, path, fn, opts...)
}

// HandleMethods is like Handle for several methods sharing one handler.
func HandleMethods[Req, Res any](a *App, methods []gwroute.Method, path string, fn HandlerFunc[Req, Res], opts ...RouteOption) {
	reqType := reflect.TypeFor[Req]()
	resType := reflect.TypeFor[Res]()

	hasBody := false
	for _, m := range methods {
		hasBody = hasBody || m.HasBody()
	}

	params, paramErr := paramDecls(reqType)
	ep := &endpoint{
		methods:  methods,
		template: path,
		params:   params,
		paramErr: paramErr,
	}
	if hasBody && hasBodyFields(reqType) {
		ep.request = gwschema.FromType(reqType)
	}
	if resType.Kind() == reflect.Struct && resType != reflect.TypeFor[Empty]() {
		ep.response = gwschema.FromType(resType)
	}
	for _, opt := range opts {
		opt(ep)
	}

	h := &handler[Req, Res]{fn: fn, logger: a.logger, params: ep.params}
	h.decodeBody = ep.request != nil
	ep.handler = h

	a.endpoints = append(a.endpoints, ep)
}

type handler[Req, Res any] struct {
	fn         HandlerFunc[Req, Res]
	logger     *slog.Logger
	params     []gwintrospect.ParamDecl
	decodeBody bool
}

func (h *handler[Req, Res]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Req
	if err := h.decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.fn(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *handler[Req, Res]) decode(r *http.Request, req *Req) error {
	if reflect.TypeFor[Req]().Kind() != reflect.Struct {
		return nil
	}

	if h.decodeBody {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return Errorf(http.StatusBadRequest, "failed to decode body: %v", err)
		}
	}

	pathValues, queryValues, headerValues := map[string][]string{}, r.URL.Query(), map[string][]string{}
	for _, p := range h.params {
		switch p.In {
		case gwroute.InPath:
			pathValues[p.Name] = []string{r.PathValue(p.Name)}
		case gwroute.InHeader:
			if vs := r.Header.Values(p.Name); len(vs) > 0 {
				headerValues[p.Name] = vs
			}
		}
	}

	for _, src := range []struct {
		dec    *schema.Decoder
		values map[string][]string
	}{
		{pathDecoder, pathValues},
		{queryDecoder, queryValues},
		{headerDecoder, headerValues},
	} {
		if len(src.values) == 0 {
			continue
		}
		if err := src.dec.Decode(req, src.values); err != nil {
			return Errorf(http.StatusBadRequest, "failed to decode parameters: %v", err)
		}
	}

	return validate.Struct(req)
}

func newDecoder(tag string) *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag(tag)
	d.IgnoreUnknownKeys(true)
	return d
}

var (
	pathDecoder   = newDecoder(gwschema.PathTag)
	queryDecoder  = newDecoder(gwschema.QueryTag)
	headerDecoder = newDecoder(gwschema.HeaderTag)
)

// paramDecls lists the parameter fields of a request struct. Fields whose type
// cannot be described are left out and reported by the error.
func paramDecls(t reflect.Type) ([]gwintrospect.ParamDecl, error) {
	if t.Kind() != reflect.Struct {
		return nil, nil
	}

	var (
		decls    []gwintrospect.ParamDecl
		firstErr error
	)
	for i := range t.NumField() {
		sf := t.Field(i)
		for _, loc := range []gwroute.ParamLocation{gwroute.InPath, gwroute.InQuery, gwroute.InHeader} {
			name, ok := sf.Tag.Lookup(string(loc))
			if !ok || name == "" || name == "-" {
				continue
			}
			typ, err := gwschema.TypeOf(sf.Type)
			if err != nil {
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "field %s: %s parameter %q", sf.Name, loc, name)
				}
				continue
			}
			decls = append(decls, gwintrospect.ParamDecl{
				Name:     name,
				In:       loc,
				Required: loc == gwroute.InPath || hasRule(sf.Tag.Get("validate"), "required"),
				Type:     typ,
			})
		}
	}
	return decls, firstErr
}

// hasBodyFields reports whether t has any field decoded from the JSON body.
func hasBodyFields(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	fields, err := gwschema.FromType(t).Fields()
	return err != nil || len(fields) > 0
}
