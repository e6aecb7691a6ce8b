// Package gwapp is a small HTTP framework with an explicit registration API.
// Applications built with it expose their route table for introspection and
// serve requests through net/http.
package gwapp

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/advdv/apigw/gwintrospect"
	"github.com/advdv/apigw/gwroute"
	"github.com/cockroachdb/errors"
)

// App holds the registered endpoints in registration order.
type App struct {
	logger       *slog.Logger
	introspector *gwintrospect.Introspector
	endpoints    []*endpoint

	once    sync.Once
	handler http.Handler
	err     error
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger for request errors and introspection output.
// If not set, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// New creates an empty App.
func New(opts ...Option) *App {
	a := &App{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	a.introspector = gwintrospect.New(gwintrospect.WithLogger(a.logger))
	return a
}

// Endpoints implements gwintrospect.Source.
func (a *App) Endpoints() []gwintrospect.Endpoint {
	out := make([]gwintrospect.Endpoint, len(a.endpoints))
	for i, ep := range a.endpoints {
		out[i] = ep
	}
	return out
}

// Routes introspects the app.
func (a *App) Routes() ([]gwroute.Route, error) {
	return a.introspector.Introspect(a)
}

// Handler validates the route table and builds the request multiplexer. All
// registrations must be done before it is called.
func (a *App) Handler() (http.Handler, error) {
	if _, err := a.Routes(); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	for _, ep := range a.endpoints {
		path, err := gwroute.ParsePath(ep.template)
		if err != nil {
			return nil, errors.Wrapf(err, "endpoint %s", ep.template)
		}
		for _, m := range ep.methods {
			if err := register(mux, m, path, ep); err != nil {
				return nil, err
			}
		}
	}

	return mux, nil
}

func register(mux *http.ServeMux, m gwroute.Method, path gwroute.Path, ep *endpoint) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("register %s %s: %v", m, path, rec)
		}
	}()

	mux.Handle(string(m)+" "+muxPattern(path), ep.handler)
	return nil
}

// muxPattern converts a normalized path into a ServeMux pattern. The root path
// matches only itself.
func muxPattern(p gwroute.Path) string {
	if len(p) == 0 {
		return "/{$}"
	}

	var sb strings.Builder
	for _, s := range p {
		sb.WriteByte('/')
		switch {
		case s.Greedy:
			sb.WriteString("{" + s.Name + "...}")
		case s.Param:
			sb.WriteString("{" + s.Name + "}")
		default:
			sb.WriteString(s.Name)
		}
	}
	return sb.String()
}

// ServeHTTP implements http.Handler. The multiplexer is built on first use; an
// invalid route table fails every request with 500.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.once.Do(func() {
		a.handler, a.err = a.Handler()
		if a.err != nil {
			a.logger.Error("invalid route table", slog.Any("error", a.err))
		}
	})

	if a.err != nil {
		writeError(w, a.logger, Errorf(http.StatusInternalServerError, "invalid route table"))
		return
	}
	a.handler.ServeHTTP(w, r)
}
