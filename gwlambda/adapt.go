// Package gwlambda serves an http.Handler from an API Gateway proxy Lambda.
package gwlambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/cockroachdb/errors"
)

// HandlerFunc is the Lambda handler signature for REST API proxy integrations.
type HandlerFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type ctxKey struct{}

// ProxyRequest returns the API Gateway event that produced the HTTP request.
func ProxyRequest(ctx context.Context) (events.APIGatewayProxyRequest, bool) {
	req, ok := ctx.Value(ctxKey{}).(events.APIGatewayProxyRequest)
	return req, ok
}

// Adapt converts h into a proxy integration handler.
func Adapt(h http.Handler) HandlerFunc {
	return func(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := NewRequest(context.WithValue(ctx, ctxKey{}, ev), ev)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		rw := newResponseWriter()
		h.ServeHTTP(rw, req)
		return rw.proxyResponse(), nil
	}
}

// Start runs h as the Lambda function handler. It does not return.
func Start(h http.Handler) {
	lambda.Start(Adapt(h))
}

// NewRequest builds the HTTP request described by a proxy event.
func NewRequest(ctx context.Context, ev events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, errors.Wrap(err, "decode base64 body")
		}
		body = decoded
	}

	query := url.Values{}
	for k, vs := range ev.MultiValueQueryStringParameters {
		query[k] = slices.Clone(vs)
	}
	for k, v := range ev.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	u := url.URL{Path: ev.Path, RawQuery: query.Encode()}
	req, err := http.NewRequestWithContext(ctx, ev.HTTPMethod, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	for k, vs := range ev.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range ev.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	req.RemoteAddr = ev.RequestContext.Identity.SourceIP
	req.RequestURI = u.RequestURI()
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}
	return req, nil
}

type responseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}}
}

func (w *responseWriter) Header() http.Header { return w.header }

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status != 0 {
		return
	}
	w.status = status
}

func (w *responseWriter) proxyResponse() events.APIGatewayProxyResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	if w.header.Get("Content-Type") == "" && w.body.Len() > 0 {
		w.header.Set("Content-Type", http.DetectContentType(w.body.Bytes()))
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		MultiValueHeaders: maps.Clone(map[string][]string(w.header)),
	}

	if isText(w.header.Get("Content-Type")) {
		resp.Body = w.body.String()
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(w.body.Bytes())
		resp.IsBase64Encoded = true
	}
	return resp
}

func isText(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") ||
		strings.HasSuffix(mt, "json") ||
		strings.HasSuffix(mt, "xml") ||
		mt == "application/javascript" ||
		mt == "application/x-www-form-urlencoded"
}
