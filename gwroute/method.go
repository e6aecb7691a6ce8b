package gwroute

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Method is an HTTP method supported by API Gateway REST APIs.
type Method string

const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
)

var canonicalMethods = []Method{GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS}

// Methods returns all supported methods in canonical order.
func Methods() []Method {
	return slices.Clone(canonicalMethods)
}

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(canonicalMethods, m) {
		return "", errors.Newf("unsupported HTTP method %q", s)
	}
	return m, nil
}

// HasBody reports whether requests with this method carry a validated body.
func (m Method) HasBody() bool {
	return m == POST || m == PUT || m == PATCH
}

// SortMethods sorts methods in canonical order and drops duplicates.
func SortMethods(ms []Method) []Method {
	out := slices.Clone(ms)
	slices.SortFunc(out, func(a, b Method) int {
		return slices.Index(canonicalMethods, a) - slices.Index(canonicalMethods, b)
	})
	return slices.Compact(out)
}
