package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/advdv/apigw/gwintrospect"
	"github.com/advdv/apigw/gwroute"
	"github.com/advdv/apigw/gwsynth"
)

func newTestStore() *store {
	s := newStore()
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestItems(t *testing.T) {
	t.Parallel()
	app := newApp(newTestStore())

	rec := do(t, app, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, app, http.MethodPost, "/items", `{"name":"first","tags":["a"]}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"1"`) {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"created_at":"2026-01-02T03:04:05Z"`) {
		t.Errorf("create: unexpected timestamp in %s", rec.Body)
	}

	rec = do(t, app, http.MethodPost, "/items/1/tags", `{"tag":"b"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"tags":["a","b"]`) {
		t.Fatalf("add tag: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, app, http.MethodPut, "/items/1", `{"name":"renamed","priority":"high"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"renamed"`) {
		t.Fatalf("update: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, app, http.MethodGet, "/items?limit=10", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"renamed"`) {
		t.Fatalf("list: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, app, http.MethodDelete, "/items/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, app, http.MethodGet, "/items/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d, want 404", rec.Code)
	}
}

func TestItems_Validation(t *testing.T) {
	t.Parallel()
	app := newApp(newTestStore())

	for _, tt := range []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"missing name", http.MethodPost, "/items", `{}`},
		{"bad priority", http.MethodPost, "/items", `{"name":"x","priority":"urgent"}`},
		{"limit too large", http.MethodGet, "/items?limit=1000", ""},
		{"malformed body", http.MethodPost, "/items", `{`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, app, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got %d, want 400: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestItems_Synthesize(t *testing.T) {
	t.Parallel()

	routes, err := gwintrospect.New().Introspect(newApp(newTestStore()))
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 7 {
		t.Fatalf("got %d routes, want 7", len(routes))
	}

	tree, err := gwsynth.Synthesize(routes, gwsynth.DefaultConfig("backend"))
	if err != nil {
		t.Fatal(err)
	}

	health, ok := tree.Lookup("/health")
	if !ok {
		t.Fatal("no /health resource")
	}
	if m, ok := health.Method(gwroute.GET); !ok || m.APIKeyRequired || m.Policy != nil {
		t.Errorf("health should be reachable without a key")
	}

	item, ok := tree.Lookup("/items/{id}")
	if !ok {
		t.Fatal("no /items/{id} resource")
	}
	for _, method := range []gwroute.Method{gwroute.GET, gwroute.PUT, gwroute.DELETE} {
		m, ok := item.Method(method)
		if !ok {
			t.Fatalf("no %s on /items/{id}", method)
		}
		if !m.APIKeyRequired || m.Policy == nil {
			t.Errorf("%s /items/{id} should require a key", method)
		}
	}

	if _, ok := tree.Lookup("/items/{id}/tags"); !ok {
		t.Error("no /items/{id}/tags resource")
	}
}
