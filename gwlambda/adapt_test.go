package gwlambda_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/advdv/apigw/gwlambda"
	"github.com/aws/aws-lambda-go/events"
)

func TestAdapt_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	var seen *http.Request
	var seenBody string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		b, _ := io.ReadAll(r.Body)
		seenBody = string(b)

		if _, ok := gwlambda.ProxyRequest(r.Context()); !ok {
			t.Error("proxy event not available from context")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	resp, err := gwlambda.Adapt(h)(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:                      http.MethodPost,
		Path:                            "/items",
		Body:                            `{"name":"a"}`,
		MultiValueQueryStringParameters: map[string][]string{"tag": {"x", "y"}},
		QueryStringParameters:           map[string]string{"tag": "y", "page": "2"},
		MultiValueHeaders:               map[string][]string{"X-Api-Key": {"secret"}},
		Headers:                         map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen.Method != http.MethodPost || seen.URL.Path != "/items" {
		t.Errorf("unexpected request line: %s %s", seen.Method, seen.URL.Path)
	}
	if got := seen.URL.Query()["tag"]; len(got) != 2 {
		t.Errorf("multi-value query lost: %v", got)
	}
	if got := seen.URL.Query().Get("page"); got != "2" {
		t.Errorf("page = %q", got)
	}
	if got := seen.Header.Get("X-Api-Key"); got != "secret" {
		t.Errorf("X-Api-Key = %q", got)
	}
	if seenBody != `{"name":"a"}` {
		t.Errorf("body = %q", seenBody)
	}

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.IsBase64Encoded || resp.Body != `{"ok":true}` {
		t.Errorf("unexpected body: %q (base64=%v)", resp.Body, resp.IsBase64Encoded)
	}
	if got := resp.MultiValueHeaders["Set-Cookie"]; len(got) != 2 {
		t.Errorf("Set-Cookie = %v", got)
	}
}

func TestAdapt_Binary(t *testing.T) {
	t.Parallel()

	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(b)
	})

	resp, err := gwlambda.Adapt(h)(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPut,
		Path:            "/upload",
		Body:            base64.StdEncoding.EncodeToString(payload),
		IsBase64Encoded: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resp.IsBase64Encoded {
		t.Fatal("binary response must be base64 encoded")
	}
	got, err := base64.StdEncoding.DecodeString(resp.Body)
	if err != nil || string(got) != string(payload) {
		t.Errorf("payload mismatch: %v %v", got, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
}

func TestAdapt_InvalidBase64(t *testing.T) {
	t.Parallel()

	_, err := gwlambda.Adapt(http.NotFoundHandler())(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Path: "/", Body: "%%%", IsBase64Encoded: true,
	})
	if err == nil {
		t.Error("expected error")
	}
}
