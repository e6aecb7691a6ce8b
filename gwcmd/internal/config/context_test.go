package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/advdv/apigw/gwcmd/internal/config"
)

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("WithContext and FromContext", func(t *testing.T) {
		t.Parallel()
		cfg := config.Config{Inner: config.Default("items"), ProjectDir: "/test/dir"}

		got, ok := config.FromContext(config.WithContext(context.Background(), cfg))
		if !ok {
			t.Fatal("expected config to be found")
		}
		if got.ProjectDir != cfg.ProjectDir || got.Inner.Name != "items" {
			t.Errorf("unexpected config: %+v", got)
		}
	})

	t.Run("FromContext returns false when not set", func(t *testing.T) {
		t.Parallel()

		if _, ok := config.FromContext(context.Background()); ok {
			t.Error("expected config to not be found")
		}
	})

	t.Run("Ensure returns existing config from context", func(t *testing.T) {
		t.Parallel()
		cfg := config.Config{Inner: config.Default("items"), ProjectDir: "/test/dir"}

		ctx := config.WithContext(context.Background(), cfg)
		newCtx, got, err := config.Ensure(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ProjectDir != cfg.ProjectDir {
			t.Errorf("expected projectDir %q, got %q", cfg.ProjectDir, got.ProjectDir)
		}
		if newCtx != ctx {
			t.Error("expected context to be returned unchanged")
		}
	})
}

func TestConfig_Paths(t *testing.T) {
	t.Parallel()

	inner := config.Default("items")
	inner.Entry = "cmd/items"
	cfg := config.Config{Inner: inner, ProjectDir: "/project"}

	for got, want := range map[string]string{
		cfg.EntryDir():       filepath.Join("/project", "cmd", "items"),
		cfg.CDKJSONPath():    filepath.Join("/project", "cdk.json"),
		cfg.CDKContextPath(): filepath.Join("/project", "cdk.context.json"),
		cfg.OpenAPIPath():    filepath.Join("/project", "openapi.json"),
	} {
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}

	cfg.Inner.OpenAPI = "/abs/api.yaml"
	if got := cfg.OpenAPIPath(); got != "/abs/api.yaml" {
		t.Errorf("absolute openapi path rewritten to %s", got)
	}
}
