package gwcdkutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/advdv/apigw/gwcdkutil"
	"github.com/aws/aws-cdk-go/awscdk/v2"
)

func TestStackName(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		qualifier, deployment, want string
	}{
		{"myapp", "Dev", "myappGateway" + "Dev"},
		{"my-app", "Prod", "myAppGatewayProd"},
	} {
		if got := gwcdkutil.StackName(tt.qualifier, tt.deployment); got != tt.want {
			t.Errorf("StackName(%q, %q) = %q, want %q", tt.qualifier, tt.deployment, got, tt.want)
		}
	}
}

func TestReproducibleGoBundling(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/x")
	writeFile(t, dir, "main.go", "package main")

	first, err := gwcdkutil.ReproducibleGoBundling(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := gwcdkutil.ReproducibleGoBundling(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *first.AssetHash != *second.AssetHash {
		t.Errorf("asset hash not stable: %s != %s", *first.AssetHash, *second.AssetHash)
	}
	if first.AssetHashType != awscdk.AssetHashType_CUSTOM {
		t.Errorf("expected custom asset hash type, got %v", first.AssetHashType)
	}
	if *first.CgoEnabled {
		t.Error("expected cgo to be disabled")
	}

	flags := map[string]bool{}
	for _, f := range *first.GoBuildFlags {
		flags[*f] = true
	}
	if !flags["-trimpath"] || !flags["-buildvcs=false"] {
		t.Errorf("missing reproducibility flags: %v", flags)
	}

	writeFile(t, dir, "main.go", "package main // changed")
	third, err := gwcdkutil.ReproducibleGoBundling(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *third.AssetHash == *first.AssetHash {
		t.Error("asset hash should change with sources")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
