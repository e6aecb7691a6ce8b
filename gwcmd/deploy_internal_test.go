package gwcmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/advdv/apigw/gwcmd/internal/cmdexec"
	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/cockroachdb/errors"
)

type call struct {
	name string
	args []string
}

type fakeExecutor struct {
	calls   []call
	outputs map[string]string
	fail    bool
}

func (f *fakeExecutor) WithOutput(io.Writer, io.Writer) cmdexec.Executor { return f }
func (f *fakeExecutor) InSubdir(string) cmdexec.Executor                 { return f }
func (f *fakeExecutor) WithEnv(string, string) cmdexec.Executor          { return f }
func (f *fakeExecutor) WithProfile(string) cmdexec.Executor              { return f }
func (f *fakeExecutor) Dir() string                                      { return "" }

func (f *fakeExecutor) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name, args})
	if f.fail {
		return errors.New("command failed")
	}
	return nil
}

func (f *fakeExecutor) Output(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name, args})
	return f.outputs[args[0]+" "+args[1]], nil
}

func (f *fakeExecutor) Mise(ctx context.Context, name string, args ...string) error {
	return f.Run(ctx, name, args...)
}

func (f *fakeExecutor) MiseOutput(ctx context.Context, name string, args ...string) (string, error) {
	return f.Output(ctx, name, args...)
}

func writeProject(t *testing.T, cdkJSON string) config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cdk.json"), []byte(cdkJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return config.Config{Inner: config.Default("items"), ProjectDir: dir}
}

const testCDKJSON = `{
  "app": "go run . cdk",
  "context": {
    "items-qualifier": "items",
    "items-region": "eu-west-1",
    "items-deployment": "Dev"
  }
}`

const testOutputs = `[
  {"OutputKey": "ApiUrl", "OutputValue": "https://abc.execute-api.eu-west-1.amazonaws.com/v1/"},
  {"OutputKey": "ApiKeyId", "OutputValue": "k123"}
]`

func TestDoDeploy(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{outputs: map[string]string{
		"cloudformation describe-stacks": testOutputs,
		"apigateway get-api-key":         "secret",
	}}
	var out bytes.Buffer

	err := doDeploy(context.Background(), deployOptions{
		Config:  writeProject(t, testCDKJSON),
		ShowKey: true,
		Hotswap: true,
		Exec:    exec,
		Output:  &out,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(exec.calls) != 3 {
		t.Fatalf("expected 3 calls, got %+v", exec.calls)
	}

	deploy := exec.calls[0]
	wantArgs := []string{
		"deploy", "itemsGatewayDev",
		"--context", "items-deployment=Dev",
		"--require-approval", "never",
		"--hotswap",
	}
	if deploy.name != "cdk" || !slices.Equal(deploy.args, wantArgs) {
		t.Errorf("unexpected deploy call: %+v", deploy)
	}

	describe := exec.calls[1]
	if !slices.Contains(describe.args, "itemsGatewayDev") || !slices.Contains(describe.args, "eu-west-1") {
		t.Errorf("unexpected describe call: %+v", describe)
	}

	for _, want := range []string{
		"API URL: https://abc.execute-api.eu-west-1.amazonaws.com/v1/",
		"API key ID: k123",
		"API key: secret",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output should contain %q:\n%s", want, out.String())
		}
	}
}

func TestDoDeploy_ExplicitDeployment(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{outputs: map[string]string{"cloudformation describe-stacks": "[]"}}
	err := doDeploy(context.Background(), deployOptions{
		Config:     writeProject(t, testCDKJSON),
		Deployment: "Prod",
		Exec:       exec,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exec.calls[0].args[1] != "itemsGatewayProd" || exec.calls[0].args[3] != "items-deployment=Prod" {
		t.Errorf("unexpected deploy call: %+v", exec.calls[0])
	}
	if len(exec.calls) != 2 {
		t.Errorf("expected no key lookup without an ApiKeyId output, got %+v", exec.calls)
	}
}

func TestDoDeploy_Errors(t *testing.T) {
	t.Parallel()

	for name, tt := range map[string]struct {
		cdkJSON string
		fail    bool
		want    string
	}{
		"missing qualifier": {
			cdkJSON: `{"context": {"items-deployment": "Dev"}}`,
			want:    `qualifier not found at context key "items-qualifier"`,
		},
		"missing deployment": {
			cdkJSON: `{"context": {"items-qualifier": "items"}}`,
			want:    "no deployment given",
		},
		"invalid cdk.json": {
			cdkJSON: `{`,
			want:    "failed to parse cdk.json",
		},
		"cdk failure": {
			cdkJSON: testCDKJSON,
			fail:    true,
			want:    "command failed",
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := doDeploy(context.Background(), deployOptions{
				Config: writeProject(t, tt.cdkJSON),
				Exec:   &fakeExecutor{fail: tt.fail},
			})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestReadCDKContext_Merges(t *testing.T) {
	t.Parallel()

	cfg := writeProject(t, testCDKJSON)
	if err := os.WriteFile(cfg.CDKContextPath(), []byte(`{"items-region": "us-east-1", "lookup": 1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := readCDKContext(cfg.CDKJSONPath(), cfg.CDKContextPath())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["items-region"] != "us-east-1" || got["items-qualifier"] != "items" || got["lookup"] == nil {
		t.Errorf("unexpected context: %v", got)
	}
}
