//nolint:paralleltest // this test doesn't need parallel execution
package gwcdkutil

import (
	"strings"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantErrs []string
	}{
		{
			name:   "valid",
			config: Config{Prefix: "myapp-", Qualifier: "myapp", Region: "eu-west-1", Deployment: "Dev"},
		},
		{
			name:     "missing fields",
			config:   Config{Prefix: "myapp-"},
			wantErrs: []string{"Qualifier is required", "Region is required", "Deployment is required"},
		},
		{
			name:     "qualifier too long",
			config:   Config{Qualifier: "waytoolongqualifier", Region: "eu-west-1", Deployment: "Dev"},
			wantErrs: []string{`Qualifier exceeds maximum length of 10 (got "waytoolongqualifier")`},
		},
		{
			name:     "lower-case deployment",
			config:   Config{Qualifier: "myapp", Region: "eu-west-1", Deployment: "dev"},
			wantErrs: []string{`Deployment must start with an upper-case letter (got "dev")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)

			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error but got nil")
			}
			for _, want := range tt.wantErrs {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q should contain %q", err.Error(), want)
				}
			}
		})
	}
}
