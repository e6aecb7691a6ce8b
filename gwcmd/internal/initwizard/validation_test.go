package initwizard_test

import (
	"testing"

	"github.com/advdv/apigw/gwcmd/internal/initwizard"
)

func TestValidateProjectName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid simple", input: "items", wantErr: false},
		{name: "valid with numbers", input: "items2", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "too long", input: "abcdefghijk", wantErr: true},
		{name: "uppercase", input: "Items", wantErr: true},
		{name: "hyphen", input: "my-items", wantErr: true},
		{name: "starts with digit", input: "2items", wantErr: true},
		{name: "special chars", input: "items!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := initwizard.ValidateProjectName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDeployment(t *testing.T) {
	t.Parallel()

	for input, wantErr := range map[string]bool{
		"Dev":  false,
		"Prod": false,
		"dev":  true,
		"":     true,
		"1Dev": true,
	} {
		if err := initwizard.ValidateDeployment(input); (err != nil) != wantErr {
			t.Errorf("ValidateDeployment(%q) error = %v, wantErr %v", input, err, wantErr)
		}
	}
}

func TestValidateEntry(t *testing.T) {
	t.Parallel()

	for input, wantErr := range map[string]bool{
		".":              false,
		"./cmd/server":   false,
		"cmd/server":     false,
		`cmd\server`:     false,
		"":               true,
		"..":             true,
		"../other":       true,
		"cmd/../../x":    true,
		"/abs/cmd":       true,
		"  ./cmd/api   ": false,
	} {
		if err := initwizard.ValidateEntry(input); (err != nil) != wantErr {
			t.Errorf("ValidateEntry(%q) error = %v, wantErr %v", input, err, wantErr)
		}
	}
}
