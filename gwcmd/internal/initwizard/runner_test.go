package initwizard_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/advdv/apigw/gwcmd/internal/initwizard"
	"github.com/charmbracelet/huh"
)

func TestAccessibleRunner(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	input := strings.NewReader("items\n")

	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project name").Value(&value),
		),
	)

	if err := initwizard.NewAccessibleRunner(&output, input).Run(form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "items" {
		t.Errorf("expected value 'items', got %q", value)
	}
	if !strings.Contains(output.String(), "Project name") {
		t.Errorf("expected output to contain 'Project name', got %q", output.String())
	}
}

func TestDefaultsRunner(t *testing.T) {
	t.Parallel()

	value := "unchanged"
	form := huh.NewForm(huh.NewGroup(huh.NewInput().Title("Project name").Value(&value)))

	if err := (initwizard.DefaultsRunner{}).Run(form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "unchanged" {
		t.Errorf("expected the default to be kept, got %q", value)
	}
}
