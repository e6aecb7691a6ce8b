package initwizard

import (
	"io"

	"github.com/charmbracelet/huh"
)

type FormRunner interface {
	Run(form *huh.Form) error
}

// InteractiveRunner shows the form in the terminal.
type InteractiveRunner struct{}

func NewInteractiveRunner() *InteractiveRunner {
	return &InteractiveRunner{}
}

func (r *InteractiveRunner) Run(form *huh.Form) error {
	return form.Run()
}

// AccessibleRunner runs forms as plain prompts, for screen readers and piped
// input.
type AccessibleRunner struct {
	output io.Writer
	input  io.Reader
}

func NewAccessibleRunner(output io.Writer, input io.Reader) *AccessibleRunner {
	return &AccessibleRunner{
		output: output,
		input:  input,
	}
}

func (r *AccessibleRunner) Run(form *huh.Form) error {
	return form.
		WithAccessible(true).
		WithOutput(r.output).
		WithInput(r.input).
		Run()
}

// DefaultsRunner accepts the defaults without asking, for `init --yes` in CI.
type DefaultsRunner struct{}

func (DefaultsRunner) Run(*huh.Form) error { return nil }
