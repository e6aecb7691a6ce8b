// Package initwizard asks for the settings of a new gateway project.
package initwizard

import "os"

type Wizard struct {
	builder FormBuilder
	runner  FormRunner
	getenv  func(string) string
}

type Option func(*Wizard)

// WithGetenv replaces os.Getenv as the source of AWS defaults.
func WithGetenv(getenv func(string) string) Option {
	return func(w *Wizard) {
		w.getenv = getenv
	}
}

func New(builder FormBuilder, runner FormRunner, opts ...Option) *Wizard {
	w := &Wizard{
		builder: builder,
		runner:  runner,
		getenv:  os.Getenv,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run asks the questions, starting from defaults for a project called
// defaultName. The answers are validated after the form completes, so runners
// that skip the prompts cannot produce an invalid project.
func (w *Wizard) Run(defaultName string) (Result, error) {
	var result Result
	defaults := DefaultResult(defaultName).withEnv(w.getenv)
	form := w.builder.Build(defaults, &result)

	if err := w.runner.Run(form); err != nil {
		return Result{}, err
	}

	result = result.normalize()
	if err := result.Validate(); err != nil {
		return Result{}, err
	}
	return result, nil
}
