// Package cmdexec runs the external tools the command line drives, such as the
// CDK and AWS command line interfaces, through mise.
package cmdexec

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/cockroachdb/errors"
)

// Executor runs external commands in a fixed working directory.
type Executor interface {
	// WithOutput returns a new Executor that writes to the given stdout/stderr.
	WithOutput(stdout, stderr io.Writer) Executor

	// InSubdir returns a new Executor that runs commands in a subdirectory.
	InSubdir(subdir string) Executor

	// WithEnv returns a new Executor with an additional environment variable.
	WithEnv(key, value string) Executor

	// WithProfile returns a new Executor that selects an AWS profile. An empty
	// profile leaves the environment unchanged.
	WithProfile(profile string) Executor

	// Dir returns the working directory for this executor.
	Dir() string

	// Run executes a command and streams output to configured writers.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns stdout as a string.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Mise executes a command wrapped with "mise exec --".
	Mise(ctx context.Context, name string, args ...string) error

	// MiseOutput executes a mise-wrapped command and returns stdout as a string.
	MiseOutput(ctx context.Context, name string, args ...string) (string, error)
}

type executor struct {
	dir    string
	stdout io.Writer
	stderr io.Writer
	env    []string
}

// New creates an Executor running in the project directory.
func New(cfg config.Config) Executor {
	return &executor{
		dir: cfg.ProjectDir,
	}
}

// NewWithDir creates an Executor with an explicit working directory.
func NewWithDir(dir string) Executor {
	return &executor{
		dir: dir,
	}
}

func (e *executor) clone() *executor {
	c := *e
	c.env = append([]string(nil), e.env...)
	return &c
}

func (e *executor) WithOutput(stdout, stderr io.Writer) Executor {
	c := e.clone()
	c.stdout, c.stderr = stdout, stderr
	return c
}

func (e *executor) InSubdir(subdir string) Executor {
	c := e.clone()
	c.dir = filepath.Join(e.dir, subdir)
	return c
}

func (e *executor) WithEnv(key, value string) Executor {
	c := e.clone()
	c.env = append(c.env, key+"="+value)
	return c
}

func (e *executor) WithProfile(profile string) Executor {
	if profile == "" {
		return e
	}
	return e.WithEnv("AWS_PROFILE", profile)
}

func (e *executor) Dir() string {
	return e.dir
}

func (e *executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.command(ctx, name, args...)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", name)
	}

	return nil
}

func (e *executor) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := e.command(ctx, name, args...)
	cmd.Stderr = e.stderr

	output, err := cmd.Output()
	if err != nil {
		return "", errors.Wrapf(err, "%s failed", name)
	}

	return strings.TrimSpace(string(output)), nil
}

func (e *executor) Mise(ctx context.Context, name string, args ...string) error {
	return e.Run(ctx, "mise", miseArgs(name, args)...)
}

func (e *executor) MiseOutput(ctx context.Context, name string, args ...string) (string, error) {
	return e.Output(ctx, "mise", miseArgs(name, args)...)
}

func miseArgs(name string, args []string) []string {
	out := make([]string, 0, 3+len(args))
	out = append(out, "exec", "--", name)
	return append(out, args...)
}

func (e *executor) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.dir
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}
	return cmd
}
