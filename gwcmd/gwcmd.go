// Package gwcmd provides the command line of a gateway application. It lists
// the introspected routes, renders the synthesized resource tree and the
// OpenAPI document, serves as the CDK app and drives deployments.
//
// Applications embed it in their main package:
//
//	func main() {
//		cmd := gwcmd.New(app, gwcmd.WithVersion(Version))
//		if err := cmd.Run(context.Background(), os.Args); err != nil {
//			fmt.Fprintln(os.Stderr, err)
//			os.Exit(1)
//		}
//	}
package gwcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/advdv/apigw/gwintrospect"
	"github.com/advdv/apigw/gwroute"
	"github.com/urfave/cli/v3"
)

type options struct {
	name    string
	version string
	logger  *slog.Logger
	output  io.Writer
	input   io.Reader
}

// Option configures the command line.
type Option func(*options)

// WithName sets the executable name shown in help output.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithVersion sets the version, also used as the OpenAPI document version.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithLogger sets the logger. Without it, --verbose logs debug output to stderr.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithOutput redirects command output, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithInput sets where interactive prompts read from, which defaults to stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

type commands struct {
	src gwintrospect.Source
	options
}

// New creates the command line for the routes of src.
func New(src gwintrospect.Source, opts ...Option) *cli.Command {
	c := &commands{
		src: src,
		options: options{
			name:    "apigw",
			version: "dev",
			output:  os.Stdout,
			input:   os.Stdin,
		},
	}
	for _, opt := range opts {
		opt(&c.options)
	}

	return &cli.Command{
		Name:    c.name,
		Usage:   "Introspect, synthesize and deploy the API Gateway of this application",
		Version: c.version,
		Writer:  c.output,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug output to stderr",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if c.logger == nil {
				level := slog.LevelWarn
				if cmd.Bool("verbose") {
					level = slog.LevelDebug
				}
				c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			c.routesCmd(),
			c.synthCmd(),
			c.openapiCmd(),
			c.cdkCmd(),
			c.deployCmd(),
			c.diffCmd(),
			c.destroyCmd(),
			c.initCmd(),
		},
	}
}

func (c *commands) routes() ([]gwroute.Route, error) {
	logger := c.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return gwintrospect.New(gwintrospect.WithLogger(logger)).Introspect(c.src)
}

func writeOutputf(w io.Writer, format string, args ...any) {
	if w != nil {
		_, _ = fmt.Fprintf(w, format, args...)
	}
}
