package gwcmd

import (
	"context"
	"io"

	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/advdv/apigw/gwopenapi"
	"github.com/urfave/cli/v3"
)

func (c *commands) openapiCmd() *cli.Command {
	return &cli.Command{
		Name:  "openapi",
		Usage: "Write the OpenAPI document of the routes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output file, .json or .yaml (defaults to the openapi setting, or stdout)",
			},
			&cli.StringFlag{
				Name:  "server-url",
				Usage: "Invoke URL of the deployed stage",
			},
		},
		Action: config.RunWithConfig(c.runOpenAPI),
	}
}

type openapiOptions struct {
	Info   gwopenapi.Info
	Out    string
	Output io.Writer
}

func (c *commands) runOpenAPI(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	out := cmd.String("out")
	if out == "" {
		out = cfg.OpenAPIPath()
	}

	return c.doOpenAPI(ctx, openapiOptions{
		Info: gwopenapi.Info{
			Title:          cfg.Inner.Name,
			Version:        c.version,
			Description:    cfg.Inner.Description,
			ServerURL:      cmd.String("server-url"),
			APIKeyRequired: cfg.Inner.Synth.APIKeyRequired,
		},
		Out:    out,
		Output: c.output,
	})
}

func (c *commands) doOpenAPI(ctx context.Context, opts openapiOptions) error {
	routes, err := c.routes()
	if err != nil {
		return err
	}

	doc := gwopenapi.Build(opts.Info, routes)
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if opts.Out == "" {
		data, err := gwopenapi.Encode("", doc)
		if err != nil {
			return err
		}
		writeOutputf(opts.Output, "%s", data)
		return nil
	}

	if err := gwopenapi.Write(opts.Out, doc); err != nil {
		return err
	}
	writeOutputf(opts.Output, "Wrote %d paths to %s\n", len(doc.Paths), opts.Out)
	return nil
}
