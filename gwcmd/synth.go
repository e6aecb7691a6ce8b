package gwcmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/advdv/apigw/gwsynth"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
)

func (c *commands) synthCmd() *cli.Command {
	return &cli.Command{
		Name:  "synth",
		Usage: "Render the synthesized resource tree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write the rendering to a file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "yaml",
				Usage: "Rendering format: yaml, dot or mermaid",
			},
		},
		Action: config.RunWithConfig(c.runSynth),
	}
}

type synthOptions struct {
	Config gwsynth.Config
	Format string
	Out    string
	Output io.Writer
}

func (c *commands) runSynth(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	return c.doSynth(ctx, synthOptions{
		Config: cfg.Inner.Synth,
		Format: cmd.String("format"),
		Out:    cmd.String("out"),
		Output: c.output,
	})
}

func (c *commands) doSynth(_ context.Context, opts synthOptions) error {
	tree, err := c.synthesize(opts.Config)
	if err != nil {
		return err
	}

	data, err := render(tree, opts.Format)
	if err != nil {
		return err
	}

	if opts.Out == "" {
		writeOutputf(opts.Output, "%s", data)
		return nil
	}

	if err := os.WriteFile(opts.Out, data, 0o644); err != nil { //nolint:gosec // build artifact
		return errors.Wrapf(err, "failed to write %s", opts.Out)
	}
	writeOutputf(opts.Output, "Wrote %d resources and %d models to %s\n",
		countResources(tree), len(tree.Models), opts.Out)
	return nil
}

func render(tree *gwsynth.Tree, format string) ([]byte, error) {
	switch format {
	case "yaml", "":
		return gwsynth.Render(tree)
	default:
		var buf bytes.Buffer
		if err := gwsynth.WriteGraph(&buf, tree, gwsynth.GraphFormat(format)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

func (c *commands) synthesize(cfg gwsynth.Config) (*gwsynth.Tree, error) {
	routes, err := c.routes()
	if err != nil {
		return nil, err
	}

	tree, err := gwsynth.Synthesize(routes, cfg)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("synthesized resource tree",
			slog.Int("routes", len(routes)),
			slog.Int("resources", countResources(tree)),
			slog.Int("models", len(tree.Models)))
	}
	return tree, nil
}

func countResources(t *gwsynth.Tree) int {
	n := 0
	_ = t.Walk(func(*gwsynth.Resource) error {
		n++
		return nil
	})
	return n
}
