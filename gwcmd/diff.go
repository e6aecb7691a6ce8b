package gwcmd

import (
	"context"
	"io"
	"os"

	"github.com/advdv/apigw/gwcmd/internal/cmdexec"
	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/urfave/cli/v3"
)

func (c *commands) diffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Show the differences between the synthesized and the deployed stack",
		ArgsUsage: "[deployment]",
		Action:    config.RunWithConfig(c.runDiff),
	}
}

func (c *commands) destroyCmd() *cli.Command {
	return &cli.Command{
		Name:      "destroy",
		Usage:     "Destroy the gateway stack of a deployment",
		ArgsUsage: "[deployment]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Skip confirmation prompts",
			},
		},
		Action: config.RunWithConfig(c.runDestroy),
	}
}

type stackCommandOptions struct {
	Config     config.Config
	Deployment string
	Force      bool
	Exec       cmdexec.Executor
	Output     io.Writer
}

func (c *commands) stackCommandOptions(cmd *cli.Command, cfg config.Config) stackCommandOptions {
	return stackCommandOptions{
		Config:     cfg,
		Deployment: cmd.Args().First(),
		Exec:       cmdexec.New(cfg).WithOutput(c.output, os.Stderr).WithProfile(cfg.Inner.Profile),
		Output:     c.output,
	}
}

func (c *commands) runDiff(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	return doDiff(ctx, c.stackCommandOptions(cmd, cfg))
}

func (c *commands) runDestroy(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	opts := c.stackCommandOptions(cmd, cfg)
	opts.Force = cmd.Bool("force")
	return doDestroy(ctx, opts)
}

func doDiff(ctx context.Context, opts stackCommandOptions) error {
	target, err := resolveStack(opts.Config, opts.Deployment)
	if err != nil {
		return err
	}

	args := append([]string{"diff", target.StackName}, target.contextArgs()...)
	return opts.Exec.Mise(ctx, "cdk", args...)
}

func doDestroy(ctx context.Context, opts stackCommandOptions) error {
	target, err := resolveStack(opts.Config, opts.Deployment)
	if err != nil {
		return err
	}

	args := append([]string{"destroy", target.StackName}, target.contextArgs()...)
	if opts.Force {
		args = append(args, "--force")
	}

	writeOutputf(opts.Output, "Destroying %s...\n", target.StackName)
	return opts.Exec.Mise(ctx, "cdk", args...)
}
