package gwcmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/advdv/apigw/gwcmd/internal/cmdexec"
	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
)

func (c *commands) deployCmd() *cli.Command {
	return &cli.Command{
		Name:      "deploy",
		Usage:     "Deploy the gateway stack and print its endpoint",
		ArgsUsage: "[deployment]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "hotswap",
				Usage: "Enable CDK hotswap for faster iterations",
			},
			&cli.BoolFlag{
				Name:  "show-key",
				Usage: "Print the value of the API key after deploying",
			},
		},
		Action: config.RunWithConfig(c.runDeploy),
	}
}

type deployOptions struct {
	Config     config.Config
	Deployment string
	Hotswap    bool
	ShowKey    bool
	Exec       cmdexec.Executor
	Output     io.Writer
}

func (c *commands) runDeploy(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	return doDeploy(ctx, deployOptions{
		Config:     cfg,
		Deployment: cmd.Args().First(),
		Hotswap:    cmd.Bool("hotswap"),
		ShowKey:    cmd.Bool("show-key"),
		Exec:       cmdexec.New(cfg).WithOutput(c.output, os.Stderr).WithProfile(cfg.Inner.Profile),
		Output:     c.output,
	})
}

func doDeploy(ctx context.Context, opts deployOptions) error {
	target, err := resolveStack(opts.Config, opts.Deployment)
	if err != nil {
		return err
	}

	stackName := target.StackName
	args := append([]string{"deploy", stackName}, target.contextArgs()...)
	args = append(args, "--require-approval", "never")
	if opts.Hotswap {
		args = append(args, "--hotswap")
	}

	writeOutputf(opts.Output, "Deploying %s...\n", stackName)
	if err := opts.Exec.Mise(ctx, "cdk", args...); err != nil {
		return err
	}

	awsArgs := target.awsArgs()
	outputs, err := stackOutputs(ctx, opts.Exec, stackName, awsArgs)
	if err != nil {
		return err
	}

	writeOutputf(opts.Output, "API URL: %s\n", outputs["ApiUrl"])
	if url, ok := outputs["DomainUrl"]; ok {
		writeOutputf(opts.Output, "Domain URL: %s\n", url)
	}

	keyID, ok := outputs["ApiKeyId"]
	if !ok {
		return nil
	}
	writeOutputf(opts.Output, "API key ID: %s\n", keyID)

	if opts.ShowKey {
		value, err := opts.Exec.MiseOutput(ctx, "aws", append([]string{
			"apigateway", "get-api-key",
			"--api-key", keyID,
			"--include-value",
			"--query", "value",
			"--output", "text",
		}, awsArgs...)...)
		if err != nil {
			return errors.Wrap(err, "failed to read API key value")
		}
		writeOutputf(opts.Output, "API key: %s\n", value)
	}

	return nil
}

type stackOutput struct {
	OutputKey   string `json:"OutputKey"`
	OutputValue string `json:"OutputValue"`
}

func stackOutputs(ctx context.Context, exec cmdexec.Executor, stackName string, awsArgs []string) (map[string]string, error) {
	out, err := exec.MiseOutput(ctx, "aws", append([]string{
		"cloudformation", "describe-stacks",
		"--stack-name", stackName,
		"--query", "Stacks[0].Outputs",
		"--output", "json",
	}, awsArgs...)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to describe stack")
	}

	var list []stackOutput
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, errors.Wrap(err, "failed to parse stack outputs")
	}

	outputs := make(map[string]string, len(list))
	for _, o := range list {
		outputs[o.OutputKey] = o.OutputValue
	}
	return outputs, nil
}
