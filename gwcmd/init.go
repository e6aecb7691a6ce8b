package gwcmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/advdv/apigw/gwcdkutil"
	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/advdv/apigw/gwcmd/internal/initwizard"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
)

func (c *commands) initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create " + config.FileName + " and cdk.json for a new gateway project",
		ArgsUsage: "[directory]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "accessible",
				Usage: "Ask questions as plain prompts instead of an interactive form",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept the defaults without asking, seeded from AWS_REGION and AWS_PROFILE",
			},
		},
		Action: c.runInit,
	}
}

type initOptions struct {
	Dir    string
	Runner initwizard.FormRunner
	Output io.Writer
	Getenv func(string) string
}

func (c *commands) runInit(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to get current working directory")
		}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrap(err, "failed to get absolute path")
	}

	var runner initwizard.FormRunner = initwizard.NewInteractiveRunner()
	switch {
	case cmd.Bool("yes"):
		runner = initwizard.DefaultsRunner{}
	case cmd.Bool("accessible"):
		runner = initwizard.NewAccessibleRunner(c.output, c.input)
	}

	return doInit(ctx, initOptions{
		Dir:    absDir,
		Runner: runner,
		Output: c.output,
	})
}

func doInit(_ context.Context, opts initOptions) error {
	configPath := filepath.Join(opts.Dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return errors.Newf("%s already exists", configPath)
	}

	var wopts []initwizard.Option
	if opts.Getenv != nil {
		wopts = append(wopts, initwizard.WithGetenv(opts.Getenv))
	}

	result, err := initwizard.New(initwizard.NewFormBuilder(), opts.Runner, wopts...).Run(defaultProjectName(opts.Dir))
	if err != nil {
		return errors.Wrap(err, "init wizard failed")
	}

	cfg := config.Default(result.ProjectName)
	cfg.Entry = result.Entry
	cfg.Profile = result.Profile
	cfg.Synth.APIKeyRequired = result.APIKeyRequired

	if err := config.WriteToFile(opts.Dir, cfg, config.NewWriter()); err != nil {
		return err
	}
	writeOutputf(opts.Output, "Wrote %s\n", configPath)

	cdkJSONPath := filepath.Join(opts.Dir, "cdk.json")
	if _, err := os.Stat(cdkJSONPath); err == nil {
		writeOutputf(opts.Output, "Keeping existing %s\n", cdkJSONPath)
		return nil
	}

	if err := writeCDKJSON(cdkJSONPath, cfg, result); err != nil {
		return err
	}
	writeOutputf(opts.Output, "Wrote %s\n", cdkJSONPath)
	writeOutputf(opts.Output, "Bootstrap the account with qualifier %q, then run deploy\n", result.ProjectName)
	return nil
}

func writeCDKJSON(path string, cfg config.InnerConfig, result initwizard.Result) error {
	entry := cfg.Entry
	if entry != "." && !strings.HasPrefix(entry, "./") {
		entry = "./" + entry
	}

	cdkJSON := map[string]any{
		"app": "go run " + entry + " cdk",
		"context": map[string]any{
			cfg.Prefix + gwcdkutil.QualifierKey:  result.ProjectName,
			cfg.Prefix + gwcdkutil.RegionKey:     result.Region,
			cfg.Prefix + gwcdkutil.DeploymentKey: result.Deployment,
		},
	}

	output, err := json.MarshalIndent(cdkJSON, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal cdk.json")
	}

	if err := os.WriteFile(path, append(output, '\n'), 0o644); err != nil { //nolint:gosec // config file needs to be readable
		return errors.Wrap(err, "failed to write cdk.json")
	}
	return nil
}

// defaultProjectName derives a valid project name from a directory name.
func defaultProjectName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(dir)) {
		if !initwizard.IsValidNameChar(r) || (b.Len() == 0 && (r < 'a' || r > 'z')) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 10 {
			break
		}
	}
	if b.Len() == 0 {
		return "api"
	}
	return b.String()
}
