package gwcmd

import (
	"context"
	"strings"

	"github.com/advdv/apigw/gwcdk"
	"github.com/advdv/apigw/gwcdkutil"
	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"
	"github.com/urfave/cli/v3"
)

// DeploymentEnv is set on the deployed handler to the name of its deployment.
const DeploymentEnv = "APIGW_DEPLOYMENT"

func (c *commands) cdkCmd() *cli.Command {
	return &cli.Command{
		Name:  "cdk",
		Usage: "Run as the CDK app, referenced from cdk.json",
		Description: "The CDK command line invokes this with the context of cdk.json and cdk.context.json. " +
			"It synthesizes the resource tree and creates the gateway stack of the configured deployment.",
		Action: config.RunWithConfig(c.runCDK),
	}
}

func (c *commands) runCDK(ctx context.Context, _ *cli.Command, cfg config.Config) error {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	if _, err := c.buildStack(ctx, app, cfg); err != nil {
		return err
	}

	app.Synth(nil)
	return nil
}

// buildStack creates the gateway stack of the deployment configured in the
// context of app.
func (c *commands) buildStack(_ context.Context, app awscdk.App, cfg config.Config) (awscdk.Stack, error) {
	tree, err := c.synthesize(cfg.Inner.Synth)
	if err != nil {
		return nil, err
	}

	return gwcdkutil.SetupApp(app, cfg.Inner.Prefix, func(stack awscdk.Stack, ccfg *gwcdkutil.Config) error {
		fn, err := gwcdkutil.GoHandler(stack, "Backend", gwcdkutil.GoHandlerProps{
			ModuleDir:   cfg.ProjectDir,
			Entry:       cfg.Inner.Entry,
			Environment: map[string]string{DeploymentEnv: ccfg.Deployment},
		})
		if err != nil {
			return err
		}

		props := gwcdk.Props{
			Tree:        tree,
			Config:      cfg.Inner.Synth,
			Backends:    map[string]awslambda.IFunction{cfg.Inner.Synth.Integration: fn},
			RestApiName: cfg.Inner.Name + "-" + strings.ToLower(ccfg.Deployment),
			Description: cfg.Inner.Description,
		}

		if d := cfg.Inner.Domain; d != nil {
			zone := awsroute53.HostedZone_FromLookup(stack, jsii.String("Zone"), &awsroute53.HostedZoneProviderProps{
				DomainName: jsii.String(d.Zone),
			})
			props.Domain = &gwcdk.DomainProps{HostedZone: zone, RecordName: d.Record}
		}

		_, err = gwcdk.New(stack, props)
		return err
	})
}
