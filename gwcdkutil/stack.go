package gwcdkutil

import (
	"fmt"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
)

// StackName returns the CloudFormation stack name of a deployment, e.g.
// "myappGateway" + "Dev" for qualifier "myapp".
func StackName(qualifier, deployment string) string {
	return strcase.ToLowerCamel(qualifier+"-gateway") + deployment
}

// NewStackFromConfig creates the gateway stack of the configured deployment.
func NewStackFromConfig(scope constructs.Construct, cfg *Config) awscdk.Stack {
	stack := awscdk.NewStack(scope, jsii.String(StackName(cfg.Qualifier, cfg.Deployment)), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
			Region:  cfg.RegionPtr(),
		},
		Description: jsii.String(fmt.Sprintf("%s gateway (region: %s, deployment: %s)",
			cfg.Qualifier, cfg.Region, cfg.Deployment)),
		Synthesizer: awscdk.NewDefaultStackSynthesizer(&awscdk.DefaultStackSynthesizerProps{
			Qualifier: jsii.String(cfg.Qualifier),
		}),
	})

	awscdk.Annotations_Of(stack).AcknowledgeWarning(
		jsii.String("@aws-cdk/aws-lambda-go-alpha:goBuildFlagsSecurityWarning"),
		jsii.String("Build flags are controlled by gwcdkutil.ReproducibleGoBundling and are safe"),
	)

	return stack
}
