package gwcdkutil

import (
	"os"
	"path/filepath"

	"github.com/advdv/apigw/internal/srchash"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	awscdklambdagoalpha "github.com/aws/aws-cdk-go/awscdklambdagoalpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
)

// ReproducibleGoBundling returns bundling options that build byte-identical
// binaries for identical sources. The asset hash is derived from the module's
// files, so unchanged handlers are not re-uploaded.
func ReproducibleGoBundling(moduleDir string, opts ...srchash.Option) (*awscdklambdagoalpha.BundlingOptions, error) {
	hash, err := srchash.New(opts...).Hash(os.DirFS(moduleDir))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to hash %s", moduleDir)
	}

	return &awscdklambdagoalpha.BundlingOptions{
		GoBuildFlags: jsii.Strings(
			"-trimpath",
			"-buildvcs=false",
			`-ldflags="-s -w -buildid="`,
		),
		CgoEnabled:    jsii.Bool(false),
		AssetHash:     jsii.String(hash),
		AssetHashType: awscdk.AssetHashType_CUSTOM,
	}, nil
}

// GoHandlerProps configures a Go Lambda handler.
type GoHandlerProps struct {
	// ModuleDir is the directory holding go.mod.
	ModuleDir string
	// Entry is the main package, relative to ModuleDir.
	Entry string
	// Environment is passed to the function.
	Environment map[string]string
	// MemorySize in megabytes. Defaults to 512.
	MemorySize float64
}

// GoHandler creates an arm64 Go Lambda function with a one-week log group.
func GoHandler(scope constructs.Construct, id string, props GoHandlerProps) (awslambda.IFunction, error) {
	scope = constructs.NewConstruct(scope, jsii.String(id))

	bundling, err := ReproducibleGoBundling(props.ModuleDir)
	if err != nil {
		return nil, err
	}

	memory := props.MemorySize
	if memory == 0 {
		memory = 512
	}

	env := map[string]*string{}
	for k, v := range props.Environment {
		env[k] = jsii.String(v)
	}

	logs := awslogs.NewLogGroup(scope, jsii.String("Logs"), &awslogs.LogGroupProps{
		Retention:     awslogs.RetentionDays_ONE_WEEK,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	return awscdklambdagoalpha.NewGoFunction(scope, jsii.String("Function"), &awscdklambdagoalpha.GoFunctionProps{
		Entry:        jsii.String(filepath.Join(props.ModuleDir, props.Entry)),
		ModuleDir:    jsii.String(props.ModuleDir),
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Architecture: awslambda.Architecture_ARM_64(),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(30)),
		MemorySize:   jsii.Number(memory),
		Environment:  &env,
		LogGroup:     logs,
		Bundling:     bundling,
	}), nil
}
