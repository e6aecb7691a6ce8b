// Package gwcdk provides the CDK construct that deploys a synthesized resource
// tree as an API Gateway REST API.
//
// Every resource of the tree becomes an API Gateway resource, every method a
// Lambda proxy method, and every validation model an API Gateway model. When
// any method requires an API key the construct also creates the key and a
// usage plan carrying the configured throttle and quota.
package gwcdk

import (
	"fmt"
	"strings"

	"github.com/advdv/apigw/gwsynth"
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Gateway provides access to the deployed REST API.
type Gateway interface {
	// RestApi returns the REST API.
	RestApi() awsapigateway.RestApi
	// ApiKey returns the API key, or nil when no method requires one.
	ApiKey() awsapigateway.IApiKey
	// UsagePlan returns the usage plan, or nil when no method requires a key.
	UsagePlan() awsapigateway.UsagePlan
	// Model returns the API Gateway model of a validation model by name.
	Model(name string) awsapigateway.Model
	// Method returns the deployed method for a path template and HTTP method.
	Method(path, method string) awsapigateway.Method
}

// Props configures the Gateway construct.
type Props struct {
	// Tree is the synthesized resource tree. Required.
	Tree *gwsynth.Tree `validate:"required"`
	// Config is the synthesis configuration the tree was built with.
	Config gwsynth.Config
	// Backends maps integration names to their Lambda functions. Every
	// integration referenced by the tree must be present.
	Backends map[string]awslambda.IFunction `validate:"required,min=1"`
	// RestApiName names the REST API. Required.
	RestApiName string `validate:"required"`
	// Description of the REST API.
	Description string
	// StageName of the deployment stage. Defaults to "v1".
	StageName string
	// Domain optionally serves the API under a custom domain.
	Domain *DomainProps
}

type gateway struct {
	tree      *gwsynth.Tree
	api       awsapigateway.RestApi
	key       awsapigateway.IApiKey
	plan      awsapigateway.UsagePlan
	models    map[string]awsapigateway.Model
	methods   map[string]awsapigateway.Method
	resources map[string]awsapigateway.IResource
}

// New creates the Gateway construct.
func New(scope constructs.Construct, props Props) (Gateway, error) {
	if err := validateProps(props); err != nil {
		return nil, err
	}

	scope = constructs.NewConstruct(scope, jsii.String("Gateway"))
	con := &gateway{
		tree:      props.Tree,
		models:    map[string]awsapigateway.Model{},
		methods:   map[string]awsapigateway.Method{},
		resources: map[string]awsapigateway.IResource{},
	}

	stageName := props.StageName
	if stageName == "" {
		stageName = "v1"
	}

	con.api = awsapigateway.NewRestApi(scope, jsii.String("RestApi"), &awsapigateway.RestApiProps{
		RestApiName: jsii.String(props.RestApiName),
		Description: jsii.String(props.Description),
		DeployOptions: &awsapigateway.StageOptions{
			StageName:            jsii.String(stageName),
			ThrottlingRateLimit:  jsii.Number(props.Config.Throttle.RateLimit),
			ThrottlingBurstLimit: jsii.Number(float64(props.Config.Throttle.BurstLimit)),
			LoggingLevel:         awsapigateway.MethodLoggingLevel_INFO,
			DataTraceEnabled:     jsii.Bool(false),
			MetricsEnabled:       jsii.Bool(true),
		},
		DefaultCorsPreflightOptions: &awsapigateway.CorsOptions{
			AllowOrigins: awsapigateway.Cors_ALL_ORIGINS(),
			AllowMethods: awsapigateway.Cors_ALL_METHODS(),
			AllowHeaders: jsii.Strings("Content-Type", "X-Api-Key", "Authorization"),
		},
		ApiKeySourceType: awsapigateway.ApiKeySourceType_HEADER,
		CloudWatchRole:   jsii.Bool(true),
	})

	for _, vm := range props.Tree.ModelsByName() {
		con.models[vm.Name] = con.api.AddModel(jsii.String(vm.Name), &awsapigateway.ModelOptions{
			ModelName:   jsii.String(vm.Name),
			ContentType: jsii.String("application/json"),
			Description: jsii.String("Request model of " + strings.Join(vm.Sources, ", ")),
			Schema:      JSONSchema(vm),
		})
	}

	requestValidator := con.api.AddRequestValidator(jsii.String("RequestValidator"),
		&awsapigateway.RequestValidatorOptions{
			ValidateRequestBody:       jsii.Bool(true),
			ValidateRequestParameters: jsii.Bool(true),
		})

	integrations := map[string]awsapigateway.LambdaIntegration{}
	var keyed []keyedMethod

	err := props.Tree.Walk(func(r *gwsynth.Resource) error {
		res := con.resource(r)

		for _, m := range r.Methods {
			integration, ok := integrations[m.Integration]
			if !ok {
				fn, ok := props.Backends[m.Integration]
				if !ok {
					return errors.Newf("%s %s: no backend for integration %q", m.HTTPMethod, r.Path, m.Integration)
				}
				integration = awsapigateway.NewLambdaIntegration(fn, &awsapigateway.LambdaIntegrationOptions{
					Proxy:           jsii.Bool(true),
					AllowTestInvoke: jsii.Bool(false),
				})
				integrations[m.Integration] = integration
			}

			opts := &awsapigateway.MethodOptions{
				ApiKeyRequired: jsii.Bool(m.APIKeyRequired),
				OperationName:  jsii.String(m.RouteName),
			}
			if m.ValidationModel != nil {
				opts.RequestModels = &map[string]awsapigateway.IModel{
					"application/json": con.models[m.ValidationModel.Name],
				}
			}
			if len(m.Parameters) > 0 {
				params := map[string]*bool{}
				for _, k := range m.ParameterKeys() {
					params[k] = jsii.Bool(m.Parameters[k])
				}
				opts.RequestParameters = &params
			}
			if opts.RequestModels != nil || opts.RequestParameters != nil {
				opts.RequestValidator = requestValidator
			}

			method := res.AddMethod(jsii.String(string(m.HTTPMethod)), integration, opts)
			con.methods[methodKey(r.Path, string(m.HTTPMethod))] = method
			if m.Policy != nil {
				keyed = append(keyed, keyedMethod{method: method, policy: m.Policy})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(keyed) > 0 {
		con.usagePlan(scope, props, keyed)
	}

	awscdk.NewCfnOutput(scope, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{
		Value:       con.api.Url(),
		Description: jsii.String("Base URL of the deployment stage"),
		Key:         jsii.String("ApiUrl"),
	})

	if props.Domain != nil {
		newDomain(scope, con.api, *props.Domain)
	}

	return con, nil
}

func validateProps(props Props) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(props); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed validation %q", e.Field(), e.Tag()))
			}
			return errors.Newf("invalid gateway props:\n  - %s", strings.Join(msgs, "\n  - "))
		}
		return errors.Wrap(err, "invalid gateway props")
	}
	return props.Config.Validate()
}

// resource returns the API Gateway resource of r, creating it under its
// parent. Walk visits parents first.
func (g *gateway) resource(r *gwsynth.Resource) awsapigateway.IResource {
	if r.PathPart == "" {
		g.resources[r.Path] = g.api.Root()
		return g.api.Root()
	}

	parentPath := r.Path[:strings.LastIndexByte(r.Path, '/')]
	if parentPath == "" {
		parentPath = "/"
	}

	res := g.resources[parentPath].AddResource(jsii.String(r.PathPart), nil)
	g.resources[r.Path] = res
	return res
}

type keyedMethod struct {
	method awsapigateway.Method
	policy *gwsynth.Policy
}

func (g *gateway) usagePlan(scope constructs.Construct, props Props, keyed []keyedMethod) {
	g.key = g.api.AddApiKey(jsii.String("ApiKey"), &awsapigateway.ApiKeyOptions{
		Description: jsii.String("API key of " + props.RestApiName),
	})

	planProps := &awsapigateway.UsagePlanProps{
		Name: jsii.String(props.RestApiName + "-plan"),
		Throttle: &awsapigateway.ThrottleSettings{
			RateLimit:  jsii.Number(props.Config.Throttle.RateLimit),
			BurstLimit: jsii.Number(float64(props.Config.Throttle.BurstLimit)),
		},
	}
	if props.Config.Quota.Limit > 0 {
		planProps.Quota = &awsapigateway.QuotaSettings{
			Limit:  jsii.Number(float64(props.Config.Quota.Limit)),
			Period: quotaPeriod(props.Config.Quota.Period),
		}
	}
	g.plan = g.api.AddUsagePlan(jsii.String("UsagePlan"), planProps)
	g.plan.AddApiKey(g.key, nil)

	perMethod := make([]*awsapigateway.ThrottlingPerMethod, 0, len(keyed))
	for _, k := range keyed {
		perMethod = append(perMethod, &awsapigateway.ThrottlingPerMethod{
			Method: k.method,
			Throttle: &awsapigateway.ThrottleSettings{
				RateLimit:  jsii.Number(k.policy.Throttle.RateLimit),
				BurstLimit: jsii.Number(float64(k.policy.Throttle.BurstLimit)),
			},
		})
	}
	g.plan.AddApiStage(&awsapigateway.UsagePlanPerApiStage{
		Api:      g.api,
		Stage:    g.api.DeploymentStage(),
		Throttle: &perMethod,
	})

	awscdk.NewCfnOutput(scope, jsii.String("ApiKeyId"), &awscdk.CfnOutputProps{
		Value:       g.key.KeyId(),
		Description: jsii.String("Identifier of the API key"),
		Key:         jsii.String("ApiKeyId"),
	})
}

func quotaPeriod(p gwsynth.Period) awsapigateway.Period {
	switch p {
	case gwsynth.Week:
		return awsapigateway.Period_WEEK
	case gwsynth.Month:
		return awsapigateway.Period_MONTH
	default:
		return awsapigateway.Period_DAY
	}
}

func methodKey(path, method string) string {
	return method + " " + path
}

func (g *gateway) RestApi() awsapigateway.RestApi     { return g.api }
func (g *gateway) ApiKey() awsapigateway.IApiKey      { return g.key }
func (g *gateway) UsagePlan() awsapigateway.UsagePlan { return g.plan }

func (g *gateway) Model(name string) awsapigateway.Model {
	return g.models[name]
}

func (g *gateway) Method(path, method string) awsapigateway.Method {
	r, ok := g.tree.Lookup(path)
	if !ok {
		return nil
	}
	return g.methods[methodKey(r.Path, method)]
}
