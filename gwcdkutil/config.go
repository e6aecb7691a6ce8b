package gwcdkutil

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Context keys, relative to the configured prefix.
const (
	QualifierKey  = "qualifier"
	RegionKey     = "region"
	DeploymentKey = "deployment"
)

// Config holds the CDK context values of a gateway deployment, validated upfront.
type Config struct {
	Prefix     string
	Qualifier  string `validate:"required,max=10"`
	Region     string `validate:"required"`
	Deployment string `validate:"required"`
}

// RegionPtr returns the region as a jsii string pointer.
func (c *Config) RegionPtr() *string {
	return jsii.String(c.Region)
}

// configContextKey is the key used to store the validated Config in the construct tree.
const configContextKey = "__gwcdkutil_config"

// StoreConfig stores a validated Config in the app's context so it can be retrieved
// anywhere in the construct tree via ConfigFromScope.
func StoreConfig(app awscdk.App, cfg *Config) {
	app.Node().SetContext(jsii.String(configContextKey), cfg)
}

// ConfigFromScope retrieves the validated Config from the construct tree.
// It panics if Config was not stored.
func ConfigFromScope(scope constructs.Construct) *Config {
	val := scope.Node().TryGetContext(jsii.String(configContextKey))
	if val == nil {
		panic("gwcdkutil.Config not found in construct tree - was SetupApp or StoreConfig called?")
	}
	cfg, ok := val.(*Config)
	if !ok {
		panic(fmt.Sprintf("gwcdkutil.Config has unexpected type %T", val))
	}
	return cfg
}

// NewConfig reads and validates the prefixed CDK context values.
func NewConfig(scope constructs.Construct, prefix string) (*Config, error) {
	var readErrs []string

	c := &Config{Prefix: prefix}
	c.Qualifier, readErrs = readContextString(scope, prefix+QualifierKey, readErrs)
	c.Region, readErrs = readContextString(scope, prefix+RegionKey, readErrs)
	c.Deployment, readErrs = readContextString(scope, prefix+DeploymentKey, readErrs)

	if len(readErrs) > 0 {
		return nil, errors.Newf("CDK context read errors:\n  - %s", strings.Join(readErrs, "\n  - "))
	}

	if err := validateConfig(c); err != nil {
		return nil, err
	}
	return c, nil
}

func validateConfig(c *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(validateDeploymentIdent, Config{})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		msgs := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			msgs = append(msgs, formatValidationError(e))
		}
		return errors.Newf("CDK context validation errors:\n  - %s", strings.Join(msgs, "\n  - "))
	}
	return errors.Wrap(err, "CDK context validation failed")
}

// validateDeploymentIdent ensures the deployment starts with an upper-case
// letter, so it reads as a suffix of the stack name.
func validateDeploymentIdent(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config) //nolint:forcetypeassert // registered for Config
	if cfg.Deployment == "" {
		return
	}
	if first := []rune(cfg.Deployment)[0]; !unicode.IsUpper(first) {
		sl.ReportError(cfg.Deployment, "Deployment", "Deployment", "upper_first", "")
	}
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s exceeds maximum length of %s (got %q)", e.Field(), e.Param(), e.Value())
	case "upper_first":
		return fmt.Sprintf("%s must start with an upper-case letter (got %q)", e.Field(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation %q", e.Field(), e.Tag())
	}
}

func readContextString(scope constructs.Construct, key string, errs []string) (string, []string) {
	val := scope.Node().TryGetContext(jsii.String(key))
	if val == nil {
		return "", append(errs, fmt.Sprintf("context key %q is not set", key))
	}
	s, ok := val.(string)
	if !ok {
		return "", append(errs, fmt.Sprintf("context key %q must be a string, got %T", key, val))
	}
	return s, errs
}
