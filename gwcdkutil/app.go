package gwcdkutil

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
)

// StackConstructor creates the deployment's infrastructure in the given stack.
type StackConstructor func(stack awscdk.Stack, cfg *Config) error

// SetupApp reads the prefixed context of app, stores the validated Config in
// the construct tree and creates the deployment stack with newStack.
func SetupApp(app awscdk.App, prefix string, newStack StackConstructor) (awscdk.Stack, error) {
	cfg, err := NewConfig(app, prefix)
	if err != nil {
		return nil, err
	}
	StoreConfig(app, cfg)

	stack := NewStackFromConfig(app, cfg)
	if err := newStack(stack, cfg); err != nil {
		return nil, err
	}
	return stack, nil
}
