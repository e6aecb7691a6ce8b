package gwcmd

import (
	"encoding/json"
	"maps"
	"os"

	"github.com/advdv/apigw/gwcdkutil"
	"github.com/advdv/apigw/gwcmd/internal/config"
	"github.com/cockroachdb/errors"
)

// stackTarget is the deployed stack a cdk or aws invocation operates on.
type stackTarget struct {
	Prefix     string
	Qualifier  string
	Deployment string
	Region     string
	StackName  string
}

// resolveStack reads the CDK context of the project and determines the stack of
// the given deployment. An empty deployment falls back to the context default.
func resolveStack(cfg config.Config, deployment string) (stackTarget, error) {
	cdkContext, err := readCDKContext(cfg.CDKJSONPath(), cfg.CDKContextPath())
	if err != nil {
		return stackTarget{}, err
	}

	prefix := cfg.Inner.Prefix
	qualifier, ok := cdkContext[prefix+gwcdkutil.QualifierKey].(string)
	if !ok || qualifier == "" {
		return stackTarget{}, errors.Errorf("qualifier not found at context key %q", prefix+gwcdkutil.QualifierKey)
	}

	if deployment == "" {
		deployment, _ = cdkContext[prefix+gwcdkutil.DeploymentKey].(string)
	}
	if deployment == "" {
		return stackTarget{}, errors.Errorf("no deployment given and context key %q is not set", prefix+gwcdkutil.DeploymentKey)
	}

	region, _ := cdkContext[prefix+gwcdkutil.RegionKey].(string)

	return stackTarget{
		Prefix:     prefix,
		Qualifier:  qualifier,
		Deployment: deployment,
		Region:     region,
		StackName:  gwcdkutil.StackName(qualifier, deployment),
	}, nil
}

func (t stackTarget) contextArgs() []string {
	return []string{"--context", t.Prefix + gwcdkutil.DeploymentKey + "=" + t.Deployment}
}

func (t stackTarget) awsArgs() []string {
	if t.Region == "" {
		return nil
	}
	return []string{"--region", t.Region}
}

// readCDKContext merges the context of cdk.json with cdk.context.json, which
// may not exist yet.
func readCDKContext(cdkJSONPath, cdkContextPath string) (map[string]any, error) {
	data, err := os.ReadFile(cdkJSONPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cdk.json")
	}

	var cdkJSON struct {
		Context map[string]any `json:"context"`
	}
	if err := json.Unmarshal(data, &cdkJSON); err != nil {
		return nil, errors.Wrap(err, "failed to parse cdk.json")
	}

	result := map[string]any{}
	maps.Copy(result, cdkJSON.Context)

	data, err = os.ReadFile(cdkContextPath)
	if errors.Is(err, os.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cdk.context.json")
	}

	var cdkContext map[string]any
	if err := json.Unmarshal(data, &cdkContext); err != nil {
		return nil, errors.Wrap(err, "failed to parse cdk.context.json")
	}
	maps.Copy(result, cdkContext)

	return result, nil
}
