package initwizard

import (
	"path"
	"slices"
	"strings"

	"github.com/advdv/apigw/gwcdkutil"
	"github.com/cockroachdb/errors"
)

// Result holds the answers of the init wizard.
type Result struct {
	ProjectName    string
	Entry          string
	Region         string
	Deployment     string
	Profile        string
	APIKeyRequired bool
}

const defaultRegion = "eu-central-1"

func DefaultResult(defaultName string) Result {
	return Result{
		ProjectName:    defaultName,
		Entry:          ".",
		Region:         defaultRegion,
		Deployment:     "Dev",
		APIKeyRequired: true,
	}
}

// withEnv seeds the region and profile from the AWS environment variables the
// CDK and AWS command lines read. Unknown regions are ignored.
func (r Result) withEnv(getenv func(string) string) Result {
	for _, key := range []string{"AWS_REGION", "AWS_DEFAULT_REGION"} {
		if region := getenv(key); slices.Contains(gwcdkutil.KnownRegions(), region) {
			r.Region = region
			break
		}
	}
	if profile := getenv("AWS_PROFILE"); profile != "" {
		r.Profile = profile
	}
	return r
}

// normalize trims the answers and writes the entry as a clean relative path.
func (r Result) normalize() Result {
	r.ProjectName = strings.TrimSpace(r.ProjectName)
	r.Deployment = strings.TrimSpace(r.Deployment)
	r.Profile = strings.TrimSpace(r.Profile)

	entry := path.Clean(strings.ReplaceAll(strings.TrimSpace(r.Entry), `\`, "/"))
	if entry != "." && !strings.HasPrefix(entry, "../") && entry != ".." && !path.IsAbs(entry) {
		entry = "./" + entry
	}
	r.Entry = entry
	return r
}

// Validate reports every invalid answer at once.
func (r Result) Validate() error {
	var errs []string
	if err := ValidateProjectName(r.ProjectName); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateDeployment(r.Deployment); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateEntry(r.Entry); err != nil {
		errs = append(errs, err.Error())
	}
	if !slices.Contains(gwcdkutil.KnownRegions(), r.Region) {
		errs = append(errs, "unknown region "+r.Region)
	}

	if len(errs) > 0 {
		return errors.Newf("invalid answers:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
