package initwizard

import (
	"path"
	"strings"
	"unicode"

	"github.com/advdv/apigw/gwcdkutil"
	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
)

// FormBuilder builds the form that fills result, starting from defaults.
type FormBuilder interface {
	Build(defaults Result, result *Result) *huh.Form
}

type formBuilder struct{}

func NewFormBuilder() FormBuilder {
	return &formBuilder{}
}

func (b *formBuilder) Build(defaults Result, result *Result) *huh.Form {
	*result = defaults
	return huh.NewForm(
		huh.NewGroup(
			b.projectNameInput(&result.ProjectName),
			b.entryInput(&result.Entry),
			b.regionSelect(&result.Region),
			b.deploymentInput(&result.Deployment),
			b.profileInput(&result.Profile),
			b.apiKeyConfirm(&result.APIKeyRequired),
		),
	)
}

func (b *formBuilder) projectNameInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Project name").
		Description("Names the REST API and prefixes the CDK context keys (max 10 characters)").
		Value(value).
		Validate(ValidateProjectName)
}

func (b *formBuilder) entryInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Handler package").
		Description("Directory of the main package serving the routes, relative to the project").
		Value(value).
		Validate(ValidateEntry)
}

func (b *formBuilder) regionSelect(value *string) *huh.Select[string] {
	return huh.NewSelect[string]().
		Title("AWS region").
		Description("Region the gateway is deployed to").
		Options(huh.NewOptions(gwcdkutil.KnownRegions()...)...).
		Value(value)
}

func (b *formBuilder) deploymentInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Deployment").
		Description("Suffix of the stack name, e.g. Dev or Prod").
		Value(value).
		Validate(ValidateDeployment)
}

func (b *formBuilder) profileInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("AWS profile").
		Description("Profile used by deploy (optional)").
		Value(value)
}

func (b *formBuilder) apiKeyConfirm(value *bool) *huh.Confirm {
	return huh.NewConfirm().
		Title("Require an API key by default?").
		Value(value)
}

// ValidateProjectName checks that a name can serve as CDK qualifier.
func ValidateProjectName(s string) error {
	if s == "" {
		return errors.New("project name is required")
	}
	if len(s) > 10 {
		return errors.New("project name must be 10 characters or less")
	}
	for _, c := range s {
		if !IsValidNameChar(c) {
			return errors.Newf("invalid character %q: use lowercase letters and numbers only", c)
		}
	}
	if s[0] < 'a' || s[0] > 'z' {
		return errors.New("project name must start with a lowercase letter")
	}
	return nil
}

func IsValidNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// ValidateEntry checks that the handler package lies inside the project, which
// is also the Go module the handler is bundled from.
func ValidateEntry(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("handler package is required")
	}
	clean := path.Clean(strings.ReplaceAll(s, `\`, "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Newf("handler package %q must be inside the project", s)
	}
	return nil
}

// ValidateDeployment checks that a deployment starts with an upper-case letter.
func ValidateDeployment(s string) error {
	if s == "" {
		return errors.New("deployment is required")
	}
	if !unicode.IsUpper([]rune(s)[0]) {
		return errors.Newf("deployment %q must start with an upper-case letter", s)
	}
	return nil
}
