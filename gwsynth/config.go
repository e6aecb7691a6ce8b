package gwsynth

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Period is a usage plan quota period.
type Period string

const (
	Day   Period = "DAY"
	Week  Period = "WEEK"
	Month Period = "MONTH"
)

// Throttle limits the steady-state and burst request rate.
type Throttle struct {
	RateLimit  float64 `yaml:"rate_limit" validate:"gt=0"`
	BurstLimit int     `yaml:"burst_limit" validate:"gt=0"`
}

// Quota caps the number of requests per period. A zero limit disables the quota.
type Quota struct {
	Limit  int    `yaml:"limit" validate:"gte=0"`
	Period Period `yaml:"period" validate:"oneof=DAY WEEK MONTH"`
}

// Config is the global synthesis configuration. There is no process-wide
// default; callers pass it explicitly.
type Config struct {
	// Integration names the compute backend every method is wired to.
	Integration    string   `yaml:"integration" validate:"required"`
	APIKeyRequired bool     `yaml:"api_key_required"`
	Throttle       Throttle `yaml:"throttle"`
	Quota          Quota    `yaml:"quota"`
}

// DefaultConfig returns a Config with key-protected methods, 100 rps steady
// state, a burst of 200 and 10000 requests per day.
func DefaultConfig(integration string) Config {
	return Config{
		Integration:    integration,
		APIKeyRequired: true,
		Throttle:       Throttle{RateLimit: 100, BurstLimit: 200},
		Quota:          Quota{Limit: 10000, Period: Day},
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(validateThrottle, Throttle{})

	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				msgs = append(msgs, formatValidationError(e))
			}
			return errors.Newf("synthesis config validation errors:\n  - %s", strings.Join(msgs, "\n  - "))
		}
		return errors.Wrap(err, "synthesis config validation failed")
	}
	return nil
}

// validateThrottle rejects a burst below the steady-state rate.
func validateThrottle(sl validator.StructLevel) {
	th := sl.Current().Interface().(Throttle) //nolint:forcetypeassert // registered for Throttle only
	if th.RateLimit > 0 && th.BurstLimit > 0 && float64(th.BurstLimit) < th.RateLimit {
		sl.ReportError(th.BurstLimit, "BurstLimit", "BurstLimit", "burst_below_rate", fmt.Sprint(th.RateLimit))
	}
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Namespace())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got %v)", e.Namespace(), e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", e.Namespace(), e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", e.Namespace(), e.Param(), e.Value())
	case "burst_below_rate":
		return fmt.Sprintf("%s must not be below the rate limit %s (got %v)", e.Namespace(), e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation %q", e.Namespace(), e.Tag())
	}
}
