package gwsynth_test

import (
	"strings"
	"testing"

	"github.com/advdv/apigw/gwsynth"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*gwsynth.Config)
		wantErr string
	}{
		{"default", func(*gwsynth.Config) {}, ""},
		{"missing integration", func(c *gwsynth.Config) { c.Integration = "" }, "Integration is required"},
		{"zero rate", func(c *gwsynth.Config) { c.Throttle.RateLimit = 0 }, "RateLimit must be greater than 0"},
		{"negative quota", func(c *gwsynth.Config) { c.Quota.Limit = -1 }, "Limit must be at least 0"},
		{"bad period", func(c *gwsynth.Config) { c.Quota.Period = "YEAR" }, "Period must be one of"},
		{"burst below rate", func(c *gwsynth.Config) { c.Throttle.BurstLimit = 50 }, "must not be below the rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := gwsynth.DefaultConfig("api")
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSynthesize_InvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := gwsynth.Synthesize(nil, gwsynth.Config{}); err == nil {
		t.Error("expected validation error")
	}
}
