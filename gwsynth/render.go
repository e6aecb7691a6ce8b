package gwsynth

import (
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"
)

// Render encodes the tree as a YAML document. Output is byte-stable for equal
// trees.
func Render(t *Tree) ([]byte, error) {
	var resources []yaml.MapSlice
	_ = t.Walk(func(r *Resource) error {
		entry := yaml.MapSlice{{Key: "path", Value: r.Path}}
		if len(r.Methods) > 0 {
			methods := yaml.MapSlice{}
			for _, m := range r.Methods {
				methods = append(methods, yaml.MapItem{Key: string(m.HTTPMethod), Value: renderMethod(m)})
			}
			entry = append(entry, yaml.MapItem{Key: "methods", Value: methods})
		}
		resources = append(resources, entry)
		return nil
	})

	models := yaml.MapSlice{}
	for _, vm := range t.ModelsByName() {
		models = append(models, yaml.MapItem{Key: vm.Name, Value: yaml.MapSlice{
			{Key: "hash", Value: vm.Hash},
			{Key: "sources", Value: vm.Sources},
			{Key: "schema", Value: vm.Schema.JSONSchema()},
		}})
	}

	out, err := yaml.Marshal(yaml.MapSlice{
		{Key: "resources", Value: resources},
		{Key: "models", Value: models},
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal resource tree")
	}
	return out, nil
}

func renderMethod(m *Method) yaml.MapSlice {
	out := yaml.MapSlice{
		{Key: "integration", Value: m.Integration},
		{Key: "api_key_required", Value: m.APIKeyRequired},
	}
	if m.RouteName != "" {
		out = append(out, yaml.MapItem{Key: "route", Value: m.RouteName})
	}
	if m.ValidationModel != nil {
		out = append(out, yaml.MapItem{Key: "model", Value: m.ValidationModel.Name})
	}
	if len(m.Parameters) > 0 {
		params := yaml.MapSlice{}
		for _, k := range m.ParameterKeys() {
			params = append(params, yaml.MapItem{Key: k, Value: m.Parameters[k]})
		}
		out = append(out, yaml.MapItem{Key: "parameters", Value: params})
	}
	if m.Policy != nil {
		out = append(out, yaml.MapItem{Key: "policy", Value: yaml.MapSlice{
			{Key: "rate_limit", Value: m.Policy.Throttle.RateLimit},
			{Key: "burst_limit", Value: m.Policy.Throttle.BurstLimit},
			{Key: "quota_limit", Value: m.Policy.Quota.Limit},
			{Key: "quota_period", Value: string(m.Policy.Quota.Period)},
		}})
	}
	return out
}
