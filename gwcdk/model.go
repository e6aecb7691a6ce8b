package gwcdk

import (
	"github.com/advdv/apigw/gwschema"
	"github.com/advdv/apigw/gwsynth"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/jsii-runtime-go"
)

// JSONSchema converts a validation model into the draft-04 schema of an API
// Gateway model.
func JSONSchema(vm *gwsynth.ValidationModel) *awsapigateway.JsonSchema {
	s := jsonSchema(vm.Schema)
	s.Schema = awsapigateway.JsonSchemaVersion_DRAFT4
	s.Title = jsii.String(vm.Name)
	return s
}

func jsonSchema(n *gwschema.Node) *awsapigateway.JsonSchema {
	s := &awsapigateway.JsonSchema{Type: schemaType(n.Kind)}
	if n.Description != "" {
		s.Description = jsii.String(n.Description)
	}
	if n.Format != "" {
		s.Format = jsii.String(n.Format)
	}
	if len(n.Enum) > 0 {
		enum := make([]any, 0, len(n.Enum))
		for _, v := range n.Enum {
			enum = append(enum, v)
		}
		s.Enum = &enum
	}

	switch n.Kind {
	case gwschema.Object:
		props := map[string]*awsapigateway.JsonSchema{}
		for _, p := range n.Properties {
			props[p.Name] = jsonSchema(p.Node)
		}
		s.Properties = &props
		if req := n.Required(); len(req) > 0 {
			s.Required = jsii.Strings(req...)
		}
	case gwschema.Array:
		if n.Items != nil {
			s.Items = jsonSchema(n.Items)
		}
	}
	return s
}

func schemaType(k gwschema.Kind) awsapigateway.JsonSchemaType {
	switch k {
	case gwschema.String:
		return awsapigateway.JsonSchemaType_STRING
	case gwschema.Number:
		return awsapigateway.JsonSchemaType_NUMBER
	case gwschema.Boolean:
		return awsapigateway.JsonSchemaType_BOOLEAN
	case gwschema.Null:
		return awsapigateway.JsonSchemaType_NULL
	case gwschema.Array:
		return awsapigateway.JsonSchemaType_ARRAY
	default:
		return awsapigateway.JsonSchemaType_OBJECT
	}
}
