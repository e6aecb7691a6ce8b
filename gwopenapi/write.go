package gwopenapi

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-yaml"
)

// Encode renders doc as JSON, or as YAML when the extension of path is .yaml or .yml.
func Encode(path string, doc *openapi3.T) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal openapi document")
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			return nil, errors.Wrap(err, "convert openapi document to yaml")
		}
	default:
		data = append(data, '\n')
	}
	return data, nil
}

// Write replaces the file at path with the encoded document. Any previous
// content is discarded.
func Write(path string, doc *openapi3.T) error {
	data, err := Encode(path, doc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // documentation artifact
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
