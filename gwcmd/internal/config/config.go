// Package config loads the project file that tells the command line where a
// gateway's handler lives and how it is synthesized and deployed.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/advdv/apigw/gwsynth"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

const FileName = ".apigw.yml"

// InnerConfig is the content of the project file.
type InnerConfig struct {
	Version string `yaml:"version" validate:"required,oneof=1"`
	// Name of the REST API.
	Name string `yaml:"name" validate:"required"`
	// Description of the REST API.
	Description string `yaml:"description,omitempty"`
	// Prefix of the CDK context keys, e.g. "myapp-".
	Prefix string `yaml:"prefix" validate:"required"`
	// Entry is the handler's main package, relative to the project directory.
	Entry string `yaml:"entry" validate:"required"`
	// OpenAPI is where the openapi command writes its document.
	OpenAPI string `yaml:"openapi,omitempty"`
	// Profile is the AWS profile used by deploy.
	Profile string `yaml:"profile,omitempty"`
	// Domain optionally serves the API under a custom domain.
	Domain *Domain `yaml:"domain,omitempty"`
	// Synth is the resource tree synthesis configuration.
	Synth gwsynth.Config `yaml:"synth"`
}

// Domain names an existing hosted zone and the record to create in it.
type Domain struct {
	Zone   string `yaml:"zone" validate:"required,fqdn"`
	Record string `yaml:"record" validate:"required"`
}

// Default returns the configuration written by init for a project name.
func Default(name string) InnerConfig {
	return InnerConfig{
		Version: "1",
		Name:    name,
		Prefix:  name + "-",
		Entry:   ".",
		OpenAPI: "openapi.json",
		Synth:   gwsynth.DefaultConfig("backend"),
	}
}

type Loader interface {
	Load(path string) (InnerConfig, error)
}

type Writer interface {
	Write(w io.Writer, cfg InnerConfig) error
}

type Finder interface {
	Find(startDir string) (cfg InnerConfig, projectDir string, err error)
}

type yamlLoader struct {
	validate *validator.Validate
}

func NewLoader() Loader {
	return &yamlLoader{
		validate: validator.New(),
	}
}

func (l *yamlLoader) Load(path string) (InnerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return InnerConfig{}, errors.Wrap(err, "failed to read config file")
	}

	dec := yaml.NewDecoder(
		bytes.NewReader(data),
		yaml.Validator(l.validate),
		yaml.Strict(),
	)

	var cfg InnerConfig
	if err := dec.Decode(&cfg); err != nil {
		return InnerConfig{}, errors.Wrap(err, "failed to parse config file")
	}

	if err := cfg.Synth.Validate(); err != nil {
		return InnerConfig{}, errors.Wrap(err, "invalid synth section")
	}

	return cfg, nil
}

type yamlWriter struct{}

func NewWriter() Writer {
	return &yamlWriter{}
}

func (w *yamlWriter) Write(wr io.Writer, cfg InnerConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if _, err := wr.Write(data); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

type finder struct {
	loader Loader
}

func NewFinder(loader Loader) Finder {
	return &finder{loader: loader}
}

func (f *finder) Find(startDir string) (InnerConfig, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			cfg, err := f.loader.Load(configPath)
			if err != nil {
				return InnerConfig{}, "", err
			}
			return cfg, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return InnerConfig{}, "", errors.Newf(
				"config file %s not found (searched from %s to root)",
				FileName, startDir,
			)
		}
		dir = parent
	}
}

func WriteToFile(dir string, cfg InnerConfig, w Writer) error {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:gosec // config file needs to be readable
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer f.Close()

	return w.Write(f, cfg)
}
