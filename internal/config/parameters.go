// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService serves the routes from a long-running HTTP server.
	ModeService = "service"
	// ModeLambda serves the routes from AWS Lambda.
	ModeLambda = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type service struct {
	// Addr is empty to listen on all interfaces.
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"18093"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return stderrors.Join(
		defaults.Set(&Global),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return errors.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return errors.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return errors.Wrapf(err, "failed to read configuration file %s", path)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return errors.Wrapf(err, "failed to unmarshal configuration file %s", path)
	}
	Global = a.Global
	Service = a.Service
	Lambda = a.Lambda

	return nil
}

// Reset clears every section back to its zero value.
func Reset() {
	Global = global{}
	Service = service{}
	Lambda = lambda{}
}
