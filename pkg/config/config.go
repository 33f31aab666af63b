package config

import (
	"github.com/ajitpratap0/afs-connector/pkg/afserrors"
	"github.com/ajitpratap0/afs-connector/pkg/connector"
	"github.com/ajitpratap0/afs-connector/pkg/logger"
	"github.com/ajitpratap0/afs-connector/pkg/observability"
)

// File is the content of a configuration file.
type File struct {
	// Connector is the AFS endpoint and transport configuration
	Connector connector.Config `yaml:"connector" json:"connector"`
	// Logging configures the global logger
	Logging logger.Config `yaml:"logging" json:"logging"`
	// Tracing configures OpenTelemetry tracing
	Tracing observability.TracingConfig `yaml:"tracing" json:"tracing"`
}

// Default returns a configuration with every default applied. The connector
// host and service id are left empty.
func Default() *File {
	return &File{
		Connector: connector.Config{
			Scheme:  "http",
			Service: connector.Service{Status: connector.StatusStable},
			HTTP:    connector.DefaultHTTPConfig(),
		},
		Logging: logger.Config{
			Level:    "info",
			Encoding: "json",
		},
		Tracing: observability.DefaultTracingConfig(),
	}
}

// Validate checks every section.
func (f *File) Validate() error {
	if err := f.Connector.Validate(); err != nil {
		return err
	}
	if err := f.Tracing.Validate(); err != nil {
		return afserrors.Wrap(err, afserrors.ErrorTypeConfig, "invalid tracing configuration").
			WithDetail("field", "tracing")
	}
	return nil
}
