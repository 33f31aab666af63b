package config

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/ajitpratap0/afs-connector/pkg/afserrors"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration file on top of Default and validates it.
func LoadFile(filePath string) (*File, error) {
	cfg := Default()
	if err := Load(filePath, cfg); err != nil {
		return nil, err
	}
	cfg.Connector.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads a configuration from a YAML file into config.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return afserrors.Wrap(err, afserrors.ErrorTypeConfig, "failed to read config file").
			WithDetail("path", filePath)
	}
	return Parse(data, config)
}

// Parse substitutes environment variables in data and decodes it into
// config. Unknown keys are rejected.
func Parse(data []byte, config interface{}) error {
	content := substituteEnvVars(string(data))

	dec := yaml.NewDecoder(strings.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return afserrors.Wrap(err, afserrors.ErrorTypeConfig, "failed to parse YAML")
	}
	return nil
}

// Save writes config to a YAML file.
func Save(filePath string, config interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return afserrors.Wrap(err, afserrors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0o600); err != nil {
		return afserrors.Wrap(err, afserrors.ErrorTypeConfig, "failed to write config file").
			WithDetail("path", filePath)
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Unset variables become empty strings; an unterminated reference is kept.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
