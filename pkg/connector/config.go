package connector

import (
	"strings"
	"time"

	"github.com/ajitpratap0/afs-connector/pkg/afserrors"
)

// ServiceStatus is the publication status of an AFS service.
type ServiceStatus string

const (
	StatusStable  ServiceStatus = "stable"
	StatusRC      ServiceStatus = "rc"
	StatusAlpha   ServiceStatus = "alpha"
	StatusBeta    ServiceStatus = "beta"
	StatusSandbox ServiceStatus = "sandbox"
)

// IsValid reports whether s is a known status.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case StatusStable, StatusRC, StatusAlpha, StatusBeta, StatusSandbox:
		return true
	}
	return false
}

// Service identifies the AFS service queried by a connector.
type Service struct {
	// ID is the service identifier, sent as afs:service
	ID string `yaml:"id" json:"id"`
	// Status is the service status, sent as afs:status
	Status ServiceStatus `yaml:"status" json:"status"`
}

// Config is the base configuration of a connector. It is copied when the
// connector is built and never changes afterwards.
type Config struct {
	Service Service `yaml:"service" json:"service"`
	// Host is the AFS host, optionally with a port (e.g. "afs.example.com:8080")
	Host string `yaml:"host" json:"host"`
	// Scheme is "http" or "https"
	Scheme string `yaml:"scheme" json:"scheme"`

	HTTP HTTPConfig `yaml:"http" json:"http"`
}

// HTTPConfig tunes the transport used by connectors.
type HTTPConfig struct {
	// RequestTimeout bounds a whole request (0 = transport default, no limit)
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	// DialTimeout bounds connection establishment
	DialTimeout time.Duration `yaml:"dial_timeout" json:"dial_timeout"`
	// KeepAlive allows connections to be reused between requests
	KeepAlive bool `yaml:"keep_alive" json:"keep_alive"`
	// EnableHTTP2 negotiates HTTP/2 over TLS
	EnableHTTP2 bool `yaml:"enable_http2" json:"enable_http2"`
	// EnableGzip asks for gzip-compressed replies
	EnableGzip bool `yaml:"enable_gzip" json:"enable_gzip"`
}

// NewConfig returns a configuration for the given host and service id with
// the stable status, the http scheme and default transport settings.
//
// Example:
//
//	cfg := connector.NewConfig("afs.example.com", "42")
//	cfg.Scheme = "https"
func NewConfig(host, serviceID string) Config {
	return Config{
		Service: Service{ID: serviceID, Status: StatusStable},
		Host:    host,
		Scheme:  "http",
		HTTP:    DefaultHTTPConfig(),
	}
}

// DefaultHTTPConfig returns the default transport settings.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		DialTimeout: 30 * time.Second,
		EnableGzip:  true,
	}
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.Scheme == "" {
		c.Scheme = "http"
	}
	if c.Service.Status == "" {
		c.Service.Status = StatusStable
	}
	if c.HTTP.DialTimeout == 0 {
		c.HTTP.DialTimeout = DefaultHTTPConfig().DialTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Service.ID) == "" {
		return afserrors.New(afserrors.ErrorTypeConfig, "service id is required").
			WithDetail("field", "service.id")
	}
	// Statuses outside the known set are accepted: AFS deployments may define
	// their own.
	if strings.TrimSpace(string(c.Service.Status)) == "" {
		return afserrors.New(afserrors.ErrorTypeConfig, "service status is required").
			WithDetail("field", "service.status")
	}
	if strings.TrimSpace(c.Host) == "" {
		return afserrors.New(afserrors.ErrorTypeConfig, "host is required").
			WithDetail("field", "host")
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return afserrors.Newf(afserrors.ErrorTypeConfig, "unsupported scheme %q", c.Scheme).
			WithDetail("field", "scheme")
	}
	if c.HTTP.RequestTimeout < 0 || c.HTTP.DialTimeout < 0 {
		return afserrors.New(afserrors.ErrorTypeConfig, "timeouts must not be negative").
			WithDetail("field", "http")
	}
	return nil
}
