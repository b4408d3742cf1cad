package client

import (
	"encoding/json"

	"github.com/kbukum/restkit/validation"
)

// Encoder serializes a declared structured body into bytes.
type Encoder interface {
	// ContentType is the media type the encoder produces.
	ContentType() string
	// Encode serializes a value.
	Encode(v any) ([]byte, error)
}

// JSONEncoder is the default body encoder.
type JSONEncoder struct{}

// ContentType returns the JSON media type.
func (JSONEncoder) ContentType() string { return "application/json" }

// Encode serializes a value as JSON.
func (JSONEncoder) Encode(v any) ([]byte, error) { return json.Marshal(v) }

// Config is the immutable per-server configuration shared read-only across
// all requests. Loading it from files or flags is the host application's
// job; the yaml/mapstructure tags let it embed in a host config struct.
type Config struct {
	// BaseURL is the absolute base URL every request path merges onto.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Credential is the static credential used by bearer and url auth
	// modes. Empty means unauthenticated.
	Credential string `yaml:"credential" mapstructure:"credential"`

	// Headers are default headers applied to every request before the
	// caller's own headers.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// NewEncoder produces the body encoder for structured bodies.
	// Defaults to JSONEncoder.
	NewEncoder func() Encoder `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.NewEncoder == nil {
		c.NewEncoder = func() Encoder { return JSONEncoder{} }
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return newConfigurationError(err)
	}
	return nil
}

func (c *Config) encoder() Encoder {
	if c.NewEncoder == nil {
		return JSONEncoder{}
	}
	return c.NewEncoder()
}
