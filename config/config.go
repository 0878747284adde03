// Package config loads and validates client configuration. Environment
// lookup happens once at load time; the resulting struct is passed down so
// no hidden global state is consulted during dispatch.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-algolia/transport"
)

// envPrefix selects the environment variables consumed by Load
const envPrefix = "ALGOLIA_"

// defaultConfigFile is the optional YAML file consulted between defaults
// and environment variables
const defaultConfigFile = "algolia.yaml"

// Config holds the full client configuration
type Config struct {
	AppID  string `koanf:"app_id" validate:"required"`
	APIKey string `koanf:"api_key" validate:"required"`

	// FallbackHosts orders the numbered fallback hosts used once the
	// primary host for a role has failed
	FallbackHosts []int `koanf:"fallback_hosts" validate:"min=1,dive,gt=0"`

	Retry RetryConfig `koanf:"retry"`

	// Timeout bounds each individual attempt
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	// PollInterval is the delay between task status checks
	PollInterval time.Duration `koanf:"poll_interval" validate:"gt=0"`

	Log LogConfig `koanf:"log"`

	// LogPayloads enables debug-level logging of request/response bodies
	LogPayloads bool `koanf:"log_payloads"`
	// MaxPayloadLogBytes caps the number of body bytes logged
	MaxPayloadLogBytes int `koanf:"max_payload_log_bytes" validate:"gte=0"`
}

// RetryConfig carries the per-role extra-attempt budgets
type RetryConfig struct {
	Read     int `koanf:"read" validate:"gt=0"`
	Write    int `koanf:"write" validate:"gt=0"`
	Insights int `koanf:"insights" validate:"gt=0"`
}

// LogConfig controls the client's structured logging output
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// Load builds the configuration from three layers, lowest priority first:
// built-in defaults, the optional algolia.yaml file, and ALGOLIA_-prefixed
// environment variables. A local .env file is honored when present.
func Load() (*Config, error) {
	// The .env file is optional for local development
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// The YAML file is optional; only surface real parse failures
	if err := k.Load(file.Provider(defaultConfigFile), yaml.Parser()); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("loading %s: %w", defaultConfigFile, err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// ALGOLIA_APP_ID -> app_id; nested keys use a double
			// underscore: ALGOLIA_RETRY__WRITE -> retry.write
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "__", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// defaults returns the lowest-priority configuration layer
func defaults() map[string]any {
	return map[string]any{
		"fallback_hosts":        []int{1, 2, 3},
		"retry.read":            transport.DefaultReadRetries,
		"retry.write":           transport.DefaultWriteRetries,
		"retry.insights":        transport.DefaultInsightsRetries,
		"timeout":               transport.DefaultTimeout.String(),
		"poll_interval":         transport.DefaultPollInterval.String(),
		"log.level":             "info",
		"log.pretty":            false,
		"log_payloads":          false,
		"max_payload_log_bytes": 1024,
	}
}

// isNotExist reports whether a koanf file provider error means the file is
// simply absent
func isNotExist(err error) bool {
	return strings.Contains(err.Error(), "no such file")
}

// Transport maps the configuration into the dispatch pipeline's own config
func (c *Config) Transport() *transport.Config {
	return &transport.Config{
		AppID:              c.AppID,
		APIKey:             c.APIKey,
		FallbackHosts:      c.FallbackHosts,
		ReadRetries:        c.Retry.Read,
		WriteRetries:       c.Retry.Write,
		InsightsRetries:    c.Retry.Insights,
		Timeout:            c.Timeout,
		LogPayloads:        c.LogPayloads,
		MaxPayloadLogBytes: c.MaxPayloadLogBytes,
	}
}
