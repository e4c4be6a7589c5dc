// Package config loads the authentik server configuration from YAML.
//
// Values can reference environment variables with ${VAR_NAME}, and
// duration fields use time.ParseDuration syntax:
//
//	server:
//	  addr: ":8080"
//	auth:
//	  username: "alice"
//	  password: "${AUTHENTIK_PASSWORD}"
//	  secret: "${AUTHENTIK_SECRET}"
//	  signing:
//	    method: "HS256"
//	    expires_in: "1h"
//	    issuer: "authentik"
//	logging:
//	  level: "info"
//	activity:
//	  redis:
//	    addr: "localhost:6379"
//	    stream: "authentik:activity"
//	metrics:
//	  enabled: true
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"gopkg.in/yaml.v3"

	auth "github.com/goliatone/go-authentik"
)

// Config represents the complete server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Activity ActivityConfig `yaml:"activity"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AuthConfig holds the reference credentials and token settings.
// Username and password may be left empty, logins then fail with
// a configuration error instead of refusing to start.
type AuthConfig struct {
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Secret   string        `yaml:"secret"`
	Signing  SigningConfig `yaml:"signing"`
}

type SigningConfig struct {
	Method   string   `yaml:"method"`
	Issuer   string   `yaml:"issuer"`
	Audience []string `yaml:"audience"`
	Subject  string   `yaml:"subject"`
	KeyID    string   `yaml:"key_id"`

	ExpiresIn time.Duration `yaml:"-"`
	NotBefore time.Duration `yaml:"-"`
	Leeway    time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	ExpiresInRaw string `yaml:"expires_in"`
	NotBeforeRaw string `yaml:"not_before"`
	LeewayRaw    string `yaml:"leeway"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ActivityConfig struct {
	// BufferSize is the number of events queued ahead of the sink
	BufferSize int         `yaml:"buffer_size"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig enables the Redis activity sink when Addr is set
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"max_len"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content, applying env expansion, defaults and validation
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.setDefaults()

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns a Config with defaults applied and nothing else set
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Auth.Signing.Method == "" {
		c.Auth.Signing.Method = auth.DefaultSigningMethod
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks required fields and enumerations
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Addr, validation.Required),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := validation.ValidateStruct(&c.Auth,
		validation.Field(&c.Auth.Secret, validation.Required),
	); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if err := validation.ValidateStruct(&c.Auth.Signing,
		validation.Field(&c.Auth.Signing.Method, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&c.Auth.Signing.ExpiresIn, validation.Min(time.Duration(0))),
		validation.Field(&c.Auth.Signing.NotBefore, validation.Min(time.Duration(0))),
		validation.Field(&c.Auth.Signing.Leeway, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("auth.signing: %w", err)
	}

	if err := validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level, validation.In("trace", "debug", "info", "warn", "warning", "error")),
	); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

// SigningOptions converts the signing section
func (c *Config) SigningOptions() auth.SigningOptions {
	s := c.Auth.Signing
	return auth.SigningOptions{
		Method:    s.Method,
		ExpiresIn: s.ExpiresIn,
		NotBefore: s.NotBefore,
		Issuer:    s.Issuer,
		Audience:  s.Audience,
		Subject:   s.Subject,
		KeyID:     s.KeyID,
		Leeway:    s.Leeway,
	}
}

// ToAuthConfig builds the immutable auth.AuthConfig used by the library
func (c *Config) ToAuthConfig(extra ...auth.ConfigOption) auth.AuthConfig {
	opts := []auth.ConfigOption{
		auth.WithBasicAuth(c.Auth.Username, c.Auth.Password),
		auth.WithSigningKey(c.Auth.Secret),
		auth.WithSigningOptions(c.SigningOptions()),
	}
	return auth.NewAuthConfig(append(opts, extra...)...)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"auth.signing.expires_in", cfg.Auth.Signing.ExpiresInRaw, &cfg.Auth.Signing.ExpiresIn},
		{"auth.signing.not_before", cfg.Auth.Signing.NotBeforeRaw, &cfg.Auth.Signing.NotBefore},
		{"auth.signing.leeway", cfg.Auth.Signing.LeewayRaw, &cfg.Auth.Signing.Leeway},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}

	return nil
}
