// Package config loads repository settings from YAML.
//
// A missing section keeps its default; only explicitly set keys override it:
//
//	repository:
//	  strict_get: true
//	matching:
//	  strict_types: false
//	query:
//	  default_limit: 100
//	log:
//	  level: debug
//	  format: logfmt
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Matching   MatchingConfig   `yaml:"matching"`
	Query      QueryConfig      `yaml:"query"`
	Log        LogConfig        `yaml:"log"`
}

type RepositoryConfig struct {
	StrictGet    bool `yaml:"strict_get"`
	StrictUpdate bool `yaml:"strict_update"`
	StrictRemove bool `yaml:"strict_remove"`
}

type MatchingConfig struct {
	// StrictTypes is nil when unset; the effective default is true.
	StrictTypes *bool `yaml:"strict_types,omitempty"`
}

// TypeSensitive reports whether literal criteria compare types as well as values.
func (m MatchingConfig) TypeSensitive() bool {
	return m.StrictTypes == nil || *m.StrictTypes
}

type QueryConfig struct {
	// DefaultLimit caps query builder results. nil and -1 mean unlimited.
	DefaultLimit *int `yaml:"default_limit,omitempty"`
}

// Limit is the effective default limit.
func (q QueryConfig) Limit() int {
	if q.DefaultLimit == nil {
		return -1
	}
	return *q.DefaultLimit
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Prefix string `yaml:"prefix"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = FormatText
	}
}

// Parse decodes and validates a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, "log.level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case FormatText, FormatJSON, FormatLogfmt:
	default:
		result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, "log.format %q", c.Log.Format))
	}
	if c.Query.Limit() < -1 {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidConfig, "query.default_limit %d", c.Query.Limit()))
	}
	return result
}

// Logger builds a logger writing to w. The configuration must be valid.
func (c *Config) Logger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.WarnLevel
	}
	formatter := log.TextFormatter
	switch c.Log.Format {
	case FormatJSON:
		formatter = log.JSONFormatter
	case FormatLogfmt:
		formatter = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Prefix:    c.Log.Prefix,
		Formatter: formatter,
	})
}
