// Package config loads hsstream settings from a YAML file and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/stewi1014/hsstream/stream"
)

// Config is the complete configuration for hsstream tools.
type Config struct {
	Stream  StreamConfig  `yaml:"stream" env:"STREAM"`
	Log     LogConfig     `yaml:"log" env:"LOG"`
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`
	Preload PreloadConfig `yaml:"preload" env:"PRELOAD"`
}

// StreamConfig holds stream and codec settings.
type StreamConfig struct {
	// Backend is the stream.Open kind used for named files.
	Backend string `yaml:"backend" env:"BACKEND"`
	// BlockSize is the Buffered read cache size in bytes.
	BlockSize int `yaml:"block_size" env:"BLOCK_SIZE"`
	// Unsupported is one of error, panic or ignore.
	Unsupported string `yaml:"unsupported" env:"UNSUPPORTED"`
	// Comment and EndLine must be single bytes.
	Comment  string `yaml:"comment" env:"COMMENT"`
	EndLine  string `yaml:"end_line" env:"END_LINE"`
	MaxToken int    `yaml:"max_token" env:"MAX_TOKEN"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string   `yaml:"level" env:"LEVEL"`
	Format      string   `yaml:"format" env:"FORMAT"`
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// PreloadConfig holds FileCache settings.
type PreloadConfig struct {
	Enabled  bool `yaml:"enabled" env:"ENABLED"`
	MaxFiles int  `yaml:"max_files" env:"MAX_FILES"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Stream: StreamConfig{
			Backend:     stream.KindBuffered,
			BlockSize:   stream.DefaultBlockSize,
			Unsupported: "error",
			Comment:     "#",
			EndLine:     "\n",
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		},
		Metrics: MetricsConfig{
			Namespace: "hsstream",
		},
		Preload: PreloadConfig{
			MaxFiles: stream.DefaultCachedFiles,
		},
	}
}

// Validate checks the configuration for values that can't be used.
func (c *Config) Validate() error {
	var errs []string

	if c.Stream.BlockSize <= 0 {
		errs = append(errs, "block_size must be positive")
	}
	if c.Stream.MaxToken < 0 {
		errs = append(errs, "max_token must not be negative")
	}
	if _, err := stream.ParsePolicy(c.Stream.Unsupported); err != nil {
		errs = append(errs, err.Error())
	}
	if len(c.Stream.Comment) != 1 {
		errs = append(errs, "comment must be a single byte")
	}
	if len(c.Stream.EndLine) != 1 {
		errs = append(errs, "end_line must be a single byte")
	}
	if c.Stream.Backend != "" && !contains(stream.Kinds(), c.Stream.Backend) {
		errs = append(errs, fmt.Sprintf("unknown backend %q", c.Stream.Backend))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		errs = append(errs, "metrics namespace must be set when metrics are enabled")
	}
	if c.Preload.MaxFiles < 0 {
		errs = append(errs, "max_files must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ToStream converts the stream settings to a stream.Config. The Reporter and Logger are left unset.
func (c *StreamConfig) ToStream() (*stream.Config, error) {
	policy, err := stream.ParsePolicy(c.Unsupported)
	if err != nil {
		return nil, err
	}

	cfg := stream.DefaultConfig()
	cfg.BlockSize = c.BlockSize
	cfg.Unsupported = policy
	cfg.MaxToken = c.MaxToken
	if len(c.Comment) == 1 {
		cfg.Comment = c.Comment[0]
	}
	if len(c.EndLine) == 1 {
		cfg.EndLine = c.EndLine[0]
	}
	return cfg, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
