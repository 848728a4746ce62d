// Package config loads textrun settings from a YAML file, TEXTRUN_*
// environment variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tsawler/textrun/sections"
	"github.com/tsawler/textrun/text"
)

// EnvPrefix prefixes every environment variable, e.g.
// TEXTRUN_CLUSTER_MAX_ADVANCE_GAP.
const EnvPrefix = "TEXTRUN"

// ErrNilConfig is returned when a nil Config is provided.
var ErrNilConfig = errors.New("config is nil")

// Config holds the full application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Cluster  ClusterConfig  `mapstructure:"cluster"`
	Sections SectionsConfig `mapstructure:"sections"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClusterConfig holds the decoding and clustering tolerances.
type ClusterConfig struct {
	MaxAdvanceGap    float64 `mapstructure:"max_advance_gap"`
	MaxBaselineDrift float64 `mapstructure:"max_baseline_drift"`
	FallbackAvgWidth float64 `mapstructure:"fallback_avg_width"`
}

// SectionsConfig describes the layout of a multi-page index.
type SectionsConfig struct {
	TOCMarker          string `mapstructure:"toc_marker"`
	Entry              string `mapstructure:"entry"`
	FirstSkip          int    `mapstructure:"first_skip"`
	ContinuationSkip   int    `mapstructure:"continuation_skip"`
	TrailerSkip        int    `mapstructure:"trailer_skip"`
	MarkerIndex        int    `mapstructure:"marker_index"`
	ContinuationMarker string `mapstructure:"continuation_marker"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for environment variables to be picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	to := text.DefaultOptions()
	so := sections.DefaultOptions()

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("cluster.max_advance_gap", to.MaxAdvanceGap)
	v.SetDefault("cluster.max_baseline_drift", to.MaxBaselineDrift)
	v.SetDefault("cluster.fallback_avg_width", to.FallbackAvgWidth)

	v.SetDefault("sections.toc_marker", so.TOCMarker)
	v.SetDefault("sections.entry", so.Entry)
	v.SetDefault("sections.first_skip", so.FirstSkip)
	v.SetDefault("sections.continuation_skip", so.ContinuationSkip)
	v.SetDefault("sections.trailer_skip", so.TrailerSkip)
	v.SetDefault("sections.marker_index", so.MarkerIndex)
	v.SetDefault("sections.continuation_marker", so.ContinuationMarker)
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the config file at path. With an empty path it looks for
// config.yaml in ~/.textrun and the working directory; a missing file is
// not an error then.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".textrun"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that tolerances are positive and skips are not negative.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}

	var errs []error
	if c.Cluster.MaxAdvanceGap <= 0 {
		errs = append(errs, fmt.Errorf("cluster.max_advance_gap must be positive, got %g", c.Cluster.MaxAdvanceGap))
	}
	if c.Cluster.MaxBaselineDrift <= 0 {
		errs = append(errs, fmt.Errorf("cluster.max_baseline_drift must be positive, got %g", c.Cluster.MaxBaselineDrift))
	}
	if c.Cluster.FallbackAvgWidth <= 0 {
		errs = append(errs, fmt.Errorf("cluster.fallback_avg_width must be positive, got %g", c.Cluster.FallbackAvgWidth))
	}

	s := c.Sections
	if s.FirstSkip < 0 || s.ContinuationSkip < 0 || s.TrailerSkip < 0 || s.MarkerIndex < 0 {
		errs = append(errs, errors.New("sections skips and marker index must not be negative"))
	}
	if s.TOCMarker == "" || s.Entry == "" {
		errs = append(errs, errors.New("sections.toc_marker and sections.entry must be set"))
	}

	return errors.Join(errs...)
}

// TextOptions returns the clustering tolerances as text.Options.
func (c *Config) TextOptions() text.Options {
	return text.Options{
		MaxAdvanceGap:    c.Cluster.MaxAdvanceGap,
		MaxBaselineDrift: c.Cluster.MaxBaselineDrift,
		FallbackAvgWidth: c.Cluster.FallbackAvgWidth,
	}
}

// SectionOptions returns the index layout as sections.Options.
func (c *Config) SectionOptions() sections.Options {
	return sections.Options{
		TOCMarker:          c.Sections.TOCMarker,
		Entry:              c.Sections.Entry,
		FirstSkip:          c.Sections.FirstSkip,
		ContinuationSkip:   c.Sections.ContinuationSkip,
		TrailerSkip:        c.Sections.TrailerSkip,
		MarkerIndex:        c.Sections.MarkerIndex,
		ContinuationMarker: c.Sections.ContinuationMarker,
	}
}
