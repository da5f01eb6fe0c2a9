// Package config loads server configuration from a YAML file, an optional
// .env file, and NUMBER_READER_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
	"github.com/ironsheep/number-reader-mcp/internal/roi"
	"github.com/ironsheep/number-reader-mcp/internal/stabilize"
)

const envPrefix = "NUMBER_READER_"

// Config holds server configuration.
type Config struct {
	LogLevel   string                  `yaml:"log_level"`
	Tracker    stabilize.TrackerConfig `yaml:"tracker"`
	Normalizer NormalizerConfig        `yaml:"normalizer"`
	OCR        OCRConfig               `yaml:"ocr"`
	Regions    []RegionConfig          `yaml:"regions"`
	Sink       SinkConfig              `yaml:"sink"`
}

// NormalizerConfig configures character normalization.
type NormalizerConfig struct {
	MaxHops int `yaml:"max_hops"`
}

// OCRConfig configures the tesseract recognizer.
type OCRConfig struct {
	Language string `yaml:"language"`
	// Preprocess converts crops to grayscale and boosts contrast first.
	Preprocess bool `yaml:"preprocess"`
	// ContrastBoost is a percentage in (-100, 100].
	ContrastBoost float64 `yaml:"contrast_boost"`
	// MinHeight upscales crops shorter than this many pixels.
	MinHeight int `yaml:"min_height"`
	// MinEdgeDensity skips recognition of nearly blank crops; 0 disables.
	MinEdgeDensity float64 `yaml:"min_edge_density"`
	TessdataPrefix string  `yaml:"tessdata_prefix"`
}

// RegionConfig describes one region of interest.
type RegionConfig struct {
	Name            string               `yaml:"name"`
	Preset          string               `yaml:"preset"`
	Orientation     geometry.Orientation `yaml:"orientation"`
	ReferenceWidth  float64              `yaml:"reference_width"`
	ReferenceHeight float64              `yaml:"reference_height"`
}

// Reference returns the reference frame size.
func (r RegionConfig) Reference() geometry.Size {
	return geometry.Size{Width: r.ReferenceWidth, Height: r.ReferenceHeight}
}

// SinkConfig configures where confirmations go besides the log.
type SinkConfig struct {
	RedisURL     string `yaml:"redis_url"`
	RedisChannel string `yaml:"redis_channel"`
	RedisList    string `yaml:"redis_list"`
}

// RedisEnabled reports whether a Redis sink is configured.
func (s SinkConfig) RedisEnabled() bool {
	return s.RedisURL != ""
}

// Default returns the built-in configuration: two side-by-side regions on a
// portrait phone-sized preview.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		Tracker:    stabilize.DefaultTrackerConfig(),
		Normalizer: NormalizerConfig{MaxHops: stabilize.DefaultMaxHops},
		OCR: OCRConfig{
			Language:       "eng",
			Preprocess:     true,
			ContrastBoost:  30,
			MinHeight:      64,
			MinEdgeDensity: 0.01,
		},
		Regions: []RegionConfig{
			{Name: "ollie", Preset: "ollie", Orientation: geometry.Portrait, ReferenceWidth: 390, ReferenceHeight: 844},
			{Name: "toran", Preset: "toran", Orientation: geometry.Portrait, ReferenceWidth: 390, ReferenceHeight: 844},
		},
	}
}

// Load builds a configuration. path names a YAML file and envFile a .env
// file; either may be empty. A missing .env file is not an error.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[envPrefix+key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	i64 := func(key string, dst *int64) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("OCR_LANGUAGE", &c.OCR.Language)
	str("TESSDATA_PREFIX", &c.OCR.TessdataPrefix)
	str("REDIS_URL", &c.Sink.RedisURL)
	str("REDIS_CHANNEL", &c.Sink.RedisChannel)
	str("REDIS_LIST", &c.Sink.RedisList)

	if err := i64("AGING_WINDOW", &c.Tracker.AgingWindow); err != nil {
		return err
	}
	if err := i64("CONFIRM_THRESHOLD", &c.Tracker.ConfirmThreshold); err != nil {
		return err
	}
	hops := int64(c.Normalizer.MaxHops)
	if err := i64("MAX_HOPS", &hops); err != nil {
		return err
	}
	c.Normalizer.MaxHops = int(hops)

	if v, ok := lookup("ORIENTATION"); ok {
		o, err := geometry.ParseOrientation(v)
		if err != nil {
			return fmt.Errorf("%sORIENTATION: %w", envPrefix, err)
		}
		for i := range c.Regions {
			c.Regions[i].Orientation = o
		}
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info":
	default:
		return fmt.Errorf("log_level must be debug or info, got %q", c.LogLevel)
	}

	if c.Tracker.AgingWindow < 0 {
		return fmt.Errorf("tracker.aging_window must not be negative, got %d", c.Tracker.AgingWindow)
	}
	if c.Tracker.ConfirmThreshold < 1 {
		return fmt.Errorf("tracker.confirm_threshold must be at least 1, got %d", c.Tracker.ConfirmThreshold)
	}
	if c.Normalizer.MaxHops < 1 || c.Normalizer.MaxHops > 8 {
		return fmt.Errorf("normalizer.max_hops must be between 1 and 8, got %d", c.Normalizer.MaxHops)
	}
	if c.OCR.ContrastBoost <= -100 || c.OCR.ContrastBoost > 100 {
		return fmt.Errorf("ocr.contrast_boost must be in (-100, 100], got %v", c.OCR.ContrastBoost)
	}
	if c.OCR.MinEdgeDensity < 0 || c.OCR.MinEdgeDensity >= 1 {
		return fmt.Errorf("ocr.min_edge_density must be in [0, 1), got %v", c.OCR.MinEdgeDensity)
	}

	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}
	seen := make(map[string]bool, len(c.Regions))
	for i, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("regions[%d]: name is required", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("regions[%d]: duplicate name %q", i, r.Name)
		}
		seen[r.Name] = true
		if _, err := roi.LookupPreset(r.Preset); err != nil {
			return fmt.Errorf("regions[%d]: %w", i, err)
		}
		if r.ReferenceWidth < 0 || r.ReferenceHeight < 0 {
			return fmt.Errorf("regions[%d]: reference size must not be negative", i)
		}
	}

	if c.Sink.RedisURL != "" && c.Sink.RedisChannel == "" && c.Sink.RedisList == "" {
		return fmt.Errorf("sink.redis_url is set but neither redis_channel nor redis_list is")
	}
	if c.Sink.RedisURL == "" && (c.Sink.RedisChannel != "" || c.Sink.RedisList != "") {
		return fmt.Errorf("sink.redis_channel and redis_list need sink.redis_url")
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
