package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "IMPACTOIA_"

const (
	FormatJSON = "json"
	FormatText = "text"
)

type Config struct {
	Debug    bool           `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
	Analysis AnalysisConfig `yaml:"analysis"`
	DataDir  string         `yaml:"data_dir"`
	EnvFile  string         `yaml:"env_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AnalysisConfig struct {
	// ImpactThreshold is the minimum score considered significant, in [0,100].
	ImpactThreshold float64 `yaml:"umbral_impacto"`
}

// LogLevel returns the effective log level. Debug mode always wins.
func (c *Config) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.Logging.Level
}

// Validate checks value ranges that cannot be expressed by defaults.
func (c *Config) Validate() error {
	t := c.Analysis.ImpactThreshold
	if math.IsNaN(t) || t < 0 || t > 100 {
		return fmt.Errorf("umbral_impacto must be between 0 and 100, got %v", t)
	}
	switch c.Logging.Format {
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Load builds the configuration from defaults, then the optional YAML file
// at path, then the environment. Variables from the env file only fill
// names not already set in the process environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatJSON,
		},
		Analysis: AnalysisConfig{
			ImpactThreshold: 50.0,
		},
		EnvFile: ".env",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v, ok := lookupEnv("ENV_FILE"); ok {
		cfg.EnvFile = v
	}
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookupEnv("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sDEBUG: %w", EnvPrefix, err)
		}
		cfg.Debug = b
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v, ok := lookupEnv("UMBRAL_IMPACTO"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse %sUMBRAL_IMPACTO: %w", EnvPrefix, err)
		}
		cfg.Analysis.ImpactThreshold = f
	}
	if v, ok := lookupEnv("DATA_DIR"); ok {
		cfg.DataDir = v
	}
	return nil
}

// lookupEnv resolves EnvPrefix+name. Names match case-insensitively; the
// exact upper-case spelling takes precedence. Empty values count as unset.
func lookupEnv(name string) (string, bool) {
	key := EnvPrefix + name
	if v := os.Getenv(key); v != "" {
		return v, true
	}
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if found && v != "" && strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
