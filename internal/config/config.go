package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KostasZigo/gitodb/internal/compression"
	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/logger"
	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the GITODB_ prefix, e.g. GITODB_LOG_LEVEL.
const (
	KeyDefaultBranch    = "default_branch"
	KeyLogLevel         = "log_level"
	KeyCompressionLevel = "compression_level"
	KeyCacheSize        = "cache_size"
	KeyWorkDir          = "work_dir"
)

// EnvPrefix is prepended to configuration keys when reading the environment.
const EnvPrefix = "GITODB"

// Config holds the runtime settings of a single CLI invocation.
type Config struct {
	DefaultBranch    string `mapstructure:"default_branch"`
	LogLevel         string `mapstructure:"log_level"`
	CompressionLevel int    `mapstructure:"compression_level"`
	CacheSize        int    `mapstructure:"cache_size"`
	WorkDir          string `mapstructure:"work_dir"`
}

// SetDefaults registers default values for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDefaultBranch, constants.DefaultBranch)
	v.SetDefault(KeyLogLevel, logger.DefaultLevel)
	v.SetDefault(KeyCompressionLevel, compression.DefaultCompression)
	v.SetDefault(KeyCacheSize, 0)
	v.SetDefault(KeyWorkDir, "")
}

// Load reads the settings from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c Config) Validate() error {
	if c.DefaultBranch == "" || strings.ContainsAny(c.DefaultBranch, " \t\n\x00") {
		return fmt.Errorf("invalid %s %q", KeyDefaultBranch, c.DefaultBranch)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.CompressionLevel < compression.HuffmanOnly || c.CompressionLevel > compression.BestCompression {
		return fmt.Errorf("invalid %s %d: must be between %d and %d",
			KeyCompressionLevel, c.CompressionLevel, compression.HuffmanOnly, compression.BestCompression)
	}

	if c.CacheSize < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", KeyCacheSize, c.CacheSize)
	}

	return nil
}

// Dir returns the directory searched for config.yaml.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", constants.AppName)
	}
	return "." + constants.AppName
}
