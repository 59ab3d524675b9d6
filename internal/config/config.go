// Package config loads etstats settings from defaults, an optional
// etstats.yml and ETSTATS_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Import   ImportConfig   `mapstructure:"import"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ImportConfig struct {
	Workers    int           `mapstructure:"workers"`
	SessionGap time.Duration `mapstructure:"session_gap"`
	PairWindow time.Duration `mapstructure:"pair_window"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type MetricsConfig struct {
	// Textfile is a node_exporter textfile collector path written after each import.
	Textfile string `mapstructure:"textfile"`
}

func setDefaults(v *viper.Viper) {
	defaultConfig := map[string]any{
		"database.path":      "~/.etstats/etstats.db",
		"import.workers":     runtime.NumCPU(),
		"import.session_gap": "60m",
		"import.pair_window": "45m",
		"log.level":          "info",
		"log.file":           "",
		"metrics.textfile":   "",
	}

	for configKey, value := range defaultConfig {
		v.SetDefault(configKey, value)
	}
}

// Read loads the configuration. cfgFile, when non-empty, must exist; otherwise
// etstats.yml is looked up in the home directory and the working directory.
func Read(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("etstats")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if errRead := v.ReadInConfig(); errRead != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, errRead)
		}
	} else {
		if home, errHomeDir := homedir.Dir(); errHomeDir == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName("etstats")
		v.SetConfigType("yml")
		if errRead := v.ReadInConfig(); errRead != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(errRead, &notFound) {
				return nil, fmt.Errorf("read config: %w", errRead)
			}
		}
	}

	var cfg Config
	if errUnmarshal := v.Unmarshal(&cfg); errUnmarshal != nil {
		return nil, fmt.Errorf("decode config: %w", errUnmarshal)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() error {
	path, errExpand := homedir.Expand(c.Database.Path)
	if errExpand != nil {
		return fmt.Errorf("expand database.path: %w", errExpand)
	}
	c.Database.Path = path

	if c.Log.File != "" {
		logPath, errLog := homedir.Expand(c.Log.File)
		if errLog != nil {
			return fmt.Errorf("expand log.file: %w", errLog)
		}
		c.Log.File = logPath
	}

	if c.Import.Workers < 1 {
		return fmt.Errorf("%w: import.workers must be at least 1, got %d", ErrInvalidConfig, c.Import.Workers)
	}
	if c.Import.SessionGap <= 0 {
		return fmt.Errorf("%w: import.session_gap must be positive", ErrInvalidConfig)
	}
	if c.Import.PairWindow <= 0 {
		return fmt.Errorf("%w: import.pair_window must be positive", ErrInvalidConfig)
	}

	return nil
}
