package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrDatabaseURLMissing is returned when no connection string is configured.
var ErrDatabaseURLMissing = errors.New("DATABASE_URL is not set")

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

type TelemetryConfig struct {
	PushgatewayURL string        `mapstructure:"pushgateway_url"`
	PushTimeout    time.Duration `mapstructure:"push_timeout"`
	Job            string        `mapstructure:"job"`
	TextfilePath   string        `mapstructure:"textfile_path"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PGPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The connection string keeps its conventional unprefixed name.
	if err := v.BindEnv("database.url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	// Defaults
	v.SetDefault("database.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("telemetry.pushgateway_url", "")
	v.SetDefault("telemetry.push_timeout", 10*time.Second)
	v.SetDefault("telemetry.job", "pgprobe")
	v.SetDefault("telemetry.textfile_path", "")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrDatabaseURLMissing
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Telemetry.PushgatewayURL != "" && c.Telemetry.Job == "" {
		return errors.New("telemetry.job is required when telemetry.pushgateway_url is set")
	}
	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", l.Level, err)
	}
	return lvl, nil
}
