// Package config provides Viper-based configuration loading for the game server.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Type is the backend: "memory" or "redis".
	Type         string        `mapstructure:"type"`
	RedisURL     string        `mapstructure:"redis_url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	SummaryTTL   time.Duration `mapstructure:"summary_ttl"`
	SummaryLimit int           `mapstructure:"summary_limit"`
}

// GameConfig holds the rules applied to every room.
type GameConfig struct {
	// MaxPlayers caps room size; zero disables the cap.
	MaxPlayers int `mapstructure:"max_players"`
	// HostOnlyStart restricts starting a game to the room's creator.
	HostOnlyStart bool `mapstructure:"host_only_start"`
}

// PlacesConfig locates the gazetteer.
type PlacesConfig struct {
	Path string `mapstructure:"path"`
	// Reload reads Path at startup even when storage already holds a cached copy.
	Reload bool `mapstructure:"reload"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "text".
	Format string `mapstructure:"format"`
}

// SlogLevel converts Level to a slog.Level. Unknown levels map to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the top-level server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Game    GameConfig    `mapstructure:"game"`
	Places  PlacesConfig  `mapstructure:"places"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants, reporting every violation at once.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Game.MaxPlayers < 0 {
		errs = append(errs, fmt.Sprintf("game.max_players must be >= 0, got %d", c.Game.MaxPlayers))
	}
	if c.Places.Path == "" {
		errs = append(errs, "places.path must not be empty")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 0 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 0-65535, got %d", s.Port))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Type {
	case StorageMemory:
	case StorageRedis:
		if s.RedisURL == "" {
			errs = append(errs, "storage.redis_url is required when storage.type is redis")
		}
		if s.PoolSize < 1 {
			errs = append(errs, fmt.Sprintf("storage.pool_size must be >= 1, got %d", s.PoolSize))
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.type must be one of [memory, redis], got %q", s.Type))
	}
	if s.SummaryLimit < 1 {
		errs = append(errs, fmt.Sprintf("storage.summary_limit must be >= 1, got %d", s.SummaryLimit))
	}
	if s.SummaryTTL < 0 {
		errs = append(errs, "storage.summary_ttl must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, text], got %q", l.Format)
	}
	return nil
}

// Load builds the configuration from defaults, the optional YAML file at path
// and GEOCHAIN_ prefixed environment variables, then validates it.
// An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides, e.g. GEOCHAIN_STORAGE_TYPE
	v.SetEnvPrefix("GEOCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("storage.pool_size", 10)
	v.SetDefault("storage.min_idle_conns", 2)
	v.SetDefault("storage.summary_ttl", "168h")
	v.SetDefault("storage.summary_limit", 100)

	v.SetDefault("game.max_players", 0)
	v.SetDefault("game.host_only_start", false)

	v.SetDefault("places.path", "data/places.txt")
	v.SetDefault("places.reload", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
