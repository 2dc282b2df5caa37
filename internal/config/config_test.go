package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type:         StorageMemory,
			SummaryTTL:   time.Hour,
			SummaryLimit: 10,
		},
		Places: PlacesConfig{Path: "data/places.txt"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, 168*time.Hour, cfg.Storage.SummaryTTL)
	assert.Equal(t, "data/places.txt", cfg.Places.Path)
	assert.False(t, cfg.Places.Reload)
	assert.Zero(t, cfg.Game.MaxPlayers)
	assert.False(t, cfg.Game.HostOnlyStart)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geochain.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: 9090
  shutdown_timeout: 5s
storage:
  type: redis
  redis_url: redis://cache:6379/1
  summary_limit: 25
game:
  max_players: 4
  host_only_start: true
places:
  reload: true
logging:
  level: debug
  format: text
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.Storage.RedisURL)
	assert.Equal(t, 25, cfg.Storage.SummaryLimit)
	assert.Equal(t, 10, cfg.Storage.PoolSize)
	assert.Equal(t, 4, cfg.Game.MaxPlayers)
	assert.True(t, cfg.Game.HostOnlyStart)
	assert.True(t, cfg.Places.Reload)
	assert.Equal(t, "data/places.txt", cfg.Places.Path)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEOCHAIN_SERVER_PORT", "7070")
	t.Setenv("GEOCHAIN_GAME_MAX_PLAYERS", "3")
	t.Setenv("GEOCHAIN_PLACES_PATH", "/srv/places.txt")
	t.Setenv("GEOCHAIN_PLACES_RELOAD", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Game.MaxPlayers)
	assert.Equal(t, "/srv/places.txt", cfg.Places.Path)
	assert.True(t, cfg.Places.Reload)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("GEOCHAIN_STORAGE_TYPE", "postgres")

	_, err := Load("")
	assert.ErrorContains(t, err, "storage.type")
}

func TestValidateReportsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	cfg.Storage.Type = StorageRedis
	cfg.Storage.RedisURL = ""
	cfg.Game.MaxPlayers = -1
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "storage.redis_url")
	assert.Contains(t, err.Error(), "game.max_players")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidatePlacesPath(t *testing.T) {
	cfg := validConfig()
	cfg.Places.Path = ""
	assert.ErrorContains(t, cfg.Validate(), "places.path")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, LoggingConfig{Level: tt.level}.SlogLevel())
		})
	}
}

func TestPropertyPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(-1000, 100000).Draw(t, "port")
		cfg := validConfig()
		cfg.Server.Port = port

		err := cfg.Validate()
		if port >= 0 && port <= 65535 {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	})
}

func TestPropertyStorageType(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		typ := rapid.StringMatching(`[a-z]{0,8}`).Draw(t, "type")
		cfg := validConfig()
		cfg.Storage.Type = typ
		cfg.Storage.RedisURL = "redis://localhost:6379"
		cfg.Storage.PoolSize = 1

		err := cfg.Validate()
		if typ == StorageMemory || typ == StorageRedis {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	})
}
