package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/geochain/internal/config"
	"github.com/mcoot/geochain/internal/dependencies/clock"
	"github.com/mcoot/geochain/internal/dependencies/random"
	"github.com/mcoot/geochain/internal/metrics"
	"github.com/mcoot/geochain/internal/realtime"
	"github.com/mcoot/geochain/internal/services/archive"
	"github.com/mcoot/geochain/internal/services/places"
	"github.com/mcoot/geochain/internal/services/room"
	"github.com/mcoot/geochain/internal/session"
	"github.com/mcoot/geochain/internal/storage"
	"github.com/mcoot/geochain/internal/storage/memory"
	redisstorage "github.com/mcoot/geochain/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Places   *places.Service
	Registry *room.Registry
	Archive  *archive.Service
	Metrics  *metrics.Metrics

	// Realtime
	HubManager *realtime.HubManager
	Sessions   *session.Handler
	Realtime   *realtime.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SummaryLimit caps archived games kept in memory storage (optional)
	SummaryLimit int
	// Room holds the rules applied to every room
	Room room.Config
}

// ConfigFrom builds a factory Config from the loaded server configuration
func ConfigFrom(cfg config.Config, logger *slog.Logger) Config {
	fc := Config{
		Logger:       logger,
		StorageType:  cfg.Storage.Type,
		SummaryLimit: cfg.Storage.SummaryLimit,
		Room: room.Config{
			MaxPlayers:    cfg.Game.MaxPlayers,
			HostOnlyStart: cfg.Game.HostOnlyStart,
		},
	}
	if cfg.Storage.Type == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		redisCfg.PoolSize = cfg.Storage.PoolSize
		redisCfg.MinIdleConns = cfg.Storage.MinIdleConns
		redisCfg.SummaryTTL = cfg.Storage.SummaryTTL
		redisCfg.SummaryLimit = cfg.Storage.SummaryLimit
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.NewWithLimit(cfg.SummaryLimit)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.Room, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, roomCfg room.Config, logger *slog.Logger) *App {
	// Create services
	placesService := places.New(store, logger)
	registry := room.NewRegistry(roomCfg, placesService, clk, rnd, logger)
	archiveService := archive.New(store, logger)
	m := metrics.New()

	// Create realtime layer
	hubManager := realtime.NewHubManager(logger)
	sessions := session.NewHandler(registry, hubManager, archiveService, m, clk, logger)
	wsHandler := realtime.NewHandler(sessions, rnd, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Places:     placesService,
		Registry:   registry,
		Archive:    archiveService,
		Metrics:    m,
		HubManager: hubManager,
		Sessions:   sessions,
		Realtime:   wsHandler,
	}
}

// Close releases storage connections
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
