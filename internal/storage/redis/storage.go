package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Gazetteer operations

func (s *Storage) GetPlaceNames(ctx context.Context) ([]string, error) {
	key := placesKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrPlacesNotLoaded
	}

	return s.client.SMembers(ctx, key).Result()
}

func (s *Storage) SavePlaceNames(ctx context.Context, names []string) error {
	key := placesKey()

	// Replace the whole set atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(names) > 0 {
		members := make([]any, len(names))
		for i, n := range names {
			members[i] = n
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Game summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := recentGamesKey()

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.SummaryLimit > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.cfg.SummaryLimit-1))
	}
	if s.cfg.SummaryTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.SummaryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGameSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raw, err := s.client.LRange(ctx, recentGamesKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.GameSummary, 0, len(raw))
	for _, item := range raw {
		var summary model.GameSummary
		if err := json.Unmarshal([]byte(item), &summary); err != nil {
			return nil, fmt.Errorf("decode game summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}
