package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/storage"
)

const (
	// DefaultRecentLimit is used when a caller asks for no particular number of games
	DefaultRecentLimit = 10
	// MaxRecentLimit caps a single Recent query
	MaxRecentLimit = 50
)

// Service keeps a record of finished games
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new archive Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "archive")),
	}
}

// Record stores the summary of a finished game. Games in which nothing was
// played are not worth keeping and are skipped; the returned bool reports
// whether the summary was stored.
func (s *Service) Record(ctx context.Context, summary model.GameSummary) (bool, error) {
	if summary.Plays == 0 {
		return false, nil
	}

	if err := s.storage.SaveGameSummary(ctx, &summary); err != nil {
		return false, fmt.Errorf("save game summary: %w", err)
	}

	attrs := []any{
		slog.String("room_id", string(summary.RoomID)),
		slog.Int("plays", summary.Plays),
		slog.Int("players", len(summary.Scores)),
	}
	if leader, ok := summary.Leader(); ok {
		attrs = append(attrs, slog.String("winner", leader.Username))
	}
	s.logger.Info("game archived", attrs...)
	return true, nil
}

// Recent returns up to limit finished games, newest first. A non-positive
// limit means DefaultRecentLimit; larger limits are capped at MaxRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	summaries, err := s.storage.ListGameSummaries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list game summaries: %w", err)
	}
	return summaries, nil
}
