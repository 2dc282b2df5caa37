package storage

import (
	"context"

	"github.com/mcoot/geochain/internal/model"
)

// Storage defines the interface for data persistence.
// Live rooms are never persisted; only the gazetteer and archived game summaries are.
type Storage interface {
	// Gazetteer operations
	GetPlaceNames(ctx context.Context) ([]string, error)
	SavePlaceNames(ctx context.Context, names []string) error

	// Game summary operations, newest first
	SaveGameSummary(ctx context.Context, summary *model.GameSummary) error
	ListGameSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error)
}
