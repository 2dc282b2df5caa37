package memory

import (
	"context"
	"sync"

	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/storage"
)

// DefaultSummaryLimit is how many game summaries are retained
const DefaultSummaryLimit = 100

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	placeNames   []string
	summaries    []*model.GameSummary // newest first
	summaryLimit int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithLimit(DefaultSummaryLimit)
}

// NewWithLimit creates an in-memory storage retaining at most limit game summaries
func NewWithLimit(limit int) *Storage {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	return &Storage{summaryLimit: limit}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Gazetteer operations

func (s *Storage) GetPlaceNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.placeNames == nil {
		return nil, model.ErrPlacesNotLoaded
	}
	result := make([]string, len(s.placeNames))
	copy(result, s.placeNames)
	return result, nil
}

func (s *Storage) SavePlaceNames(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeNames = make([]string, len(names))
	copy(s.placeNames, names)
	return nil
}

// Game summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *summary
	s.summaries = append([]*model.GameSummary{&stored}, s.summaries...)
	if len(s.summaries) > s.summaryLimit {
		s.summaries = s.summaries[:s.summaryLimit]
	}
	return nil
}

func (s *Storage) ListGameSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.summaries) {
		limit = len(s.summaries)
	}
	result := make([]*model.GameSummary, limit)
	for i := range result {
		summary := *s.summaries[i]
		result[i] = &summary
	}
	return result, nil
}
