package places

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mcoot/geochain/internal/model"
	"github.com/mcoot/geochain/internal/storage"
)

// Gazetteer sources reported by Load
const (
	SourceStorage = "storage"
	SourceFile    = "file"
)

// Service validates place names against a gazetteer of countries, states and cities
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu     sync.RWMutex
	names  map[string]struct{}
	loaded bool
}

// New creates a new places Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "places")),
		names:   make(map[string]struct{}),
	}
}

// Key normalises a place name for lookup: the first two words, lowercased.
// "New York City" and "new york" share the key "new york".
func Key(name string) string {
	words := strings.Fields(strings.ToLower(name))
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

// Load fills the gazetteer and reports where it came from. A non-empty copy
// cached in storage is used unless reload is set; otherwise the file at path
// is read and re-cached.
func (s *Service) Load(ctx context.Context, path string, reload bool) (string, error) {
	if !reload {
		err := s.LoadFromStorage(ctx)
		switch {
		case err == nil && s.Count() > 0:
			s.logger.Info("using cached gazetteer, file not read",
				slog.String("path", path),
				slog.String("hint", "set places.reload to read the file"))
			return SourceStorage, nil
		case err != nil && !errors.Is(err, model.ErrPlacesNotLoaded):
			s.logger.Warn("cached gazetteer unavailable", slog.String("error", err.Error()))
		}
	}

	if err := s.LoadFromFile(ctx, path); err != nil {
		return "", err
	}
	return SourceFile, nil
}

// LoadFromStorage loads the gazetteer from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	names, err := s.storage.GetPlaceNames(ctx)
	if err != nil {
		return err
	}
	s.load(names)
	s.logger.Info("gazetteer loaded from storage", slog.Int("places", s.Count()))
	return nil
}

// LoadFromFile loads the gazetteer from a file (one place per line, '#' starts a comment)
// and caches it in storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gazetteer: %w", err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read gazetteer: %w", err)
	}

	if err := s.storage.SavePlaceNames(ctx, names); err != nil {
		return fmt.Errorf("cache gazetteer: %w", err)
	}

	s.load(names)
	s.logger.Info("gazetteer loaded from file",
		slog.String("path", path),
		slog.Int("places", s.Count()))
	return nil
}

// LoadNames directly loads a slice of place names (useful for testing)
func (s *Service) LoadNames(names []string) {
	s.load(names)
}

func (s *Service) load(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.names = make(map[string]struct{}, len(names))
	for _, name := range names {
		if key := Key(name); key != "" {
			s.names[key] = struct{}{}
		}
	}
	s.loaded = true
}

// IsValid reports whether name is a known place
func (s *Service) IsValid(name string) bool {
	key := Key(name)
	if key == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	_, ok := s.names[key]
	return ok
}

// IsLoaded returns whether the gazetteer has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Count returns the number of distinct lookup keys
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}
