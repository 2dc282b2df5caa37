package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/geochain/internal/dependencies/mocks"
	"github.com/mcoot/geochain/internal/services/room"
	"github.com/mcoot/geochain/internal/storage/memory"
	"github.com/mcoot/geochain/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithRoomConfig(room.DefaultConfig())
}

// NewTestAppWithRoomConfig creates a test App with the given room rules
func NewTestAppWithRoomConfig(cfg room.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, cfg, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestPlaces loads a small gazetteer for testing
func (t *TestApp) LoadTestPlaces() {
	t.Places.LoadNames(testutil.Places)
}
