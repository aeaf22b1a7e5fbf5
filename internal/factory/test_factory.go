package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/expoprize/prizewheel-go/internal/dependencies/mocks"
	"github.com/expoprize/prizewheel-go/internal/flagstore"
	"github.com/expoprize/prizewheel-go/internal/services/raffle"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
	"github.com/expoprize/prizewheel-go/internal/services/spin"
	"github.com/expoprize/prizewheel-go/internal/services/wheel"
	"github.com/expoprize/prizewheel-go/internal/storage/memory"
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
	store := memory.New()
	flags := flagstore.NewMemory()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(
		store,
		flags,
		mockClock,
		mockRandom,
		registration.DefaultConfig(),
		spin.DefaultConfig(),
		wheel.DefaultConfig(),
		raffle.DefaultConfig(),
		logger,
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
