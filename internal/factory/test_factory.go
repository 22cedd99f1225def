package factory

import (
	"context"
	"time"

	"github.com/mcoot/swisspairing/internal/dependencies/mocks"
	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/services/schedule"
	"github.com/mcoot/swisspairing/internal/storage/memory"
	"github.com/mcoot/swisspairing/internal/testutil"
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
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, memory.NewLocker(), mockClock, mockRandom,
		schedule.DefaultConfig(), DefaultRounds, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// EnrollPlayers enrolls n generated competitors (p1..pn) in a tournament
func (t *TestApp) EnrollPlayers(ctx context.Context, tournamentID model.TournamentID, n int) error {
	for _, c := range testutil.Competitors(n) {
		if _, err := t.Registry.Enroll(ctx, tournamentID, c); err != nil {
			return err
		}
	}
	return nil
}
