package storage

import (
	"context"

	"github.com/mcoot/swisspairing/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Enrollment operations. Competitors are listed in enrollment order;
	// saving an already enrolled id updates it in place.
	SaveCompetitor(ctx context.Context, tournamentID model.TournamentID, competitor model.Competitor) error
	DeleteCompetitor(ctx context.Context, tournamentID model.TournamentID, id model.CompetitorID) error
	ListCompetitors(ctx context.Context, tournamentID model.TournamentID) ([]model.Competitor, error)

	// Schedule operations. ReplaceSchedule removes any stored schedule for the
	// tournament and writes the new one as a single atomic step.
	GetSchedule(ctx context.Context, tournamentID model.TournamentID) (*model.Schedule, error)
	ReplaceSchedule(ctx context.Context, schedule *model.Schedule) error
	DeleteSchedule(ctx context.Context, tournamentID model.TournamentID) error
}

// Locker serializes work on a key across concurrent callers.
// Lock blocks until the key is free or ctx is done; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
