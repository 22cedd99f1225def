package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	competitors map[model.TournamentID][]model.Competitor
	schedules   map[model.TournamentID]*model.Schedule
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		competitors: make(map[model.TournamentID][]model.Competitor),
		schedules:   make(map[model.TournamentID]*model.Schedule),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Competitor operations

func (s *Storage) SaveCompetitor(ctx context.Context, tournamentID model.TournamentID, competitor model.Competitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.competitors[tournamentID]
	idx := slices.IndexFunc(roster, func(c model.Competitor) bool { return c.ID == competitor.ID })
	if idx >= 0 {
		roster[idx] = competitor
		return nil
	}
	s.competitors[tournamentID] = append(roster, competitor)
	return nil
}

func (s *Storage) DeleteCompetitor(ctx context.Context, tournamentID model.TournamentID, id model.CompetitorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.competitors[tournamentID]
	idx := slices.IndexFunc(roster, func(c model.Competitor) bool { return c.ID == id })
	if idx < 0 {
		return model.ErrCompetitorNotFound
	}
	s.competitors[tournamentID] = slices.Delete(roster, idx, idx+1)
	return nil
}

func (s *Storage) ListCompetitors(ctx context.Context, tournamentID model.TournamentID) ([]model.Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Competitor, len(s.competitors[tournamentID]))
	copy(result, s.competitors[tournamentID])
	return result, nil
}

// Schedule operations

func (s *Storage) GetSchedule(ctx context.Context, tournamentID model.TournamentID) (*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.schedules[tournamentID]
	if !ok {
		return nil, model.ErrScheduleNotFound
	}
	return cloneSchedule(schedule), nil
}

func (s *Storage) ReplaceSchedule(ctx context.Context, schedule *model.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[schedule.TournamentID] = cloneSchedule(schedule)
	return nil
}

func (s *Storage) DeleteSchedule(ctx context.Context, tournamentID model.TournamentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schedules, tournamentID)
	return nil
}

// cloneSchedule copies everything reachable from the schedule so callers
// never share slices or bye pointers with the stored value
func cloneSchedule(schedule *model.Schedule) *model.Schedule {
	out := *schedule
	out.Rounds = make([]model.Round, len(schedule.Rounds))
	for i, round := range schedule.Rounds {
		out.Rounds[i] = model.Round{
			Number:   round.Number,
			Pairings: slices.Clone(round.Pairings),
		}
		if round.Pairings == nil {
			out.Rounds[i].Pairings = []model.Pairing{}
		}
		if round.Bye != nil {
			bye := *round.Bye
			out.Rounds[i].Bye = &bye
		}
	}
	return &out
}
