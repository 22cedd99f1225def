package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/services/pairing"
	"github.com/mcoot/swisspairing/internal/storage"
)

// Config controls how schedule requests wait on each other
type Config struct {
	// LockTimeout bounds how long a request waits for the tournament lock
	LockTimeout time.Duration
}

// DefaultConfig returns sensible defaults for the schedule service
func DefaultConfig() Config {
	return Config{LockTimeout: 10 * time.Second}
}

// Service loads stored schedules, decides when they are stale, and
// regenerates and persists them. Work on one tournament is serialized
// through the Locker so concurrent requests never interleave their writes.
type Service struct {
	storage storage.Storage
	locker  storage.Locker
	engine  *pairing.Engine
	logger  *slog.Logger
	cfg     Config
}

// New creates a new schedule Service
func New(storage storage.Storage, locker storage.Locker, engine *pairing.Engine, logger *slog.Logger, cfg Config) *Service {
	return &Service{
		storage: storage,
		locker:  locker,
		engine:  engine,
		logger:  logger,
		cfg:     cfg,
	}
}

// IsStale reports whether a stored schedule no longer fits the request.
// Only counts are compared: replacing one competitor with another keeps
// the schedule.
func IsStale(stored *model.Schedule, competitorCount, totalRounds int) bool {
	return stored.TotalRounds != totalRounds || stored.RosterSize() != competitorCount
}

// GetOrCreate returns the stored schedule when it still matches the roster
// size and round count, and otherwise generates and persists a new one
func (s *Service) GetOrCreate(ctx context.Context, tournamentID model.TournamentID, competitors []model.Competitor, totalRounds int) (*model.Schedule, error) {
	if totalRounds < 1 {
		return nil, model.ErrInvalidRounds
	}

	unlock, err := s.lock(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stored, err := s.storage.GetSchedule(ctx, tournamentID)
	switch {
	case err == nil:
		count := distinctCount(competitors)
		if !IsStale(stored, count, totalRounds) {
			s.logger.Debug("reusing stored schedule", slog.String("tournament_id", string(tournamentID)))
			return stored, nil
		}
		s.logger.Info("stored schedule is stale",
			slog.String("tournament_id", string(tournamentID)),
			slog.Int("stored_rounds", stored.TotalRounds),
			slog.Int("requested_rounds", totalRounds),
			slog.Int("stored_roster", stored.RosterSize()),
			slog.Int("competitors", count),
		)
	case errors.Is(err, model.ErrScheduleNotFound):
	default:
		return nil, fmt.Errorf("load schedule for %s: %w", tournamentID, err)
	}

	return s.generate(ctx, tournamentID, competitors, totalRounds)
}

// LoadOrCreate returns any stored schedule as-is. Only when none exists is one
// generated with defaultRounds and persisted.
func (s *Service) LoadOrCreate(ctx context.Context, tournamentID model.TournamentID, competitors []model.Competitor, defaultRounds int) (*model.Schedule, error) {
	unlock, err := s.lock(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stored, err := s.storage.GetSchedule(ctx, tournamentID)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, model.ErrScheduleNotFound) {
		return nil, fmt.Errorf("load schedule for %s: %w", tournamentID, err)
	}

	return s.generate(ctx, tournamentID, competitors, defaultRounds)
}

// Reset discards the stored schedule so the next request regenerates it
func (s *Service) Reset(ctx context.Context, tournamentID model.TournamentID) error {
	unlock, err := s.lock(ctx, tournamentID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.storage.DeleteSchedule(ctx, tournamentID); err != nil {
		return fmt.Errorf("delete schedule for %s: %w", tournamentID, err)
	}
	s.logger.Info("schedule reset", slog.String("tournament_id", string(tournamentID)))
	return nil
}

func (s *Service) generate(ctx context.Context, tournamentID model.TournamentID, competitors []model.Competitor, totalRounds int) (*model.Schedule, error) {
	schedule, err := s.engine.GenerateSchedule(tournamentID, competitors, totalRounds)
	if err != nil {
		return nil, err
	}
	if err := s.storage.ReplaceSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("persist schedule for %s: %w", tournamentID, err)
	}
	return schedule, nil
}

func (s *Service) lock(ctx context.Context, tournamentID model.TournamentID) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.cfg.LockTimeout)
	defer cancel()
	return s.locker.Lock(lockCtx, "tournament:"+string(tournamentID))
}

func distinctCount(competitors []model.Competitor) int {
	seen := make(map[model.CompetitorID]struct{}, len(competitors))
	for _, c := range competitors {
		seen[c.ID] = struct{}{}
	}
	return len(seen)
}
