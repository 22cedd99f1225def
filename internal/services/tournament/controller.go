package tournament

import (
	"context"
	"log/slog"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/services/ranking"
	"github.com/mcoot/swisspairing/internal/services/registry"
	"github.com/mcoot/swisspairing/internal/services/schedule"
)

// NoPlayersMessage accompanies the pairings response for an empty tournament
const NoPlayersMessage = "No players enrolled"

// PairingsResult is the outcome of a pairings request
type PairingsResult struct {
	RoundNumber int
	Rounds      []model.Round
	Message     string
}

// RankingsResult is the outcome of a rankings request
type RankingsResult struct {
	Rankings     []model.RankingEntry
	TournamentID model.TournamentID
}

// Controller ties the registry, schedule store and ranking together for
// the pairings and rankings endpoints
type Controller struct {
	registry      *registry.Service
	schedules     *schedule.Service
	defaultRounds int
	logger        *slog.Logger
}

// NewController creates a new tournament Controller
func NewController(registry *registry.Service, schedules *schedule.Service, defaultRounds int, logger *slog.Logger) *Controller {
	return &Controller{
		registry:      registry,
		schedules:     schedules,
		defaultRounds: defaultRounds,
		logger:        logger,
	}
}

// DefaultRounds is the round count used when a request does not name one
func (c *Controller) DefaultRounds() int {
	return c.defaultRounds
}

// Pairings returns the tournament's schedule for the requested number of rounds,
// generating it when none is stored or the stored one is stale
func (c *Controller) Pairings(ctx context.Context, tournamentID model.TournamentID, rounds int) (*PairingsResult, error) {
	if tournamentID == "" {
		return nil, model.ErrInvalidTournamentID
	}
	if rounds < 1 {
		return nil, model.ErrInvalidRounds
	}

	competitors, err := c.registry.List(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(competitors) == 0 {
		return &PairingsResult{RoundNumber: 1, Rounds: []model.Round{}, Message: NoPlayersMessage}, nil
	}

	sched, err := c.schedules.GetOrCreate(ctx, tournamentID, competitors, rounds)
	if err != nil {
		c.logger.Error("failed to get pairings",
			slog.String("tournament_id", string(tournamentID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return &PairingsResult{RoundNumber: rounds, Rounds: sched.Rounds}, nil
}

// Rankings returns the final standings. A stored schedule is used as-is;
// without one a default-length schedule is generated and persisted.
func (c *Controller) Rankings(ctx context.Context, tournamentID model.TournamentID) (*RankingsResult, error) {
	if tournamentID == "" {
		return nil, model.ErrInvalidTournamentID
	}

	competitors, err := c.registry.List(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(competitors) == 0 {
		return &RankingsResult{Rankings: []model.RankingEntry{}, TournamentID: tournamentID}, nil
	}

	sched, err := c.schedules.LoadOrCreate(ctx, tournamentID, competitors, c.defaultRounds)
	if err != nil {
		c.logger.Error("failed to get rankings",
			slog.String("tournament_id", string(tournamentID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return &RankingsResult{
		Rankings:     ranking.Compute(competitors, sched),
		TournamentID: tournamentID,
	}, nil
}

// ResetPairings discards the stored schedule
func (c *Controller) ResetPairings(ctx context.Context, tournamentID model.TournamentID) error {
	if tournamentID == "" {
		return model.ErrInvalidTournamentID
	}
	return c.schedules.Reset(ctx, tournamentID)
}
