package registry

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
)

// Service manages tournament enrollments
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new registry Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns the tournament's competitors in enrollment order
func (s *Service) List(ctx context.Context, tournamentID model.TournamentID) ([]model.Competitor, error) {
	if tournamentID == "" {
		return nil, model.ErrInvalidTournamentID
	}
	return s.storage.ListCompetitors(ctx, tournamentID)
}

// Enroll adds a competitor, or updates the details of one already enrolled
// without moving it in the order
func (s *Service) Enroll(ctx context.Context, tournamentID model.TournamentID, competitor model.Competitor) (*model.Competitor, error) {
	if tournamentID == "" {
		return nil, model.ErrInvalidTournamentID
	}

	competitor.ID = model.CompetitorID(strings.TrimSpace(string(competitor.ID)))
	competitor.DisplayName = strings.TrimSpace(competitor.DisplayName)
	if competitor.ID == "" || competitor.DisplayName == "" {
		return nil, model.ErrInvalidCompetitor
	}

	if err := s.storage.SaveCompetitor(ctx, tournamentID, competitor); err != nil {
		return nil, err
	}

	s.logger.Info("competitor enrolled",
		slog.String("tournament_id", string(tournamentID)),
		slog.String("competitor_id", string(competitor.ID)),
	)
	return &competitor, nil
}

// Withdraw removes a competitor from the tournament
func (s *Service) Withdraw(ctx context.Context, tournamentID model.TournamentID, competitorID model.CompetitorID) error {
	if tournamentID == "" {
		return model.ErrInvalidTournamentID
	}
	if err := s.storage.DeleteCompetitor(ctx, tournamentID, competitorID); err != nil {
		return err
	}

	s.logger.Info("competitor withdrawn",
		slog.String("tournament_id", string(tournamentID)),
		slog.String("competitor_id", string(competitorID)),
	)
	return nil
}
