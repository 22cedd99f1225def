package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage/memory"
	"github.com/mcoot/swisspairing/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestEnrollAndList() {
	_, err := s.service.Enroll(s.ctx, "T1", model.Competitor{ID: "p1", DisplayName: "Alice", Affiliation: "MIT"})
	s.Require().NoError(err)
	_, err = s.service.Enroll(s.ctx, "T1", model.Competitor{ID: "p2", DisplayName: "Bob"})
	s.Require().NoError(err)

	competitors, err := s.service.List(s.ctx, "T1")
	s.Require().NoError(err)
	s.Require().Len(competitors, 2)
	s.Equal(model.CompetitorID("p1"), competitors[0].ID)
	s.Equal("MIT", competitors[0].Affiliation)
	s.Equal(model.CompetitorID("p2"), competitors[1].ID)
}

func (s *ServiceSuite) TestEnrollTrimsFields() {
	c, err := s.service.Enroll(s.ctx, "T1", model.Competitor{ID: " p1 ", DisplayName: "  Alice "})
	s.Require().NoError(err)
	s.Equal(model.CompetitorID("p1"), c.ID)
	s.Equal("Alice", c.DisplayName)
}

func (s *ServiceSuite) TestEnrollRequiresIDAndName() {
	_, err := s.service.Enroll(s.ctx, "T1", model.Competitor{ID: "", DisplayName: "Alice"})
	s.ErrorIs(err, model.ErrInvalidCompetitor)

	_, err = s.service.Enroll(s.ctx, "T1", model.Competitor{ID: "p1", DisplayName: "   "})
	s.ErrorIs(err, model.ErrInvalidCompetitor)
}

func (s *ServiceSuite) TestEnrollRequiresTournament() {
	_, err := s.service.Enroll(s.ctx, "", model.Competitor{ID: "p1", DisplayName: "Alice"})
	s.ErrorIs(err, model.ErrInvalidTournamentID)

	_, err = s.service.List(s.ctx, "")
	s.ErrorIs(err, model.ErrInvalidTournamentID)
}

func (s *ServiceSuite) TestReEnrollKeepsPosition() {
	for _, c := range testutil.Competitors(3) {
		_, err := s.service.Enroll(s.ctx, "T1", c)
		s.Require().NoError(err)
	}

	_, err := s.service.Enroll(s.ctx, "T1", model.Competitor{ID: "p1", DisplayName: "Renamed"})
	s.Require().NoError(err)

	competitors, err := s.service.List(s.ctx, "T1")
	s.Require().NoError(err)
	s.Require().Len(competitors, 3)
	s.Equal("Renamed", competitors[0].DisplayName)
}

func (s *ServiceSuite) TestWithdraw() {
	for _, c := range testutil.Competitors(2) {
		_, err := s.service.Enroll(s.ctx, "T1", c)
		s.Require().NoError(err)
	}

	s.Require().NoError(s.service.Withdraw(s.ctx, "T1", "p1"))

	competitors, err := s.service.List(s.ctx, "T1")
	s.Require().NoError(err)
	s.Require().Len(competitors, 1)
	s.Equal(model.CompetitorID("p2"), competitors[0].ID)
}

func (s *ServiceSuite) TestWithdrawUnknown() {
	err := s.service.Withdraw(s.ctx, "T1", "ghost")
	s.ErrorIs(err, model.ErrCompetitorNotFound)
}
