package response

import (
	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/services/tournament"
)

// SnapshotResponse is a competitor as they stood after a round
type SnapshotResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// PairingResponse is one game in a round. Result is the display form
// ("<username> Wins" or "Draw"); Outcome carries the enum.
type PairingResponse struct {
	Player1 SnapshotResponse `json:"player1"`
	Player2 SnapshotResponse `json:"player2"`
	Result  string           `json:"result"`
	Outcome string           `json:"outcome"`
}

// RoundResponse is one round of a schedule
type RoundResponse struct {
	Round     int               `json:"round"`
	Pairings  []PairingResponse `json:"pairings"`
	ByePlayer *SnapshotResponse `json:"byePlayer"`
}

// PairingsResponse is the response body for the pairings endpoints
type PairingsResponse struct {
	RoundNumber int             `json:"roundNumber"`
	AllRounds   []RoundResponse `json:"allRounds"`
	Message     string          `json:"message,omitempty"`
}

// RankingResponse is one row of the final standings
type RankingResponse struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"playerName"`
	Score      float64 `json:"score"`
}

// RankingsResponse is the response body for the rankings endpoints
type RankingsResponse struct {
	Rankings     []RankingResponse `json:"rankings"`
	TournamentID string            `json:"tournamentId"`
}

// CompetitorResponse is an enrolled competitor
type CompetitorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	College  string `json:"college,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// CompetitorsResponse is the response body for listing enrollments
type CompetitorsResponse struct {
	Competitors  []CompetitorResponse `json:"competitors"`
	TournamentID string               `json:"tournamentId"`
}

// SnapshotFromModel converts a model.CompetitorSnapshot to SnapshotResponse
func SnapshotFromModel(s model.CompetitorSnapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:       string(s.ID),
		Username: s.DisplayName,
		Score:    s.Score,
	}
}

// RoundFromModel converts a model.Round to RoundResponse
func RoundFromModel(r model.Round) RoundResponse {
	pairings := make([]PairingResponse, len(r.Pairings))
	for i, p := range r.Pairings {
		pairings[i] = PairingResponse{
			Player1: SnapshotFromModel(p.CompetitorA),
			Player2: SnapshotFromModel(p.CompetitorB),
			Result:  p.ResultText(),
			Outcome: string(p.Outcome),
		}
	}

	resp := RoundResponse{
		Round:    r.Number,
		Pairings: pairings,
	}
	if r.Bye != nil {
		bye := SnapshotFromModel(*r.Bye)
		resp.ByePlayer = &bye
	}
	return resp
}

// PairingsFromResult converts a tournament.PairingsResult to PairingsResponse
func PairingsFromResult(result *tournament.PairingsResult) PairingsResponse {
	rounds := make([]RoundResponse, len(result.Rounds))
	for i, r := range result.Rounds {
		rounds[i] = RoundFromModel(r)
	}
	return PairingsResponse{
		RoundNumber: result.RoundNumber,
		AllRounds:   rounds,
		Message:     result.Message,
	}
}

// RankingsFromResult converts a tournament.RankingsResult to RankingsResponse
func RankingsFromResult(result *tournament.RankingsResult) RankingsResponse {
	rankings := make([]RankingResponse, len(result.Rankings))
	for i, e := range result.Rankings {
		rankings[i] = RankingResponse{
			Rank:       e.Rank,
			PlayerName: e.DisplayName,
			Score:      e.Score,
		}
	}
	return RankingsResponse{
		Rankings:     rankings,
		TournamentID: string(result.TournamentID),
	}
}

// CompetitorFromModel converts a model.Competitor to CompetitorResponse
func CompetitorFromModel(c model.Competitor) CompetitorResponse {
	return CompetitorResponse{
		ID:       string(c.ID),
		Username: c.DisplayName,
		College:  c.Affiliation,
		Gender:   c.GenderTag,
	}
}

// CompetitorsFromModel converts a roster to CompetitorsResponse
func CompetitorsFromModel(tournamentID model.TournamentID, competitors []model.Competitor) CompetitorsResponse {
	out := make([]CompetitorResponse, len(competitors))
	for i, c := range competitors {
		out[i] = CompetitorFromModel(c)
	}
	return CompetitorsResponse{
		Competitors:  out,
		TournamentID: string(tournamentID),
	}
}
