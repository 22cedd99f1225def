package model

import (
	"fmt"
	"time"
)

// Outcome is the resolved result of a single pairing
type Outcome string

const (
	OutcomeAWins Outcome = "A_WINS" // player1 won
	OutcomeBWins Outcome = "B_WINS" // player2 won
	OutcomeDraw  Outcome = "DRAW"
)

// CompetitorSnapshot is a competitor as recorded in a round.
// Score is the cumulative score after that round was resolved.
type CompetitorSnapshot struct {
	ID          CompetitorID `json:"id"`
	DisplayName string       `json:"username"`
	Score       float64      `json:"score"`
}

// Pairing is a single game within a round
type Pairing struct {
	CompetitorA CompetitorSnapshot `json:"player1"`
	CompetitorB CompetitorSnapshot `json:"player2"`
	Outcome     Outcome            `json:"result"`
}

// ResultText renders the outcome the way it is shown to players
func (p Pairing) ResultText() string {
	switch p.Outcome {
	case OutcomeAWins:
		return fmt.Sprintf("%s Wins", p.CompetitorA.DisplayName)
	case OutcomeBWins:
		return fmt.Sprintf("%s Wins", p.CompetitorB.DisplayName)
	default:
		return "Draw"
	}
}

// Round is one round of a schedule
type Round struct {
	Number   int                 `json:"round"`
	Pairings []Pairing           `json:"pairings"`
	Bye      *CompetitorSnapshot `json:"byePlayer"`
}

// Size returns the number of competitors that took part in the round
func (r Round) Size() int {
	n := len(r.Pairings) * 2
	if r.Bye != nil {
		n++
	}
	return n
}

// Schedule is the full generated set of rounds for a tournament
type Schedule struct {
	TournamentID TournamentID `json:"tournamentId"`
	TotalRounds  int          `json:"totalRounds"`
	Rounds       []Round      `json:"rounds"`
	GeneratedAt  time.Time    `json:"generatedAt"`
}

// RosterSize returns the competitor count implied by round 1, or 0 for an empty schedule
func (s *Schedule) RosterSize() int {
	if len(s.Rounds) == 0 {
		return 0
	}
	return s.Rounds[0].Size()
}
