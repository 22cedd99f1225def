package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case Competitor:
		o.printCompetitor(v)
	case CompetitorList:
		o.printCompetitors(v.Competitors)
	case PairingsResult:
		o.printPairings(v)
	case RankingsResult:
		o.printRankings(v.Rankings)
	case Report:
		o.printReport(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Competitor response type (matches API)
type Competitor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	College  string `json:"college,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// CompetitorList response type
type CompetitorList struct {
	Competitors  []Competitor `json:"competitors"`
	TournamentID string       `json:"tournamentId"`
}

// Snapshot is a competitor's standing after a round
type Snapshot struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// Pairing response type
type Pairing struct {
	Player1 Snapshot `json:"player1"`
	Player2 Snapshot `json:"player2"`
	Result  string   `json:"result"`
	Outcome string   `json:"outcome"`
}

// Round response type
type Round struct {
	Round     int       `json:"round"`
	Pairings  []Pairing `json:"pairings"`
	ByePlayer *Snapshot `json:"byePlayer"`
}

// PairingsResult response type
type PairingsResult struct {
	RoundNumber int     `json:"roundNumber"`
	AllRounds   []Round `json:"allRounds"`
	Message     string  `json:"message,omitempty"`
}

// Ranking response type
type Ranking struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"playerName"`
	Score      float64 `json:"score"`
}

// RankingsResult response type
type RankingsResult struct {
	Rankings     []Ranking `json:"rankings"`
	TournamentID string    `json:"tournamentId"`
}

// Report combines the outputs of several endpoints for one tournament
type Report struct {
	TournamentID string         `json:"tournamentId"`
	Competitors  []Competitor   `json:"competitors"`
	Pairings     PairingsResult `json:"pairings"`
	Rankings     []Ranking      `json:"rankings"`
}

func (o *Output) printCompetitor(c Competitor) {
	fmt.Fprintf(o.w, "%s (%s)", c.Username, c.ID)
	if c.College != "" {
		fmt.Fprintf(o.w, " - %s", c.College)
	}
	fmt.Fprintln(o.w)
}

func (o *Output) printCompetitors(cs []Competitor) {
	fmt.Fprintf(o.w, "Competitors (%d):\n", len(cs))
	for _, c := range cs {
		fmt.Fprint(o.w, "  - ")
		o.printCompetitor(c)
	}
}

func (o *Output) printPairings(p PairingsResult) {
	if p.Message != "" {
		fmt.Fprintln(o.w, p.Message)
		return
	}

	fmt.Fprintf(o.w, "Rounds: %d\n", p.RoundNumber)
	for _, r := range p.AllRounds {
		fmt.Fprintf(o.w, "\nRound %d\n", r.Round)
		for i, pr := range r.Pairings {
			fmt.Fprintf(o.w, "  %d. %s (%s) vs %s (%s): %s\n",
				i+1,
				pr.Player1.Username, formatScore(pr.Player1.Score),
				pr.Player2.Username, formatScore(pr.Player2.Score),
				pr.Result,
			)
		}
		if r.ByePlayer != nil {
			fmt.Fprintf(o.w, "  Bye: %s (%s)\n", r.ByePlayer.Username, formatScore(r.ByePlayer.Score))
		}
	}
}

func (o *Output) printRankings(rs []Ranking) {
	if len(rs) == 0 {
		fmt.Fprintln(o.w, "No rankings")
		return
	}
	fmt.Fprintln(o.w, "Rankings:")
	for _, r := range rs {
		fmt.Fprintf(o.w, "  %2d. %-24s %s\n", r.Rank, r.PlayerName, formatScore(r.Score))
	}
}

func (o *Output) printReport(r Report) {
	fmt.Fprintf(o.w, "Tournament: %s\n", r.TournamentID)
	o.printCompetitors(r.Competitors)
	fmt.Fprintln(o.w)
	o.printPairings(r.Pairings)
	fmt.Fprintln(o.w)
	o.printRankings(r.Rankings)
}

// formatScore prints half points without trailing zeros (1, 1.5)
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
