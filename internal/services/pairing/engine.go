package pairing

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"

	"github.com/mcoot/swisspairing/internal/dependencies/clock"
	"github.com/mcoot/swisspairing/internal/dependencies/random"
	"github.com/mcoot/swisspairing/internal/model"
)

// Outcome thresholds on a uniform draw in [0, 1)
const (
	aWinsBelow = 0.4
	bWinsBelow = 0.8
)

// Points awarded per round
const (
	winPoints  = 1.0
	drawPoints = 0.5
	byePoints  = 1.0
)

// Engine generates Swiss-system schedules.
//
// Pairing is greedy: within each round competitors are sorted by score and each
// unpaired competitor takes the first later competitor it has not met yet, or
// the first later unpaired competitor when everyone left is a rematch.
// Outcomes are drawn from the injected Random.
type Engine struct {
	random random.Random
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new pairing Engine
func New(rnd random.Random, clk clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		random: rnd,
		clock:  clk,
		logger: logger,
	}
}

// standing is a competitor's running state carried between rounds.
// Values are never mutated once stored in a standings map.
type standing struct {
	score float64
	met   map[model.CompetitorID]struct{}
}

func (s standing) hasMet(id model.CompetitorID) bool {
	_, ok := s.met[id]
	return ok
}

// meeting returns a copy of s that has also met id
func (s standing) meeting(id model.CompetitorID) standing {
	met := make(map[model.CompetitorID]struct{}, len(s.met)+1)
	maps.Copy(met, s.met)
	met[id] = struct{}{}
	return standing{score: s.score, met: met}
}

type standings map[model.CompetitorID]standing

// GenerateSchedule produces totalRounds rounds for the given competitors.
// An empty competitor list yields totalRounds empty rounds.
func (e *Engine) GenerateSchedule(tournamentID model.TournamentID, competitors []model.Competitor, totalRounds int) (*model.Schedule, error) {
	if totalRounds < 1 {
		return nil, model.ErrInvalidRounds
	}

	byID := make(map[model.CompetitorID]model.Competitor, len(competitors))
	order := make([]model.CompetitorID, 0, len(competitors))
	state := make(standings, len(competitors))
	for _, c := range competitors {
		if _, dup := byID[c.ID]; dup {
			e.logger.Warn("duplicate competitor id ignored",
				slog.String("tournament_id", string(tournamentID)),
				slog.String("competitor_id", string(c.ID)),
			)
			continue
		}
		byID[c.ID] = c
		order = append(order, c.ID)
		state[c.ID] = standing{}
	}

	rounds := make([]model.Round, 0, totalRounds)
	for number := 1; number <= totalRounds; number++ {
		var round model.Round
		round, order, state = e.playRound(tournamentID, number, order, state, byID)
		rounds = append(rounds, round)
	}

	e.logger.Info("schedule generated",
		slog.String("tournament_id", string(tournamentID)),
		slog.Int("competitors", len(order)),
		slog.Int("rounds", totalRounds),
	)

	return &model.Schedule{
		TournamentID: tournamentID,
		TotalRounds:  totalRounds,
		Rounds:       rounds,
		GeneratedAt:  e.clock.Now(),
	}, nil
}

// playRound pairs one round. It returns the round, the active order the next
// round starts from, and the standings after this round. prev is not modified.
func (e *Engine) playRound(
	tournamentID model.TournamentID,
	number int,
	order []model.CompetitorID,
	prev standings,
	byID map[model.CompetitorID]model.Competitor,
) (model.Round, []model.CompetitorID, standings) {
	next := maps.Clone(prev)

	active := slices.Clone(order)
	slices.SortStableFunc(active, func(a, b model.CompetitorID) int {
		return cmp.Compare(next[b].score, next[a].score)
	})

	round := model.Round{Number: number, Pairings: []model.Pairing{}}

	var byeID model.CompetitorID
	hasBye := len(active)%2 == 1
	if hasBye {
		byeID = active[len(active)-1]
		active = active[:len(active)-1]

		st := next[byeID]
		st.score += byePoints
		next[byeID] = st

		snap := byID[byeID].Snapshot(st.score)
		round.Bye = &snap

		e.logger.Debug("bye assigned",
			slog.String("tournament_id", string(tournamentID)),
			slog.Int("round", number),
			slog.String("competitor_id", string(byeID)),
		)
	}

	paired := make(map[model.CompetitorID]bool, len(active))
	for i, p1 := range active {
		if paired[p1] {
			continue
		}

		j := findOpponent(active, i, paired, next[p1])
		if j < 0 {
			e.logger.Warn("competitor could not be paired this round",
				slog.String("tournament_id", string(tournamentID)),
				slog.Int("round", number),
				slog.String("competitor_id", string(p1)),
			)
			continue
		}
		p2 := active[j]
		paired[p1] = true
		paired[p2] = true

		a := next[p1].meeting(p2)
		b := next[p2].meeting(p1)
		outcome := e.resolve()
		switch outcome {
		case model.OutcomeAWins:
			a.score += winPoints
		case model.OutcomeBWins:
			b.score += winPoints
		default:
			a.score += drawPoints
			b.score += drawPoints
		}
		next[p1] = a
		next[p2] = b

		round.Pairings = append(round.Pairings, model.Pairing{
			CompetitorA: byID[p1].Snapshot(a.score),
			CompetitorB: byID[p2].Snapshot(b.score),
			Outcome:     outcome,
		})
	}

	nextOrder := active
	if hasBye {
		nextOrder = append(slices.Clone(active), byeID)
	}

	e.logger.Debug("round paired",
		slog.String("tournament_id", string(tournamentID)),
		slog.Int("round", number),
		slog.Int("pairings", len(round.Pairings)),
	)

	return round, nextOrder, next
}

// findOpponent returns the index of p1's opponent among active[i+1:], or -1.
// An opponent not met before is preferred; otherwise any unpaired competitor
// is taken, allowing a rematch.
func findOpponent(active []model.CompetitorID, i int, paired map[model.CompetitorID]bool, p1 standing) int {
	for j := i + 1; j < len(active); j++ {
		if !paired[active[j]] && !p1.hasMet(active[j]) {
			return j
		}
	}
	for j := i + 1; j < len(active); j++ {
		if !paired[active[j]] {
			return j
		}
	}
	return -1
}

func (e *Engine) resolve() model.Outcome {
	r := e.random.Float64()
	switch {
	case r < aWinsBelow:
		return model.OutcomeAWins
	case r < bWinsBelow:
		return model.OutcomeBWins
	default:
		return model.OutcomeDraw
	}
}
