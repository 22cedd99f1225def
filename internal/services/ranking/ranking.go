// Package ranking derives final standings from a schedule.
package ranking

import (
	"cmp"
	"slices"

	"github.com/mcoot/swisspairing/internal/model"
)

type entry struct {
	name  string
	score float64
}

// Compute ranks competitors by the last score recorded for them in the schedule.
//
// Every competitor in the registry appears, with score 0 if the schedule never
// mentions them. Snapshots for ids that are not in the registry are ignored.
// Ties keep registry order and ranks are positional, so no two entries share a rank.
func Compute(competitors []model.Competitor, schedule *model.Schedule) []model.RankingEntry {
	order := make([]model.CompetitorID, 0, len(competitors))
	entries := make(map[model.CompetitorID]*entry, len(competitors))
	for _, c := range competitors {
		if _, dup := entries[c.ID]; dup {
			continue
		}
		order = append(order, c.ID)
		entries[c.ID] = &entry{name: c.DisplayName}
	}

	record := func(snap model.CompetitorSnapshot) {
		if e, ok := entries[snap.ID]; ok {
			e.score = snap.Score
		}
	}
	if schedule != nil {
		for _, r := range schedule.Rounds {
			for _, p := range r.Pairings {
				record(p.CompetitorA)
				record(p.CompetitorB)
			}
			if r.Bye != nil {
				record(*r.Bye)
			}
		}
	}

	slices.SortStableFunc(order, func(a, b model.CompetitorID) int {
		return cmp.Compare(entries[b].score, entries[a].score)
	})

	rankings := make([]model.RankingEntry, len(order))
	for i, id := range order {
		rankings[i] = model.RankingEntry{
			Rank:        i + 1,
			DisplayName: entries[id].name,
			Score:       entries[id].score,
		}
	}
	return rankings
}
