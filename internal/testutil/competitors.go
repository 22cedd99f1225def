package testutil

import (
	"fmt"

	"github.com/mcoot/swisspairing/internal/model"
)

// Competitors returns n competitors with ids p1..pn and names "Player 1".."Player n"
func Competitors(n int) []model.Competitor {
	out := make([]model.Competitor, n)
	for i := range out {
		out[i] = model.Competitor{
			ID:          model.CompetitorID(fmt.Sprintf("p%d", i+1)),
			DisplayName: fmt.Sprintf("Player %d", i+1),
		}
	}
	return out
}
