package redis

import (
	"fmt"

	"github.com/mcoot/swisspairing/internal/model"
)

// Key prefix for all tournament data
const keyPrefix = "swiss"

// competitorsKey returns the Redis key for the HASH of competitor id -> JSON
func competitorsKey(tournamentID model.TournamentID) string {
	return fmt.Sprintf("%s:tournament:%s:competitors", keyPrefix, tournamentID)
}

// competitorOrderKey returns the Redis key for the LIST of competitor ids in enrollment order
func competitorOrderKey(tournamentID model.TournamentID) string {
	return fmt.Sprintf("%s:tournament:%s:competitor_order", keyPrefix, tournamentID)
}

// scheduleKey returns the Redis key for a tournament's Schedule
func scheduleKey(tournamentID model.TournamentID) string {
	return fmt.Sprintf("%s:tournament:%s:schedule", keyPrefix, tournamentID)
}

func lockKey(key string) string {
	return fmt.Sprintf("%s:lock:%s", keyPrefix, key)
}
