package model

// TournamentID identifies a tournament whose enrollments and schedule are managed together
type TournamentID string

// CompetitorID uniquely identifies an enrolled competitor
type CompetitorID string

// Competitor is an enrollment record as seen by the pairing engine
type Competitor struct {
	ID          CompetitorID `json:"id"`
	DisplayName string       `json:"username"`
	Affiliation string       `json:"college,omitempty"`
	GenderTag   string       `json:"gender,omitempty"`
}

// Snapshot returns the per-round view of the competitor carrying the given score
func (c Competitor) Snapshot(score float64) CompetitorSnapshot {
	return CompetitorSnapshot{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		Score:       score,
	}
}
