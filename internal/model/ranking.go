package model

// RankingEntry is one line of the final standings
type RankingEntry struct {
	Rank        int     `json:"rank"`
	DisplayName string  `json:"playerName"`
	Score       float64 `json:"score"`
}
