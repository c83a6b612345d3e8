package ports

import "context"

// MatchResult is the final outcome persisted for one player.
type MatchResult struct {
	MatchID   string `json:"match_id"`
	UserID    string `json:"user_id"`
	Placement int    `json:"placement"`
	Won       bool   `json:"won"`
	Kills     int    `json:"kills"`
}

// StatsPort is the persistence sink for concluded matches.
type StatsPort interface {
	// RecordResults writes final placements and updates the win
	// leaderboard for the winner.
	RecordResults(ctx context.Context, results []MatchResult) error
}
