package models

// UserScore is fully derived from a user's current report set. Rank is only
// meaningful inside a leaderboard computation and stays 0 elsewhere.
type UserScore struct {
	UserID          string  `json:"userId"`
	UserName        string  `json:"userName"`
	TotalReports    int     `json:"totalReports"`
	ResolvedReports int     `json:"resolvedReports"`
	ImpactPoints    int     `json:"impactPoints"`
	Level           int     `json:"level"`
	Badges          []Badge `json:"badges"`
	Rank            int     `json:"rank"`
}

// LeaderboardEntry is the per-user projection of a UserScore inside a ranked
// leaderboard. One entry per distinct user appearing in the report corpus.
type LeaderboardEntry struct {
	UserID       string  `json:"userId"`
	UserName     string  `json:"userName"`
	ImpactPoints int     `json:"impactPoints"`
	Level        int     `json:"level"`
	Rank         int     `json:"rank"`
	Badges       []Badge `json:"badges"`
}
