package model

import "github.com/deppfellow/rowboard/internal/validation"

// LeaderboardEntry is one Row's registration count for a month.
type LeaderboardEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// LeaderboardRequest is GET /leaderboard?year=&month=.
type LeaderboardRequest struct {
	Year  int `query:"year" json:"-" validate:"required,min=1,max=9999"`
	Month int `query:"month" json:"-" validate:"required,min=1,max=12"`
}

func (r *LeaderboardRequest) Validate() error {
	return validation.Struct(r)
}
