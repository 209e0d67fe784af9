package model

import (
	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

// TeamSummary is one team's tally for one round. Regenerated from the full
// game set every run.
type TeamSummary struct {
	ID             string         `json:"id"`
	TeamID         string         `json:"team_id"`
	TeamName       string         `json:"team_name"`
	Round          int            `json:"round"`
	Type           string         `json:"type"`
	Gender         string         `json:"gender"`
	GamesPlayed    int            `json:"games_played"`
	GoalsFor       int            `json:"goals_for"`
	GoalsAgainst   int            `json:"goals_against"`
	GoalDifference int            `json:"goal_difference"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	Points         int            `json:"points"`
	StatusCounts   map[string]int `json:"status_counts"`
	Stamps
}

func (s TeamSummary) DocID() string { return s.ID }

func (s TeamSummary) Fields() map[string]interface{} {
	counts := make(map[string]interface{}, len(s.StatusCounts))
	for k, v := range s.StatusCounts {
		counts[k] = v
	}
	return map[string]interface{}{
		"id":              s.ID,
		"team_id":         s.TeamID,
		"team_name":       s.TeamName,
		"round":           s.Round,
		"type":            s.Type,
		"gender":          s.Gender,
		"games_played":    s.GamesPlayed,
		"goals_for":       s.GoalsFor,
		"goals_against":   s.GoalsAgainst,
		"goal_difference": s.GoalDifference,
		"wins":            s.Wins,
		"losses":          s.Losses,
		"draws":           s.Draws,
		"points":          s.Points,
		"status_counts":   counts,
		"updated_at":      store.ServerTimestamp,
		"schema_version":  SchemaVersion,
	}
}

// ClubSummary rolls team summaries up by (division, gender).
type ClubSummary struct {
	ID               string  `json:"id"`
	ClubID           string  `json:"club_id"`
	Division         string  `json:"division"`
	Gender           string  `json:"gender"`
	TotalTeams       int     `json:"total_teams"`
	TotalGamesPlayed int     `json:"total_games_played"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Draws            int     `json:"draws"`
	WinPercentage    float64 `json:"win_percentage"`
	GoalsFor         int     `json:"goals_for"`
	GoalsAgainst     int     `json:"goals_against"`
	GoalDifference   int     `json:"goal_difference"`
	Stamps
}

func (s ClubSummary) DocID() string { return s.ID }

func (s ClubSummary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"id":                 s.ID,
		"club_id":            s.ClubID,
		"club_ref":           store.Ref{Collection: config.ClubsCollection, ID: s.ClubID},
		"division":           s.Division,
		"gender":             s.Gender,
		"total_teams":        s.TotalTeams,
		"total_games_played": s.TotalGamesPlayed,
		"wins":               s.Wins,
		"losses":             s.Losses,
		"draws":              s.Draws,
		"win_percentage":     s.WinPercentage,
		"goals_for":          s.GoalsFor,
		"goals_against":      s.GoalsAgainst,
		"goal_difference":    s.GoalDifference,
		"updated_at":         store.ServerTimestamp,
		"schema_version":     SchemaVersion,
	}
}
