package model

import (
	"time"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
)

type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// DeriveStatus decides a game's status from its start time and scores.
// A game in the past is completed once both scores are known and in
// progress until then.
func DeriveStatus(date, now time.Time, home, away *int) GameStatus {
	if !date.Before(now) {
		return StatusScheduled
	}
	if home != nil && away != nil {
		return StatusCompleted
	}
	return StatusInProgress
}

// GameSide is one team's view of a game.
type GameSide struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Club   string `json:"club"`
	ClubID string `json:"club_id"`
	Score  *int   `json:"score,omitempty"`
}

func (s GameSide) fields() map[string]interface{} {
	f := map[string]interface{}{
		"name":    s.Name,
		"id":      s.ID,
		"club":    s.Club,
		"club_id": s.ClubID,
	}
	if s.Score != nil {
		f["score"] = *s.Score
	}
	return f
}

// GameMeta is derived by enrichment. A nil *GameMeta means the game has not
// been enriched and no derived fields are written.
type GameMeta struct {
	DayOfWeek      string  `json:"day_of_week"`
	IsWeekendGame  bool    `json:"is_weekend_game"`
	WeekNumber     int     `json:"week_number"`
	Month          string  `json:"month"`
	TimeCategory   string  `json:"time_category"`
	HomeClubIsHome bool    `json:"home_club_is_home"`
	HomeClubIsAway bool    `json:"home_club_is_away"`
	IsHomeClubGame bool    `json:"is_home_club_game"`
	Result         *Result `json:"home_club_result,omitempty"`
}

type Game struct {
	ID            string     `json:"id"`
	SourceGameID  string     `json:"source_game_id,omitempty"`
	URL           string     `json:"url,omitempty"`
	Date          time.Time  `json:"date"`
	Venue         string     `json:"venue"`
	Status        GameStatus `json:"status"`
	Round         int        `json:"round"`
	CompID        string     `json:"comp_id"`
	FixtureID     string     `json:"fixture_id"`
	CompetitionID string     `json:"competition_id"`
	GradeID       string     `json:"grade_id"`
	GradeName     string     `json:"grade_name"`
	Type          string     `json:"type"`
	Gender        string     `json:"gender"`
	HomeTeam      GameSide   `json:"home_team"`
	AwayTeam      GameSide   `json:"away_team"`
	Version       int        `json:"schema_version"`

	*GameMeta
	Stamps
}

func (g Game) DocID() string { return g.ID }

func (g Game) Fields() map[string]interface{} {
	f := map[string]interface{}{
		"id":              g.ID,
		"date":            g.Date,
		"venue":           g.Venue,
		"status":          string(g.Status),
		"round":           g.Round,
		"comp_id":         g.CompID,
		"fixture_id":      g.FixtureID,
		"competition_id":  g.CompetitionID,
		"competition_ref": store.Ref{Collection: config.CompetitionsCollection, ID: g.CompetitionID},
		"grade_id":        g.GradeID,
		"grade_ref":       store.Ref{Collection: config.GradesCollection, ID: g.GradeID},
		"grade_name":      g.GradeName,
		"type":            g.Type,
		"gender":          g.Gender,
		"home_team":       g.HomeTeam.fields(),
		"away_team":       g.AwayTeam.fields(),
		"schema_version":  SchemaVersion,
	}
	optional(f, "source_game_id", g.SourceGameID)
	optional(f, "url", g.URL)

	if m := g.GameMeta; m != nil {
		f["day_of_week"] = m.DayOfWeek
		f["is_weekend_game"] = m.IsWeekendGame
		f["week_number"] = m.WeekNumber
		f["month"] = m.Month
		f["time_category"] = m.TimeCategory
		f["home_club_is_home"] = m.HomeClubIsHome
		f["home_club_is_away"] = m.HomeClubIsAway
		f["is_home_club_game"] = m.IsHomeClubGame
		if m.Result != nil {
			f["home_club_result"] = string(*m.Result)
		}
		f["last_polled_at"] = store.ServerTimestamp
	}
	return f
}

// HomeClubSide returns the side the home club played on. ok is false when
// the game has not been enriched or the home club did not play.
func (g Game) HomeClubSide() (us, them GameSide, ok bool) {
	if g.GameMeta == nil {
		return GameSide{}, GameSide{}, false
	}
	switch {
	case g.HomeClubIsHome:
		return g.HomeTeam, g.AwayTeam, true
	case g.HomeClubIsAway:
		return g.AwayTeam, g.HomeTeam, true
	}
	return GameSide{}, GameSide{}, false
}

// IntPtr is a convenience for building scores.
func IntPtr(n int) *int { return &n }
