// Package model defines the documents written to the store. Each entity is a
// typed struct carrying a schema version; Fields produces the map the store
// persists, including back-references to the documents it points at.
package model

import (
	"time"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

// SchemaVersion is bumped whenever a document shape changes.
const SchemaVersion = 2

// Doc is anything the upsert engine can write.
type Doc interface {
	DocID() string
	Fields() map[string]interface{}
}

// Stamps are maintained by the upsert engine, never set by callers.
type Stamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --------------------------------------------------------------------------
// Club
// --------------------------------------------------------------------------

type Club struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ShortName      string `json:"short_name"`
	Code           string `json:"code"`
	Location       string `json:"location,omitempty"`
	HomeVenue      string `json:"home_venue,omitempty"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	IsHomeClub     bool   `json:"is_home_club"`
	Active         bool   `json:"active"`
	Version        int    `json:"schema_version"`
	Stamps
}

func (c Club) DocID() string { return c.ID }

func (c Club) Fields() map[string]interface{} {
	f := map[string]interface{}{
		"id":              c.ID,
		"name":            c.Name,
		"short_name":      c.ShortName,
		"code":            c.Code,
		"primary_color":   c.PrimaryColor,
		"secondary_color": c.SecondaryColor,
		"is_home_club":    c.IsHomeClub,
		"active":          c.Active,
		"schema_version":  SchemaVersion,
	}
	optional(f, "location", c.Location)
	optional(f, "home_venue", c.HomeVenue)
	return f
}

// --------------------------------------------------------------------------
// Competition
// --------------------------------------------------------------------------

type Competition struct {
	ID         string `json:"id"`
	OriginalID string `json:"original_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Season     string `json:"season"`
	FixtureID  string `json:"fixture_id"`
	Active     bool   `json:"active"`
	Version    int    `json:"schema_version"`
	Stamps
}

func (c Competition) DocID() string { return c.ID }

func (c Competition) Fields() map[string]interface{} {
	return map[string]interface{}{
		"id":             c.ID,
		"original_id":    c.OriginalID,
		"name":           c.Name,
		"type":           c.Type,
		"season":         c.Season,
		"fixture_id":     c.FixtureID,
		"active":         c.Active,
		"schema_version": SchemaVersion,
	}
}

// --------------------------------------------------------------------------
// Grade
// --------------------------------------------------------------------------

type Grade struct {
	ID              string `json:"id"`
	OriginalID      string `json:"original_id"`
	Name            string `json:"name"`
	CompID          string `json:"comp_id"`
	CompetitionID   string `json:"competition_id"`
	CompetitionName string `json:"competition_name"`
	Type            string `json:"type"`
	Gender          string `json:"gender"`
	Season          string `json:"season"`
	Active          bool   `json:"active"`
	Version         int    `json:"schema_version"`
	Stamps
}

func (g Grade) DocID() string { return g.ID }

func (g Grade) Fields() map[string]interface{} {
	return map[string]interface{}{
		"id":               g.ID,
		"original_id":      g.OriginalID,
		"name":             g.Name,
		"comp_id":          g.CompID,
		"competition_id":   g.CompetitionID,
		"competition_name": g.CompetitionName,
		"competition_ref":  store.Ref{Collection: config.CompetitionsCollection, ID: g.CompetitionID},
		"type":             g.Type,
		"gender":           g.Gender,
		"season":           g.Season,
		"active":           g.Active,
		"schema_version":   SchemaVersion,
	}
}

// --------------------------------------------------------------------------
// Team
// --------------------------------------------------------------------------

type Team struct {
	ID              string `json:"id"`
	OriginalID      string `json:"original_id"`
	Name            string `json:"name"`
	FixtureID       string `json:"fixture_id"`
	CompID          string `json:"comp_id"`
	Type            string `json:"type"`
	Gender          string `json:"gender"`
	Club            string `json:"club"`
	ClubID          string `json:"club_id"`
	IsHomeClubTeam  bool   `json:"is_home_club_team"`
	CompName        string `json:"comp_name"`
	CompetitionID   string `json:"competition_id"`
	CompetitionName string `json:"competition_name"`
	GradeID         string `json:"grade_id"`
	GradeName       string `json:"grade_name"`
	Season          string `json:"season"`
	Active          bool   `json:"active"`
	Version         int    `json:"schema_version"`
	Stamps
}

func (t Team) DocID() string { return t.ID }

func (t Team) Fields() map[string]interface{} {
	return map[string]interface{}{
		"id":                t.ID,
		"original_id":       t.OriginalID,
		"name":              t.Name,
		"fixture_id":        t.FixtureID,
		"comp_id":           t.CompID,
		"type":              t.Type,
		"gender":            t.Gender,
		"club":              t.Club,
		"club_id":           t.ClubID,
		"club_ref":          store.Ref{Collection: config.ClubsCollection, ID: t.ClubID},
		"is_home_club_team": t.IsHomeClubTeam,
		"comp_name":         t.CompName,
		"competition_id":    t.CompetitionID,
		"competition_name":  t.CompetitionName,
		"competition_ref":   store.Ref{Collection: config.CompetitionsCollection, ID: t.CompetitionID},
		"grade_id":          t.GradeID,
		"grade_name":        t.GradeName,
		"grade_ref":         store.Ref{Collection: config.GradesCollection, ID: t.GradeID},
		"season":            t.Season,
		"active":            t.Active,
		"schema_version":    SchemaVersion,
	}
}

// --------------------------------------------------------------------------
// Settings
// --------------------------------------------------------------------------

// EmailSettingsID is the document id of the notification settings.
const EmailSettingsID = "email_settings"

type Settings struct {
	ID                string   `json:"id"`
	Version           int      `json:"version"`
	PreGameHours      int      `json:"pre_game_hours"`
	WeeklySummaryDay  string   `json:"weekly_summary_day"`
	WeeklySummaryTime string   `json:"weekly_summary_time"`
	AdminEmails       []string `json:"admin_emails"`
	Stamps
}

// DefaultSettings are seeded on every build so the notification service
// always finds a settings document.
func DefaultSettings() Settings {
	return Settings{
		ID:                EmailSettingsID,
		Version:           1,
		PreGameHours:      24,
		WeeklySummaryDay:  "Sunday",
		WeeklySummaryTime: "20:00",
		AdminEmails:       []string{"admin@mentone.com"},
	}
}

func (s Settings) DocID() string { return s.ID }

func (s Settings) Fields() map[string]interface{} {
	emails := make([]interface{}, len(s.AdminEmails))
	for i, e := range s.AdminEmails {
		emails[i] = e
	}
	return map[string]interface{}{
		"id":                  s.ID,
		"version":             s.Version,
		"pre_game_hours":      s.PreGameHours,
		"weekly_summary_day":  s.WeeklySummaryDay,
		"weekly_summary_time": s.WeeklySummaryTime,
		"admin_emails":        emails,
	}
}

func optional(f map[string]interface{}, key, v string) {
	if v != "" {
		f[key] = v
	}
}
