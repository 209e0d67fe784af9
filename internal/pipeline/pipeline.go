// Package pipeline orchestrates scraping runs: the full season rebuild, the
// fixture and results pollers, and summary regeneration. Every run is
// sequential and reports what it did through a RunResult.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/reconcile"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

// Fetcher returns a parsed page. *fetch.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Deps are constructed by the command and passed to every run.
type Deps struct {
	Store    store.Store
	Fetcher  Fetcher
	Upserter *reconcile.Upserter
	Config   *config.Config
	Logger   *slog.Logger
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) location() *time.Location {
	if d.Config.Timezone != nil {
		return d.Config.Timezone
	}
	return time.Local
}

// ---------------------------------------------------------------------------
// Run results
// ---------------------------------------------------------------------------

// RunResult tracks counts and errors from one run. Errors are per-unit
// failures that were logged and skipped; a run that returns an error
// stopped early.
type RunResult struct {
	Purged        int
	Archived      int
	Competitions  int
	Grades        int
	ClubsCreated  int
	Teams         int
	TeamConflicts int

	RoundsFetched  int
	CardsDropped   int
	UnmatchedTeams int
	GamesFound     int
	GamesCreated   int
	GamesUpdated   int

	TeamSummaries int
	ClubSummaries int

	Errors []string
}

// Add merges another RunResult into this one.
func (r *RunResult) Add(other RunResult) {
	r.Purged += other.Purged
	r.Archived += other.Archived
	r.Competitions += other.Competitions
	r.Grades += other.Grades
	r.ClubsCreated += other.ClubsCreated
	r.Teams += other.Teams
	r.TeamConflicts += other.TeamConflicts
	r.RoundsFetched += other.RoundsFetched
	r.CardsDropped += other.CardsDropped
	r.UnmatchedTeams += other.UnmatchedTeams
	r.GamesFound += other.GamesFound
	r.GamesCreated += other.GamesCreated
	r.GamesUpdated += other.GamesUpdated
	r.TeamSummaries += other.TeamSummaries
	r.ClubSummaries += other.ClubSummaries
	r.Errors = append(r.Errors, other.Errors...)
}

// AddError records an error message.
func (r *RunResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *RunResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *RunResult) Summary() string {
	return fmt.Sprintf(
		"competitions=%d grades=%d clubs_created=%d teams=%d conflicts=%d rounds=%d games=%d created=%d updated=%d team_summaries=%d club_summaries=%d errors=%d",
		r.Competitions, r.Grades, r.ClubsCreated, r.Teams, r.TeamConflicts,
		r.RoundsFetched, r.GamesFound, r.GamesCreated, r.GamesUpdated,
		r.TeamSummaries, r.ClubSummaries, len(r.Errors),
	)
}

// ---------------------------------------------------------------------------
// Store reads
// ---------------------------------------------------------------------------

// LoadTeams returns every stored team ordered by id.
func LoadTeams(ctx context.Context, s store.Store) ([]model.Team, error) {
	docs, err := s.List(ctx, config.TeamsCollection)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return store.DecodeAll[model.Team](docs)
}

// LoadGames returns every stored game ordered by id.
func LoadGames(ctx context.Context, s store.Store) ([]model.Game, error) {
	docs, err := s.List(ctx, config.GamesCollection)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return store.DecodeAll[model.Game](docs)
}

// homeTeams keeps active home-club teams, ordered by id.
func homeTeams(teams []model.Team) []model.Team {
	var out []model.Team
	for _, t := range teams {
		if t.IsHomeClubTeam && t.Active {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func docs[T model.Doc](items []T) []model.Doc {
	out := make([]model.Doc, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
