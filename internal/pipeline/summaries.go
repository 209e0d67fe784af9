package pipeline

import (
	"context"
	"fmt"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/enrich"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

// RebuildSummaries regenerates team and club summaries from the stored
// games overlaid with this run's games. Summaries are never patched
// incrementally: every run recomputes them from the whole corpus, games of
// archived teams included.
func RebuildSummaries(ctx context.Context, d Deps, runGames []model.Game, res *RunResult) error {
	stored, err := LoadGames(ctx, d.Store)
	if err != nil {
		return err
	}

	corpus := make([]model.Game, 0, len(stored)+len(runGames))
	index := make(map[string]int, len(stored)+len(runGames))
	for _, g := range append(stored, runGames...) {
		g = enrich.Enhance(g, d.Config.HomeClub.Name, d.location())
		if i, ok := index[g.ID]; ok {
			corpus[i] = g
			continue
		}
		index[g.ID] = len(corpus)
		corpus = append(corpus, g)
	}

	teamSummaries := enrich.AggregateTeamSummaries(enrich.GroupGamesByTeam(corpus))
	if len(teamSummaries) == 0 {
		d.Logger.Info("no team summaries to update")
		return nil
	}
	up, err := d.Upserter.Upsert(ctx, config.TeamSummariesCollection, docs(teamSummaries), nil)
	if err != nil {
		return fmt.Errorf("upsert team summaries: %w", err)
	}
	res.TeamSummaries += len(teamSummaries)
	d.Logger.Info("team summaries updated", "count", len(teamSummaries), "created", up.Created, "updated", up.Updated)

	clubSummaries := enrich.AggregateClubSummaries(d.Config.HomeClub.ID, teamSummaries)
	up, err = d.Upserter.Upsert(ctx, config.ClubSummariesCollection, docs(clubSummaries), nil)
	if err != nil {
		return fmt.Errorf("upsert club summaries: %w", err)
	}
	res.ClubSummaries += len(clubSummaries)
	d.Logger.Info("club summaries updated", "count", len(clubSummaries), "created", up.Created, "updated", up.Updated)
	return nil
}

// Summaries rebuilds summaries from stored games alone.
func Summaries(ctx context.Context, d Deps) (RunResult, error) {
	var res RunResult
	err := RebuildSummaries(ctx, d, nil, &res)
	return res, err
}

// LoadClubSummaries returns the stored club summaries ordered by id.
func LoadClubSummaries(ctx context.Context, d Deps) ([]model.ClubSummary, error) {
	list, err := d.Store.List(ctx, config.ClubSummariesCollection)
	if err != nil {
		return nil, fmt.Errorf("list club summaries: %w", err)
	}
	return store.DecodeAll[model.ClubSummary](list)
}
