package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/enrich"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/identity"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/scrape"
)

// fixture is one (competition, fixture) pair with the home-club teams
// entered in it. Teams sharing a fixture are walked once.
type fixture struct {
	compID    string
	fixtureID string
	teams     []model.Team
}

func groupFixtures(teams []model.Team) []fixture {
	index := map[[2]string]int{}
	var out []fixture
	for _, t := range teams {
		if t.CompID == "" || t.FixtureID == "" {
			continue
		}
		key := [2]string{t.CompID, t.FixtureID}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, fixture{compID: t.CompID, fixtureID: t.FixtureID})
		}
		out[i].teams = append(out[i].teams, t)
	}
	return out
}

// CollectGames walks every fixture the given home-club teams play in and
// returns their games, enriched and de-duplicated by id.
func CollectGames(ctx context.Context, d Deps, teams []model.Team, res *RunResult) ([]model.Game, error) {
	seen := map[string]int{}
	var games []model.Game
	fixtures := groupFixtures(teams)
	for i, fx := range fixtures {
		if err := ctx.Err(); err != nil {
			return games, err
		}
		d.Logger.Info("walking fixture",
			"progress", fmt.Sprintf("%d/%d", i+1, len(fixtures)),
			"team", fx.teams[0].Name, "comp_id", fx.compID, "fixture_id", fx.fixtureID)

		found, err := walkFixture(ctx, d, fx, res)
		if err != nil {
			return games, err
		}
		for _, g := range found {
			if j, ok := seen[g.ID]; ok {
				games[j] = g
				continue
			}
			seen[g.ID] = len(games)
			games = append(games, g)
		}
		d.Logger.Info("fixture done", "fixture_id", fx.fixtureID, "games", len(found))
	}
	res.GamesFound += len(games)
	return games, nil
}

// walkFixture reads rounds from 1 until MaxEmptyRounds consecutive empty
// rounds past round 1, or MaxRounds. A round with cards but none of ours
// (a bye) does not count as empty. A round that cannot be fetched does.
func walkFixture(ctx context.Context, d Deps, fx fixture, res *RunResult) ([]model.Game, error) {
	cfg := d.Config
	maxEmpty := cfg.MaxEmptyRounds
	if maxEmpty < 1 {
		maxEmpty = 1
	}

	var games []model.Game
	empty := 0
	for round := 1; round <= cfg.MaxRounds; round++ {
		url := cfg.RoundURL(fx.compID, fx.fixtureID, round)
		rc := scrape.RoundContext{
			Round:    round,
			HomeClub: cfg.HomeClub.Name,
			BaseURL:  url,
			Location: d.location(),
			Now:      d.now(),
			Logger:   d.Logger,
		}

		var rr scrape.RoundResult
		doc, err := d.Fetcher.Fetch(ctx, url)
		switch {
		case err != nil && ctx.Err() != nil:
			return games, ctx.Err()
		case err != nil:
			d.Logger.Warn("round fetch failed", "url", url, "error", err)
			res.AddErrorf("fetch %s: %v", url, err)
			rr = scrape.RoundResult{Kind: scrape.RoundEmpty}
		default:
			rr = scrape.ParseRound(doc, rc)
		}
		res.RoundsFetched++
		res.CardsDropped += rr.Dropped

		if rr.Kind == scrape.RoundEmpty {
			if round == 1 {
				continue
			}
			empty++
			if empty >= maxEmpty {
				d.Logger.Info("no games in round, stopping", "fixture_id", fx.fixtureID, "round", round)
				break
			}
			continue
		}
		empty = 0

		d.Logger.Debug("round parsed", "fixture_id", fx.fixtureID, "round", round,
			"cards", rr.Total, "ours", len(rr.Cards), "strategy", rr.Strategy)
		for _, card := range rr.Cards {
			games = append(games, buildGame(d, fx, round, card, res))
		}
	}
	return games, nil
}

// buildGame turns a scraped card into an enriched game document.
func buildGame(d Deps, fx fixture, round int, card scrape.GameCard, res *RunResult) model.Game {
	cfg := d.Config
	team := fx.teams[0]

	g := model.Game{
		URL:           card.URL,
		Date:          card.Date,
		Venue:         card.Venue,
		Status:        model.DeriveStatus(card.Date, d.now(), card.HomeScore, card.AwayScore),
		Round:         round,
		CompID:        fx.compID,
		FixtureID:     fx.fixtureID,
		CompetitionID: team.CompetitionID,
		GradeID:       team.GradeID,
		GradeName:     team.GradeName,
		Type:          team.Type,
		Gender:        team.Gender,
		HomeTeam:      side(d, fx, card.HomeLabel, card.HomeTeamSourceID, card.HomeScore, res),
		AwayTeam:      side(d, fx, card.AwayLabel, card.AwayTeamSourceID, card.AwayScore, res),
		Version:       model.SchemaVersion,
	}
	if card.SourceGameID != "" {
		g.SourceGameID = card.SourceGameID
		g.ID = identity.SourceGameID(card.SourceGameID)
	} else {
		g.ID = identity.GameID(fx.compID, fx.fixtureID, round, card.HomeLabel, card.AwayLabel)
	}
	return enrich.Enhance(g, cfg.HomeClub.Name, d.location())
}

// side resolves one team of a card. Home-club labels are matched against
// the fixture's known teams; opponents keep the site's team id when the
// card links one and a placeholder otherwise.
func side(d Deps, fx fixture, label, sourceID string, score *int, res *RunResult) model.GameSide {
	clubName, clubID := identity.ExtractClubInfo(label)
	s := model.GameSide{Name: label, Club: clubName, ClubID: clubID, Score: score}

	if !identity.InvolvesClub(label, d.Config.HomeClub.Name) {
		if sourceID != "" {
			s.ID = identity.TeamID(sourceID)
		} else {
			s.ID = identity.OpponentTeamID(clubID, fx.fixtureID)
		}
		return s
	}

	known := make([]identity.TeamRef, len(fx.teams))
	for i, t := range fx.teams {
		if sourceID != "" && t.ID == identity.TeamID(sourceID) {
			s.ID = t.ID
			return s
		}
		known[i] = identity.TeamRef{ID: t.ID, Name: t.Name, FixtureID: t.FixtureID}
	}
	id, tier := identity.FindBestTeamMatch(label, fx.fixtureID, known)
	if tier == identity.MatchNone {
		nearest, sim := identity.NearestTeam(label, known)
		d.Logger.Warn("unmatched home club team", "label", label, "fixture_id", fx.fixtureID,
			"nearest", nearest.Name, "similarity", fmt.Sprintf("%.2f", sim))
		res.UnmatchedTeams++
		return s
	}
	d.Logger.Debug("matched team", "label", label, "team_id", id, "tier", tier.String())
	s.ID = id
	return s
}

// ---------------------------------------------------------------------------
// Pollers
// ---------------------------------------------------------------------------

// PollFixtures re-walks every fixture of the stored home-club teams and
// upserts what it finds. Summaries are rebuilt when any game was written.
func PollFixtures(ctx context.Context, d Deps) (RunResult, error) {
	return poll(ctx, d, "fixtures", nil)
}

// PollResults is PollFixtures limited to games dated within the configured
// window around now.
func PollResults(ctx context.Context, d Deps) (RunResult, error) {
	now := d.now()
	from := now.Add(-d.Config.ResultsLookback)
	to := now.Add(d.Config.ResultsLookahead)
	d.Logger.Info("polling results window",
		"from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly))
	return poll(ctx, d, "results", func(g model.Game) bool {
		return !g.Date.Before(from) && !g.Date.After(to)
	})
}

func poll(ctx context.Context, d Deps, name string, keep func(model.Game) bool) (RunResult, error) {
	var res RunResult
	start := time.Now()
	if d.Upserter.DryRun() {
		d.Logger.Info("running in dry run mode, no writes will be made")
	}

	stored, err := LoadTeams(ctx, d.Store)
	if err != nil {
		return res, err
	}
	teams := homeTeams(stored)
	if len(teams) == 0 {
		d.Logger.Warn("no home club teams found", "club", d.Config.HomeClub.Name)
		return res, nil
	}
	d.Logger.Info("polling "+name, "teams", len(teams))

	games, err := CollectGames(ctx, d, teams, &res)
	if err != nil {
		return res, err
	}
	if keep != nil {
		kept := games[:0]
		for _, g := range games {
			if keep(g) {
				kept = append(kept, g)
			}
		}
		games = kept
	}
	if len(games) == 0 {
		d.Logger.Warn("no games found")
		return res, nil
	}

	if err := writeGames(ctx, d, games, &res); err != nil {
		return res, err
	}
	if res.GamesCreated+res.GamesUpdated > 0 || d.Upserter.DryRun() {
		if err := RebuildSummaries(ctx, d, games, &res); err != nil {
			return res, err
		}
	}

	d.Logger.Info(name+" poll complete", "elapsed", time.Since(start).Round(time.Millisecond), "summary", res.Summary())
	return res, nil
}

func writeGames(ctx context.Context, d Deps, games []model.Game, res *RunResult) error {
	sort.SliceStable(games, func(i, j int) bool { return games[i].Date.Before(games[j].Date) })
	up, err := d.Upserter.Upsert(ctx, config.GamesCollection, docs(games), nil)
	if err != nil {
		return fmt.Errorf("upsert games: %w", err)
	}
	res.GamesCreated += up.Created
	res.GamesUpdated += up.Updated
	return nil
}
