package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/export"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/identity"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/reconcile"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/scrape"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

// ErrNoCompetitions is returned when the landing page lists nothing.
var ErrNoCompetitions = errors.New("no competitions found")

// BuildOptions select the variant of a season rebuild.
type BuildOptions struct {
	// Fresh deletes every managed collection before rebuilding. Otherwise
	// teams from earlier seasons are archived and everything else is
	// upserted in place.
	Fresh bool
	// ExportPath, when set, receives the discovered teams as JSON.
	ExportPath string
	// SkipGames stops after teams, clubs and settings.
	SkipGames bool
}

// catalogue is the competitions and grades of one landing page, keyed the
// way team discovery looks them up.
type catalogue struct {
	listings     []scrape.CompetitionListing
	competitions map[string]model.Competition // by site comp id
	grades       map[string]model.Grade       // by site fixture id
}

// Rebuild discovers the whole season from the landing page: competitions
// and grades first, then teams and clubs from each grade's first round,
// then settings, and finally the home club's games and summaries.
func Rebuild(ctx context.Context, d Deps, opts BuildOptions) (RunResult, error) {
	var res RunResult
	start := time.Now()
	if d.Upserter.DryRun() {
		d.Logger.Info("running in dry run mode, no writes will be made")
	}

	if opts.Fresh {
		deleted, err := d.Upserter.Purge(ctx, config.ManagedCollections)
		if err != nil {
			return res, err
		}
		for _, n := range deleted {
			res.Purged += n
		}
	} else {
		n, err := archiveOldTeams(ctx, d)
		if err != nil {
			return res, err
		}
		res.Archived = n
	}

	cat, err := discoverCompetitions(ctx, d)
	if err != nil {
		return res, err
	}
	if err := writeCatalogue(ctx, d, cat, &res); err != nil {
		return res, err
	}

	teams, err := discoverTeams(ctx, d, cat, &res)
	if err != nil {
		return res, err
	}
	up, err := d.Upserter.Upsert(ctx, config.TeamsCollection, docs(teams), nil)
	if err != nil {
		return res, fmt.Errorf("upsert teams: %w", err)
	}
	res.Teams = len(teams)
	d.Logger.Info("team discovery complete", "teams", len(teams), "created", up.Created, "updated", up.Updated)

	if opts.ExportPath != "" {
		if err := export.WriteTeamsJSON(opts.ExportPath, teams); err != nil {
			d.Logger.Error("team export failed", "path", opts.ExportPath, "error", err)
			res.AddErrorf("export teams: %v", err)
		} else {
			d.Logger.Info("teams exported", "path", opts.ExportPath, "teams", len(teams))
		}
	}

	if _, err := d.Upserter.Upsert(ctx, config.SettingsCollection, []model.Doc{model.DefaultSettings()}, nil); err != nil {
		return res, fmt.Errorf("seed settings: %w", err)
	}

	if !opts.SkipGames {
		games, err := CollectGames(ctx, d, homeTeams(teams), &res)
		if err != nil {
			return res, err
		}
		if len(games) > 0 {
			if err := writeGames(ctx, d, games, &res); err != nil {
				return res, err
			}
			if err := RebuildSummaries(ctx, d, games, &res); err != nil {
				return res, err
			}
		}
	}

	d.Logger.Info("season build complete", "elapsed", time.Since(start).Round(time.Millisecond), "summary", res.Summary())
	return res, nil
}

// archiveOldTeams marks teams from earlier seasons inactive.
func archiveOldTeams(ctx context.Context, d Deps) (int, error) {
	year := d.now().Year()
	if d.Upserter.DryRun() {
		d.Logger.Info("dry run: would archive teams from earlier seasons", "before", year)
		return 0, nil
	}
	teams, err := LoadTeams(ctx, d.Store)
	if err != nil {
		return 0, err
	}

	size := d.Config.BatchSize
	if size < 1 {
		size = reconcile.DefaultBatchSize
	}
	n := 0
	batch := d.Store.NewBatch()
	for _, t := range teams {
		season, err := strconv.Atoi(t.Season)
		if err != nil || season >= year || !t.Active {
			continue
		}
		batch.Update(config.TeamsCollection, t.ID, map[string]interface{}{
			"active":     false,
			"updated_at": store.ServerTimestamp,
		})
		if batch.Len() >= size {
			if err := batch.Commit(ctx); err != nil {
				return n, fmt.Errorf("archive teams: %w", err)
			}
			n += size
			batch = d.Store.NewBatch()
		}
	}
	if rest := batch.Len(); rest > 0 {
		if err := batch.Commit(ctx); err != nil {
			return n, fmt.Errorf("archive teams: %w", err)
		}
		n += rest
	}
	d.Logger.Info("archived teams from earlier seasons", "before", year, "count", n)
	return n, nil
}

// discoverCompetitions reads the landing page and builds a competition and
// grade for every listing.
func discoverCompetitions(ctx context.Context, d Deps) (catalogue, error) {
	cat := catalogue{
		competitions: map[string]model.Competition{},
		grades:       map[string]model.Grade{},
	}
	doc, err := d.Fetcher.Fetch(ctx, d.Config.BaseURL)
	if err != nil {
		return cat, fmt.Errorf("fetch landing page: %w", err)
	}
	listings, strategy := scrape.Competitions(doc, d.Config.SiteURL)
	if len(listings) == 0 {
		return cat, ErrNoCompetitions
	}
	d.Logger.Info("competitions found", "count", len(listings), "strategy", strategy)
	cat.listings = listings

	now := d.now()
	for _, l := range listings {
		heading := l.Heading
		if heading == "" {
			heading = l.Name
		}
		comp := model.Competition{
			ID:         identity.CompetitionID(l.CompID),
			OriginalID: l.CompID,
			Name:       heading,
			Type:       identity.CompetitionType(heading),
			Season:     identity.SeasonFrom(heading, now),
			FixtureID:  l.FixtureID,
			Active:     true,
			Version:    model.SchemaVersion,
		}
		cat.competitions[l.CompID] = comp

		division, gender := identity.Classify(l.Name)
		cat.grades[l.FixtureID] = model.Grade{
			ID:              identity.GradeID(l.FixtureID),
			OriginalID:      l.FixtureID,
			Name:            l.Name,
			CompID:          l.CompID,
			CompetitionID:   comp.ID,
			CompetitionName: comp.Name,
			Type:            division,
			Gender:          gender,
			Season:          identity.SeasonFrom(l.Name, now),
			Active:          true,
			Version:         model.SchemaVersion,
		}
	}
	return cat, nil
}

// writeCatalogue stores every competition and grade before any team is
// discovered so team references always resolve.
func writeCatalogue(ctx context.Context, d Deps, cat catalogue, res *RunResult) error {
	var comps, grades []model.Doc
	seenComp := map[string]bool{}
	for _, l := range cat.listings {
		if !seenComp[l.CompID] {
			seenComp[l.CompID] = true
			comps = append(comps, cat.competitions[l.CompID])
		}
		grades = append(grades, cat.grades[l.FixtureID])
	}
	if _, err := d.Upserter.Upsert(ctx, config.CompetitionsCollection, comps, nil); err != nil {
		return fmt.Errorf("upsert competitions: %w", err)
	}
	if _, err := d.Upserter.Upsert(ctx, config.GradesCollection, grades, nil); err != nil {
		return fmt.Errorf("upsert grades: %w", err)
	}
	res.Competitions = len(comps)
	res.Grades = len(grades)
	return nil
}

type teamKey struct {
	name      string
	fixtureID string
}

// discoverTeams reads round 1 of every grade and returns one team per
// (synthesized name, fixture). Two different labels collapsing onto the
// same key are logged as a conflict; the first one wins.
func discoverTeams(ctx context.Context, d Deps, cat catalogue, res *RunResult) ([]model.Team, error) {
	cfg := d.Config
	seen := map[teamKey]string{}
	clubs := map[string]bool{}
	var teams []model.Team

	for i, l := range cat.listings {
		if err := ctx.Err(); err != nil {
			return teams, err
		}
		url := cfg.RoundURL(l.CompID, l.FixtureID, 1)
		d.Logger.Info("checking grade", "progress", fmt.Sprintf("%d/%d", i+1, len(cat.listings)),
			"name", l.Name, "url", url)

		doc, err := d.Fetcher.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return teams, ctx.Err()
			}
			d.Logger.Warn("grade fetch failed", "url", url, "error", err)
			res.AddErrorf("fetch %s: %v", url, err)
			continue
		}

		comp := cat.competitions[l.CompID]
		grade := cat.grades[l.FixtureID]
		teamType := grade.Type
		if teamType == "" || teamType == identity.DivisionUnknown {
			teamType = comp.Type
		}

		for _, cand := range scrape.DiscoverTeams(doc, l.CompID) {
			clubName, clubID := identity.ExtractClubInfo(cand.Label)
			if clubID == "" {
				continue
			}
			name := identity.TeamName(clubName, l.Name)
			key := teamKey{name, l.FixtureID}
			if prev, ok := seen[key]; ok {
				if prev != cand.Label {
					d.Logger.Warn("team name conflict", "team", name, "fixture_id", l.FixtureID,
						"kept", prev, "dropped", cand.Label)
					res.TeamConflicts++
				}
				continue
			}
			seen[key] = cand.Label

			if !clubs[clubID] {
				clubs[clubID] = true
				created, err := ensureClub(ctx, d, clubName, clubID)
				if err != nil {
					return teams, err
				}
				if created {
					res.ClubsCreated++
				}
			}

			sourceID := cand.SourceID
			if sourceID == "" {
				sourceID = identity.FallbackTeamSourceID(l.FixtureID, clubID)
			}
			isHome := clubID == cfg.HomeClub.ID
			team := model.Team{
				ID:              identity.TeamID(sourceID),
				OriginalID:      sourceID,
				Name:            name,
				FixtureID:       l.FixtureID,
				CompID:          l.CompID,
				Type:            teamType,
				Gender:          grade.Gender,
				Club:            clubName,
				ClubID:          clubID,
				IsHomeClubTeam:  isHome,
				CompName:        l.Name,
				CompetitionID:   comp.ID,
				CompetitionName: comp.Name,
				GradeID:         grade.ID,
				GradeName:       grade.Name,
				Season:          grade.Season,
				Active:          true,
				Version:         model.SchemaVersion,
			}
			teams = append(teams, team)
			if isHome {
				d.Logger.Info("found home club team", "team", name, "id", team.ID, "type", team.Type, "gender", team.Gender)
			} else {
				d.Logger.Debug("found team", "team", name, "id", team.ID)
			}
		}
	}
	return teams, nil
}

// ensureClub creates a club on first sighting. Stored clubs are never
// overwritten so hand edits to colours or venues survive rebuilds.
func ensureClub(ctx context.Context, d Deps, clubName, clubID string) (bool, error) {
	home := d.Config.HomeClub
	club := model.Club{
		ID:             clubID,
		Name:           clubName,
		ShortName:      clubName,
		Code:           identity.ClubCode(clubName),
		PrimaryColor:   "#333333",
		SecondaryColor: "#ffffff",
		Active:         true,
		Version:        model.SchemaVersion,
	}
	if clubID == home.ID {
		club.Name = home.FullName()
		club.Location = home.Location
		club.HomeVenue = home.HomeVenue
		club.PrimaryColor = home.PrimaryColor
		club.SecondaryColor = home.SecondaryColor
		club.IsHomeClub = true
	}
	_, created, err := d.Upserter.GetOrCreate(ctx, config.ClubsCollection, club)
	if err != nil {
		return false, fmt.Errorf("club %s: %w", clubID, err)
	}
	return created, nil
}
