// Package enrich derives dashboard fields from games and rolls completed
// games up into per-team and per-club summaries.
package enrich

import (
	"sort"
	"time"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/identity"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
)

// Time-of-day buckets.
const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
)

// Enhance returns g with its derived metadata filled in. Calendar fields
// are computed in loc so a 7pm Melbourne game is an evening game wherever
// the process runs. homeClub is matched as a substring of the team names.
func Enhance(g model.Game, homeClub string, loc *time.Location) model.Game {
	if loc == nil {
		loc = time.Local
	}
	d := g.Date.In(loc)
	_, week := d.ISOWeek()

	meta := &model.GameMeta{
		DayOfWeek:      d.Weekday().String(),
		IsWeekendGame:  d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
		WeekNumber:     week,
		Month:          d.Month().String(),
		TimeCategory:   timeCategory(d.Hour()),
		HomeClubIsHome: identity.InvolvesClub(g.HomeTeam.Name, homeClub),
		HomeClubIsAway: identity.InvolvesClub(g.AwayTeam.Name, homeClub),
	}
	meta.IsHomeClubGame = meta.HomeClubIsHome || meta.HomeClubIsAway

	if g.Status == model.StatusCompleted && g.HomeTeam.Score != nil && g.AwayTeam.Score != nil {
		home, away := *g.HomeTeam.Score, *g.AwayTeam.Score
		switch {
		case meta.HomeClubIsHome:
			meta.Result = result(home, away)
		case meta.HomeClubIsAway:
			meta.Result = result(away, home)
		}
	}

	g.GameMeta = meta
	return g
}

func timeCategory(hour int) string {
	switch {
	case hour < 12:
		return Morning
	case hour < 17:
		return Afternoon
	}
	return Evening
}

func result(us, them int) *model.Result {
	r := model.ResultDraw
	switch {
	case us > them:
		r = model.ResultWin
	case us < them:
		r = model.ResultLoss
	}
	return &r
}

// GroupGamesByTeam keys enriched games by the id of each home-club team
// that played in them. A game between two home-club teams is listed under
// both. Sides without a resolved team id are left out.
func GroupGamesByTeam(games []model.Game) map[string][]model.Game {
	out := make(map[string][]model.Game)
	for _, g := range games {
		if g.GameMeta == nil {
			continue
		}
		if g.HomeClubIsHome && g.HomeTeam.ID != "" {
			out[g.HomeTeam.ID] = append(out[g.HomeTeam.ID], g)
		}
		if g.HomeClubIsAway && g.AwayTeam.ID != "" && g.AwayTeam.ID != g.HomeTeam.ID {
			out[g.AwayTeam.ID] = append(out[g.AwayTeam.ID], g)
		}
	}
	return out
}

// sides returns the game from teamID's point of view. Games the team did
// not play in fall back to the home club's side.
func sides(g model.Game, teamID string) (us, them model.GameSide) {
	switch teamID {
	case g.HomeTeam.ID:
		return g.HomeTeam, g.AwayTeam
	case g.AwayTeam.ID:
		return g.AwayTeam, g.HomeTeam
	}
	us, them, _ = g.HomeClubSide()
	return us, them
}

// ---------------------------------------------------------------------------
// Summaries
// ---------------------------------------------------------------------------

// AggregateTeamSummaries builds one summary per team per round. Every game
// counts towards status_counts; only completed games count towards the
// tally. Output is ordered by team id then round.
func AggregateTeamSummaries(byTeam map[string][]model.Game) []model.TeamSummary {
	teamIDs := make([]string, 0, len(byTeam))
	for id := range byTeam {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	var out []model.TeamSummary
	for _, teamID := range teamIDs {
		games := byTeam[teamID]
		if len(games) == 0 {
			continue
		}
		sample := games[0]
		us, _ := sides(sample, teamID)

		rounds := make(map[int]*model.TeamSummary)
		for _, g := range games {
			if g.Round == 0 {
				continue
			}
			s, ok := rounds[g.Round]
			if !ok {
				s = &model.TeamSummary{
					ID:       identity.SummaryID(teamID, g.Round),
					TeamID:   teamID,
					TeamName: us.Name,
					Round:    g.Round,
					Type:     orUnknown(sample.Type),
					Gender:   orUnknown(sample.Gender),
					StatusCounts: map[string]int{
						string(model.StatusCompleted):  0,
						string(model.StatusScheduled):  0,
						string(model.StatusInProgress): 0,
					},
				}
				rounds[g.Round] = s
			}
			tally(s, g, teamID)
		}

		nums := make([]int, 0, len(rounds))
		for n := range rounds {
			nums = append(nums, n)
		}
		sort.Ints(nums)
		for _, n := range nums {
			s := rounds[n]
			s.GoalDifference = s.GoalsFor - s.GoalsAgainst
			s.Points = 3*s.Wins + s.Draws
			out = append(out, *s)
		}
	}
	return out
}

func tally(s *model.TeamSummary, g model.Game, teamID string) {
	status := g.Status
	if status == "" {
		status = model.StatusScheduled
	}
	s.StatusCounts[string(status)]++
	if status != model.StatusCompleted {
		return
	}

	s.GamesPlayed++
	us, them := sides(g, teamID)
	s.GoalsFor += score(us.Score)
	s.GoalsAgainst += score(them.Score)

	if us.Score == nil || them.Score == nil {
		return
	}
	switch *result(*us.Score, *them.Score) {
	case model.ResultWin:
		s.Wins++
	case model.ResultLoss:
		s.Losses++
	case model.ResultDraw:
		s.Draws++
	}
}

func score(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func orUnknown(s string) string {
	if s == "" {
		return identity.DivisionUnknown
	}
	return s
}

// AggregateClubSummaries rolls team summaries up by (type, gender) for one
// club. Output is ordered by type then gender.
func AggregateClubSummaries(clubID string, summaries []model.TeamSummary) []model.ClubSummary {
	type key struct{ division, gender string }
	groups := make(map[key]*model.ClubSummary)
	teams := make(map[key]map[string]bool)

	for _, s := range summaries {
		k := key{orUnknown(s.Type), orUnknown(s.Gender)}
		cs, ok := groups[k]
		if !ok {
			cs = &model.ClubSummary{
				ID:       identity.ClubSummaryID(clubID, k.division, k.gender),
				ClubID:   clubID,
				Division: k.division,
				Gender:   k.gender,
			}
			groups[k] = cs
			teams[k] = make(map[string]bool)
		}
		teams[k][s.TeamID] = true
		cs.TotalGamesPlayed += s.GamesPlayed
		cs.Wins += s.Wins
		cs.Losses += s.Losses
		cs.Draws += s.Draws
		cs.GoalsFor += s.GoalsFor
		cs.GoalsAgainst += s.GoalsAgainst
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].division != keys[j].division {
			return keys[i].division < keys[j].division
		}
		return keys[i].gender < keys[j].gender
	})

	out := make([]model.ClubSummary, 0, len(keys))
	for _, k := range keys {
		cs := groups[k]
		cs.TotalTeams = len(teams[k])
		cs.GoalDifference = cs.GoalsFor - cs.GoalsAgainst
		if cs.TotalGamesPlayed > 0 {
			cs.WinPercentage = float64(cs.Wins) / float64(cs.TotalGamesPlayed) * 100
		}
		out = append(out, *cs)
	}
	return out
}
