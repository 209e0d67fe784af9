package enrich

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
)

var melbourne, _ = time.LoadLocation("Australia/Melbourne")

func game(round int, status model.GameStatus, home, away string, hs, as *int) model.Game {
	return model.Game{
		ID:       "g",
		Date:     time.Date(2025, 4, 5, 14, 30, 0, 0, melbourne),
		Status:   status,
		Round:    round,
		Type:     "Senior",
		Gender:   "Men",
		HomeTeam: model.GameSide{Name: home, ID: idFor(home), Score: hs},
		AwayTeam: model.GameSide{Name: away, ID: idFor(away), Score: as},
	}
}

func idFor(name string) string {
	if name == "Mentone Hockey Club" {
		return "team_1"
	}
	return "opponent_" + name
}

const mentone = "Mentone Hockey Club"

func TestEnhanceCalendarFields(t *testing.T) {
	g := Enhance(game(1, model.StatusScheduled, mentone, "Hawthorn", nil, nil), "Mentone", melbourne)
	require.NotNil(t, g.GameMeta)
	assert.Equal(t, "Saturday", g.DayOfWeek)
	assert.True(t, g.IsWeekendGame)
	assert.Equal(t, 14, g.WeekNumber)
	assert.Equal(t, "April", g.Month)
	assert.Equal(t, Afternoon, g.TimeCategory)
	assert.True(t, g.HomeClubIsHome)
	assert.False(t, g.HomeClubIsAway)
	assert.True(t, g.IsHomeClubGame)
	assert.Nil(t, g.Result)
}

func TestEnhanceUsesLocalHour(t *testing.T) {
	g := game(1, model.StatusScheduled, mentone, "Hawthorn", nil, nil)
	// 09:00 UTC is 19:00 in Melbourne in April.
	g.Date = time.Date(2025, 4, 9, 9, 0, 0, 0, time.UTC)
	g = Enhance(g, "Mentone", melbourne)
	assert.Equal(t, Evening, g.TimeCategory)
	assert.Equal(t, "Wednesday", g.DayOfWeek)
	assert.False(t, g.IsWeekendGame)
}

func TestEnhanceResultFromHomeClubPerspective(t *testing.T) {
	tests := []struct {
		name       string
		home, away string
		hs, as     int
		want       model.Result
	}{
		{"home win", mentone, "Hawthorn", 3, 1, model.ResultWin},
		{"away loss", "Hawthorn", mentone, 3, 1, model.ResultLoss},
		{"away win", "Hawthorn", mentone, 0, 2, model.ResultWin},
		{"draw", mentone, "Hawthorn", 2, 2, model.ResultDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Enhance(game(1, model.StatusCompleted, tt.home, tt.away, model.IntPtr(tt.hs), model.IntPtr(tt.as)), "Mentone", melbourne)
			require.NotNil(t, g.Result)
			assert.Equal(t, tt.want, *g.Result)
		})
	}
}

func TestEnhanceNoResultUntilCompleted(t *testing.T) {
	g := Enhance(game(1, model.StatusInProgress, mentone, "Hawthorn", model.IntPtr(1), nil), "Mentone", melbourne)
	assert.Nil(t, g.Result)
}

func TestTimeCategoryBoundaries(t *testing.T) {
	assert.Equal(t, Morning, timeCategory(11))
	assert.Equal(t, Afternoon, timeCategory(12))
	assert.Equal(t, Afternoon, timeCategory(16))
	assert.Equal(t, Evening, timeCategory(17))
}

func enriched(games ...model.Game) []model.Game {
	out := make([]model.Game, len(games))
	for i, g := range games {
		out[i] = Enhance(g, "Mentone", melbourne)
	}
	return out
}

func TestAggregateTeamSummaries(t *testing.T) {
	games := enriched(
		game(1, model.StatusCompleted, mentone, "Hawthorn", model.IntPtr(3), model.IntPtr(1)),
		game(1, model.StatusCompleted, "Camberwell", mentone, model.IntPtr(0), model.IntPtr(2)),
		game(1, model.StatusCompleted, mentone, "Doncaster", model.IntPtr(1), model.IntPtr(1)),
		game(1, model.StatusScheduled, mentone, "Brunswick", nil, nil),
		game(2, model.StatusInProgress, mentone, "Hawthorn", nil, nil),
		game(0, model.StatusCompleted, mentone, "Nobody", model.IntPtr(9), model.IntPtr(0)),
		game(3, model.StatusCompleted, "Hawthorn", "Camberwell", model.IntPtr(1), model.IntPtr(0)),
	)
	byTeam := GroupGamesByTeam(games)
	require.Len(t, byTeam, 1)
	require.Len(t, byTeam["team_1"], 6)

	got := AggregateTeamSummaries(byTeam)
	want := []model.TeamSummary{
		{
			ID: "summary_team_1_round_1", TeamID: "team_1", TeamName: mentone, Round: 1,
			Type: "Senior", Gender: "Men",
			GamesPlayed: 3, GoalsFor: 6, GoalsAgainst: 2, GoalDifference: 4,
			Wins: 2, Draws: 1, Points: 7,
			StatusCounts: map[string]int{"completed": 3, "scheduled": 1, "in_progress": 0},
		},
		{
			ID: "summary_team_1_round_2", TeamID: "team_1", TeamName: mentone, Round: 2,
			Type: "Senior", Gender: "Men",
			StatusCounts: map[string]int{"completed": 0, "scheduled": 0, "in_progress": 1},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.TeamSummary{}, "Stamps")); diff != "" {
		t.Errorf("team summaries mismatch (-want +got):\n%s", diff)
	}
}

func TestClubDerbyCreditsBothTeams(t *testing.T) {
	derby := game(4, model.StatusCompleted, mentone, "Mentone Hockey Club 2", model.IntPtr(2), model.IntPtr(1))
	derby.AwayTeam.ID = "team_2"
	byTeam := GroupGamesByTeam(enriched(derby))
	require.Len(t, byTeam, 2)
	require.Len(t, byTeam["team_1"], 1)
	require.Len(t, byTeam["team_2"], 1)

	got := AggregateTeamSummaries(byTeam)
	require.Len(t, got, 2)

	home, away := got[0], got[1]
	assert.Equal(t, "team_1", home.TeamID)
	assert.Equal(t, mentone, home.TeamName)
	assert.Equal(t, 1, home.Wins)
	assert.Equal(t, 2, home.GoalsFor)
	assert.Equal(t, 3, home.Points)

	assert.Equal(t, "team_2", away.TeamID)
	assert.Equal(t, "Mentone Hockey Club 2", away.TeamName)
	assert.Equal(t, 1, away.Losses)
	assert.Equal(t, 1, away.GoalsFor)
	assert.Equal(t, 2, away.GoalsAgainst)
	assert.Equal(t, -1, away.GoalDifference)
	assert.Equal(t, 0, away.Points)
}

func TestAggregateClubSummaries(t *testing.T) {
	summaries := []model.TeamSummary{
		{TeamID: "team_1", Type: "Senior", Gender: "Men", GamesPlayed: 2, Wins: 1, Losses: 1, GoalsFor: 4, GoalsAgainst: 3},
		{TeamID: "team_1", Type: "Senior", Gender: "Men", GamesPlayed: 2, Wins: 2, GoalsFor: 5, GoalsAgainst: 0},
		{TeamID: "team_2", Type: "Senior", Gender: "Men", GamesPlayed: 0},
		{TeamID: "team_3", Type: "Junior", Gender: "Girls", GamesPlayed: 0},
	}
	got := AggregateClubSummaries("mentone", summaries)
	require.Len(t, got, 2)

	junior := got[0]
	assert.Equal(t, "club_summary_mentone_junior_girls", junior.ID)
	assert.Equal(t, 1, junior.TotalTeams)
	assert.Zero(t, junior.WinPercentage)

	senior := got[1]
	assert.Equal(t, "Senior", senior.Division)
	assert.Equal(t, 2, senior.TotalTeams)
	assert.Equal(t, 4, senior.TotalGamesPlayed)
	assert.Equal(t, 3, senior.Wins)
	assert.Equal(t, 1, senior.Losses)
	assert.Equal(t, 6, senior.GoalDifference)
	assert.InDelta(t, 75.0, senior.WinPercentage, 1e-9)
}
