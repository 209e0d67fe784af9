package identity

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDsAreDeterministic(t *testing.T) {
	for i := 0; i < 2; i++ {
		assert.Equal(t, "mentone", ClubID("Mentone"))
		assert.Equal(t, "box_hill_ringwood", ClubID("Box Hill-Ringwood"))
		assert.Equal(t, "comp_5", CompetitionID("5"))
		assert.Equal(t, "grade_9", GradeID("9"))
		assert.Equal(t, "team_1234", TeamID("1234"))
		assert.Equal(t, "summary_team_1234_round_3", SummaryID("team_1234", 3))
		assert.Equal(t, "club_summary_mentone_senior_women", ClubSummaryID("mentone", "Senior", "Women"))
		assert.Equal(t, "opponent_camberwell_9", OpponentTeamID("camberwell", "9"))
		assert.Equal(t, "9_camberwell", FallbackTeamSourceID("9", "camberwell"))
	}
}

func TestGameIDStable(t *testing.T) {
	first := GameID("5", "9", 1, "A", "B")
	second := GameID("5", "9", 1, "A", "B")
	nextRound := GameID("5", "9", 2, "A", "B")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, nextRound)
	assert.Len(t, first, len("game_")+8)
	assert.Regexp(t, `^game_[0-9a-f]{8}$`, first)
	assert.Equal(t, "game_d29fab67", first)
}

func TestExtractClubInfo(t *testing.T) {
	cases := []struct {
		label    string
		wantName string
		wantID   string
	}{
		{"Mentone - Men's Vic League 1", "Mentone", "mentone"},
		{"  Box Hill - Women's Pennant A ", "Box Hill", "box_hill"},
		{"Camberwell Hockey Club", "Camberwell", "camberwell"},
		{"", "", ""},
	}
	for _, tc := range cases {
		name, id := ExtractClubInfo(tc.label)
		assert.Equal(t, tc.wantName, name, tc.label)
		assert.Equal(t, tc.wantID, id, tc.label)
	}
}

func TestClubCode(t *testing.T) {
	assert.Equal(t, "M", ClubCode("Mentone"))
	assert.Equal(t, "BHR", ClubCode("Box Hill ringwood"))
	assert.Equal(t, "", ClubCode(""))

	code := ClubCode("Élan ñandú Hockey")
	assert.Equal(t, "ÉÑH", code)
	assert.True(t, utf8.ValidString(code))
}

func TestTeamName(t *testing.T) {
	assert.Equal(t, "Mentone - Men's Vic League 1", TeamName("Mentone", "Men's Vic League 1 - 2025"))
	assert.Equal(t, "Mentone - U14 Girls", TeamName("Mentone", "U14 Girls"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		division string
		gender   string
	}{
		{"Men's Premier League - 2025", DivisionSenior, GenderMen},
		{"U14 Girls Metro", DivisionJunior, GenderGirls},
		{"35+ Masters Mixed", DivisionMidweek, GenderMixed},
		{"Women's Vic League 1", DivisionSenior, GenderWomen},
		{"Junior Boys Outdoor", DivisionJunior, GenderBoys},
		{"Indoor Social", DivisionIndoor, GenderUnknown},
		{"Senior Women's Pennant C", DivisionSenior, GenderWomen},
		{"Midweek Open", DivisionMidweek, GenderUnknown},
		{"", DivisionUnknown, GenderUnknown},
	}
	for _, tc := range cases {
		division, gender := Classify(tc.name)
		assert.Equal(t, tc.division, division, "division of %q", tc.name)
		assert.Equal(t, tc.gender, gender, "gender of %q", tc.name)
	}
}

func TestCompetitionType(t *testing.T) {
	assert.Equal(t, CompetitionSenior, CompetitionType("Senior Competition - 2025"))
	assert.Equal(t, CompetitionJunior, CompetitionType("Junior Competition"))
	assert.Equal(t, CompetitionJunior, CompetitionType("U10 Mixed"))
	assert.Equal(t, CompetitionMasters, CompetitionType("Masters 45+"))
	assert.Equal(t, CompetitionMasters, CompetitionType("60+ Midweek"))
	assert.Equal(t, CompetitionUnknown, CompetitionType("  "))
}

func TestSeasonFrom(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025", SeasonFrom("Senior Competition - 2025", now))
	assert.Equal(t, "2026", SeasonFrom("Senior Competition", now))
	assert.Equal(t, "2026", SeasonFrom("Senior - Outdoor", now))
}

func TestIsValidTeam(t *testing.T) {
	assert.False(t, IsValidTeam("Mentone Grammar Playing Fields"))
	assert.True(t, IsValidTeam("Mentone Hockey Club"))
	assert.False(t, IsValidTeam("Mentone Grammar Hockey Club"))
	assert.False(t, IsValidTeam("Mentone"))
	assert.True(t, IsValidTeam("CAMBERWELL HOCKEY CLUB"))
}

func TestInvolvesClub(t *testing.T) {
	assert.True(t, InvolvesClub("Mentone - Men's Vic League 1", "Mentone"))
	assert.False(t, InvolvesClub("Camberwell - Men's Vic League 1", "Mentone"))
	assert.False(t, InvolvesClub("anything", ""))
}

func TestFindBestTeamMatch(t *testing.T) {
	known := []TeamRef{
		{ID: "team_1", Name: "Mentone - Men's Vic League 1", FixtureID: "100"},
		{ID: "team_2", Name: "Mentone - Women's Pennant B", FixtureID: "200"},
	}

	id, tier := FindBestTeamMatch("Mentone - Women's Pennant B", "999", known)
	assert.Equal(t, "team_2", id)
	assert.Equal(t, MatchExact, tier)

	id, tier = FindBestTeamMatch("Mentone Hockey Club", "100", known)
	assert.Equal(t, "team_1", id)
	assert.Equal(t, MatchGrade, tier)

	id, tier = FindBestTeamMatch("Mentone - Men's Vic League 1 (Reserves)", "999", known)
	assert.Equal(t, "team_1", id)
	assert.Equal(t, MatchSubstring, tier)

	id, tier = FindBestTeamMatch("Camberwell Hockey Club", "999", known)
	assert.Empty(t, id)
	assert.Equal(t, MatchNone, tier)
	assert.Equal(t, "none", tier.String())
}

func TestNearestTeam(t *testing.T) {
	known := []TeamRef{
		{ID: "team_1", Name: "Mentone - Men's Vic League 1"},
		{ID: "team_2", Name: "Mentone - Women's Pennant B"},
	}
	best, score := NearestTeam("Mentone - Womens Pennant B", known)
	require.Equal(t, "team_2", best.ID)
	assert.Greater(t, score, 0.9)

	_, score = NearestTeam("x", nil)
	assert.Zero(t, score)
}
