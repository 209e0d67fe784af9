package model

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 4, 14, 12, 0, 0, 0, time.UTC)
	past := now.Add(-3 * time.Hour)
	future := now.Add(48 * time.Hour)

	assert.Equal(t, StatusCompleted, DeriveStatus(past, now, IntPtr(2), IntPtr(1)))
	assert.Equal(t, StatusInProgress, DeriveStatus(past, now, IntPtr(2), nil))
	assert.Equal(t, StatusInProgress, DeriveStatus(past, now, nil, nil))
	assert.Equal(t, StatusScheduled, DeriveStatus(future, now, nil, nil))
	assert.Equal(t, StatusScheduled, DeriveStatus(now, now, IntPtr(0), IntPtr(0)))
}

func TestGameFieldsOmitUnenrichedMeta(t *testing.T) {
	g := Game{ID: "game_1", HomeTeam: GameSide{Name: "A"}, AwayTeam: GameSide{Name: "B", Score: IntPtr(3)}}
	f := g.Fields()

	assert.NotContains(t, f, "day_of_week")
	assert.NotContains(t, f, "last_polled_at")
	assert.NotContains(t, f["home_team"], "score")
	assert.Equal(t, 3, f["away_team"].(map[string]interface{})["score"])
	assert.Equal(t, store.Ref{Collection: "grades", ID: ""}, f["grade_ref"])
}

func TestGameFieldsWithMeta(t *testing.T) {
	win := ResultWin
	g := Game{ID: "game_1", GameMeta: &GameMeta{DayOfWeek: "Saturday", Result: &win}}
	f := g.Fields()

	assert.Equal(t, "Saturday", f["day_of_week"])
	assert.Equal(t, "win", f["home_club_result"])
	assert.True(t, store.IsServerTimestamp(f["last_polled_at"]))
}

func TestGameRoundTripsThroughStore(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	loss := ResultLoss
	in := Game{
		ID:        "game_abc",
		Date:      time.Date(2025, 4, 12, 14, 30, 0, 0, time.UTC),
		Venue:     "State Netball Hockey Centre",
		Status:    StatusCompleted,
		Round:     3,
		FixtureID: "9",
		HomeTeam:  GameSide{Name: "Mentone - Men's Vic League 1", ID: "team_1", Club: "Mentone", ClubID: "mentone", Score: IntPtr(1)},
		AwayTeam:  GameSide{Name: "Camberwell", ID: "opponent_camberwell_9", Club: "Camberwell", ClubID: "camberwell", Score: IntPtr(4)},
		GameMeta:  &GameMeta{DayOfWeek: "Saturday", IsWeekendGame: true, HomeClubIsHome: true, IsHomeClubGame: true, Result: &loss},
	}

	b := m.NewBatch()
	b.Create("games", in.ID, in.Fields())
	require.NoError(t, b.Commit(ctx))

	doc, err := m.Get(ctx, "games", in.ID)
	require.NoError(t, err)
	var out Game
	require.NoError(t, store.Decode(doc, &out))

	want := in
	want.Version = SchemaVersion
	if diff := cmp.Diff(want, out, cmpopts.IgnoreFields(Game{}, "Stamps")); diff != "" {
		t.Errorf("game round trip mismatch (-want +got):\n%s", diff)
	}

	us, them, ok := out.HomeClubSide()
	require.True(t, ok)
	assert.Equal(t, "team_1", us.ID)
	assert.Equal(t, 4, *them.Score)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	f := s.Fields()
	assert.Equal(t, "email_settings", s.DocID())
	assert.Equal(t, 24, f["pre_game_hours"])
	assert.Equal(t, "Sunday", f["weekly_summary_day"])
	assert.Equal(t, "20:00", f["weekly_summary_time"])
	assert.Equal(t, []interface{}{"admin@mentone.com"}, f["admin_emails"])
}

func TestClubFieldsOptional(t *testing.T) {
	f := Club{ID: "camberwell", Name: "Camberwell"}.Fields()
	assert.NotContains(t, f, "location")
	f = Club{ID: "mentone", Location: "Melbourne, Victoria"}.Fields()
	assert.Equal(t, "Melbourne, Victoria", f["location"])
}
