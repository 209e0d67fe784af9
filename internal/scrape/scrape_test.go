package scrape

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var melbourne = mustLoad("Australia/Melbourne")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func roundContext() RoundContext {
	return RoundContext{
		Round:    1,
		HomeClub: "Mentone",
		BaseURL:  "https://www.hockeyvictoria.org.au/games/",
		Location: melbourne,
		Now:      time.Date(2025, 4, 1, 9, 0, 0, 0, melbourne),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ---------------------------------------------------------------------------
// Competitions
// ---------------------------------------------------------------------------

const landingPage = `<html><body>
<h2>Senior Competition</h2>
<div class="px-4 py-2 border-top"><a href="/games/21935/37393">Men's Vic League 1 - 2025</a></div>
<div class="px-4 py-2 border-top"><a href="/games/21935/37394">Women's Vic League 1 - 2025</a></div>
<h2>Junior Competition</h2>
<div class="px-4 py-2 border-top"><a href="/games/21936/40000">U14 Boys - 2025</a></div>
<div class="px-4 py-2 border-top"><a href="/games/21935/37393">Men's Vic League 1 - 2025</a></div>
<div class="px-4 py-2 border-top"><a href="/games/team/21935/100">Mentone Hockey Club</a></div>
</body></html>`

func TestCompetitionsFromBlocks(t *testing.T) {
	got, strategy := Competitions(parse(t, landingPage), "https://www.hockeyvictoria.org.au")
	assert.Equal(t, "border-top blocks", strategy)
	require.Len(t, got, 3)

	assert.Equal(t, CompetitionListing{
		Name:      "Men's Vic League 1 - 2025",
		Heading:   "Senior Competition",
		CompID:    "21935",
		FixtureID: "37393",
		URL:       "https://www.hockeyvictoria.org.au/games/21935/37393",
	}, got[0])
	assert.Equal(t, "37394", got[1].FixtureID)
	assert.Equal(t, "Junior Competition", got[2].Heading)
	assert.Equal(t, "21936", got[2].CompID)
}

func TestCompetitionsResolveAgainstSiteRoot(t *testing.T) {
	page := `<html><body><h2>Senior Competition</h2>
<div class="px-4 py-2 border-top"><a href="/games/21935/37393">Men's Vic League 1 - 2025</a></div>
</body></html>`
	got, _ := Competitions(parse(t, page), "https://www.hockeyvictoria.org.au")
	require.Len(t, got, 1)
	assert.Equal(t, "https://www.hockeyvictoria.org.au/games/21935/37393", got[0].URL)
}

func TestCompetitionsFallBackToAnchors(t *testing.T) {
	page := `<html><body><h2>Midweek</h2><p><a href="/games/1/2">Masters 45+ - 2025</a></p></body></html>`
	got, strategy := Competitions(parse(t, page), "")
	assert.Equal(t, "fixture anchors", strategy)
	require.Len(t, got, 1)
	assert.Equal(t, "Midweek", got[0].Heading)
	assert.Equal(t, "/games/1/2", got[0].URL)
}

func TestCompetitionsNoneFound(t *testing.T) {
	got, strategy := Competitions(parse(t, `<html><body><p>maintenance</p></body></html>`), "")
	assert.Empty(t, got)
	assert.Empty(t, strategy)
}

// ---------------------------------------------------------------------------
// Teams
// ---------------------------------------------------------------------------

const teamsPage = `<html><body>
<div class="fixture-details">
  <a href="/games/team/21935/100"><span class="fixture-details-team-name">Mentone Hockey Club</span></a>
  <span class="fixture-details-team-name">Brunswick Hockey Club</span>
</div>
<a href="/games/team/99999/5">Other Hockey Club</a>
<a href="/games/team/21935/101">Mentone Grammar Playing Fields Hockey Club</a>
<a href="/games/team/21935/100">Mentone Hockey Club</a>
</body></html>`

func TestTeamLinksFiltersCompetitionAndFacilities(t *testing.T) {
	got := TeamLinks(parse(t, teamsPage), "21935")
	assert.Equal(t, []TeamLink{{Name: "Mentone Hockey Club", CompID: "21935", TeamID: "100"}}, got)
}

func TestDiscoverTeamsUnionsCardOnlyNames(t *testing.T) {
	got := DiscoverTeams(parse(t, teamsPage), "21935")
	assert.Equal(t, []TeamCandidate{
		{Label: "Mentone Hockey Club", SourceID: "100"},
		{Label: "Brunswick Hockey Club"},
	}, got)
}

func TestDiscoverTeamsRequiresHockeyClubForCardOnlyNames(t *testing.T) {
	page := `<html><body>
<span class="fixture-details-team-name">Brunswick Hockey Club</span>
<span class="fixture-details-team-name">Doncaster</span>
<span class="fixture-details-team-name">Footscray Hockey Club</span>
</body></html>`
	got := DiscoverTeams(parse(t, page), "21935")
	assert.Equal(t, []TeamCandidate{
		{Label: "Brunswick Hockey Club"},
		{Label: "Footscray Hockey Club"},
	}, got)
}

func TestTeamLinksWrappedNameStrategy(t *testing.T) {
	page := `<html><body><a href="/games/team/7/8"><span class="fixture-details-team-name">Mentone</span></a></body></html>`
	links, strategy, ok := FirstMatch(parse(t, page).Selection, TeamLinkStrategies)
	require.True(t, ok)
	assert.Equal(t, "wrapped card names", strategy)
	assert.Equal(t, []TeamLink{{Name: "Mentone", CompID: "7", TeamID: "8"}}, links)
}

// ---------------------------------------------------------------------------
// Dates
// ---------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
		ok   bool
	}{
		{"Monday, 14 April 2025 - 7:30 PM", time.Date(2025, 4, 14, 19, 30, 0, 0, melbourne), true},
		{"Monday,   14 April 2025 -  7:30 PM", time.Date(2025, 4, 14, 19, 30, 0, 0, melbourne), true},
		{"Sat 05 Apr 2025 7:30 PM", time.Date(2025, 4, 5, 19, 30, 0, 0, melbourne), true},
		{"Sat 5 Apr 2025 19:30", time.Date(2025, 4, 5, 19, 30, 0, 0, melbourne), true},
		{"Sat 05 Apr 2025 12:00", time.Date(2025, 4, 5, 12, 0, 0, 0, melbourne), true},
		{"TBC", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseDate(tt.text, melbourne)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Rounds
// ---------------------------------------------------------------------------

const roundPage = `<html><body>
<div class="fixture-details">
  <div class="fixture-details-date-long">Saturday, 5 April 2025 - 2:30 PM</div>
  <a href="/games/team/21935/100"><span class="fixture-details-team-name">Mentone Hockey Club</span></a>
  <span class="fixture-details-team-score">3</span>
  <a href="/games/team/21935/200"><span class="fixture-details-team-name">Hawthorn Hockey Club</span></a>
  <span class="fixture-details-team-score">1</span>
  <div class="fixture-details-venue">State Netball Hockey Centre</div>
  <a class="btn btn-outline-primary" href="/game/555">Details</a>
</div>
<div class="fixture-details">
  <div class="fixture-details-date-long">Saturday, 5 April 2025 - 4:00 PM</div>
  <span class="fixture-details-team-name">Camberwell Hockey Club</span>
  <span class="fixture-details-team-name">Doncaster Hockey Club</span>
</div>
<div class="fixture-details">
  <span class="fixture-details-team-name">Mentone Hockey Club</span>
</div>
<div class="fixture-details">
  <div class="fixture-details-date-long">TBC</div>
  <span class="fixture-details-team-name">Brunswick Hockey Club</span>
  <span class="fixture-details-team-score">-</span>
  <span class="fixture-details-team-name">Mentone Hockey Club</span>
  <span class="fixture-details-team-score">-</span>
</div>
</body></html>`

func TestParseRoundKeepsHomeClubCards(t *testing.T) {
	rc := roundContext()
	res := ParseRound(parse(t, roundPage), rc)

	assert.Equal(t, RoundGames, res.Kind)
	assert.Equal(t, "fixture-details", res.Strategy)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Others)
	assert.Equal(t, 1, res.Dropped)
	require.Len(t, res.Cards, 2)

	first := res.Cards[0]
	assert.Equal(t, "Mentone Hockey Club", first.HomeLabel)
	assert.Equal(t, "Hawthorn Hockey Club", first.AwayLabel)
	assert.Equal(t, "100", first.HomeTeamSourceID)
	assert.Equal(t, "200", first.AwayTeamSourceID)
	assert.True(t, first.DateParsed)
	assert.True(t, time.Date(2025, 4, 5, 14, 30, 0, 0, melbourne).Equal(first.Date))
	assert.Equal(t, "State Netball Hockey Centre", first.Venue)
	require.NotNil(t, first.HomeScore)
	require.NotNil(t, first.AwayScore)
	assert.Equal(t, 3, *first.HomeScore)
	assert.Equal(t, 1, *first.AwayScore)
	assert.Equal(t, "https://www.hockeyvictoria.org.au/game/555", first.URL)
	assert.Equal(t, "555", first.SourceGameID)

	second := res.Cards[1]
	assert.False(t, second.DateParsed)
	assert.Equal(t, rc.Now, second.Date)
	assert.Equal(t, DefaultVenue, second.Venue)
	assert.Nil(t, second.HomeScore)
	assert.Nil(t, second.AwayScore)
	assert.Empty(t, second.SourceGameID)
}

func TestParseRoundLegacyCardLayout(t *testing.T) {
	page := `<html><body>
<div class="card card-hover">
  <div class="row">
    <div class="col-md">Sat 12 Apr 2025<br>19:30<br><a href="/venues/1">Mentone Grammar Playing Fields</a></div>
    <div class="col-lg-3"><a href="/games/team/21935/300">Mentone Hockey Club</a></div>
    <div class="col-lg-2">2 - 2</div>
    <div class="col-lg-3"><a href="/games/team/21935/301">Camberwell Hockey Club</a></div>
  </div>
</div>
</body></html>`

	res := ParseRound(parse(t, page), roundContext())
	assert.Equal(t, "card-hover", res.Strategy)
	require.Len(t, res.Cards, 1)

	c := res.Cards[0]
	assert.Equal(t, "Mentone Hockey Club", c.HomeLabel)
	assert.Equal(t, "300", c.HomeTeamSourceID)
	assert.Equal(t, "Camberwell Hockey Club", c.AwayLabel)
	assert.True(t, c.DateParsed)
	assert.True(t, time.Date(2025, 4, 12, 19, 30, 0, 0, melbourne).Equal(c.Date))
	assert.Equal(t, "Mentone Grammar Playing Fields", c.Venue)
	require.NotNil(t, c.HomeScore)
	assert.Equal(t, 2, *c.HomeScore)
	assert.Equal(t, 2, *c.AwayScore)
}

func TestParseRoundEmptyVersusBye(t *testing.T) {
	empty := ParseRound(parse(t, `<html><body><p>No fixtures</p></body></html>`), roundContext())
	assert.Equal(t, RoundEmpty, empty.Kind)
	assert.Zero(t, empty.Total)

	bye := ParseRound(parse(t, `<html><body>
<div class="fixture-details">
  <span class="fixture-details-team-name">Camberwell Hockey Club</span>
  <span class="fixture-details-team-name">Doncaster Hockey Club</span>
</div></body></html>`), roundContext())
	assert.Equal(t, RoundGames, bye.Kind)
	assert.Empty(t, bye.Cards)
	assert.Equal(t, 1, bye.Others)
}

func TestParseCardWithoutTeams(t *testing.T) {
	doc := parse(t, `<html><body><div class="fixture-details"><p>Bye</p></div></body></html>`)
	_, err := ParseCard(doc.Find("div.fixture-details"), roundContext())
	assert.ErrorIs(t, err, ErrNoTeams)
}

func TestParseScore(t *testing.T) {
	assert.Nil(t, parseScore("-"))
	assert.Nil(t, parseScore(" "))
	assert.Nil(t, parseScore("W"))
	require.NotNil(t, parseScore(" 4 "))
	assert.Equal(t, 4, *parseScore(" 4 "))
}
