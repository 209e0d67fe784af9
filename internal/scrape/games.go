package scrape

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/identity"
)

// DefaultVenue is used when a card names no venue.
const DefaultVenue = "Unknown Venue"

// ErrNoTeams is returned for a card where fewer than two team names could
// be found.
var ErrNoTeams = errors.New("card has fewer than two teams")

var scoreLine = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

// GameCard is one fixture as it appears on a round page, before ids are
// assigned or teams are resolved against the store.
type GameCard struct {
	HomeLabel        string
	AwayLabel        string
	HomeTeamSourceID string // site team id from the card link, if any
	AwayTeamSourceID string
	DateText         string
	Date             time.Time
	DateParsed       bool
	Venue            string
	HomeScore        *int
	AwayScore        *int
	URL              string
	SourceGameID     string // site game id from the details link, if any
}

// RoundKind separates "no cards at all" from "cards, maybe none of ours".
type RoundKind int

const (
	// RoundEmpty means the page had no game cards. Walkers treat it as the
	// end of the fixture.
	RoundEmpty RoundKind = iota
	// RoundGames means the page had cards. Cards may still be empty when the
	// home club has a bye.
	RoundGames
)

func (k RoundKind) String() string {
	if k == RoundEmpty {
		return "empty"
	}
	return "games"
}

// RoundContext carries what ParseRound needs besides the page.
type RoundContext struct {
	Round    int
	HomeClub string // club name that must appear in a team label
	BaseURL  string
	Location *time.Location
	Now      time.Time
	Logger   *slog.Logger
}

// RoundResult is the outcome of parsing one round page.
type RoundResult struct {
	Kind     RoundKind
	Cards    []GameCard // home club games only
	Total    int        // cards on the page
	Others   int        // cards not involving the home club
	Dropped  int        // cards that could not be parsed
	Strategy string
}

// ---------------------------------------------------------------------------
// Strategies
// ---------------------------------------------------------------------------

// GameCardStrategies locate the game cards on a round page.
var GameCardStrategies = []Strategy[*goquery.Selection]{
	{Name: "fixture-details", Extract: findAll("div.fixture-details", 1)},
	{Name: "card-body", Extract: findAll("div.card-body.font-size-sm", 1)},
	{Name: "card-hover", Extract: findAll("div.card.card-hover", 1)},
}

// CardTeamStrategies locate the home and away team elements in a card.
var CardTeamStrategies = []Strategy[*goquery.Selection]{
	{Name: "fixture-details names", Extract: findAll(".fixture-details-team-name", 2)},
	{Name: "col-lg-3 anchors", Extract: findAll("div.col-lg-3 a", 2)},
	{Name: "centred anchors", Extract: findAll(".text-center a", 2)},
}

// CardDateStrategies return the raw date text of a card.
var CardDateStrategies = []Strategy[string]{
	{Name: "long date", Extract: dateFromLong},
	{Name: "col-md lines", Extract: dateFromLines},
}

// CardVenueStrategies return the venue of a card.
var CardVenueStrategies = []Strategy[string]{
	{Name: "venue", Extract: firstText(".fixture-details-venue")},
	{Name: "col-md anchor", Extract: firstText("div.col-md a")},
}

// CardScoreStrategies return the home and away scores of a card. A strategy
// succeeds when the score slots exist even if no score is posted yet.
var CardScoreStrategies = []Strategy[[2]*int]{
	{Name: "score pair", Extract: scoresFromPair},
	{Name: "score line", Extract: scoresFromLine},
}

// CardLinkStrategies return the href of the game details page.
var CardLinkStrategies = []Strategy[string]{
	{Name: "details button", Extract: detailsButton},
	{Name: "game anchor", Extract: gameAnchor},
}

func findAll(selector string, min int) func(*goquery.Selection) (*goquery.Selection, bool) {
	return func(sel *goquery.Selection) (*goquery.Selection, bool) {
		found := sel.Find(selector)
		return found, found.Length() >= min
	}
}

func firstText(selector string) func(*goquery.Selection) (string, bool) {
	return func(sel *goquery.Selection) (string, bool) {
		t := cleanText(sel.Find(selector).First().Text())
		return t, t != ""
	}
}

func dateFromLong(card *goquery.Selection) (string, bool) {
	return firstText(".fixture-details-date-long")(card)
}

// dateFromLines reads the older layout: date on the first line of the
// column, time on the second, midday when the time is missing.
func dateFromLines(card *goquery.Selection) (string, bool) {
	col := card.Find("div.col-md").First()
	if col.Length() == 0 {
		return "", false
	}
	lines := textLines(col)
	if len(lines) == 0 {
		return "", false
	}
	clock := "12:00"
	if len(lines) > 1 {
		clock = lines[1]
	}
	return lines[0] + " " + clock, true
}

func scoresFromPair(card *goquery.Selection) ([2]*int, bool) {
	els := card.Find(".fixture-details-team-score")
	if els.Length() < 2 {
		return [2]*int{}, false
	}
	return [2]*int{
		parseScore(els.Eq(0).Text()),
		parseScore(els.Eq(1).Text()),
	}, true
}

func scoresFromLine(card *goquery.Selection) ([2]*int, bool) {
	var out [2]*int
	found := false
	card.Find("div.col-lg-2").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		m := scoreLine.FindStringSubmatch(el.Text())
		if m == nil {
			return true
		}
		out = [2]*int{parseScore(m[1]), parseScore(m[2])}
		found = true
		return false
	})
	return out, found
}

// parseScore returns nil for an empty slot, "-" or anything non-numeric.
func parseScore(s string) *int {
	s = cleanText(s)
	if s == "" || s == "-" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func detailsButton(card *goquery.Selection) (string, bool) {
	href, ok := card.Find("a.btn-outline-primary").First().Attr("href")
	return href, ok && href != ""
}

func gameAnchor(card *goquery.Selection) (string, bool) {
	var href string
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h := a.AttrOr("href", "")
		if gameHref.MatchString(h) {
			href = h
			return false
		}
		return true
	})
	return href, href != ""
}

// ---------------------------------------------------------------------------
// Round parsing
// ---------------------------------------------------------------------------

// ParseRound extracts the home club's games from a round page. Cards that
// fail to parse are logged and dropped; they never fail the round.
func ParseRound(doc *goquery.Document, rc RoundContext) RoundResult {
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cards, strategy, ok := FirstMatch(doc.Selection, GameCardStrategies)
	if !ok {
		return RoundResult{Kind: RoundEmpty}
	}

	res := RoundResult{Kind: RoundGames, Total: cards.Length(), Strategy: strategy}
	cards.Each(func(i int, card *goquery.Selection) {
		gc, err := ParseCard(card, rc)
		if err != nil {
			res.Dropped++
			logger.Debug("dropping game card", "round", rc.Round, "card", i, "error", err)
			return
		}
		if !identity.InvolvesClub(gc.HomeLabel, rc.HomeClub) && !identity.InvolvesClub(gc.AwayLabel, rc.HomeClub) {
			res.Others++
			return
		}
		if !gc.DateParsed {
			logger.Warn("unparseable game date, using current time",
				"round", rc.Round, "text", gc.DateText, "home", gc.HomeLabel, "away", gc.AwayLabel)
		}
		res.Cards = append(res.Cards, gc)
	})
	return res
}

// ParseCard extracts a single game card. A panic inside the markup walk is
// returned as an error.
func ParseCard(card *goquery.Selection, rc RoundContext) (gc GameCard, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse card: %v", r)
		}
	}()

	teams, _, ok := FirstMatch(card, CardTeamStrategies)
	if !ok {
		return GameCard{}, ErrNoTeams
	}
	home, away := teams.Eq(0), teams.Eq(1)
	gc.HomeLabel = cleanText(home.Text())
	gc.AwayLabel = cleanText(away.Text())
	if gc.HomeLabel == "" || gc.AwayLabel == "" {
		return GameCard{}, ErrNoTeams
	}
	gc.HomeTeamSourceID = teamSourceID(home)
	gc.AwayTeamSourceID = teamSourceID(away)

	gc.Date = rc.Now
	if text, _, ok := FirstMatch(card, CardDateStrategies); ok {
		gc.DateText = text
		if t, ok := ParseDate(text, rc.Location); ok {
			gc.Date, gc.DateParsed = t, true
		}
	}

	gc.Venue = DefaultVenue
	if v, _, ok := FirstMatch(card, CardVenueStrategies); ok {
		gc.Venue = v
	}

	if scores, _, ok := FirstMatch(card, CardScoreStrategies); ok {
		gc.HomeScore, gc.AwayScore = scores[0], scores[1]
	}

	if href, _, ok := FirstMatch(card, CardLinkStrategies); ok {
		gc.URL = resolveURL(rc.BaseURL, href)
		if m := gameHref.FindStringSubmatch(href); m != nil {
			gc.SourceGameID = m[1]
		}
	}
	return gc, nil
}

// teamSourceID returns the site team id from the element's own link or the
// link wrapping it.
func teamSourceID(el *goquery.Selection) string {
	href, ok := el.Attr("href")
	if !ok {
		href = el.Closest("a").AttrOr("href", "")
	}
	if m := teamHref.FindStringSubmatch(href); m != nil {
		return m[2]
	}
	return ""
}
