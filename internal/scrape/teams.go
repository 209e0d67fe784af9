package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/identity"
)

// TeamLink is a team name with the site's own team id.
type TeamLink struct {
	Name   string
	CompID string
	TeamID string
}

// TeamCandidate is a team seen on a round page. SourceID is empty when the
// team was only seen as a name on a game card.
type TeamCandidate struct {
	Label    string
	SourceID string
}

// TeamLinkStrategies find team links on a round page.
var TeamLinkStrategies = []Strategy[[]TeamLink]{
	{Name: "team anchors", Extract: teamLinksFromAnchors},
	{Name: "wrapped card names", Extract: teamLinksFromWrappedNames},
	{Name: "titled anchors", Extract: teamLinksFromTitles},
}

// CardTeamNameStrategies find bare team names in game cards.
var CardTeamNameStrategies = []Strategy[[]string]{
	{Name: "fixture-details names", Extract: namesBySelector(".fixture-details-team-name")},
	{Name: "col-lg-3 anchors", Extract: namesBySelector("div.col-lg-3 a")},
	{Name: "centred anchors", Extract: namesBySelector(".text-center a")},
}

// TeamLinks returns the team links for compID, keeping the first id seen for
// each name.
func TeamLinks(doc *goquery.Document, compID string) []TeamLink {
	links, _, _ := FirstMatch(doc.Selection, TeamLinkStrategies)
	seen := make(map[string]bool, len(links))
	var out []TeamLink
	for _, l := range links {
		if l.CompID != compID || seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		out = append(out, l)
	}
	return out
}

// DiscoverTeams unions the linked teams with names that appear only on game
// cards. Linked teams come first, then card-only names, both in document
// order. A card-only name must pass IsValidTeam, the same rule the anchor
// strategy applies.
func DiscoverTeams(doc *goquery.Document, compID string) []TeamCandidate {
	var out []TeamCandidate
	seen := map[string]bool{}
	for _, l := range TeamLinks(doc, compID) {
		seen[l.Name] = true
		out = append(out, TeamCandidate{Label: l.Name, SourceID: l.TeamID})
	}
	names, _, _ := FirstMatch(doc.Selection, CardTeamNameStrategies)
	for _, n := range names {
		if seen[n] || !identity.IsValidTeam(n) {
			continue
		}
		seen[n] = true
		out = append(out, TeamCandidate{Label: n})
	}
	return out
}

func teamLinksFromAnchors(sel *goquery.Selection) ([]TeamLink, bool) {
	var out []TeamLink
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		name := cleanText(a.Text())
		if !identity.IsValidTeam(name) {
			return
		}
		if l, ok := teamLink(a, name); ok {
			out = append(out, l)
		}
	})
	return out, len(out) > 0
}

// teamLinksFromWrappedNames handles cards where the link wraps a name
// element. These come straight from game card structure, so the facility
// filter applies but the "hockey club" suffix is not required.
func teamLinksFromWrappedNames(sel *goquery.Selection) ([]TeamLink, bool) {
	var out []TeamLink
	sel.Find("a[href]").Has(".fixture-details-team-name").Each(func(_ int, a *goquery.Selection) {
		name := cleanText(a.Find(".fixture-details-team-name").First().Text())
		if name == "" || identity.IsFacility(name) {
			return
		}
		if l, ok := teamLink(a, name); ok {
			out = append(out, l)
		}
	})
	return out, len(out) > 0
}

// teamLinksFromTitles handles icon-only links that carry the name in title.
func teamLinksFromTitles(sel *goquery.Selection) ([]TeamLink, bool) {
	var out []TeamLink
	sel.Find("a[href][title]").Each(func(_ int, a *goquery.Selection) {
		name := cleanText(a.AttrOr("title", ""))
		if !identity.IsValidTeam(name) {
			return
		}
		if l, ok := teamLink(a, name); ok {
			out = append(out, l)
		}
	})
	return out, len(out) > 0
}

func teamLink(a *goquery.Selection, name string) (TeamLink, bool) {
	m := teamHref.FindStringSubmatch(a.AttrOr("href", ""))
	if m == nil {
		return TeamLink{}, false
	}
	return TeamLink{Name: name, CompID: m[1], TeamID: m[2]}, true
}

func namesBySelector(selector string) func(*goquery.Selection) ([]string, bool) {
	return func(sel *goquery.Selection) ([]string, bool) {
		var out []string
		sel.Find(selector).Each(func(_ int, el *goquery.Selection) {
			if name := cleanText(el.Text()); name != "" && !identity.IsFacility(name) {
				out = append(out, name)
			}
		})
		return out, len(out) > 0
	}
}
