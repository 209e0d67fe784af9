package scrape

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// CompetitionListing is one fixture link found on the landing page.
type CompetitionListing struct {
	Name      string // link text, e.g. "Men's Vic League 1 - 2025"
	Heading   string // nearest section heading, e.g. "Senior Competition"
	CompID    string
	FixtureID string
	URL       string
}

// CompetitionStrategies locate fixture listings on the landing page.
var CompetitionStrategies = []Strategy[[]CompetitionListing]{
	{Name: "border-top blocks", Extract: competitionsFromBlocks},
	{Name: "cards", Extract: competitionsFromCards},
	{Name: "fixture anchors", Extract: competitionsFromAnchors},
}

// Competitions returns every listing on the landing page, de-duplicated by
// (comp, fixture) in document order. Relative links resolve against site,
// the association's root URL.
func Competitions(doc *goquery.Document, site string) ([]CompetitionListing, string) {
	found, strategy, ok := FirstMatch(doc.Selection, CompetitionStrategies)
	if !ok {
		return nil, ""
	}
	seen := make(map[[2]string]bool, len(found))
	out := make([]CompetitionListing, 0, len(found))
	for _, c := range found {
		key := [2]string{c.CompID, c.FixtureID}
		if seen[key] {
			continue
		}
		seen[key] = true
		c.URL = resolveURL(site, c.URL)
		out = append(out, c)
	}
	return out, strategy
}

// competitionsFromBlocks reads the current layout: one div per fixture,
// grouped under h2 section headings.
func competitionsFromBlocks(sel *goquery.Selection) ([]CompetitionListing, bool) {
	var out []CompetitionListing
	heading := ""
	sel.Find("h2, div.px-4.py-2.border-top").Each(func(_ int, el *goquery.Selection) {
		if goquery.NodeName(el) == "h2" {
			heading = cleanText(el.Text())
			return
		}
		a := el.Find("a").First()
		if c, ok := listingFromAnchor(a, heading); ok {
			out = append(out, c)
		}
	})
	return out, len(out) > 0
}

// competitionsFromCards reads the older card layout where each competition
// is a card with a header and a list of fixture links.
func competitionsFromCards(sel *goquery.Selection) ([]CompetitionListing, bool) {
	var out []CompetitionListing
	sel.Find("div.card").Each(func(_ int, card *goquery.Selection) {
		heading := cleanText(card.Find(".card-header, h2, h3").First().Text())
		card.Find("a").Each(func(_ int, a *goquery.Selection) {
			if c, ok := listingFromAnchor(a, heading); ok {
				out = append(out, c)
			}
		})
	})
	return out, len(out) > 0
}

// competitionsFromAnchors is the last resort: any fixture link anywhere,
// headed by the closest preceding h2 if there is one.
func competitionsFromAnchors(sel *goquery.Selection) ([]CompetitionListing, bool) {
	var out []CompetitionListing
	heading := ""
	sel.Find("h2, a").Each(func(_ int, el *goquery.Selection) {
		if goquery.NodeName(el) == "h2" {
			heading = cleanText(el.Text())
			return
		}
		if c, ok := listingFromAnchor(el, heading); ok {
			out = append(out, c)
		}
	})
	return out, len(out) > 0
}

func listingFromAnchor(a *goquery.Selection, heading string) (CompetitionListing, bool) {
	href, ok := a.Attr("href")
	if !ok {
		return CompetitionListing{}, false
	}
	if teamHref.MatchString(href) {
		return CompetitionListing{}, false
	}
	m := fixtureHref.FindStringSubmatch(href)
	if m == nil {
		return CompetitionListing{}, false
	}
	return CompetitionListing{
		Name:      cleanText(a.Text()),
		Heading:   heading,
		CompID:    m[1],
		FixtureID: m[2],
		URL:       href,
	}, true
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil || base == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
