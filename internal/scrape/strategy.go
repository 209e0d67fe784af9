// Package scrape extracts competitions, teams and game cards from the
// fixtures site's HTML.
//
// The site's markup varies between page generations, so every extraction
// target has an ordered list of strategies. Strategies are tried in order
// and the first one that finds something wins. Each strategy is exported
// through its list so it can be tested on its own.
package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of extracting a T from a selection. Extract reports
// false when this markup shape is not present.
type Strategy[T any] struct {
	Name    string
	Extract func(*goquery.Selection) (T, bool)
}

// FirstMatch runs strategies in order and returns the first success along
// with the name of the strategy that produced it.
func FirstMatch[T any](sel *goquery.Selection, strategies []Strategy[T]) (T, string, bool) {
	for _, s := range strategies {
		if v, ok := s.Extract(sel); ok {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

var (
	fixtureHref = regexp.MustCompile(`/games/(\d+)/(\d+)`)
	teamHref    = regexp.MustCompile(`/games/team/(\d+)/(\d+)`)
	gameHref    = regexp.MustCompile(`/game/(\d+)$`)
	spaces      = regexp.MustCompile(`\s+`)
)

// cleanText collapses runs of whitespace and trims.
func cleanText(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// textLines returns the non-empty text nodes under sel in document order.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			if t := cleanText(c.Text()); t != "" {
				lines = append(lines, t)
			}
			return
		}
		lines = append(lines, textLines(c)...)
	})
	return lines
}
