package identity

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// TeamRef is the minimum a caller needs to know about a stored team to
// resolve a scraped label against it.
type TeamRef struct {
	ID        string
	Name      string
	FixtureID string
}

// MatchTier records which rule resolved a label.
type MatchTier int

const (
	MatchNone MatchTier = iota
	MatchExact
	MatchGrade
	MatchSubstring
)

func (t MatchTier) String() string {
	switch t {
	case MatchExact:
		return "exact"
	case MatchGrade:
		return "grade"
	case MatchSubstring:
		return "substring"
	}
	return "none"
}

// FindBestTeamMatch resolves a scraped team label to a known team id.
// Rules are tried in order: exact name, a team in the same fixture, then a
// name that contains or is contained by the label. Known teams are checked in
// the order given, so callers should pass a stable order.
func FindBestTeamMatch(label, fixtureID string, known []TeamRef) (string, MatchTier) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", MatchNone
	}
	for _, t := range known {
		if t.Name == label {
			return t.ID, MatchExact
		}
	}
	if fixtureID != "" {
		for _, t := range known {
			if t.FixtureID == fixtureID {
				return t.ID, MatchGrade
			}
		}
	}
	for _, t := range known {
		if t.Name == "" {
			continue
		}
		if strings.Contains(label, t.Name) || strings.Contains(t.Name, label) {
			return t.ID, MatchSubstring
		}
	}
	return "", MatchNone
}

// NearestTeam returns the known team whose name is most similar to label by
// Jaro-Winkler distance. It never drives a match; it only enriches the log
// line written when FindBestTeamMatch gives up.
func NearestTeam(label string, known []TeamRef) (TeamRef, float64) {
	var best TeamRef
	bestScore := -1.0
	for _, t := range known {
		score := matchr.JaroWinkler(strings.ToLower(label), strings.ToLower(t.Name), false)
		if score > bestScore {
			best, bestScore = t, score
		}
	}
	if bestScore < 0 {
		return TeamRef{}, 0
	}
	return best, bestScore
}
