package identity

import (
	"strconv"
	"strings"
	"time"
)

// Division types produced by Classify.
const (
	DivisionSenior  = "Senior"
	DivisionJunior  = "Junior"
	DivisionMidweek = "Midweek"
	DivisionMasters = "Masters"
	DivisionOutdoor = "Outdoor"
	DivisionIndoor  = "Indoor"
	DivisionUnknown = "Unknown"
)

// Genders produced by Classify.
const (
	GenderMen     = "Men"
	GenderWomen   = "Women"
	GenderBoys    = "Boys"
	GenderGirls   = "Girls"
	GenderMixed   = "Mixed"
	GenderUnknown = "Unknown"
)

// Competition types produced by CompetitionType.
const (
	CompetitionSenior  = "Senior"
	CompetitionJunior  = "Junior"
	CompetitionMasters = "Midweek/Masters"
	CompetitionUnknown = "Unknown"
)

type keyword struct {
	needle string
	value  string
}

// Scanned in order; the first hit wins.
var typeKeywords = []keyword{
	{"senior", DivisionSenior},
	{"junior", DivisionJunior},
	{"midweek", DivisionMidweek},
	{"masters", DivisionMasters},
	{"outdoor", DivisionOutdoor},
	{"indoor", DivisionIndoor},
}

var genderKeywords = []keyword{
	{"men", GenderMen},
	{"women", GenderWomen},
	{"boys", GenderBoys},
	{"girls", GenderGirls},
	{"mixed", GenderMixed},
}

var (
	seniorMarkers  = []string{"premier league", "vic league", "pennant"}
	juniorMarkers  = []string{"u12", "u14", "u16", "u18"}
	masterMarkers  = []string{"masters", "35+", "45+", "60+"}
	invalidTeamBit = []string{"playing fields", "grammar"}
)

// Classify derives the division type and gender of a grade from its name.
//
// Type: first keyword hit from typeKeywords, then overridden by the league,
// age-group and masters markers in that priority. Gender: an explicit
// women/women's or men/men's mention decides first; only otherwise is the
// keyword list scanned. "women" contains "men", so the women check must run
// before the men check.
func Classify(name string) (division, gender string) {
	lower := strings.ToLower(name)

	division = DivisionUnknown
	for _, kw := range typeKeywords {
		if strings.Contains(lower, kw.needle) {
			division = kw.value
			break
		}
	}
	switch {
	case containsAny(lower, seniorMarkers):
		division = DivisionSenior
	case containsAny(lower, juniorMarkers):
		division = DivisionJunior
	case containsAny(lower, masterMarkers):
		division = DivisionMidweek
	}

	switch {
	case strings.Contains(lower, "women's") || strings.Contains(lower, "women"):
		gender = GenderWomen
	case strings.Contains(lower, "men's") || strings.Contains(lower, "men"):
		gender = GenderMen
	default:
		gender = GenderUnknown
		for _, kw := range genderKeywords {
			if strings.Contains(lower, kw.needle) {
				gender = kw.value
				break
			}
		}
	}
	return division, gender
}

// CompetitionType classifies a competition heading from the landing page.
func CompetitionType(heading string) string {
	lower := strings.ToLower(strings.TrimSpace(heading))
	if lower == "" {
		return CompetitionUnknown
	}
	if strings.Contains(lower, "junior") {
		return CompetitionJunior
	}
	for age := 10; age <= 18; age++ {
		if strings.Contains(lower, "u"+strconv.Itoa(age)) {
			return CompetitionJunior
		}
	}
	if containsAny(lower, masterMarkers) {
		return CompetitionMasters
	}
	return CompetitionSenior
}

// SeasonFrom returns the year following " - " in a competition heading, or
// the year of now when the heading carries none.
func SeasonFrom(heading string, now time.Time) string {
	parts := strings.Split(heading, " - ")
	if len(parts) > 1 {
		s := strings.TrimSpace(parts[1])
		if _, err := strconv.Atoi(s); err == nil && s != "" {
			return s
		}
	}
	return strconv.Itoa(now.Year())
}

// IsValidTeam filters venue and facility names out of team-like strings.
// A valid team mentions "hockey club" and none of the facility markers.
func IsValidTeam(name string) bool {
	if IsFacility(name) {
		return false
	}
	return strings.Contains(strings.ToLower(name), "hockey club")
}

// IsFacility reports whether a string names a venue rather than a team.
func IsFacility(name string) bool {
	return containsAny(strings.ToLower(name), invalidTeamBit)
}

// InvolvesClub is the looser filter used on game cards: the club name only
// has to appear in the label.
func InvolvesClub(label, clubName string) bool {
	return clubName != "" && strings.Contains(label, clubName)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
