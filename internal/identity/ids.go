// Package identity derives every document identifier from stable scraped
// inputs and classifies competitions by naming convention.
//
// All functions are pure. Running them twice on the same input yields the
// same output, which is what lets repeated scrapes update documents in place
// instead of duplicating them.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// gameHashLen is the number of hex characters kept from the game digest.
const gameHashLen = 8

// ClubID turns a club name into its slug: lowercase, spaces and hyphens
// replaced with underscores. The slug is also the club document ID.
func ClubID(clubName string) string {
	id := strings.ToLower(strings.TrimSpace(clubName))
	id = strings.ReplaceAll(id, " ", "_")
	return strings.ReplaceAll(id, "-", "_")
}

// CompetitionID is the document ID for a competition's source comp id.
func CompetitionID(compID string) string {
	return "comp_" + compID
}

// GradeID is the document ID for a fixture (grade).
func GradeID(fixtureID string) string {
	return "grade_" + fixtureID
}

// TeamID is the document ID for a team's source id.
func TeamID(sourceID string) string {
	return "team_" + sourceID
}

// FallbackTeamSourceID is used when a team was only seen in game cards and
// has no team link. Including the club keeps two linkless clubs in the same
// fixture apart.
func FallbackTeamSourceID(fixtureID, clubID string) string {
	return fixtureID + "_" + clubID
}

// OpponentTeamID is the placeholder for an opposing team whose real id
// could not be resolved.
func OpponentTeamID(clubID, fixtureID string) string {
	return fmt.Sprintf("opponent_%s_%s", clubID, fixtureID)
}

// GameID hashes the fixture coordinates and both team labels. Used when the
// game card carries no canonical game link.
func GameID(compID, fixtureID string, round int, homeTeam, awayTeam string) string {
	base := fmt.Sprintf("%s_%s_%d_%s_%s", compID, fixtureID, round, homeTeam, awayTeam)
	sum := md5.Sum([]byte(base))
	return "game_" + hex.EncodeToString(sum[:])[:gameHashLen]
}

// SourceGameID is the document ID for a game with a canonical numeric id.
func SourceGameID(gameID string) string {
	return "game_" + gameID
}

// SummaryID is the team summary document ID for one round.
func SummaryID(teamID string, round int) string {
	return fmt.Sprintf("summary_%s_round_%d", teamID, round)
}

// ClubSummaryID is the club summary document ID for a (division, gender) slice.
func ClubSummaryID(clubID, division, gender string) string {
	return fmt.Sprintf("club_summary_%s_%s_%s", clubID, strings.ToLower(division), strings.ToLower(gender))
}

// ExtractClubInfo splits a scraped team label into the club name and club id.
// "Mentone - Men's Vic League 1" gives ("Mentone", "mentone"). Labels without
// the " - " delimiter use their first word.
func ExtractClubInfo(label string) (clubName, clubID string) {
	label = strings.TrimSpace(label)
	if i := strings.Index(label, " - "); i >= 0 {
		clubName = strings.TrimSpace(label[:i])
	} else if fields := strings.Fields(label); len(fields) > 0 {
		clubName = fields[0]
	}
	return clubName, ClubID(clubName)
}

// ClubCode is the uppercase initials of a club name.
func ClubCode(clubName string) string {
	var b strings.Builder
	for _, w := range strings.Fields(clubName) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// CompetitionBaseName is the part of a competition name before " - ",
// e.g. "Men's Vic League 1 - 2025" gives "Men's Vic League 1".
func CompetitionBaseName(name string) string {
	if i := strings.Index(name, " - "); i >= 0 {
		return name[:i]
	}
	return name
}

// TeamName builds the canonical team name from its club and competition.
func TeamName(clubName, competitionName string) string {
	return clubName + " - " + CompetitionBaseName(competitionName)
}
