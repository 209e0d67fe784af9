package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
)

func TestRenderClubSummaries(t *testing.T) {
	var buf bytes.Buffer
	renderClubSummaries(&buf, "mentone", []model.ClubSummary{
		{ClubID: "mentone", Division: "Senior", Gender: "Men", TotalTeams: 3, TotalGamesPlayed: 4, Wins: 3, Losses: 1, WinPercentage: 75},
		{ClubID: "mentone", Division: "Junior", Gender: "Mixed", TotalTeams: 2, TotalGamesPlayed: 2, Draws: 2},
		{ClubID: "hawthorn", Division: "Senior", Gender: "Women", TotalTeams: 9},
	})

	out := buf.String()
	assert.Contains(t, out, "Senior")
	assert.Contains(t, out, "Junior")
	assert.Contains(t, out, "75.0")
	assert.NotContains(t, out, "Women")
}
