package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/cache"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
)

// ListTeamSummaries returns a team's per-round summaries in round order.
// @Summary List a team's round summaries
// @Tags summaries
// @Produce json
// @Param teamID path string true "Team id, e.g. team_123"
// @Success 200 {array} model.TeamSummary
// @Failure 404 {object} respond.ErrorResponse
// @Router /teams/{teamID}/summaries [get]
func (h *Handler) ListTeamSummaries(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	h.serveCached(w, r, "summaries:team:"+teamID, cache.TTLSummaries, func(ctx context.Context) (interface{}, error) {
		if _, err := get[model.Team](ctx, h.store, config.TeamsCollection, teamID, "team"); err != nil {
			return nil, err
		}
		all, err := list[model.TeamSummary](ctx, h.store, config.TeamSummariesCollection)
		if err != nil {
			return nil, err
		}
		out := []model.TeamSummary{}
		for _, s := range all {
			if s.TeamID == teamID {
				out = append(out, s)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Round < out[j].Round })
		return out, nil
	})
}

// ListClubSummaries returns club summaries by division and gender.
// @Summary List club summaries
// @Tags summaries
// @Produce json
// @Param club query string false "Club id, defaults to the home club"
// @Success 200 {array} model.ClubSummary
// @Router /club-summaries [get]
func (h *Handler) ListClubSummaries(w http.ResponseWriter, r *http.Request) {
	clubID := r.URL.Query().Get("club")
	if clubID == "" {
		clubID = h.cfg.HomeClub.ID
	}
	h.serveCached(w, r, "summaries:club:"+clubID, cache.TTLSummaries, func(ctx context.Context) (interface{}, error) {
		all, err := list[model.ClubSummary](ctx, h.store, config.ClubSummariesCollection)
		if err != nil {
			return nil, err
		}
		out := []model.ClubSummary{}
		for _, s := range all {
			if s.ClubID == clubID {
				out = append(out, s)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Division != out[j].Division {
				return out[i].Division < out[j].Division
			}
			return out[i].Gender < out[j].Gender
		})
		return out, nil
	})
}
