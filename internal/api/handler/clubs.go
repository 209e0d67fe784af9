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

// ListClubs returns every club.
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Success 200 {array} model.Club
// @Failure 503 {object} respond.ErrorResponse
// @Router /clubs [get]
func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "clubs", cache.TTLReference, func(ctx context.Context) (interface{}, error) {
		return list[model.Club](ctx, h.store, config.ClubsCollection)
	})
}

// GetClub returns one club.
// @Summary Get club
// @Tags clubs
// @Produce json
// @Param clubID path string true "Club id, e.g. mentone"
// @Success 200 {object} model.Club
// @Failure 404 {object} respond.ErrorResponse
// @Router /clubs/{clubID} [get]
func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	h.serveCached(w, r, "club:"+clubID, cache.TTLReference, func(ctx context.Context) (interface{}, error) {
		return get[model.Club](ctx, h.store, config.ClubsCollection, clubID, "club")
	})
}

// ListClubTeams returns a club's teams ordered by name.
// @Summary List a club's teams
// @Tags clubs
// @Produce json
// @Param clubID path string true "Club id"
// @Param active query bool false "Only active teams"
// @Success 200 {array} model.Team
// @Failure 404 {object} respond.ErrorResponse
// @Router /clubs/{clubID}/teams [get]
func (h *Handler) ListClubTeams(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	activeOnly := r.URL.Query().Get("active") == "true"
	key := "teams:club:" + clubID
	if activeOnly {
		key += ":active"
	}
	h.serveCached(w, r, key, cache.TTLReference, func(ctx context.Context) (interface{}, error) {
		if _, err := get[model.Club](ctx, h.store, config.ClubsCollection, clubID, "club"); err != nil {
			return nil, err
		}
		teams, err := list[model.Team](ctx, h.store, config.TeamsCollection)
		if err != nil {
			return nil, err
		}
		out := []model.Team{}
		for _, t := range teams {
			if t.ClubID == clubID && (!activeOnly || t.Active) {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, nil
	})
}

// GetSettings returns the notification settings document.
// @Summary Get settings
// @Tags meta
// @Produce json
// @Success 200 {object} model.Settings
// @Failure 404 {object} respond.ErrorResponse
// @Router /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "settings", cache.TTLReference, func(ctx context.Context) (interface{}, error) {
		return get[model.Settings](ctx, h.store, config.SettingsCollection, model.EmailSettingsID, "settings")
	})
}
