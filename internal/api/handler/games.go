package handler

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/api/respond"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/cache"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/model"
)

// defaultRange is the window served when /games has no "to".
const defaultRange = 7 * 24 * time.Hour

// ListGames returns games in a date range, earliest first.
// @Summary List games by date range
// @Description from and to accept YYYY-MM-DD (local to the club) or RFC 3339. A bare "to" date includes that whole day. from defaults to the start of today, to to seven days after from.
// @Tags games
// @Produce json
// @Param from query string false "Range start"
// @Param to query string false "Range end"
// @Param club query string false "Club id or name"
// @Success 200 {array} model.Game
// @Failure 400 {object} respond.ErrorResponse
// @Router /games [get]
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := h.location()

	y, m, d := h.now().In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if v := q.Get("from"); v != "" {
		t, _, err := parseBound(v, loc)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", "from: "+err.Error())
			return
		}
		from = t
	}
	to := from.Add(defaultRange)
	if v := q.Get("to"); v != "" {
		t, dateOnly, err := parseBound(v, loc)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", "to: "+err.Error())
			return
		}
		to = t
		if dateOnly {
			to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	if to.Before(from) {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_RANGE", "to must not be before from")
		return
	}
	club := normalizeClub(q.Get("club"))

	key := fmt.Sprintf("games:range:%d:%d:%s", from.Unix(), to.Unix(), club)
	h.serveCached(w, r, key, cache.TTLGames, func(ctx context.Context) (interface{}, error) {
		games, err := list[model.Game](ctx, h.store, config.GamesCollection)
		if err != nil {
			return nil, err
		}
		out := []model.Game{}
		for _, g := range games {
			if g.Date.Before(from) || g.Date.After(to) {
				continue
			}
			if club != "" && !playsIn(g, club) {
				continue
			}
			out = append(out, g)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
		return out, nil
	})
}

// ListClubGames returns every game a club played in, newest first.
// @Summary List a club's games
// @Tags clubs
// @Produce json
// @Param clubID path string true "Club id"
// @Success 200 {array} model.Game
// @Router /clubs/{clubID}/games [get]
func (h *Handler) ListClubGames(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	h.serveCached(w, r, "games:club:"+clubID, cache.TTLGames, func(ctx context.Context) (interface{}, error) {
		games, err := list[model.Game](ctx, h.store, config.GamesCollection)
		if err != nil {
			return nil, err
		}
		out := []model.Game{}
		for _, g := range games {
			if g.HomeTeam.ClubID == clubID || g.AwayTeam.ClubID == clubID {
				out = append(out, g)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
		return out, nil
	})
}

func (h *Handler) location() *time.Location {
	if h.cfg.Timezone != nil {
		return h.cfg.Timezone
	}
	return time.Local
}

// parseBound accepts a calendar date or an RFC 3339 instant. dateOnly is
// true for the former.
func parseBound(v string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if t, err := time.ParseInLocation("2006-01-02", v, loc); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("want YYYY-MM-DD or RFC 3339, got %q", v)
	}
	return t, false, nil
}

// normalizeClub lowercases a club filter and drops a "club_" prefix.
func normalizeClub(v string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "club_")
}

// playsIn matches either side by club id or club name.
func playsIn(g model.Game, club string) bool {
	for _, s := range []model.GameSide{g.HomeTeam, g.AwayTeam} {
		if strings.ToLower(s.ClubID) == club || strings.ToLower(s.Club) == club {
			return true
		}
	}
	return false
}
