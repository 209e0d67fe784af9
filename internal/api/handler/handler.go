// Package handler provides the read API's endpoint handlers. Handlers read
// the document store directly; there is no service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/api/respond"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/cache"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store  store.Store
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Handler with shared dependencies.
func New(s store.Store, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:  s,
		cache:  c,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the home club.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":      "Hockey Tracker API",
		"version":   "1.0.0",
		"status":    "running",
		"docs":      "/docs",
		"home_club": h.cfg.HomeClub.ID,
		"store":     h.cfg.StoreBackend,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStore verifies the document store is reachable.
// @Summary Store health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"store":     "disconnected",
			"backend":   h.cfg.StoreBackend,
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"store":     "connected",
		"backend":   h.cfg.StoreBackend,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Cached reads
// --------------------------------------------------------------------------

// errNotFound makes serveCached answer 404 with the error's message.
type errNotFound struct{ msg string }

func (e errNotFound) Error() string { return e.msg }

// serveCached answers from the cache when it can, otherwise runs load,
// encodes the result and caches it under key.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration,
	load func(ctx context.Context) (interface{}, error)) {

	ifNoneMatch := r.Header.Get("If-None-Match")
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(ifNoneMatch, etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := load(r.Context())
	if err != nil {
		var nf errNotFound
		if errors.As(err, &nf) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", nf.msg)
			return
		}
		h.logger.Error("store read failed", "key", key, "error", err)
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable, "STORE_ERROR",
			"Could not read from the document store", err.Error())
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response failed", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_ERROR", "Could not encode response")
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(ifNoneMatch, etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// list decodes a whole collection.
func list[T any](ctx context.Context, s store.Store, collection string) ([]T, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[T](docs)
}

// get decodes one document, mapping a missing document to a 404.
func get[T any](ctx context.Context, s store.Store, collection, id, what string) (T, error) {
	var v T
	doc, err := s.Get(ctx, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return v, errNotFound{what + " " + id + " not found"}
	}
	if err != nil {
		return v, err
	}
	err = store.Decode(doc, &v)
	return v, err
}
