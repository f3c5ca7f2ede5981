package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/justestif/go-spotify-lyric-mood/internal/clustering"
	"github.com/justestif/go-spotify-lyric-mood/internal/db"
	"github.com/justestif/go-spotify-lyric-mood/internal/pipeline"
	"github.com/justestif/go-spotify-lyric-mood/internal/ranking"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
	"github.com/justestif/go-spotify-lyric-mood/internal/spotify"
)

// errBadRequest marks malformed query parameters.
var errBadRequest = errors.New("bad request")

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	ranker   Ranker
	defaults Defaults
	logger   *log.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ranker Ranker, defaults Defaults, logger *log.Logger) *Handlers {
	return &Handlers{
		ranker:   ranker,
		defaults: defaults,
		logger:   logger,
	}
}

// Health reports liveness (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ranking ranks a playlist (GET /api/playlists/{id}/ranking).
//
// Query parameters: mood, provider, limit, clean, and mode=threshold for the
// legacy threshold selection.
func (h *Handlers) Ranking(w http.ResponseWriter, r *http.Request) {
	req, err := h.rankingRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.ranker.Run(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Groups clusters a playlist by emotion (GET /api/playlists/{id}/groups?k=).
func (h *Handlers) Groups(w http.ResponseWriter, r *http.Request) {
	playlistID, err := spotify.ParsePlaylistID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	cfg := clustering.DefaultConfig()
	if cfg.NumGroups, err = intParam(q.Get("k"), cfg.NumGroups); err != nil {
		h.writeError(w, r, err)
		return
	}
	if cfg.NumGroups < 1 {
		h.writeError(w, r, fmt.Errorf("%w: k must be at least 1", errBadRequest))
		return
	}
	clean, err := boolParam(q.Get("clean"), h.defaults.Clean)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.ranker.Groups(r.Context(), playlistID, clean, cfg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// defaultRunsLimit caps GET /api/playlists/{id}/runs without a limit.
const defaultRunsLimit = 20

// ListRuns lists a playlist's stored runs, newest first
// (GET /api/playlists/{id}/runs?limit=).
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	playlistID, err := spotify.ParsePlaylistID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := intParam(r.URL.Query().Get("limit"), defaultRunsLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if limit < 1 {
		h.writeError(w, r, fmt.Errorf("%w: limit must be at least 1", errBadRequest))
		return
	}

	runs, err := h.ranker.ListRuns(r.Context(), playlistID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun returns a stored run (GET /api/runs/{id}).
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := runID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	run, err := h.ranker.GetRun(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// DeleteRun removes a stored run (DELETE /api/runs/{id}).
func (h *Handlers) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := runID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.ranker.DeleteRun(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func runID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid run ID", errBadRequest)
	}
	return id, nil
}

func (h *Handlers) rankingRequest(r *http.Request) (pipeline.Request, error) {
	playlistID, err := spotify.ParsePlaylistID(chi.URLParam(r, "id"))
	if err != nil {
		return pipeline.Request{}, err
	}

	q := r.URL.Query()
	req := pipeline.Request{
		PlaylistID: playlistID,
		Provider:   h.defaults.Provider,
		Mood:       h.defaults.Mood,
	}

	if v := q.Get("provider"); v != "" {
		if req.Provider, err = sentiment.ParseKind(v); err != nil {
			return req, err
		}
	}
	if v := q.Get("mood"); v != "" {
		if req.Mood, err = ranking.ParseMood(v); err != nil {
			return req, err
		}
	}
	if req.Limit, err = intParam(q.Get("limit"), h.defaults.Limit); err != nil {
		return req, err
	}
	if req.Clean, err = boolParam(q.Get("clean"), h.defaults.Clean); err != nil {
		return req, err
	}
	switch q.Get("mode") {
	case "", "rank":
	case "threshold":
		req.Threshold = true
	default:
		return req, fmt.Errorf("%w: unknown mode %q", errBadRequest, q.Get("mode"))
	}

	return req, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errBadRequest, v)
	}
	return n, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", errBadRequest, v)
	}
	return b, nil
}

// statusFor maps an error to an HTTP status. Anything unrecognized is
// treated as an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, spotify.ErrInvalidPlaylistID),
		errors.Is(err, ranking.ErrUnrecognizedMood),
		errors.Is(err, ranking.ErrIncompatibleMood),
		errors.Is(err, sentiment.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, spotify.ErrPlaylistNotFound),
		errors.Is(err, db.ErrNotFound),
		errors.Is(err, pipeline.ErrNoRunStore):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
