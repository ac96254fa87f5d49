package mood

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chittahq/chitta/backend/internal/model/mood"
	"github.com/chittahq/chitta/backend/internal/store"
	"github.com/chittahq/chitta/backend/pkg/utils"
)

// recentLimitCap bounds the recent-checkins listing.
const (
	defaultRecentLimit = 10
	recentLimitCap     = 30
)

// Handler exposes explicit mood check-ins. These samples feed the chat
// pipeline's mood context; the pipeline itself never writes them.
type Handler struct {
	store *store.Store
}

// New creates the mood handler.
func New(s *store.Store) *Handler {
	return &Handler{store: s}
}

// RegisterRoutes registers the mood routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/mood", h.handleCheckIn)
	r.Get("/mood/recent", h.handleRecent)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID   string   `json:"userId"`
		Score    int      `json:"score"`
		Emotions []string `json:"emotions"`
		Note     string   `json:"note"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if payload.Score < mood.MinScore || payload.Score > mood.MaxScore {
		utils.RespondError(w, http.StatusBadRequest, "score must be between 1 and 10")
		return
	}

	sample := mood.Sample{
		UserID:   payload.UserID,
		Score:    payload.Score,
		Emotions: payload.Emotions,
		Note:     payload.Note,
	}
	if err := h.store.InsertMood(r.Context(), sample); err != nil {
		log.Printf("[mood] check-in failed for user=%s: %v", payload.UserID, err)
		utils.RespondError(w, http.StatusServiceUnavailable, "storage is temporarily unavailable")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, recentLimitCap)
	}

	samples, err := h.store.RecentMoods(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[mood] recent query failed for user=%s: %v", userID, err)
		utils.RespondError(w, http.StatusServiceUnavailable, "storage is temporarily unavailable")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"moods": samples})
}
