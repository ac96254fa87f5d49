package wellbeing

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chittahq/chitta/backend/internal/store"
	"github.com/chittahq/chitta/backend/pkg/utils"
)

// Handler exposes the composite well-being scorecard for the dashboard.
type Handler struct {
	store *store.Store
}

// New creates the well-being handler.
func New(s *store.Store) *Handler {
	return &Handler{store: s}
}

// RegisterRoutes registers the well-being routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/wellbeing", h.handleScorecard)
}

func (h *Handler) handleScorecard(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	card, err := h.store.Scorecard(r.Context(), userID)
	if errors.Is(err, store.ErrScorecardNotFound) {
		// Not an error: scores are computed lazily on the first
		// score-bearing event.
		utils.RespondError(w, http.StatusNotFound, "well-being scores not yet computed")
		return
	}
	if err != nil {
		log.Printf("[wellbeing] scorecard query failed for user=%s: %v", userID, err)
		utils.RespondError(w, http.StatusServiceUnavailable, "storage is temporarily unavailable")
		return
	}

	utils.RespondJSON(w, http.StatusOK, card)
}
