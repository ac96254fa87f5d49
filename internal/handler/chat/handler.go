package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chittahq/chitta/backend/internal/service/ai"
	chatService "github.com/chittahq/chitta/backend/internal/service/chat"
	"github.com/chittahq/chitta/backend/pkg/utils"
)

// Handler exposes the companion chat pipeline over HTTP.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleMessage)
	r.Get("/chat/history", h.handleHistory)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The exchange outlives a dropped connection: an in-flight completion
	// is allowed to finish and persist the assistant turn rather than
	// cancelling a partially billed call.
	ctx := context.WithoutCancel(r.Context())

	exchange, err := h.chatSvc.HandleMessage(ctx, payload.UserID, payload.SessionID, payload.Message)
	if err != nil {
		respondPipelineError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"response":  exchange.Reply,
		"sessionId": exchange.SessionID,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	sessionID := r.URL.Query().Get("sessionId")

	messages, err := h.chatSvc.Transcript(r.Context(), userID, sessionID)
	if err != nil {
		respondPipelineError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"messages":  messages,
		"sessionId": sessionID,
	})
}

// respondPipelineError maps pipeline error kinds to statuses. Bodies stay
// generic; the internal detail goes to the log only.
func respondPipelineError(w http.ResponseWriter, err error) {
	log.Printf("[chat] pipeline error: %v", err)

	switch {
	case errors.Is(err, chatService.ErrInvalidRequest):
		utils.RespondError(w, http.StatusBadRequest, "userId and a non-empty message are required")
	case errors.Is(err, chatService.ErrStorageUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, "storage is temporarily unavailable")
	case errors.Is(err, ai.ErrUpstreamUnavailable):
		utils.RespondError(w, http.StatusBadGateway, "the companion could not answer right now")
	default:
		utils.RespondError(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
