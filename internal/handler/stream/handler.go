package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/chittahq/chitta/backend/internal/service/ai"
	chatService "github.com/chittahq/chitta/backend/internal/service/chat"
	"github.com/chittahq/chitta/backend/pkg/utils"
)

// Handler serves the companion chat over Server-Sent Events. Persistence
// and ordering semantics match the request/response surface exactly.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a new stream handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// Event is one streaming response chunk.
type Event struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest runs the chat pipeline and forwards reply chunks as
// SSE events.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, userID, sessionID, message string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	h.sendSSE(w, flusher, Event{Event: "start", SessionID: sessionID})

	// Chunks are forwarded as they arrive; the pipeline persists the
	// concatenated reply after the stream completes.
	exchange, err := h.chatSvc.HandleStream(ctx, userID, sessionID, message, func(delta string) {
		h.sendSSE(w, flusher, Event{
			Event:     "delta",
			SessionID: sessionID,
			Content:   delta,
		})
	})
	if err != nil {
		h.sendSSEError(w, flusher, streamErrorMessage(err))
		return err
	}

	h.sendSSE(w, flusher, Event{
		Event:     "message",
		SessionID: exchange.SessionID,
		Content:   exchange.Reply,
	})
	h.sendSSE(w, flusher, Event{
		Event:     "end",
		SessionID: exchange.SessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed exchange for session=%s", exchange.SessionID)
	return nil
}

// streamErrorMessage keeps SSE error payloads as generic as the JSON
// surface's.
func streamErrorMessage(err error) string {
	switch {
	case errors.Is(err, chatService.ErrInvalidRequest):
		return "userId and a non-empty message are required"
	case errors.Is(err, chatService.ErrStorageUnavailable):
		return "storage is temporarily unavailable"
	case errors.Is(err, ai.ErrUpstreamUnavailable):
		return "the companion could not answer right now"
	default:
		return "an unexpected error occurred"
	}
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal SSE event: %v", err)
		return
	}

	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.sendSSE(w, flusher, Event{Event: "error", Error: message})
}
