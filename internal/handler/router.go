package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/chittahq/chitta/backend/internal/handler/chat"
	moodHandler "github.com/chittahq/chitta/backend/internal/handler/mood"
	"github.com/chittahq/chitta/backend/internal/handler/stream"
	wellbeingHandler "github.com/chittahq/chitta/backend/internal/handler/wellbeing"
	middlewarePkg "github.com/chittahq/chitta/backend/internal/middleware"
	chatService "github.com/chittahq/chitta/backend/internal/service/chat"
	"github.com/chittahq/chitta/backend/internal/store"
	"github.com/chittahq/chitta/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(st *store.Store, chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	streamHandler := stream.New(chatSvc)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(chatSvc).RegisterRoutes(api)
		moodHandler.New(st).RegisterRoutes(api)
		wellbeingHandler.New(st).RegisterRoutes(api)

		api.Get("/chat/stream", func(w http.ResponseWriter, r *http.Request) {
			userID := r.URL.Query().Get("userId")
			sessionID := r.URL.Query().Get("sessionId")
			message := r.URL.Query().Get("message")

			if message == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			// Same disconnect semantics as the JSON surface: the
			// exchange finishes and persists even if the client goes
			// away mid-stream.
			ctx := context.WithoutCancel(r.Context())
			if err := streamHandler.HandleStreamRequest(ctx, w, userID, sessionID, message); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
