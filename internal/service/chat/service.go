// Package chat runs the companion pipeline: assemble bounded context,
// invoke the completion model, persist the exchange, and fold the derived
// affect signal into the well-being score.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chittahq/chitta/backend/internal/analysis/affect"
	"github.com/chittahq/chitta/backend/internal/model/chat"
	"github.com/chittahq/chitta/backend/internal/model/mood"
	"github.com/chittahq/chitta/backend/internal/service/ai"
)

var (
	// ErrInvalidRequest rejects a message before any I/O happens.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStorageUnavailable marks a failed history read or turn write.
	// Never conflated with ai.ErrUpstreamUnavailable.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Context-window bounds: the most recent turns of the session and the most
// recent explicit mood check-ins across sessions.
const (
	historyLimit = 20
	moodLimit    = 5
)

// transcriptLimit caps the history read surface used by the dashboard.
const transcriptLimit = 200

// Phase tracks how far an exchange progressed through the pipeline. The
// ordering of side effects is a contract, not an accident: the user turn is
// written before the completion attempt, the assistant turn only after
// success.
type Phase int

const (
	PhaseReceived Phase = iota
	PhaseUserPersisted
	PhaseCompleting
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseReceived:
		return "received"
	case PhaseUserPersisted:
		return "user_persisted"
	case PhaseCompleting:
		return "completing"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store is the persistence surface the pipeline depends on.
type Store interface {
	InsertMessage(ctx context.Context, msg chat.Message) error
	SessionHistory(ctx context.Context, userID, sessionID string, limit int) ([]chat.Message, error)
	RecentMoods(ctx context.Context, userID string, limit int) ([]mood.Sample, error)
	ApplyMindSignal(ctx context.Context, userID string, intensity int, now time.Time) error
}

// Completer produces the assistant reply for an assembled context.
type Completer interface {
	GenerateReply(ctx context.Context, sessionID string, history []chat.Message, userMessage string, moods []mood.Sample) (string, error)
}

// AffectFunc maps raw message text to an intensity in [1,10]. Swappable
// policy; the default is the lexical extractor.
type AffectFunc func(text string) int

// Service orchestrates one exchange per call. It holds no per-request
// state; everything lives in the store.
type Service struct {
	store  Store
	ai     Completer
	affect AffectFunc
}

// NewService wires the pipeline. completer may be nil when the model is not
// configured; exchanges then fail as upstream-unavailable after the user
// turn is persisted.
func NewService(store Store, completer Completer) *Service {
	return &Service{
		store:  store,
		ai:     completer,
		affect: affect.DefaultLexicon.Intensity,
	}
}

// Exchange is the outcome of one pipeline run.
type Exchange struct {
	SessionID string
	Reply     string
	Phase     Phase
}

// HandleMessage runs the full pipeline for one incoming user message.
//
// Failure semantics: a history-read or user-turn-write failure aborts
// before/at persistence; a completion failure leaves the user turn stored
// and the session legally ending in an unanswered user turn; a score-update
// failure is logged and swallowed because the reply already exists and
// scoring is best-effort telemetry.
func (s *Service) HandleMessage(ctx context.Context, userID, sessionID, message string) (Exchange, error) {
	if userID == "" || strings.TrimSpace(message) == "" {
		return Exchange{Phase: PhaseFailed}, ErrInvalidRequest
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ex := Exchange{SessionID: sessionID, Phase: PhaseReceived}

	history, moods, err := s.assembleContext(ctx, userID, sessionID)
	if err != nil {
		ex.Phase = PhaseFailed
		return ex, err
	}

	if err := s.persistUserTurn(ctx, userID, sessionID, message); err != nil {
		ex.Phase = PhaseFailed
		return ex, err
	}
	ex.Phase = PhaseUserPersisted

	ex.Phase = PhaseCompleting
	reply, err := s.complete(ctx, sessionID, history, message, moods)
	if err != nil {
		ex.Phase = PhaseFailed
		return ex, err
	}

	if err := s.finishExchange(ctx, userID, sessionID, message, reply); err != nil {
		ex.Phase = PhaseFailed
		return ex, err
	}

	ex.Phase = PhaseCompleted
	ex.Reply = reply
	return ex, nil
}

// assembleContext gathers the bounded history and mood windows. A failed
// history read aborts the pipeline; a failed mood read only drops the mood
// enrichment.
func (s *Service) assembleContext(ctx context.Context, userID, sessionID string) ([]chat.Message, []mood.Sample, error) {
	history, err := s.store.SessionHistory(ctx, userID, sessionID, historyLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load history: %v", ErrStorageUnavailable, err)
	}

	moods, err := s.store.RecentMoods(ctx, userID, moodLimit)
	if err != nil {
		log.Printf("[chat] mood context unavailable for user=%s: %v", userID, err)
		moods = nil
	}

	return history, moods, nil
}

func (s *Service) persistUserTurn(ctx context.Context, userID, sessionID, message string) error {
	turn := chat.Message{
		UserID:    userID,
		SessionID: sessionID,
		Role:      chat.RoleUser,
		Content:   message,
	}
	if err := s.store.InsertMessage(ctx, turn); err != nil {
		return fmt.Errorf("%w: persist user turn: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Service) complete(ctx context.Context, sessionID string, history []chat.Message, message string, moods []mood.Sample) (string, error) {
	if s.ai == nil {
		return "", fmt.Errorf("%w: completion model not configured", ai.ErrUpstreamUnavailable)
	}
	return s.ai.GenerateReply(ctx, sessionID, history, message, moods)
}

// finishExchange persists the assistant turn and folds the affect signal
// into the well-being score.
func (s *Service) finishExchange(ctx context.Context, userID, sessionID, message, reply string) error {
	turn := chat.Message{
		UserID:    userID,
		SessionID: sessionID,
		Role:      chat.RoleAssistant,
		Content:   reply,
	}
	if err := s.store.InsertMessage(ctx, turn); err != nil {
		return fmt.Errorf("%w: persist assistant turn: %v", ErrStorageUnavailable, err)
	}

	intensity := s.affect(message)
	if err := s.store.ApplyMindSignal(ctx, userID, intensity, time.Now().UTC()); err != nil {
		log.Printf("[chat] score update failed for user=%s: %v", userID, err)
	}
	return nil
}

// Transcript returns the stored turns for a session in chronological order.
func (s *Service) Transcript(ctx context.Context, userID, sessionID string) ([]chat.Message, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidRequest
	}
	messages, err := s.store.SessionHistory(ctx, userID, sessionID, transcriptLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: load transcript: %v", ErrStorageUnavailable, err)
	}
	return messages, nil
}
