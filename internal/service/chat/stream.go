package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/chittahq/chitta/backend/internal/model/chat"
	"github.com/chittahq/chitta/backend/internal/model/mood"
	"github.com/chittahq/chitta/backend/internal/service/ai"
)

// Streamer extends Completer with chunked output. The pipeline falls back
// to single-shot completion when the model is not configured to stream.
type Streamer interface {
	Completer
	StreamReply(ctx context.Context, sessionID string, history []chat.Message, userMessage string, moods []mood.Sample) (*schema.StreamReader[*schema.Message], error)
	StreamingEnabled() bool
}

// HandleStream runs the same pipeline as HandleMessage but forwards reply
// chunks through send as they arrive. Persistence and ordering semantics
// are identical: the user turn is stored before the completion attempt and
// the assistant turn (the concatenated reply) only after success.
func (s *Service) HandleStream(ctx context.Context, userID, sessionID, message string, send func(delta string)) (Exchange, error) {
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
	reply, err := s.streamCompletion(ctx, sessionID, history, message, moods, send)
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

func (s *Service) streamCompletion(ctx context.Context, sessionID string, history []chat.Message, message string, moods []mood.Sample, send func(delta string)) (string, error) {
	streamer, ok := s.ai.(Streamer)
	if !ok || !streamer.StreamingEnabled() {
		reply, err := s.complete(ctx, sessionID, history, message, moods)
		if err != nil {
			return "", err
		}
		send(reply)
		return reply, nil
	}

	stream, err := streamer.StreamReply(ctx, sessionID, history, message, moods)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", fmt.Errorf("%w: %v", ai.ErrUpstreamUnavailable, recvErr)
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			send(chunk.Content)
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", fmt.Errorf("%w: concat stream: %v", ai.ErrUpstreamUnavailable, err)
	}
	return response.Content, nil
}
