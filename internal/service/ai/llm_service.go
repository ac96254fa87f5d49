package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/chittahq/chitta/backend/internal/config"
	"github.com/chittahq/chitta/backend/internal/model/chat"
	"github.com/chittahq/chitta/backend/internal/model/mood"
)

// ErrUpstreamUnavailable marks every failure of the external completion
// service (quota, auth, timeout, malformed output). Callers must be able to
// tell "the AI did not answer" apart from storage failures.
var ErrUpstreamUnavailable = errors.New("completion service unavailable")

// Service invokes the external completion model with a bounded prompt. No
// retries happen here; retry policy, if any, belongs to the caller so that
// interactive latency stays predictable.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the AI service from configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, cfg)
}

// NewServiceWithModel creates the AI service on an existing model instance.
// Used by tests.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, cfg config.AIConfig) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// StreamingEnabled reports whether SSE streaming output is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.Stream
}

// GenerateReply produces the companion's answer for one user message given
// the session history and recent mood context.
func (s *Service) GenerateReply(ctx context.Context, sessionID string, history []chat.Message, userMessage string, moods []mood.Sample) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	response, err := s.chain.Invoke(ctx, s.chainInput(history, userMessage, moods))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	log.Printf("[ai] generated reply for session=%s, length=%d", sessionID, len(response.Content))
	return response.Content, nil
}

// StreamReply streams the companion's answer chunk by chunk. The caller
// owns closing the reader.
func (s *Service) StreamReply(ctx context.Context, sessionID string, history []chat.Message, userMessage string, moods []mood.Sample) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.chain.Stream(ctx, s.chainInput(history, userMessage, moods))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return stream, nil
}

func (s *Service) chainInput(history []chat.Message, userMessage string, moods []mood.Sample) map[string]any {
	return map[string]any{
		"system":  buildSystemPrompt(moods),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}
}
