package ai

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/chittahq/chitta/backend/internal/model/chat"
	"github.com/chittahq/chitta/backend/internal/model/mood"
)

// companionPrompt is the fixed persona and policy for the companion. It is
// a supportive peer, not a clinician.
const companionPrompt = `You are ChittaAI, an empathetic AI mental health companion for university students. Your role is to provide:

1. **Emotional Support**: Listen actively, validate feelings, and provide comfort
2. **Mental Health Guidance**: Offer evidence-based coping strategies and mindfulness techniques
3. **Crisis Detection**: Identify concerning patterns and recommend professional help when needed
4. **Personalized Care**: Adapt your responses based on the user's mood history and current state

Key Guidelines:
- Be warm, understanding, and non-judgmental
- Use active listening techniques and reflective responses
- Suggest practical coping strategies (breathing exercises, grounding techniques, etc.)
- Encourage healthy habits and self-care
- If you detect signs of severe depression, anxiety, or suicidal ideation, gently recommend professional help
- Keep responses concise but meaningful (2-3 paragraphs max)
- Use encouraging language and remind users of their strengths

Remember: You're a supportive companion, not a replacement for professional therapy.`

// Cap on distinct emotion tags surfaced to the model.
const maxRecentEmotions = 5

// buildSystemPrompt appends the recent mood context, when present, to the
// companion policy prompt. Pure and deterministic.
func buildSystemPrompt(moods []mood.Sample) string {
	if len(moods) == 0 {
		return companionPrompt
	}

	total := 0
	for _, sample := range moods {
		total += sample.Score
	}
	avg := float64(total) / float64(len(moods))

	emotions := recentEmotions(moods)
	joined := strings.Join(emotions, ", ")
	if joined == "" {
		joined = "Not specified"
	}

	var b strings.Builder
	b.WriteString(companionPrompt)
	fmt.Fprintf(&b, "\n\nUser's Recent Context:\n")
	fmt.Fprintf(&b, "- Average mood score: %.1f/10 (over last %d entries)\n", avg, len(moods))
	fmt.Fprintf(&b, "- Recent emotions: %s\n", joined)
	b.WriteString("- This context should inform your empathetic responses.")
	return b.String()
}

// recentEmotions unions emotion tags across the samples, deduplicated in
// collection order, capped at maxRecentEmotions.
func recentEmotions(moods []mood.Sample) []string {
	seen := make(map[string]struct{})
	var emotions []string
	for _, sample := range moods {
		for _, emotion := range sample.Emotions {
			if _, ok := seen[emotion]; ok {
				continue
			}
			seen[emotion] = struct{}{}
			emotions = append(emotions, emotion)
			if len(emotions) == maxRecentEmotions {
				return emotions
			}
		}
	}
	return emotions
}

// buildHistoryMessages converts stored turns into model messages in their
// original order. Unknown roles are skipped.
func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
