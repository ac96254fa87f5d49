package ai

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/chittahq/chitta/backend/internal/model/chat"
	"github.com/chittahq/chitta/backend/internal/model/mood"
)

func TestBuildSystemPromptWithoutMoodContext(t *testing.T) {
	got := buildSystemPrompt(nil)
	if got != companionPrompt {
		t.Fatal("expected bare companion prompt without mood samples")
	}
	if strings.Contains(got, "Recent Context") {
		t.Fatal("mood paragraph must be omitted without samples")
	}
}

func TestBuildSystemPromptAppendsMoodSummary(t *testing.T) {
	moods := []mood.Sample{
		{Score: 8, Emotions: []string{"hopeful", "calm"}},
		{Score: 5, Emotions: []string{"tired"}},
		{Score: 3},
	}

	got := buildSystemPrompt(moods)
	if !strings.HasPrefix(got, companionPrompt) {
		t.Fatal("mood summary must extend the base prompt, not replace it")
	}
	// Mean of 8, 5, 3 rendered to one decimal place.
	if !strings.Contains(got, "Average mood score: 5.3/10 (over last 3 entries)") {
		t.Fatalf("missing or wrong average line:\n%s", got)
	}
	if !strings.Contains(got, "Recent emotions: hopeful, calm, tired") {
		t.Fatalf("missing or wrong emotions line:\n%s", got)
	}
}

func TestBuildSystemPromptWithoutEmotionTags(t *testing.T) {
	got := buildSystemPrompt([]mood.Sample{{Score: 6}, {Score: 7}})
	if !strings.Contains(got, "Recent emotions: Not specified") {
		t.Fatalf("expected placeholder for missing emotion tags:\n%s", got)
	}
}

func TestRecentEmotionsDedupesAndCaps(t *testing.T) {
	moods := []mood.Sample{
		{Emotions: []string{"calm", "hopeful", "calm"}},
		{Emotions: []string{"anxious", "hopeful", "tired", "proud", "curious"}},
	}

	got := recentEmotions(moods)
	want := []string{"calm", "hopeful", "anxious", "tired", "proud"}
	if len(got) != len(want) {
		t.Fatalf("expected %d emotions, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("emotion %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildHistoryMessagesPreservesOrderAndRoles(t *testing.T) {
	history := buildHistoryMessages([]chat.Message{
		{Role: chat.RoleUser, Content: "first"},
		{Role: chat.RoleAssistant, Content: "second"},
		{Role: "system", Content: "ignored"},
		{Role: chat.RoleUser, Content: "third"},
	})

	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	if history[0].Role != schema.User || history[0].Content != "first" {
		t.Fatalf("unexpected first message: %+v", history[0])
	}
	if history[1].Role != schema.Assistant || history[1].Content != "second" {
		t.Fatalf("unexpected second message: %+v", history[1])
	}
	if history[2].Role != schema.User || history[2].Content != "third" {
		t.Fatalf("unexpected third message: %+v", history[2])
	}
}

func TestBuildHistoryMessagesEmpty(t *testing.T) {
	if got := buildHistoryMessages(nil); got != nil {
		t.Fatalf("expected nil history, got %v", got)
	}
}
