package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chittahq/chitta/backend/internal/model/chat"
	"github.com/chittahq/chitta/backend/internal/model/mood"
	"github.com/chittahq/chitta/backend/internal/scoring"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewWithDB(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestInsertAndReadHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	turns := []chat.Message{
		{UserID: "u1", SessionID: "s1", Role: chat.RoleUser, Content: "hello"},
		{UserID: "u1", SessionID: "s1", Role: chat.RoleAssistant, Content: "hi there"},
		{UserID: "u1", SessionID: "s1", Role: chat.RoleUser, Content: "how are you"},
	}
	for _, turn := range turns {
		if err := s.InsertMessage(ctx, turn); err != nil {
			t.Fatalf("insert message: %v", err)
		}
	}

	history, err := s.SessionHistory(ctx, "u1", "s1", 20)
	if err != nil {
		t.Fatalf("session history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	for i, want := range []string{"hello", "hi there", "how are you"} {
		if history[i].Content != want {
			t.Fatalf("turn %d out of order: got %q, want %q", i, history[i].Content, want)
		}
	}
	if history[0].ID == "" {
		t.Fatal("expected assigned turn ID")
	}
	if history[0].CreatedAt.IsZero() {
		t.Fatal("expected assigned turn timestamp")
	}
}

func TestSessionHistoryCapKeepsNewestTurns(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		msg := chat.Message{
			UserID:    "u1",
			SessionID: "s1",
			Role:      chat.RoleUser,
			Content:   fmt.Sprintf("turn-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.InsertMessage(ctx, msg); err != nil {
			t.Fatalf("insert message: %v", err)
		}
	}

	history, err := s.SessionHistory(ctx, "u1", "s1", 20)
	if err != nil {
		t.Fatalf("session history: %v", err)
	}
	if len(history) != 20 {
		t.Fatalf("expected cap of 20 turns, got %d", len(history))
	}
	// Oldest-first truncation: turns 0..4 dropped, oldest survivor first.
	if history[0].Content != "turn-5" {
		t.Fatalf("expected oldest surviving turn first, got %q", history[0].Content)
	}
	if history[19].Content != "turn-24" {
		t.Fatalf("expected newest turn last, got %q", history[19].Content)
	}
}

func TestSessionHistoryScopedToSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.InsertMessage(ctx, chat.Message{UserID: "u1", SessionID: "s1", Role: chat.RoleUser, Content: "a"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertMessage(ctx, chat.Message{UserID: "u1", SessionID: "s2", Role: chat.RoleUser, Content: "b"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertMessage(ctx, chat.Message{UserID: "u2", SessionID: "s1", Role: chat.RoleUser, Content: "c"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	history, err := s.SessionHistory(ctx, "u1", "s1", 20)
	if err != nil {
		t.Fatalf("session history: %v", err)
	}
	if len(history) != 1 || history[0].Content != "a" {
		t.Fatalf("expected only the session's own turn, got %+v", history)
	}
}

func TestSessionHistoryEmptySession(t *testing.T) {
	s := setupTestStore(t)

	history, err := s.SessionHistory(context.Background(), "u1", "fresh", 20)
	if err != nil {
		t.Fatalf("expected empty history without error, got %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no turns, got %d", len(history))
	}
}

func TestRecentMoodsNewestFirstAndCapped(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		sample := mood.Sample{
			UserID:    "u1",
			Score:     i + 1,
			Emotions:  []string{fmt.Sprintf("emotion-%d", i)},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.InsertMood(ctx, sample); err != nil {
			t.Fatalf("insert mood: %v", err)
		}
	}

	samples, err := s.RecentMoods(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("recent moods: %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("expected cap of 5 samples, got %d", len(samples))
	}
	if samples[0].Score != 8 {
		t.Fatalf("expected newest sample first, got score %d", samples[0].Score)
	}
	if samples[4].Score != 4 {
		t.Fatalf("expected fifth-newest sample last, got score %d", samples[4].Score)
	}
	if len(samples[0].Emotions) != 1 || samples[0].Emotions[0] != "emotion-7" {
		t.Fatalf("emotions not round-tripped: %+v", samples[0].Emotions)
	}
}

func TestRecentMoodsEmpty(t *testing.T) {
	s := setupTestStore(t)

	samples, err := s.RecentMoods(context.Background(), "nobody", 5)
	if err != nil {
		t.Fatalf("expected no error for empty moods, got %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected no samples, got %d", len(samples))
	}
}

func TestScorecardNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Scorecard(context.Background(), "nobody")
	if !errors.Is(err, ErrScorecardNotFound) {
		t.Fatalf("expected ErrScorecardNotFound, got %v", err)
	}
}

func TestApplyMindSignalCreatesScorecard(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := s.ApplyMindSignal(ctx, "u1", 9, now); err != nil {
		t.Fatalf("apply mind signal: %v", err)
	}

	card, err := s.Scorecard(ctx, "u1")
	if err != nil {
		t.Fatalf("scorecard: %v", err)
	}
	if card.Mind != scoring.NextMind(0, 9) {
		t.Fatalf("mind = %d, want %d", card.Mind, scoring.NextMind(0, 9))
	}
	if card.Overall != scoring.Overall(card.Mind) {
		t.Fatalf("overall = %d, want %d", card.Overall, scoring.Overall(card.Mind))
	}
	if card.Physical != 0 || card.Nutrition != 0 || card.Career != 0 {
		t.Fatalf("expected other components defaulted to 0, got %+v", card)
	}
	if !card.LastCalculated.Equal(now) {
		t.Fatalf("last calculated = %v, want %v", card.LastCalculated, now)
	}
}

func TestApplyMindSignalUpdatesOnlyMindAndOverall(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Seed a full scorecard as the dashboard-side recomputation would.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO well_being_scores
			(user_id, mind_score, physical_score, nutrition_score, career_score, overall_score, last_calculated)
		VALUES ('u1', 50, 70, 65, 40, 58, ?)
	`, time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC).Format(timeLayout))
	if err != nil {
		t.Fatalf("seed scorecard: %v", err)
	}

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := s.ApplyMindSignal(ctx, "u1", 9, now); err != nil {
		t.Fatalf("apply mind signal: %v", err)
	}

	card, err := s.Scorecard(ctx, "u1")
	if err != nil {
		t.Fatalf("scorecard: %v", err)
	}
	wantMind := scoring.NextMind(50, 9)
	if card.Mind != wantMind {
		t.Fatalf("mind = %d, want %d", card.Mind, wantMind)
	}
	if card.Overall != scoring.Overall(wantMind) {
		t.Fatalf("overall = %d, want %d", card.Overall, scoring.Overall(wantMind))
	}
	if card.Physical != 70 || card.Nutrition != 65 || card.Career != 40 {
		t.Fatalf("other components must stay untouched, got %+v", card)
	}
	if !card.LastCalculated.Equal(now) {
		t.Fatalf("last calculated = %v, want %v", card.LastCalculated, now)
	}
}

func TestApplyMindSignalMatchesPolicyOverRepeatedTurns(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	intensities := []int{9, 3, 5, 10, 1, 7}
	wantMind := 0
	for i, intensity := range intensities {
		now := time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC)
		if err := s.ApplyMindSignal(ctx, "u1", intensity, now); err != nil {
			t.Fatalf("apply mind signal: %v", err)
		}
		wantMind = scoring.NextMind(wantMind, intensity)

		card, err := s.Scorecard(ctx, "u1")
		if err != nil {
			t.Fatalf("scorecard: %v", err)
		}
		if card.Mind != wantMind {
			t.Fatalf("step %d: mind = %d, want %d", i, card.Mind, wantMind)
		}
		if card.Overall != scoring.Overall(wantMind) {
			t.Fatalf("step %d: overall = %d, want %d", i, card.Overall, scoring.Overall(wantMind))
		}
	}
}
