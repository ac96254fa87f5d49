package wellbeing

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	wellbeingmodel "github.com/chittahq/chitta/backend/internal/model/wellbeing"
	"github.com/chittahq/chitta/backend/internal/store"
)

func setupRouter(t *testing.T) (*chi.Mux, *store.Store) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st, err := store.NewWithDB(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	r := chi.NewRouter()
	New(st).RegisterRoutes(r)
	return r, st
}

func TestScorecardNotYetComputed(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/wellbeing?userId=u1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for uncomputed scores, got %d", resp.Code)
	}
}

func TestScorecardRequiresUserID(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/wellbeing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without userId, got %d", resp.Code)
	}
}

func TestScorecardReturned(t *testing.T) {
	r, st := setupRouter(t)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := st.ApplyMindSignal(context.Background(), "u1", 9, now); err != nil {
		t.Fatalf("apply mind signal: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/wellbeing?userId=u1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var card wellbeingmodel.Scorecard
	if err := json.Unmarshal(resp.Body.Bytes(), &card); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if card.Mind != 9 {
		t.Fatalf("expected mind score 9, got %d", card.Mind)
	}
	if card.Overall != 64 {
		t.Fatalf("expected overall score 64, got %d", card.Overall)
	}
}
