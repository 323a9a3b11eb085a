package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	journalmodel "github.com/neuropy/homehub/backend/internal/model/journal"
	"github.com/neuropy/homehub/backend/internal/store"
)

func setupRouter(t *testing.T) (*chi.Mux, *store.MemoryStore) {
	t.Helper()

	mem := store.NewMemoryStore()
	handler := New(mem)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, mem
}

func TestGetJournalFound(t *testing.T) {
	r, mem := setupRouter(t)
	mem.Save(context.Background(), "chat-1", journalmodel.Entry{Transcript: "a good day"})

	req := httptest.NewRequest(http.MethodGet, "/journals/chat-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var entry journalmodel.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if entry.Transcript != "a good day" {
		t.Fatalf("unexpected transcript: %q", entry.Transcript)
	}
}

func TestGetJournalNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/journals/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListJournalsLimit(t *testing.T) {
	r, mem := setupRouter(t)
	ctx := context.Background()
	mem.Save(ctx, "a", journalmodel.Entry{Transcript: "one"})
	mem.Save(ctx, "b", journalmodel.Entry{Transcript: "two"})
	mem.Save(ctx, "c", journalmodel.Entry{Transcript: "three"})

	req := httptest.NewRequest(http.MethodGet, "/journals?limit=2", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var entries []journalmodel.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestListJournalsRejectsBadLimit(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/journals?limit=zero", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
