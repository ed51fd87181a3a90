package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tradedash/internal/client/engine"
	"tradedash/internal/config"
	"tradedash/internal/models"
)

func testEngineClient(t *testing.T, handler http.Handler) (*engine.Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := engine.NewClient(config.EngineConfig{
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
		RateLimit: 1000,
	}, nil)
	return client, srv.Close
}

func TestDecisionIngest_RunOnce(t *testing.T) {
	var calls int
	client, closeSrv := testEngineClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/decisions" {
			http.NotFound(w, r)
			return
		}
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("since") != "" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[
			{"id":"d-1","symbol":"BTCUSDT","timestamp":"2026-08-27T10:00:00Z","decisionType":"LONG","confidence":0.7,
			 "reasoning":{"technicalScore":0.6,"sentimentScore":0.5},"executionDecision":"EXECUTED"},
			{"id":"d-2","symbol":"ETHUSDT","timestamp":"2026-08-27T11:00:00Z","decisionType":"SHORT","confidence":0.4,
			 "reasoning":{"technicalScore":0.3,"sentimentScore":0.2},"executionDecision":"REJECTED","rejectionReasons":["confidence below threshold"]}
		]`))
	}))
	defer closeSrv()

	repo := newStubRepo()
	svc := &DecisionIngestService{Repo: repo, Engine: client, PageLimit: 2}
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(repo.decisions) != 2 {
		t.Fatalf("decisions=%d want 2", len(repo.decisions))
	}
	d, _ := repo.GetDecisionByEngineID(context.Background(), "d-2")
	if d == nil || d.Symbol != "ETHUSDT" {
		t.Fatalf("d-2 not ingested: %+v", d)
	}
	st := repo.syncStates[syncScopeDecisions]
	if st.LastTimestamp == nil {
		t.Fatalf("cursor not saved")
	}
	want := time.Date(2026, 8, 27, 11, 0, 0, 0, time.UTC)
	if !st.LastTimestamp.Equal(want) {
		t.Fatalf("cursor=%v want %v", st.LastTimestamp, want)
	}
	// Full first page forces a follow-up fetch with the advanced cursor.
	if calls != 2 {
		t.Fatalf("calls=%d want 2", calls)
	}
}

func TestDecisionIngest_ResumeFromCursor(t *testing.T) {
	var gotSince string
	client, closeSrv := testEngineClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSince = r.URL.Query().Get("since")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer closeSrv()

	repo := newStubRepo()
	cursor := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	repo.syncStates[syncScopeDecisions] = models.SyncState{
		Scope:         syncScopeDecisions,
		LastTimestamp: &cursor,
	}

	svc := &DecisionIngestService{Repo: repo, Engine: client, PageLimit: 50}
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if gotSince != cursor.Format(time.RFC3339) {
		t.Fatalf("since=%q want %q", gotSince, cursor.Format(time.RFC3339))
	}
}

func TestDecisionIngest_NilService(t *testing.T) {
	var svc *DecisionIngestService
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("nil service should no-op, got %v", err)
	}
}
