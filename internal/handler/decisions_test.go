package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"tradedash/internal/service"
)

func newDecisionEngine(repo *fakeRepo) *gin.Engine {
	engine := gin.New()
	h := &DecisionHandler{
		Repo:       repo,
		Thresholds: &service.ThresholdService{Repo: repo},
		PageSize:   8,
	}
	h.Register(engine)
	return engine
}

func TestListDecisions_Pagination(t *testing.T) {
	repo := &fakeRepo{decisions: seedDecisions(10)}
	engine := newDecisionEngine(repo)

	rec, resp := doRequest(t, engine, http.MethodGet, "/api/v1/decisions?page=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	items, ok := resp.Data.([]any)
	if !ok {
		t.Fatalf("data type %T", resp.Data)
	}
	if len(items) != 8 {
		t.Fatalf("items=%d want 8", len(items))
	}
	if resp.Meta["total"].(float64) != 10 {
		t.Fatalf("total=%v want 10", resp.Meta["total"])
	}
	if resp.Meta["total_pages"].(float64) != 2 {
		t.Fatalf("total_pages=%v want 2", resp.Meta["total_pages"])
	}
}

func TestListDecisions_PageClamped(t *testing.T) {
	repo := &fakeRepo{decisions: seedDecisions(10)}
	engine := newDecisionEngine(repo)

	_, resp := doRequest(t, engine, http.MethodGet, "/api/v1/decisions?page=99", nil)
	if resp.Meta["page"].(float64) != 2 {
		t.Fatalf("page=%v want clamped to 2", resp.Meta["page"])
	}
	items := resp.Data.([]any)
	if len(items) != 2 {
		t.Fatalf("items=%d want 2 on last page", len(items))
	}
}

func TestListDecisions_StatusFilter(t *testing.T) {
	repo := &fakeRepo{decisions: seedDecisions(10)}
	engine := newDecisionEngine(repo)

	_, resp := doRequest(t, engine, http.MethodGet, "/api/v1/decisions?status=rejected", nil)
	if resp.Meta["total"].(float64) != 5 {
		t.Fatalf("total=%v want 5 rejected", resp.Meta["total"])
	}
}

func TestGetDecision_WithComparisons(t *testing.T) {
	repo := &fakeRepo{decisions: seedDecisions(3)}
	engine := newDecisionEngine(repo)

	rec, resp := doRequest(t, engine, http.MethodGet, "/api/v1/decisions/d-a", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]any)
	comparisons := data["comparisons"].([]any)
	if len(comparisons) != 6 {
		t.Fatalf("comparisons=%d want 6", len(comparisons))
	}
	if resp.Meta["threshold_config"] != "default" {
		t.Fatalf("threshold_config=%v want default", resp.Meta["threshold_config"])
	}
}

func TestGetDecision_NotFound(t *testing.T) {
	engine := newDecisionEngine(&fakeRepo{})
	rec, _ := doRequest(t, engine, http.MethodGet, "/api/v1/decisions/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", rec.Code)
	}
}

func TestGetMetrics(t *testing.T) {
	repo := &fakeRepo{decisions: seedDecisions(10)}
	engine := newDecisionEngine(repo)

	rec, resp := doRequest(t, engine, http.MethodGet, "/api/v1/decisions/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	data := resp.Data.(map[string]any)
	// 5 of 10 executed.
	if got := data["execution_rate"].(float64); got != 0.5 {
		t.Fatalf("execution_rate=%v want 0.5", got)
	}
	if resp.Meta["sample_size"].(float64) != 10 {
		t.Fatalf("sample_size=%v", resp.Meta["sample_size"])
	}
}

func TestGetTrends(t *testing.T) {
	repo := &fakeRepo{decisions: seedDecisions(6)}
	engine := newDecisionEngine(repo)

	rec, resp := doRequest(t, engine, http.MethodGet, "/api/v1/decisions/trends?range=7d", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if resp.Meta["range"] != "7d" {
		t.Fatalf("range=%v", resp.Meta["range"])
	}
	data := resp.Data.(map[string]any)
	if _, ok := data["direction"]; !ok {
		t.Fatalf("direction missing: %v", data)
	}
}
