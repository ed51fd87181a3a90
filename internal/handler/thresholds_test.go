package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tradedash/internal/service"
)

func newThresholdEngine(repo *fakeRepo) *gin.Engine {
	engine := gin.New()
	h := &ThresholdHandler{
		Repo:    repo,
		Service: &service.ThresholdService{Repo: repo},
	}
	h.Register(engine)
	return engine
}

func TestGetActiveThresholds_Defaults(t *testing.T) {
	engine := newThresholdEngine(&fakeRepo{})
	rec, resp := doRequest(t, engine, http.MethodGet, "/api/v1/thresholds", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	data := resp.Data.(map[string]any)
	if data["min_confidence"].(float64) != 0.6 {
		t.Fatalf("min_confidence=%v want 0.6", data["min_confidence"])
	}
	if data["name"] != "default" {
		t.Fatalf("name=%v want default", data["name"])
	}
}

func TestSaveThresholds_Valid(t *testing.T) {
	repo := &fakeRepo{}
	engine := newThresholdEngine(repo)

	body := strings.NewReader(`{"name":"custom","min_confidence":0.7,"min_technical":0.6,
		"min_sentiment":0.5,"min_fusion_score":0.5,"max_risk_score":0.7,"min_volume_score":0.4,"active":true}`)
	rec, _ := doRequest(t, engine, http.MethodPut, "/api/v1/thresholds", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if _, ok := repo.configs["custom"]; !ok {
		t.Fatalf("config not saved")
	}

	// The saved config becomes the active one.
	_, resp := doRequest(t, engine, http.MethodGet, "/api/v1/thresholds", nil)
	if resp.Data.(map[string]any)["name"] != "custom" {
		t.Fatalf("active=%v want custom", resp.Data)
	}
}

func TestSaveThresholds_OutOfRange(t *testing.T) {
	engine := newThresholdEngine(&fakeRepo{})
	body := strings.NewReader(`{"name":"bad","min_confidence":1.5}`)
	rec, _ := doRequest(t, engine, http.MethodPut, "/api/v1/thresholds", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", rec.Code)
	}
}

func TestSaveThresholds_Warning(t *testing.T) {
	engine := newThresholdEngine(&fakeRepo{})
	body := strings.NewReader(`{"name":"fusion","min_confidence":0.6,"min_technical":0.5,
		"min_sentiment":0.4,"min_fusion_score":0.9,"max_risk_score":0.8,"min_volume_score":0.3}`)
	rec, resp := doRequest(t, engine, http.MethodPut, "/api/v1/thresholds", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if resp.Meta["warning"] == nil {
		t.Fatalf("expected warning in meta")
	}
}
