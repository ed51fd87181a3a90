package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tradedash/internal/models"
	"tradedash/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRepo backs handler tests with a fixed decision window.
type fakeRepo struct {
	decisions []models.Decision
	configs   map[string]models.ThresholdConfig
	signals   []models.Signal
	snapshot  *models.PortfolioSnapshot
	positions []models.Position
}

var _ repository.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) UpsertDecision(_ context.Context, item *models.Decision) error {
	r.decisions = append(r.decisions, *item)
	return nil
}

func (r *fakeRepo) GetDecisionByEngineID(_ context.Context, engineID string) (*models.Decision, error) {
	for i := range r.decisions {
		if r.decisions[i].EngineID == engineID {
			cp := r.decisions[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListDecisions(_ context.Context, params repository.ListDecisionsParams) ([]models.Decision, error) {
	out := make([]models.Decision, 0, len(r.decisions))
	for _, d := range r.decisions {
		if params.Since != nil && d.Timestamp.Before(*params.Since) {
			continue
		}
		if params.Symbol != nil && d.Symbol != *params.Symbol {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *fakeRepo) CountDecisions(_ context.Context, _ repository.ListDecisionsParams) (int64, error) {
	return int64(len(r.decisions)), nil
}

func (r *fakeRepo) LatestDecisionTimestamp(_ context.Context) (*time.Time, error) { return nil, nil }

func (r *fakeRepo) UpsertThresholdConfig(_ context.Context, item *models.ThresholdConfig) error {
	if r.configs == nil {
		r.configs = map[string]models.ThresholdConfig{}
	}
	r.configs[item.Name] = *item
	return nil
}

func (r *fakeRepo) GetThresholdConfigByName(_ context.Context, name string) (*models.ThresholdConfig, error) {
	if c, ok := r.configs[name]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) GetActiveThresholdConfig(_ context.Context) (*models.ThresholdConfig, error) {
	for _, c := range r.configs {
		if c.Active {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListThresholdConfigs(_ context.Context) ([]models.ThresholdConfig, error) {
	out := make([]models.ThresholdConfig, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) InsertSignal(_ context.Context, item *models.Signal) error {
	r.signals = append(r.signals, *item)
	return nil
}

func (r *fakeRepo) ListSignals(_ context.Context, _ repository.ListSignalsParams) ([]models.Signal, error) {
	return r.signals, nil
}

func (r *fakeRepo) InsertPortfolioSnapshot(_ context.Context, item *models.PortfolioSnapshot) error {
	r.snapshot = item
	return nil
}

func (r *fakeRepo) LatestPortfolioSnapshot(_ context.Context) (*models.PortfolioSnapshot, error) {
	return r.snapshot, nil
}

func (r *fakeRepo) UpsertPosition(_ context.Context, item *models.Position) error {
	r.positions = append(r.positions, *item)
	return nil
}

func (r *fakeRepo) ListPositions(_ context.Context) ([]models.Position, error) {
	return r.positions, nil
}

func (r *fakeRepo) DeletePositionsNotIn(_ context.Context, _ []string) (int64, error) {
	return 0, nil
}

func (r *fakeRepo) InsertRawStreamEvent(_ context.Context, _ *models.RawStreamEvent) error {
	return nil
}

func (r *fakeRepo) DeleteRawStreamEventsBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeRepo) GetSyncState(_ context.Context, _ string) (*models.SyncState, error) {
	return nil, nil
}

func (r *fakeRepo) SaveSyncState(_ context.Context, _ *models.SyncState) error { return nil }

func strPtr(v string) *string { return &v }

func seedDecisions(n int) []models.Decision {
	base := time.Now().UTC().Add(-time.Hour)
	out := make([]models.Decision, 0, n)
	for i := 0; i < n; i++ {
		exec := models.ExecutionExecuted
		if i%2 == 1 {
			exec = models.ExecutionRejected
		}
		out = append(out, models.Decision{
			EngineID:          "d-" + string(rune('a'+i)),
			Symbol:            "BTCUSDT",
			DecisionType:      models.DecisionTypeSignalGeneration,
			Timestamp:         base.Add(time.Duration(i) * time.Minute),
			Confidence:        0.5 + float64(i%5)/10,
			TechnicalScore:    0.6,
			SentimentScore:    0.5,
			ExecutionDecision: strPtr(exec),
		})
	}
	return out
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body io.Reader) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
	return rec, resp
}
