package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradedash/internal/decision"
	"tradedash/internal/repository"
	"tradedash/internal/service"
)

// DecisionHandler serves the decision list, detail, metrics, and trend
// endpoints. Filtering and pagination run in-process over a bounded window
// of recent records, which keeps the pipeline semantics identical across
// the list and metrics views.
type DecisionHandler struct {
	Repo       repository.Repository
	Thresholds *service.ThresholdService
	Logger     *zap.Logger

	PageSize    int
	WindowLimit int
}

func (h *DecisionHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/decisions")
	group.GET("", h.listDecisions)
	group.GET("/metrics", h.getMetrics)
	group.GET("/trends", h.getTrends)
	group.GET("/:id", h.getDecision)
}

// @Summary List decisions
// @Tags decisions
// @Param status query string false "all|executed|rejected|pending"
// @Param search query string false "substring over symbol, type, summary"
// @Param sort_by query string false "timestamp|confidence|symbol"
// @Param order query string false "asc|desc"
// @Param page query int false "1-based page"
// @Param page_size query int false "page size"
// @Param symbol query string false "exact symbol"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Success 200 {object} apiResponse
// @Router /api/v1/decisions [get]
func (h *DecisionHandler) listDecisions(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListDecisions(c.Request.Context(), repository.ListDecisionsParams{
		Limit:   h.windowLimit(),
		Symbol:  strQueryPtr(c, "symbol"),
		Since:   timeQueryPtr(c, "since"),
		Until:   timeQueryPtr(c, "until"),
		OrderBy: "timestamp",
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}

	params := decision.PipelineParams{
		Status:    strings.TrimSpace(c.Query("status")),
		Search:    strings.TrimSpace(c.Query("search")),
		SortField: strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.TrimSpace(c.Query("order")),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "page_size", h.pageSize()),
	}
	page := decision.ApplyPipeline(items, params)
	if clamped := decision.ClampPage(params.Page, page.TotalPages); clamped != params.Page {
		params.Page = clamped
		page = decision.ApplyPipeline(items, params)
	}
	Ok(c, page.Items, pageMeta(page))
}

// @Summary Decision detail with threshold comparison
// @Tags decisions
// @Param id path string true "decision id"
// @Success 200 {object} apiResponse
// @Router /api/v1/decisions/{id} [get]
func (h *DecisionHandler) getDecision(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	item, err := h.Repo.GetDecisionByEngineID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "decision not found", nil)
		return
	}

	cfg := decision.DefaultThresholds
	if h.Thresholds != nil {
		active, err := h.Thresholds.Active(c.Request.Context())
		if err != nil && h.Logger != nil {
			h.Logger.Warn("load active thresholds failed", zap.Error(err))
		} else {
			cfg = active
		}
	}

	Ok(c, gin.H{
		"decision":    item,
		"comparisons": decision.CompareThresholds(*item, cfg),
		"derived": gin.H{
			"fusion_score": decision.FusionScore(*item),
			"risk_score":   decision.RiskScore(*item),
			"volume_score": decision.VolumeScore(*item),
		},
	}, map[string]any{"threshold_config": cfg.Name})
}

// @Summary Aggregate metrics over recent decisions
// @Tags decisions
// @Param status query string false "all|executed|rejected|pending"
// @Param symbol query string false "exact symbol"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Success 200 {object} apiResponse
// @Router /api/v1/decisions/metrics [get]
func (h *DecisionHandler) getMetrics(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListDecisions(c.Request.Context(), repository.ListDecisionsParams{
		Limit:   h.windowLimit(),
		Symbol:  strQueryPtr(c, "symbol"),
		Since:   timeQueryPtr(c, "since"),
		Until:   timeQueryPtr(c, "until"),
		OrderBy: "timestamp",
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" && status != decision.StatusAll {
		items = decision.Filter(items, status, "")
	}
	Ok(c, decision.ComputeMetrics(items), map[string]any{"sample_size": len(items)})
}

// @Summary Bucketed metric trend
// @Tags decisions
// @Param range query string false "24h|7d|30d"
// @Param symbol query string false "exact symbol"
// @Success 200 {object} apiResponse
// @Router /api/v1/decisions/trends [get]
func (h *DecisionHandler) getTrends(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	r, window := parseTrendRange(c.Query("range"))
	since := time.Now().UTC().Add(-window)
	items, err := h.Repo.ListDecisions(c.Request.Context(), repository.ListDecisionsParams{
		Limit:   h.windowLimit(),
		Symbol:  strQueryPtr(c, "symbol"),
		Since:   &since,
		OrderBy: "timestamp",
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	points := decision.AggregateTrend(items, r)
	Ok(c, gin.H{
		"points":    points,
		"direction": decision.TrendDirection(points),
	}, map[string]any{"range": string(r), "sample_size": len(items)})
}

func parseTrendRange(raw string) (decision.Range, time.Duration) {
	switch decision.Range(strings.TrimSpace(raw)) {
	case decision.Range7d:
		return decision.Range7d, 7 * 24 * time.Hour
	case decision.Range30d:
		return decision.Range30d, 30 * 24 * time.Hour
	default:
		return decision.Range24h, 24 * time.Hour
	}
}

func (h *DecisionHandler) pageSize() int {
	if h.PageSize > 0 {
		return h.PageSize
	}
	return decision.DefaultPageSize
}

func (h *DecisionHandler) windowLimit() int {
	if h.WindowLimit > 0 {
		return h.WindowLimit
	}
	return 1000
}
