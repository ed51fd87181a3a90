package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedash/internal/repository"
	"tradedash/internal/state"
)

// PortfolioHandler serves live account state. Reads come from the
// in-memory store; the repository is the fallback before the first stream
// or poll update lands.
type PortfolioHandler struct {
	Repo  repository.Repository
	Store *state.Store

	RecentSignals int
}

func (h *PortfolioHandler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	v1.GET("/portfolio", h.getPortfolio)
	v1.GET("/positions", h.listPositions)
	v1.GET("/signals", h.listSignals)
	v1.GET("/regime", h.getRegime)
}

// @Summary Current portfolio snapshot
// @Tags portfolio
// @Success 200 {object} apiResponse
// @Router /api/v1/portfolio [get]
func (h *PortfolioHandler) getPortfolio(c *gin.Context) {
	if h.Store != nil {
		snap := h.Store.Portfolio()
		if !snap.Equity.IsZero() || snap.OpenPositions > 0 {
			Ok(c, snap, map[string]any{"source": "stream"})
			return
		}
	}
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	snap, err := h.Repo.LatestPortfolioSnapshot(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if snap == nil {
		Error(c, http.StatusNotFound, "no portfolio snapshot yet", nil)
		return
	}
	Ok(c, snap, map[string]any{"source": "db"})
}

// @Summary Open positions
// @Tags portfolio
// @Success 200 {object} apiResponse
// @Router /api/v1/positions [get]
func (h *PortfolioHandler) listPositions(c *gin.Context) {
	if h.Store != nil {
		if items := h.Store.Positions(); len(items) > 0 {
			Ok(c, items, map[string]any{"source": "stream"})
			return
		}
	}
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListPositions(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"source": "db"})
}

// @Summary Recent trading signals
// @Tags portfolio
// @Param limit query int false "max signals"
// @Success 200 {object} apiResponse
// @Router /api/v1/signals [get]
func (h *PortfolioHandler) listSignals(c *gin.Context) {
	limit := intQuery(c, "limit", h.recentSignals())
	if h.Store != nil {
		if items := h.Store.RecentSignals(limit); len(items) > 0 {
			Ok(c, items, map[string]any{"source": "stream"})
			return
		}
	}
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListSignals(c.Request.Context(), repository.ListSignalsParams{
		Limit:      limit,
		SignalType: strQueryPtr(c, "type"),
		Symbol:     strQueryPtr(c, "symbol"),
		Since:      timeQueryPtr(c, "since"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"source": "db"})
}

// @Summary Current market regime
// @Tags portfolio
// @Success 200 {object} apiResponse
// @Router /api/v1/regime [get]
func (h *PortfolioHandler) getRegime(c *gin.Context) {
	regime := ""
	if h.Store != nil {
		regime = h.Store.Regime()
	}
	if regime == "" {
		regime = "UNKNOWN"
	}
	Ok(c, gin.H{"regime": regime}, nil)
}

func (h *PortfolioHandler) recentSignals() int {
	if h.RecentSignals > 0 {
		return h.RecentSignals
	}
	return 50
}
