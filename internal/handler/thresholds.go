package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedash/internal/decision"
	"tradedash/internal/models"
	"tradedash/internal/repository"
	"tradedash/internal/service"
)

// ThresholdHandler exposes the threshold presets and the currently active
// bounds.
type ThresholdHandler struct {
	Repo    repository.Repository
	Service *service.ThresholdService
}

func (h *ThresholdHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/thresholds")
	group.GET("", h.getActive)
	group.GET("/configs", h.listConfigs)
	group.PUT("", h.saveConfig)
}

// @Summary Currently effective threshold bounds
// @Tags thresholds
// @Success 200 {object} apiResponse
// @Router /api/v1/thresholds [get]
func (h *ThresholdHandler) getActive(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	cfg, err := h.Service.Active(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, cfg, map[string]any{
		"defaults": decision.DefaultThresholds,
	})
}

// @Summary List saved threshold configs
// @Tags thresholds
// @Success 200 {object} apiResponse
// @Router /api/v1/thresholds/configs [get]
func (h *ThresholdHandler) listConfigs(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListThresholdConfigs(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Save a threshold config
// @Tags thresholds
// @Param body body models.ThresholdConfig true "config"
// @Success 200 {object} apiResponse
// @Router /api/v1/thresholds [put]
func (h *ThresholdHandler) saveConfig(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var cfg models.ThresholdConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		Error(c, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return
	}
	warning, err := h.Service.Save(c.Request.Context(), &cfg)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var meta map[string]any
	if warning != "" {
		meta = map[string]any{"warning": warning}
	}
	Ok(c, cfg, meta)
}
