package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tradedash/internal/client/engine"
	"tradedash/internal/decision"
	"tradedash/internal/models"
	"tradedash/internal/repository"
)

// engineConfigName is the reserved name for the config mirrored from the
// engine. It is kept alongside user-defined presets but is never edited
// through the API.
const engineConfigName = "engine"

// ThresholdService resolves which threshold bounds apply and manages the
// saved presets. When no config is marked active the built-in defaults
// apply, so the dashboard always has a complete set of bounds to compare
// against.
type ThresholdService struct {
	Repo   repository.Repository
	Engine *engine.Client
	Logger *zap.Logger
}

// Active returns the bounds currently in effect.
func (s *ThresholdService) Active(ctx context.Context) (models.ThresholdConfig, error) {
	if s == nil || s.Repo == nil {
		return decision.DefaultThresholds, nil
	}
	cfg, err := s.Repo.GetActiveThresholdConfig(ctx)
	if err != nil {
		return decision.DefaultThresholds, err
	}
	if cfg == nil {
		return decision.DefaultThresholds, nil
	}
	return *cfg, nil
}

// Save validates and upserts a config by name. The returned warning is
// advisory; the save has already happened when it is non-empty.
func (s *ThresholdService) Save(ctx context.Context, cfg *models.ThresholdConfig) (string, error) {
	if s == nil || s.Repo == nil || cfg == nil {
		return "", nil
	}
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	warning, err := cfg.Validate()
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpsertThresholdConfig(ctx, cfg); err != nil {
		return "", err
	}
	if warning != "" && s.Logger != nil {
		s.Logger.Warn("threshold config saved with warning",
			zap.String("name", cfg.Name),
			zap.String("warning", warning),
		)
	}
	return warning, nil
}

// SyncFromEngine mirrors the engine's own execution bounds into the
// "engine" preset so operators can compare the dashboard config against
// what actually gates trades.
func (s *ThresholdService) SyncFromEngine(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Engine == nil {
		return nil
	}
	rec, err := s.Engine.GetThresholds(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	cfg := rec.ToModel()
	cfg.Name = engineConfigName
	cfg.UpdatedBy = "engine-sync"
	return s.Repo.UpsertThresholdConfig(ctx, &cfg)
}
