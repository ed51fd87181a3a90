package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradedash/internal/client/engine"
	"tradedash/internal/models"
	"tradedash/internal/repository"
	"tradedash/internal/state"
)

// PortfolioSyncService polls the engine for the account snapshot and open
// positions. The stream delivers incremental updates; this poll is the
// authoritative reconciliation that also drops positions closed while the
// dashboard was offline.
type PortfolioSyncService struct {
	Repo   repository.Repository
	Engine *engine.Client
	Store  *state.Store
	Logger *zap.Logger
}

func (s *PortfolioSyncService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Engine == nil {
		return nil
	}
	if err := s.syncPortfolio(ctx); err != nil {
		return err
	}
	return s.syncPositions(ctx)
}

func (s *PortfolioSyncService) syncPortfolio(ctx context.Context) error {
	rec, err := s.Engine.GetPortfolio(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	snap := rec.ToModel()
	if err := s.Repo.InsertPortfolioSnapshot(ctx, &snap); err != nil {
		return err
	}
	if s.Store != nil {
		s.Store.Apply(state.Event{
			Type:      state.EventPortfolioUpdate,
			At:        time.Now().UTC(),
			Portfolio: &snap,
		})
	}
	return nil
}

func (s *PortfolioSyncService) syncPositions(ctx context.Context) error {
	records, err := s.Engine.ListPositions(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	open := make(map[string]struct{}, len(records))
	symbols := make([]string, 0, len(records))
	for i := range records {
		pos := records[i].ToModel()
		if pos.Symbol == "" {
			continue
		}
		open[pos.Symbol] = struct{}{}
		symbols = append(symbols, pos.Symbol)
		if err := s.Repo.UpsertPosition(ctx, &pos); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("upsert position failed",
					zap.String("symbol", pos.Symbol),
					zap.Error(err),
				)
			}
			continue
		}
		if s.Store != nil {
			s.Store.Apply(state.Event{
				Type:     state.EventPositionUpdate,
				At:       now,
				Position: &pos,
			})
		}
	}

	removed, err := s.Repo.DeletePositionsNotIn(ctx, symbols)
	if err != nil {
		return err
	}
	if removed > 0 && s.Logger != nil {
		s.Logger.Info("closed positions pruned", zap.Int64("count", removed))
	}

	// Evict store entries the engine no longer reports.
	if s.Store != nil {
		for _, pos := range s.Store.Positions() {
			if _, ok := open[pos.Symbol]; ok {
				continue
			}
			gone := models.Position{Symbol: pos.Symbol, Quantity: decimal.Zero}
			s.Store.Apply(state.Event{
				Type:     state.EventPositionUpdate,
				At:       now,
				Position: &gone,
			})
		}
	}
	return nil
}
