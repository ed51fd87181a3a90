package service

import (
	"context"
	"sort"
	"time"

	"tradedash/internal/models"
	"tradedash/internal/repository"
)

// stubRepo is an in-memory repository.Repository for service tests.
type stubRepo struct {
	decisions  map[string]models.Decision
	configs    map[string]models.ThresholdConfig
	signals    []models.Signal
	snapshots  []models.PortfolioSnapshot
	positions  map[string]models.Position
	rawEvents  []models.RawStreamEvent
	syncStates map[string]models.SyncState
}

var _ repository.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{
		decisions:  map[string]models.Decision{},
		configs:    map[string]models.ThresholdConfig{},
		positions:  map[string]models.Position{},
		syncStates: map[string]models.SyncState{},
	}
}

func (r *stubRepo) UpsertDecision(_ context.Context, item *models.Decision) error {
	r.decisions[item.EngineID] = *item
	return nil
}

func (r *stubRepo) GetDecisionByEngineID(_ context.Context, engineID string) (*models.Decision, error) {
	if d, ok := r.decisions[engineID]; ok {
		cp := d
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) ListDecisions(_ context.Context, _ repository.ListDecisionsParams) ([]models.Decision, error) {
	out := make([]models.Decision, 0, len(r.decisions))
	for _, d := range r.decisions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *stubRepo) CountDecisions(_ context.Context, _ repository.ListDecisionsParams) (int64, error) {
	return int64(len(r.decisions)), nil
}

func (r *stubRepo) LatestDecisionTimestamp(_ context.Context) (*time.Time, error) {
	var latest *time.Time
	for _, d := range r.decisions {
		if latest == nil || d.Timestamp.After(*latest) {
			ts := d.Timestamp
			latest = &ts
		}
	}
	return latest, nil
}

func (r *stubRepo) UpsertThresholdConfig(_ context.Context, item *models.ThresholdConfig) error {
	r.configs[item.Name] = *item
	return nil
}

func (r *stubRepo) GetThresholdConfigByName(_ context.Context, name string) (*models.ThresholdConfig, error) {
	if c, ok := r.configs[name]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) GetActiveThresholdConfig(_ context.Context) (*models.ThresholdConfig, error) {
	for _, c := range r.configs {
		if c.Active {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListThresholdConfigs(_ context.Context) ([]models.ThresholdConfig, error) {
	out := make([]models.ThresholdConfig, 0, len(r.configs))
	for _, c := range r.configs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRepo) InsertSignal(_ context.Context, item *models.Signal) error {
	r.signals = append(r.signals, *item)
	return nil
}

func (r *stubRepo) ListSignals(_ context.Context, _ repository.ListSignalsParams) ([]models.Signal, error) {
	return append([]models.Signal(nil), r.signals...), nil
}

func (r *stubRepo) InsertPortfolioSnapshot(_ context.Context, item *models.PortfolioSnapshot) error {
	r.snapshots = append(r.snapshots, *item)
	return nil
}

func (r *stubRepo) LatestPortfolioSnapshot(_ context.Context) (*models.PortfolioSnapshot, error) {
	if len(r.snapshots) == 0 {
		return nil, nil
	}
	cp := r.snapshots[len(r.snapshots)-1]
	return &cp, nil
}

func (r *stubRepo) UpsertPosition(_ context.Context, item *models.Position) error {
	r.positions[item.Symbol] = *item
	return nil
}

func (r *stubRepo) ListPositions(_ context.Context) ([]models.Position, error) {
	out := make([]models.Position, 0, len(r.positions))
	for _, p := range r.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (r *stubRepo) DeletePositionsNotIn(_ context.Context, symbols []string) (int64, error) {
	keep := map[string]struct{}{}
	for _, s := range symbols {
		keep[s] = struct{}{}
	}
	var removed int64
	for sym := range r.positions {
		if _, ok := keep[sym]; !ok {
			delete(r.positions, sym)
			removed++
		}
	}
	return removed, nil
}

func (r *stubRepo) InsertRawStreamEvent(_ context.Context, item *models.RawStreamEvent) error {
	r.rawEvents = append(r.rawEvents, *item)
	return nil
}

func (r *stubRepo) DeleteRawStreamEventsBefore(_ context.Context, before time.Time) (int64, error) {
	kept := r.rawEvents[:0]
	var removed int64
	for _, ev := range r.rawEvents {
		if ev.ReceivedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	r.rawEvents = kept
	return removed, nil
}

func (r *stubRepo) GetSyncState(_ context.Context, scope string) (*models.SyncState, error) {
	if s, ok := r.syncStates[scope]; ok {
		cp := s
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) SaveSyncState(_ context.Context, state *models.SyncState) error {
	r.syncStates[state.Scope] = *state
	return nil
}
