package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tradedash/internal/client/engine"
	"tradedash/internal/models"
	"tradedash/internal/repository"
)

const syncScopeDecisions = "decisions"

// DecisionIngestService polls the engine REST API for AI decision records
// and mirrors them into the local database. A per-scope cursor in
// sync_states makes restarts resume from the newest ingested timestamp
// instead of refetching history.
type DecisionIngestService struct {
	Repo      repository.Repository
	Engine    *engine.Client
	Logger    *zap.Logger
	PageLimit int
}

// RunOnce fetches every decision newer than the stored cursor, upserting
// page by page until the engine returns a short page.
func (s *DecisionIngestService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Engine == nil {
		return nil
	}
	limit := s.PageLimit
	if limit <= 0 {
		limit = 200
	}

	state, err := s.Repo.GetSyncState(ctx, syncScopeDecisions)
	if err != nil {
		return err
	}
	if state == nil {
		state = &models.SyncState{Scope: syncScopeDecisions}
	}
	since := state.LastTimestamp

	total := 0
	for {
		records, err := s.Engine.ListDecisions(ctx, since, limit)
		if err != nil {
			return err
		}
		watermark := since
		for i := range records {
			item := records[i].ToModel()
			if err := s.Repo.UpsertDecision(ctx, &item); err != nil {
				if s.Logger != nil {
					s.Logger.Warn("upsert decision failed",
						zap.String("engine_id", item.EngineID),
						zap.Error(err),
					)
				}
				continue
			}
			total++
			if watermark == nil || item.Timestamp.After(*watermark) {
				ts := item.Timestamp
				watermark = &ts
			}
		}
		advanced := watermark != nil && (since == nil || watermark.After(*since))
		since = watermark
		if len(records) < limit || !advanced {
			break
		}
	}

	state.LastTimestamp = since
	state.LastRunAt = time.Now().UTC()
	if err := s.Repo.SaveSyncState(ctx, state); err != nil {
		return err
	}
	if total > 0 && s.Logger != nil {
		s.Logger.Info("decision ingest completed", zap.Int("ingested", total))
	}
	return nil
}
