package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tradedash/internal/repository"
)

// RetentionService prunes raw websocket frames past their keep window.
type RetentionService struct {
	Repo      repository.Repository
	Logger    *zap.Logger
	RawEvents time.Duration
}

func (s *RetentionService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	keep := s.RawEvents
	if keep <= 0 {
		keep = 72 * time.Hour
	}
	cutoff := time.Now().UTC().Add(-keep)
	deleted, err := s.Repo.DeleteRawStreamEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 && s.Logger != nil {
		s.Logger.Info("raw stream events pruned",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
