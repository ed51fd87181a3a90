package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradedash/internal/client/engine"
	"tradedash/internal/config"
	"tradedash/internal/models"
	"tradedash/internal/repository"
	"tradedash/internal/state"
)

// StreamIngestService consumes the engine websocket feed, persists every
// frame, and applies the decoded payloads to both the database and the
// in-memory state store that backs the live dashboard endpoints.
type StreamIngestService struct {
	Repo   repository.Repository
	Store  *state.Store
	Config config.StreamConfig
	Logger *zap.Logger
}

// Run blocks until the context ends, reconnecting on every failure.
func (s *StreamIngestService) Run(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if !s.Config.Enabled || s.Config.URL == "" {
		if s.Logger != nil {
			s.Logger.Info("engine stream disabled")
		}
		<-ctx.Done()
		return ctx.Err()
	}
	stream := engine.NewStream(engine.StreamOptions{
		URL:               s.Config.URL,
		HeartbeatInterval: s.Config.HeartbeatInterval,
		BackoffMin:        s.Config.BackoffMin,
		BackoffMax:        s.Config.BackoffMax,
		Logger:            s.Logger,
	})
	return stream.Run(ctx, func(env engine.Envelope, raw []byte) {
		s.handleMessage(ctx, env, raw)
	})
}

func (s *StreamIngestService) handleMessage(ctx context.Context, env engine.Envelope, raw []byte) {
	if s == nil || s.Repo == nil || env.Type == "" {
		return
	}
	now := time.Now().UTC()
	_ = s.Repo.InsertRawStreamEvent(ctx, &models.RawStreamEvent{
		EventType:  env.Type,
		Payload:    datatypes.JSON(raw),
		ReceivedAt: now,
	})

	var err error
	switch env.Type {
	case engine.EventAIDecision:
		err = s.handleDecision(ctx, env)
	case engine.EventSignalGenerated:
		err = s.handleSignal(ctx, env)
	case engine.EventRegimeChange:
		err = s.handleRegime(env)
	case engine.EventPortfolioUpdate:
		err = s.handlePortfolio(ctx, env)
	case engine.EventPositionUpdate:
		err = s.handlePosition(ctx, env)
	default:
		if s.Logger != nil {
			s.Logger.Debug("unhandled stream event", zap.String("type", env.Type))
		}
	}
	if err != nil && s.Logger != nil {
		s.Logger.Warn("handle stream event failed",
			zap.String("type", env.Type),
			zap.Error(err),
		)
	}
}

func (s *StreamIngestService) handleDecision(ctx context.Context, env engine.Envelope) error {
	var rec engine.DecisionRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return err
	}
	item := rec.ToModel()
	if err := s.Repo.UpsertDecision(ctx, &item); err != nil {
		return err
	}
	s.apply(state.Event{
		Type:     state.EventAIDecision,
		At:       env.Timestamp.Time,
		Decision: &item,
	})
	return nil
}

func (s *StreamIngestService) handleSignal(ctx context.Context, env engine.Envelope) error {
	var rec engine.SignalRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return err
	}
	item := rec.ToModel()
	if err := s.Repo.InsertSignal(ctx, &item); err != nil {
		return err
	}
	s.apply(state.Event{
		Type:   state.EventSignalGenerated,
		At:     env.Timestamp.Time,
		Signal: &item,
	})
	return nil
}

func (s *StreamIngestService) handleRegime(env engine.Envelope) error {
	var payload struct {
		Regime string `json:"regime"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return err
	}
	s.apply(state.Event{
		Type:   state.EventRegimeChange,
		At:     env.Timestamp.Time,
		Regime: payload.Regime,
	})
	return nil
}

func (s *StreamIngestService) handlePortfolio(ctx context.Context, env engine.Envelope) error {
	var rec engine.PortfolioRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return err
	}
	item := rec.ToModel()
	if err := s.Repo.InsertPortfolioSnapshot(ctx, &item); err != nil {
		return err
	}
	s.apply(state.Event{
		Type:      state.EventPortfolioUpdate,
		At:        env.Timestamp.Time,
		Portfolio: &item,
	})
	return nil
}

func (s *StreamIngestService) handlePosition(ctx context.Context, env engine.Envelope) error {
	var rec engine.PositionRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return err
	}
	item := rec.ToModel()
	if err := s.Repo.UpsertPosition(ctx, &item); err != nil {
		return err
	}
	s.apply(state.Event{
		Type:     state.EventPositionUpdate,
		At:       env.Timestamp.Time,
		Position: &item,
	})
	return nil
}

func (s *StreamIngestService) apply(ev state.Event) {
	if s.Store == nil {
		return
	}
	s.Store.Apply(ev)
}
