package repository

import (
	"context"
	"time"

	"tradedash/internal/models"
)

type ListDecisionsParams struct {
	Limit  int
	Offset int

	Symbol       *string
	DecisionType *string
	Execution    *string
	Since        *time.Time
	Until        *time.Time

	OrderBy string
	Asc     *bool
}

type ListSignalsParams struct {
	Limit  int
	Offset int

	SignalType *string
	Symbol     *string
	Since      *time.Time
}

// Repository is the persistence surface behind the dashboard API and the
// ingest services.
type Repository interface {
	// decisions
	UpsertDecision(ctx context.Context, item *models.Decision) error
	GetDecisionByEngineID(ctx context.Context, engineID string) (*models.Decision, error)
	ListDecisions(ctx context.Context, params ListDecisionsParams) ([]models.Decision, error)
	CountDecisions(ctx context.Context, params ListDecisionsParams) (int64, error)
	LatestDecisionTimestamp(ctx context.Context) (*time.Time, error)

	// threshold configs
	UpsertThresholdConfig(ctx context.Context, item *models.ThresholdConfig) error
	GetThresholdConfigByName(ctx context.Context, name string) (*models.ThresholdConfig, error)
	GetActiveThresholdConfig(ctx context.Context) (*models.ThresholdConfig, error)
	ListThresholdConfigs(ctx context.Context) ([]models.ThresholdConfig, error)

	// signals
	InsertSignal(ctx context.Context, item *models.Signal) error
	ListSignals(ctx context.Context, params ListSignalsParams) ([]models.Signal, error)

	// portfolio
	InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error
	LatestPortfolioSnapshot(ctx context.Context) (*models.PortfolioSnapshot, error)
	UpsertPosition(ctx context.Context, item *models.Position) error
	ListPositions(ctx context.Context) ([]models.Position, error)
	DeletePositionsNotIn(ctx context.Context, symbols []string) (int64, error)

	// raw stream events
	InsertRawStreamEvent(ctx context.Context, item *models.RawStreamEvent) error
	DeleteRawStreamEventsBefore(ctx context.Context, before time.Time) (int64, error)

	// sync state
	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncState(ctx context.Context, state *models.SyncState) error
}
