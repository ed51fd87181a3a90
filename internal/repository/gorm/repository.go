package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradedash/internal/models"
	"tradedash/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- decisions ---------------------------------------------------------------

func (s *Store) UpsertDecision(ctx context.Context, item *models.Decision) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.EngineID) == "" {
		return nil
	}
	// Records are immutable on the engine side except for the late-arriving
	// outcome and execution fields, so the conflict update is limited to those.
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "engine_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"execution_decision",
			"execution_probability",
			"rejection_reasons",
			"outcome_result",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetDecisionByEngineID(ctx context.Context, engineID string) (*models.Decision, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Decision
	err := s.db.WithContext(ctx).Where("engine_id = ?", strings.TrimSpace(engineID)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func applyDecisionFilters(query *gorm.DB, params repository.ListDecisionsParams) *gorm.DB {
	if params.Symbol != nil && strings.TrimSpace(*params.Symbol) != "" {
		query = query.Where("symbol = ?", strings.TrimSpace(*params.Symbol))
	}
	if params.DecisionType != nil && strings.TrimSpace(*params.DecisionType) != "" {
		query = query.Where("decision_type = ?", strings.TrimSpace(*params.DecisionType))
	}
	if params.Execution != nil && strings.TrimSpace(*params.Execution) != "" {
		exec := strings.ToUpper(strings.TrimSpace(*params.Execution))
		if exec == models.ExecutionPending {
			query = query.Where("execution_decision IS NULL OR execution_decision = ?", exec)
		} else {
			query = query.Where("execution_decision = ?", exec)
		}
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("timestamp >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("timestamp < ?", *params.Until)
	}
	return query
}

func (s *Store) ListDecisions(ctx context.Context, params repository.ListDecisionsParams) ([]models.Decision, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyDecisionFilters(s.db.WithContext(ctx).Model(&models.Decision{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "timestamp")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Decision
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountDecisions(ctx context.Context, params repository.ListDecisionsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyDecisionFilters(s.db.WithContext(ctx).Model(&models.Decision{}), params)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) LatestDecisionTimestamp(ctx context.Context) (*time.Time, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Decision
	err := s.db.WithContext(ctx).Order("timestamp DESC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ts := item.Timestamp
	return &ts, nil
}

// --- threshold configs -------------------------------------------------------

func (s *Store) UpsertThresholdConfig(ctx context.Context, item *models.ThresholdConfig) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"min_confidence",
			"min_technical",
			"min_sentiment",
			"min_fusion_score",
			"max_risk_score",
			"min_volume_score",
			"active",
			"updated_by",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetThresholdConfigByName(ctx context.Context, name string) (*models.ThresholdConfig, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.ThresholdConfig
	err := s.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetActiveThresholdConfig(ctx context.Context) (*models.ThresholdConfig, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.ThresholdConfig
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("updated_at DESC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListThresholdConfigs(ctx context.Context) ([]models.ThresholdConfig, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.ThresholdConfig
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- signals -----------------------------------------------------------------

func (s *Store) InsertSignal(ctx context.Context, item *models.Signal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Signal{})
	if params.SignalType != nil && strings.TrimSpace(*params.SignalType) != "" {
		query = query.Where("signal_type = ?", strings.TrimSpace(*params.SignalType))
	}
	if params.Symbol != nil && strings.TrimSpace(*params.Symbol) != "" {
		query = query.Where("symbol = ?", strings.TrimSpace(*params.Symbol))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Signal
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- portfolio ---------------------------------------------------------------

func (s *Store) InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) LatestPortfolioSnapshot(ctx context.Context) (*models.PortfolioSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.PortfolioSnapshot
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertPosition(ctx context.Context, item *models.Position) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Symbol) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"side",
			"quantity",
			"entry_price",
			"mark_price",
			"unrealized_pn_l",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListPositions(ctx context.Context) ([]models.Position, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Position
	if err := s.db.WithContext(ctx).Order("symbol ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeletePositionsNotIn(ctx context.Context, symbols []string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx)
	if len(symbols) == 0 {
		res := query.Where("1 = 1").Delete(&models.Position{})
		return res.RowsAffected, res.Error
	}
	res := query.Where("symbol NOT IN ?", symbols).Delete(&models.Position{})
	return res.RowsAffected, res.Error
}

// --- raw stream events -------------------------------------------------------

func (s *Store) InsertRawStreamEvent(ctx context.Context, item *models.RawStreamEvent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) DeleteRawStreamEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("received_at < ?", before).Delete(&models.RawStreamEvent{})
	return res.RowsAffected, res.Error
}

// --- sync state --------------------------------------------------------------

func (s *Store) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.SyncState
	err := s.db.WithContext(ctx).Where("scope = ?", strings.TrimSpace(scope)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	if strings.TrimSpace(state.Scope) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_timestamp",
			"last_run_at",
			"updated_at",
		}),
	}).Create(state).Error
}

// --- helpers -----------------------------------------------------------------

var orderableColumns = map[string]string{
	"timestamp":  "timestamp",
	"confidence": "confidence",
	"symbol":     "symbol",
	"created_at": "created_at",
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column, ok := orderableColumns[strings.ToLower(strings.TrimSpace(orderBy))]
	if !ok {
		column = fallback
	}
	direction := "DESC"
	if asc != nil && *asc {
		direction = "ASC"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 2000 {
		return 2000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
