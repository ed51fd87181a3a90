package db

import (
	"tradedash/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Decision{},
		&models.ThresholdConfig{},
		&models.Position{},
		&models.PortfolioSnapshot{},
		&models.Signal{},
		&models.RawStreamEvent{},
		&models.SyncState{},
	)
}
