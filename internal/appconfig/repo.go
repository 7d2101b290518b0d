package appconfig

import (
	"context"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes app_config persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an app config repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the config entry for key.
func (r *Repository) Get(ctx context.Context, key string) (*models.AppConfig, error) {
	var entry models.AppConfig
	if err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert writes the value for key, creating the entry when absent.
func (r *Repository) Upsert(ctx context.Context, key, value string) (*models.AppConfig, error) {
	entry := models.AppConfig{Key: key, Value: value}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
