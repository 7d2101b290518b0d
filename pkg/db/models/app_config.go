package models

import "time"

// AppConfig is a generic key/value configuration document, e.g. bull_logo_url.
type AppConfig struct {
	Key       string    `gorm:"type:text;primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
