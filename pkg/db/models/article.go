package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is a submitted board entry. Author fields are denormalized so the
// list view renders without a join, matching the document-store shape.
type Article struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string     `gorm:"type:text;not null"`
	Content       string     `gorm:"type:text;not null"`
	ImageURL      *string    `gorm:"column:image_url"`
	ImageDeleteID *string    `gorm:"column:image_delete_id"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;column:author_id;not null;index"`
	AuthorName    string     `gorm:"column:author_name;not null"`
	AuthorEmail   string     `gorm:"column:author_email;not null;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
