package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthProviderEmail and AuthProviderGoogle are the supported account origins.
const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

// User represents the canonical identity entity. PasswordHash is nil for
// accounts created through Google sign-in that never set a password.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string     `gorm:"type:text;not null"`
	Email         string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  *string    `gorm:"column:password_hash"`
	AuthProvider  string     `gorm:"column:auth_provider;not null;default:'email'"`
	GoogleID      *string    `gorm:"column:google_id"`
	GooglePicture *string    `gorm:"column:google_picture"`
	IsSuperAdmin  bool       `gorm:"column:is_super_admin;not null;default:false"`
	IsAdmin       bool       `gorm:"column:is_admin;not null;default:false"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != nil && *u.PasswordHash != ""
}

// NeedsPasswordSetup is true for OAuth-origin accounts without a password.
func (u *User) NeedsPasswordSetup() bool {
	if u == nil || u.HasPassword() {
		return false
	}
	return u.AuthProvider == AuthProviderGoogle || u.AuthProvider == ""
}

// HasAdminAccess covers both admin tiers.
func (u *User) HasAdminAccess() bool {
	return u != nil && (u.IsSuperAdmin || u.IsAdmin)
}
