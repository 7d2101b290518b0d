package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
)

// PublicUser is the transport shape that omits credentials. Field names are
// part of the client contract and must not change.
type PublicUser struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	IsSuperAdmin       bool       `json:"isSuperAdmin"`
	IsAdmin            bool       `json:"isAdmin"`
	HasPassword        bool       `json:"hasPassword"`
	NeedsPasswordSetup bool       `json:"needsPasswordSetup"`
	AuthProvider       string     `json:"authProvider"`
	GooglePicture      *string    `json:"googlePicture,omitempty"`
	LastLogin          *time.Time `json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name          string
	Email         string
	PasswordHash  *string
	AuthProvider  string
	GoogleID      *string
	GooglePicture *string
	IsSuperAdmin  bool
}

// GoogleProfileDTO carries the fields refreshed on every Google sign-in.
// Name and AuthProvider are backfill-only and stay nil when already set.
type GoogleProfileDTO struct {
	GoogleID      string
	GooglePicture string
	Name          *string
	AuthProvider  *string
	LastLoginAt   time.Time
}

// NormalizeEmail lower-cases and trims an address before any comparison,
// storage, or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func FromModel(u *models.User) *PublicUser {
	if u == nil {
		return nil
	}

	provider := u.AuthProvider
	if provider == "" {
		provider = models.AuthProviderEmail
	}

	return &PublicUser{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		IsSuperAdmin:       u.IsSuperAdmin,
		IsAdmin:            u.IsAdmin,
		HasPassword:        u.HasPassword(),
		NeedsPasswordSetup: u.NeedsPasswordSetup(),
		AuthProvider:       provider,
		GooglePicture:      u.GooglePicture,
		LastLogin:          u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	provider := c.AuthProvider
	if provider == "" {
		provider = models.AuthProviderEmail
	}

	return &models.User{
		Name:          c.Name,
		Email:         NormalizeEmail(c.Email),
		PasswordHash:  c.PasswordHash,
		AuthProvider:  provider,
		GoogleID:      c.GoogleID,
		GooglePicture: c.GooglePicture,
		IsSuperAdmin:  c.IsSuperAdmin,
	}
}
