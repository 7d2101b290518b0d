package users

import (
	"context"
	"strings"
	"time"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
	"github.com/bullboard/bullboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// SetSuperAdmin raises the is_super_admin flag. The flag is never lowered.
func (r *Repository) SetSuperAdmin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_super_admin", true).Error
}

// SetAdmin grants or revokes the admin flag.
func (r *Repository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_admin", isAdmin).Error
}

// SetPasswordHash stores a new password hash for the user.
func (r *Repository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// SyncGoogleProfile refreshes the Google-owned fields on sign-in. The
// password column is intentionally untouched here.
func (r *Repository) SyncGoogleProfile(ctx context.Context, id uuid.UUID, dto GoogleProfileDTO) error {
	updates := map[string]any{
		"google_id":      dto.GoogleID,
		"google_picture": dto.GooglePicture,
		"last_login_at":  dto.LastLoginAt,
	}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.AuthProvider != nil {
		updates["auth_provider"] = *dto.AuthProvider
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(updates).Error
}

// ListParams filters the admin user listing.
type ListParams struct {
	Limit  int
	Cursor *pagination.Cursor
	Search string
}

// List returns users newest-first with cursor pagination and an optional
// case-insensitive name/email filter.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.User, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.User{})
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	if params.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var rows []models.User
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// Delete removes a user record. A non-nil tx runs the delete on that
// transaction handle so callers can pair it with other writes.
func (r *Repository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// DeleteNonSuperAdmins removes every account except super admins and reports
// how many rows went away.
func (r *Repository) DeleteNonSuperAdmins(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_super_admin = ?", false).
		Delete(&models.User{})
	return result.RowsAffected, result.Error
}
