package articles

import (
	"context"
	"strings"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
	"github.com/bullboard/bullboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes article persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an articles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new article and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateArticleDTO) (*models.Article, error) {
	article := dto.ToModel()
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// FindByID loads an article by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// ListParams filters the article listing.
type ListParams struct {
	Limit       int
	Cursor      *pagination.Cursor
	Search      string
	AuthorEmail string
}

// List returns articles newest-first with cursor pagination. Search matches
// title and content case-insensitively; AuthorEmail filters the admin view.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Article, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Article{})
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}
	if author := strings.TrimSpace(params.AuthorEmail); author != "" {
		query = query.Where("author_email = ?", strings.ToLower(author))
	}
	if params.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var rows []models.Article
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

// Delete removes an article record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id).Error
}

// DeleteByAuthor removes every article owned by the given author. Used when
// an account is deleted so orphaned entries do not linger. A non-nil tx runs
// the delete on that transaction handle.
func (r *Repository) DeleteByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	result := conn.WithContext(ctx).
		Where("author_id = ?", authorID).
		Delete(&models.Article{})
	return result.RowsAffected, result.Error
}
