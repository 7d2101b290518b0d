package articles

import (
	"context"
	"errors"
	"strings"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the article operations used by the HTTP layer.
type Service interface {
	List(ctx context.Context, params ListQuery) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*ArticleDTO, error)
	Create(ctx context.Context, author *models.User, req CreateRequest) (*ArticleDTO, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	PurgeByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error)
}

type repository interface {
	Create(ctx context.Context, dto CreateArticleDTO) (*models.Article, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	List(ctx context.Context, params ListParams) ([]models.Article, *pagination.Cursor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error)
}

type imageRemover interface {
	Delete(ctx context.Context, deleteID string) error
}

// ListQuery captures the public listing inputs.
type ListQuery struct {
	Limit       int
	Cursor      string
	Search      string
	AuthorEmail string
}

// Page is one slice of the article feed.
type Page struct {
	Articles   []*ArticleDTO `json:"articles"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

// CreateRequest is the submit-article payload.
type CreateRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Content       string  `json:"content" validate:"required"`
	ImageURL      *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	ImageDeleteID *string `json:"imageDeleteId,omitempty"`
}

// ServiceParams bundles the dependencies for the article service.
type ServiceParams struct {
	Repo   repository
	Images imageRemover
	Logger *logger.Logger
}

type service struct {
	repo   repository
	images imageRemover
	logg   *logger.Logger
}

// NewService constructs the article service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "articles repository required")
	}
	return &service{
		repo:   params.Repo,
		images: params.Images,
		logg:   params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, params ListQuery) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, next, err := s.repo.List(ctx, ListParams{
		Limit:       params.Limit,
		Cursor:      cursor,
		Search:      params.Search,
		AuthorEmail: params.AuthorEmail,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list articles")
	}

	page := &Page{Articles: make([]*ArticleDTO, 0, len(rows))}
	for i := range rows {
		page.Articles = append(page.Articles, FromModel(&rows[i]))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ArticleDTO, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load article")
	}
	return FromModel(article), nil
}

func (s *service) Create(ctx context.Context, author *models.User, req CreateRequest) (*ArticleDTO, error) {
	if author == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	article, err := s.repo.Create(ctx, CreateArticleDTO{
		Title:         title,
		Content:       req.Content,
		ImageURL:      req.ImageURL,
		ImageDeleteID: req.ImageDeleteID,
		AuthorID:      author.ID,
		AuthorName:    author.Name,
		AuthorEmail:   author.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create article")
	}
	return FromModel(article), nil
}

func (s *service) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Article not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load article")
	}

	if article.AuthorID != actor.ID && !actor.HasAdminAccess() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete article")
	}

	// Hosted image removal is best-effort; the article row is already gone.
	if s.images != nil && article.ImageDeleteID != nil && *article.ImageDeleteID != "" {
		if err := s.images.Delete(ctx, *article.ImageDeleteID); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "image_delete_id", *article.ImageDeleteID), "failed to delete hosted image")
		}
	}
	return nil
}

// PurgeByAuthor removes every article the author posted, on tx when the
// caller supplies one. Hosted images are left to the image host's
// retention; bulk deletes skip per-file cleanup.
func (s *service) PurgeByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error) {
	removed, err := s.repo.DeleteByAuthor(ctx, tx, authorID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "purge author articles")
	}
	return removed, nil
}
