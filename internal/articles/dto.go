package articles

import (
	"time"

	"github.com/google/uuid"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
)

// ArticleDTO is the transport shape for a board entry.
type ArticleDTO struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateArticleDTO holds the fields persisted for a new article.
type CreateArticleDTO struct {
	Title         string
	Content       string
	ImageURL      *string
	ImageDeleteID *string
	AuthorID      uuid.UUID
	AuthorName    string
	AuthorEmail   string
}

func FromModel(a *models.Article) *ArticleDTO {
	if a == nil {
		return nil
	}
	return &ArticleDTO{
		ID:         a.ID,
		Title:      a.Title,
		Content:    a.Content,
		ImageURL:   a.ImageURL,
		AuthorID:   a.AuthorID,
		AuthorName: a.AuthorName,
		CreatedAt:  a.CreatedAt,
	}
}

func (c CreateArticleDTO) ToModel() *models.Article {
	return &models.Article{
		Title:         c.Title,
		Content:       c.Content,
		ImageURL:      c.ImageURL,
		ImageDeleteID: c.ImageDeleteID,
		AuthorID:      c.AuthorID,
		AuthorName:    c.AuthorName,
		AuthorEmail:   c.AuthorEmail,
	}
}
