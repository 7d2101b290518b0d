package articles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/pagination"
)

type stubRepo struct {
	byID     map[uuid.UUID]*models.Article
	lastList ListParams
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[uuid.UUID]*models.Article{}}
}

func (s *stubRepo) Create(_ context.Context, dto CreateArticleDTO) (*models.Article, error) {
	article := dto.ToModel()
	article.ID = uuid.New()
	article.CreatedAt = time.Now().UTC()
	s.byID[article.ID] = article
	return article, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	article, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *article
	return &clone, nil
}

func (s *stubRepo) List(_ context.Context, params ListParams) ([]models.Article, *pagination.Cursor, error) {
	s.lastList = params
	out := make([]models.Article, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, *a)
	}
	return out, nil, nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubRepo) DeleteByAuthor(_ context.Context, _ *gorm.DB, authorID uuid.UUID) (int64, error) {
	var removed int64
	for id, a := range s.byID {
		if a.AuthorID == authorID {
			delete(s.byID, id)
			removed++
		}
	}
	return removed, nil
}

type stubImages struct {
	deleted []string
	err     error
}

func (s *stubImages) Delete(_ context.Context, deleteID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, deleteID)
	return nil
}

func newTestService(t *testing.T, repo *stubRepo, images *stubImages) Service {
	t.Helper()
	params := ServiceParams{Repo: repo}
	if images != nil {
		params.Images = images
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testAuthor() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Alice",
		Email: "alice@example.com",
	}
}

func TestCreateSnapshotsAuthor(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)
	author := testAuthor()

	dto, err := svc.Create(context.Background(), author, CreateRequest{
		Title:   "  Hello Board  ",
		Content: "first post",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Title != "Hello Board" {
		t.Fatalf("title = %q", dto.Title)
	}
	if dto.AuthorID != author.ID || dto.AuthorName != "Alice" {
		t.Fatalf("author snapshot missing: %+v", dto)
	}

	stored := repo.byID[dto.ID]
	if stored == nil || stored.AuthorEmail != "alice@example.com" {
		t.Fatalf("stored article lacks author email")
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newTestService(t, newStubRepo(), nil)

	_, err := svc.Create(context.Background(), testAuthor(), CreateRequest{Title: "   ", Content: "x"})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetMissingArticle(t *testing.T) {
	svc := newTestService(t, newStubRepo(), nil)

	_, err := svc.Get(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRemovesHostedImage(t *testing.T) {
	repo := newStubRepo()
	images := &stubImages{}
	svc := newTestService(t, repo, images)
	author := testAuthor()

	deleteID := "img-42"
	url := "https://img.example/a.jpg"
	dto, err := svc.Create(context.Background(), author, CreateRequest{
		Title:         "With Image",
		Content:       "x",
		ImageURL:      &url,
		ImageDeleteID: &deleteID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), author, dto.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.byID[dto.ID]; ok {
		t.Fatalf("article should be gone")
	}
	if len(images.deleted) != 1 || images.deleted[0] != "img-42" {
		t.Fatalf("hosted image should be removed, got %v", images.deleted)
	}
}

func TestDeleteByStrangerForbidden(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	dto, err := svc.Create(context.Background(), testAuthor(), CreateRequest{Title: "Mine", Content: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stranger := &models.User{ID: uuid.New(), Email: "other@example.com"}
	deleteErr := svc.Delete(context.Background(), stranger, dto.ID)
	if appErr := pkgerrors.As(deleteErr); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", deleteErr)
	}
	if _, ok := repo.byID[dto.ID]; !ok {
		t.Fatalf("article must remain")
	}
}

func TestDeleteByAdmin(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	dto, err := svc.Create(context.Background(), testAuthor(), CreateRequest{Title: "Mine", Content: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	admin := &models.User{ID: uuid.New(), Email: "mod@example.com", IsAdmin: true}
	if err := svc.Delete(context.Background(), admin, dto.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestDeleteSurvivesImageHostFailure(t *testing.T) {
	repo := newStubRepo()
	images := &stubImages{err: errors.New("image host down")}
	svc := newTestService(t, repo, images)
	author := testAuthor()

	deleteID := "img-1"
	dto, err := svc.Create(context.Background(), author, CreateRequest{
		Title:         "With Image",
		Content:       "x",
		ImageDeleteID: &deleteID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), author, dto.ID); err != nil {
		t.Fatalf("delete must succeed despite image host failure: %v", err)
	}
	if _, ok := repo.byID[dto.ID]; ok {
		t.Fatalf("article should be gone")
	}
}

func TestPurgeByAuthorRemovesOnlyTheirPosts(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)
	author := testAuthor()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), author, CreateRequest{Title: "Post", Content: "x"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	other := &models.User{ID: uuid.New(), Name: "Other", Email: "other@example.com"}
	kept, err := svc.Create(context.Background(), other, CreateRequest{Title: "Keep", Content: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := svc.PurgeByAuthor(context.Background(), nil, author.ID)
	if err != nil {
		t.Fatalf("PurgeByAuthor: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if _, ok := repo.byID[kept.ID]; !ok {
		t.Fatalf("other author's post must remain")
	}
}

func TestListForwardsAuthorFilter(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	if _, err := svc.List(context.Background(), ListQuery{
		Limit:       10,
		Search:      "deploy",
		AuthorEmail: "bob@example.com",
	}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastList.AuthorEmail != "bob@example.com" {
		t.Fatalf("AuthorEmail = %q, want bob@example.com", repo.lastList.AuthorEmail)
	}
	if repo.lastList.Search != "deploy" {
		t.Fatalf("Search = %q, want deploy", repo.lastList.Search)
	}
}
