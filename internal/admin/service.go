package admin

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bullboard/bullboard-backend/internal/articles"
	"github.com/bullboard/bullboard-backend/internal/auth"
	"github.com/bullboard/bullboard-backend/internal/users"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/pagination"
	"github.com/bullboard/bullboard-backend/pkg/security"
)

// Service implements the administration operations. Role checks happen at
// the HTTP layer; the super admin protections here are enforced again so
// no caller can bypass them.
type Service interface {
	ListUsers(ctx context.Context, query ListUsersQuery) (*UsersPage, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) (*users.PublicUser, error)
	ListArticles(ctx context.Context, query ListArticlesQuery) (*articles.Page, error)
	DeleteArticle(ctx context.Context, actor *models.User, id uuid.UUID) error
	WipeUsers(ctx context.Context) (int64, error)
	RestoreSuperAdminPassword(ctx context.Context) error
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, params users.ListParams) ([]models.User, *pagination.Cursor, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteNonSuperAdmins(ctx context.Context) (int64, error)
}

type articleService interface {
	List(ctx context.Context, params articles.ListQuery) (*articles.Page, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	PurgeByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ListUsersQuery captures the user listing inputs.
type ListUsersQuery struct {
	Limit  int
	Cursor string
	Search string
}

// UsersPage is one slice of the admin user listing.
type UsersPage struct {
	Users      []*users.PublicUser `json:"users"`
	NextCursor string              `json:"nextCursor,omitempty"`
}

// ListArticlesQuery captures the moderation listing inputs.
type ListArticlesQuery struct {
	Limit  int
	Cursor string
	Search string
	Author string
}

// ServiceParams bundles the dependencies for the admin service.
type ServiceParams struct {
	Users      userRepository
	Articles   articleService
	Tx         txRunner
	Policy     *auth.Policy
	SuperAdmin config.SuperAdminConfig
	Password   config.PasswordConfig
	Logger     *logger.Logger
}

type service struct {
	users      userRepository
	articles   articleService
	tx         txRunner
	policy     *auth.Policy
	superAdmin config.SuperAdminConfig
	password   config.PasswordConfig
	logg       *logger.Logger
}

// NewService constructs the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if params.Articles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "article service required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Policy == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "role policy required")
	}
	return &service{
		users:      params.Users,
		articles:   params.Articles,
		tx:         params.Tx,
		policy:     params.Policy,
		superAdmin: params.SuperAdmin,
		password:   params.Password,
		logg:       params.Logger,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, query ListUsersQuery) (*UsersPage, error) {
	cursor, err := pagination.ParseCursor(query.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, next, err := s.users.List(ctx, users.ListParams{
		Limit:  query.Limit,
		Cursor: cursor,
		Search: query.Search,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	page := &UsersPage{Users: make([]*users.PublicUser, 0, len(rows))}
	for i := range rows {
		page.Users = append(page.Users, users.FromModel(&rows[i]))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user.IsSuperAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Cannot delete super admin")
	}
	// The account and its articles go away together or not at all.
	var removed int64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.Delete(ctx, tx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		n, err := s.articles.PurgeByAuthor(ctx, tx, id)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}
	if removed > 0 && s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "removed_articles", removed), "purged deleted user's articles")
	}
	return nil
}

func (s *service) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) (*users.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user.IsSuperAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Cannot modify super admin")
	}
	if err := s.users.SetAdmin(ctx, id, isAdmin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set admin flag")
	}
	user.IsAdmin = isAdmin
	return users.FromModel(user), nil
}

func (s *service) ListArticles(ctx context.Context, query ListArticlesQuery) (*articles.Page, error) {
	return s.articles.List(ctx, articles.ListQuery{
		Limit:       query.Limit,
		Cursor:      query.Cursor,
		Search:      query.Search,
		AuthorEmail: query.Author,
	})
}

func (s *service) DeleteArticle(ctx context.Context, actor *models.User, id uuid.UUID) error {
	return s.articles.Delete(ctx, actor, id)
}

func (s *service) WipeUsers(ctx context.Context) (int64, error) {
	removed, err := s.users.DeleteNonSuperAdmins(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "wipe users")
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "removed", removed), "wiped non super admin users")
	}
	return removed, nil
}

// RestoreSuperAdminPassword resets the designated super admin account to
// the configured recovery password. It is a break-glass operation and is
// only reachable behind the super admin role check.
func (s *service) RestoreSuperAdminPassword(ctx context.Context) error {
	if s.superAdmin.RecoveryPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Recovery password is not configured")
	}

	user, err := s.users.FindByEmail(ctx, s.superAdmin.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Super admin account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load super admin")
	}

	hash, err := security.HashPassword(s.superAdmin.RecoveryPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash recovery password")
	}
	if err := s.users.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store recovery password")
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "super admin password restored")
	}
	return nil
}
