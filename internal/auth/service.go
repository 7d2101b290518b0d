package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bullboard/bullboard-backend/internal/users"
	pkgauth "github.com/bullboard/bullboard-backend/pkg/auth"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db"
	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/security"
)

// Service implements email/password authentication.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Result, error)
	Login(ctx context.Context, req LoginRequest) (*Result, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetSuperAdmin(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies for the auth service.
type ServiceParams struct {
	Repo     userRepository
	Policy   *Policy
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	repo     userRepository
	policy   *Policy
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if params.Policy == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "role policy required")
	}
	if err := pkgauth.ValidateSecret(params.JWT); err != nil {
		return nil, err
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		policy:   params.Policy,
		jwt:      params.JWT,
		password: params.Password,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	email := users.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing user")
	}

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
		AuthProvider: models.AuthProviderEmail,
		IsSuperAdmin: s.policy.IsDesignatedSuperAdmin(email),
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issue(ctx, user, false)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	email := users.NormalizeEmail(req.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Invalid email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	if !user.HasPassword() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"This account uses Google Sign-In. Please log in with Google.").
			WithDetails(map[string]any{"requiresGoogleLogin": true})
	}

	ok, err := security.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Password is wrong")
	}

	return s.issue(ctx, user, true)
}

// issue applies the lazy super admin promotion, stamps last login when
// requested, and mints a token for the user.
func (s *service) issue(ctx context.Context, user *models.User, touchLogin bool) (*Result, error) {
	if s.policy.IsDesignatedSuperAdmin(user.Email) && !user.IsSuperAdmin {
		if err := s.repo.SetSuperAdmin(ctx, user.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote super admin")
		}
		user.IsSuperAdmin = true
	}

	if touchLogin {
		at := s.now().UTC()
		if err := s.repo.UpdateLastLogin(ctx, user.ID, at); err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "failed to stamp last login")
			}
		} else {
			user.LastLoginAt = &at
		}
	}

	token, err := pkgauth.MintToken(s.jwt, s.now(), pkgauth.TokenPayload{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		IsSuperAdmin: user.IsSuperAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &Result{User: users.FromModel(user), Token: token}, nil
}
