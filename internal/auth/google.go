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
	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/oauth"
)

// GoogleService completes the Google sign-in flow: it trades the callback
// code for a verified identity, reconciles the local account, and mints a
// bearer token. It never reads or writes the user's password.
type GoogleService interface {
	AuthURL(state string) string
	Complete(ctx context.Context, code string) (*Result, error)
}

type identityBridge interface {
	AuthCodeURL(state string, promptConsent bool) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	VerifyIdentity(ctx context.Context, rawIDToken string) (*oauth.Identity, error)
}

type googleUserRepo interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetSuperAdmin(ctx context.Context, id uuid.UUID) error
	SyncGoogleProfile(ctx context.Context, id uuid.UUID, dto users.GoogleProfileDTO) error
}

// GoogleServiceParams bundles the dependencies for the Google service.
type GoogleServiceParams struct {
	Bridge identityBridge
	Repo   googleUserRepo
	Policy *Policy
	JWT    config.JWTConfig
	Logger *logger.Logger
	Now    func() time.Time
}

type googleService struct {
	bridge identityBridge
	repo   googleUserRepo
	policy *Policy
	jwt    config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewGoogleService constructs the Google sign-in service.
func NewGoogleService(params GoogleServiceParams) (GoogleService, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity bridge required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if params.Policy == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "role policy required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &googleService{
		bridge: params.Bridge,
		repo:   params.Repo,
		policy: params.Policy,
		jwt:    params.JWT,
		logg:   params.Logger,
		now:    now,
	}, nil
}

func (s *googleService) AuthURL(state string) string {
	return s.bridge.AuthCodeURL(state, true)
}

func (s *googleService) Complete(ctx context.Context, code string) (*Result, error) {
	rawIDToken, err := s.bridge.ExchangeCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Google sign-in failed")
	}

	identity, err := s.bridge.VerifyIdentity(ctx, rawIDToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Google sign-in failed")
	}

	user, err := s.reconcile(ctx, identity)
	if err != nil {
		return nil, err
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

// reconcile finds or creates the local account for a verified Google
// identity. Existing accounts keep their password untouched; only the
// Google profile fields and last login are refreshed.
func (s *googleService) reconcile(ctx context.Context, identity *oauth.Identity) (*models.User, error) {
	email := users.NormalizeEmail(identity.Email)
	at := s.now().UTC()

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}

		googleID := identity.ExternalID
		picture := identity.PictureURL
		created, err := s.repo.Create(ctx, users.CreateUserDTO{
			Name:          displayName(identity.Name, email),
			Email:         email,
			PasswordHash:  nil,
			AuthProvider:  models.AuthProviderGoogle,
			GoogleID:      &googleID,
			GooglePicture: &picture,
			IsSuperAdmin:  s.policy.IsDesignatedSuperAdmin(email),
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created.LastLoginAt = &at
		return created, nil
	}

	sync := users.GoogleProfileDTO{
		GoogleID:      identity.ExternalID,
		GooglePicture: identity.PictureURL,
		LastLoginAt:   at,
	}
	if strings.TrimSpace(user.Name) == "" || user.Name == user.Email {
		name := displayName(identity.Name, email)
		sync.Name = &name
	}
	if user.AuthProvider == "" {
		provider := models.AuthProviderGoogle
		sync.AuthProvider = &provider
	}
	if err := s.repo.SyncGoogleProfile(ctx, user.ID, sync); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sync google profile")
	}

	user.GoogleID = &sync.GoogleID
	user.GooglePicture = &sync.GooglePicture
	user.LastLoginAt = &at
	if sync.Name != nil {
		user.Name = *sync.Name
	}
	if sync.AuthProvider != nil {
		user.AuthProvider = *sync.AuthProvider
	}

	if s.policy.IsDesignatedSuperAdmin(user.Email) && !user.IsSuperAdmin {
		if err := s.repo.SetSuperAdmin(ctx, user.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote super admin")
		}
		user.IsSuperAdmin = true
	}

	return user, nil
}

func displayName(name, email string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
