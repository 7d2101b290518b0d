package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/bullboard/bullboard-backend/pkg/auth"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
)

// Status classifies the outcome of resolving an Authorization header.
type Status int

const (
	// StatusNoToken means the request carried no bearer token at all.
	StatusNoToken Status = iota
	// StatusInvalidToken means a token was present but failed verification.
	StatusInvalidToken
	// StatusUserGone means the token verified but its user no longer exists.
	StatusUserGone
	// StatusOK means the token maps to a live user record.
	StatusOK
)

// Resolution is the result of a token resolution. User is populated only
// when Status is StatusOK.
type Resolution struct {
	Status Status
	User   *models.User
	Claims *pkgauth.TokenClaims
}

type resolverUserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetSuperAdmin(ctx context.Context, id uuid.UUID) error
}

// Resolver turns bearer tokens into live identities. It consults the user
// store on every call so deleted accounts lose access immediately; token
// claims are never trusted as a cached identity.
type Resolver struct {
	jwt    config.JWTConfig
	repo   resolverUserRepo
	policy *Policy
}

// NewResolver constructs a token resolver.
func NewResolver(jwt config.JWTConfig, repo resolverUserRepo, policy *Policy) *Resolver {
	return &Resolver{jwt: jwt, repo: repo, policy: policy}
}

// Resolve verifies the Authorization header and loads the current user
// record. A non-nil error is returned only for store failures; token and
// identity problems are reported through the Status.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*Resolution, error) {
	token := pkgauth.ExtractBearer(authorization)
	if token == "" {
		return &Resolution{Status: StatusNoToken}, nil
	}

	claims, err := pkgauth.ParseToken(r.jwt, token)
	if err != nil {
		return &Resolution{Status: StatusInvalidToken}, nil
	}

	user, err := r.repo.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Resolution{Status: StatusUserGone, Claims: claims}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve token user")
	}

	if r.policy != nil && r.policy.IsDesignatedSuperAdmin(user.Email) && !user.IsSuperAdmin {
		if err := r.repo.SetSuperAdmin(ctx, user.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote super admin")
		}
		user.IsSuperAdmin = true
	}

	return &Resolution{Status: StatusOK, User: user, Claims: claims}, nil
}
