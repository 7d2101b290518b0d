package auth

import (
	"github.com/bullboard/bullboard-backend/internal/users"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
)

// Policy centralizes role decisions. The designated super admin email comes
// from configuration, never from code.
type Policy struct {
	superAdminEmail string
}

// NewPolicy builds the role policy from the super admin configuration.
func NewPolicy(cfg config.SuperAdminConfig) *Policy {
	return &Policy{superAdminEmail: users.NormalizeEmail(cfg.Email)}
}

// IsDesignatedSuperAdmin reports whether email matches the configured
// super admin address after normalization.
func (p *Policy) IsDesignatedSuperAdmin(email string) bool {
	return p.superAdminEmail != "" && users.NormalizeEmail(email) == p.superAdminEmail
}

// RequireSuperAdmin rejects any identity that is not the super admin.
func (p *Policy) RequireSuperAdmin(user *models.User) error {
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	if !user.IsSuperAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Super admin access required")
	}
	return nil
}

// RequireAdminAccess passes for super admins and admins alike.
func (p *Policy) RequireAdminAccess(user *models.User) error {
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	if !user.HasAdminAccess() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required")
	}
	return nil
}
