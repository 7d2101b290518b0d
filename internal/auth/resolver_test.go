package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/bullboard/bullboard-backend/pkg/auth"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
)

func mintTestToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := pkgauth.MintToken(testJWTConfig(), time.Now(), pkgauth.TokenPayload{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		IsSuperAdmin: user.IsSuperAdmin,
	})
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	return token
}

func TestResolveNoToken(t *testing.T) {
	resolver := NewResolver(testJWTConfig(), newStubUserRepo(), testPolicy("root@example.com"))

	for _, header := range []string{"", "Basic abc", "Bearer", "token-without-scheme"} {
		res, err := resolver.Resolve(context.Background(), header)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", header, err)
		}
		if res.Status != StatusNoToken {
			t.Fatalf("Resolve(%q) status = %d, want StatusNoToken", header, res.Status)
		}
	}
}

func TestResolveInvalidToken(t *testing.T) {
	resolver := NewResolver(testJWTConfig(), newStubUserRepo(), testPolicy("root@example.com"))

	res, err := resolver.Resolve(context.Background(), "Bearer not-a-jwt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != StatusInvalidToken {
		t.Fatalf("status = %d, want StatusInvalidToken", res.Status)
	}
}

func TestResolveDeletedUser(t *testing.T) {
	repo := newStubUserRepo()
	user := seedPasswordUser(t, repo, "alice@example.com", "hunter22")
	token := mintTestToken(t, user)

	delete(repo.byEmail, user.Email)

	resolver := NewResolver(testJWTConfig(), repo, testPolicy("root@example.com"))
	res, err := resolver.Resolve(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != StatusUserGone {
		t.Fatalf("status = %d, want StatusUserGone", res.Status)
	}
	if res.User != nil {
		t.Fatalf("deleted user must not resolve to an identity")
	}
}

func TestResolveLiveUser(t *testing.T) {
	repo := newStubUserRepo()
	user := seedPasswordUser(t, repo, "alice@example.com", "hunter22")
	token := mintTestToken(t, user)

	resolver := NewResolver(testJWTConfig(), repo, testPolicy("root@example.com"))
	res, err := resolver.Resolve(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("status = %d, want StatusOK", res.Status)
	}
	if res.User == nil || res.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
}

func TestResolveReflectsRoleChanges(t *testing.T) {
	repo := newStubUserRepo()
	user := seedPasswordUser(t, repo, "alice@example.com", "hunter22")
	token := mintTestToken(t, user)

	// Role flips after the token was minted; resolution must see the store,
	// not the claims.
	repo.byEmail[user.Email].IsAdmin = true

	resolver := NewResolver(testJWTConfig(), repo, testPolicy("root@example.com"))
	res, err := resolver.Resolve(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.User.IsAdmin {
		t.Fatalf("resolver must reflect the current store role")
	}
}

func TestResolvePromotesDesignatedSuperAdmin(t *testing.T) {
	repo := newStubUserRepo()
	user := seedPasswordUser(t, repo, "root@example.com", "hunter22")
	token := mintTestToken(t, user)

	resolver := NewResolver(testJWTConfig(), repo, testPolicy("root@example.com"))
	res, err := resolver.Resolve(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.User.IsSuperAdmin {
		t.Fatalf("designated email must be promoted during resolution")
	}
	if repo.superAdminCalls != 1 {
		t.Fatalf("expected one promotion write, got %d", repo.superAdminCalls)
	}

	if _, err := resolver.Resolve(context.Background(), "Bearer "+token); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if repo.superAdminCalls != 1 {
		t.Fatalf("promotion must be idempotent, got %d writes", repo.superAdminCalls)
	}
}

func TestPolicyMessages(t *testing.T) {
	policy := testPolicy("root@example.com")

	regular := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	admin := &models.User{ID: uuid.New(), Email: "mod@example.com", IsAdmin: true}
	super := &models.User{ID: uuid.New(), Email: "root@example.com", IsSuperAdmin: true}

	if err := policy.RequireAdminAccess(admin); err != nil {
		t.Fatalf("admin must pass admin access: %v", err)
	}
	if err := policy.RequireAdminAccess(super); err != nil {
		t.Fatalf("super admin must pass admin access: %v", err)
	}
	if err := policy.RequireSuperAdmin(super); err != nil {
		t.Fatalf("super admin must pass super admin check: %v", err)
	}

	err := policy.RequireAdminAccess(regular)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Message() != "Admin access required" || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("unexpected admin denial: %v", err)
	}

	err = policy.RequireSuperAdmin(admin)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Message() != "Super admin access required" || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("unexpected super admin denial: %v", err)
	}
}

func TestIsDesignatedSuperAdminNormalizes(t *testing.T) {
	policy := testPolicy("  Root@Example.COM ")
	if !policy.IsDesignatedSuperAdmin("root@example.com") {
		t.Fatalf("normalized match expected")
	}
	if !policy.IsDesignatedSuperAdmin(" ROOT@example.com ") {
		t.Fatalf("case-insensitive match expected")
	}
	if policy.IsDesignatedSuperAdmin("other@example.com") {
		t.Fatalf("non-designated email must not match")
	}

	empty := NewPolicy(config.SuperAdminConfig{})
	if empty.IsDesignatedSuperAdmin("") {
		t.Fatalf("empty configuration must never match")
	}
}
