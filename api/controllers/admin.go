package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bullboard/bullboard-backend/api/middleware"
	"github.com/bullboard/bullboard-backend/api/responses"
	"github.com/bullboard/bullboard-backend/api/validators"
	"github.com/bullboard/bullboard-backend/internal/admin"
	"github.com/bullboard/bullboard-backend/internal/auth"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/pagination"
)

// adminOp is the closed set of operations the /admin endpoint dispatches
// on. Anything outside this set is rejected up front, before any role
// check or body parsing.
type adminOp string

const (
	adminOpUsers           adminOp = "users"
	adminOpArticles        adminOp = "articles"
	adminOpAdmins          adminOp = "admins"
	adminOpWipeUsers       adminOp = "wipe-users"
	adminOpRestorePassword adminOp = "restore-password"
)

type adminOpRule struct {
	methods    map[string]bool
	superAdmin bool
}

var adminOpRules = map[adminOp]adminOpRule{
	adminOpUsers:           {methods: map[string]bool{http.MethodGet: true, http.MethodDelete: true}},
	adminOpArticles:        {methods: map[string]bool{http.MethodGet: true, http.MethodDelete: true}},
	adminOpAdmins:          {methods: map[string]bool{http.MethodPost: true}, superAdmin: true},
	adminOpWipeUsers:       {methods: map[string]bool{http.MethodPost: true}, superAdmin: true},
	adminOpRestorePassword: {methods: map[string]bool{http.MethodPost: true}, superAdmin: true},
}

type setAdminRequest struct {
	UserID  uuid.UUID `json:"userId" validate:"required"`
	IsAdmin *bool     `json:"isAdmin" validate:"required"`
}

// Admin serves every /admin?type= operation. The route itself carries
// Auth plus the admin-access check; super-admin-only operations are
// gated again here per rule.
func Admin(svc admin.Service, policy *auth.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op := adminOp(strings.TrimSpace(r.URL.Query().Get("type")))
		rule, known := adminOpRules[op]
		if !known {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Unknown admin operation type"))
			return
		}

		if !rule.methods[r.Method] {
			responses.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
				"success": false,
				"error":   "Method not allowed",
			})
			return
		}

		actor := middleware.UserFromContext(r.Context())
		if rule.superAdmin {
			if err := policy.RequireSuperAdmin(actor); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		switch op {
		case adminOpUsers:
			if r.Method == http.MethodGet {
				listAdminUsers(svc, logg, w, r)
				return
			}
			deleteAdminUser(svc, logg, w, r)
		case adminOpArticles:
			if r.Method == http.MethodGet {
				listAdminArticles(svc, logg, w, r)
				return
			}
			deleteAdminArticle(svc, logg, w, r)
		case adminOpAdmins:
			setAdminFlag(svc, logg, w, r)
		case adminOpWipeUsers:
			wipeUsers(svc, logg, w, r)
		case adminOpRestorePassword:
			restorePassword(svc, logg, w, r)
		}
	}
}

func listAdminUsers(svc admin.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	page, err := svc.ListUsers(r.Context(), admin.ListUsersQuery{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]any{
		"users":      page.Users,
		"nextCursor": page.NextCursor,
	})
}

func deleteAdminUser(svc admin.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
		return
	}
	if err := svc.DeleteUser(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{})
}

func listAdminArticles(svc admin.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	page, err := svc.ListArticles(r.Context(), admin.ListArticlesQuery{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
		Author: validators.SanitizeString(r.URL.Query().Get("author"), 120),
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]any{
		"articles":   page.Articles,
		"nextCursor": page.NextCursor,
	})
}

func deleteAdminArticle(svc admin.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("articleId"))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid article id"))
		return
	}
	if err := svc.DeleteArticle(r.Context(), middleware.UserFromContext(r.Context()), id); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{})
}

func setAdminFlag(svc admin.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	var body setAdminRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	user, err := svc.SetAdmin(r.Context(), body.UserID, *body.IsAdmin)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"user": user})
}

func wipeUsers(svc admin.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	removed, err := svc.WipeUsers(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"removed": removed})
}

func restorePassword(svc admin.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	if err := svc.RestoreSuperAdminPassword(r.Context()); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{})
}
