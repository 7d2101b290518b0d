package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bullboard/bullboard-backend/api/middleware"
	"github.com/bullboard/bullboard-backend/api/responses"
	"github.com/bullboard/bullboard-backend/api/validators"
	"github.com/bullboard/bullboard-backend/internal/articles"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/pagination"
)

// ArticlesList serves the public feed.
func ArticlesList(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), articles.ListQuery{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
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
}

// ArticlesGet serves a single article by id.
func ArticlesGet(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "articleId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid article id"))
			return
		}

		article, svcErr := svc.Get(r.Context(), id)
		if svcErr != nil {
			responses.WriteError(r.Context(), logg, w, svcErr)
			return
		}

		responses.WriteSuccess(w, map[string]any{"article": article})
	}
}

// ArticlesCreate submits a new article for the authenticated user.
func ArticlesCreate(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body articles.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		article, err := svc.Create(r.Context(), middleware.UserFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"article": article})
	}
}

// ArticlesDelete removes an article. Authors may delete their own posts;
// moderators may delete any.
func ArticlesDelete(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "articleId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid article id"))
			return
		}

		if err := svc.Delete(r.Context(), middleware.UserFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{})
	}
}
