package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bullboard/bullboard-backend/api/controllers"
	"github.com/bullboard/bullboard-backend/api/middleware"
	"github.com/bullboard/bullboard-backend/internal/admin"
	"github.com/bullboard/bullboard-backend/internal/appconfig"
	"github.com/bullboard/bullboard-backend/internal/articles"
	"github.com/bullboard/bullboard-backend/internal/auth"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Resolver *auth.Resolver
	Policy   *auth.Policy

	Auth      auth.Service
	Google    auth.GoogleService
	Articles  articles.Service
	AppConfig appconfig.Service
	Admin     admin.Service
	Images    controllers.ImageUploader
}

// NewRouter assembles the public HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Frontend.BaseURL),
	)

	authed := middleware.Auth(deps.Resolver, logg)
	adminAccess := middleware.RequireAdminAccess(deps.Policy, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
	r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
	r.Get("/auth/status", controllers.AuthStatus(deps.Resolver, logg))
	r.Get("/auth/google", controllers.GoogleAuth(deps.Google, cfg.Frontend.BaseURL, logg))

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", controllers.ArticlesList(deps.Articles, logg))
		r.Get("/{articleId}", controllers.ArticlesGet(deps.Articles, logg))
		r.With(authed).Post("/", controllers.ArticlesCreate(deps.Articles, logg))
		r.With(authed).Delete("/{articleId}", controllers.ArticlesDelete(deps.Articles, logg))
	})

	r.With(authed).Post("/media", controllers.MediaUpload(deps.Images, cfg.ImageHost.MaxUploadMB, logg))

	r.Route("/config/{key}", func(r chi.Router) {
		r.Get("/", controllers.ConfigGet(deps.AppConfig, logg))
		r.With(authed, adminAccess).Put("/", controllers.ConfigSet(deps.AppConfig, logg))
	})

	adminHandler := controllers.Admin(deps.Admin, deps.Policy, logg)
	r.With(authed, adminAccess).HandleFunc("/admin", adminHandler)

	return r
}
