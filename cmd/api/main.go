package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bullboard/bullboard-backend/api/routes"
	"github.com/bullboard/bullboard-backend/internal/admin"
	"github.com/bullboard/bullboard-backend/internal/appconfig"
	"github.com/bullboard/bullboard-backend/internal/articles"
	"github.com/bullboard/bullboard-backend/internal/auth"
	"github.com/bullboard/bullboard-backend/internal/users"
	pkgauth "github.com/bullboard/bullboard-backend/pkg/auth"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/migrate"
	"github.com/bullboard/bullboard-backend/pkg/oauth"
	"github.com/bullboard/bullboard-backend/pkg/redis"
	"github.com/bullboard/bullboard-backend/pkg/storage/imagehost"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := pkgauth.ValidateSecret(cfg.JWT); err != nil {
		logg.Error(context.Background(), "refusing to start with an unusable token secret", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())
	articleRepo := articles.NewRepository(dbClient.DB())
	configRepo := appconfig.NewRepository(dbClient.DB())

	policy := auth.NewPolicy(cfg.SuperAdmin)
	resolver := auth.NewResolver(cfg.JWT, userRepo, policy)

	authService, err := auth.NewService(auth.ServiceParams{
		Repo:     userRepo,
		Policy:   policy,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	var googleService auth.GoogleService
	if cfg.Google.Enabled() {
		bridge, err := oauth.NewBridge(context.Background(), cfg.Google)
		if err != nil {
			logg.Error(context.Background(), "failed to reach the Google identity provider", err)
			os.Exit(1)
		}
		googleService, err = auth.NewGoogleService(auth.GoogleServiceParams{
			Bridge: bridge,
			Repo:   userRepo,
			Policy: policy,
			JWT:    cfg.JWT,
			Logger: logg,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create google service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "google sign-in disabled, credentials not configured")
	}

	var imageClient *imagehost.Client
	if cfg.ImageHost.BaseURL != "" {
		imageClient, err = imagehost.New(cfg.ImageHost.BaseURL, cfg.ImageHost.APIKey)
		if err != nil {
			logg.Error(context.Background(), "failed to create image host client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "image host disabled, uploads unavailable")
	}

	articleParams := articles.ServiceParams{
		Repo:   articleRepo,
		Logger: logg,
	}
	if imageClient != nil {
		articleParams.Images = imageClient
	}
	articleService, err := articles.NewService(articleParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create article service", err)
		os.Exit(1)
	}

	configService, err := appconfig.NewService(appconfig.ServiceParams{
		Repo:   configRepo,
		Cache:  redisClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create config service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		Users:      userRepo,
		Articles:   articleService,
		Tx:         dbClient,
		Policy:     policy,
		SuperAdmin: cfg.SuperAdmin,
		Password:   cfg.Password,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Resolver:  resolver,
		Policy:    policy,
		Auth:      authService,
		Google:    googleService,
		Articles:  articleService,
		AppConfig: configService,
		Admin:     adminService,
	}
	if imageClient != nil {
		deps.Images = imageClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
