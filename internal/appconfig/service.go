package appconfig

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

// Entry is the transport shape of a config document.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service reads and writes app configuration entries with a short-lived
// cache in front of the store. Only config values are ever cached; auth
// identity deliberately is not.
type Service interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key, value string) (*Entry, error)
}

type repository interface {
	Get(ctx context.Context, key string) (*models.AppConfig, error)
	Upsert(ctx context.Context, key, value string) (*models.AppConfig, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ConfigCacheKey(key string) string
}

// ServiceParams bundles the dependencies for the config service.
type ServiceParams struct {
	Repo   repository
	Cache  cache
	Logger *logger.Logger
}

type service struct {
	repo  repository
	cache cache
	logg  *logger.Logger
}

// NewService constructs the config service. Cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "app config repository required")
	}
	return &service{
		repo:  params.Repo,
		cache: params.Cache,
		logg:  params.Logger,
	}, nil
}

func (s *service) Get(ctx context.Context, key string) (*Entry, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config key is required")
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cache.ConfigCacheKey(key)); err == nil {
			return &Entry{Key: key, Value: cached}, nil
		}
	}

	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Config key not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load config entry")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cache.ConfigCacheKey(key), entry.Value, cacheTTL); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to cache config entry")
		}
	}

	return &Entry{Key: entry.Key, Value: entry.Value, UpdatedAt: entry.UpdatedAt}, nil
}

func (s *service) Set(ctx context.Context, key, value string) (*Entry, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config key is required")
	}
	if strings.TrimSpace(value) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config value is required")
	}

	entry, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert config entry")
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, s.cache.ConfigCacheKey(key)); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to invalidate config cache")
		}
	}

	return &Entry{Key: entry.Key, Value: entry.Value, UpdatedAt: entry.UpdatedAt}, nil
}
