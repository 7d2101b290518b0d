package appconfig

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/bullboard/bullboard-backend/pkg/db/models"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
)

type stubRepo struct {
	entries map[string]*models.AppConfig
	gets    int
}

func newStubRepo() *stubRepo {
	return &stubRepo{entries: map[string]*models.AppConfig{}}
}

func (s *stubRepo) Get(_ context.Context, key string) (*models.AppConfig, error) {
	s.gets++
	entry, ok := s.entries[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *entry
	return &clone, nil
}

func (s *stubRepo) Upsert(_ context.Context, key, value string) (*models.AppConfig, error) {
	entry := &models.AppConfig{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	s.entries[key] = entry
	clone := *entry
	return &clone, nil
}

type stubCache struct {
	values map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{values: map[string]string{}}
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return value, nil
}

func (s *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubCache) ConfigCacheKey(key string) string {
	return "bull:app_config:" + key
}

func newTestService(t *testing.T, repo *stubRepo, cache *stubCache) Service {
	t.Helper()
	params := ServiceParams{Repo: repo}
	if cache != nil {
		params.Cache = cache
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGetMissingKey(t *testing.T) {
	svc := newTestService(t, newStubRepo(), nil)

	_, err := svc.Get(context.Background(), "theme")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetThenGet(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	if _, err := svc.Set(context.Background(), "theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entry, err := svc.Get(context.Background(), "theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Value != "dark" {
		t.Fatalf("value = %q", entry.Value)
	}

	// Upsert overwrites.
	if _, err := svc.Set(context.Background(), "theme", "light"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entry, err = svc.Get(context.Background(), "theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Value != "light" {
		t.Fatalf("value = %q", entry.Value)
	}
}

func TestGetUsesCache(t *testing.T) {
	repo := newStubRepo()
	cache := newStubCache()
	svc := newTestService(t, repo, cache)

	if _, err := repo.Upsert(context.Background(), "banner", "hello"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Get(context.Background(), "banner"); err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if _, err := svc.Get(context.Background(), "banner"); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if repo.gets != 1 {
		t.Fatalf("second read should come from cache, store reads = %d", repo.gets)
	}
}

func TestSetInvalidatesCache(t *testing.T) {
	repo := newStubRepo()
	cache := newStubCache()
	svc := newTestService(t, repo, cache)

	if _, err := svc.Set(context.Background(), "banner", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := svc.Get(context.Background(), "banner"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := svc.Set(context.Background(), "banner", "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entry, err := svc.Get(context.Background(), "banner")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Value != "v2" {
		t.Fatalf("stale cache: value = %q", entry.Value)
	}
}

func TestSetRejectsEmptyInputs(t *testing.T) {
	svc := newTestService(t, newStubRepo(), nil)

	if _, err := svc.Set(context.Background(), " ", "x"); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for empty key, got %v", err)
	}
	if _, err := svc.Set(context.Background(), "k", "  "); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for empty value, got %v", err)
	}
}
