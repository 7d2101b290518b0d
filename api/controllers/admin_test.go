package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/bullboard/bullboard-backend/api/middleware"
	"github.com/bullboard/bullboard-backend/internal/admin"
	"github.com/bullboard/bullboard-backend/internal/articles"
	"github.com/bullboard/bullboard-backend/internal/auth"
	"github.com/bullboard/bullboard-backend/internal/users"
	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/bullboard/bullboard-backend/pkg/db/models"
)

type stubAdminService struct {
	usersPage    *admin.UsersPage
	articlesPage *articles.Page
	setUser      *users.PublicUser
	wiped        int64

	deletedUsers    []uuid.UUID
	deletedArticles []uuid.UUID
	setCalls        []uuid.UUID
	restoreCalls    int
	lastArticles    admin.ListArticlesQuery
}

func (s *stubAdminService) ListUsers(_ context.Context, _ admin.ListUsersQuery) (*admin.UsersPage, error) {
	return s.usersPage, nil
}

func (s *stubAdminService) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.deletedUsers = append(s.deletedUsers, id)
	return nil
}

func (s *stubAdminService) SetAdmin(_ context.Context, id uuid.UUID, _ bool) (*users.PublicUser, error) {
	s.setCalls = append(s.setCalls, id)
	return s.setUser, nil
}

func (s *stubAdminService) ListArticles(_ context.Context, query admin.ListArticlesQuery) (*articles.Page, error) {
	s.lastArticles = query
	return s.articlesPage, nil
}

func (s *stubAdminService) DeleteArticle(_ context.Context, _ *models.User, id uuid.UUID) error {
	s.deletedArticles = append(s.deletedArticles, id)
	return nil
}

func (s *stubAdminService) WipeUsers(_ context.Context) (int64, error) {
	return s.wiped, nil
}

func (s *stubAdminService) RestoreSuperAdminPassword(_ context.Context) error {
	s.restoreCalls++
	return nil
}

func adminTestPolicy() *auth.Policy {
	return auth.NewPolicy(config.SuperAdminConfig{Email: "root@example.com"})
}

func adminRequest(method, target string, body []byte, actor *models.User) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if actor != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), actor))
	}
	return req
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestAdminRejectsUnknownOperation(t *testing.T) {
	handler := Admin(&stubAdminService{}, adminTestPolicy(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/admin?type=reports", nil, &models.User{IsAdmin: true}))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if envelope := decodeEnvelope(t, resp); envelope["error"] != "Unknown admin operation type" {
		t.Fatalf("unexpected envelope %v", envelope)
	}
}

func TestAdminRejectsWrongMethod(t *testing.T) {
	handler := Admin(&stubAdminService{}, adminTestPolicy(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodPost, "/admin?type=users", nil, &models.User{IsAdmin: true}))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", resp.Code)
	}
	if envelope := decodeEnvelope(t, resp); envelope["error"] != "Method not allowed" {
		t.Fatalf("unexpected envelope %v", envelope)
	}
}

func TestAdminSuperAdminOpsRejectRegularAdmin(t *testing.T) {
	svc := &stubAdminService{}
	handler := Admin(svc, adminTestPolicy(), nil)
	actor := &models.User{ID: uuid.New(), Email: "mod@example.com", IsAdmin: true}

	for _, target := range []string{
		"/admin?type=admins",
		"/admin?type=wipe-users",
		"/admin?type=restore-password",
	} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, adminRequest(http.MethodPost, target, []byte(`{}`), actor))

		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403 got %d", target, resp.Code)
		}
		if envelope := decodeEnvelope(t, resp); envelope["error"] != "Super admin access required" {
			t.Fatalf("%s: unexpected envelope %v", target, envelope)
		}
	}
	if svc.restoreCalls != 0 || len(svc.setCalls) != 0 {
		t.Fatalf("service must not be reached on a failed role check")
	}
}

func TestAdminListUsers(t *testing.T) {
	page := &admin.UsersPage{
		Users:      []*users.PublicUser{{ID: uuid.New(), Email: "one@example.com"}},
		NextCursor: "next-token",
	}
	handler := Admin(&stubAdminService{usersPage: page}, adminTestPolicy(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/admin?type=users&limit=10", nil, &models.User{IsAdmin: true}))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["success"] != true || envelope["nextCursor"] != "next-token" {
		t.Fatalf("unexpected envelope %v", envelope)
	}
}

func TestAdminDeleteUserNeedsValidID(t *testing.T) {
	svc := &stubAdminService{}
	handler := Admin(svc, adminTestPolicy(), nil)
	actor := &models.User{IsAdmin: true}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodDelete, "/admin?type=users&userId=nope", nil, actor))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	target := uuid.New()
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodDelete, "/admin?type=users&userId="+target.String(), nil, actor))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.deletedUsers) != 1 || svc.deletedUsers[0] != target {
		t.Fatalf("expected delete call for %s, got %v", target, svc.deletedUsers)
	}
}

func TestAdminSetAdminFlag(t *testing.T) {
	target := uuid.New()
	svc := &stubAdminService{setUser: &users.PublicUser{ID: target, IsAdmin: true}}
	handler := Admin(svc, adminTestPolicy(), nil)
	root := &models.User{ID: uuid.New(), Email: "root@example.com", IsSuperAdmin: true}

	body := []byte(`{"userId":"` + target.String() + `","isAdmin":true}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodPost, "/admin?type=admins", body, root))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.setCalls) != 1 || svc.setCalls[0] != target {
		t.Fatalf("expected set call for %s, got %v", target, svc.setCalls)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodPost, "/admin?type=admins", []byte(`{"userId":"`+target.String()+`"}`), root))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when isAdmin missing, got %d", resp.Code)
	}
}

func TestAdminWipeUsersReportsCount(t *testing.T) {
	handler := Admin(&stubAdminService{wiped: 7}, adminTestPolicy(), nil)
	root := &models.User{ID: uuid.New(), Email: "root@example.com", IsSuperAdmin: true}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodPost, "/admin?type=wipe-users", []byte(`{}`), root))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if envelope := decodeEnvelope(t, resp); envelope["removed"] != float64(7) {
		t.Fatalf("unexpected envelope %v", envelope)
	}
}

func TestAdminListArticlesByAuthor(t *testing.T) {
	svc := &stubAdminService{articlesPage: &articles.Page{}}
	handler := Admin(svc, adminTestPolicy(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/admin?type=articles&author=bob%40example.com&search=deploy", nil, &models.User{IsAdmin: true}))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastArticles.Author != "bob@example.com" {
		t.Fatalf("author filter = %q, want bob@example.com", svc.lastArticles.Author)
	}
	if svc.lastArticles.Search != "deploy" {
		t.Fatalf("search filter = %q, want deploy", svc.lastArticles.Search)
	}
}
