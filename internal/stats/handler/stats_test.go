package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetshare/internal/session"
	"assetshare/internal/stats/service"
	apperrors "assetshare/pkg/errors"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockStatsService struct {
	lastRole model.Role
}

func (m *mockStatsService) Overview(ctx context.Context) (*model.Stats, error) {
	return &model.Stats{Users: 5}, nil
}

func (m *mockStatsService) Dashboard(ctx context.Context, role model.Role) (*service.Dashboard, error) {
	m.lastRole = role
	return &service.Dashboard{Role: role}, nil
}

func withRole(role model.Role) session.Guard {
	return func(next httprouter.Handle, _ ...model.Role) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			next(w, r.WithContext(session.WithUser(r.Context(), &model.User{ID: 9, Role: role})), ps)
		}
	}
}

func signedOut(next httprouter.Handle, _ ...model.Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		apperrors.WriteError(w, apperrors.Unauthorized("Please sign in to continue"))
	}
}

func TestDashboard_RoleFromSession(t *testing.T) {
	for _, role := range []model.Role{model.RoleAdmin, model.RoleBusinessUser} {
		svc := &mockStatsService{}
		router := httprouter.New()
		NewStatsHandler(svc, withRole(role), logger.Discard()).RegisterRoutes(router)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", role, rec.Code)
		}
		if svc.lastRole != role {
			t.Errorf("expected role %q, got %q", role, svc.lastRole)
		}
	}
}

type countingStatsService struct {
	mockStatsService
	overviewCalls int
}

func (m *countingStatsService) Overview(ctx context.Context) (*model.Stats, error) {
	m.overviewCalls++
	return m.mockStatsService.Overview(ctx)
}

func TestStats_RequiresSession(t *testing.T) {
	for _, path := range []string{"/api/stats", "/api/dashboard"} {
		svc := &countingStatsService{}
		router := httprouter.New()
		NewStatsHandler(svc, signedOut, logger.Discard()).RegisterRoutes(router)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
		if svc.overviewCalls != 0 || svc.lastRole != "" {
			t.Errorf("%s: service must not be called without a session", path)
		}
	}
}

func TestOverview_SignedIn(t *testing.T) {
	router := httprouter.New()
	NewStatsHandler(&mockStatsService{}, withRole(model.RoleBusinessUser), logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for stats, got %d", rec.Code)
	}
	var body struct {
		Data model.Stats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Data.Users != 5 {
		t.Errorf("unexpected stats %+v", body.Data)
	}
}
