package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "assetshare/pkg/errors"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockAuthService struct {
	loginFunc  func(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	logoutErr  error
	user       *model.User
	registered *model.RegisterRequest
}

func (m *mockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	m.registered = req
	return &model.User{ID: 2, Email: req.Email}, nil
}

func (m *mockAuthService) Logout(ctx context.Context) error { return m.logoutErr }

func (m *mockAuthService) Me(ctx context.Context) (*model.User, error) {
	if m.user == nil {
		return nil, apperrors.Unauthorized("Please sign in to continue")
	}
	return m.user, nil
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, update *model.ProfileUpdate) (*model.User, error) {
	return m.user, nil
}

func passThrough(next httprouter.Handle, _ ...model.Role) httprouter.Handle { return next }

type countingLimiter struct {
	allow int
}

func (l *countingLimiter) Route(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if l.allow == 0 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		l.allow--
		next(w, r, ps)
	}
}

func newRouter(svc *mockAuthService, limiter Limiter) *httprouter.Router {
	router := httprouter.New()
	NewAuthHandler(svc, passThrough, limiter, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"username":"ada","password":"pw"}`, wantStatus: http.StatusOK},
		{name: "malformed body", body: `{"username":`, wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "bad credentials", body: `{"username":"ada","password":"no"}`, loginErr: apperrors.Unauthorized("Incorrect username or password"), wantStatus: http.StatusUnauthorized, wantCode: apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{loginFunc: func(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
				if tt.loginErr != nil {
					return nil, tt.loginErr
				}
				return &model.User{ID: 1, Email: "ada@example.com", Role: model.RoleAdmin}, nil
			}}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			newRouter(svc, nil).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantCode == "" {
				return
			}
			var body apperrors.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	svc := &mockAuthService{loginFunc: func(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
		return &model.User{ID: 1}, nil
	}}
	router := newRouter(svc, &countingLimiter{allow: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"a","password":"b"}`)))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}

func TestRegister_Created(t *testing.T) {
	svc := &mockAuthService{}
	w := httptest.NewRecorder()
	body := `{"email":"farmer@example.com","password":"secret1","business_name":"Green Acres"}`
	newRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if svc.registered == nil || svc.registered.BusinessName != "Green Acres" {
		t.Errorf("expected decoded request, got %+v", svc.registered)
	}

	var resp struct {
		Data model.User `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != 2 {
		t.Errorf("expected user 2 in envelope, got %+v", resp.Data)
	}
}

func TestLogoutAndMe(t *testing.T) {
	svc := &mockAuthService{}
	router := newRouter(svc, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 on logout, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a session, got %d", w.Code)
	}
}
