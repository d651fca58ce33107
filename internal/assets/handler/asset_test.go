package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "assetshare/pkg/errors"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockAssetService struct {
	getFunc    func(ctx context.Context, id int64) (*model.Asset, error)
	lastFilter model.AssetFilter
	uploaded   string
}

func (m *mockAssetService) List(ctx context.Context, filter model.AssetFilter) ([]model.Asset, error) {
	m.lastFilter = filter
	return []model.Asset{{ID: 1}}, nil
}

func (m *mockAssetService) Get(ctx context.Context, id int64) (*model.Asset, error) {
	return m.getFunc(ctx, id)
}

func (m *mockAssetService) Create(ctx context.Context, asset *model.AssetCreate) (*model.Asset, error) {
	return &model.Asset{ID: 5, Name: asset.Name}, nil
}

func (m *mockAssetService) Update(ctx context.Context, id int64, update *model.AssetUpdate) (*model.Asset, error) {
	return &model.Asset{ID: id}, nil
}

func (m *mockAssetService) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockAssetService) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	data, _ := io.ReadAll(content)
	m.uploaded = filename + ":" + string(data)
	return "https://cdn.example.com/" + filename, nil
}

// adminOnly rejects every role-restricted route, like a business user session.
func adminOnly(next httprouter.Handle, roles ...model.Role) httprouter.Handle {
	if len(roles) > 0 {
		return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusForbidden)
		}
	}
	return next
}

func passThrough(next httprouter.Handle, _ ...model.Role) httprouter.Handle { return next }

func TestGetByID(t *testing.T) {
	svc := &mockAssetService{getFunc: func(ctx context.Context, id int64) (*model.Asset, error) {
		if id == 404 {
			return nil, apperrors.NotFound("Asset")
		}
		return &model.Asset{ID: id, Name: "Tractor"}, nil
	}}
	router := httprouter.New()
	NewAssetHandler(svc, passThrough, logger.Discard()).RegisterRoutes(router)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/assets/7", http.StatusOK},
		{"/api/assets/abc", http.StatusBadRequest},
		{"/api/assets/0", http.StatusBadRequest},
		{"/api/assets/404", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestList_PassesFilters(t *testing.T) {
	svc := &mockAssetService{}
	router := httprouter.New()
	NewAssetHandler(svc, passThrough, logger.Discard()).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets?search=tractor&type=machinery", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastFilter.Search != "tractor" || svc.lastFilter.Type != "machinery" {
		t.Errorf("unexpected filter %+v", svc.lastFilter)
	}
}

func TestAdminRoutesGuarded(t *testing.T) {
	router := httprouter.New()
	NewAssetHandler(&mockAssetService{}, adminOnly, logger.Discard()).RegisterRoutes(router)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/assets", bytes.NewBufferString(`{}`)),
		httptest.NewRequest(http.MethodPut, "/api/assets/1", bytes.NewBufferString(`{}`)),
		httptest.NewRequest(http.MethodDelete, "/api/assets/1", nil),
		httptest.NewRequest(http.MethodPost, "/api/uploads", nil),
	}
	for _, req := range requests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", req.Method, req.URL.Path, w.Code)
		}
	}
}

func TestUpload(t *testing.T) {
	svc := &mockAssetService{}
	router := httprouter.New()
	NewAssetHandler(svc, passThrough, logger.Discard()).RegisterRoutes(router)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "tractor.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("image-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.uploaded != "tractor.png:image-bytes" {
		t.Errorf("unexpected upload %q", svc.uploaded)
	}

	var resp struct {
		Data model.UploadResult `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.URL != "https://cdn.example.com/tractor.png" {
		t.Errorf("unexpected url %q", resp.Data.URL)
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	router := httprouter.New()
	NewAssetHandler(&mockAssetService{}, passThrough, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
