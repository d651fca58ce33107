package service

import (
	"context"
	"testing"
	"time"

	"assetshare/internal/cache"
	"assetshare/internal/users/validator"
	"assetshare/pkg/config"
	apperrors "assetshare/pkg/errors"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"
	"assetshare/pkg/validation"
)

type mockUserAPI struct {
	users       []model.User
	listCalls   int
	getCalls    int
	statusCalls int
	deleted     []int64
}

func (m *mockUserAPI) List(ctx context.Context) ([]model.User, error) {
	m.listCalls++
	return m.users, nil
}

func (m *mockUserAPI) Get(ctx context.Context, id int64) (*model.User, error) {
	m.getCalls++
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User")
}

func (m *mockUserAPI) UpdateStatus(ctx context.Context, id int64, update *model.UserStatusUpdate) (*model.User, error) {
	m.statusCalls++
	return &model.User{ID: id, Status: update.Status}, nil
}

func (m *mockUserAPI) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (UserService, *mockUserAPI) {
	t.Helper()
	log := logger.Discard()
	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { store.Close() })

	api := &mockUserAPI{users: []model.User{
		{ID: 1, Email: "admin@example.com", Role: model.RoleAdmin, Status: model.UserApproved},
		{ID: 2, Email: "ada@farm.ng", Role: model.RoleBusinessUser, Status: model.UserPending, BusinessName: strPtr("Sunrise Farms")},
		{ID: 3, Email: "bola@agro.ng", Role: model.RoleBusinessUser, Status: model.UserRestricted, FirstName: strPtr("Bola")},
	}}
	v := validator.NewUserValidator(validation.MustNew(), log)
	svc := NewUserService(api, store, cache.NewInvalidator(store, log), v, &config.Config{Log: log})
	return svc, api
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []int64
	}{
		{name: "no filter", wantIDs: []int64{1, 2, 3}},
		{name: "pending", filter: ListFilter{Status: model.UserPending}, wantIDs: []int64{2}},
		{name: "business users", filter: ListFilter{Role: model.RoleBusinessUser}, wantIDs: []int64{2, 3}},
		{name: "search business name", filter: ListFilter{Search: "sunrise"}, wantIDs: []int64{2}},
		{name: "search first name", filter: ListFilter{Search: " BOLA "}, wantIDs: []int64{3}},
		{name: "no match", filter: ListFilter{Search: "nobody"}, wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			users, err := svc.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(users) != len(tt.wantIDs) {
				t.Fatalf("expected %d users, got %d", len(tt.wantIDs), len(users))
			}
			for i, id := range tt.wantIDs {
				if users[i].ID != id {
					t.Errorf("user %d: expected id %d, got %d", i, id, users[i].ID)
				}
			}
		})
	}
}

func TestList_CachedAcrossFilters(t *testing.T) {
	svc, api := newTestService(t)
	ctx := context.Background()

	for _, f := range []ListFilter{{}, {Status: model.UserPending}, {Search: "ada"}} {
		if _, err := svc.List(ctx, f); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if api.listCalls != 1 {
		t.Errorf("expected one upstream call, got %d", api.listCalls)
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    model.UserStatus
		wantCode  string
		wantCalls int
	}{
		{name: "approve", status: model.UserApproved, wantCalls: 1},
		{name: "mixed case", status: " Restricted ", wantCalls: 1},
		{name: "unknown", status: "banned", wantCode: apperrors.CodeValidation},
		{name: "empty", status: "", wantCode: apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api := newTestService(t)
			_, err := svc.UpdateStatus(context.Background(), 2, &model.UserStatusUpdate{Status: tt.status})
			code := ""
			if err != nil {
				code = apperrors.AsAppError(err).Code
			}
			if code != tt.wantCode {
				t.Fatalf("expected code %q, got %q (%v)", tt.wantCode, code, err)
			}
			if api.statusCalls != tt.wantCalls {
				t.Errorf("expected %d upstream calls, got %d", tt.wantCalls, api.statusCalls)
			}
		})
	}
}

func TestMutationsInvalidateUserCaches(t *testing.T) {
	svc, api := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.List(ctx, ListFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, 2, &model.UserStatusUpdate{Status: model.UserApproved}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.List(ctx, ListFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if api.getCalls != 2 {
		t.Errorf("expected user to be refetched after status change, got %d calls", api.getCalls)
	}
	if api.listCalls != 2 {
		t.Errorf("expected list to be refetched after mutations, got %d calls", api.listCalls)
	}
	if len(api.deleted) != 1 || api.deleted[0] != 3 {
		t.Errorf("unexpected deletes %v", api.deleted)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), 42)
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
