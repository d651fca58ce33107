package service

import (
	"context"
	"strings"

	"assetshare/internal/cache"
	"assetshare/internal/users/validator"
	"assetshare/pkg/client"
	"assetshare/pkg/config"
	"assetshare/pkg/model"
	"assetshare/pkg/sanitizer"
	"assetshare/pkg/validation"
)

type UserService interface {
	List(ctx context.Context, filter ListFilter) ([]model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	UpdateStatus(ctx context.Context, id int64, update *model.UserStatusUpdate) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type UserAPI interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	UpdateStatus(ctx context.Context, id int64, update *model.UserStatusUpdate) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

// ListFilter narrows the cached user list. Empty fields match everything.
type ListFilter struct {
	Status model.UserStatus
	Role   model.Role
	Search string
}

type userService struct {
	api         UserAPI
	store       cache.Store
	invalidator *cache.Invalidator
	validator   *validator.UserValidator
	cfg         *config.Config
}

func NewUserService(
	api UserAPI,
	store cache.Store,
	invalidator *cache.Invalidator,
	validator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		api:         api,
		store:       store,
		invalidator: invalidator,
		validator:   validator,
		cfg:         cfg,
	}
}

func (s *userService) List(ctx context.Context, filter ListFilter) ([]model.User, error) {
	users, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.For(cache.Users), s.api.List)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, client.ToAppError(err)
	}

	search := strings.ToLower(sanitizer.NormalizeText(filter.Search))
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" && !matches(&u, search) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func matches(u *model.User, search string) bool {
	fields := []string{u.Email}
	for _, p := range []*string{u.FirstName, u.LastName, u.BusinessName} {
		if p != nil {
			fields = append(fields, *p)
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.ForID(cache.User, id), func(ctx context.Context) (*model.User, error) {
		return s.api.Get(ctx, id)
	})
	if err != nil {
		return nil, client.ToAppError(err)
	}
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, id int64, update *model.UserStatusUpdate) (*model.User, error) {
	update.Status = model.UserStatus(strings.ToLower(strings.TrimSpace(string(update.Status))))
	if err := s.validator.ValidateStatus(update); err != nil {
		s.cfg.Log.Warn("User status validation failed", "id", id, "error", err)
		return nil, validation.ToAppError(err)
	}

	user, err := s.api.UpdateStatus(ctx, id, update)
	if err != nil {
		s.cfg.Log.Error("Failed to update user status", "id", id, "status", update.Status, "error", err)
		return nil, client.ToAppError(err)
	}

	s.invalidate(ctx, cache.UpdateUserStatus, id)
	s.cfg.Log.Info("User status updated successfully", "id", id, "status", update.Status)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete user", "id", id, "error", err)
		return client.ToAppError(err)
	}

	s.invalidate(ctx, cache.DeleteUser, id)
	s.cfg.Log.Info("User deleted successfully", "id", id)
	return nil
}

func (s *userService) invalidate(ctx context.Context, m cache.Mutation, id int64) {
	if err := s.invalidator.Apply(ctx, m, id); err != nil {
		s.cfg.Log.Warn("Cache invalidation incomplete", "mutation", m, "id", id, "error", err)
	}
}
