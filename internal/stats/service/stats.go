package service

import (
	"context"

	"assetshare/internal/cache"
	"assetshare/pkg/client"
	"assetshare/pkg/config"
	"assetshare/pkg/model"
)

type StatsService interface {
	Overview(ctx context.Context) (*model.Stats, error)
	Dashboard(ctx context.Context, role model.Role) (*Dashboard, error)
}

type StatsAPI interface {
	Stats(ctx context.Context) (*model.Stats, error)
	UserDashboard(ctx context.Context) (*model.UserDashboardStats, error)
	AdminDashboard(ctx context.Context) (*model.AdminDashboardStats, error)
}

// Dashboard carries the counters of exactly one role.
type Dashboard struct {
	Role  model.Role                 `json:"role"`
	User  *model.UserDashboardStats  `json:"user,omitempty"`
	Admin *model.AdminDashboardStats `json:"admin,omitempty"`
}

type statsService struct {
	api   StatsAPI
	store cache.Store
	cfg   *config.Config
}

func NewStatsService(api StatsAPI, store cache.Store, cfg *config.Config) StatsService {
	return &statsService{api: api, store: store, cfg: cfg}
}

func (s *statsService) Overview(ctx context.Context) (*model.Stats, error) {
	stats, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.For(cache.Stats), s.api.Stats)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch stats", "error", err)
		return nil, client.ToAppError(err)
	}
	return stats, nil
}

func (s *statsService) Dashboard(ctx context.Context, role model.Role) (*Dashboard, error) {
	if role == model.RoleAdmin {
		stats, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.For(cache.AdminDashboard), s.api.AdminDashboard)
		if err != nil {
			s.cfg.Log.Error("Failed to fetch admin dashboard", "error", err)
			return nil, client.ToAppError(err)
		}
		return &Dashboard{Role: role, Admin: stats}, nil
	}

	stats, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.For(cache.UserDashboard), s.api.UserDashboard)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch user dashboard", "error", err)
		return nil, client.ToAppError(err)
	}
	return &Dashboard{Role: model.RoleBusinessUser, User: stats}, nil
}
