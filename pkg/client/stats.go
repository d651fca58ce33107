package client

import (
	"context"

	"assetshare/pkg/model"
)

type StatsClient struct {
	httpClient *HttpClient
}

func NewStatsClient(authed *HttpClient) *StatsClient {
	return &StatsClient{httpClient: authed}
}

func (c *StatsClient) Stats(ctx context.Context) (*model.Stats, error) {
	var out model.Stats
	if err := c.httpClient.GET(ctx, "/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *StatsClient) UserDashboard(ctx context.Context) (*model.UserDashboardStats, error) {
	var out model.UserDashboardStats
	if err := c.httpClient.GET(ctx, "/user/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *StatsClient) AdminDashboard(ctx context.Context) (*model.AdminDashboardStats, error) {
	var out model.AdminDashboardStats
	if err := c.httpClient.GET(ctx, "/admin/dashboard-stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
