package client

import (
	"context"

	"assetshare/pkg/model"
)

// AuthClient splits its calls between the public variant (login, register)
// and the authenticated one (everything that needs the session).
type AuthClient struct {
	public *HttpClient
	authed *HttpClient
}

func NewAuthClient(public, authed *HttpClient) *AuthClient {
	return &AuthClient{public: public, authed: authed}
}

func (c *AuthClient) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	var out model.TokenResponse
	if err := c.public.POST(ctx, "/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	var out model.TokenResponse
	if err := c.public.POST(ctx, "/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) Logout(ctx context.Context) error {
	return c.authed.POST(ctx, "/logout", struct{}{}, nil)
}

func (c *AuthClient) CurrentUser(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.authed.GET(ctx, "/user", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) UpdateProfile(ctx context.Context, update *model.ProfileUpdate) (*model.User, error) {
	var out model.User
	if err := c.authed.PUT(ctx, "/user/profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
