package client

import (
	"context"
	"net/url"
	"strconv"

	"assetshare/pkg/model"
)

type UserClient struct {
	httpClient *HttpClient
}

func NewUserClient(authed *HttpClient) *UserClient {
	return &UserClient{httpClient: authed}
}

func userPath(id int64) string {
	return "/users/" + url.PathEscape(strconv.FormatInt(id, 10))
}

func (c *UserClient) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.httpClient.GET(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserClient) Get(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	if err := c.httpClient.GET(ctx, userPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UserClient) UpdateStatus(ctx context.Context, id int64, update *model.UserStatusUpdate) (*model.User, error) {
	var out model.User
	if err := c.httpClient.PATCH(ctx, userPath(id)+"/status", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UserClient) Delete(ctx context.Context, id int64) error {
	return c.httpClient.DELETE(ctx, userPath(id), nil)
}
