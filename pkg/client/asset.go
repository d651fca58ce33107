package client

import (
	"context"
	"net/url"
	"strconv"

	"assetshare/pkg/model"
)

type AssetClient struct {
	public *HttpClient
	authed *HttpClient
}

func NewAssetClient(public, authed *HttpClient) *AssetClient {
	return &AssetClient{public: public, authed: authed}
}

func assetPath(id int64) string {
	return "/assets/" + url.PathEscape(strconv.FormatInt(id, 10))
}

// List reads the public catalogue. Only the filters that are set become
// query parameters.
func (c *AssetClient) List(ctx context.Context, filter model.AssetFilter) ([]model.Asset, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}

	path := "/assets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []model.Asset
	if err := c.public.GET(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AssetClient) Get(ctx context.Context, id int64) (*model.Asset, error) {
	var out model.Asset
	if err := c.public.GET(ctx, assetPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AssetClient) Create(ctx context.Context, asset *model.AssetCreate) (*model.Asset, error) {
	var out model.Asset
	if err := c.authed.POST(ctx, "/assets", asset, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AssetClient) Update(ctx context.Context, id int64, update *model.AssetUpdate) (*model.Asset, error) {
	var out model.Asset
	if err := c.authed.PUT(ctx, assetPath(id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AssetClient) Delete(ctx context.Context, id int64) error {
	return c.authed.DELETE(ctx, assetPath(id), nil)
}
