package client

import (
	"context"
	"io"

	"assetshare/pkg/model"
)

const UploadField = "file"

type UploadClient struct {
	httpClient *HttpClient
}

func NewUploadClient(public *HttpClient) *UploadClient {
	return &UploadClient{httpClient: public}
}

// Upload sends one file and returns the URL the backend stored it under.
func (c *UploadClient) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var out model.UploadResult
	if err := c.httpClient.PostMultipart(ctx, "/upload/", UploadField, filename, content, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
