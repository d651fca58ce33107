package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"assetshare/pkg/middleware"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for the authenticated variant.
// An empty token means no session; the request goes out without auth.
type TokenSource interface {
	Load(ctx context.Context) (string, error)
}

type UnauthorizedFunc func(token string)

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens TokenSource

	mu             sync.RWMutex
	onUnauthorized []UnauthorizedFunc
}

// NewHttpClient returns the public variant. A zero timeout keeps the
// transport default.
func NewHttpClient(baseURL string, timeout time.Duration) *HttpClient {
	return &HttpClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// NewAuthHttpClient returns the authenticated variant.
func NewAuthHttpClient(baseURL string, timeout time.Duration, tokens TokenSource) *HttpClient {
	c := NewHttpClient(baseURL, timeout)
	c.tokens = tokens
	return c
}

// OnUnauthorized registers fn to be called once for every 401 answered to
// the authenticated variant, with the token that request carried.
func (c *HttpClient) OnUnauthorized(fn UnauthorizedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (c *HttpClient) GET(ctx context.Context, path string, out any) error {
	return c.request(ctx, http.MethodGet, path, nil, out)
}

func (c *HttpClient) POST(ctx context.Context, path string, body, out any) error {
	return c.request(ctx, http.MethodPost, path, body, out)
}

func (c *HttpClient) PUT(ctx context.Context, path string, body, out any) error {
	return c.request(ctx, http.MethodPut, path, body, out)
}

func (c *HttpClient) PATCH(ctx context.Context, path string, body, out any) error {
	return c.request(ctx, http.MethodPatch, path, body, out)
}

func (c *HttpClient) DELETE(ctx context.Context, path string, out any) error {
	return c.request(ctx, http.MethodDelete, path, nil, out)
}

// PostMultipart uploads content as a single form file. The multipart
// writer's boundary header is the only Content-Type sent.
func (c *HttpClient) PostMultipart(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to copy upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *HttpClient) request(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	contentType := ""

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, reqBody, contentType)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *HttpClient) do(ctx context.Context, method, path string, reqBody io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	requestID := middleware.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(middleware.RequestIDHeader, requestID)

	token := ""
	if c.tokens != nil {
		token, err = c.tokens.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: networkMessage, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: networkMessage, Err: err}
	}

	r := &Response{Response: resp, Body: respBody}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return r, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		c.notifyUnauthorized(token)
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Message: GetErrorMessage(r)}
}

func (c *HttpClient) notifyUnauthorized(token string) {
	c.mu.RLock()
	listeners := make([]UnauthorizedFunc, len(c.onUnauthorized))
	copy(listeners, c.onUnauthorized)
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(token)
	}
}

// decode fills out from a successful response. 204 and empty bodies carry
// nothing to decode.
func decode(resp *Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := resp.DecodeJSON(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetErrorMessage picks the most useful text out of an error body:
// "message", then a string "detail", then the HTTP status text.
func GetErrorMessage(resp *Response) string {
	var errResp struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := resp.DecodeJSON(&errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		var detail string
		if json.Unmarshal(errResp.Detail, &detail) == nil && detail != "" {
			return detail
		}
	}

	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
