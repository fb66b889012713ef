package oss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPAdapter talks to an object service exposing
// {endpoint}/buckets/{bucket}/objects/{key} with PUT, GET, HEAD and DELETE.
type HTTPAdapter struct {
	client  *http.Client
	baseURL string
	bucket  string
}

// NewHTTPAdapter creates the adapter. A nil client uses one with cfg.Timeout.
func NewHTTPAdapter(cfg *Config, client *http.Client) *HTTPAdapter {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPAdapter{
		client:  client,
		baseURL: strings.TrimSuffix(cfg.Endpoint, "/"),
		bucket:  cfg.Bucket,
	}
}

func (a *HTTPAdapter) objectURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return a.baseURL + "/buckets/" + url.PathEscape(a.bucket) + "/objects/" + strings.Join(segments, "/")
}

func (a *HTTPAdapter) do(ctx context.Context, method, key string, body io.Reader, size int64, ct string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.objectURL(key), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType(key, ct))
		if size >= 0 {
			req.ContentLength = size
		}
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, key, err)
	}
	return resp, nil
}

func (a *HTTPAdapter) Put(ctx context.Context, key string, r io.Reader, size int64, ct string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	resp, err := a.do(ctx, http.MethodPut, key, r, size, ct)
	if err != nil {
		return err
	}
	defer drain(resp)

	if !success(resp.StatusCode) {
		return fmt.Errorf("upload failed with status: %s", resp.Status)
	}
	return nil
}

func (a *HTTPAdapter) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := a.do(ctx, http.MethodGet, key, nil, 0, "")
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		drain(resp)
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	case !success(resp.StatusCode):
		drain(resp)
		return nil, fmt.Errorf("download failed with status: %s", resp.Status)
	}
	return resp.Body, nil
}

// Delete treats 404 as success.
func (a *HTTPAdapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	resp, err := a.do(ctx, http.MethodDelete, key, nil, 0, "")
	if err != nil {
		return err
	}
	defer drain(resp)

	if !success(resp.StatusCode) && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete failed with status: %s", resp.Status)
	}
	return nil
}

func (a *HTTPAdapter) Exists(ctx context.Context, key string) (bool, error) {
	resp, err := a.do(ctx, http.MethodHead, key, nil, 0, "")
	if err != nil {
		return false, err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case success(resp.StatusCode):
		return true, nil
	default:
		return false, fmt.Errorf("head failed with status: %s", resp.Status)
	}
}

func (a *HTTPAdapter) Endpoint() string { return a.baseURL }

func success(status int) bool { return status >= 200 && status < 300 }

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

type httpDriver struct{}

func (d *httpDriver) Name() string { return "http" }

func (d *httpDriver) Connect(_ context.Context, cfg *Config) (Interface, error) {
	return NewHTTPAdapter(cfg, nil), nil
}

func init() {
	RegisterDriver(&httpDriver{})
}
