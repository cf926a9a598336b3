// Package api is the network boundary to the persistence service. The rest
// of the engine consumes the Client interface; HTTPClient is the real
// implementation and tests substitute fakes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dayboard-cli/internal/model"
)

var ErrNotFound = errors.New("item not found")

type Client interface {
	FetchItems(ctx context.Context) ([]model.Item, error)
	CreateItems(ctx context.Context, items []model.Item) ([]model.Item, error)
	UpdateItem(ctx context.Context, it model.Item) error
	BulkUpdate(ctx context.Context, items []model.Item) error
	DeleteItem(ctx context.Context, id string) error
}

type HTTPClient struct {
	base string
	hc   *http.Client
}

func New(base string) *HTTPClient {
	return &HTTPClient{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// Read a little of the body for context; server errors carry
		// {"error": "..."}.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) FetchItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) CreateItems(ctx context.Context, items []model.Item) ([]model.Item, error) {
	var out []model.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateItem(ctx context.Context, it model.Item) error {
	return c.do(ctx, http.MethodPut, "/api/items/"+url.PathEscape(it.ID), it, nil)
}

func (c *HTTPClient) BulkUpdate(ctx context.Context, items []model.Item) error {
	return c.do(ctx, http.MethodPut, "/api/items/bulk", items, nil)
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) Healthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
