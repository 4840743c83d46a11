// Package api is the HTTP client for the items service. Operations are
// stateless: no caching, no retries, no local bookkeeping. Every request
// carries the static Authorization header configured at startup.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joaosp7/items-manager/internal/config"
	"github.com/joaosp7/items-manager/internal/model"
	"github.com/joaosp7/items-manager/internal/query"
)

// Metadata is the pagination envelope accompanying a list response. It is
// authoritative for pagination; the client only recomputes page counts as a
// display fallback.
type Metadata struct {
	Page         int         `json:"page"`
	Limit        int         `json:"limit"`
	TotalItems   int         `json:"totalItems"`
	TotalPages   int         `json:"totalPages"`
	NextPage     *int        `json:"nextPage"`
	PreviousPage *int        `json:"previousPage"`
	Sort         string      `json:"sort"`
	Order        query.Order `json:"order"`
}

type ItemsResponse struct {
	Data     []model.Item `json:"data"`
	Metadata Metadata     `json:"metadata"`
}

type Client struct {
	baseURL string
	authz   string
	http    *http.Client
}

// New builds a client from the startup configuration. The base URL may
// carry a trailing slash; it is normalized away.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		authz:   cfg.APISecret,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// List fetches one page of items described by q.
func (c *Client) List(ctx context.Context, q query.Params) (*ItemsResponse, error) {
	var resp ItemsResponse
	if err := c.do(ctx, http.MethodGet, "/items?"+q.Values().Encode(), nil, &resp, false, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetByID fetches a single item. Returns ErrNotFound on 404.
func (c *Client) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &item, true, false); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts a new item and returns it with server-assigned id and
// timestamps. A 4xx rejection surfaces as *ValidationError.
func (c *Client) Create(ctx context.Context, form model.FormData) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPost, "/items", form, &item, false, true); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update patches an existing item; only fields set on the patch change.
func (c *Client) Update(ctx context.Context, id string, patch model.Patch) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPatch, itemPath(id), patch, &item, true, true); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes an item. Deleting an id that is already gone returns
// ErrNotFound, never a silent success.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil, true, false)
}

func itemPath(id string) string {
	return "/items/" + url.PathEscape(id)
}

// do performs one request/response cycle. out may be nil for empty-body
// responses; idAddressed/mutating select the error mapping (errors.go).
func (c *Client) do(ctx context.Context, method, path string, in, out any, idAddressed, mutating bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authz != "" {
		req.Header.Set("Authorization", c.authz)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusToError(resp.StatusCode, raw, idAddressed, mutating)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
