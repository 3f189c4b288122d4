// Package client is a typed HTTP client for the storefront API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New builds a client for the API rooted at baseURL, for example
// http://localhost:8080/api/v1. The token is sent as a bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// envelope mirrors the server response wrapper with a lazily decoded body.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details []string        `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (status %d): %w", method, path, resp.StatusCode, err)
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		code := env.Code
		if code == "" {
			code = errors.ErrCodeInternal
		}

		return errors.NewAppError(code, env.Error, resp.StatusCode).
			WithDetail(env.Message).
			WithDetails(env.Details...)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}

	return nil
}

type ListOptions struct {
	Page   int
	Limit  int
	Search string
	// Admin includes inactive products and searches name/SKU.
	Admin bool
}

func (o ListOptions) values() url.Values {
	v := url.Values{}

	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Admin {
		v.Set("admin", "true")
	}

	return v
}

func (c *Client) ListProducts(ctx context.Context, opts ListOptions) (*models.ProductPage, error) {
	var page models.ProductPage
	if err := c.do(ctx, http.MethodGet, "/products", opts.values(), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/admin/products/"+id.String(), nil, nil, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPatch, "/products/"+id.String(), nil, req, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id.String(), nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *Client) DeleteImage(ctx context.Context, publicID string) (*models.DestroyResult, error) {
	var result models.DestroyResult
	req := models.DeleteImageRequest{PublicID: publicID}
	if err := c.do(ctx, http.MethodPost, "/upload/delete", nil, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
