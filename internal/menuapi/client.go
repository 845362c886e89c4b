package menuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rpggio/zotswipe/internal/domain/menu"
)

// DefaultBaseURL is the public ZotMeal backend.
const DefaultBaseURL = "https://zotmeal-backend.vercel.app"

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client fetches dining hall menus over HTTP.
type Client struct {
	http *resty.Client
}

// New creates a menu API client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "zotswipe/1.0")

	return &Client{http: client}
}

// FetchRestaurant reads one hall's menu.
func (c *Client) FetchRestaurant(ctx context.Context, location string) (*menu.Restaurant, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("location", location).
		Get("/api")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menu.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", menu.ErrUpstream, resp.StatusCode())
	}

	var r menu.Restaurant
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", menu.ErrDecode, err)
	}
	if r.Restaurant == "" {
		return nil, fmt.Errorf("%w: missing restaurant name", menu.ErrDecode)
	}
	return &r, nil
}
