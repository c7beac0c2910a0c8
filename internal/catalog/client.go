package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meshvault/mesh-gallery/internal/model"
)

// Timeout constants
const (
	DefaultFetchTimeout = 30 * time.Second
)

// Concurrency limits
const (
	FetchParallelism = 4
)

// URL templates
const (
	CategoryURLTemplate = "%s/api/catalog?category=%s"
)

// Client fetches and normalizes catalog categories from the asset backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a catalog client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultFetchTimeout,
	}
}

// SetTimeout sets the timeout for catalog requests.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchCategory downloads one category listing and normalizes it into model
// types.
func (c *Client) FetchCategory(ctx context.Context, key string) (model.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf(CategoryURLTemplate, c.baseURL, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to build catalog request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to fetch category %s: %v", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Category{}, fmt.Errorf("catalog returned %s for category %s", resp.Status, key)
	}

	var wire wireCatalog
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return model.Category{}, fmt.Errorf("failed to decode category %s: %v", key, err)
	}

	category := normalizeCategory(key, wire)
	log.Printf("catalog: category %s loaded, %d groups, %d assets", key, len(category.Groups), len(category.Assets()))
	return category, nil
}

// FetchAll downloads the given categories concurrently. Results keep the
// input order; the first failure cancels the remaining requests.
func (c *Client) FetchAll(ctx context.Context, keys []string) ([]model.Category, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(FetchParallelism)

	results := make([]model.Category, len(keys))
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			category, err := c.FetchCategory(ctx, key)
			if err != nil {
				return err
			}
			results[i] = category
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
