package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/storefront/internal/model"
	"github.com/yourorg/storefront/internal/query"

	"go.uber.org/zap"
)

// DefaultBaseURL is used when no catalog API URL is configured
const DefaultBaseURL = "http://localhost:5000/api"

// CatalogClient handles communication with the remote catalog API
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCatalogClient creates a new catalog API client.
// A zero timeout leaves the transport default in place.
func NewCatalogClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CatalogClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the normalized base URL
func (c *CatalogClient) BaseURL() string {
	return c.baseURL
}

// GetRestaurants retrieves a page of restaurants matching req
func (c *CatalogClient) GetRestaurants(ctx context.Context, req query.Request) (*model.RestaurantList, error) {
	endpoint := "/restaurants"
	if qs := encodeQuery(req); qs != "" {
		endpoint += "?" + qs
	}

	var list model.RestaurantList
	if err := c.get(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = []model.Restaurant{}
	}
	return &list, nil
}

// GetRestaurantByID retrieves a single restaurant
func (c *CatalogClient) GetRestaurantByID(ctx context.Context, id int) (*model.Restaurant, error) {
	var env model.Envelope[model.Restaurant]
	if err := c.get(ctx, fmt.Sprintf("/restaurants/%d", id), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetTags retrieves every tag
func (c *CatalogClient) GetTags(ctx context.Context) (*model.TagList, error) {
	return c.getTagList(ctx, "/tags")
}

// GetPopularTags retrieves the popular tag subset
func (c *CatalogClient) GetPopularTags(ctx context.Context) (*model.TagList, error) {
	return c.getTagList(ctx, "/tags/popular")
}

// GetTagByID retrieves a single tag
func (c *CatalogClient) GetTagByID(ctx context.Context, id int) (*model.Tag, error) {
	var env model.Envelope[model.Tag]
	if err := c.get(ctx, fmt.Sprintf("/tags/%d", id), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// SearchRestaurants runs an overlay search. Any failure yields an empty list.
func (c *CatalogClient) SearchRestaurants(ctx context.Context, search string, tags []string) []model.Restaurant {
	list, err := c.GetRestaurants(ctx, query.ComposeSearch(search, tags))
	if err != nil {
		c.logger.Error("Search error",
			zap.Error(err),
			zap.String("error_class", ErrorClass(err)),
			zap.String("search", search))
		return []model.Restaurant{}
	}
	return list.Data
}

// GetRestaurantsByTag lists restaurants for one category. Any failure yields an empty list.
func (c *CatalogClient) GetRestaurantsByTag(ctx context.Context, tagName string) []model.Restaurant {
	list, err := c.GetRestaurants(ctx, query.ComposeTag(tagName))
	if err != nil {
		c.logger.Error("Tag filter error",
			zap.Error(err),
			zap.String("error_class", ErrorClass(err)),
			zap.String("tag", tagName))
		return []model.Restaurant{}
	}
	return list.Data
}

func (c *CatalogClient) getTagList(ctx context.Context, endpoint string) (*model.TagList, error) {
	var list model.TagList
	if err := c.get(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = []model.Tag{}
	}
	return &list, nil
}

// get issues a single GET and decodes the envelope into out
func (c *CatalogClient) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return c.fail(endpoint, &TransportError{Endpoint: endpoint, Err: err})
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(endpoint, &TransportError{Endpoint: endpoint, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(endpoint, &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(endpoint, &TransportError{Endpoint: endpoint, Err: err})
	}

	var status struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return c.fail(endpoint, &DecodeError{Endpoint: endpoint, Err: err})
	}
	if !status.Success && status.Error != "" {
		return c.fail(endpoint, &APIError{Endpoint: endpoint, Message: status.Error})
	}

	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(endpoint, &DecodeError{Endpoint: endpoint, Err: err})
	}

	c.logger.Debug("Catalog request completed", zap.String("endpoint", endpoint))
	return nil
}

func (c *CatalogClient) fail(endpoint string, err error) error {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("endpoint", endpoint),
		zap.String("error_class", ErrorClass(err)),
	}
	if te, ok := err.(*TransportError); ok && te.StatusCode != 0 {
		fields = append(fields, zap.Int("status_code", te.StatusCode))
	}
	if errors.Is(err, context.Canceled) {
		c.logger.Debug("Catalog request canceled", fields...)
		return err
	}
	c.logger.Error("API error", fields...)
	return err
}

// encodeQuery builds the query string from the fields that are present
func encodeQuery(req query.Request) string {
	params := url.Values{}
	if req.Search != "" {
		params.Set("search", req.Search)
	}
	for _, tag := range req.Tags {
		params.Add("tags", tag)
	}
	if req.SortBy != "" {
		params.Set("sortBy", string(req.SortBy))
	}
	if req.SortOrder != "" {
		params.Set("sortOrder", string(req.SortOrder))
	}
	if req.Page > 0 {
		params.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}
	return params.Encode()
}
