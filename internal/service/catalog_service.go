package service

import (
	"context"
	"errors"
	"time"

	"github.com/yourorg/storefront/internal/client"
	"github.com/yourorg/storefront/internal/model"
	"github.com/yourorg/storefront/internal/query"

	"go.uber.org/zap"
)

// Catalog is the remote catalog API as seen by the service
type Catalog interface {
	GetRestaurants(ctx context.Context, req query.Request) (*model.RestaurantList, error)
	GetRestaurantByID(ctx context.Context, id int) (*model.Restaurant, error)
	GetTags(ctx context.Context) (*model.TagList, error)
	GetPopularTags(ctx context.Context) (*model.TagList, error)
	GetTagByID(ctx context.Context, id int) (*model.Tag, error)
	SearchRestaurants(ctx context.Context, search string, tags []string) []model.Restaurant
	GetRestaurantsByTag(ctx context.Context, tagName string) []model.Restaurant
}

// EventPublisher receives one event per applied catalog refresh
type EventPublisher interface {
	PublishViewed(ctx context.Context, event model.ViewEvent) error
}

// FetchState is the per-fetch lifecycle
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StateSuccess
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one catalog fetch
type Result struct {
	Restaurants []model.Restaurant `json:"data"`
	Count       int                `json:"count"`
	State       FetchState         `json:"-"`
	Request     query.Request      `json:"request"`
	Seq         uint64             `json:"-"`
	Stale       bool               `json:"-"`
}

// CatalogService turns selections into catalog fetches
type CatalogService struct {
	catalog Catalog
	events  EventPublisher
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service. events may be nil.
func NewCatalogService(catalog Catalog, events EventPublisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		events:  events,
		logger:  logger,
	}
}

// Fetch loads the main grid for sel. Every failure collapses to an empty
// list with a zero count.
func (s *CatalogService) Fetch(ctx context.Context, sel query.Selection) Result {
	req := sel.Request()

	list, err := s.catalog.GetRestaurants(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("Restaurant fetch superseded", zap.String("search", sel.Search))
		} else {
			s.logger.Error("Failed to fetch restaurants",
				zap.Error(err),
				zap.String("error_class", client.ErrorClass(err)),
				zap.String("search", sel.Search),
				zap.Strings("tags", sel.Tags),
				zap.String("sort", string(sel.Sort)))
		}
		return Result{
			Restaurants: []model.Restaurant{},
			Count:       0,
			State:       StateFailed,
			Request:     req,
		}
	}

	return Result{
		Restaurants: list.Data,
		Count:       list.Count(),
		State:       StateSuccess,
		Request:     req,
	}
}

// Search runs the search overlay query
func (s *CatalogService) Search(ctx context.Context, search string, tags []string) []model.Restaurant {
	return s.catalog.SearchRestaurants(ctx, search, tags)
}

// ByCategory lists restaurants for one overlay category
func (s *CatalogService) ByCategory(ctx context.Context, tagName string) []model.Restaurant {
	return s.catalog.GetRestaurantsByTag(ctx, tagName)
}

// Categories loads every tag. Failure yields an empty list.
func (s *CatalogService) Categories(ctx context.Context) []model.Tag {
	list, err := s.catalog.GetTags(ctx)
	if err != nil {
		s.logger.Error("Failed to load categories", zap.Error(err), zap.String("error_class", client.ErrorClass(err)))
		return []model.Tag{}
	}
	return list.Data
}

// PopularTags loads the popular tag subset. Failure yields an empty list.
func (s *CatalogService) PopularTags(ctx context.Context) []model.Tag {
	list, err := s.catalog.GetPopularTags(ctx)
	if err != nil {
		s.logger.Error("Failed to load popular tags", zap.Error(err), zap.String("error_class", client.ErrorClass(err)))
		return []model.Tag{}
	}
	return list.Data
}

// Restaurant loads a single restaurant
func (s *CatalogService) Restaurant(ctx context.Context, id int) (*model.Restaurant, error) {
	return s.catalog.GetRestaurantByID(ctx, id)
}

// Tag loads a single tag
func (s *CatalogService) Tag(ctx context.Context, id int) (*model.Tag, error) {
	return s.catalog.GetTagByID(ctx, id)
}

// RecordView publishes a completed refresh. Publishing errors are logged only.
func (s *CatalogService) RecordView(ctx context.Context, sel query.Selection, res Result) {
	if s.events == nil {
		return
	}

	event := model.ViewEvent{
		RequestID: client.RequestIDFromContext(ctx),
		Search:    sel.Search,
		Tags:      sel.Tags,
		Sort:      string(sel.Sort),
		Count:     res.Count,
		State:     res.State.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.events.PublishViewed(ctx, event); err != nil {
		s.logger.Warn("Failed to publish catalog view event", zap.Error(err))
	}
}
