package handler

import (
	"net/http"

	"github.com/yourorg/storefront/internal/client"
	"github.com/yourorg/storefront/internal/model"
	"github.com/yourorg/storefront/internal/query"
	"github.com/yourorg/storefront/internal/service"
	"github.com/yourorg/storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorefrontHandler handles storefront catalog HTTP requests
type StorefrontHandler struct {
	catalog *service.CatalogService
	logger  *zap.Logger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(catalog *service.CatalogService, logger *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// GetCatalog handles the main restaurant grid
// GET /api/v1/storefront/catalog?search=&tags=&sort=
func (h *StorefrontHandler) GetCatalog(c *gin.Context) {
	sort := query.SortLabel(c.Query("sort"))
	if sort == "" {
		sort = query.SortMostPopular
	}
	sel := query.Selection{
		Search: c.Query("search"),
		Tags:   c.QueryArray("tags"),
		Sort:   sort,
	}

	if err := query.Validate(sel); err != nil {
		h.logger.Debug("Rejected catalog selection", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid sort option or tag")
		return
	}

	ctx := c.Request.Context()
	res := h.catalog.Fetch(ctx, sel)
	h.catalog.RecordView(ctx, query.Apply(sel, query.SetCount(res.Count)), res)

	// Failures answer like an empty catalog
	utils.SendListResponse(c, http.StatusOK, res.Restaurants, gin.H{
		"sortBy":    res.Request.SortBy,
		"sortOrder": res.Request.SortOrder,
		"state":     res.State.String(),
	})
}

// Search handles the search overlay
// GET /api/v1/storefront/search?q=&tags=
func (h *StorefrontHandler) Search(c *gin.Context) {
	results := h.catalog.Search(c.Request.Context(), c.Query("q"), c.QueryArray("tags"))
	utils.SendListResponse(c, http.StatusOK, results, nil)
}

// GetCategories handles the overlay category list
// GET /api/v1/storefront/categories
func (h *StorefrontHandler) GetCategories(c *gin.Context) {
	utils.SendListResponse(c, http.StatusOK, h.catalog.Categories(c.Request.Context()), nil)
}

// GetCategoryRestaurants handles an overlay category lookup
// GET /api/v1/storefront/categories/:name/restaurants
func (h *StorefrontHandler) GetCategoryRestaurants(c *gin.Context) {
	name := c.Param("name")
	results := h.catalog.ByCategory(c.Request.Context(), name)
	utils.SendListResponse(c, http.StatusOK, results, gin.H{"category": name})
}

// GetPopularTags handles retrieving popular tags
// GET /api/v1/storefront/tags/popular
func (h *StorefrontHandler) GetPopularTags(c *gin.Context) {
	utils.SendListResponse(c, http.StatusOK, h.catalog.PopularTags(c.Request.Context()), nil)
}

// GetTag handles retrieving a single tag
// GET /api/v1/storefront/tags/:id
func (h *StorefrontHandler) GetTag(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	tag, err := h.catalog.Tag(c.Request.Context(), id)
	if err != nil {
		h.sendCatalogError(c, err, "Tag not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tag, "glyph": model.GlyphForTag(tag.Name)})
}

// GetRestaurant handles retrieving a single restaurant
// GET /api/v1/storefront/restaurants/:id
func (h *StorefrontHandler) GetRestaurant(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid restaurant ID")
		return
	}

	restaurant, err := h.catalog.Restaurant(c.Request.Context(), id)
	if err != nil {
		h.sendCatalogError(c, err, "Restaurant not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": restaurant})
}

type sortOption struct {
	Label     query.SortLabel `json:"label"`
	SortBy    query.SortField `json:"sortBy"`
	SortOrder query.SortOrder `json:"sortOrder"`
}

// GetSortOptions lists the fixed sort labels with their catalog mapping
// GET /api/v1/storefront/sort-options
func (h *StorefrontHandler) GetSortOptions(c *gin.Context) {
	labels := query.SortLabels()
	options := make([]sortOption, 0, len(labels))
	for _, label := range labels {
		by, order := query.SortFor(label)
		options = append(options, sortOption{Label: label, SortBy: by, SortOrder: order})
	}
	c.JSON(http.StatusOK, gin.H{"data": options, "default": query.SortMostPopular})
}

// GetGlyphs returns the tag glyph table
// GET /api/v1/storefront/glyphs
func (h *StorefrontHandler) GetGlyphs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": model.TagGlyphs(), "default": model.DefaultGlyph})
}

// GetCart returns the cart placeholder; ordering is not implemented
// GET /api/v1/storefront/cart
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": 0})
}

func (h *StorefrontHandler) sendCatalogError(c *gin.Context, err error, notFound string) {
	switch client.ErrorClass(err) {
	case client.ClassAPI:
		utils.SendErrorResponse(c, http.StatusNotFound, notFound)
	case client.ClassTransport, client.ClassDecode:
		utils.SendErrorResponse(c, http.StatusBadGateway, "Catalog service unavailable")
	default:
		h.logger.Error("Unexpected catalog error", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
