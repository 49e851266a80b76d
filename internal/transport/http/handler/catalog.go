package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
)

type catalogUsecaser interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string, by domain.SearchField) ([]domain.Product, error)
}

type favoriteChecker interface {
	IsFavorite(ctx context.Context, clientID, productID string) (bool, error)
}

type CatalogHandler struct {
	catalog   catalogUsecaser
	favorites favoriteChecker
	logger    *slog.Logger
}

func NewCatalogHandler(catalog catalogUsecaser, favorites favoriteChecker, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		favorites: favorites,
		logger:    logger.With("component", "catalog_handler"),
	}
}

type productDetailResponse struct {
	domain.Product
	IsFavorite bool `json:"is_favorite"`
}

// GET /products
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

type searchQuery struct {
	Q  string             `form:"q"`
	By domain.SearchField `form:"by" binding:"omitempty,oneof=name category"`
}

// GET /products/search?q=<text>&by=name|category
func (h *CatalogHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.By == "" {
		q.By = domain.SearchByName
	}

	products, err := h.catalog.Search(c.Request.Context(), q.Q, q.By)
	if err != nil {
		respondError(c, h.logger, "search products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q.Q, "by": q.By, "products": products})
}

// GET /products/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	product, err := h.catalog.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get product", err)
		return
	}

	fav, err := h.favorites.IsFavorite(ctx, c.GetString("clientID"), product.ID)
	if err != nil {
		respondError(c, h.logger, "get product", err)
		return
	}
	c.JSON(http.StatusOK, productDetailResponse{Product: *product, IsFavorite: fav})
}
