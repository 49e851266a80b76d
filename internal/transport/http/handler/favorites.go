package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
)

type favoritesUsecaser interface {
	Products(ctx context.Context, clientID string) ([]domain.Product, error)
	Add(ctx context.Context, v domain.Visitor, productID string) (*domain.Product, error)
	Remove(ctx context.Context, clientID, productID string) error
	Toggle(ctx context.Context, v domain.Visitor, productID string) (bool, error)
}

type productGetter interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type FavoritesHandler struct {
	favorites favoritesUsecaser
	products  productGetter
	logger    *slog.Logger
}

func NewFavoritesHandler(favorites favoritesUsecaser, products productGetter, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
		products:  products,
		logger:    logger.With("component", "favorites_handler"),
	}
}

type favoriteResponse struct {
	ProductID  string `json:"product_id"`
	IsFavorite bool   `json:"is_favorite"`
	Message    string `json:"message,omitempty"`
}

// GET /favorites
func (h *FavoritesHandler) List(c *gin.Context) {
	products, err := h.favorites.Products(c.Request.Context(), c.GetString("clientID"))
	if err != nil {
		respondError(c, h.logger, "list favorites", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// PUT /favorites/:id
func (h *FavoritesHandler) Add(c *gin.Context) {
	product, err := h.favorites.Add(c.Request.Context(), visitorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "add favorite", err)
		return
	}
	c.JSON(http.StatusOK, favoriteResponse{
		ProductID:  product.ID,
		IsFavorite: true,
		Message:    product.Name + " added to favorites!",
	})
}

// DELETE /favorites/:id
// Removing a product that is not a favorite succeeds silently.
func (h *FavoritesHandler) Remove(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.favorites.Remove(ctx, c.GetString("clientID"), id); err != nil {
		respondError(c, h.logger, "remove favorite", err)
		return
	}
	c.JSON(http.StatusOK, favoriteResponse{ProductID: id, Message: h.removedMessage(ctx, id)})
}

// POST /favorites/:id/toggle
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	on, err := h.favorites.Toggle(ctx, visitorFrom(c), id)
	if err != nil {
		respondError(c, h.logger, "toggle favorite", err)
		return
	}

	resp := favoriteResponse{ProductID: id, IsFavorite: on}
	if on {
		if p, err := h.products.Get(ctx, id); err == nil {
			resp.Message = p.Name + " added to favorites!"
		}
	} else {
		resp.Message = h.removedMessage(ctx, id)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FavoritesHandler) removedMessage(ctx context.Context, id string) string {
	p, err := h.products.Get(ctx, id)
	if err != nil {
		return ""
	}
	return p.Name + " removed from favorites!"
}
