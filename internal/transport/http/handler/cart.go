package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
)

type cartUsecaser interface {
	Lines(ctx context.Context, clientID string) ([]domain.CartLine, error)
	Summary(ctx context.Context, clientID string) (domain.CartSummary, error)
	Add(ctx context.Context, v domain.Visitor, productID string, quantity int) (*domain.Product, error)
	Remove(ctx context.Context, clientID, productID string) error
	UpdateQuantity(ctx context.Context, clientID, productID string, quantity int) error
	Increase(ctx context.Context, clientID, productID string) error
	Decrease(ctx context.Context, clientID, productID string) error
	Checkout(ctx context.Context, v domain.Visitor) (domain.CartSummary, error)
}

type CartHandler struct {
	cart   cartUsecaser
	logger *slog.Logger
}

func NewCartHandler(cart cartUsecaser, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger.With("component", "cart_handler")}
}

type cartResponse struct {
	Items   []domain.CartLine  `json:"items"`
	Summary domain.CartSummary `json:"summary"`
	Message string             `json:"message,omitempty"`
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *CartHandler) respond(c *gin.Context, status int, message string) {
	ctx := c.Request.Context()
	clientID := c.GetString("clientID")

	lines, err := h.cart.Lines(ctx, clientID)
	if err != nil {
		respondError(c, h.logger, "load cart", err)
		return
	}
	summary, err := h.cart.Summary(ctx, clientID)
	if err != nil {
		respondError(c, h.logger, "cart summary", err)
		return
	}
	c.JSON(status, cartResponse{Items: lines, Summary: summary, Message: message})
}

// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	h.respond(c, http.StatusOK, "")
}

// POST /cart/items
// quantity defaults to 1.
func (h *CartHandler) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := h.cart.Add(c.Request.Context(), visitorFrom(c), req.ProductID, quantity)
	if err != nil {
		respondError(c, h.logger, "add to cart", err)
		return
	}
	h.respond(c, http.StatusOK, fmt.Sprintf("%d %s(s) added to cart!", quantity, product.Name))
}

// PATCH /cart/items/:id
// A quantity below 1 removes the line.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.cart.UpdateQuantity(c.Request.Context(), c.GetString("clientID"), c.Param("id"), *req.Quantity); err != nil {
		respondError(c, h.logger, "update quantity", err)
		return
	}
	h.respond(c, http.StatusOK, "")
}

// POST /cart/items/:id/increase
func (h *CartHandler) Increase(c *gin.Context) {
	if err := h.cart.Increase(c.Request.Context(), c.GetString("clientID"), c.Param("id")); err != nil {
		respondError(c, h.logger, "increase quantity", err)
		return
	}
	h.respond(c, http.StatusOK, "")
}

// POST /cart/items/:id/decrease
func (h *CartHandler) Decrease(c *gin.Context) {
	if err := h.cart.Decrease(c.Request.Context(), c.GetString("clientID"), c.Param("id")); err != nil {
		respondError(c, h.logger, "decrease quantity", err)
		return
	}
	h.respond(c, http.StatusOK, "")
}

// DELETE /cart/items/:id
func (h *CartHandler) Remove(c *gin.Context) {
	if err := h.cart.Remove(c.Request.Context(), c.GetString("clientID"), c.Param("id")); err != nil {
		respondError(c, h.logger, "remove from cart", err)
		return
	}
	h.respond(c, http.StatusOK, "Item removed from cart!")
}

// POST /cart/checkout
// Empties the cart. No order is created.
func (h *CartHandler) Checkout(c *gin.Context) {
	summary, err := h.cart.Checkout(c.Request.Context(), visitorFrom(c))
	if err != nil {
		respondError(c, h.logger, "checkout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proceeding to checkout!", "summary": summary})
}
