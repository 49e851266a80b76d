package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/ui"
)

const (
	errInternalServer     = "Internal server error"
	errPasswordMismatch   = "Passwords do not match!"
	errPasswordTooShort   = "Password must be at least 6 characters long!"
	errEmailTaken         = "User already exists with this email!"
	errInvalidCredentials = "Invalid email or password!"
	errProductNotFound    = "Product not found!"
	errCartEmpty          = "Your cart is empty!"
	errInvalidQuantity    = "Quantity must be at least 1"
	errEmptyQuery         = "Please enter a search term"
	errLoginRequired      = "Please sign in to continue!"
	errSignInToCheckout   = "Please sign in to checkout!"
	errInvalidLayout      = "Invalid layout"
)

// respondError maps domain errors onto status codes and user-facing
// messages. Anything unrecognised is logged and reported as a 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var lre *domain.LoginRequiredError
	switch {
	case errors.As(err, &lre):
		msg := errLoginRequired
		if op == "checkout" {
			msg = errSignInToCheckout
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg, "redirect": lre.Redirect})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
	case errors.Is(err, domain.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": errPasswordMismatch})
	case errors.Is(err, domain.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": errPasswordTooShort})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
	case errors.Is(err, domain.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": errCartEmpty})
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidQuantity})
	case errors.Is(err, domain.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyQuery})
	case errors.Is(err, ui.ErrInvalidLayout):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLayout})
	default:
		logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

func visitorFrom(c *gin.Context) domain.Visitor {
	return domain.Visitor{
		ClientID:   c.GetString("clientID"),
		CurrentURL: c.GetString("currentURL"),
	}
}
