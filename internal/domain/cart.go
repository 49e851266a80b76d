package domain

import "errors"

var (
	ErrCartEmpty       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartLine snapshots the product's name, price and image at the time it was
// first added. Quantity is always >= 1.
type CartLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

type CartSummary struct {
	ItemCount       int     `json:"item_count"`
	Subtotal        float64 `json:"subtotal"`
	Shipping        float64 `json:"shipping"`
	FreeShipping    bool    `json:"free_shipping"`
	Total           float64 `json:"total"`
	CheckoutEnabled bool    `json:"checkout_enabled"`
}
