package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyQuery      = errors.New("search query is empty")
	ErrCatalogEmpty    = errors.New("catalog is empty")
)

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	OldPrice    *float64 `json:"oldPrice,omitempty"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

type SearchField string

const (
	SearchByName     SearchField = "name"
	SearchByCategory SearchField = "category"
)
