package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
)

type CatalogUsecase struct {
	store *store.Store
}

func NewCatalogUsecase(s *store.Store) *CatalogUsecase {
	return &CatalogUsecase{store: s}
}

// Seed writes products as the catalog unless one is already stored.
func (u *CatalogUsecase) Seed(ctx context.Context, products []domain.Product) (bool, error) {
	seeded, err := u.store.Seed(ctx, products)
	if err != nil {
		return false, fmt.Errorf("seed catalog: %w", err)
	}
	return seeded, nil
}

func (u *CatalogUsecase) List(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if _, err := u.store.Shared().Get(ctx, store.KeyProducts, &products); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// Ready reports whether a non-empty catalog is stored.
func (u *CatalogUsecase) Ready(ctx context.Context) error {
	products, err := u.List(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return domain.ErrCatalogEmpty
	}
	return nil
}

func (u *CatalogUsecase) Get(ctx context.Context, id string) (*domain.Product, error) {
	products, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// Search matches query case-insensitively as a substring of the product name,
// or of the category when by is SearchByCategory.
func (u *CatalogUsecase) Search(ctx context.Context, query string, by domain.SearchField) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	products, err := u.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := []domain.Product{}
	for _, p := range products {
		field := p.Name
		if by == domain.SearchByCategory {
			field = p.Category
		}
		if strings.Contains(strings.ToLower(field), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}
