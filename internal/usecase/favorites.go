package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/metrics"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
)

type productLister interface {
	productFinder
	List(ctx context.Context) ([]domain.Product, error)
}

// FavoritesUsecase keeps the set of favorite product ids of a client.
type FavoritesUsecase struct {
	store        *store.Store
	gate         loginGate
	products     productLister
	requireLogin bool
}

func NewFavoritesUsecase(s *store.Store, gate loginGate, products productLister, requireLogin bool) *FavoritesUsecase {
	return &FavoritesUsecase{store: s, gate: gate, products: products, requireLogin: requireLogin}
}

func (u *FavoritesUsecase) IDs(ctx context.Context, clientID string) ([]string, error) {
	ids := []string{}
	if _, err := u.store.Client(clientID).Get(ctx, store.KeyFavorites, &ids); err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return ids, nil
}

func (u *FavoritesUsecase) save(ctx context.Context, clientID string, ids []string) error {
	if err := u.store.Client(clientID).Set(ctx, store.KeyFavorites, ids); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

// Add marks a product as favorite. Adding a favorite twice leaves one entry.
func (u *FavoritesUsecase) Add(ctx context.Context, v domain.Visitor, productID string) (*domain.Product, error) {
	var added *domain.Product
	add := func(_ *domain.User) error {
		product, err := u.products.Get(ctx, productID)
		if err != nil {
			return err
		}
		ids, err := u.IDs(ctx, v.ClientID)
		if err != nil {
			return err
		}
		if !slices.Contains(ids, productID) {
			if err := u.save(ctx, v.ClientID, append(ids, productID)); err != nil {
				return err
			}
			metrics.FavoriteMutationsTotal.WithLabelValues("add").Inc()
		}
		added = product
		return nil
	}

	var err error
	if u.requireLogin {
		err = u.gate.RequireLogin(ctx, v, add)
	} else {
		err = add(nil)
	}
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (u *FavoritesUsecase) Remove(ctx context.Context, clientID, productID string) error {
	ids, err := u.IDs(ctx, clientID)
	if err != nil {
		return err
	}
	before := len(ids)
	ids = slices.DeleteFunc(ids, func(id string) bool { return id == productID })
	if err := u.save(ctx, clientID, ids); err != nil {
		return err
	}
	if len(ids) < before {
		metrics.FavoriteMutationsTotal.WithLabelValues("remove").Inc()
	}
	return nil
}

func (u *FavoritesUsecase) IsFavorite(ctx context.Context, clientID, productID string) (bool, error) {
	ids, err := u.IDs(ctx, clientID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, productID), nil
}

// Toggle removes a favorite or adds a non-favorite and reports whether the
// product is a favorite afterwards.
func (u *FavoritesUsecase) Toggle(ctx context.Context, v domain.Visitor, productID string) (bool, error) {
	member, err := u.IsFavorite(ctx, v.ClientID, productID)
	if err != nil {
		return false, err
	}
	if member {
		return false, u.Remove(ctx, v.ClientID, productID)
	}
	if _, err := u.Add(ctx, v, productID); err != nil {
		return false, err
	}
	return true, nil
}

func (u *FavoritesUsecase) Count(ctx context.Context, clientID string) (int, error) {
	ids, err := u.IDs(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Products returns the favorite products in catalog order.
func (u *FavoritesUsecase) Products(ctx context.Context, clientID string) ([]domain.Product, error) {
	ids, err := u.IDs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	all, err := u.products.List(ctx)
	if err != nil {
		return nil, err
	}
	favs := []domain.Product{}
	for _, p := range all {
		if slices.Contains(ids, p.ID) {
			favs = append(favs, p)
		}
	}
	return favs, nil
}
