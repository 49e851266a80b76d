package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/metrics"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
)

type loginGate interface {
	RequireLogin(ctx context.Context, v domain.Visitor, action func(user *domain.User) error) error
}

type productFinder interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// CartUsecase reads the whole cart, changes it in memory and writes it back on
// every mutation. Concurrent writers to the same client race; the last write
// wins.
type CartUsecase struct {
	store       *store.Store
	gate        loginGate
	products    productFinder
	shippingFee float64
}

func NewCartUsecase(s *store.Store, gate loginGate, products productFinder, shippingFee float64) *CartUsecase {
	return &CartUsecase{store: s, gate: gate, products: products, shippingFee: shippingFee}
}

func (u *CartUsecase) Lines(ctx context.Context, clientID string) ([]domain.CartLine, error) {
	lines := []domain.CartLine{}
	if _, err := u.store.Client(clientID).Get(ctx, store.KeyCart, &lines); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return lines, nil
}

func (u *CartUsecase) save(ctx context.Context, clientID string, lines []domain.CartLine) error {
	if err := u.store.Client(clientID).Set(ctx, store.KeyCart, lines); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Add puts quantity units of a product into the cart of a logged-in visitor.
// An existing line keeps its original name, price and image snapshot.
func (u *CartUsecase) Add(ctx context.Context, v domain.Visitor, productID string, quantity int) (*domain.Product, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	var added *domain.Product
	err := u.gate.RequireLogin(ctx, v, func(_ *domain.User) error {
		product, err := u.products.Get(ctx, productID)
		if err != nil {
			return err
		}

		lines, err := u.Lines(ctx, v.ClientID)
		if err != nil {
			return err
		}

		found := false
		for i := range lines {
			if lines[i].ID == productID {
				lines[i].Quantity += quantity
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, domain.CartLine{
				ID:       product.ID,
				Name:     product.Name,
				Price:    product.Price,
				Image:    product.Image,
				Quantity: quantity,
			})
		}

		if err := u.save(ctx, v.ClientID, lines); err != nil {
			return err
		}
		added = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	return added, nil
}

// Remove drops the line for productID. Removing an absent line is a no-op
// write.
func (u *CartUsecase) Remove(ctx context.Context, clientID, productID string) error {
	lines, err := u.Lines(ctx, clientID)
	if err != nil {
		return err
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.ID != productID {
			kept = append(kept, l)
		}
	}

	if err := u.save(ctx, clientID, kept); err != nil {
		return err
	}
	if len(kept) < len(lines) {
		metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing line. Anything below one
// removes the line; an absent line is left absent.
func (u *CartUsecase) UpdateQuantity(ctx context.Context, clientID, productID string, quantity int) error {
	if quantity < 1 {
		return u.Remove(ctx, clientID, productID)
	}

	lines, err := u.Lines(ctx, clientID)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ID == productID {
			lines[i].Quantity = quantity
			if err := u.save(ctx, clientID, lines); err != nil {
				return err
			}
			metrics.CartMutationsTotal.WithLabelValues("update").Inc()
			return nil
		}
	}
	return nil
}

func (u *CartUsecase) Increase(ctx context.Context, clientID, productID string) error {
	return u.step(ctx, clientID, productID, 1)
}

func (u *CartUsecase) Decrease(ctx context.Context, clientID, productID string) error {
	return u.step(ctx, clientID, productID, -1)
}

func (u *CartUsecase) step(ctx context.Context, clientID, productID string, delta int) error {
	lines, err := u.Lines(ctx, clientID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l.ID == productID {
			return u.UpdateQuantity(ctx, clientID, productID, l.Quantity+delta)
		}
	}
	return nil
}

// Total is the sum of price times quantity over every line.
func (u *CartUsecase) Total(ctx context.Context, clientID string) (float64, error) {
	lines, err := u.Lines(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return subtotal(lines), nil
}

// Count is the number of units in the cart, shown on the cart badge.
func (u *CartUsecase) Count(ctx context.Context, clientID string) (int, error) {
	lines, err := u.Lines(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return itemCount(lines), nil
}

func (u *CartUsecase) Summary(ctx context.Context, clientID string) (domain.CartSummary, error) {
	lines, err := u.Lines(ctx, clientID)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return u.summarize(lines), nil
}

func (u *CartUsecase) summarize(lines []domain.CartLine) domain.CartSummary {
	sub := subtotal(lines)
	shipping := 0.0
	if sub > 0 {
		shipping = u.shippingFee
	}
	return domain.CartSummary{
		ItemCount:       itemCount(lines),
		Subtotal:        sub,
		Shipping:        shipping,
		FreeShipping:    shipping == 0,
		Total:           sub + shipping,
		CheckoutEnabled: len(lines) > 0,
	}
}

// Checkout empties the cart of a logged-in visitor and returns what was in
// it. No order is recorded.
func (u *CartUsecase) Checkout(ctx context.Context, v domain.Visitor) (domain.CartSummary, error) {
	lines, err := u.Lines(ctx, v.ClientID)
	if err != nil {
		return domain.CartSummary{}, err
	}
	if len(lines) == 0 {
		return domain.CartSummary{}, domain.ErrCartEmpty
	}

	summary := u.summarize(lines)
	err = u.gate.RequireLogin(ctx, v, func(_ *domain.User) error {
		return u.save(ctx, v.ClientID, []domain.CartLine{})
	})
	if err != nil {
		return domain.CartSummary{}, err
	}

	metrics.CheckoutsTotal.Inc()
	return summary, nil
}

func subtotal(lines []domain.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

func itemCount(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
