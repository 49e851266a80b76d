package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/transport/http/handler"
)

type fakeCart struct {
	lines          func(ctx context.Context, clientID string) ([]domain.CartLine, error)
	summary        func(ctx context.Context, clientID string) (domain.CartSummary, error)
	add            func(ctx context.Context, v domain.Visitor, productID string, quantity int) (*domain.Product, error)
	remove         func(ctx context.Context, clientID, productID string) error
	updateQuantity func(ctx context.Context, clientID, productID string, quantity int) error
	increase       func(ctx context.Context, clientID, productID string) error
	decrease       func(ctx context.Context, clientID, productID string) error
	checkout       func(ctx context.Context, v domain.Visitor) (domain.CartSummary, error)
}

func (f *fakeCart) Lines(ctx context.Context, clientID string) ([]domain.CartLine, error) {
	if f.lines == nil {
		return []domain.CartLine{}, nil
	}
	return f.lines(ctx, clientID)
}

func (f *fakeCart) Summary(ctx context.Context, clientID string) (domain.CartSummary, error) {
	if f.summary == nil {
		return domain.CartSummary{FreeShipping: true}, nil
	}
	return f.summary(ctx, clientID)
}

func (f *fakeCart) Add(ctx context.Context, v domain.Visitor, productID string, quantity int) (*domain.Product, error) {
	return f.add(ctx, v, productID, quantity)
}

func (f *fakeCart) Remove(ctx context.Context, clientID, productID string) error {
	return f.remove(ctx, clientID, productID)
}

func (f *fakeCart) UpdateQuantity(ctx context.Context, clientID, productID string, quantity int) error {
	return f.updateQuantity(ctx, clientID, productID, quantity)
}

func (f *fakeCart) Increase(ctx context.Context, clientID, productID string) error {
	return f.increase(ctx, clientID, productID)
}

func (f *fakeCart) Decrease(ctx context.Context, clientID, productID string) error {
	return f.decrease(ctx, clientID, productID)
}

func (f *fakeCart) Checkout(ctx context.Context, v domain.Visitor) (domain.CartSummary, error) {
	return f.checkout(ctx, v)
}

func newCartEngine(f *fakeCart) *gin.Engine {
	h := handler.NewCartHandler(f, discard)
	r := gin.New()
	r.Use(withClient)
	r.GET("/cart", h.Get)
	r.POST("/cart/items", h.Add)
	r.PATCH("/cart/items/:id", h.UpdateQuantity)
	r.POST("/cart/items/:id/increase", h.Increase)
	r.POST("/cart/items/:id/decrease", h.Decrease)
	r.DELETE("/cart/items/:id", h.Remove)
	r.POST("/cart/checkout", h.Checkout)
	return r
}

func TestCartAdd_DefaultsQuantityToOne(t *testing.T) {
	var gotQty int
	f := &fakeCart{
		add: func(_ context.Context, _ domain.Visitor, id string, q int) (*domain.Product, error) {
			gotQty = q
			return &domain.Product{ID: id, Name: "RGB Mechanical Keyboard"}, nil
		},
	}
	w := do(newCartEngine(f), http.MethodPost, "/cart/items", `{"product_id":"4"}`)
	wantStatus(t, w, http.StatusOK)

	if gotQty != 1 {
		t.Errorf("quantity = %d, want 1", gotQty)
	}
	if got := decode(t, w)["message"]; got != "1 RGB Mechanical Keyboard(s) added to cart!" {
		t.Errorf("message = %v", got)
	}
}

func TestCartAdd_LoginRequired_Returns401WithRedirect(t *testing.T) {
	f := &fakeCart{
		add: func(context.Context, domain.Visitor, string, int) (*domain.Product, error) {
			return nil, &domain.LoginRequiredError{Redirect: "signin.html"}
		},
	}
	w := do(newCartEngine(f), http.MethodPost, "/cart/items", `{"product_id":"4","quantity":2}`)
	wantStatus(t, w, http.StatusUnauthorized)
	if got := decode(t, w)["redirect"]; got != "signin.html" {
		t.Errorf("redirect = %v", got)
	}
}

func TestCartAdd_UnknownProduct_Returns404(t *testing.T) {
	f := &fakeCart{
		add: func(context.Context, domain.Visitor, string, int) (*domain.Product, error) {
			return nil, domain.ErrProductNotFound
		},
	}
	w := do(newCartEngine(f), http.MethodPost, "/cart/items", `{"product_id":"99"}`)
	wantStatus(t, w, http.StatusNotFound)
	if got := decode(t, w)["error"]; got != "Product not found!" {
		t.Errorf("error = %v", got)
	}
}

func TestCartUpdateQuantity_RequiresQuantity(t *testing.T) {
	w := do(newCartEngine(&fakeCart{}), http.MethodPatch, "/cart/items/1", `{}`)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestCartUpdateQuantity_ZeroIsPassedThrough(t *testing.T) {
	got := -1
	f := &fakeCart{
		updateQuantity: func(_ context.Context, clientID, id string, q int) error {
			if clientID != testClientID || id != "1" {
				t.Errorf("client/id = %s/%s", clientID, id)
			}
			got = q
			return nil
		},
	}
	w := do(newCartEngine(f), http.MethodPatch, "/cart/items/1", `{"quantity":0}`)
	wantStatus(t, w, http.StatusOK)
	if got != 0 {
		t.Errorf("quantity = %d, want 0", got)
	}
}

func TestCartRemove(t *testing.T) {
	f := &fakeCart{
		remove: func(context.Context, string, string) error { return nil },
	}
	w := do(newCartEngine(f), http.MethodDelete, "/cart/items/3", "")
	wantStatus(t, w, http.StatusOK)
	if got := decode(t, w)["message"]; got != "Item removed from cart!" {
		t.Errorf("message = %v", got)
	}
}

func TestCartIncreaseDecrease(t *testing.T) {
	var calls []string
	f := &fakeCart{
		increase: func(_ context.Context, _, id string) error { calls = append(calls, "+"+id); return nil },
		decrease: func(_ context.Context, _, id string) error { calls = append(calls, "-"+id); return nil },
	}
	r := newCartEngine(f)
	wantStatus(t, do(r, http.MethodPost, "/cart/items/2/increase", ""), http.StatusOK)
	wantStatus(t, do(r, http.MethodPost, "/cart/items/2/decrease", ""), http.StatusOK)
	if len(calls) != 2 || calls[0] != "+2" || calls[1] != "-2" {
		t.Errorf("calls = %v", calls)
	}
}

func TestCheckout(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"empty cart", domain.ErrCartEmpty, http.StatusBadRequest, "error", "Your cart is empty!"},
		{"no session", &domain.LoginRequiredError{Redirect: "signin.html"}, http.StatusUnauthorized, "error", "Please sign in to checkout!"},
		{"store failure", errors.New("boom"), http.StatusInternalServerError, "error", "Internal server error"},
		{"success", nil, http.StatusOK, "message", "Proceeding to checkout!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeCart{
				checkout: func(context.Context, domain.Visitor) (domain.CartSummary, error) {
					return domain.CartSummary{ItemCount: 1}, tt.err
				},
			}
			w := do(newCartEngine(f), http.MethodPost, "/cart/checkout", "")
			wantStatus(t, w, tt.wantStatus)
			if got := decode(t, w)[tt.wantKey]; got != tt.wantValue {
				t.Errorf("%s = %v, want %q", tt.wantKey, got, tt.wantValue)
			}
		})
	}
}
