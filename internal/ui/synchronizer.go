package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/metrics"
)

type cartActions interface {
	Add(ctx context.Context, v domain.Visitor, productID string, quantity int) (*domain.Product, error)
	Remove(ctx context.Context, clientID, productID string) error
	Increase(ctx context.Context, clientID, productID string) error
	Decrease(ctx context.Context, clientID, productID string) error
	Checkout(ctx context.Context, v domain.Visitor) (domain.CartSummary, error)
	Count(ctx context.Context, clientID string) (int, error)
}

type favoriteActions interface {
	Toggle(ctx context.Context, v domain.Visitor, productID string) (bool, error)
	Remove(ctx context.Context, clientID, productID string) error
	IDs(ctx context.Context, clientID string) ([]string, error)
}

type sessionActions interface {
	SignOut(ctx context.Context, clientID string) (string, error)
	Navigation(ctx context.Context, clientID string) (domain.Navigation, error)
}

type productNames interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// View is everything the renderer repaints after an interaction. It is
// derived from the store on every call.
type View struct {
	CartCount      int               `json:"cart_count"`
	FavoritesCount int               `json:"favorites_count"`
	FavoriteIcons  map[string]bool   `json:"favorite_icons"`
	Navigation     domain.Navigation `json:"navigation"`
	Action         *Resolution       `json:"action,omitempty"`
	Notice         *Notice           `json:"notice,omitempty"`
	Redirect       string            `json:"redirect,omitempty"`
}

type clientLayout struct {
	registry *Registry
	touched  time.Time
}

// Synchronizer holds one layout registry per client and applies pointer
// interactions to that client's collections.
type Synchronizer struct {
	cart      cartActions
	favorites favoriteActions
	session   sessionActions
	products  productNames
	tolerance float64
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	layouts map[string]*clientLayout
}

func NewSynchronizer(cart cartActions, favorites favoriteActions, session sessionActions, products productNames, tolerance float64, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		cart:      cart,
		favorites: favorites,
		session:   session,
		products:  products,
		tolerance: tolerance,
		logger:    logger.With("component", "ui"),
		now:       time.Now,
		layouts:   make(map[string]*clientLayout),
	}
}

func (s *Synchronizer) layout(clientID string) *clientLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.layouts[clientID]
	if !ok {
		l = &clientLayout{registry: NewRegistry(s.tolerance)}
		s.layouts[clientID] = l
	}
	l.touched = s.now()
	return l
}

// Layout is the change notification from the renderer: the client's page
// was (re)rendered with these elements.
func (s *Synchronizer) Layout(ctx context.Context, clientID string, elements []Element) (View, error) {
	if err := s.layout(clientID).registry.Rebuild(elements); err != nil {
		return View{}, err
	}
	return s.View(ctx, clientID)
}

// Pointer resolves ev against the client's last layout and performs the
// action found there. A miss is not an error: the view comes back unchanged.
func (s *Synchronizer) Pointer(ctx context.Context, v domain.Visitor, ev PointerEvent) (View, error) {
	res, err := s.layout(v.ClientID).registry.Resolve(ev)
	if errors.Is(err, ErrNoTarget) {
		metrics.UIResolutionsTotal.WithLabelValues("none").Inc()
		return s.View(ctx, v.ClientID)
	}
	if err != nil {
		return View{}, err
	}
	metrics.UIResolutionsTotal.WithLabelValues(string(res.Strategy)).Inc()

	notice, redirect, err := s.dispatch(ctx, v, res.Element)

	var lre *domain.LoginRequiredError
	switch {
	case errors.As(err, &lre):
		redirect = lre.Redirect
		notice = nil
	case errors.Is(err, domain.ErrProductNotFound):
		notice = &Notice{Kind: NoticeError, Text: "Product not found!"}
	case errors.Is(err, domain.ErrCartEmpty):
		notice = &Notice{Kind: NoticeError, Text: "Your cart is empty!"}
	case err != nil:
		return View{}, fmt.Errorf("%s: %w", res.Element.Role, err)
	}

	view, err := s.View(ctx, v.ClientID)
	if err != nil {
		return View{}, err
	}
	view.Action = &res
	view.Notice = notice
	view.Redirect = redirect
	return view, nil
}

func (s *Synchronizer) dispatch(ctx context.Context, v domain.Visitor, e Element) (*Notice, string, error) {
	switch e.Role {
	case RoleAddToCart:
		p, err := s.cart.Add(ctx, v, e.ProductID, 1)
		if err != nil {
			return nil, "", err
		}
		return success(fmt.Sprintf("1 %s(s) added to cart!", p.Name)), "", nil

	case RoleToggleFavorite:
		on, err := s.favorites.Toggle(ctx, v, e.ProductID)
		if err != nil {
			return nil, "", err
		}
		return s.favoriteNotice(ctx, e.ProductID, on), "", nil

	case RoleRemoveFavorite:
		if err := s.favorites.Remove(ctx, v.ClientID, e.ProductID); err != nil {
			return nil, "", err
		}
		return s.favoriteNotice(ctx, e.ProductID, false), "", nil

	case RoleCartIncrease:
		return nil, "", s.cart.Increase(ctx, v.ClientID, e.ProductID)

	case RoleCartDecrease:
		return nil, "", s.cart.Decrease(ctx, v.ClientID, e.ProductID)

	case RoleCartRemove:
		if err := s.cart.Remove(ctx, v.ClientID, e.ProductID); err != nil {
			return nil, "", err
		}
		return success("Item removed from cart!"), "", nil

	case RoleCheckout:
		if _, err := s.cart.Checkout(ctx, v); err != nil {
			return nil, "", err
		}
		return success("Proceeding to checkout!"), "", nil

	case RoleSignOut:
		redirect, err := s.session.SignOut(ctx, v.ClientID)
		return nil, redirect, err
	}
	return nil, "", nil
}

func (s *Synchronizer) favoriteNotice(ctx context.Context, productID string, added bool) *Notice {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil
	}
	if added {
		return success(p.Name + " added to favorites!")
	}
	return success(p.Name + " removed from favorites!")
}

func success(text string) *Notice {
	return &Notice{Kind: NoticeSuccess, Text: text}
}

// View re-reads the client's collections and session.
func (s *Synchronizer) View(ctx context.Context, clientID string) (View, error) {
	count, err := s.cart.Count(ctx, clientID)
	if err != nil {
		return View{}, err
	}
	favs, err := s.favorites.IDs(ctx, clientID)
	if err != nil {
		return View{}, err
	}
	nav, err := s.session.Navigation(ctx, clientID)
	if err != nil {
		return View{}, err
	}

	icons := map[string]bool{}
	for _, id := range s.layout(clientID).registry.ProductIDs() {
		icons[id] = false
	}
	for _, id := range favs {
		if _, shown := icons[id]; shown {
			icons[id] = true
		}
	}

	return View{
		CartCount:      count,
		FavoritesCount: len(favs),
		FavoriteIcons:  icons,
		Navigation:     nav,
	}, nil
}

// Forget drops the layouts of clients not seen since before and reports how
// many were dropped.
func (s *Synchronizer) Forget(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, l := range s.layouts {
		if l.touched.Before(before) {
			delete(s.layouts, id)
			n++
		}
	}
	if n > 0 {
		s.logger.Debug("dropped idle layouts", "count", n)
	}
	return n
}

// Layouts reports how many clients currently have a cached layout.
func (s *Synchronizer) Layouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layouts)
}
